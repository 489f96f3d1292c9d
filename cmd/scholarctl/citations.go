package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scholarport/internal/model"
)

func newCitationsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "citations",
		Aliases: []string{"citation", "c"},
		Short:   "Manage the citations of an article",
	}
	cmd.AddCommand(
		newCitationsListCmd(e),
		newCitationsAddCmd(e),
		newCitationsUpdateCmd(e),
		newCitationsDeleteCmd(e),
		newCitationsPurgeCmd(e),
	)
	return cmd
}

func newCitationsListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list <article-id>",
		Short: "List the citations of an article, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := e.api.ListCitations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cs)
		},
	}
}

type citationFlags struct {
	authors, title, doi, notes string
	year                       int
	noYear                     bool
}

func (f *citationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.authors, "authors", "", "cited authors")
	cmd.Flags().StringVar(&f.title, "title", "", "cited title")
	cmd.Flags().IntVar(&f.year, "year", 0, "publication year of the cited work")
	cmd.Flags().StringVar(&f.doi, "doi", "", "DOI")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free notes")
}

func newCitationsAddCmd(e *env) *cobra.Command {
	var f citationFlags
	cmd := &cobra.Command{
		Use:   "add <article-id>",
		Short: "Add a citation to an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.CitationInput{
				ArticleID: args[0],
				CitationDraft: model.CitationDraft{
					Authors: f.authors,
					Title:   f.title,
					DOI:     f.doi,
					Notes:   f.notes,
				},
			}
			if cmd.Flags().Changed("year") {
				in.Year = model.SomeYear(f.year)
			}

			c, err := e.store.AddCitation(cmd.Context(), in)
			if err != nil {
				return reported(err)
			}
			return printJSON(cmd.OutOrStdout(), c)
		},
	}
	f.register(cmd)
	return cmd
}

func newCitationsUpdateCmd(e *env) *cobra.Command {
	var f citationFlags
	cmd := &cobra.Command{
		Use:   "update <citation-id>",
		Short: "Change the given fields of a citation",
		Long:  "Change the given fields of a citation. An empty --doi or --notes clears the value, as does --no-year for the year.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			if changed("year") && f.noYear {
				return fmt.Errorf("--year and --no-year are mutually exclusive")
			}

			var u model.CitationUpdate
			if changed("authors") {
				u.Authors = &f.authors
			}
			if changed("title") {
				u.Title = &f.title
			}
			switch {
			case changed("year"):
				u.Year = model.SomeYear(f.year)
			case f.noYear:
				u.Year = model.NoYear()
			}
			if changed("doi") {
				u.DOI = model.SomeString(f.doi)
			}
			if changed("notes") {
				u.Notes = model.SomeString(f.notes)
			}

			c, err := e.store.EditCitation(cmd.Context(), args[0], u)
			if err != nil {
				return reported(err)
			}
			return printJSON(cmd.OutOrStdout(), c)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.noYear, "no-year", false, "clear the year")
	return cmd
}

func newCitationsDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <citation-id>",
		Short: "Delete one citation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reported(e.store.RemoveCitation(cmd.Context(), args[0]))
		},
	}
}

func newCitationsPurgeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <article-id>",
		Short: "Delete every citation of an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := e.api.DeleteCitations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d citations\n", n)
			return nil
		},
	}
}
