package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"scholarport/internal/model"
)

func newArticlesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"article", "a"},
		Short:   "List, search and edit articles",
	}
	cmd.AddCommand(
		newArticlesListCmd(e),
		newArticlesGetCmd(e),
		newArticlesCreateCmd(e),
		newArticlesUpdateCmd(e),
		newArticlesDeleteCmd(e),
		newArticlesSearchCmd(e),
	)
	return cmd
}

func newArticlesListCmd(e *env) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles, newest publication first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e.store.SetSearch(search)
			if err := e.store.Flush(cmd.Context()); err != nil {
				return reported(err)
			}
			return printJSON(cmd.OutOrStdout(), e.store.Articles())
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by text or publication year")
	return cmd
}

func newArticlesGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one article with its citations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.api.GetArticle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a)
		},
	}
}

type articleFlags struct {
	title, authors, abstract, fullText, date, doi string
}

func (f *articleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "article title")
	cmd.Flags().StringVar(&f.authors, "authors", "", "authors")
	cmd.Flags().StringVar(&f.abstract, "abstract", "", "abstract")
	cmd.Flags().StringVar(&f.fullText, "full-text", "", "full text")
	cmd.Flags().StringVar(&f.date, "date", "", "publication date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.doi, "doi", "", "DOI")
}

func newArticlesCreateCmd(e *env) *cobra.Command {
	var (
		f     articleFlags
		cites []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an article, optionally with citations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.ArticleInput{
				Title:    f.title,
				Authors:  f.authors,
				Abstract: f.abstract,
				FullText: f.fullText,
				DOI:      f.doi,
			}
			if f.date != "" {
				d, err := model.ParseDate(f.date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				in.PublicationDate = &d
			}
			for _, raw := range cites {
				d, err := parseCitation(raw)
				if err != nil {
					return err
				}
				in.Citations = append(in.Citations, d)
			}

			a, err := e.store.CreateArticle(cmd.Context(), in)
			if err != nil {
				return reported(err)
			}
			return printJSON(cmd.OutOrStdout(), a)
		},
	}
	f.register(cmd)
	cmd.Flags().StringArrayVar(&cites, "cite", nil, `citation as "authors|title[|year]", repeatable`)
	return cmd
}

func newArticlesUpdateCmd(e *env) *cobra.Command {
	var f articleFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u model.ArticleUpdate
			set := func(name string, v string) *string {
				if !cmd.Flags().Changed(name) {
					return nil
				}
				return &v
			}
			u.Title = set("title", f.title)
			u.Authors = set("authors", f.authors)
			u.Abstract = set("abstract", f.abstract)
			u.FullText = set("full-text", f.fullText)
			u.DOI = set("doi", f.doi)
			if cmd.Flags().Changed("date") {
				d, err := model.ParseDate(f.date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				u.PublicationDate = &d
			}

			a, err := e.store.UpdateArticle(cmd.Context(), args[0], u)
			if err != nil {
				return reported(err)
			}
			return printJSON(cmd.OutOrStdout(), a)
		},
	}
	f.register(cmd)
	return cmd
}

func newArticlesDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article and all of its citations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reported(e.store.DeleteArticle(cmd.Context(), args[0]))
		},
	}
}

// parseCitation reads "authors|title" with an optional third year field.
func parseCitation(raw string) (model.CitationDraft, error) {
	parts := strings.Split(raw, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return model.CitationDraft{}, fmt.Errorf("--cite %q: want authors|title[|year]", raw)
	}
	d := model.CitationDraft{
		Authors: strings.TrimSpace(parts[0]),
		Title:   strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
		y, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return model.CitationDraft{}, fmt.Errorf("--cite %q: year: %w", raw, err)
		}
		d.Year = model.SomeYear(y)
	}
	return d, nil
}
