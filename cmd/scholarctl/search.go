package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"scholarport/internal/clientsync"
	"scholarport/internal/model"
)

const searchHelp = `type a term to search, ":c N" toggles citations of result N, ":q" quits`

func newArticlesSearchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Search articles interactively",
		Long:  "Search articles interactively. Each input line replaces the search term; the list refreshes once typing pauses.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &searchSession{out: cmd.OutOrStdout()}

			// The shared store has no change callback; the session needs one.
			e.store.Close()
			e.store = clientsync.NewStore(e.api,
				clientsync.WithDebounce(e.cfg.Debounce),
				clientsync.WithLogger(e.log),
				clientsync.WithNotifier(stderrNotifier(cmd.ErrOrStderr())),
				clientsync.WithOnChange(s.render),
			)
			s.view = e.store.View()

			fmt.Fprintln(cmd.ErrOrStderr(), searchHelp)
			if err := e.store.Load(cmd.Context()); err != nil {
				return reported(err)
			}

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := sc.Text()
				switch {
				case line == ":q":
					return nil
				case strings.HasPrefix(line, ":c "):
					n, err := strconv.Atoi(strings.TrimSpace(line[3:]))
					if err != nil || !s.toggle(n) {
						fmt.Fprintf(cmd.ErrOrStderr(), "error: no result %q\n", strings.TrimSpace(line[3:]))
					}
				default:
					e.store.SetSearch(line)
				}
			}
			if err := sc.Err(); err != nil {
				return err
			}
			return reported(e.store.Flush(cmd.Context()))
		},
	}
}

// searchSession renders the result list. Renders come from the store's
// timer goroutine as well as from the input loop.
type searchSession struct {
	mu   sync.Mutex
	out  io.Writer
	view *clientsync.ViewState
	last []model.Article
}

func (s *searchSession) render(list []model.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = list
	s.print()
}

// toggle flips citation visibility of the 1-based result n and re-renders.
func (s *searchSession) toggle(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 || n > len(s.last) {
		return false
	}
	s.view.ToggleCitations(s.last[n-1].ID)
	s.print()
	return true
}

func (s *searchSession) print() {
	if len(s.last) == 0 {
		fmt.Fprintln(s.out, "no articles")
		return
	}
	for i, a := range s.last {
		fmt.Fprintf(s.out, "%d. %s (%s) %s [%d citations]\n", i+1, a.Title, a.PublicationDate, a.Authors, len(a.Citations))
		if !s.view.CitationsVisible(a.ID) {
			continue
		}
		for _, c := range a.Citations {
			year := ""
			if c.Year != nil {
				year = fmt.Sprintf(" (%d)", *c.Year)
			}
			fmt.Fprintf(s.out, "   - %s: %s%s\n", c.Authors, c.Title, year)
		}
	}
}
