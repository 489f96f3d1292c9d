package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scholarport/internal/client"
	"scholarport/internal/clientsync"
	"scholarport/internal/config"
	"scholarport/internal/logging"
)

// env is what every subcommand works with, built once in PersistentPreRunE.
type env struct {
	cfg   *config.ClientConfig
	log   *zap.Logger
	api   *client.Client
	store *clientsync.Store
}

type rootFlags struct {
	url      string
	timeout  time.Duration
	logLevel string
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		e     env
	)

	cmd := &cobra.Command{
		Use:           "scholarctl",
		Short:         "Manage a ScholarPort portfolio",
		Long:          "Manage the articles and citations of a ScholarPort portfolio from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("url") {
				cfg.BaseURL = flags.url
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = flags.timeout
			}

			e.cfg = cfg
			e.log = logging.NewWithWriter(cmd.ErrOrStderr(), flags.logLevel, time.Local)
			e.api = client.New(cfg.BaseURL, cfg.Timeout)
			e.store = clientsync.NewStore(e.api,
				clientsync.WithDebounce(cfg.Debounce),
				clientsync.WithLogger(e.log),
				clientsync.WithNotifier(stderrNotifier(cmd.ErrOrStderr())),
			)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.store != nil {
				e.store.Close()
			}
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&flags.url, "url", "", "server base URL (default $SCHOLARPORT_URL)")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "request timeout (default $SCHOLARPORT_TIMEOUT)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "error", "log level written to stderr")

	cmd.AddCommand(
		newArticlesCmd(&e),
		newCitationsCmd(&e),
		newBackupCmd(&e),
		newExportCmd(&e),
	)
	return cmd
}

// stderrNotifier prints store notices as single lines. Successes are
// prefixed with "ok", failures with "error".
func stderrNotifier(w io.Writer) clientsync.Notifier {
	return clientsync.NotifierFunc(func(n clientsync.Notice) {
		prefix := "ok"
		if n.Level == clientsync.LevelError {
			prefix = "error"
		}
		fmt.Fprintf(w, "%s: %s\n", prefix, n.Message)
	})
}

// notified marks an error the store already reported through its notifier.
type notified struct{ error }

func (n notified) Unwrap() error { return n.error }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return notified{err}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
