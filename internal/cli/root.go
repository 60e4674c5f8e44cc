// Package cli wires the journal commands: auth flows, scriptable entry
// operations, and the default interactive TUI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"journal-cli/internal/api"
	"journal-cli/internal/config"
	"journal-cli/internal/logging"
	"journal-cli/internal/session"
	"journal-cli/internal/suggest"
	"journal-cli/internal/tui"
	"journal-cli/internal/workspace"
)

type App struct {
	APIURL   string
	StateDir string
	Verbose  bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "journal",
		Short:        "Journaling client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive journal
  journal

  # Sign in first
  journal login you@example.com

  # Scriptable commands
  journal entries list
  journal entries add "Long day, but the demo landed."
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "Backend origin (default: $JOURNAL_API_URL or "+config.DefaultAPIURL+")")
	cmd.PersistentFlags().StringVar(&app.StateDir, "state-dir", "", "Durable state dir (default: $JOURNAL_STATE_DIR or ~/.journal)")
	cmd.PersistentFlags().BoolVar(&app.Verbose, "verbose", false, "Log debug detail to stderr")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newSignupCmd(app))
	cmd.AddCommand(newVerifyCmd(app))
	cmd.AddCommand(newResendOTPCmd(app))
	cmd.AddCommand(newForgotPasswordCmd(app))
	cmd.AddCommand(newResetPasswordCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newEntriesCmd(app))
	cmd.AddCommand(newProfileCmd(app))
	cmd.AddCommand(newPrefsCmd(app))

	return cmd
}

// env is everything a command needs after bootstrap: config, logger, the
// session stack, and the authenticated client/workspace on top of it.
type env struct {
	cfg      *config.Config
	log      logging.Logger
	logClose io.Closer
	store    *session.TokenStore
	sessions *session.Manager
	guard    *session.Guard
	client   *api.Client
	ws       *workspace.Workspace

	// redirect captures the login route handed out when the guard
	// invalidates the session, so commands can print the sign-in hint.
	redirect string
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
	if e.logClose != nil {
		e.logClose.Close()
	}
}

// bootstrap builds the full client stack. The TUI owns the terminal, so
// it logs to a file under the state dir; plain commands log to stderr.
func bootstrap(ctx context.Context, app *App, forTUI bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if app.APIURL != "" {
		cfg.APIURL = app.APIURL
	}
	if app.StateDir != "" {
		cfg.StateDir = app.StateDir
	}

	level := slog.LevelWarn
	if app.Verbose {
		level = slog.LevelDebug
	}

	e := &env{cfg: cfg}
	if forTUI {
		log, closer, err := logging.NewFile(filepath.Join(cfg.StateDir, "journal.log"), level)
		if err != nil {
			return nil, err
		}
		e.log = log
		e.logClose = closer
	} else {
		e.log = logging.NewStderr(level)
	}

	store, err := session.OpenTokenStore(ctx, cfg.StateDir)
	if err != nil {
		e.close()
		return nil, err
	}
	e.store = store

	sessions, err := session.NewManager(ctx, store)
	if err != nil {
		e.close()
		return nil, err
	}
	e.sessions = sessions

	e.guard = session.NewGuard(sessions, nil, func(redirect string) {
		e.redirect = redirect
	})
	e.client = api.NewClient(cfg.APIURL, sessions, e.guard, e.log)

	var suggester suggest.TitleSuggester
	if s, err := suggest.NewArkSuggester(ctx, cfg); err == nil {
		suggester = s
	} else {
		e.log.Debug(ctx, "title suggester disabled", "reason", err)
	}

	e.ws = workspace.New(e.client, suggester, e.log, cfg.WeekStart)
	return e, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	e, err := bootstrap(ctx, app, true)
	if err != nil {
		return err
	}
	defer e.close()

	email := ""
	if cred := e.sessions.Get(); cred != nil {
		email = cred.OwnerEmail
	}

	ended, err := tui.Run(e.ws, e.guard, e.log, email)
	if err != nil {
		return err
	}
	if ended {
		fmt.Fprintln(cmd.ErrOrStderr(), "Session expired. Run `journal login <email>` to sign in again.")
	}
	return nil
}

// friendlyErr rewrites the session sentinels into an actionable message;
// everything else passes through.
func friendlyErr(err error) error {
	if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrUnauthorized) {
		return errors.New("not signed in (or session expired); run `journal login <email>`")
	}
	return err
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}
