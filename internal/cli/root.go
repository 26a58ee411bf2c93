// Package cli is the terminal presentation layer: thin cobra commands
// that drive the stores and render the derived board. All state and
// policy live in the stores; commands only collect input and print.
package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/devtrack/taskboard/internal/client"
	"github.com/devtrack/taskboard/internal/notify"
	"github.com/devtrack/taskboard/internal/repository"
	"github.com/devtrack/taskboard/internal/store"
)

var errNotLoggedIn = errors.New("not logged in (run `taskboard login` first)")

type Config struct {
	APIBaseURL  string
	StateDBPath string
	HTTPTimeout time.Duration
}

// App wires one command invocation: state db, API client with the
// persisted cookie jar restored, notification center, and both stores.
type App struct {
	cfg      Config
	logger   *log.Logger
	db       *sql.DB
	api      *client.Client
	cookies  *repository.CookieRepository
	notifier *notify.Center

	Auth  *store.AuthStore
	Tasks *store.TaskStore
}

func newApp(cfg Config, logger *log.Logger) (*App, error) {
	db, err := repository.InitDB(cfg.StateDBPath)
	if err != nil {
		return nil, err
	}

	api, err := client.New(cfg.APIBaseURL)
	if err != nil {
		db.Close()
		return nil, err
	}
	api.SetTimeout(cfg.HTTPTimeout)

	cookies := repository.NewCookieRepository(db)
	saved, err := cookies.Load()
	if err != nil {
		logger.Printf("restore cookies: %v", err)
	} else {
		api.SetCookies(saved)
	}

	notifier := notify.NewCenter(logger)
	sessions := repository.NewSessionRepository(db)

	return &App{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		api:      api,
		cookies:  cookies,
		notifier: notifier,
		Auth:     store.NewAuthStore(api, sessions, notifier, logger),
		Tasks:    store.NewTaskStore(api, notifier, logger),
	}, nil
}

// Close persists the session cookies and releases everything.
func (a *App) Close() error {
	a.Auth.Close()
	if err := a.cookies.Save(a.api.Cookies()); err != nil {
		a.logger.Printf("persist cookies: %v", err)
	}
	return a.db.Close()
}

// requireUser is the guard for commands that need an identity.
func (a *App) requireUser() error {
	if a.Auth.User() == nil {
		return errNotLoggedIn
	}
	return nil
}

func (a *App) printNotifications(cmd *cobra.Command) {
	for _, n := range a.notifier.Flush() {
		prefix := okStyle.Render("✓")
		if n.Level == notify.LevelFailure {
			prefix = failStyle.Render("✗")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", prefix, n.Message)
	}
}

// Execute runs the taskboard CLI.
func Execute(cfg Config, logger *log.Logger) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	root := &cobra.Command{
		Use:           "taskboard",
		Short:         "Task-tracking dashboard for managers and developers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.Tasks.Bind(cmd.Context(), app.Auth)
			app.Auth.Init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.printNotifications(cmd)
		},
	}

	root.AddCommand(
		newRegisterCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newProfileCmd(app),
		newBoardCmd(app),
		newTaskCmd(app),
		newTeamCmd(app),
	)

	if err := root.Execute(); err != nil {
		// Notifications for the failed command would otherwise be lost.
		app.printNotifications(root)
		return err
	}
	return nil
}
