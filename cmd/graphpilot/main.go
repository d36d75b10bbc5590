package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/graphpilot/internal/adapter/driven/graph"
	"github.com/ericfisherdev/graphpilot/internal/adapter/driven/memory"
	"github.com/ericfisherdev/graphpilot/internal/adapter/driven/sqlstore"
	"github.com/ericfisherdev/graphpilot/internal/adapter/driving/cli"
	"github.com/ericfisherdev/graphpilot/internal/application"
	"github.com/ericfisherdev/graphpilot/internal/config"
	"github.com/ericfisherdev/graphpilot/internal/domain/port/driven"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// storage bundles the driven stores selected by configuration.
type storage struct {
	users       driven.UserStore
	credentials driven.CredentialStore
	activities  driven.ActivityStore
	close       func() error
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"durable_storage", cfg.UsesDurableStorage(),
		"graph_url", cfg.GraphURL,
		"http_timeout", cfg.HTTPTimeout,
		"repeat_delay", cfg.RepeatDelay,
		"username", cfg.Username,
		"encryption", cfg.SecretKey != nil,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, cfg, os.Args[1:], os.Stdin, os.Stdout)
}

// execute wires storage, the Graph client and the services for cfg, then runs
// args through the command tree.
func execute(ctx context.Context, cfg *config.Config, args []string, in io.Reader, out io.Writer) error {
	// 3. Open storage and run migrations.
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.close(); closeErr != nil {
			slog.Error("error closing storage", "error", closeErr)
		}
	}()

	// 4. Resolve the acting user.
	user, err := store.users.Ensure(ctx, cfg.Username)
	if err != nil {
		return fmt.Errorf("resolving user %q: %w", cfg.Username, err)
	}

	// 5. Create the Graph API client.
	client, err := graph.NewClient(cfg.GraphURL, cfg.HTTPTimeout)
	if err != nil {
		return err
	}

	// 6. Wire services, seeding the credential from the environment if given.
	creds := application.NewCredentialService(store.credentials, client, user.ID)
	if cfg.AccessToken != "" {
		if err := creds.Seed(ctx, cfg.AccessToken); err != nil {
			return err
		}
	}
	actions := application.NewActionService(creds, client, store.activities, user.ID, cfg.RepeatDelay)

	// 7. Execute the command line.
	root := cli.NewRootCommand(creds, actions, version)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}

// openStorage opens the database named by cfg, or falls back to process
// memory when none is configured.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if !cfg.UsesDurableStorage() {
		slog.Warn("no database configured; tokens and activity are kept in memory for this run only",
			"token_seeded", cfg.AccessToken != "")
		mem := memory.NewStore()
		return &storage{
			users:       mem,
			credentials: mem,
			activities:  mem,
			close:       func() error { return nil },
		}, nil
	}

	db, err := sqlstore.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "dialect", db.Dialect())

	if err := sqlstore.RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("migrations complete")

	credentialRepo, err := sqlstore.NewCredentialRepo(db, cfg.SecretKey)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &storage{
		users:       sqlstore.NewUserRepo(db),
		credentials: credentialRepo,
		activities:  sqlstore.NewActivityRepo(db),
		close:       db.Close,
	}, nil
}
