package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/budget-ledger/api"
	"github.com/carson-networks/budget-ledger/internal/auth"
	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/recurrence"
	"github.com/carson-networks/budget-ledger/internal/service"
	"github.com/carson-networks/budget-ledger/internal/session"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

func main() {
	logger := logging.SetupLogging()

	app := &cli.App{
		Name:  "budget-ledger",
		Usage: "personal finance ledger with recurring subscriptions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a YAML config file",
				EnvVars: []string{"BUDGET_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: func(c *cli.Context) error { return serve(c, logger) },
			},
			{
				Name:  "materialize",
				Usage: "run one materialization pass for a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Required: true, Usage: "user UUID"},
					&cli.TimestampFlag{Name: "now", Layout: time.RFC3339, Usage: "pass time, defaults to the current time"},
					&cli.BoolFlag{Name: "dump", Usage: "print the created transactions"},
				},
				Action: func(c *cli.Context) error { return materialize(c, logger) },
			},
			{
				Name:  "token",
				Usage: "issue a bearer token for a user with a fresh session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Required: true, Usage: "user UUID"},
				},
				Action: func(c *cli.Context) error { return token(c, logger) },
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.WithError(err).Fatal("budget-ledger exited")
	}
}

func loadConfig(c *cli.Context, logger *logrus.Logger) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	logging.SetLevel(logger, cfg.Log.Level)
	return cfg, nil
}

func newMaterializer(cfg config.MaterializerConfig, logger *logrus.Logger) (*recurrence.Materializer, *time.Location, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	policy, err := recurrence.ParseTimestampPolicy(cfg.TimestampPolicy)
	if err != nil {
		return nil, nil, err
	}
	return recurrence.NewMaterializer(logger, recurrence.Options{
		Location:        loc,
		TimestampPolicy: policy,
		LegacyMatch:     cfg.LegacyMatch,
	}), loc, nil
}

func openStorage(cfg *config.Config, logger *logrus.Logger) (*storage.Storage, error) {
	store, err := storage.NewStorage(cfg.Postgres)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(store.DB, logger); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func serve(c *cli.Context, logger *logrus.Logger) error {
	logger.Info("budget-ledger starting")

	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	materializer, loc, err := newMaterializer(cfg.Materializer, logger)
	if err != nil {
		return err
	}

	store, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	delegator := operator.NewOperatorDelegator(store, logger, cfg.Operator.Workers, cfg.Operator.QueueSize)
	delegator.Start()

	sessions := session.NewManager(logger, cfg.Session.TTL, service.NewMaterializeRunner(delegator, materializer))
	rest := api.Rest{
		Logger:  logger,
		Config:  cfg.Server,
		Service: service.NewService(store, delegator, sessions, loc),
		Tokens:  auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		Storage: store,
	}

	g, ctx := errgroup.WithContext(c.Context)
	g.Go(func() error {
		return rest.Serve(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		delegator.Stop()
		return nil
	})
	return g.Wait()
}

func materialize(c *cli.Context, logger *logrus.Logger) error {
	userID, err := uuid.FromString(c.String("user"))
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}
	now := time.Now()
	if ts := c.Timestamp("now"); ts != nil {
		now = *ts
	}

	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}
	materializer, _, err := newMaterializer(cfg.Materializer, logger)
	if err != nil {
		return err
	}
	store, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	delegator := operator.NewOperatorDelegator(store, logger, 1, 1)
	delegator.Start()
	defer delegator.Stop()

	action := &actions.MaterializeSubscriptions{Materializer: materializer, UserID: userID, Now: now}
	if err := delegator.Process(c.Context, action); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"userID":  userID.String(),
		"created": action.Result.Count(),
		"skipped": len(action.Result.Skipped),
	}).Info("Materialize.Complete")
	if c.Bool("dump") {
		spew.Fdump(os.Stdout, action.Result.Created)
	}
	return nil
}

func token(c *cli.Context, logger *logrus.Logger) error {
	userID, err := uuid.FromString(c.String("user"))
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}
	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	identity := auth.Identity{UserID: userID, SessionID: uuid.Must(uuid.NewV4())}
	signed, expiresAt, err := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL).Issue(identity)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"sessionID": identity.SessionID.String(),
		"expiresAt": expiresAt.Format(time.RFC3339),
	}).Info("Token.Issued")
	fmt.Println(signed)
	return nil
}
