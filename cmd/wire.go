package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	catalogstatic "github.com/bnema/punini-cli/internal/adapters/catalog/static"
	codestatic "github.com/bnema/punini-cli/internal/adapters/codes/static"
	"github.com/bnema/punini-cli/internal/adapters/credentials/allowlist"
	filestore "github.com/bnema/punini-cli/internal/adapters/kv/file"
	"github.com/bnema/punini-cli/internal/adapters/kv/memory"
	redisstore "github.com/bnema/punini-cli/internal/adapters/kv/redis"
	tomlstore "github.com/bnema/punini-cli/internal/adapters/kv/toml"
	"github.com/bnema/punini-cli/internal/application"
	"github.com/bnema/punini-cli/internal/config"
	"github.com/bnema/punini-cli/internal/ports"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var errNotSignedIn = fmt.Errorf("not signed in: run %q", "punini login")

type app struct {
	cfg         config.Config
	logger      *slog.Logger
	ledger      *application.Ledger
	store       *application.StoreService
	showSpinner bool
	now         func() time.Time
	closers     []func() error
}

type wireOptions struct {
	configPath string
	verbose    bool
	logOutput  io.Writer
}

func wireApp(ctx context.Context, opts wireOptions) (*app, error) {
	v := viper.New()
	if opts.configPath != "" {
		v.SetConfigFile(opts.configPath)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if opts.verbose {
		level = slog.LevelDebug
	}
	logOutput := opts.logOutput
	if logOutput == nil {
		logOutput = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level}))

	kv, closer, err := wireStore(ctx, cfg, v)
	if err != nil {
		return nil, fmt.Errorf("wire %s store: %w", cfg.Store.Backend, err)
	}
	logger.Debug("store ready", "backend", cfg.Store.Backend)

	verifier, err := allowlist.NewVerifier(cfg.Auth.Users, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("wire credential verifier: %w", err), closer())
	}
	logger.Debug("allow-list loaded", "users", verifier.Users())

	ledger := application.NewLedger(
		kv,
		verifier,
		codestatic.NewTable(codestatic.DefaultCodes()),
		ports.SystemClock{},
		application.LedgerConfig{
			StartingBalance: cfg.Ledger.StartingBalance,
			UsernameKey:     cfg.Ledger.UsernameKey,
			BalanceKey:      cfg.Ledger.BalanceKey,
			LoginDelay:      cfg.Login.Delay,
			RedeemDelay:     cfg.Redeem.Delay,
			Logger:          logger.With("component", "ledger"),
		},
	)
	if _, err := ledger.Restore(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("restore session: %w", err), closer())
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		ledger:      ledger,
		store:       application.NewStoreService(catalogstatic.NewDefaultCatalog(), ledger),
		showSpinner: cfg.Login.Delay > 0 || cfg.Redeem.Delay > 0,
		now:         time.Now,
		closers:     []func() error{closer},
	}, nil
}

func wireStore(ctx context.Context, cfg config.Config, v *viper.Viper) (ports.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewStore(), noop, nil
	case config.BackendFile:
		return filestore.NewStore(cfg.Store.Path), noop, nil
	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		store, err := redisstore.NewStore(ctx, &redisstore.Config{
			RedisClient: client,
			Prefix:      cfg.Store.Redis.Prefix,
		})
		if err != nil {
			return nil, noop, errors.Join(err, client.Close())
		}
		return store, client.Close, nil
	default:
		store, err := tomlstore.NewStore(v)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	}
}

func (a *app) close() error {
	var err error
	for _, closer := range a.closers {
		err = errors.Join(err, closer())
	}
	a.closers = nil

	return err
}
