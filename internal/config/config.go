package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvPrefix = "PUNINI"

	configDir  = ".punini"
	configName = "config"
	configType = "toml"
)

const (
	BackendTOML   = "toml"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Store  StoreConfig
	Ledger LedgerConfig
	Login  DelayConfig
	Redeem DelayConfig
	Auth   AuthConfig
	Log    LogConfig
}

type StoreConfig struct {
	Backend string
	// Path is the state file for the toml backend and the entry directory for
	// the file backend.
	Path  string
	Redis RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type LedgerConfig struct {
	StartingBalance int64
	UsernameKey     string
	BalanceKey      string
}

type DelayConfig struct {
	Delay time.Duration
}

type AuthConfig struct {
	BcryptCost int
	// Users maps a username to a plaintext password or a bcrypt hash.
	Users map[string]string
}

type LogConfig struct {
	Level slog.Level
}

// Load reads ~/.punini/config.toml unless v already names a config file,
// layers PUNINI_* environment variables on top and validates the result.
// A missing default config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, filepath.Join(homeDir, configDir)); err != nil {
		return Config{}, err
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("store.backend")))
	switch backend {
	case BackendTOML, BackendFile, BackendRedis, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unsupported store backend %q", backend)
	}
	v.SetDefault("store.path", defaultStorePath(homeDir, backend))
	storePath := expandHome(v.GetString("store.path"), homeDir)
	v.Set("store.path", storePath)

	startingBalance, err := cast.ToInt64E(v.Get("ledger.starting_balance"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ledger.starting_balance: %w", err)
	}
	if startingBalance < 0 {
		return Config{}, fmt.Errorf("ledger.starting_balance must not be negative, got %d", startingBalance)
	}

	loginDelay, err := parseDelay(v, "login.delay")
	if err != nil {
		return Config{}, err
	}
	redeemDelay, err := parseDelay(v, "redeem.delay")
	if err != nil {
		return Config{}, err
	}

	cost, err := cast.ToIntE(v.Get("auth.bcrypt_cost"))
	if err != nil {
		return Config{}, fmt.Errorf("parse auth.bcrypt_cost: %w", err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("auth.bcrypt_cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}

	users := v.GetStringMapString("auth.users")
	if len(users) == 0 {
		return Config{}, errors.New("auth.users must name at least one user")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return Config{}, fmt.Errorf("parse log.level: %w", err)
	}

	db, err := cast.ToIntE(v.Get("store.redis.db"))
	if err != nil {
		return Config{}, fmt.Errorf("parse store.redis.db: %w", err)
	}

	return Config{
		Store: StoreConfig{
			Backend: backend,
			Path:    storePath,
			Redis: RedisConfig{
				Addr:     v.GetString("store.redis.addr"),
				Password: v.GetString("store.redis.password"),
				DB:       db,
				Prefix:   v.GetString("store.redis.prefix"),
			},
		},
		Ledger: LedgerConfig{
			StartingBalance: startingBalance,
			UsernameKey:     v.GetString("ledger.username_key"),
			BalanceKey:      v.GetString("ledger.balance_key"),
		},
		Login:  DelayConfig{Delay: loginDelay},
		Redeem: DelayConfig{Delay: redeemDelay},
		Auth:   AuthConfig{BcryptCost: cost, Users: users},
		Log:    LogConfig{Level: level},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", BackendTOML)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "punini:")
	v.SetDefault("ledger.starting_balance", 2500)
	v.SetDefault("ledger.username_key", "punini-user")
	v.SetDefault("ledger.balance_key", "punini-balance")
	v.SetDefault("login.delay", "1s")
	v.SetDefault("redeem.delay", "1s")
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("auth.users", map[string]string{
		"traveler": "pisang123",
		"owner":    "admin123",
	})
	v.SetDefault("log.level", "warn")
}

func readConfigFile(v *viper.Viper, dir string) error {
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}

func parseDelay(v *viper.Viper, key string) (time.Duration, error) {
	delay, err := cast.ToDurationE(v.Get(key))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if delay < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, delay)
	}

	return delay, nil
}

func defaultStorePath(homeDir, backend string) string {
	if backend == BackendFile {
		return filepath.Join(homeDir, configDir, "state")
	}

	return filepath.Join(homeDir, configDir, "state.toml")
}

func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}
