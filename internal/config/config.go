package config

import (
	"time"

	pkgconfig "github.com/biruk-1/Health-coach-sub000/pkg/config"
	"github.com/biruk-1/Health-coach-sub000/pkg/storage"
)

type Config struct {
	Server    ServerConfig
	Remote    RemoteConfig
	Directory DirectoryConfig
	Tabular   TabularConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Snapshot  SnapshotConfig
	Events    EventsConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Favorites FavoritesConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// RemoteConfig configures the upstream directory API. An empty BaseURL
// disables the remote tier.
type RemoteConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LookupTimeout  time.Duration `mapstructure:"lookup_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	Burst          int           `mapstructure:"burst"`
}

type DirectoryConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SyntheticSize int           `mapstructure:"synthetic_size"`
	Seed          int64         `mapstructure:"seed"`
	// EmptyResultIsFallbackTrigger treats an empty remote page as degraded service.
	EmptyResultIsFallbackTrigger bool `mapstructure:"empty_result_is_fallback_trigger"`
}

// TabularConfig points the bulk loader at a CSV object instead of the remote API.
type TabularConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Key     string `mapstructure:"key"`
}

type StorageConfig struct {
	Driver string              `mapstructure:"driver"` // "local", "s3"
	Local  storage.LocalConfig `mapstructure:"local"`
	S3     storage.S3Config    `mapstructure:"s3"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SnapshotConfig struct {
	Key string        `mapstructure:"key"`
	TTL time.Duration `mapstructure:"ttl"`
}

type EventsConfig struct {
	Channel string `mapstructure:"channel"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// AuthConfig configures bearer tokens. An empty JWTSecret disables the
// favorites routes.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type FavoritesConfig struct {
	MaxPerUser int `mapstructure:"max_per_user"`
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8096)
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.request_timeout", "10s")
	v.SetDefault("remote.lookup_timeout", "5s")
	v.SetDefault("remote.rate_limit", 20.0)
	v.SetDefault("remote.burst", 40)
	v.SetDefault("directory.ttl", "5m")
	v.SetDefault("directory.synthetic_size", 5638)
	v.SetDefault("directory.seed", 42)
	v.SetDefault("directory.empty_result_is_fallback_trigger", false)
	v.SetDefault("tabular.enabled", false)
	v.SetDefault("tabular.key", "health-coaches.csv")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", "./data")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("snapshot.key", "coach-directory:snapshot")
	v.SetDefault("snapshot.ttl", "24h")
	v.SetDefault("events.channel", "coach-directory.events")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "coach_directory")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "./data/coach_directory.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "coach-directory")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("favorites.max_per_user", 200)
	v.SetDefault("log.level", "info")

	// Bind environment variables
	if err := pkgconfig.BindEnvs(v, map[string]string{
		"server.port":                                "PORT",
		"remote.base_url":                            "REMOTE_BASE_URL",
		"remote.request_timeout":                     "REMOTE_REQUEST_TIMEOUT",
		"remote.lookup_timeout":                      "REMOTE_LOOKUP_TIMEOUT",
		"remote.rate_limit":                          "REMOTE_RATE_LIMIT",
		"directory.ttl":                              "DIRECTORY_TTL",
		"directory.synthetic_size":                   "DIRECTORY_SYNTHETIC_SIZE",
		"directory.seed":                             "DIRECTORY_SEED",
		"directory.empty_result_is_fallback_trigger": "DIRECTORY_EMPTY_FALLBACK",
		"tabular.enabled":                            "TABULAR_ENABLED",
		"tabular.key":                                "TABULAR_KEY",
		"storage.driver":                             "STORAGE_DRIVER",
		"storage.local.base_path":                    "STORAGE_LOCAL_PATH",
		"storage.s3.endpoint":                        "S3_ENDPOINT",
		"storage.s3.bucket":                          "S3_BUCKET",
		"storage.s3.access_key_id":                   "S3_ACCESS_KEY_ID",
		"storage.s3.secret_access_key":               "S3_SECRET_ACCESS_KEY",
		"redis.enabled":                              "REDIS_ENABLED",
		"redis.address":                              "REDIS_ADDRESS",
		"redis.password":                             "REDIS_PASSWORD",
		"database.driver":                            "DB_DRIVER",
		"database.host":                              "DB_HOST",
		"database.port":                              "DB_PORT",
		"database.user":                              "DB_USER",
		"database.password":                          "DB_PASSWORD",
		"database.dbname":                            "DB_NAME",
		"database.file_path":                         "DB_FILE_PATH",
		"auth.jwt_secret":                            "JWT_SECRET",
		"log.level":                                  "LOG_LEVEL",
	}); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
