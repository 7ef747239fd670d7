package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const (
	SitesSourceFile     = "file"
	SitesSourcePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	Map      MapConfig
	Sites    SitesConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SitesCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
}

// MapConfig - параметры карты и сессий
type MapConfig struct {
	ZoomThreshold  float64
	SessionIdleTTL time.Duration
	ReaperInterval time.Duration
}

// SitesConfig - источник реестра площадок и обработка треков
type SitesConfig struct {
	Source                string
	File                  string
	KMLDir                string
	TrackMaxPoints        int
	SimplifyPrecision     float64
	SimplifyPrecisionStep float64
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SitesCacheTTL: time.Duration(v.GetInt("SITES_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
		},
		Map: MapConfig{
			ZoomThreshold:  v.GetFloat64("MAP_ZOOM_THRESHOLD"),
			SessionIdleTTL: time.Duration(v.GetInt("MAP_SESSION_IDLE_TTL")) * time.Second,
			ReaperInterval: time.Duration(v.GetInt("MAP_REAPER_INTERVAL")) * time.Second,
		},
		Sites: SitesConfig{
			Source:                v.GetString("SITES_SOURCE"),
			File:                  v.GetString("SITES_FILE"),
			KMLDir:                v.GetString("SITES_KML_DIR"),
			TrackMaxPoints:        v.GetInt("SITES_TRACK_MAX_POINTS"),
			SimplifyPrecision:     v.GetFloat64("SITES_SIMPLIFY_PRECISION"),
			SimplifyPrecisionStep: v.GetFloat64("SITES_SIMPLIFY_STEP"),
		},
	}

	// Set default values if not provided
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Cache.SitesCacheTTL == 0 {
		cfg.Cache.SitesCacheTTL = time.Hour
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "map-viewport-workers"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Map.ZoomThreshold == 0 {
		cfg.Map.ZoomThreshold = 10
	}
	if cfg.Map.SessionIdleTTL == 0 {
		cfg.Map.SessionIdleTTL = 30 * time.Minute
	}
	if cfg.Map.ReaperInterval == 0 {
		cfg.Map.ReaperInterval = time.Minute
	}
	if cfg.Sites.Source == "" {
		cfg.Sites.Source = SitesSourceFile
	}
	if cfg.Sites.File == "" {
		cfg.Sites.File = "data/parkruns.json"
	}
	if cfg.Sites.TrackMaxPoints == 0 {
		cfg.Sites.TrackMaxPoints = 100
	}
	if cfg.Sites.SimplifyPrecision == 0 {
		cfg.Sites.SimplifyPrecision = 0.00001
	}
	if cfg.Sites.SimplifyPrecisionStep == 0 {
		cfg.Sites.SimplifyPrecisionStep = 0.000001
	}

	if cfg.Sites.Source != SitesSourceFile && cfg.Sites.Source != SitesSourcePostgres {
		return nil, fmt.Errorf("unknown SITES_SOURCE %q", cfg.Sites.Source)
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
