package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/storefront/internal/constants"
)

type Application struct {
	Env           string `mapstructure:"env"             json:"env"`
	Host          string `mapstructure:"host"            json:"host"`
	LogPath       string `mapstructure:"log_path"        json:"log_path"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb" json:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups" json:"log_max_backups"`
	Port          int    `mapstructure:"port"            json:"port"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Catalog struct {
	BaseURL            string        `mapstructure:"base_url"             json:"base_url"`
	Timeout            time.Duration `mapstructure:"timeout"              json:"timeout"`
	ProductsStaleTime  time.Duration `mapstructure:"products_stale_time"  json:"products_stale_time"`
	ProductStaleTime   time.Duration `mapstructure:"product_stale_time"   json:"product_stale_time"`
	CategoryStaleTime  time.Duration `mapstructure:"category_stale_time"  json:"category_stale_time"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures" json:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `mapstructure:"breaker_open_timeout" json:"breaker_open_timeout"`
}

type Cart struct {
	StorageKey string `mapstructure:"storage_key" json:"storage_key"`
}

type Notification struct {
	TTL time.Duration `mapstructure:"ttl" json:"ttl"`
}

type Checkout struct {
	ProcessingDelay time.Duration `mapstructure:"processing_delay" json:"processing_delay"`
}

type Otel struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Host    string `mapstructure:"host"    json:"host"`
	Port    int    `mapstructure:"port"    json:"port"`
}

type Config struct {
	Application  `mapstructure:"application"  json:"application"`
	Cache        `mapstructure:"cache"        json:"cache"`
	Catalog      `mapstructure:"catalog"      json:"catalog"`
	Cart         `mapstructure:"cart"         json:"cart"`
	Notification `mapstructure:"notification" json:"notification"`
	Checkout     `mapstructure:"checkout"     json:"checkout"`
	Otel         `mapstructure:"otel"         json:"otel"`
}

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "production")
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("application.log_path", "/var/log/storefront.log")
	v.SetDefault("application.log_max_size_mb", 100)
	v.SetDefault("application.log_max_backups", 3)

	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.database", 0)

	v.SetDefault("catalog.base_url", "https://fakestoreapi.com")
	v.SetDefault("catalog.timeout", 10*time.Second)
	v.SetDefault("catalog.products_stale_time", 5*time.Minute)
	v.SetDefault("catalog.product_stale_time", 10*time.Minute)
	v.SetDefault("catalog.category_stale_time", 30*time.Minute)
	v.SetDefault("catalog.breaker_max_failures", 5)
	v.SetDefault("catalog.breaker_open_timeout", 30*time.Second)

	v.SetDefault("cart.storage_key", "cart-storage")
	v.SetDefault("notification.ttl", 3*time.Second)
	v.SetDefault("checkout.processing_delay", 2*time.Second)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)
}

// Load reads env/<filename>.yaml on top of the defaults. A missing file is not
// an error; environment variables such as CATALOG_BASE_URL override both.
func Load(c context.Context, filename string) (*Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "config Load").
		Str(constants.KEY_PROCESS, "reading config").
		Str("filename", filename).
		Logger()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(filename)
	v.AddConfigPath("./env")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	logger.Info().Msg("reading config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			err = fmt.Errorf("failed reading config with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Warn().Err(err).Msg("config file not found, using defaults")
	}
	logger.Info().Msg("read config")

	logger = logger.With().Str(constants.KEY_PROCESS, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		err = fmt.Errorf("failed unmarshaling config with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("unmarshaled config")

	return &cfg, nil
}

func Get(c context.Context, filename string) *Config {
	once.Do(func() {
		cfg, err := Load(c, filename)
		if err != nil {
			zerolog.Ctx(c).Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
	})
	return config
}
