package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samvad-hq/picnic-web/internal/debounce"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName    string `mapstructure:"app_name"`
	Env        string `mapstructure:"app_env"`
	LogLevel   string `mapstructure:"log_level"`
	ConfigFile string `mapstructure:"config_file"`
	HTTPAddr   string `mapstructure:"http_addr"`
	SiteFile   string `mapstructure:"site_file"`

	APIBaseURL        string        `mapstructure:"api_base_url"`
	APITimeoutSeconds int64         `mapstructure:"api_timeout_seconds"`
	APICacheSeconds   int64         `mapstructure:"api_cache_seconds"`
	APITimeout        time.Duration `mapstructure:"-"`
	APIRevalidate     time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	CacheTTLSeconds        int64         `mapstructure:"cache_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	CacheTTL               time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	SessionCookie     string        `mapstructure:"session_cookie"`
	SessionTTLSeconds int64         `mapstructure:"session_ttl_seconds"`
	SessionTTL        time.Duration `mapstructure:"-"`

	LoginDelayMs   int64         `mapstructure:"login_delay_ms"`
	LoginDelay     time.Duration `mapstructure:"-"`
	MockUsername   string        `mapstructure:"mock_username"`
	MockPassword   string        `mapstructure:"mock_password"`
	ToastDismissMs int64         `mapstructure:"toast_dismiss_ms"`
	ToastDismiss   time.Duration `mapstructure:"-"`

	PublishersFile   string        `mapstructure:"publishers_file"`
	ReloadDebounceMs int64         `mapstructure:"reload_debounce_ms"`
	ReloadDebounce   time.Duration `mapstructure:"-"`

	v *viper.Viper
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := strings.TrimSpace(v.GetString("config_file")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "picnic-web")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("config_file", "")
	v.SetDefault("http_addr", ":3000")
	v.SetDefault("site_file", "./configs/site.yaml")
	v.SetDefault("api_base_url", "https://jsonplaceholder.typicode.com")
	v.SetDefault("api_timeout_seconds", 15)
	v.SetDefault("api_cache_seconds", 60)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/picnic.db")
	v.SetDefault("cache_ttl_seconds", int64((5*time.Minute)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((10*time.Minute)/time.Second))
	v.SetDefault("session_cookie", "picnic_session")
	v.SetDefault("session_ttl_seconds", int64((30*time.Minute)/time.Second))
	v.SetDefault("login_delay_ms", 1000)
	v.SetDefault("mock_username", "picnic")
	v.SetDefault("mock_password", "picnic123")
	v.SetDefault("toast_dismiss_ms", 2500)
	v.SetDefault("publishers_file", "")
	v.SetDefault("reload_debounce_ms", 500)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.v = v

	if cfg.APITimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid api_timeout_seconds (must be positive seconds)")
	}
	if cfg.APICacheSeconds < 0 {
		return nil, fmt.Errorf("invalid api_cache_seconds (must not be negative)")
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutSeconds) * time.Second
	cfg.APIRevalidate = time.Duration(cfg.APICacheSeconds) * time.Second

	if cfg.CacheTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid cache_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	if cfg.SessionTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid session_ttl_seconds (must be positive seconds)")
	}
	cfg.SessionTTL = time.Duration(cfg.SessionTTLSeconds) * time.Second

	if cfg.LoginDelayMs < 0 {
		return nil, fmt.Errorf("invalid login_delay_ms (must not be negative)")
	}
	cfg.LoginDelay = time.Duration(cfg.LoginDelayMs) * time.Millisecond

	if cfg.ToastDismissMs <= 0 {
		return nil, fmt.Errorf("invalid toast_dismiss_ms (must be positive milliseconds)")
	}
	cfg.ToastDismiss = time.Duration(cfg.ToastDismissMs) * time.Millisecond

	if cfg.ReloadDebounceMs <= 0 {
		cfg.ReloadDebounceMs = 500
	}
	cfg.ReloadDebounce = time.Duration(cfg.ReloadDebounceMs) * time.Millisecond

	if strings.TrimSpace(cfg.MockUsername) == "" {
		return nil, fmt.Errorf("mock_username must not be empty")
	}
	return &cfg, nil
}

// Watch reloads the config file on change and hands the result to onChange once a
// burst of file events has settled. onErr receives decode failures. The returned
// func stops delivering reloads. It is a no-op without a config file.
func (c *Config) Watch(onChange func(*Config), onErr func(error)) (stop func()) {
	if c == nil || c.v == nil || strings.TrimSpace(c.ConfigFile) == "" {
		return func() {}
	}

	var once sync.Once
	reload := debounce.Func(func(fsnotify.Event) {
		next, err := decode(c.v)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		onChange(next)
	}, c.ReloadDebounce)

	c.v.OnConfigChange(reload.Call)
	c.v.WatchConfig()

	return func() { once.Do(reload.Stop) }
}
