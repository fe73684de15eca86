package config

import (
	"fmt"
	"strings"

	"github.com/artmart-next/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Database    DatabaseConfig    `mapstructure:"database"`
	UserJWT     JWTConfig         `mapstructure:"user_jwt"`
	Session     SessionConfig     `mapstructure:"session"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Upload      UploadConfig      `mapstructure:"upload"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Security    SecurityConfig    `mapstructure:"security"`
	Captcha     CaptchaConfig     `mapstructure:"captcha"`
	Paystack    PaystackConfig    `mapstructure:"paystack"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Events      EventsConfig      `mapstructure:"events"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Web         WebConfig         `mapstructure:"web"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres / mysql
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	ExpireHours int `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// UploadConfig 文件上传配置
type UploadConfig struct {
	Dir               string   `mapstructure:"dir"`
	MaxSize           int64    `mapstructure:"max_size"`
	AllowedTypes      []string `mapstructure:"allowed_types"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	MaxWidth          int      `mapstructure:"max_width"`
	MaxHeight         int      `mapstructure:"max_height"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
	PasswordPolicy PasswordPolicyConfig `mapstructure:"password_policy"`
}

// LoginRateLimitConfig 登录限流配置
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
}

// PasswordPolicyConfig 密码策略配置
type PasswordPolicyConfig struct {
	MinLength int `mapstructure:"min_length"`
}

// CaptchaConfig 图片验证码配置
type CaptchaConfig struct {
	SignIn        bool `mapstructure:"sign_in"`
	Length        int  `mapstructure:"length"`
	Width         int  `mapstructure:"width"`
	Height        int  `mapstructure:"height"`
	NoiseCount    int  `mapstructure:"noise_count"`
	ShowLine      int  `mapstructure:"show_line"`
	ExpireSeconds int  `mapstructure:"expire_seconds"`
	MaxStore      int  `mapstructure:"max_store"`
}

// PaystackConfig Paystack 配置
type PaystackConfig struct {
	SecretKey        string  `mapstructure:"secret_key"`
	APIBaseURL       string  `mapstructure:"api_base_url"`
	PercentageCharge float64 `mapstructure:"percentage_charge"`
	Country          string  `mapstructure:"country"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds"`
}

// MarketplaceConfig 交易平台配置
type MarketplaceConfig struct {
	Currency           string  `mapstructure:"currency"`
	PlatformFeePercent float64 `mapstructure:"platform_fee_percent"`
}

// EventsConfig 领域事件配置
type EventsConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Kafka   KafkaConfig `mapstructure:"kafka"`
}

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Addr    string `mapstructure:"addr"` // 为空时挂载在 API 端口
}

// MetricsPath 指标路径，默认 /metrics
func (c MetricsConfig) MetricsPath() string {
	path := strings.TrimSpace(c.Path)
	if path == "" {
		return "/metrics"
	}
	return path
}

// WebConfig 前端跳转配置
type WebConfig struct {
	SignInPath      string `mapstructure:"sign_in_path"`
	ArtistSetupPath string `mapstructure:"artist_setup_path"`
	CookieDomain    string `mapstructure:"cookie_domain"`
	CookieSecure    bool   `mapstructure:"cookie_secure"`
}

// Load 从 .env 与 config.yml 加载配置
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debugw("config_dotenv_skipped", "error", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("./etc")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // server.port -> SERVER_PORT

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("config unmarshal failed: %w", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/artmart.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("user_jwt.secret", "user-change-me-in-production")
	v.SetDefault("user_jwt.expire_hours", 168)
	v.SetDefault("session.expire_hours", 168)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "am")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_size", 10485760)
	v.SetDefault("upload.allowed_types", []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	})
	v.SetDefault("upload.allowed_extensions", []string{
		".jpg",
		".jpeg",
		".png",
		".gif",
		".webp",
	})
	v.SetDefault("upload.max_width", 6000)
	v.SetDefault("upload.max_height", 6000)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Origin",
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 5)
	v.SetDefault("security.password_policy.min_length", 8)
	v.SetDefault("captcha.sign_in", false)
	v.SetDefault("captcha.length", 5)
	v.SetDefault("captcha.width", 240)
	v.SetDefault("captcha.height", 80)
	v.SetDefault("captcha.noise_count", 2)
	v.SetDefault("captcha.show_line", 2)
	v.SetDefault("captcha.expire_seconds", 300)
	v.SetDefault("captcha.max_store", 10240)
	v.SetDefault("paystack.secret_key", "")
	v.SetDefault("paystack.api_base_url", "https://api.paystack.co")
	v.SetDefault("paystack.percentage_charge", 10)
	v.SetDefault("paystack.country", "nigeria")
	v.SetDefault("paystack.timeout_seconds", 12)
	v.SetDefault("marketplace.currency", "NGN")
	v.SetDefault("marketplace.platform_fee_percent", 10)
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("events.kafka.topic", "artmart.orders")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("web.sign_in_path", "/sign-in")
	v.SetDefault("web.artist_setup_path", "/onboarding/artist")
	v.SetDefault("web.cookie_domain", "")
	v.SetDefault("web.cookie_secure", false)
}
