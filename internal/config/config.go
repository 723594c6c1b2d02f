package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	commoncfg "github.com/NariCare/NariCare-App-sub000/common/config"
)

// Config naricare-data（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr        string
		MaxBodySize int64
	}
	Database commoncfg.DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig
	Mail     MailConfig
	Log      struct {
		Level  string
		Format string
	}
}

// RedisConfig 联系人缓存 + 危机事件 stream
type RedisConfig struct {
	commoncfg.RedisConfig
	Enabled         bool
	ContactCacheTTL time.Duration
	CrisisStream    string
	CrisisStreamMax int64 // stream 近似最大长度，0 表示不裁剪
}

// MQTTConfig 危机事件推送（护理团队看板订阅）
type MQTTConfig struct {
	commoncfg.MQTTConfig
	Enabled     bool
	TopicPrefix string
}

// MailConfig SendGrid 邮件配置
type MailConfig struct {
	Enabled   bool
	BaseURL   string
	APIKey    string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.MaxBodySize = int64(parseInt(getEnv("HTTP_MAX_BODY_BYTES", "1048576"), 1<<20))

	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "naricare",
		SSLMode:  "disable",
		MaxConns: 20,
		MaxIdle:  5,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis.Enabled = parseBool(getEnv("REDIS_ENABLED", "true"), true)
	cfg.Redis.RedisConfig = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.RedisConfig.LoadFromEnv("REDIS")
	cfg.Redis.ContactCacheTTL = time.Duration(parseInt(getEnv("CONTACT_CACHE_TTL_SEC", "300"), 300)) * time.Second
	cfg.Redis.CrisisStream = getEnv("CRISIS_STREAM", "crisis:interventions")
	cfg.Redis.CrisisStreamMax = int64(parseInt(getEnv("CRISIS_STREAM_MAXLEN", "10000"), 10000))

	// MQTT 默认禁用
	cfg.MQTT.Enabled = parseBool(getEnv("MQTT_ENABLED", "false"), false)
	cfg.MQTT.MQTTConfig = commoncfg.MQTTConfig{
		Broker:   "tcp://localhost:1883",
		ClientID: "naricare-data",
		QoS:      1,
	}
	cfg.MQTT.MQTTConfig.LoadFromEnv("MQTT")
	cfg.MQTT.TopicPrefix = strings.TrimSuffix(getEnv("MQTT_TOPIC_PREFIX", "naricare/crisis"), "/")

	cfg.Mail.Enabled = parseBool(getEnv("MAIL_ENABLED", "false"), false)
	cfg.Mail.BaseURL = getEnv("SENDGRID_BASE_URL", "https://api.sendgrid.com")
	cfg.Mail.APIKey = getEnv("SENDGRID_API_KEY", "")
	cfg.Mail.FromEmail = getEnv("MAIL_FROM_EMAIL", "support@naricare.app")
	cfg.Mail.FromName = getEnv("MAIL_FROM_NAME", "NariCare")
	cfg.Mail.Timeout = time.Duration(parseInt(getEnv("MAIL_TIMEOUT_SEC", "10"), 10)) * time.Second

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseBool(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}
