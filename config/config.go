package config

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var once sync.Once

// Config carries everything resolved at process start. Components receive the
// pieces they need explicitly; nothing reads viper after Load returns.
type Config struct {
	ListenAddr       string
	MetricsPort      int
	TelegramBotToken string
	ChannelIDs       []string
	AdminPassword    string
	MaxFreeAlerts    int
	QuoteProvider    string
	QuoteAPIKey      string
	QuoteAPI         string
	CheckInterval    time.Duration
	StoreBackend     string
	DBPath           string
	RedisAddr        string
	Debug            bool
	Lang             string
}

func initConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("listen_addr", "LISTEN_ADDR")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("telegram_channel_ids", "TG_CHANNEL_IDS")
		viper.BindEnv("admin_password", "ADMIN_PASSWORD")
		viper.BindEnv("max_free_alerts", "MAX_FREE_ALERTS")
		viper.BindEnv("quote_provider", "QUOTE_PROVIDER")
		viper.BindEnv("api_pro_key", "API_PRO_KEY")
		viper.BindEnv("quote_api", "QUOTE_API")
		viper.BindEnv("check_interval", "CHECK_INTERVAL")
		viper.BindEnv("store_backend", "STORE_BACKEND")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("redis_addr", "REDIS_ADDR")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("listen_addr", ":8080")
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("max_free_alerts", 2)
		viper.SetDefault("quote_provider", "coingecko")
		viper.SetDefault("quote_api", "https://api.coingecko.com/api/v3")
		viper.SetDefault("check_interval", "5m")
		viper.SetDefault("store_backend", "bolt")
		viper.SetDefault("db_path", "/app/data/bot.db")
		viper.SetDefault("redis_addr", "localhost:6379")
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

// Load resolves the full configuration from the environment.
func Load() Config {
	initConfig()

	var channels []string
	for _, id := range strings.Split(viper.GetString("telegram_channel_ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			channels = append(channels, id)
		}
	}

	return Config{
		ListenAddr:       viper.GetString("listen_addr"),
		MetricsPort:      viper.GetInt("metrics_port"),
		TelegramBotToken: viper.GetString("telegram_bot_token"),
		ChannelIDs:       channels,
		AdminPassword:    viper.GetString("admin_password"),
		MaxFreeAlerts:    viper.GetInt("max_free_alerts"),
		QuoteProvider:    viper.GetString("quote_provider"),
		QuoteAPIKey:      viper.GetString("api_pro_key"),
		QuoteAPI:         viper.GetString("quote_api"),
		CheckInterval:    viper.GetDuration("check_interval"),
		StoreBackend:     viper.GetString("store_backend"),
		DBPath:           viper.GetString("db_path"),
		RedisAddr:        viper.GetString("redis_addr"),
		Debug:            viper.GetBool("debug"),
		Lang:             viper.GetString("lang"),
	}
}

