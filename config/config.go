package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		// Deployments ship secrets in a .env file next to the binary.
		_ = godotenv.Load()

		viper.AutomaticEnv()

		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("groq_api_key", "GROQ_API_KEY")
		viper.BindEnv("cmc_api_key", "CMC_API_KEY")
		viper.BindEnv("channel_id", "CHANNEL_ID")
		viper.BindEnv("channel_url", "CHANNEL_URL")
		viper.BindEnv("mini_port", "MINI_PORT")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("sessions_file", "SESSIONS_FILE")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("groq_model", "GROQ_MODEL")
		viper.BindEnv("sanitize_analysis", "SANITIZE_ANALYSIS")
		viper.BindEnv("debug", "DEBUG")

		viper.SetDefault("mini_port", 9000)
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("sessions_file", "users.json")
		viper.SetDefault("db_path", "bot.db")
		viper.SetDefault("groq_model", "meta-llama/llama-4-maverick-17b-128e-instruct")
		viper.SetDefault("sanitize_analysis", false)
		viper.SetDefault("debug", false)
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
