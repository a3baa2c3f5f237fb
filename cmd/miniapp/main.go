package main

import (
	"coinlens-telegram-bot/config"
	"coinlens-telegram-bot/internal/analysis"
	"coinlens-telegram-bot/internal/gate"
	"coinlens-telegram-bot/internal/miniapp"
	"coinlens-telegram-bot/internal/quote"
	"coinlens-telegram-bot/internal/session"
	"coinlens-telegram-bot/internal/telegram"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func init() {
	config.InitConfig()

	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Debug("Starting mini app...")
}

func main() {
	sessions := session.Open(config.GetString("sessions_file"))

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token: config.GetString("telegram_bot_token"),
		Debug: config.GetBool("debug"),
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	quotes := quote.NewClient(config.GetString("cmc_api_key"))
	analyses := analysis.NewClient(
		config.GetString("groq_api_key"),
		config.GetString("groq_model"),
		config.GetBool("sanitize_analysis"),
	)

	flow := &telegram.Handler{
		Bot:        bot.API,
		Sessions:   sessions,
		Gate:       gate.New(bot.API, config.GetString("channel_id")),
		Quotes:     quotes,
		Analyses:   analyses,
		ChannelURL: config.GetString("channel_url"),
	}

	server := miniapp.NewServer(sessions, quotes, analyses, flow, "templates/*.html")
	if err := server.Run(config.GetInt("mini_port")); err != nil {
		log.Fatalf("Mini app server failed: %v", err)
	}
}
