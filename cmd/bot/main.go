package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"coinlens-telegram-bot/config"
	"coinlens-telegram-bot/internal/analysis"
	"coinlens-telegram-bot/internal/database"
	"coinlens-telegram-bot/internal/gate"
	"coinlens-telegram-bot/internal/quote"
	"coinlens-telegram-bot/internal/session"
	"coinlens-telegram-bot/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

type BotMetrics struct {
	CommandsProcessed prometheus.Counter
	MessagesHandled   prometheus.Counter
	AnalysesDelivered prometheus.Counter
	AnalysesPerSymbol *prometheus.CounterVec
	Mutex             sync.Mutex
}

var metrics = NewBotMetrics()

func init() {
	config.InitConfig()
	setupLogging()
}

func NewBotMetrics() *BotMetrics {
	m := &BotMetrics{
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coinlens",
			Subsystem: "telegram_bot",
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coinlens",
			Subsystem: "telegram_bot",
			Name:      "messages_handled",
			Help:      "The total number of handled messages",
		}),
		AnalysesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coinlens",
			Subsystem: "telegram_bot",
			Name:      "analyses_delivered",
			Help:      "The total number of analyses delivered to users",
		}),
		AnalysesPerSymbol: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coinlens",
				Subsystem: "telegram_bot",
				Name:      "analyses_per_symbol",
				Help:      "The total number of analyses delivered per symbol",
			},
			[]string{"symbol"},
		),
	}

	prometheus.MustRegister(m.CommandsProcessed)
	prometheus.MustRegister(m.MessagesHandled)
	prometheus.MustRegister(m.AnalysesDelivered)
	prometheus.MustRegister(m.AnalysesPerSymbol)

	return m
}

func main() {
	if err := database.InitDB(config.GetString("db_path")); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	LoadMetricsFromDB()

	sessions := session.Open(config.GetString("sessions_file"))

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          config.GetString("telegram_bot_token"),
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	handler := &telegram.Handler{
		Bot:      bot.API,
		Sessions: sessions,
		Gate:     gate.New(bot.API, config.GetString("channel_id")),
		Quotes:   quote.NewClient(config.GetString("cmc_api_key")),
		Analyses: analysis.NewClient(
			config.GetString("groq_api_key"),
			config.GetString("groq_model"),
			config.GetBool("sanitize_analysis"),
		),
		ChannelURL: config.GetString("channel_url"),
		OnDelivered: func(symbol string) {
			metrics.AnalysesDelivered.Inc()
			metrics.AnalysesPerSymbol.WithLabelValues(symbol).Inc()
		},
	}

	go handleUpdates(handler, bot.GetUpdatesChannel())

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			SaveMetricsToDB()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		SaveMetricsToDB()
		log.Println("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting telegram bot...")
}

func handleUpdates(handler *telegram.Handler, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil && update.CallbackQuery == nil {
			log.Debug("Received update with no message or callback")
			continue
		}

		metrics.MessagesHandled.Inc()
		if update.Message != nil && update.Message.IsCommand() {
			metrics.CommandsProcessed.Inc()
		}

		handleUpdate(handler, update)
	}
}

func handleUpdate(handler *telegram.Handler, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	handler.HandleUpdate(update)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}

func LoadMetricsFromDB() {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	commandsProcessed, _ := database.GetMetric("commands_processed")
	messagesHandled, _ := database.GetMetric("messages_handled")
	analysesDelivered, _ := database.GetMetric("analyses_delivered")

	metrics.CommandsProcessed.Add(commandsProcessed)
	metrics.MessagesHandled.Add(messagesHandled)
	metrics.AnalysesDelivered.Add(analysesDelivered)

	perSymbol, _ := database.GetMetricsWithLabels("analyses_per_symbol")
	for _, values := range perSymbol {
		for symbol, value := range values {
			metrics.AnalysesPerSymbol.WithLabelValues(symbol).Add(value)
		}
	}

	log.Println("Metrics loaded from database.")
}

func SaveMetricsToDB() {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	database.SaveMetric("commands_processed", "", "", GetMetricValue(metrics.CommandsProcessed))
	database.SaveMetric("messages_handled", "", "", GetMetricValue(metrics.MessagesHandled))
	database.SaveMetric("analyses_delivered", "", "", GetMetricValue(metrics.AnalysesDelivered))

	metricChan := make(chan prometheus.Metric, 16)
	go func() {
		metrics.AnalysesPerSymbol.Collect(metricChan)
		close(metricChan)
	}()

	for metric := range metricChan {
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Printf("Failed to read analyses_per_symbol metric: %v", err)
			continue
		}
		var symbol string
		for _, label := range metricProto.Label {
			if label.GetName() == "symbol" {
				symbol = label.GetValue()
			}
		}
		database.SaveMetric("analyses_per_symbol", "symbol", symbol, metricProto.Counter.GetValue())
	}

	log.Println("Metrics saved to database.")
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Printf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
