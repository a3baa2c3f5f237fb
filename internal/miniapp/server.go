package miniapp

import (
	"fmt"
	"net/http"
	"strconv"

	"coinlens-telegram-bot/internal/analysis"
	"coinlens-telegram-bot/internal/session"
	"coinlens-telegram-bot/internal/telegram"
	"coinlens-telegram-bot/lib/helpers"
	"coinlens-telegram-bot/lib/translation"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server is the HTTP mini-app: it renders the web page and proxies prompts
// into Telegram through the shared conversation handler.
type Server struct {
	engine   *gin.Engine
	sessions *session.Store
	quotes   telegram.QuoteClient
	analyses telegram.Analyzer
	flow     *telegram.Handler
}

// NewServer wires the mini-app routes. templateGlob locates the HTML
// templates; leave it empty to skip page rendering (tests exercising only
// the JSON endpoints do this).
func NewServer(sessions *session.Store, quotes telegram.QuoteClient, analyses telegram.Analyzer, flow *telegram.Handler, templateGlob string) *Server {
	s := &Server{
		engine:   gin.New(),
		sessions: sessions,
		quotes:   quotes,
		analyses: analyses,
		flow:     flow,
	}

	s.engine.Use(s.recoverToJSON())
	if templateGlob != "" {
		s.engine.LoadHTMLGlob(templateGlob)
		s.engine.GET("/", s.index)
	}
	s.engine.GET("/health", s.health)
	s.engine.GET("/interact/:user_id", s.interact)
	s.engine.POST("/send_symbol", s.sendSymbol)
	s.engine.POST("/analyze", s.analyze)
	return s
}

// ServeHTTP makes the server usable with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Run serves on the given port until the listener fails.
func (s *Server) Run(port int) error {
	log.Infof("mini app listening on :%d", port)
	return s.engine.Run(fmt.Sprintf(":%d", port))
}

// recoverToJSON turns a handler panic into the JSON error envelope. The
// panic text goes to the client as-is, matching the deployed behavior.
func (s *Server) recoverToJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("handler panic on %s: %v", c.Request.URL.Path, r)
				c.AbortWithStatusJSON(http.StatusOK, errorResponse{
					Status: "error",
					Msg:    fmt.Sprint(r),
				})
			}
		}()
		c.Next()
	}
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// interact pushes the language keyboard to the given user.
func (s *Server) interact(c *gin.Context) {
	id := c.Param("user_id")
	chatID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid user id")
		return
	}

	sess, err := s.sessions.Ensure(id)
	if err != nil {
		log.Errorf("could not persist session for %s: %v", id, err)
	}
	s.flow.PromptLanguage(chatID, sess.Language)
	c.String(http.StatusOK, "language prompt sent")
}

type sendSymbolRequest struct {
	UserID string  `json:"user_id"`
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// sendSymbol records the pending symbol/price hand-off and pushes the
// timeframe keyboard to the user.
func (s *Server) sendSymbol(c *gin.Context) {
	var req sendSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}
	chatID, err := strconv.ParseInt(req.UserID, 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid user id")
		return
	}

	symbol := helpers.NormalizeSymbol(req.Symbol)
	sess, err := s.sessions.Update(req.UserID, func(sess *session.Session) {
		sess.PendingSymbol = symbol
		sess.PendingPrice = req.Price
		sess.State = session.StateAwaitingTimeframe
	})
	if err != nil {
		log.Errorf("could not persist session for %s: %v", req.UserID, err)
	}

	s.flow.PromptTimeframe(chatID, sess.Language, symbol, helpers.FormatPriceUS(req.Price))
	c.String(http.StatusOK, "timeframe prompt sent")
}

type analyzeRequest struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	Lang      string `json:"lang"`
}

type errorResponse struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
}

type analyzeResponse struct {
	Status   string  `json:"status"`
	Analysis string  `json:"analysis"`
	Price    float64 `json:"price"`
}

// analyze is the mini-app's core endpoint: price lookup, then analysis,
// returned as one JSON body.
func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, errorResponse{Status: "error", Msg: err.Error()})
		return
	}
	if req.Timeframe == "" {
		req.Timeframe = "1W"
	}
	lang := translation.Normalize(req.Lang)

	price, err := s.quotes.Latest(c.Request.Context(), req.Symbol)
	if err != nil {
		log.Errorf("quote lookup for %s failed: %v", req.Symbol, err)
		c.JSON(http.StatusOK, errorResponse{
			Status: "error",
			Msg:    translation.Translate(lang, "price_fetch_failed"),
		})
		return
	}

	text, err := s.analyses.Analyze(c.Request.Context(), analysis.Request{
		Symbol:    req.Symbol,
		Timeframe: req.Timeframe,
		Lang:      lang,
		Price:     price,
	})
	if err != nil {
		log.Errorf("analysis for %s failed: %v", req.Symbol, err)
		text = translation.Translate(lang, "analysis_failed")
	}

	c.JSON(http.StatusOK, analyzeResponse{
		Status:   "ok",
		Analysis: text,
		Price:    price,
	})
}
