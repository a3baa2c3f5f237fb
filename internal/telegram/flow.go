package telegram

import (
	"context"
	"strconv"
	"strings"

	"coinlens-telegram-bot/internal/analysis"
	"coinlens-telegram-bot/internal/session"
	"coinlens-telegram-bot/lib/helpers"
	"coinlens-telegram-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// QuoteClient fetches a spot price for a ticker symbol.
type QuoteClient interface {
	Latest(ctx context.Context, symbol string) (float64, error)
}

// Analyzer produces technical-analysis commentary for a priced symbol.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (string, error)
}

// MembershipGate decides whether a user may use the analysis flow.
type MembershipGate interface {
	Allowed(userID int64) (bool, error)
}

// Handler drives the conversation: language selection, subscription gate,
// symbol intake, timeframe choice, delivery.
type Handler struct {
	Bot        Sender
	Sessions   *session.Store
	Gate       MembershipGate
	Quotes     QuoteClient
	Analyses   Analyzer
	ChannelURL string

	// OnDelivered, when set, is called after an analysis was sent.
	OnDelivered func(symbol string)
}

// HandleUpdate dispatches one inbound update into the flow.
func (h *Handler) HandleUpdate(u tgbotapi.Update) {
	switch {
	case u.CallbackQuery != nil:
		h.handleCallback(u.CallbackQuery)
	case u.Message != nil && u.Message.From != nil:
		h.handleMessage(u.Message)
	}
}

func (h *Handler) handleMessage(msg *tgbotapi.Message) {
	userID := msg.From.ID
	id := strconv.FormatInt(userID, 10)
	chatID := msg.Chat.ID

	sess, err := h.Sessions.Ensure(id)
	if err != nil {
		log.Errorf("could not persist session for %s: %v", id, err)
	}

	if msg.IsCommand() {
		if msg.Command() == "start" {
			if _, err := h.Sessions.Update(id, func(s *session.Session) {
				s.State = session.StateAwaitingLanguage
			}); err != nil {
				log.Errorf("could not persist session for %s: %v", id, err)
			}
			h.PromptLanguage(chatID, sess.Language)
		}
		return
	}

	if sess.State == session.StateAwaitingLanguage {
		h.PromptLanguage(chatID, sess.Language)
		return
	}

	// The gate is re-checked on every gated action, never cached.
	if !h.passGate(chatID, id, userID, sess.Language) {
		return
	}

	h.handleSymbol(chatID, id, sess.Language, msg.Text)
}

func (h *Handler) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.From == nil {
		return
	}
	userID := cq.From.ID
	id := strconv.FormatInt(userID, 10)
	chatID := cq.Message.Chat.ID

	if _, err := h.Bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Debugf("could not answer callback: %v", err)
	}

	data := cq.Data
	switch {
	case data == "lang_ar" || data == "lang_en":
		lang := strings.TrimPrefix(data, "lang_")
		sess, err := h.Sessions.Update(id, func(s *session.Session) {
			s.Language = lang
		})
		if err != nil {
			log.Errorf("could not persist session for %s: %v", id, err)
		}
		if h.passGate(chatID, id, userID, sess.Language) {
			if _, err := h.Sessions.Update(id, func(s *session.Session) {
				s.State = session.StateAwaitingSymbol
			}); err != nil {
				log.Errorf("could not persist session for %s: %v", id, err)
			}
			h.PromptSymbol(chatID, sess.Language)
		}

	case data == "check_sub":
		sess, _ := h.Sessions.Ensure(id)
		allowed, err := h.Gate.Allowed(userID)
		if err != nil {
			log.Warnf("membership check failed for %s: %v", id, err)
		}
		if !allowed {
			h.PromptSubscribe(chatID, sess.Language, translation.Translate(sess.Language, "still_not_subscribed"))
			return
		}
		if _, err := h.Sessions.Update(id, func(s *session.Session) {
			s.State = session.StateAwaitingSymbol
		}); err != nil {
			log.Errorf("could not persist session for %s: %v", id, err)
		}
		h.PromptSymbol(chatID, sess.Language)

	case strings.HasPrefix(data, "tf_"):
		h.deliver(chatID, id, strings.TrimPrefix(data, "tf_"))
	}
}

// passGate checks membership and, on denial, moves the session behind the
// subscribe prompt. Lookup failures deny but are logged distinctly.
func (h *Handler) passGate(chatID int64, id string, userID int64, lang string) bool {
	allowed, err := h.Gate.Allowed(userID)
	if err != nil {
		log.Warnf("membership check failed for %s, treating as not subscribed: %v", id, err)
	}
	if allowed {
		return true
	}
	if _, err := h.Sessions.Update(id, func(s *session.Session) {
		s.State = session.StateAwaitingSubscription
	}); err != nil {
		log.Errorf("could not persist session for %s: %v", id, err)
	}
	h.PromptSubscribe(chatID, lang, translation.Translate(lang, "subscribe_prompt"))
	return false
}

// handleSymbol treats any non-command text as a ticker symbol.
func (h *Handler) handleSymbol(chatID int64, id, lang, text string) {
	symbol := helpers.NormalizeSymbol(text)
	if symbol == "" {
		h.PromptSymbol(chatID, lang)
		return
	}

	if _, err := h.Sessions.Update(id, func(s *session.Session) {
		s.PendingSymbol = symbol
		s.State = session.StateAwaitingTimeframe
	}); err != nil {
		log.Errorf("could not persist session for %s: %v", id, err)
	}

	price, err := h.Quotes.Latest(context.Background(), symbol)
	if err != nil {
		log.Errorf("quote lookup for %s failed: %v", symbol, err)
		h.send(chatID, translation.Translate(lang, "price_fetch_failed"))
		if _, err := h.Sessions.Update(id, func(s *session.Session) {
			s.ClearPending()
		}); err != nil {
			log.Errorf("could not persist session for %s: %v", id, err)
		}
		return
	}

	if _, err := h.Sessions.Update(id, func(s *session.Session) {
		s.PendingPrice = price
	}); err != nil {
		log.Errorf("could not persist session for %s: %v", id, err)
	}
	h.PromptTimeframe(chatID, lang, symbol, helpers.FormatPriceUSD(price))
}

// deliver runs the price lookup and analysis for the pending symbol and
// sends the result. The session loops back to awaiting the next symbol.
func (h *Handler) deliver(chatID int64, id, timeframe string) {
	sess, ok := h.Sessions.Get(id)
	if !ok || sess.PendingSymbol == "" {
		lang := sess.Language
		if lang == "" {
			lang = "ar"
		}
		h.send(chatID, translation.Translate(lang, "send_new_symbol"))
		return
	}
	lang := sess.Language
	symbol := sess.PendingSymbol

	if _, err := h.Sessions.Update(id, func(s *session.Session) {
		s.PendingTimeframe = timeframe
	}); err != nil {
		log.Errorf("could not persist session for %s: %v", id, err)
	}
	h.send(chatID, translation.Translate(lang, "analyzing", symbol))

	price, err := h.Quotes.Latest(context.Background(), symbol)
	if err != nil {
		// Price failure short-circuits: the completion service is not called.
		log.Errorf("quote lookup for %s failed: %v", symbol, err)
		h.send(chatID, translation.Translate(lang, "price_fetch_failed"))
		h.resetPending(id)
		return
	}

	text, err := h.Analyses.Analyze(context.Background(), analysis.Request{
		Symbol:    symbol,
		Timeframe: timeframe,
		Lang:      lang,
		Price:     price,
	})
	if err != nil {
		log.Errorf("analysis for %s failed: %v", symbol, err)
		text = translation.Translate(lang, "analysis_failed")
	} else if h.OnDelivered != nil {
		h.OnDelivered(symbol)
	}

	h.send(chatID, text)
	h.resetPending(id)
}

func (h *Handler) resetPending(id string) {
	if _, err := h.Sessions.Update(id, func(s *session.Session) {
		s.ClearPending()
	}); err != nil {
		log.Errorf("could not persist session for %s: %v", id, err)
	}
}

func (h *Handler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := h.Bot.Send(msg); err != nil {
		log.Errorf("could not send message to %d: %v", chatID, err)
	}
}
