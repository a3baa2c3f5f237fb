package telegram

import (
	"coinlens-telegram-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// PromptLanguage pushes the language keyboard. Also used by the mini-app's
// /interact endpoint.
func (h *Handler) PromptLanguage(chatID int64, lang string) {
	msg := tgbotapi.NewMessage(chatID, translation.Translate(lang, "choose_language"))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇸🇦 العربية", "lang_ar"),
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang_en"),
		),
	)
	if _, err := h.Bot.Send(msg); err != nil {
		log.Errorf("could not send language prompt to %d: %v", chatID, err)
	}
}

// PromptSubscribe pushes the join-channel prompt with a link to the channel
// and an "I've joined" re-check button.
func (h *Handler) PromptSubscribe(chatID int64, lang, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(translation.Translate(lang, "join_button"), h.ChannelURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(translation.Translate(lang, "joined_button"), "check_sub"),
		),
	)
	if _, err := h.Bot.Send(msg); err != nil {
		log.Errorf("could not send subscribe prompt to %d: %v", chatID, err)
	}
}

// PromptSymbol asks the user for the next ticker symbol.
func (h *Handler) PromptSymbol(chatID int64, lang string) {
	h.send(chatID, translation.Translate(lang, "ask_symbol"))
}

// PromptTimeframe shows the current price and the timeframe keyboard.
// priceText is preformatted by the caller; the bot flow uses the exact
// six-decimal form, the mini-app a comma-grouped one.
func (h *Handler) PromptTimeframe(chatID int64, lang, symbol, priceText string) {
	msg := tgbotapi.NewMessage(chatID, translation.Translate(lang, "price_reply", symbol, priceText))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("1D", "tf_1D"),
			tgbotapi.NewInlineKeyboardButtonData("1W", "tf_1W"),
			tgbotapi.NewInlineKeyboardButtonData("1M", "tf_1M"),
		),
	)
	if _, err := h.Bot.Send(msg); err != nil {
		log.Errorf("could not send timeframe prompt to %d: %v", chatID, err)
	}
}
