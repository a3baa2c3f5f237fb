package gate

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// MemberChecker is the slice of the Telegram API the gate needs.
// *tgbotapi.BotAPI satisfies it.
type MemberChecker interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// Gate answers whether a user may proceed past language selection. The
// decision is re-queried on every call; membership is never cached.
type Gate struct {
	checker MemberChecker
	channel string
}

// New builds a gate for the given channel. The channel may be a @username
// or a numeric chat ID.
func New(checker MemberChecker, channel string) *Gate {
	return &Gate{checker: checker, channel: channel}
}

// Allowed reports whether userID is a member of the gated channel. A lookup
// failure denies, same as "not subscribed", but the error comes back too so
// callers can log the difference.
func (g *Gate) Allowed(userID int64) (bool, error) {
	cfg := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{UserID: userID},
	}
	if strings.HasPrefix(g.channel, "@") {
		cfg.SuperGroupUsername = g.channel
	} else {
		id, err := strconv.ParseInt(g.channel, 10, 64)
		if err != nil {
			return false, errors.Wrapf(err, "invalid channel identifier %q", g.channel)
		}
		cfg.ChatID = id
	}

	member, err := g.checker.GetChatMember(cfg)
	if err != nil {
		return false, errors.Wrap(err, "could not query channel membership")
	}

	log.Debugf("membership status for %d in %s: %s", userID, g.channel, member.Status)
	switch member.Status {
	case "member", "administrator", "creator":
		return true, nil
	}
	return false, nil
}
