package session

// State names the step the conversation is waiting on.
type State string

const (
	StateAwaitingLanguage     State = "awaiting_language"
	StateAwaitingSubscription State = "awaiting_subscription"
	StateAwaitingSymbol       State = "awaiting_symbol"
	StateAwaitingTimeframe    State = "awaiting_timeframe"
)

// Session is the per-user conversation state. Sessions are created on first
// contact and never deleted.
type Session struct {
	Language         string  `json:"language"`
	State            State   `json:"state"`
	PendingSymbol    string  `json:"pending_symbol,omitempty"`
	PendingTimeframe string  `json:"pending_timeframe,omitempty"`
	PendingPrice     float64 `json:"pending_price,omitempty"`
}

// ClearPending drops symbol hand-off state after a delivery and arms the
// store for the next symbol.
func (s *Session) ClearPending() {
	s.PendingSymbol = ""
	s.PendingTimeframe = ""
	s.PendingPrice = 0
	s.State = StateAwaitingSymbol
}
