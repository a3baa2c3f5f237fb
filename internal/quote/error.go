package quote

import "fmt"

// Kind classifies a failed quote lookup. The user sees one uniform message
// either way; the kind exists for logs and metrics.
type Kind int

const (
	// KindNetwork covers transport failures before any response arrived.
	KindNetwork Kind = iota
	// KindStatus covers non-success HTTP statuses other than rate limiting.
	KindStatus
	// KindRateLimited is a 429 from the provider.
	KindRateLimited
	// KindMalformed covers undecodable bodies and missing fields.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindRateLimited:
		return "rate_limited"
	case KindMalformed:
		return "malformed"
	}
	return "unknown"
}

// Error is a tagged quote-lookup failure.
type Error struct {
	Kind   Kind
	Status int
	cause  error
}

func (e *Error) Error() string {
	switch {
	case e.cause != nil:
		return fmt.Sprintf("quote lookup failed (%s): %v", e.Kind, e.cause)
	case e.Status != 0:
		return fmt.Sprintf("quote lookup failed (%s): HTTP %d", e.Kind, e.Status)
	}
	return fmt.Sprintf("quote lookup failed (%s)", e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }
