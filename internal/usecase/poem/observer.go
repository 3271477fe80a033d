package poem

import (
	"time"

	"moodpoet/internal/domain"
)

// Observer receives generation events. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	// ProviderAttempt is called once per provider actually called. err is
	// nil on success.
	ProviderAttempt(provider domain.ProviderID, err error, latency time.Duration)
	// PoemServed is called once per Generate with the winning source.
	PoemServed(source string)
}
