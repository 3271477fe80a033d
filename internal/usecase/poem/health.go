package poem

import (
	"sync"
	"time"

	"moodpoet/internal/domain"
)

// ProviderHealth is a point-in-time view of one provider's recent calls.
type ProviderHealth struct {
	Provider    domain.ProviderID `json:"provider"`
	Attempts    int64             `json:"attempts"`
	Failures    int64             `json:"failures"`
	LastCode    domain.ErrorCode  `json:"last_code,omitempty"`
	LastError   string            `json:"last_error,omitempty"`
	LastLatency time.Duration     `json:"last_latency"`
	LastAttempt time.Time         `json:"last_attempt"`
}

// HealthTracker records per-provider outcomes for diagnostics. It never
// influences generation.
type HealthTracker struct {
	mu     sync.Mutex
	health map[domain.ProviderID]*ProviderHealth
	served map[string]int64
	now    func() time.Time
}

// NewHealthTracker creates an empty tracker.
func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		health: make(map[domain.ProviderID]*ProviderHealth),
		served: make(map[string]int64),
		now:    time.Now,
	}
}

// ProviderAttempt implements Observer.
func (h *HealthTracker) ProviderAttempt(provider domain.ProviderID, err error, latency time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ph, ok := h.health[provider]
	if !ok {
		ph = &ProviderHealth{Provider: provider}
		h.health[provider] = ph
	}
	ph.Attempts++
	ph.LastCode = domain.ErrorCodeOf(err)
	ph.LastLatency = latency
	ph.LastAttempt = h.now()
	ph.LastError = ""
	if err != nil {
		ph.Failures++
		ph.LastError = err.Error()
	}
}

// PoemServed implements Observer.
func (h *HealthTracker) PoemServed(source string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.served[source]++
}

// Snapshot returns a copy of the health of every provider in the fixed
// order. Providers never attempted have zero counters.
func (h *HealthTracker) Snapshot() []ProviderHealth {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]ProviderHealth, 0, len(domain.ProviderOrder))
	for _, id := range domain.ProviderOrder {
		if ph, ok := h.health[id]; ok {
			out = append(out, *ph)
			continue
		}
		out = append(out, ProviderHealth{Provider: id})
	}
	return out
}

// Served returns a copy of the poems-served counters keyed by source.
func (h *HealthTracker) Served() map[string]int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]int64, len(h.served))
	for k, v := range h.served {
		out[k] = v
	}
	return out
}
