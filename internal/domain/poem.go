package domain

import "time"

// PoemRequest is the input to a generation.
type PoemRequest struct {
	Mood      string
	Poet      string     // empty or unrecognized picks a random poet
	Preferred ProviderID // ProviderNone walks the fixed order
}

// Attempt records one provider call made while generating a poem.
type Attempt struct {
	Provider ProviderID    `json:"provider"`
	Code     ErrorCode     `json:"code"`
	Latency  time.Duration `json:"latency"`
}

// Poem is the final generation result.
type Poem struct {
	Poet     Poet      `json:"poet"`
	Mood     string    `json:"mood"`
	Body     string    `json:"body"`
	Source   string    `json:"source"` // provider id or SourceBackup
	Attempts []Attempt `json:"attempts,omitempty"`
	Text     string    `json:"text"` // FormatPoem(Poet, Body)
}

// FromBackup reports whether the body came from the backup templates.
func (p Poem) FromBackup() bool { return p.Source == SourceBackup }

// FormatPoem renders the user-visible result: 【poet】, a blank line, the body.
func FormatPoem(poet Poet, body string) string {
	return "【" + string(poet) + "】\n\n" + body
}
