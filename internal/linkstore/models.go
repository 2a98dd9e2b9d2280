package linkstore

import "time"

// Link is the stored outcome of resolving one series folder.
type Link struct {
	Path string `json:"path"`
	Name string `json:"name"`
	// Payload is empty when the folder had no candidate at all.
	Payload string `json:"payload,omitempty"`
	// Score is nil when the folder had no candidate at all.
	Score     *float64  `json:"score,omitempty"`
	Accepted  bool      `json:"accepted"`
	Reason    string    `json:"reason"`
	Metric    string    `json:"metric"`
	RunID     string    `json:"run_id"`
	BookCount int       `json:"book_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Matched reports whether the link points at a catalog entry.
func (l Link) Matched() bool {
	return l.Payload != ""
}

// Filter selects which links List returns.
type Filter string

const (
	FilterAll       Filter = ""
	FilterAccepted  Filter = "accepted"
	FilterRejected  Filter = "rejected"
	FilterUnmatched Filter = "unmatched"
)

// Summary counts stored links by outcome.
type Summary struct {
	Total     int `json:"total"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Unmatched int `json:"unmatched"`
}
