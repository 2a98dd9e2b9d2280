package index

import "serieslink/internal/textutil"

// Entry is one corpus record. Payload is carried through untouched.
type Entry struct {
	Key      textutil.Key `json:"key"`
	Original string       `json:"original"`
	Payload  string       `json:"payload"`
}

// NewEntry normalizes original into an Entry.
func NewEntry(original, payload string) Entry {
	return Entry{Key: textutil.Normalize(original), Original: original, Payload: payload}
}

// Label returns the text used to identify the entry in messages.
func (e Entry) Label() string {
	if e.Original != "" {
		return e.Original
	}
	return string(e.Key)
}

// Candidate is an entry scored against a query.
type Candidate struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}

// RankedResult lists candidates best first.
type RankedResult []Candidate

// Best returns the top candidate, if any.
func (r RankedResult) Best() (Candidate, bool) {
	if len(r) == 0 {
		return Candidate{}, false
	}
	return r[0], true
}

// Clone returns a copy that shares no backing array with r.
func (r RankedResult) Clone() RankedResult {
	if r == nil {
		return nil
	}
	out := make(RankedResult, len(r))
	copy(out, r)
	return out
}
