package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type titleRecord struct {
	Title     string   `json:"title"`
	Name      string   `json:"name"`
	SeriesID  seriesID `json:"series_id"`
	AltTitles []string `json:"alt_titles"`
}

// seriesID accepts both JSON strings and numbers.
type seriesID string

func (s *seriesID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = seriesID(strings.TrimSpace(text))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("series_id must be a string or number: %w", err)
	}
	*s = seriesID(num.String())
	return nil
}

// LoadJSON decodes a catalog document. Two layouts are accepted:
//
//	["One Piece", "Berserk"]
//	[{"title": "One Piece", "series_id": 55, "alt_titles": ["Wan Pisu"]}]
//
// Plain titles use the title itself as payload. Blank titles are skipped.
func LoadJSON(r io.Reader) ([]Title, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	titles := make([]Title, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 {
			continue
		}
		switch item[0] {
		case '"':
			var name string
			if err := json.Unmarshal(item, &name); err != nil {
				return nil, fmt.Errorf("catalog entry %d: %w", i, err)
			}
			if strings.TrimSpace(name) == "" {
				continue
			}
			titles = append(titles, Title{Name: name, SeriesID: name})
		case '{':
			var rec titleRecord
			if err := json.Unmarshal(item, &rec); err != nil {
				return nil, fmt.Errorf("catalog entry %d: %w", i, err)
			}
			titles = append(titles, rec.titles()...)
		default:
			return nil, fmt.Errorf("catalog entry %d: %w", i, errUnsupportedEntry)
		}
	}
	return titles, nil
}

var errUnsupportedEntry = errors.New("expected a string or an object")

func (r titleRecord) titles() []Title {
	name := r.Title
	if strings.TrimSpace(name) == "" {
		name = r.Name
	}
	payload := string(r.SeriesID)

	var out []Title
	add := func(n string) {
		if strings.TrimSpace(n) == "" {
			return
		}
		id := payload
		if id == "" {
			id = name
		}
		out = append(out, Title{Name: n, SeriesID: id})
	}
	if strings.TrimSpace(name) == "" && payload == "" {
		return nil
	}
	add(name)
	for _, alt := range r.AltTitles {
		add(alt)
	}
	return out
}
