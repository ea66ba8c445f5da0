package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// DefaultType is the category assigned when an option is created without one.
const DefaultType = "other"

// LunchOption is one stored lunch candidate.
// JSON field names are the persisted layout and must not change.
type LunchOption struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Distance   Distance   `json:"distance"`
	IsFavorite bool       `json:"isFavorite"`
	LastEaten  *time.Time `json:"lastEaten"`
}

// Eaten reports whether the option carries a lastEaten marker.
func (o LunchOption) Eaten() bool {
	return o.LastEaten != nil
}

// UnmarshalJSON decodes a stored record. Older clients were loosely typed,
// so a numeric id or name is kept as its decimal text, and lastEaten may be
// an RFC 3339 string, a JavaScript Date string or epoch milliseconds.
// A lastEaten that is none of these reads as never eaten.
func (o *LunchOption) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID         json.RawMessage `json:"id"`
		Name       json.RawMessage `json:"name"`
		Type       json.RawMessage `json:"type"`
		Distance   Distance        `json:"distance"`
		IsFavorite json.RawMessage `json:"isFavorite"`
		LastEaten  json.RawMessage `json:"lastEaten"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*o = LunchOption{
		ID:        looseString(raw.ID),
		Name:      looseString(raw.Name),
		Type:      looseString(raw.Type),
		Distance:  raw.Distance,
		LastEaten: looseTime(raw.LastEaten),
	}
	_ = json.Unmarshal(raw.IsFavorite, &o.IsFavorite)
	return nil
}

// looseString returns a JSON string as is and a JSON number as its literal.
// Anything else is "".
func looseString(b json.RawMessage) string {
	var s string
	if json.Unmarshal(b, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(b, &n) == nil {
		return n.String()
	}
	return ""
}

// Layouts produced by JavaScript's Date.prototype.toString and toDateString.
var jsDateLayouts = []string{
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
}

func looseTime(b json.RawMessage) *time.Time {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var ms float64
	if json.Unmarshal(b, &ms) == nil {
		t := time.UnixMilli(int64(ms)).UTC()
		return &t
	}

	var s string
	if json.Unmarshal(b, &s) != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t
	}
	// "... GMT+0200 (Central European Summer Time)"
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	for _, layout := range jsDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// OptionInput is the user-supplied part of a LunchOption.
// It is also the shape carried inside a share token.
type OptionInput struct {
	Name       string   `json:"name"`
	Type       string   `json:"type,omitempty"`
	Distance   Distance `json:"distance,omitempty"`
	IsFavorite bool     `json:"isFavorite,omitempty"`
}

// WithDefaults returns a copy with empty fields filled in.
func (in OptionInput) WithDefaults() OptionInput {
	if in.Type == "" {
		in.Type = DefaultType
	}
	if in.Distance < 0 {
		in.Distance = 0
	}
	return in
}

// Validate checks input at the point it enters the system.
// OptionStore itself does not call this.
func (in OptionInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("option name is required")
	}
	if in.Distance < 0 {
		return errors.New("distance must not be negative")
	}
	return nil
}

// Distance is a non-negative distance in meters.
//
// Older data stored the raw form value, so a quoted number is accepted
// when decoding. Anything unparsable decodes as 0.
type Distance float64

// UnmarshalJSON accepts a number, a numeric string or null. Negative and
// unparsable values decode as 0.
func (d *Distance) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || v < 0 {
			*d = 0
			return nil
		}
		*d = Distance(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		*d = 0
		return nil
	}
	if v < 0 {
		v = 0
	}
	*d = Distance(v)
	return nil
}
