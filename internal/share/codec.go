// Package share turns an option list into a URL-safe token and back.
//
// Token format: base64(encodeURIComponent(JSON)), standard alphabet with
// padding. Bookkeeping fields (id, lastEaten) are not carried.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/dotcommander/lunchpick/internal/models"
)

// shared is the projection carried in a token. All four keys are always written.
type shared struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Distance   models.Distance `json:"distance"`
	IsFavorite bool            `json:"isFavorite"`
}

// marshal is swapped in tests to exercise the EncodeError path.
var marshal = json.Marshal

// Encode builds a share token for options.
func Encode(options []models.LunchOption) (string, error) {
	if len(options) == 0 {
		return "", ErrNothingToShare
	}

	projected := make([]shared, 0, len(options))
	for _, o := range options {
		projected = append(projected, shared{
			Name:       o.Name,
			Type:       o.Type,
			Distance:   o.Distance,
			IsFavorite: o.IsFavorite,
		})
	}

	b, err := marshal(projected)
	if err != nil {
		return "", &EncodeError{Err: err}
	}
	return base64.StdEncoding.EncodeToString([]byte(escapeComponent(string(b)))), nil
}

// Decode parses a token back into candidates for OptionStore.ImportMerge.
// It does not apply defaults; ImportMerge does that on insert.
func Decode(token string) ([]models.OptionInput, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, decodeErr(StageBase64, "empty token")
	}
	// Query parsing turns '+' into ' '.
	token = strings.ReplaceAll(token, " ", "+")

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		var rawErr error
		raw, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(token, "="))
		if rawErr != nil {
			return nil, &DecodeError{Stage: StageBase64, Err: err}
		}
	}

	text, err := url.PathUnescape(string(raw))
	if err != nil {
		return nil, &DecodeError{Stage: StageUnescape, Err: err}
	}
	if !utf8.ValidString(text) {
		return nil, decodeErr(StageUnescape, "invalid UTF-8")
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, &DecodeError{Stage: StageJSON, Err: err}
	}
	if len(items) == 0 {
		return nil, decodeErr(StageShape, "no options in token")
	}

	out := make([]models.OptionInput, 0, len(items))
	for i, item := range items {
		in, err := decodeItem(item)
		if err != nil {
			return nil, decodeErr(StageShape, "option %d: %v", i, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func decodeItem(item json.RawMessage) (models.OptionInput, error) {
	item = bytes.TrimSpace(item)
	if len(item) == 0 || item[0] != '{' {
		return models.OptionInput{}, fmt.Errorf("not an object")
	}

	var fields struct {
		Name       *string         `json:"name"`
		Type       any             `json:"type"`
		Distance   models.Distance `json:"distance"`
		IsFavorite any             `json:"isFavorite"`
	}
	if err := json.Unmarshal(item, &fields); err != nil {
		return models.OptionInput{}, err
	}
	if fields.Name == nil || strings.TrimSpace(*fields.Name) == "" {
		return models.OptionInput{}, fmt.Errorf("missing name")
	}

	in := models.OptionInput{Name: *fields.Name, Distance: fields.Distance}
	if s, ok := fields.Type.(string); ok {
		in.Type = s
	}
	if b, ok := fields.IsFavorite.(bool); ok {
		in.IsFavorite = b
	}
	return in, nil
}

// escapeComponent matches JavaScript's encodeURIComponent: everything except
// A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded as UTF-8.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

func isUnreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
