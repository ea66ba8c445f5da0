package share

import (
	"fmt"
	"net/url"
	"strings"
)

// QueryParam is the query parameter that carries a token.
const QueryParam = "share"

// Link returns base with token set as the share query parameter.
// Other query parameters on base are kept.
func Link(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", &EncodeError{Err: fmt.Errorf("parse base url: %w", err)}
	}
	q := u.Query()
	q.Set(QueryParam, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// TokenFromLink extracts the token from a pasted share link.
// Input without a query string is taken as a bare token.
func TokenFromLink(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", decodeErr(StageLink, "empty input")
	}
	if !strings.Contains(s, "?") && !strings.Contains(s, "://") {
		return s, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", &DecodeError{Stage: StageLink, Err: err}
	}
	token := u.Query().Get(QueryParam)
	if token == "" {
		return "", decodeErr(StageLink, "link has no %s parameter", QueryParam)
	}
	return token, nil
}

// StripToken removes the share parameter from link so reopening it does not
// trigger another import. link is returned unchanged if it does not parse.
func StripToken(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return link
	}
	q := u.Query()
	if _, ok := q[QueryParam]; !ok {
		return u.String()
	}
	q.Del(QueryParam)
	u.RawQuery = q.Encode()
	return u.String()
}
