package share

import (
	"errors"
	"fmt"
)

// ErrNothingToShare is returned by Encode for an empty collection.
var ErrNothingToShare = errors.New("add some lunch options before sharing")

// Decode stages, in the order they run.
const (
	StageLink     = "link"
	StageBase64   = "base64"
	StageUnescape = "unescape"
	StageJSON     = "json"
	StageShape    = "shape"
)

// EncodeError wraps any failure while building a token.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "failed to build share link, try again later" }
func (e *EncodeError) Unwrap() error { return e.Err }
func (e *EncodeError) ErrorCode() string { return "SHARE_ENCODE_FAILED" }
func (e *EncodeError) Context() map[string]string {
	return map[string]string{"cause": e.Err.Error()}
}
func (e *EncodeError) SuggestedAction() string { return "retry lunchpick share" }

// DecodeError reports a malformed or tampered token.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string { return "share link is invalid or corrupted" }
func (e *DecodeError) Unwrap() error { return e.Err }
func (e *DecodeError) ErrorCode() string { return "SHARE_DECODE_FAILED" }
func (e *DecodeError) Context() map[string]string {
	cause := ""
	if e.Err != nil {
		cause = e.Err.Error()
	}
	return map[string]string{"stage": e.Stage, "cause": cause}
}
func (e *DecodeError) SuggestedAction() string {
	return "ask the sender for a fresh link (lunchpick share)"
}

func decodeErr(stage string, format string, args ...any) *DecodeError {
	return &DecodeError{Stage: stage, Err: fmt.Errorf(format, args...)}
}
