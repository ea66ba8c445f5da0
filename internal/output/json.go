package output

import (
	"encoding/json"
	"errors"
	"io"
	"os"
)

// Response represents a standard JSON response
type Response struct {
	SchemaVersion string       `json:"schema_version"`
	Success       bool         `json:"success"`
	Data          interface{}  `json:"data,omitempty"`
	Error         string       `json:"error,omitempty"`
	Details       *ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail carries the structured part of a recoverable error.
type ErrorDetail struct {
	Code            string            `json:"code"`
	Context         map[string]string `json:"context,omitempty"`
	SuggestedAction string            `json:"suggested_action,omitempty"`
}

// recoverableError mirrors models.RecoverableError without the import.
type recoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}

// Success wraps a successful response with data
func Success(data interface{}) Response {
	return Response{
		SchemaVersion: "v1",
		Success:       true,
		Data:          data,
	}
}

// Error wraps an error in a response
func Error(err error) Response {
	resp := Response{
		SchemaVersion: "v1",
		Success:       false,
		Error:         err.Error(),
	}
	var re recoverableError
	if errors.As(err, &re) {
		resp.Details = &ErrorDetail{
			Code:            re.ErrorCode(),
			Context:         re.Context(),
			SuggestedAction: re.SuggestedAction(),
		}
	}
	return resp
}

// Fprint writes v as JSON to w.
// Compact by default; LUNCHPICK_PRETTY_JSON=1 indents.
func Fprint(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if os.Getenv("LUNCHPICK_PRETTY_JSON") == "1" || os.Getenv("LUNCHPICK_PRETTY_JSON") == "true" {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// Print prints a value as JSON to stdout
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// PrintSuccess prints a success response to w
func PrintSuccess(w io.Writer, data interface{}) error {
	return Fprint(w, Success(data))
}

// PrintError prints an error response to w
func PrintError(w io.Writer, err error) error {
	return Fprint(w, Error(err))
}
