package models

// RecoverableError is implemented by enriched errors that carry structured
// context and remediation hints. The share codec and the command layer both
// use it so the command layer can log details without importing the codec's
// concrete types.
type RecoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}
