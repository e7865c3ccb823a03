package docx

import "strings"

// RenderErrorKind classifies a merge failure.
type RenderErrorKind string

const (
	// ErrKindTagNotFound means one or more placeholders had no binding.
	ErrKindTagNotFound RenderErrorKind = "tag_not_found"
	// ErrKindSyntax means the placeholder syntax itself is malformed.
	ErrKindSyntax RenderErrorKind = "syntax"
	// ErrKindOther covers container serialization failures.
	ErrKindOther RenderErrorKind = "other"
)

// RenderError is a structured merge failure. For ErrKindTagNotFound,
// MissingTags carries every unresolved tag from the render attempt.
type RenderError struct {
	Kind        RenderErrorKind
	MissingTags []string
	Message     string
}

func (e *RenderError) Error() string {
	switch e.Kind {
	case ErrKindTagNotFound:
		return "render failed: unresolved tags: " + strings.Join(e.MissingTags, ", ")
	case ErrKindSyntax:
		return "render failed: " + e.Message
	default:
		return "render failed: " + e.Message
	}
}
