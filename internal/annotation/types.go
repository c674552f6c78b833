// Package annotation defines the request/response types and Kafka event
// schemas used by the emoji annotation pipeline.
package annotation

import (
	"time"

	"github.com/annotext/emoji-annotation-platform/internal/annotator/document"
)

// AnnotateRequest is the JSON body accepted by the annotation HTTP endpoint.
// Exactly one of Text or Tokens must be set: Text is tokenized server-side,
// Tokens is a pre-tokenized sequence taken as-is.
type AnnotateRequest struct {
	DocumentID string   `json:"document_id,omitempty"`
	Text       string   `json:"text,omitempty"`
	Tokens     []string `json:"tokens,omitempty"`
	PatternID  string   `json:"pattern_id,omitempty"`
}

// Result is returned to the caller after a document is annotated. The
// Annotation map is keyed by the annotator's configured attribute names.
type Result struct {
	DocumentID string         `json:"document_id"`
	PatternID  string         `json:"pattern_id"`
	Tokens     []string       `json:"tokens"`
	TokenCount int            `json:"token_count"`
	Annotation map[string]any `json:"annotation"`
}

// AnnotateEvent is the Kafka message payload consumed by the annotation
// worker: one document awaiting annotation.
type AnnotateEvent struct {
	DocumentID  string    `json:"document_id"`
	Text        string    `json:"text"`
	PatternID   string    `json:"pattern_id,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// AnnotatedEvent is published after a document has been annotated, for
// downstream consumers.
type AnnotatedEvent struct {
	DocumentID  string                `json:"document_id"`
	PatternID   string                `json:"pattern_id"`
	TokenCount  int                   `json:"token_count"`
	EmojiCount  int                   `json:"emoji_count"`
	Occurrences []document.Occurrence `json:"occurrences"`
	CompletedAt time.Time             `json:"completed_at"`
}
