// Package validator provides input validation for annotation requests. It
// enforces the text-or-tokens contract and size limits and returns
// per-field error details.
package validator

import (
	"fmt"
	"strings"

	"github.com/annotext/emoji-annotation-platform/internal/annotation"
)

// Limits caps the accepted input size. Zero values fall back to the
// defaults below.
type Limits struct {
	MaxTextBytes int
	MaxTokens    int
}

const (
	defaultMaxTextBytes = 1048576
	defaultMaxTokens    = 65536
	maxDocumentIDLength = 255
)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s:%s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// ValidateAnnotateRequest checks that exactly one of text and tokens is
// set and that the input fits within the configured limits.
func ValidateAnnotateRequest(req *annotation.AnnotateRequest, limits Limits) error {
	if limits.MaxTextBytes <= 0 {
		limits.MaxTextBytes = defaultMaxTextBytes
	}
	if limits.MaxTokens <= 0 {
		limits.MaxTokens = defaultMaxTokens
	}

	errs := make(map[string]string)

	hasText := strings.TrimSpace(req.Text) != ""
	hasTokens := len(req.Tokens) > 0
	switch {
	case !hasText && !hasTokens:
		errs["text"] = "either text or tokens is required"
	case hasText && hasTokens:
		errs["tokens"] = "text and tokens are mutually exclusive"
	}

	if hasText && len(req.Text) > limits.MaxTextBytes {
		errs["text"] = fmt.Sprintf("text must be at most %d bytes", limits.MaxTextBytes)
	}
	if hasTokens {
		if len(req.Tokens) > limits.MaxTokens {
			errs["tokens"] = fmt.Sprintf("at most %d tokens are accepted", limits.MaxTokens)
		} else {
			total := 0
			for i, tok := range req.Tokens {
				if tok == "" {
					errs["tokens"] = fmt.Sprintf("token %d is empty", i)
					break
				}
				total += len(tok)
			}
			if total > limits.MaxTextBytes {
				errs["tokens"] = fmt.Sprintf("tokens must total at most %d bytes", limits.MaxTextBytes)
			}
		}
	}

	if len(req.DocumentID) > maxDocumentIDLength {
		errs["document_id"] = fmt.Sprintf("document id must be at most %d characters", maxDocumentIDLength)
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
