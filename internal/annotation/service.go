package annotation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/annotext/emoji-annotation-platform/internal/annotation/registry"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/store"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/document"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/tokenizer"
	"github.com/annotext/emoji-annotation-platform/pkg/metrics"
	"github.com/annotext/emoji-annotation-platform/pkg/tracing"
	"github.com/oklog/ulid/v2"
)

// Service runs annotation requests end to end: resolve the annotator,
// tokenize, process, render, audit. It is the shared core of the HTTP
// handler and the Kafka worker.
type Service struct {
	registry *registry.Registry
	store    *store.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService creates a Service. store and m may be nil; auditing and
// metric recording are then skipped.
func NewService(reg *registry.Registry, st *store.Store, m *metrics.Metrics) *Service {
	return &Service{
		registry: reg,
		store:    st,
		metrics:  m,
		logger:   slog.Default().With("component", "annotation-service"),
	}
}

// Registry returns the service's annotator registry.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Annotate processes one request and returns the rendered result. source
// tags where the request came from ("http", "kafka", "cli") for auditing
// and metrics.
func (s *Service) Annotate(ctx context.Context, req *AnnotateRequest, source string) (*Result, error) {
	a, err := s.registry.Get(req.PatternID)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartChildSpan(ctx, "annotate")
	defer span.End()
	span.SetAttr("pattern_id", a.PatternID())

	var doc *document.Document
	if len(req.Tokens) > 0 {
		doc = document.FromStrings(req.Tokens)
	} else {
		doc = document.New(tokenizer.Tokenize(req.Text))
	}
	tokensBefore := doc.Len()

	if err := a.Process(doc); err != nil {
		if s.metrics != nil {
			s.metrics.DocsAnnotatedTotal.WithLabelValues(source, "error").Inc()
		}
		return nil, fmt.Errorf("processing document: %w", err)
	}

	docID := req.DocumentID
	if docID == "" {
		docID = ulid.Make().String()
	}
	result := RenderResult(docID, doc, a)

	emojiCount := len(doc.Emoji())
	if s.metrics != nil {
		s.metrics.DocsAnnotatedTotal.WithLabelValues(source, "ok").Inc()
		s.metrics.EmojiMatchedTotal.Add(float64(emojiCount))
		s.metrics.SpansMergedTotal.Add(float64(tokensBefore - doc.Len()))
		s.metrics.TokensPerDocument.Observe(float64(doc.Len()))
	}
	if s.store != nil {
		s.store.RecordRun(ctx, store.Run{
			ID:         ulid.Make().String(),
			DocumentID: docID,
			PatternID:  a.PatternID(),
			TokenCount: doc.Len(),
			EmojiCount: emojiCount,
			Source:     source,
			CreatedAt:  time.Now().UTC(),
		})
	}

	s.logger.Debug("document annotated",
		"document_id", docID,
		"pattern_id", a.PatternID(),
		"tokens", doc.Len(),
		"emoji", emojiCount,
		"source", source,
	)
	return result, nil
}
