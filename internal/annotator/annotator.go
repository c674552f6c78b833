// Package annotator implements the emoji annotation pipeline stage: it
// matches emoji occurrences in a tokenized document, merges multi-token
// sequences (combined pictures, skin tone modifiers) into single tokens,
// and rebuilds the document's annotation view.
package annotator

import (
	"fmt"

	"github.com/annotext/emoji-annotation-platform/internal/annotator/catalog"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/document"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/matcher"
)

// Annotator annotates documents with emoji metadata. It is immutable after
// construction and safe to share across goroutines as long as each document
// is processed by one goroutine at a time.
type Annotator struct {
	opts Options
	cat  *catalog.Catalog
}

// New creates an Annotator over the bundled emoji table, with the options'
// lookup merged on top. Malformed options fail immediately.
func New(opts Options) (*Annotator, error) {
	cat, err := catalog.New(opts.Lookup)
	if err != nil {
		return nil, err
	}
	return NewWithCatalog(cat, opts)
}

// NewWithCatalog creates an Annotator over an explicit catalog. The catalog
// must already include any override lookup the caller wants applied.
func NewWithCatalog(cat *catalog.Catalog, opts Options) (*Annotator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Annotator{opts: opts, cat: cat}, nil
}

// PatternID returns the ID tagging this annotator's pattern set.
func (a *Annotator) PatternID() string {
	return a.opts.PatternID
}

// MergeSpans reports whether this annotator merges multi-token sequences.
func (a *Annotator) MergeSpans() bool {
	return a.opts.MergeSpans
}

// AttributeNames returns the configured annotation slot names in slot order.
func (a *Annotator) AttributeNames() []string {
	return a.opts.AttributeNames
}

// Catalog returns the annotator's pattern catalog.
func (a *Annotator) Catalog() *catalog.Catalog {
	return a.cat
}

// Process runs the full pipeline on one document: match, merge (unless
// disabled), annotate. The document's token sequence may shrink; its
// annotation view is rebuilt either way. Processing an already-merged
// document again is a no-op beyond rebuilding the view.
func (a *Annotator) Process(doc *document.Document) error {
	matches, err := matcher.Find(doc, a.cat)
	if err != nil {
		return fmt.Errorf("matching emoji: %w", err)
	}

	if a.opts.MergeSpans {
		a.merge(doc, matches)
	}
	a.annotate(doc, matches)
	return nil
}

// merge collapses every multi-token match into a single token in one left
// to right sweep. Matches are non-overlapping and ordered by start, so each
// span's coordinates only need adjusting by the cumulative shrinkage of the
// merges before it.
func (a *Annotator) merge(doc *document.Document, matches []matcher.Match) {
	shift := 0
	for _, m := range matches {
		length := m.End - m.Start
		if length > 1 {
			doc.MergeRange(m.Start-shift, m.End-shift)
			shift += length - 1
		}
	}
}

// annotate rebuilds the document's annotation view from the match list.
// With merging enabled every match is a single token by now; without it,
// every constituent token of a multi-token match is flagged and the
// occurrence is reported at the start of the run.
func (a *Annotator) annotate(doc *document.Document, matches []matcher.Match) {
	n := doc.Len()
	ann := &document.Annotation{
		IsEmoji: make([]bool, n),
		Descs:   make([]string, n),
	}

	if a.opts.MergeSpans {
		shift := 0
		for _, m := range matches {
			idx := m.Start - shift
			ann.IsEmoji[idx] = true
			ann.Descs[idx] = m.Description
			ann.Occurrences = append(ann.Occurrences, document.Occurrence{
				Text:        m.Text,
				TokenIndex:  idx,
				Description: m.Description,
			})
			shift += m.End - m.Start - 1
		}
	} else {
		for _, m := range matches {
			for i := m.Start; i < m.End; i++ {
				ann.IsEmoji[i] = true
				ann.Descs[i] = m.Description
			}
			ann.Occurrences = append(ann.Occurrences, document.Occurrence{
				Text:        m.Text,
				TokenIndex:  m.Start,
				Description: m.Description,
			})
		}
	}

	doc.SetAnnotation(ann)
}
