// Package document defines the tokenized document model the annotator
// operates on: tokens with byte spans, in-place token-range merging, and a
// cached per-document annotation view.
package document

import (
	"fmt"
	"strings"
)

// Token is one text unit of a Document. Byte offsets refer to the original
// input text; a merged token spans from the first constituent's start to the
// last constituent's end.
type Token struct {
	Text      string
	StartByte int
	EndByte   int
}

// Occurrence is one resolved emoji match: the matched text, the index of the
// token carrying it, and its description. Indexes refer to the token
// sequence as it was when the annotation view was built.
type Occurrence struct {
	Text        string `json:"text"`
	TokenIndex  int    `json:"token_index"`
	Description string `json:"description"`
}

// Annotation is the derived per-document view: per-token emoji flags and
// descriptions plus the ordered occurrence list. It is rebuilt from scratch
// whenever the token sequence changes and is read-only afterwards.
type Annotation struct {
	IsEmoji     []bool
	Descs       []string
	Occurrences []Occurrence
}

// Document is an ordered sequence of tokens. It owns its tokens exclusively;
// the only mutation is merging a token range into a single token.
type Document struct {
	tokens []Token
	ann    *Annotation
}

// New creates a Document that takes ownership of the given tokens.
func New(tokens []Token) *Document {
	return &Document{tokens: tokens}
}

// FromStrings builds a Document from plain token texts, deriving byte
// offsets from their concatenation. Useful for tests and pre-tokenized
// input where original offsets are unavailable.
func FromStrings(texts []string) *Document {
	tokens := make([]Token, len(texts))
	offset := 0
	for i, text := range texts {
		tokens[i] = Token{Text: text, StartByte: offset, EndByte: offset + len(text)}
		offset += len(text)
	}
	return &Document{tokens: tokens}
}

// Len returns the current number of tokens.
func (d *Document) Len() int {
	return len(d.tokens)
}

// Token returns the token at index i.
func (d *Document) Token(i int) Token {
	return d.tokens[i]
}

// Tokens returns a copy of the current token sequence.
func (d *Document) Tokens() []Token {
	out := make([]Token, len(d.tokens))
	copy(out, d.tokens)
	return out
}

// TokenTexts returns the literal text of every token in order.
func (d *Document) TokenTexts() []string {
	texts := make([]string, len(d.tokens))
	for i, t := range d.tokens {
		texts[i] = t.Text
	}
	return texts
}

// Text returns the concatenation of all token texts.
func (d *Document) Text() string {
	var b strings.Builder
	for _, t := range d.tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// MergeRange replaces tokens [start, end) with a single token whose text is
// their concatenation. Indexes are in current coordinates. Any cached
// annotation view is invalidated. Invalid bounds are a programming error
// and panic.
func (d *Document) MergeRange(start, end int) {
	if start < 0 || start >= end || end > len(d.tokens) {
		panic(fmt.Sprintf("document: invalid merge range [%d,%d) for %d tokens", start, end, len(d.tokens)))
	}
	d.ann = nil
	if end-start == 1 {
		return
	}
	var b strings.Builder
	for _, t := range d.tokens[start:end] {
		b.WriteString(t.Text)
	}
	merged := Token{
		Text:      b.String(),
		StartByte: d.tokens[start].StartByte,
		EndByte:   d.tokens[end-1].EndByte,
	}
	d.tokens[start] = merged
	d.tokens = append(d.tokens[:start+1], d.tokens[end:]...)
}

// SetAnnotation installs a freshly built annotation view. The view must
// describe the token sequence as it currently stands.
func (d *Document) SetAnnotation(ann *Annotation) {
	if ann != nil && (len(ann.IsEmoji) != len(d.tokens) || len(ann.Descs) != len(d.tokens)) {
		panic(fmt.Sprintf("document: annotation sized for %d tokens, document has %d", len(ann.IsEmoji), len(d.tokens)))
	}
	d.ann = ann
}

// Annotated reports whether an annotation view is present.
func (d *Document) Annotated() bool {
	return d.ann != nil
}

// HasEmoji reports whether any emoji occurrence was found in the document.
// False when no annotation view has been built.
func (d *Document) HasEmoji() bool {
	return d.ann != nil && len(d.ann.Occurrences) > 0
}

// IsEmoji reports whether the token at index i is (part of) an emoji.
func (d *Document) IsEmoji(i int) bool {
	if d.ann == nil {
		return false
	}
	return d.ann.IsEmoji[i]
}

// EmojiDesc returns the description attached to the token at index i, or
// the empty string for non-emoji tokens.
func (d *Document) EmojiDesc(i int) string {
	if d.ann == nil {
		return ""
	}
	return d.ann.Descs[i]
}

// Emoji returns the ordered emoji occurrence list for the whole document.
func (d *Document) Emoji() []Occurrence {
	if d.ann == nil {
		return nil
	}
	return d.ann.Occurrences
}

// Span is a view over tokens [Start, End) of a Document in current
// coordinates. It does not own tokens and becomes invalid after any merge
// that alters indexes at or before its end.
type Span struct {
	doc   *Document
	Start int
	End   int
}

// Slice returns a Span over tokens [start, end). Invalid bounds panic.
func (d *Document) Slice(start, end int) Span {
	if start < 0 || start >= end || end > len(d.tokens) {
		panic(fmt.Sprintf("document: invalid span [%d,%d) for %d tokens", start, end, len(d.tokens)))
	}
	return Span{doc: d, Start: start, End: end}
}

// Len returns the number of tokens covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Text returns the concatenation of the span's token texts.
func (s Span) Text() string {
	var b strings.Builder
	for _, t := range s.doc.tokens[s.Start:s.End] {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Emoji returns the document's occurrences whose token index falls inside
// the span's bounds.
func (s Span) Emoji() []Occurrence {
	var out []Occurrence
	for _, occ := range s.doc.Emoji() {
		if occ.TokenIndex >= s.Start && occ.TokenIndex < s.End {
			out = append(out, occ)
		}
	}
	return out
}

// HasEmoji reports whether any emoji occurrence falls inside the span.
func (s Span) HasEmoji() bool {
	return len(s.Emoji()) > 0
}
