package annotation

import (
	"github.com/annotext/emoji-annotation-platform/internal/annotator"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/document"
)

// Render builds the attribute-name-keyed annotation map for a processed
// document. Slot order is fixed: document flag, per-token flags, per-token
// descriptions, occurrence list; the names come from the annotator's
// configuration.
func Render(doc *document.Document, a *annotator.Annotator) map[string]any {
	names := a.AttributeNames()
	n := doc.Len()

	isEmoji := make([]bool, n)
	descs := make([]string, n)
	for i := 0; i < n; i++ {
		isEmoji[i] = doc.IsEmoji(i)
		descs[i] = doc.EmojiDesc(i)
	}
	occs := doc.Emoji()
	if occs == nil {
		occs = []document.Occurrence{}
	}

	return map[string]any{
		names[0]: doc.HasEmoji(),
		names[1]: isEmoji,
		names[2]: descs,
		names[3]: occs,
	}
}

// RenderResult assembles the full response payload for one document.
func RenderResult(docID string, doc *document.Document, a *annotator.Annotator) *Result {
	return &Result{
		DocumentID: docID,
		PatternID:  a.PatternID(),
		Tokens:     doc.TokenTexts(),
		TokenCount: doc.Len(),
		Annotation: Render(doc, a),
	}
}
