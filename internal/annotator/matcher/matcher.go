// Package matcher finds emoji occurrences in a tokenized document: maximal
// non-overlapping runs of consecutive tokens whose concatenated text equals
// a catalog pattern.
package matcher

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/annotext/emoji-annotation-platform/internal/annotator/catalog"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/document"
)

// Match is one emoji occurrence covering tokens [Start, End) in the
// document's coordinates at match time.
type Match struct {
	Start       int
	End         int
	Text        string
	Description string
}

// Find scans the document left to right and returns all non-overlapping
// matches ordered by start index. At each position the longest run of
// tokens whose concatenation is a catalog pattern wins, so a full
// multi-token emoji sequence is preferred over a prefix of it. Matching is
// pure text equality over whole tokens; no normalization is applied.
//
// Work is bounded by the longest pattern: a run of more codepoints than
// any pattern cannot match and stops the inner scan.
func Find(doc *document.Document, cat *catalog.Catalog) ([]Match, error) {
	n := doc.Len()
	if n == 0 {
		return nil, nil
	}
	maxLen := cat.MaxPatternLen()

	var matches []Match
	for i := 0; i < n; {
		bestEnd := 0
		bestText := ""

		var run strings.Builder
		codepoints := 0
		for j := i; j < n; j++ {
			text := doc.Token(j).Text
			codepoints += utf8.RuneCountInString(text)
			if codepoints > maxLen {
				break
			}
			run.WriteString(text)
			if cat.Has(run.String()) {
				bestEnd = j + 1
				bestText = run.String()
			}
		}

		if bestEnd == 0 {
			i++
			continue
		}
		desc, err := cat.Describe(bestText)
		if err != nil {
			// Unreachable for patterns the catalog itself produced; a miss
			// here means the pattern set and catalog have diverged.
			return nil, fmt.Errorf("resolving description for match at token %d: %w", i, err)
		}
		matches = append(matches, Match{
			Start:       i,
			End:         bestEnd,
			Text:        bestText,
			Description: desc,
		})
		i = bestEnd
	}
	return matches, nil
}
