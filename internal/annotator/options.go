package annotator

import (
	"fmt"

	apperrors "github.com/annotext/emoji-annotation-platform/pkg/errors"
)

// DefaultPatternID tags the default pattern set. Hosts running several
// annotators side by side give each its own ID to avoid clashes.
const DefaultPatternID = "EMOJI"

// AttributeCount is the number of annotation slots an annotator exposes:
// has_emoji, is_emoji, emoji_desc, and the occurrence list.
const AttributeCount = 4

// DefaultAttributeNames returns the default names of the exposed
// annotation slots, in slot order.
func DefaultAttributeNames() []string {
	return []string{"has_emoji", "is_emoji", "emoji_desc", "emoji"}
}

// Options configures an Annotator.
type Options struct {
	// PatternID tags this annotator's pattern set. Purely a naming
	// facility; it has no effect on matching results.
	PatternID string

	// MergeSpans controls whether multi-token emoji sequences are merged
	// into a single token. When false, matches are still found and
	// reported but the token sequence is left untouched.
	MergeSpans bool

	// Lookup maps emoji unicode strings to custom descriptions, overriding
	// or extending the bundled table.
	Lookup map[string]string

	// AttributeNames renames the four exposed annotation slots, in slot
	// order: has_emoji, is_emoji, emoji_desc, emoji.
	AttributeNames []string
}

// DefaultOptions returns Options with the defaults the platform ships with.
func DefaultOptions() Options {
	return Options{
		PatternID:      DefaultPatternID,
		MergeSpans:     true,
		AttributeNames: DefaultAttributeNames(),
	}
}

// validate rejects malformed options at construction time; nothing is
// silently defaulted past this point.
func (o Options) validate() error {
	if o.PatternID == "" {
		return apperrors.New(apperrors.ErrInvalidConfig, 400, "pattern id must not be empty")
	}
	if len(o.AttributeNames) != AttributeCount {
		return apperrors.Newf(apperrors.ErrInvalidConfig, 400,
			"expected %d attribute names, got %d", AttributeCount, len(o.AttributeNames))
	}
	seen := make(map[string]struct{}, AttributeCount)
	for _, name := range o.AttributeNames {
		if name == "" {
			return apperrors.New(apperrors.ErrInvalidConfig, 400, "attribute names must not be empty")
		}
		if _, dup := seen[name]; dup {
			return apperrors.Newf(apperrors.ErrInvalidConfig, 400, "duplicate attribute name %q", name)
		}
		seen[name] = struct{}{}
	}
	for key := range o.Lookup {
		if key == "" {
			return apperrors.New(apperrors.ErrInvalidConfig, 400, "lookup keys must not be empty")
		}
	}
	return nil
}

func (o Options) String() string {
	return fmt.Sprintf("pattern_id=%s merge_spans=%t lookup_entries=%d", o.PatternID, o.MergeSpans, len(o.Lookup))
}
