// Package tokenizer provides whitespace tokenisation with byte offsets for
// the annotation services. Emoji-class codepoints are additionally split
// into one token apiece, so multi-codepoint emoji sequences (skin tones,
// ZWJ sequences, flags) arrive at the annotator as runs of single-codepoint
// tokens, the way an upstream linguistic tokenizer would deliver them.
package tokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/annotext/emoji-annotation-platform/internal/annotator/document"
)

// Tokenize splits text into tokens, preserving case and punctuation within
// non-emoji runs. Byte offsets refer to the input text.
func Tokenize(text string) []document.Token {
	var tokens []document.Token

	fields := strings.Fields(text)
	searchFrom := 0
	for _, f := range fields {
		idx := strings.Index(text[searchFrom:], f)
		start := searchFrom + idx
		tokens = append(tokens, splitField(f, start)...)
		searchFrom = start + len(f)
	}
	return tokens
}

// splitField breaks one whitespace-delimited field into tokens: contiguous
// non-emoji runes stay together, every emoji-class rune stands alone.
func splitField(field string, base int) []document.Token {
	var tokens []document.Token
	runStart := -1

	flush := func(end int) {
		if runStart < 0 {
			return
		}
		tokens = append(tokens, document.Token{
			Text:      field[runStart:end],
			StartByte: base + runStart,
			EndByte:   base + end,
		})
		runStart = -1
	}

	for i, r := range field {
		if isEmojiRune(r) {
			flush(i)
			size := utf8.RuneLen(r)
			tokens = append(tokens, document.Token{
				Text:      field[i : i+size],
				StartByte: base + i,
				EndByte:   base + i + size,
			})
			continue
		}
		if runStart < 0 {
			runStart = i
		}
	}
	flush(len(field))
	return tokens
}

// isEmojiRune reports whether r belongs to the emoji-class codepoint ranges
// the tokenizer isolates. Joiners and variation selectors count: they are
// constituents of multi-codepoint sequences and must be split the same way.
func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, emoticons, transport, flags, modifiers
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows, stars
		return true
	case r >= 0x2300 && r <= 0x23FF: // technical (watch, hourglass, keyboard)
		return true
	case r == 0x200D: // zero width joiner
		return true
	case r == 0xFE0F: // variation selector 16
		return true
	default:
		return false
	}
}
