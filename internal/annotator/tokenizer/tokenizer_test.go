package tokenizer

import (
	"reflect"
	"testing"

	"github.com/annotext/emoji-annotation-platform/internal/annotator/document"
)

func texts(tokens []document.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenize_PlainText(t *testing.T) {
	tokens := Tokenize("This is a test")
	want := []document.Token{
		{Text: "This", StartByte: 0, EndByte: 4},
		{Text: "is", StartByte: 5, EndByte: 7},
		{Text: "a", StartByte: 8, EndByte: 9},
		{Text: "test", StartByte: 10, EndByte: 14},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("unexpected tokens %+v, want %+v", tokens, want)
	}
}

func TestTokenize_SplitsSkinToneModifier(t *testing.T) {
	tokens := Tokenize("This is a test 😻 👍🏿")
	want := []string{"This", "is", "a", "test", "😻", "👍", "🏿"}
	if got := texts(tokens); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected tokens %v, want %v", got, want)
	}
}

func TestTokenize_SplitsZWJSequence(t *testing.T) {
	tokens := Tokenize("👩‍💻")
	want := []string{"👩", "‍", "💻"}
	if got := texts(tokens); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected tokens %v, want %v", got, want)
	}
}

func TestTokenize_EmojiInsideWord(t *testing.T) {
	tokens := Tokenize("ab😀cd")
	want := []document.Token{
		{Text: "ab", StartByte: 0, EndByte: 2},
		{Text: "😀", StartByte: 2, EndByte: 6},
		{Text: "cd", StartByte: 6, EndByte: 8},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("unexpected tokens %+v, want %+v", tokens, want)
	}
}

func TestTokenize_OffsetsCoverInput(t *testing.T) {
	input := "hey 👍🏿 there 🎉🎉 end"
	for _, tok := range Tokenize(input) {
		if got := input[tok.StartByte:tok.EndByte]; got != tok.Text {
			t.Errorf("offsets [%d,%d) yield %q, token says %q", tok.StartByte, tok.EndByte, got, tok.Text)
		}
	}
}

func TestTokenize_Empty(t *testing.T) {
	if tokens := Tokenize(""); tokens != nil {
		t.Errorf("expected no tokens, got %+v", tokens)
	}
	if tokens := Tokenize("   \n\t "); tokens != nil {
		t.Errorf("expected no tokens for whitespace, got %+v", tokens)
	}
}

func TestTokenize_RepeatedFields(t *testing.T) {
	// Identical fields must map to successive positions, not the first
	// occurrence every time.
	tokens := Tokenize("go go go")
	want := []document.Token{
		{Text: "go", StartByte: 0, EndByte: 2},
		{Text: "go", StartByte: 3, EndByte: 5},
		{Text: "go", StartByte: 6, EndByte: 8},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("unexpected tokens %+v, want %+v", tokens, want)
	}
}
