package document

import "testing"

func TestFromStrings(t *testing.T) {
	doc := FromStrings([]string{"ab", "c", "def"})
	if doc.Len() != 3 {
		t.Fatalf("expected 3 tokens, got %d", doc.Len())
	}
	want := []Token{
		{Text: "ab", StartByte: 0, EndByte: 2},
		{Text: "c", StartByte: 2, EndByte: 3},
		{Text: "def", StartByte: 3, EndByte: 6},
	}
	for i, w := range want {
		if got := doc.Token(i); got != w {
			t.Errorf("token %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestMergeRange(t *testing.T) {
	doc := FromStrings([]string{"a", "b", "c", "d"})
	doc.MergeRange(1, 3)

	if doc.Len() != 3 {
		t.Fatalf("expected 3 tokens after merge, got %d", doc.Len())
	}
	merged := doc.Token(1)
	if merged.Text != "bc" {
		t.Errorf("expected merged text %q, got %q", "bc", merged.Text)
	}
	if merged.StartByte != 1 || merged.EndByte != 3 {
		t.Errorf("expected merged span [1,3), got [%d,%d)", merged.StartByte, merged.EndByte)
	}
	if doc.Token(2).Text != "d" {
		t.Errorf("expected trailing token %q, got %q", "d", doc.Token(2).Text)
	}
}

func TestMergeRange_PreservesText(t *testing.T) {
	doc := FromStrings([]string{"This", "is", "👍", "🏿", "fine"})
	before := doc.Text()
	doc.MergeRange(2, 4)
	if after := doc.Text(); after != before {
		t.Errorf("document text changed by merge: %q != %q", after, before)
	}
}

func TestMergeRange_InvalidBoundsPanics(t *testing.T) {
	cases := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 2},
		{"start equals end", 1, 1},
		{"end past length", 0, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for range [%d,%d)", tc.start, tc.end)
				}
			}()
			doc := FromStrings([]string{"a", "b", "c"})
			doc.MergeRange(tc.start, tc.end)
		})
	}
}

func TestMergeInvalidatesAnnotation(t *testing.T) {
	doc := FromStrings([]string{"a", "b", "c"})
	doc.SetAnnotation(&Annotation{
		IsEmoji:     []bool{false, true, false},
		Descs:       []string{"", "x", ""},
		Occurrences: []Occurrence{{Text: "b", TokenIndex: 1, Description: "x"}},
	})
	if !doc.HasEmoji() {
		t.Fatal("expected has_emoji before merge")
	}
	doc.MergeRange(0, 2)
	if doc.Annotated() {
		t.Error("expected annotation view invalidated after merge")
	}
	if doc.HasEmoji() {
		t.Error("expected has_emoji false after invalidation")
	}
}

func TestAnnotationAccessors(t *testing.T) {
	doc := FromStrings([]string{"hi", "😻"})
	if doc.HasEmoji() || doc.IsEmoji(0) || doc.EmojiDesc(1) != "" {
		t.Fatal("expected empty view before annotation")
	}
	doc.SetAnnotation(&Annotation{
		IsEmoji:     []bool{false, true},
		Descs:       []string{"", "smiling cat face with heart-eyes"},
		Occurrences: []Occurrence{{Text: "😻", TokenIndex: 1, Description: "smiling cat face with heart-eyes"}},
	})
	if !doc.HasEmoji() {
		t.Error("expected has_emoji true")
	}
	if doc.IsEmoji(0) {
		t.Error("token 0 should not be emoji")
	}
	if !doc.IsEmoji(1) {
		t.Error("token 1 should be emoji")
	}
	if doc.EmojiDesc(1) != "smiling cat face with heart-eyes" {
		t.Errorf("unexpected description %q", doc.EmojiDesc(1))
	}
}

func TestSetAnnotation_SizeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mis-sized annotation")
		}
	}()
	doc := FromStrings([]string{"a", "b"})
	doc.SetAnnotation(&Annotation{IsEmoji: []bool{true}, Descs: []string{"x"}})
}

func TestSpanEmojiFiltering(t *testing.T) {
	doc := FromStrings([]string{"a", "😻", "b", "🎉", "c"})
	doc.SetAnnotation(&Annotation{
		IsEmoji: []bool{false, true, false, true, false},
		Descs:   []string{"", "cat", "", "party popper", ""},
		Occurrences: []Occurrence{
			{Text: "😻", TokenIndex: 1, Description: "cat"},
			{Text: "🎉", TokenIndex: 3, Description: "party popper"},
		},
	})

	span := doc.Slice(0, 3)
	if !span.HasEmoji() {
		t.Error("expected span [0,3) to contain emoji")
	}
	occs := span.Emoji()
	if len(occs) != 1 || occs[0].Text != "😻" {
		t.Errorf("expected only the cat occurrence, got %+v", occs)
	}

	tail := doc.Slice(4, 5)
	if tail.HasEmoji() {
		t.Error("expected span [4,5) to contain no emoji")
	}
}

func TestSpanText(t *testing.T) {
	doc := FromStrings([]string{"foo", "bar", "baz"})
	if got := doc.Slice(1, 3).Text(); got != "barbaz" {
		t.Errorf("expected %q, got %q", "barbaz", got)
	}
}
