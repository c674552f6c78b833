package annotation

import (
	"context"
	"reflect"
	"testing"

	"github.com/annotext/emoji-annotation-platform/internal/annotation/registry"
	"github.com/annotext/emoji-annotation-platform/internal/annotator"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/document"
)

func newService(t *testing.T, opts annotator.Options) *Service {
	t.Helper()
	a, err := annotator.New(opts)
	if err != nil {
		t.Fatalf("building annotator: %v", err)
	}
	reg := registry.New()
	if err := reg.Register(a); err != nil {
		t.Fatalf("registering annotator: %v", err)
	}
	return NewService(reg, nil, nil)
}

func TestAnnotate_Text(t *testing.T) {
	svc := newService(t, annotator.DefaultOptions())

	result, err := svc.Annotate(context.Background(), &AnnotateRequest{
		Text: "This is a test 😻 👍🏿",
	}, "http")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	wantTokens := []string{"This", "is", "a", "test", "😻", "👍🏿"}
	if !reflect.DeepEqual(result.Tokens, wantTokens) {
		t.Errorf("unexpected tokens %v, want %v", result.Tokens, wantTokens)
	}
	if result.TokenCount != 6 {
		t.Errorf("unexpected token count %d", result.TokenCount)
	}
	if result.PatternID != annotator.DefaultPatternID {
		t.Errorf("unexpected pattern id %q", result.PatternID)
	}
	if result.DocumentID == "" {
		t.Error("expected a generated document id")
	}

	if has, _ := result.Annotation["has_emoji"].(bool); !has {
		t.Error("expected has_emoji true")
	}
	occs, ok := result.Annotation["emoji"].([]document.Occurrence)
	if !ok {
		t.Fatalf("unexpected occurrence slot type %T", result.Annotation["emoji"])
	}
	want := []document.Occurrence{
		{Text: "😻", TokenIndex: 4, Description: "smiling cat face with heart-eyes"},
		{Text: "👍🏿", TokenIndex: 5, Description: "thumbs up dark skin tone"},
	}
	if !reflect.DeepEqual(occs, want) {
		t.Errorf("unexpected occurrences %+v, want %+v", occs, want)
	}
}

func TestAnnotate_PreTokenized(t *testing.T) {
	svc := newService(t, annotator.DefaultOptions())

	result, err := svc.Annotate(context.Background(), &AnnotateRequest{
		DocumentID: "doc-42",
		Tokens:     []string{"This", "is", "a", "test", "😻", "👍", "🏿"},
	}, "http")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if result.DocumentID != "doc-42" {
		t.Errorf("caller-assigned document id was not kept: %q", result.DocumentID)
	}
	if result.TokenCount != 6 {
		t.Errorf("expected skin tone sequence merged, got %v", result.Tokens)
	}
}

func TestAnnotate_CustomAttributeNames(t *testing.T) {
	opts := annotator.DefaultOptions()
	opts.AttributeNames = []string{"contains_emoji", "emoji_flag", "description", "occurrences"}
	svc := newService(t, opts)

	result, err := svc.Annotate(context.Background(), &AnnotateRequest{Text: "hi 😀"}, "http")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	for _, name := range opts.AttributeNames {
		if _, present := result.Annotation[name]; !present {
			t.Errorf("annotation missing slot %q: %v", name, result.Annotation)
		}
	}
	if _, present := result.Annotation["has_emoji"]; present {
		t.Error("default slot name present despite renaming")
	}
}

func TestAnnotate_NoMergeKeepsTokens(t *testing.T) {
	opts := annotator.DefaultOptions()
	opts.MergeSpans = false
	svc := newService(t, opts)

	result, err := svc.Annotate(context.Background(), &AnnotateRequest{
		Tokens: []string{"This", "is", "a", "test", "😻", "👍", "🏿"},
	}, "http")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if result.TokenCount != 7 {
		t.Errorf("expected 7 tokens without merging, got %d", result.TokenCount)
	}
	occs := result.Annotation["emoji"].([]document.Occurrence)
	if len(occs) != 2 || occs[1].TokenIndex != 5 {
		t.Errorf("unexpected occurrences %+v", occs)
	}
}

func TestAnnotate_UnknownPatternID(t *testing.T) {
	svc := newService(t, annotator.DefaultOptions())
	_, err := svc.Annotate(context.Background(), &AnnotateRequest{
		Text:      "hello",
		PatternID: "MISSING",
	}, "http")
	if err == nil {
		t.Fatal("expected error for unknown pattern id")
	}
}

func TestRender_EmptyOccurrencesNotNil(t *testing.T) {
	svc := newService(t, annotator.DefaultOptions())
	result, err := svc.Annotate(context.Background(), &AnnotateRequest{Text: "plain words"}, "http")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	occs, ok := result.Annotation["emoji"].([]document.Occurrence)
	if !ok {
		t.Fatalf("unexpected occurrence slot type %T", result.Annotation["emoji"])
	}
	if occs == nil {
		t.Error("occurrence slot must be an empty list, not null")
	}
	if len(occs) != 0 {
		t.Errorf("unexpected occurrences %+v", occs)
	}
}
