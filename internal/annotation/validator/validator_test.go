package validator

import (
	"strings"
	"testing"

	"github.com/annotext/emoji-annotation-platform/internal/annotation"
)

func TestValidateAnnotateRequest(t *testing.T) {
	cases := []struct {
		name      string
		req       annotation.AnnotateRequest
		wantField string
	}{
		{
			name: "valid text",
			req:  annotation.AnnotateRequest{Text: "hello 👍"},
		},
		{
			name: "valid tokens",
			req:  annotation.AnnotateRequest{Tokens: []string{"hello", "👍"}},
		},
		{
			name:      "neither text nor tokens",
			req:       annotation.AnnotateRequest{},
			wantField: "text",
		},
		{
			name:      "both text and tokens",
			req:       annotation.AnnotateRequest{Text: "hi", Tokens: []string{"hi"}},
			wantField: "tokens",
		},
		{
			name:      "empty token",
			req:       annotation.AnnotateRequest{Tokens: []string{"ok", ""}},
			wantField: "tokens",
		},
		{
			name:      "document id too long",
			req:       annotation.AnnotateRequest{Text: "hi", DocumentID: strings.Repeat("x", 256)},
			wantField: "document_id",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAnnotateRequest(&tc.req, Limits{})
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid request, got %v", err)
				}
				return
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if _, present := vErr.Fields[tc.wantField]; !present {
				t.Errorf("expected failure on field %q, got %v", tc.wantField, vErr.Fields)
			}
		})
	}
}

func TestValidateAnnotateRequest_Limits(t *testing.T) {
	limits := Limits{MaxTextBytes: 10, MaxTokens: 3}

	err := ValidateAnnotateRequest(&annotation.AnnotateRequest{Text: "this is far too long"}, limits)
	if err == nil {
		t.Error("expected text over MaxTextBytes to fail")
	}

	err = ValidateAnnotateRequest(&annotation.AnnotateRequest{Tokens: []string{"a", "b", "c", "d"}}, limits)
	if err == nil {
		t.Error("expected tokens over MaxTokens to fail")
	}

	err = ValidateAnnotateRequest(&annotation.AnnotateRequest{Tokens: []string{"aaaa", "bbbb", "cccc"}}, limits)
	if err == nil {
		t.Error("expected token bytes over MaxTextBytes to fail")
	}

	err = ValidateAnnotateRequest(&annotation.AnnotateRequest{Text: "short"}, limits)
	if err != nil {
		t.Errorf("expected text within limits to pass, got %v", err)
	}
}
