package registry

import (
	"errors"
	"reflect"
	"testing"

	"github.com/annotext/emoji-annotation-platform/internal/annotator"
	apperrors "github.com/annotext/emoji-annotation-platform/pkg/errors"
)

func newAnnotator(t *testing.T, patternID string) *annotator.Annotator {
	t.Helper()
	opts := annotator.DefaultOptions()
	opts.PatternID = patternID
	a, err := annotator.New(opts)
	if err != nil {
		t.Fatalf("building annotator: %v", err)
	}
	return a
}

func TestRegisterAndGet(t *testing.T) {
	reg := New()
	a := newAnnotator(t, "EMOJI")
	if err := reg.Register(a); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := reg.Get("EMOJI")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != a {
		t.Error("Get returned a different annotator")
	}

	// The empty ID resolves to the default, which is the first registered.
	got, err = reg.Get("")
	if err != nil {
		t.Fatalf("Get default: %v", err)
	}
	if got != a {
		t.Error("default resolution returned a different annotator")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	reg := New()
	if err := reg.Register(newAnnotator(t, "EMOJI")); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	err := reg.Register(newAnnotator(t, "EMOJI"))
	if !errors.Is(err, apperrors.ErrDuplicatePatternID) {
		t.Errorf("expected ErrDuplicatePatternID, got %v", err)
	}
}

func TestGet_Unknown(t *testing.T) {
	reg := New()
	_, err := reg.Get("MISSING")
	if !errors.Is(err, apperrors.ErrUnknownPatternID) {
		t.Errorf("expected ErrUnknownPatternID, got %v", err)
	}
}

func TestReplace(t *testing.T) {
	reg := New()
	if err := reg.Register(newAnnotator(t, "EMOJI")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	replacement := newAnnotator(t, "EMOJI")
	reg.Replace(replacement)

	got, err := reg.Get("EMOJI")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != replacement {
		t.Error("Replace did not swap the annotator")
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 registration, got %d", reg.Len())
	}
}

func TestIDs_Sorted(t *testing.T) {
	reg := New()
	for _, id := range []string{"ZULU", "ALPHA", "MIKE"} {
		if err := reg.Register(newAnnotator(t, id)); err != nil {
			t.Fatalf("Register(%s): %v", id, err)
		}
	}
	want := []string{"ALPHA", "MIKE", "ZULU"}
	if got := reg.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected IDs %v, want %v", got, want)
	}
	if reg.DefaultID() != "ZULU" {
		t.Errorf("expected first registration as default, got %q", reg.DefaultID())
	}
}
