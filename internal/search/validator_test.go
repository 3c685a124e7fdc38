package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/starford/raido/internal/apperr"
)

func TestIsValidTarget_Accepts(t *testing.T) {
	f := &fakeFetcher{graph: map[string][]string{
		"start": {"a"},
		"a":     {"d"},
		"d":     {"target"},
	}}
	v := NewValidator(f)

	ok, err := v.IsValidTarget(context.Background(), "target", []string{"start", "a", "d"})
	if err != nil {
		t.Fatalf("IsValidTarget: %v", err)
	}
	if !ok {
		t.Error("expected valid target")
	}
}

func TestIsValidTarget_RejectsShortcut(t *testing.T) {
	// "start" already lists the candidate: solvable in one step, so the
	// three-step puzzle would lie about its minimum.
	f := &fakeFetcher{graph: map[string][]string{
		"start": {"a", "target"},
		"a":     {"d"},
		"d":     {"target"},
	}}
	v := NewValidator(f)

	ok, err := v.IsValidTarget(context.Background(), "target", []string{"start", "a", "d"})
	if err != nil {
		t.Fatalf("IsValidTarget: %v", err)
	}
	if ok {
		t.Error("shortcut candidate must be rejected")
	}
}

func TestIsValidTarget_RejectsDisconnected(t *testing.T) {
	f := &fakeFetcher{graph: map[string][]string{
		"d": {"other"},
	}}
	v := NewValidator(f)

	ok, err := v.IsValidTarget(context.Background(), "target", []string{"d"})
	if err != nil {
		t.Fatalf("IsValidTarget: %v", err)
	}
	if ok {
		t.Error("candidate absent from predecessor list must be rejected")
	}
}

func TestIsValidTarget_InconclusiveRejects(t *testing.T) {
	// A non-predecessor lookup fails: the non-connection cannot be
	// verified, so the candidate is rejected without error.
	f := &fakeFetcher{
		graph: map[string][]string{
			"d": {"target"},
		},
		errs: map[string]error{"start": fmt.Errorf("flaky: %w", apperr.ErrFetch)},
	}
	v := NewValidator(f)

	ok, err := v.IsValidTarget(context.Background(), "target", []string{"start", "d"})
	if err != nil {
		t.Fatalf("IsValidTarget: %v", err)
	}
	if ok {
		t.Error("unverifiable candidate must be rejected")
	}
}

func TestIsValidTarget_QuotaPropagates(t *testing.T) {
	f := &fakeFetcher{
		graph: map[string][]string{
			"d": {"target"},
		},
		errs: map[string]error{"start": apperr.ErrQuotaExceeded},
	}
	v := NewValidator(f)

	_, err := v.IsValidTarget(context.Background(), "target", []string{"start", "d"})
	if !errors.Is(err, apperr.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestIsValidTarget_EmptyPath(t *testing.T) {
	v := NewValidator(&fakeFetcher{})
	ok, err := v.IsValidTarget(context.Background(), "target", nil)
	if err != nil || ok {
		t.Fatalf("empty path: ok=%v err=%v, want false,nil", ok, err)
	}
}

func TestIsValidTarget_NormalizesCandidate(t *testing.T) {
	f := &fakeFetcher{graph: map[string][]string{
		"d": {"Target "},
	}}
	v := NewValidator(f)

	ok, err := v.IsValidTarget(context.Background(), "  TARGET", []string{"d"})
	if err != nil {
		t.Fatalf("IsValidTarget: %v", err)
	}
	if !ok {
		t.Error("case/whitespace variants must match")
	}
}
