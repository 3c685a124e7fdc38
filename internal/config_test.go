package internal

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestPuzzleConfig_SearchParamsDefaults(t *testing.T) {
	cfg := PuzzleConfig{}
	p := cfg.SearchParams()
	if p.MinLength != 5 || p.MaxDepth != 7 || p.MaxExpansions != 60 {
		t.Errorf("zero config should yield defaults, got %+v", p)
	}
}

func TestPuzzleConfig_SearchParamsOverrides(t *testing.T) {
	cfg := PuzzleConfig{MinLength: 3, MaxDepth: 4, MaxExpansions: 10, DiversityFloor: 1}
	p := cfg.SearchParams()
	if p.MinLength != 3 || p.MaxDepth != 4 || p.MaxExpansions != 10 || p.DiversityFloor != 1 {
		t.Errorf("overrides not applied: %+v", p)
	}
}

func TestPuzzleConfig_InvalidRejected(t *testing.T) {
	// MaxDepth below MinLength can never produce a long enough chain.
	cfg := PuzzleConfig{MinLength: 8, MaxDepth: 4}
	if err := cfg.Validate(); err == nil {
		t.Fatal("max_depth < min_length should fail validation")
	}
}

func TestOracleConfig_RequiresModelAndBudget(t *testing.T) {
	cfg := OracleConfig{Model: "", CallBudget: 10}
	if err := cfg.Validate(); err == nil {
		t.Error("empty model should fail")
	}
	cfg = OracleConfig{Model: "gpt-4o-mini", CallBudget: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("zero call budget should fail")
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
