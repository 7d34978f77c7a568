package keybinds

import (
	"strings"
	"testing"
)

func TestValidator_ValidateConfig(t *testing.T) {
	tests := []struct {
		name         string
		config       *Config
		wantErrors   int
		wantWarnings int
		wantType     IssueKind
	}{
		{
			name:   "empty config",
			config: &Config{},
		},
		{
			name:   "plain override",
			config: &Config{Editor: map[string]string{"format": "ctrl+f,alt+f"}},
		},
		{
			name:       "unknown action",
			config:     &Config{List: map[string]string{"explode": "x"}},
			wantErrors: 1,
			wantType:   IssueInvalid,
		},
		{
			name:       "modifier without key",
			config:     &Config{Global: map[string]string{"apply": "ctrl+"}},
			wantErrors: 1,
			wantType:   IssueInvalid,
		},
		{
			name:       "same key for two actions",
			config:     &Config{Topics: map[string]string{"toggle": "x", "open_search": "x"}},
			wantErrors: 1,
			wantType:   IssueConflict,
		},
		{
			name:         "reserved key rebound",
			config:       &Config{Global: map[string]string{"apply": "ctrl+c"}},
			wantWarnings: 1,
		},
		{
			name: "shadowed global key",
			config: &Config{
				Global: map[string]string{"apply": "f5"},
				List:   map[string]string{"select": "f5"},
			},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewValidator().ValidateConfig(tt.config)

			if len(result.Errors) != tt.wantErrors {
				t.Fatalf("errors = %d, want %d:\n%s", len(result.Errors), tt.wantErrors, result.String())
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Fatalf("warnings = %d, want %d:\n%s", len(result.Warnings), tt.wantWarnings, result.String())
			}
			if tt.wantType != "" && result.Errors[0].Type != tt.wantType {
				t.Errorf("error type = %q, want %q", result.Errors[0].Type, tt.wantType)
			}
		})
	}
}

func TestValidationResult_String(t *testing.T) {
	result := &ValidationResult{}
	if result.String() != "No issues found" {
		t.Errorf("String() = %q", result.String())
	}

	result.Errors = append(result.Errors, ValidationError{Type: IssueConflict, Context: ContextList, Key: "x", Message: "bound twice"})
	got := result.String()
	if !strings.Contains(got, "Errors (1)") || !strings.Contains(got, "[conflict] x in context 'list'") {
		t.Errorf("String() = %q", got)
	}
}

func TestFindConflicts(t *testing.T) {
	config := &Config{
		Confirm: map[string]string{"confirm": "y", "cancel": "y,n"},
	}

	conflicts := FindConflicts(config)
	if len(conflicts) != 1 {
		t.Fatalf("FindConflicts() = %v, want one conflict", conflicts)
	}
}

func TestValidateAction(t *testing.T) {
	if err := ValidateAction("apply"); err != nil {
		t.Errorf("ValidateAction(apply) error = %v", err)
	}
	if err := ValidateAction(""); err == nil {
		t.Error("ValidateAction(\"\") expected error")
	}
	if err := ValidateAction("nope"); err == nil {
		t.Error("ValidateAction(nope) expected error")
	}
}
