package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// IssueKind classifies a validation finding
type IssueKind string

const (
	IssueInvalid  IssueKind = "invalid"
	IssueConflict IssueKind = "conflict"
	IssueWarning  IssueKind = "warning"
)

// ValidationError is one finding about a keybinds.json section
type ValidationError struct {
	Type    IssueKind
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Context, e.Message)
	}
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult holds the findings of ValidateConfig. Errors reject the
// config; warnings are only reported.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (r *ValidationResult) add(kind IssueKind, context Context, key, message string) {
	issue := ValidationError{Type: kind, Context: context, Key: key, Message: message}
	if kind == IssueWarning {
		r.Warnings = append(r.Warnings, issue)
		return
	}
	r.Errors = append(r.Errors, issue)
}

// String lists the findings, errors first
func (r *ValidationResult) String() string {
	if !r.HasErrors() && !r.HasWarnings() {
		return "No issues found"
	}

	var sb strings.Builder
	writeGroup := func(label string, issues []ValidationError) {
		if len(issues) == 0 {
			return
		}
		fmt.Fprintf(&sb, "%s (%d):\n", label, len(issues))
		for _, issue := range issues {
			fmt.Fprintf(&sb, "  - %s\n", issue.Error())
		}
	}
	writeGroup("Errors", r.Errors)
	writeGroup("Warnings", r.Warnings)

	return sb.String()
}

// Validator validates keybinding configurations
type Validator struct {
	// reservedKeys are keys that should not be rebound
	reservedKeys map[string]Action
}

// NewValidator creates a new keybinding validator
func NewValidator() *Validator {
	return &Validator{
		reservedKeys: map[string]Action{
			"ctrl+c": ActionQuitForce, // Force quit should always work
		},
	}
}

// ValidateConfig validates a configuration before applying it
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{}

	sections := config.sections()
	contexts := make([]Context, 0, len(sections))
	for context := range sections {
		contexts = append(contexts, context)
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i] < contexts[j] })

	for _, context := range contexts {
		v.checkSection(context, sections[context], sections[ContextGlobal], result)
	}

	return result
}

// checkSection reports unknown actions, malformed keys, keys claimed by two
// actions, rebound reserved keys and shadowed global keys
func (v *Validator) checkSection(context Context, bindings, global map[string]string, result *ValidationResult) {
	actions := make([]string, 0, len(bindings))
	for action := range bindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	claimed := make(map[string]string)
	for _, actionStr := range actions {
		if err := ValidateAction(actionStr); err != nil {
			result.add(IssueInvalid, context, "", err.Error())
			continue
		}

		for _, key := range SplitKeys(bindings[actionStr]) {
			if err := ValidateKey(key); err != nil {
				result.add(IssueInvalid, context, key, err.Error())
				continue
			}

			if other, ok := claimed[key]; ok && other != actionStr {
				result.add(IssueConflict, context, key, fmt.Sprintf("bound to both %s and %s", other, actionStr))
				continue
			}
			claimed[key] = actionStr

			if reserved, ok := v.reservedKeys[key]; ok && Action(actionStr) != reserved {
				result.add(IssueWarning, context, key, fmt.Sprintf("reserved for %s", reserved))
			}

			if context != ContextGlobal {
				if globalAction, ok := globalActionFor(global, key); ok && globalAction != actionStr {
					result.add(IssueWarning, context, key, fmt.Sprintf("shadows global binding (%s -> %s)", globalAction, actionStr))
				}
			}
		}
	}
}

func globalActionFor(global map[string]string, key string) (string, bool) {
	for action, keys := range global {
		for _, k := range SplitKeys(keys) {
			if k == key {
				return action, true
			}
		}
	}
	return "", false
}

// FindConflicts finds all conflicting keybindings in a config
func FindConflicts(config *Config) []string {
	result := NewValidator().ValidateConfig(config)

	var conflicts []string
	for _, err := range result.Errors {
		if err.Type == IssueConflict {
			conflicts = append(conflicts, err.Error())
		}
	}

	return conflicts
}

var modifiers = []string{"ctrl+", "alt+", "shift+", "super+"}

// ValidateKey rejects empty keys and bare modifiers
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	for _, mod := range modifiers {
		if key == mod {
			return fmt.Errorf("modifier without key: %s", key)
		}
	}
	return nil
}

// ValidateAction checks if an action string is valid
func ValidateAction(actionStr string) error {
	if actionStr == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if !IsKnownAction(Action(actionStr)) {
		return fmt.Errorf("unknown action '%s'", actionStr)
	}
	return nil
}
