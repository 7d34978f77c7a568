package keybinds

import (
	"testing"
)

func TestRegistry_MatchFallsBackThroughParents(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name     string
		context  Context
		key      string
		expected Action
	}{
		{"own binding", ContextTopics, "space", ActionToggle},
		{"own binding shadows parent", ContextTopics, "enter", ActionToggle},
		{"parent binding", ContextBrokers, "enter", ActionSelect},
		{"parent navigation", ContextHistory, "j", ActionNavigateDown},
		{"global binding", ContextEditor, "ctrl+s", ActionApply},
		{"global from list pane", ContextBrokers, "ctrl+c", ActionQuitForce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := r.Match(tt.context, tt.key)
			if !ok {
				t.Fatalf("Match(%s, %q) found nothing", tt.context, tt.key)
			}
			if action != tt.expected {
				t.Errorf("Match(%s, %q) = %s, want %s", tt.context, tt.key, action, tt.expected)
			}
		})
	}
}

func TestRegistry_EditorDoesNotSeeListKeys(t *testing.T) {
	r := NewDefaultRegistry()

	for _, key := range []string{"q", "j", "enter", "a"} {
		if r.HasBinding(ContextEditor, key) {
			t.Errorf("editor should not bind %q", key)
		}
	}
}

func TestRegistry_MatchMultiKey(t *testing.T) {
	r := NewDefaultRegistry()

	action, complete, partial := r.MatchMultiKey(ContextBrokers, "g")
	if complete || !partial || action != "" {
		t.Fatalf("first g: action=%q complete=%v partial=%v", action, complete, partial)
	}

	action, complete, partial = r.MatchMultiKey(ContextBrokers, "g")
	if !complete || partial || action != ActionGoToTop {
		t.Fatalf("second g: action=%q complete=%v partial=%v", action, complete, partial)
	}

	// Named keys never start a sequence
	action, complete, _ = r.MatchMultiKey(ContextBrokers, "enter")
	if !complete || action != ActionSelect {
		t.Errorf("enter: action=%q complete=%v", action, complete)
	}
}

func TestRegistry_MatchMultiKey_BrokenSequence(t *testing.T) {
	r := NewDefaultRegistry()

	r.MatchMultiKey(ContextTopics, "g")
	action, complete, partial := r.MatchMultiKey(ContextTopics, "x")
	if complete || partial || action != "" {
		t.Errorf("gx: action=%q complete=%v partial=%v", action, complete, partial)
	}

	r.MatchMultiKey(ContextTopics, "g")
	r.ClearMultiKeyState(ContextTopics)
	action, complete, _ = r.MatchMultiKey(ContextTopics, "j")
	if !complete || action != ActionNavigateDown {
		t.Errorf("j after clear: action=%q complete=%v", action, complete)
	}
}

func TestRegistry_UnbindAction(t *testing.T) {
	r := NewDefaultRegistry()
	r.UnbindAction(ContextList, ActionNavigateDown)

	if r.HasBinding(ContextList, "j") || r.HasBinding(ContextList, "down") {
		t.Error("navigate_down still bound after UnbindAction")
	}
	if !r.HasBinding(ContextList, "k") {
		t.Error("UnbindAction removed an unrelated binding")
	}
}

func TestRegistry_GetBindingString(t *testing.T) {
	r := NewDefaultRegistry()

	if got := r.GetBindingString(ContextBrokers, ActionNavigateDown); got != "down, j" {
		t.Errorf("GetBindingString(navigate_down) = %q", got)
	}
	if got := r.GetBindingString(ContextTopics, ActionClearHistory); got != "unbound" {
		t.Errorf("GetBindingString(clear_history) = %q", got)
	}
}

func TestRegistry_ListBindings(t *testing.T) {
	r := NewDefaultRegistry()
	bindings := r.ListBindings(ContextHistory)

	if len(bindings) == 0 || bindings[0].Context != ContextHistory {
		t.Fatalf("expected history bindings first, got %+v", bindings)
	}
	if last := bindings[len(bindings)-1]; last.Context != ContextGlobal {
		t.Errorf("expected global bindings last, got %+v", last)
	}
}

func TestRegistry_Clone(t *testing.T) {
	r := NewDefaultRegistry()
	clone := r.Clone()

	clone.Register(ContextBrokers, "x", ActionQuit)
	if r.HasBinding(ContextBrokers, "x") {
		t.Error("Clone shares bindings with the original")
	}
	if action, _ := clone.Match(ContextBrokers, "enter"); action != ActionSelect {
		t.Error("Clone lost the parent chain")
	}
}
