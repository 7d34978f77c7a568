package keybinds

import (
	"sort"
	"strings"
)

// Binding represents a keybinding mapping
type Binding struct {
	Key     string
	Action  Action
	Context Context
}

// Registry manages keybinding mappings and matching
type Registry struct {
	// bindings maps context -> key -> action
	bindings map[Context]map[string]Action

	// parents maps a context to the context it falls back to before global
	parents map[Context]Context

	// multiKeyState tracks multi-key sequences (like 'gg' in vim)
	multiKeyState map[Context]string
}

// NewRegistry creates a new keybinding registry
func NewRegistry() *Registry {
	return &Registry{
		bindings:      make(map[Context]map[string]Action),
		parents:       make(map[Context]Context),
		multiKeyState: make(map[Context]string),
	}
}

// Register adds a keybinding to the registry
func (r *Registry) Register(context Context, key string, action Action) {
	if r.bindings[context] == nil {
		r.bindings[context] = make(map[string]Action)
	}
	r.bindings[context][key] = action
}

// RegisterMultiple registers multiple keybindings for the same action
func (r *Registry) RegisterMultiple(context Context, keys []string, action Action) {
	for _, key := range keys {
		r.Register(context, key, action)
	}
}

// UnbindAction removes every key bound to action in context
func (r *Registry) UnbindAction(context Context, action Action) {
	for key, act := range r.bindings[context] {
		if act == action {
			delete(r.bindings[context], key)
		}
	}
}

// SetParent makes context fall back to parent before the global context
func (r *Registry) SetParent(context, parent Context) {
	r.parents[context] = parent
}

// Match attempts to match a key to an action in the given context
// Returns the action and whether a match was found
// Contexts are checked in priority order: specific context -> parent -> global
func (r *Registry) Match(context Context, key string) (Action, bool) {
	for _, ctx := range r.chain(context) {
		if action, ok := r.bindings[ctx][key]; ok {
			return action, true
		}
	}
	return "", false
}

// MatchMultiKey handles multi-key sequences like 'gg' for go-to-top
// Returns the action, whether it's a complete match, and whether it's a partial match
func (r *Registry) MatchMultiKey(context Context, key string) (Action, bool, bool) {
	if prevKey, hasPending := r.multiKeyState[context]; hasPending {
		sequence := prevKey + key
		delete(r.multiKeyState, context)

		if action, ok := r.Match(context, sequence); ok {
			return action, true, false
		}
		return "", false, false
	}

	// A key that starts a bound sequence waits for the next key
	if r.startsSequence(context, key) {
		r.multiKeyState[context] = key
		return "", false, true
	}

	action, ok := r.Match(context, key)
	return action, ok, false
}

// ClearMultiKeyState clears any pending multi-key state for a context
func (r *Registry) ClearMultiKeyState(context Context) {
	delete(r.multiKeyState, context)
}

// GetBinding returns the keys bound to an action in a context, sorted
func (r *Registry) GetBinding(context Context, action Action) []string {
	for _, ctx := range r.chain(context) {
		var keys []string
		for key, act := range r.bindings[ctx] {
			if act == action {
				keys = append(keys, key)
			}
		}
		if len(keys) > 0 {
			sort.Strings(keys)
			return keys
		}
	}
	return nil
}

// GetBindingString returns a human-readable string of keys bound to an action
func (r *Registry) GetBindingString(context Context, action Action) string {
	keys := r.GetBinding(context, action)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, ", ")
}

// ListBindings returns the bindings visible from a context, most specific first
func (r *Registry) ListBindings(context Context) []Binding {
	var bindings []Binding
	for _, ctx := range r.chain(context) {
		keys := make([]string, 0, len(r.bindings[ctx]))
		for key := range r.bindings[ctx] {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			bindings = append(bindings, Binding{Key: key, Action: r.bindings[ctx][key], Context: ctx})
		}
	}
	return bindings
}

// HasBinding checks if a key is bound in a context
func (r *Registry) HasBinding(context Context, key string) bool {
	_, ok := r.Match(context, key)
	return ok
}

// Clone creates a deep copy of the registry
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	for context, contextBindings := range r.bindings {
		for key, action := range contextBindings {
			clone.Register(context, key, action)
		}
	}
	for context, parent := range r.parents {
		clone.SetParent(context, parent)
	}
	return clone
}

func (r *Registry) chain(context Context) []Context {
	chain := []Context{context}
	for c := context; ; {
		parent, ok := r.parents[c]
		if !ok || parent == ContextGlobal {
			break
		}
		chain = append(chain, parent)
		c = parent
	}
	if context != ContextGlobal {
		chain = append(chain, ContextGlobal)
	}
	return chain
}

func (r *Registry) startsSequence(context Context, key string) bool {
	if len(key) != 1 {
		return false
	}
	for _, ctx := range r.chain(context) {
		for bound := range r.bindings[ctx] {
			if len(bound) > 1 && !strings.Contains(bound, "+") && strings.HasPrefix(bound, key) && isSequence(bound) {
				return true
			}
		}
	}
	return false
}

// isSequence reports whether key is a run of printable characters such as
// "gg", as opposed to a named key like "enter" or "pgup"
func isSequence(key string) bool {
	return !namedKeys[key]
}

var namedKeys = map[string]bool{
	"enter": true, "esc": true, "tab": true, "space": true, "backspace": true,
	"delete": true, "up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pgup": true, "pgdown": true, "insert": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}
