package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Config represents the user's keybinding overrides.
// Each section maps an action to a comma-separated list of keys, for
// example {"editor": {"apply": "ctrl+s,f5"}}. Listing an action replaces
// its default keys in that context.
type Config struct {
	Version string            `json:"version"`
	Global  map[string]string `json:"global,omitempty"`
	Editor  map[string]string `json:"editor,omitempty"`
	URL     map[string]string `json:"url,omitempty"`
	List    map[string]string `json:"list,omitempty"`
	Brokers map[string]string `json:"brokers,omitempty"`
	Topics  map[string]string `json:"topics,omitempty"`
	History map[string]string `json:"history,omitempty"`
	Search  map[string]string `json:"search,omitempty"`
	Confirm map[string]string `json:"confirm,omitempty"`
	Alert   map[string]string `json:"alert,omitempty"`
	Help    map[string]string `json:"help,omitempty"`
}

// LoadConfig loads keybinding configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:  c.Global,
		ContextEditor:  c.Editor,
		ContextURL:     c.URL,
		ContextList:    c.List,
		ContextBrokers: c.Brokers,
		ContextTopics:  c.Topics,
		ContextHistory: c.History,
		ContextSearch:  c.Search,
		ContextConfirm: c.Confirm,
		ContextAlert:   c.Alert,
		ContextHelp:    c.Help,
	}
}

// ApplyConfig applies user configuration to a registry
// User bindings replace the default keys of the actions they name
func ApplyConfig(registry *Registry, config *Config) error {
	for context, bindings := range config.sections() {
		for actionStr, keyList := range bindings {
			action := Action(actionStr)
			if !IsKnownAction(action) {
				return fmt.Errorf("unknown action '%s' in context '%s'", actionStr, context)
			}

			keys := SplitKeys(keyList)
			for _, key := range keys {
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("action '%s' in context '%s': %w", actionStr, context, err)
				}
			}

			registry.UnbindAction(context, action)
			registry.RegisterMultiple(context, keys, action)
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry.
// Configs with conflicting keys are rejected.
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err != nil {
		return registry, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
	}

	if result := NewValidator().ValidateConfig(config); result.HasErrors() {
		return nil, fmt.Errorf("invalid keybinds.json:\n%s", result.String())
	}

	if err := ApplyConfig(registry, config); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}

	return registry, nil
}

// ExportDefaults exports the default keybindings as a config file
func ExportDefaults() *Config {
	registry := NewDefaultRegistry()
	config := &Config{Version: "1.0"}

	for context, section := range map[Context]*map[string]string{
		ContextGlobal:  &config.Global,
		ContextEditor:  &config.Editor,
		ContextURL:     &config.URL,
		ContextList:    &config.List,
		ContextTopics:  &config.Topics,
		ContextHistory: &config.History,
		ContextSearch:  &config.Search,
		ContextConfirm: &config.Confirm,
		ContextAlert:   &config.Alert,
		ContextHelp:    &config.Help,
	} {
		byAction := make(map[Action][]string)
		for key, action := range registry.bindings[context] {
			byAction[action] = append(byAction[action], key)
		}

		*section = make(map[string]string, len(byAction))
		for action, keys := range byAction {
			sort.Strings(keys)
			(*section)[string(action)] = strings.Join(keys, ",")
		}
	}

	return config
}

// SplitKeys splits a comma-separated key list. A lone "," is the comma key.
func SplitKeys(list string) []string {
	if strings.TrimSpace(list) == "," {
		return []string{","}
	}
	var keys []string
	for _, key := range strings.Split(list, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
