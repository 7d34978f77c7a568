/*
Package keybinds provides customizable keyboard binding management.

# Contexts

Every pane of the interface has a context (editor, url, brokers, topics,
history) and every dialog has one too (search, confirm, alert, help). The
broker, topic and history panes fall back to the shared list context, and
every context falls back to global:

	brokers -> list -> global

A key bound in a specific context shadows the same key further down the
chain.

# Configuration

Users override bindings in ~/.mqttcmd/keybinds.json. Each section maps an
action to a comma-separated list of keys; naming an action replaces its
default keys in that context:

	{
	  "version": "1.0",
	  "global": { "apply": "ctrl+s,f5" },
	  "topics": { "toggle": "space,x" }
	}

The file is validated before use: unknown actions, empty keys and one key
bound to two actions in the same context are errors.

# Multi-key sequences

Sequences of plain characters such as "gg" are supported through
Registry.MatchMultiKey.
*/
package keybinds
