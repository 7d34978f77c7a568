/*
Package tui implements the terminal user interface for mqttcmd.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: widgets and a snapshot of the application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Model struct, modes, panes and message types
  - init.go: construction, Run, and syncing widgets from the store
  - keys.go: Keyboard input handling and keybind routing
  - actions.go: apply, remote load, history, clipboard and resize
  - render.go: main view rendering
  - modals.go: confirm, alert and help dialogs
  - list_state.go: filterable list used by the broker, topic and history panes

# State Management

The application state lives in state.Store. The model never edits its
snapshot directly: it calls a store operation, then pulls a fresh snapshot
with sync. Store observers fire from inside those calls and from the
applying timer, so Run forwards them to the program asynchronously as
stateChangedMsg.

# Modes

  - ModeNormal: panes receive keys
  - ModeConfirm: a y/N question guards a pending action
  - ModeAlert: a blocking error message
  - ModeHelp: scrollable keybinding reference

# Threading Model

Remote loads run in a tea.Cmd. Everything else runs on the Bubble Tea
event loop.
*/
package tui
