package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal  Context = "global"  // Available everywhere
	ContextEditor  Context = "editor"  // JSON document editor
	ContextURL     Context = "url"     // Remote config URL input
	ContextList    Context = "list"    // Shared by every list pane
	ContextBrokers Context = "brokers" // Broker picker
	ContextTopics  Context = "topics"  // Topic picker
	ContextHistory Context = "history" // History list
	ContextSearch  Context = "search"  // Filter input of a list
	ContextConfirm Context = "confirm" // Confirmation dialogs
	ContextAlert   Context = "alert"   // Blocking error message
	ContextHelp    Context = "help"    // Help viewer
)

const (
	// Global actions
	ActionQuit        Action = "quit"         // Quit application
	ActionQuitForce   Action = "quit_force"   // Force quit (ctrl+c)
	ActionFocusNext   Action = "focus_next"   // Focus next pane
	ActionFocusPrev   Action = "focus_prev"   // Focus previous pane
	ActionApply       Action = "apply"        // Apply the editor document
	ActionLoadURL     Action = "load_url"     // Load the document from the URL
	ActionCopyAddress Action = "copy_address" // Copy broker address flags
	ActionCopyCommand Action = "copy_command" // Copy subscribe command
	ActionWidenLeft   Action = "widen_left"   // Grow the left panel
	ActionNarrowLeft  Action = "narrow_left"  // Shrink the left panel
	ActionOpenHelp    Action = "open_help"    // Open help viewer

	// Editor actions
	ActionFormat Action = "format" // Pretty-print the editor document
	ActionRevert Action = "revert" // Discard edits, back to the applied document

	// List actions
	ActionNavigateUp   Action = "navigate_up"   // Move up one item
	ActionNavigateDown Action = "navigate_down" // Move down one item
	ActionGoToTop      Action = "go_to_top"     // Go to top
	ActionGoToBottom   Action = "go_to_bottom"  // Go to bottom
	ActionSelect       Action = "select"        // Select the item under the cursor
	ActionToggle       Action = "toggle"        // Toggle the item under the cursor
	ActionOpenSearch   Action = "open_search"   // Filter the list
	ActionClearSearch  Action = "clear_search"  // Remove the list filter
	ActionClearHistory Action = "clear_history" // Clear history (with confirm)

	// Text input actions
	ActionTextSubmit Action = "text_submit" // Submit text input
	ActionTextCancel Action = "text_cancel" // Cancel text input

	// Modal actions
	ActionConfirm    Action = "confirm"     // Confirm action (y/Y)
	ActionCancel     Action = "cancel"      // Cancel action (n/N)
	ActionCloseModal Action = "close_modal" // Close current modal
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:         {ActionQuit, "Quit", "Global"},
	ActionQuitForce:    {ActionQuitForce, "Force quit", "Global"},
	ActionFocusNext:    {ActionFocusNext, "Next pane", "Global"},
	ActionFocusPrev:    {ActionFocusPrev, "Previous pane", "Global"},
	ActionApply:        {ActionApply, "Apply configuration", "Configuration"},
	ActionLoadURL:      {ActionLoadURL, "Load configuration from URL", "Configuration"},
	ActionCopyAddress:  {ActionCopyAddress, "Copy broker address", "Output"},
	ActionCopyCommand:  {ActionCopyCommand, "Copy subscribe command", "Output"},
	ActionWidenLeft:    {ActionWidenLeft, "Widen left panel", "View"},
	ActionNarrowLeft:   {ActionNarrowLeft, "Narrow left panel", "View"},
	ActionOpenHelp:     {ActionOpenHelp, "Help", "Global"},
	ActionFormat:       {ActionFormat, "Format document", "Editor"},
	ActionRevert:       {ActionRevert, "Revert to applied document", "Editor"},
	ActionNavigateUp:   {ActionNavigateUp, "Move up", "Navigation"},
	ActionNavigateDown: {ActionNavigateDown, "Move down", "Navigation"},
	ActionGoToTop:      {ActionGoToTop, "Go to top", "Navigation"},
	ActionGoToBottom:   {ActionGoToBottom, "Go to bottom", "Navigation"},
	ActionSelect:       {ActionSelect, "Select", "Lists"},
	ActionToggle:       {ActionToggle, "Toggle topic", "Lists"},
	ActionOpenSearch:   {ActionOpenSearch, "Filter list", "Lists"},
	ActionClearSearch:  {ActionClearSearch, "Clear filter", "Lists"},
	ActionClearHistory: {ActionClearHistory, "Clear history", "Lists"},
	ActionTextSubmit:   {ActionTextSubmit, "Submit", "Input"},
	ActionTextCancel:   {ActionTextCancel, "Cancel", "Input"},
	ActionConfirm:      {ActionConfirm, "Confirm", "Dialogs"},
	ActionCancel:       {ActionCancel, "Cancel", "Dialogs"},
	ActionCloseModal:   {ActionCloseModal, "Close", "Dialogs"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is one the application handles
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}

// IsKnownContext reports whether context is one the application uses
func IsKnownContext(context Context) bool {
	switch context {
	case ContextGlobal, ContextEditor, ContextURL, ContextList, ContextBrokers,
		ContextTopics, ContextHistory, ContextSearch, ContextConfirm, ContextAlert, ContextHelp:
		return true
	}
	return false
}
