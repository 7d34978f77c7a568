package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	// List panes share navigation through ContextList
	r.SetParent(ContextBrokers, ContextList)
	r.SetParent(ContextTopics, ContextList)
	r.SetParent(ContextHistory, ContextList)

	registerGlobalBindings(r)
	registerEditorBindings(r)
	registerURLBindings(r)
	registerListBindings(r)
	registerTopicBindings(r)
	registerHistoryBindings(r)
	registerSearchBindings(r)
	registerConfirmBindings(r)
	registerAlertBindings(r)
	registerHelpBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all panes.
// Text panes receive every other key, so these use modifiers.
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "tab", ActionFocusNext)
	r.Register(ContextGlobal, "shift+tab", ActionFocusPrev)
	r.Register(ContextGlobal, "ctrl+s", ActionApply)
	r.Register(ContextGlobal, "ctrl+o", ActionLoadURL)
	r.Register(ContextGlobal, "alt+a", ActionCopyAddress)
	r.Register(ContextGlobal, "alt+c", ActionCopyCommand)
	r.Register(ContextGlobal, "alt+right", ActionWidenLeft)
	r.Register(ContextGlobal, "alt+left", ActionNarrowLeft)
	r.Register(ContextGlobal, "f1", ActionOpenHelp)
}

func registerEditorBindings(r *Registry) {
	r.Register(ContextEditor, "ctrl+f", ActionFormat)
	r.Register(ContextEditor, "ctrl+r", ActionRevert)
}

func registerURLBindings(r *Registry) {
	r.Register(ContextURL, "enter", ActionLoadURL)
}

// registerListBindings sets up navigation shared by the list panes
func registerListBindings(r *Registry) {
	r.Register(ContextList, "q", ActionQuit)
	r.Register(ContextList, "?", ActionOpenHelp)
	r.RegisterMultiple(ContextList, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextList, []string{"down", "j"}, ActionNavigateDown)
	r.RegisterMultiple(ContextList, []string{"gg", "home"}, ActionGoToTop)
	r.RegisterMultiple(ContextList, []string{"G", "end"}, ActionGoToBottom)
	r.Register(ContextList, "enter", ActionSelect)
	r.Register(ContextList, "a", ActionCopyAddress)
	r.Register(ContextList, "c", ActionCopyCommand)
	r.Register(ContextList, ">", ActionWidenLeft)
	r.Register(ContextList, "<", ActionNarrowLeft)
}

func registerTopicBindings(r *Registry) {
	r.Register(ContextTopics, "space", ActionToggle)
	r.Register(ContextTopics, "enter", ActionToggle)
	r.Register(ContextTopics, "/", ActionOpenSearch)
	r.Register(ContextTopics, "esc", ActionClearSearch)
}

func registerHistoryBindings(r *Registry) {
	r.Register(ContextHistory, "/", ActionOpenSearch)
	r.Register(ContextHistory, "esc", ActionClearSearch)
	r.Register(ContextHistory, "D", ActionClearHistory)
}

func registerSearchBindings(r *Registry) {
	r.Register(ContextSearch, "enter", ActionTextSubmit)
	r.Register(ContextSearch, "esc", ActionTextCancel)
}

func registerConfirmBindings(r *Registry) {
	r.RegisterMultiple(ContextConfirm, []string{"y", "Y"}, ActionConfirm)
	r.RegisterMultiple(ContextConfirm, []string{"n", "N", "esc"}, ActionCancel)
}

func registerAlertBindings(r *Registry) {
	r.RegisterMultiple(ContextAlert, []string{"enter", "esc", "q"}, ActionCloseModal)
}

func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "q", "?", "f1"}, ActionCloseModal)
}
