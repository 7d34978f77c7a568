package tui

import "time"

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin  = 6 // Standard horizontal margin (m.width - 6)
	ModalHeightMargin = 3 // Standard vertical margin (m.height - 3)
	ModalMaxWidth     = 72

	// Borders consumed by a rounded box
	BorderSize = 2

	// Status bar at the bottom of the main view
	StatusBarHeight = 1

	// URL box: title and input line plus borders
	URLBoxHeight = 2 + BorderSize

	// Output boxes on the right: title plus wrapped text
	AddressBoxLines = 3
	CommandBoxLines = 5

	// Smallest list box, title plus one row
	MinListLines = 2
)

const (
	// ResizeStep is how far one resize key moves the split, in percent
	ResizeStep = 5

	// StatusTimeout is how long a status message stays visible
	StatusTimeout = 2 * time.Second
)
