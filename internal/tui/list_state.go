package tui

import (
	"github.com/sahilm/fuzzy"
)

// listMatch is a visible row: the item index and the byte offsets that
// matched the filter
type listMatch struct {
	index   int
	matched []int
}

// searchFunc filters items by query, best match first. An empty query
// returns every item in order.
type searchFunc func(items []string, query string) []listMatch

// ListState encapsulates a filterable, scrollable list pane
type ListState struct {
	items   []string
	visible []listMatch
	search  searchFunc

	cursor int // Position in visible
	offset int // First visible row when scrolled

	query        string
	searchActive bool // True while the filter input has focus
}

// NewListState creates an empty list filtered by search, or by fuzzy
// matching when search is nil
func NewListState(search searchFunc) *ListState {
	if search == nil {
		search = fuzzySearch
	}
	return &ListState{search: search}
}

// SetItems replaces the items, keeping the cursor on the same item when it
// is still present
func (s *ListState) SetItems(items []string) {
	current, hasCurrent := s.Selected()

	s.items = append([]string(nil), items...)
	s.refilter()

	if hasCurrent {
		for pos, match := range s.visible {
			if s.items[match.index] == current {
				s.cursor = pos
				return
			}
		}
	}
	s.clampCursor()
}

// SetSearch swaps the filter function and reapplies the query
func (s *ListState) SetSearch(search searchFunc) {
	if search == nil {
		search = fuzzySearch
	}
	s.search = search
	s.refilter()
	s.clampCursor()
}

// Items returns every item, ignoring the filter
func (s *ListState) Items() []string {
	return s.items
}

// Visible returns the rows that pass the filter
func (s *ListState) Visible() []listMatch {
	return s.visible
}

// Item returns the item text at an item index
func (s *ListState) Item(index int) string {
	return s.items[index]
}

// Cursor returns the cursor position among the visible rows
func (s *ListState) Cursor() int {
	return s.cursor
}

// Selected returns the item under the cursor
func (s *ListState) Selected() (string, bool) {
	index, ok := s.SelectedIndex()
	if !ok {
		return "", false
	}
	return s.items[index], true
}

// SelectedIndex returns the item index under the cursor
func (s *ListState) SelectedIndex() (int, bool) {
	if s.cursor < 0 || s.cursor >= len(s.visible) {
		return 0, false
	}
	return s.visible[s.cursor].index, true
}

// MoveUp moves the cursor up one row
func (s *ListState) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor down one row
func (s *ListState) MoveDown() {
	if s.cursor < len(s.visible)-1 {
		s.cursor++
	}
}

// GoToTop moves the cursor to the first row
func (s *ListState) GoToTop() {
	s.cursor = 0
}

// GoToBottom moves the cursor to the last row
func (s *ListState) GoToBottom() {
	s.cursor = max(0, len(s.visible)-1)
}

// Query returns the filter text
func (s *ListState) Query() string {
	return s.query
}

// SetQuery filters the list and puts the cursor on the best match
func (s *ListState) SetQuery(query string) {
	s.query = query
	s.refilter()
	s.cursor = 0
	s.offset = 0
}

// ClearQuery removes the filter
func (s *ListState) ClearQuery() {
	s.SetQuery("")
	s.searchActive = false
}

// IsSearchActive reports whether the filter input has focus
func (s *ListState) IsSearchActive() bool {
	return s.searchActive
}

// SetSearchActive gives or takes focus from the filter input
func (s *ListState) SetSearchActive(active bool) {
	s.searchActive = active
}

// Window returns the visible rows that fit in height lines, scrolling so
// the cursor stays on screen
func (s *ListState) Window(height int) []listMatch {
	if height <= 0 || len(s.visible) == 0 {
		return nil
	}

	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+height {
		s.offset = s.cursor - height + 1
	}
	if maxOffset := max(0, len(s.visible)-height); s.offset > maxOffset {
		s.offset = maxOffset
	}

	end := min(len(s.visible), s.offset+height)
	return s.visible[s.offset:end]
}

// Offset returns the first row shown by the last Window call
func (s *ListState) Offset() int {
	return s.offset
}

func (s *ListState) refilter() {
	s.visible = s.search(s.items, s.query)
}

func (s *ListState) clampCursor() {
	if s.cursor >= len(s.visible) {
		s.cursor = len(s.visible) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// fuzzySearch ranks items with the fuzzy finder
func fuzzySearch(items []string, query string) []listMatch {
	if query == "" {
		all := make([]listMatch, len(items))
		for i := range items {
			all[i] = listMatch{index: i}
		}
		return all
	}

	matches := fuzzy.Find(query, items)
	out := make([]listMatch, len(matches))
	for i, match := range matches {
		out[i] = listMatch{index: match.Index, matched: match.MatchedIndexes}
	}
	return out
}
