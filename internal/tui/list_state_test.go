package tui

import (
	"testing"
)

func visibleItems(s *ListState) []string {
	var out []string
	for _, match := range s.Visible() {
		out = append(out, s.Item(match.index))
	}
	return out
}

func TestListState_Navigation(t *testing.T) {
	s := NewListState(nil)
	s.SetItems([]string{"a", "b", "c"})

	s.MoveUp()
	AssertModelField(t, "cursor after MoveUp at top", s.Cursor(), 0)

	s.MoveDown()
	s.MoveDown()
	s.MoveDown()
	AssertModelField(t, "cursor after MoveDown past end", s.Cursor(), 2)

	s.GoToTop()
	AssertModelField(t, "cursor after GoToTop", s.Cursor(), 0)

	s.GoToBottom()
	item, ok := s.Selected()
	if !ok || item != "c" {
		t.Errorf("Selected() = %q, %v", item, ok)
	}
}

func TestListState_EmptyList(t *testing.T) {
	s := NewListState(nil)
	s.SetItems(nil)

	s.MoveDown()
	s.GoToBottom()
	if _, ok := s.Selected(); ok {
		t.Error("Selected() on empty list should report nothing")
	}
	if window := s.Window(5); window != nil {
		t.Errorf("Window() = %v, want nil", window)
	}
}

func TestListState_SetItemsKeepsCursorItem(t *testing.T) {
	s := NewListState(nil)
	s.SetItems([]string{"a", "b", "c"})
	s.MoveDown()

	s.SetItems([]string{"z", "a", "b"})
	item, _ := s.Selected()
	AssertModelField(t, "selected after reorder", item, "b")

	s.SetItems([]string{"x"})
	item, _ = s.Selected()
	AssertModelField(t, "selected after removal", item, "x")
}

func TestListState_Filter(t *testing.T) {
	s := NewListState(nil)
	s.SetItems([]string{"sensors/#", "devices/+/status", "alerts"})

	s.SetQuery("alrt")
	got := visibleItems(s)
	if len(got) != 1 || got[0] != "alerts" {
		t.Fatalf("visible = %v, want [alerts]", got)
	}
	if len(s.Visible()[0].matched) != 4 {
		t.Errorf("matched = %v, want 4 offsets", s.Visible()[0].matched)
	}

	s.SetQuery("zzz")
	if _, ok := s.Selected(); ok {
		t.Error("no item should be selected when nothing matches")
	}

	s.SetSearchActive(true)
	s.ClearQuery()
	if len(s.Visible()) != 3 || s.IsSearchActive() {
		t.Errorf("ClearQuery() left %d rows, search active %v", len(s.Visible()), s.IsSearchActive())
	}
}

func TestListState_Window(t *testing.T) {
	s := NewListState(nil)
	s.SetItems([]string{"0", "1", "2", "3", "4", "5"})

	if window := s.Window(3); len(window) != 3 || window[0].index != 0 {
		t.Fatalf("initial window = %v", window)
	}

	s.GoToBottom()
	window := s.Window(3)
	if window[0].index != 3 || window[2].index != 5 {
		t.Errorf("window at bottom = %v", window)
	}
	AssertModelField(t, "offset at bottom", s.Offset(), 3)

	s.GoToTop()
	window = s.Window(3)
	AssertModelField(t, "offset back at top", s.Offset(), 0)
	AssertModelField(t, "first row back at top", window[0].index, 0)
}

func TestHistorySearch(t *testing.T) {
	items := []string{"Prod (01/01/2025 10:00)", "Staging (01/01/2025 09:00)"}

	all := historySearch(items, "")
	if len(all) != 2 || all[0].index != 0 || all[1].index != 1 {
		t.Errorf("historySearch(\"\") = %v", all)
	}

	found := historySearch(items, "stag")
	if len(found) != 1 || found[0].index != 1 {
		t.Errorf("historySearch(stag) = %v", found)
	}
}

func TestHighlightMatches(t *testing.T) {
	if got := highlightMatches("alerts", nil, 3); got != "al…" {
		t.Errorf("truncated = %q, want %q", got, "al…")
	}
	if got := highlightMatches("alerts", nil, 0); got != "" {
		t.Errorf("zero width = %q", got)
	}
	if got := highlightMatches("abc", []int{0}, 10); got == "" {
		t.Error("expected highlighted text")
	}
}
