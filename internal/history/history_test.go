package history

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/types"
)

var testNow = time.Date(2025, time.May, 2, 10, 30, 0, 0, time.Local)

func doc(t *testing.T, raw string) types.Document {
	t.Helper()
	d, err := document.Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%s) error = %v", raw, err)
	}
	return d
}

func TestRecord_Prepends(t *testing.T) {
	var log Log
	log = Record(log, doc(t, `{"brokers":[{"title":"A"}]}`), testNow)
	log = Record(log, doc(t, `{"brokers":[{"title":"B"}]}`), testNow)

	if len(log) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(log))
	}
	if log[0].Name != "B (02/05/2025 10:30)" {
		t.Errorf("Expected newest entry first, got %q", log[0].Name)
	}
	if log[1].Name != "A (02/05/2025 10:30)" {
		t.Errorf("Expected oldest entry last, got %q", log[1].Name)
	}
}

func TestRecord_SkipsDocumentsWithoutBrokers(t *testing.T) {
	log := Record(nil, doc(t, `{"brokers":[{"title":"A"}]}`), testNow)

	for _, raw := range []string{`{"topics":["a"]}`, `[1,2]`, `{"brokers":"x"}`} {
		next := Record(log, doc(t, raw), testNow)
		if len(next) != 1 {
			t.Errorf("Record(%s) changed the log: %d entries", raw, len(next))
		}
	}
}

func TestRecord_EmptyBrokersIsRecorded(t *testing.T) {
	log := Record(nil, doc(t, `{"brokers":[]}`), testNow)
	if len(log) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(log))
	}
	if log[0].Name != document.Placeholder+" (02/05/2025 10:30)" {
		t.Errorf("Unexpected name %q", log[0].Name)
	}
}

func TestRecord_DeduplicatesAgainstHead(t *testing.T) {
	a := doc(t, `{"brokers":[{"title":"A","port":1}]}`)
	sameAsA := doc(t, `{ "brokers": [ { "port": 1, "title": "A" } ] }`)
	b := doc(t, `{"brokers":[{"title":"B"}]}`)

	log := Record(nil, a, testNow)
	log = Record(log, sameAsA, testNow.Add(time.Minute))
	if len(log) != 1 {
		t.Fatalf("Expected head duplicate to be skipped, got %d entries", len(log))
	}

	// Only the head is compared: A after B is recorded again
	log = Record(log, b, testNow)
	log = Record(log, a, testNow)
	if len(log) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(log))
	}
}

func TestRecord_Capacity(t *testing.T) {
	var log Log
	for i := 0; i < 25; i++ {
		log = Record(log, doc(t, fmt.Sprintf(`{"brokers":[{"title":"B%d"}]}`, i)), testNow)
		if len(log) > MaxEntries {
			t.Fatalf("log grew to %d entries", len(log))
		}
	}

	if len(log) != MaxEntries {
		t.Fatalf("Expected %d entries, got %d", MaxEntries, len(log))
	}
	if document.DisplayName(log[0].Config) != "B24" {
		t.Errorf("Expected newest B24 at head, got %q", log[0].Name)
	}
	if document.DisplayName(log[MaxEntries-1].Config) != "B15" {
		t.Errorf("Expected B15 at tail, got %q", log[MaxEntries-1].Name)
	}
}

func TestRecord_DoesNotAliasInput(t *testing.T) {
	d := doc(t, `{"brokers":[{"title":"A"}]}`)
	log := Record(nil, d, testNow)

	d.Brokers[0].Title = "mutated"
	if log[0].Config.Brokers[0].Title != "A" {
		t.Error("recorded entry shares state with the caller's document")
	}

	original := Record(nil, doc(t, `{"brokers":[{"title":"X"}]}`), testNow)
	_ = Record(original, doc(t, `{"brokers":[{"title":"Y"}]}`), testNow)
	if len(original) != 1 || document.DisplayName(original[0].Config) != "X" {
		t.Error("Record modified the log it was given")
	}
}

func TestSelect(t *testing.T) {
	log := Record(nil, doc(t, `{"brokers":[{"title":"A"}]}`), testNow)
	log = Record(log, doc(t, `{"brokers":[{"title":"B"}]}`), testNow)

	e := Select(log, 1)
	if document.DisplayName(e.Config) != "A" {
		t.Errorf("Select(1) = %q, want A", e.Name)
	}
}

func TestSelect_OutOfRangePanics(t *testing.T) {
	log := Record(nil, doc(t, `{"brokers":[{"title":"A"}]}`), testNow)

	for _, idx := range []int{-1, 1, 5} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Select(%d) did not panic", idx)
				}
			}()
			Select(log, idx)
		}()
	}
}

func TestClear(t *testing.T) {
	log := Record(nil, doc(t, `{"brokers":[{"title":"A"}]}`), testNow)
	if got := Clear(log); len(got) != 0 {
		t.Errorf("Clear() left %d entries", len(got))
	}
}

func TestLog_JSONShape(t *testing.T) {
	log := Record(nil, doc(t, `{"brokers":[{"title":"A"}],"x":1}`), testNow)

	data, err := json.Marshal(log)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded []map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := decoded[0]["name"]; !ok {
		t.Error("expected name field")
	}
	if _, ok := decoded[0]["config"]; !ok {
		t.Error("expected config field")
	}
}

func TestSearch(t *testing.T) {
	var log Log
	for _, title := range []string{"Production", "Staging", "Local"} {
		log = Record(log, doc(t, fmt.Sprintf(`{"brokers":[{"title":%q}]}`, title)), testNow)
	}

	all := Search(log, "")
	if len(all) != 3 || all[0].Index != 0 || all[2].Index != 2 {
		t.Errorf("empty query should return every entry in order, got %+v", all)
	}

	hits := Search(log, "stg")
	if len(hits) != 1 {
		t.Fatalf("Expected 1 hit, got %d", len(hits))
	}
	if document.DisplayName(log[hits[0].Index].Config) != "Staging" {
		t.Errorf("Expected Staging, got %q", log[hits[0].Index].Name)
	}

	if len(Search(log, "zzz")) != 0 {
		t.Error("Expected no hits for zzz")
	}
}
