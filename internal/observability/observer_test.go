package observability

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestObserverWritesAuditFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	o, err := NewObserver(ObserverConfig{Enabled: true, AuditPath: path})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	o.Audit("team_created", "Leonida", "Spartani", nil)
	o.Audit("member_added", "Brasida", "Spartani", map[string]interface{}{"members": 2})
	if err := o.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	var entries []AuditEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("bad audit line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Event != "team_created" || entries[0].Actor != "Leonida" || entries[0].ID == "" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[0].ID == entries[1].ID {
		t.Error("entry ids should be unique")
	}
}

func TestObserverRecentRing(t *testing.T) {
	o, err := NewObserver(ObserverConfig{Enabled: true, MaxRecent: 3})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	for _, ev := range []string{"a", "b", "c", "d", "e"} {
		o.Audit(ev, "", "", nil)
	}

	recent := o.GetRecentAudits(10)
	if len(recent) != 3 || recent[0].Event != "c" || recent[2].Event != "e" {
		t.Errorf("recent = %+v", recent)
	}
	if last := o.GetRecentAudits(1); len(last) != 1 || last[0].Event != "e" {
		t.Errorf("last = %+v", last)
	}

	stats := o.GetStats()
	if stats["total_events"] != 5 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDisabledObserverDropsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	o, err := NewObserver(ObserverConfig{Enabled: false, AuditPath: path})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	o.Audit("team_created", "", "", nil)
	if got := o.GetRecentAudits(0); len(got) != 0 {
		t.Errorf("recent = %+v", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("disabled observer should not create %s", path)
	}
}
