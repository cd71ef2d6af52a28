package observability

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditEntry records a team event
type AuditEntry struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"ts"`
	Event     string                 `json:"event"`
	Actor     string                 `json:"actor,omitempty"`
	Team      string                 `json:"team,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Observer writes the audit trail and keeps recent entries in memory
type Observer struct {
	auditFile *os.File
	mu        sync.Mutex
	enabled   bool
	now       func() time.Time

	// Stats
	eventCounts map[string]int
	writeErrors int

	// Recent entries for quick access
	recentAudits []AuditEntry
	maxRecent    int
}

// ObserverConfig for observer
type ObserverConfig struct {
	Enabled   bool
	AuditPath string
	MaxRecent int
}

// NewObserver opens the audit file, creating its directory when needed.
// A disabled observer drops every entry.
func NewObserver(cfg ObserverConfig) (*Observer, error) {
	if cfg.MaxRecent <= 0 {
		cfg.MaxRecent = 100
	}
	o := &Observer{
		enabled:      cfg.Enabled,
		now:          time.Now,
		eventCounts:  make(map[string]int),
		recentAudits: make([]AuditEntry, 0, cfg.MaxRecent),
		maxRecent:    cfg.MaxRecent,
	}
	if !o.enabled || cfg.AuditPath == "" {
		return o, nil
	}

	if dir := filepath.Dir(cfg.AuditPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return o, fmt.Errorf("failed to create audit dir: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.AuditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return o, fmt.Errorf("failed to open audit file: %w", err)
	}
	o.auditFile = f
	return o, nil
}

// Audit records a team event
func (o *Observer) Audit(event, actor, team string, data map[string]interface{}) {
	if !o.enabled {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	entry := AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: o.now(),
		Event:     event,
		Actor:     actor,
		Team:      team,
		Data:      data,
	}
	o.eventCounts[event]++

	// Store in recent
	if len(o.recentAudits) >= o.maxRecent {
		o.recentAudits = o.recentAudits[1:]
	}
	o.recentAudits = append(o.recentAudits, entry)

	// Write to file
	if o.auditFile != nil {
		line, err := json.Marshal(entry)
		if err == nil {
			_, err = o.auditFile.Write(append(line, '\n'))
		}
		if err != nil {
			o.writeErrors++
		}
	}
}

// GetStats returns per-event counts
func (o *Observer) GetStats() map[string]interface{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	counts := make(map[string]int, len(o.eventCounts))
	total := 0
	for event, n := range o.eventCounts {
		counts[event] = n
		total += n
	}
	return map[string]interface{}{
		"total_events": total,
		"events":       counts,
		"write_errors": o.writeErrors,
	}
}

// GetRecentAudits returns the most recent audit entries, oldest first
func (o *Observer) GetRecentAudits(limit int) []AuditEntry {
	o.mu.Lock()
	defer o.mu.Unlock()

	if limit <= 0 || limit > len(o.recentAudits) {
		limit = len(o.recentAudits)
	}
	start := len(o.recentAudits) - limit
	out := make([]AuditEntry, limit)
	copy(out, o.recentAudits[start:])
	return out
}

// Close closes the audit file
func (o *Observer) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.auditFile == nil {
		return nil
	}
	err := o.auditFile.Close()
	o.auditFile = nil
	return err
}
