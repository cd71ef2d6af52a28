package team

import (
	"encoding/json"
	"fmt"
	"time"
)

// Version is the persisted blob format version
const Version = "1.0"

// Document is the persisted blob
type Document struct {
	Team
	LastUpdated string `json:"lastUpdated"`
	Version     string `json:"version"`
}

// ExportDocument is the downloadable backup: the persisted shape plus exportedAt
type ExportDocument struct {
	Team
	LastUpdated string `json:"lastUpdated,omitempty"`
	ExportedAt  string `json:"exportedAt"`
	Version     string `json:"version"`
}

// Encode serializes a team as the persisted blob
func Encode(t Team, at time.Time) ([]byte, error) {
	doc := Document{
		Team:        normalize(t),
		LastUpdated: isoTime(at),
		Version:     Version,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode team: %w", err)
	}
	return data, nil
}

// Decode reads a persisted or exported blob over the engine defaults.
// Fields missing from the blob keep their default, and stats merge key by key.
// The roster is repaired and stats are clamped so loaded data obeys the same
// rules as live data.
func Decode(data []byte) (Document, error) {
	doc := Document{Team: Empty(), Version: Version}
	// encoding/json leaves absent keys untouched, nested structs included,
	// which gives the field-by-field merge over defaults.
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{Team: Empty(), Version: Version}, fmt.Errorf("decode team: %w", err)
	}
	doc.Team = repairRoster(normalize(doc.Team))
	doc.Team.Stats.BarsVisited = distinctBars(doc.Team.Challenges)
	doc.Team.Stats = clampStats(doc.Team.Stats)
	return doc, nil
}

// MarshalExport renders an export document the way the backup file stores it
func MarshalExport(doc ExportDocument) ([]byte, error) {
	doc.Team = normalize(doc.Team)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

func normalize(t Team) Team {
	if t.Members == nil {
		t.Members = []Member{}
	}
	if t.Challenges == nil {
		t.Challenges = []Challenge{}
	}
	return t
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
