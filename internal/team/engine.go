package team

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// StorageKey is the fixed identifier the team blob is stored under
const StorageKey = "olympicCaptainHubData"

// BlobStore is the persistence collaborator: one opaque blob per key
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Auditor receives a record of every state change
type Auditor interface {
	Audit(event, actor, team string, data map[string]interface{})
}

type noopAuditor struct{}

func (noopAuditor) Audit(string, string, string, map[string]interface{}) {}

// Engine owns the team state and enforces its invariants.
// Every operation runs to completion under the engine lock; persistence is a
// best-effort mirror of the in-memory state.
type Engine struct {
	mu          sync.Mutex
	store       BlobStore
	key         string
	audit       Auditor
	now         func() time.Time
	team        Team
	lastUpdated time.Time
	lastID      int64
	warning     *Error
}

// Option configures an Engine
type Option func(*Engine)

// WithAuditor records state changes on a
func WithAuditor(a Auditor) Option {
	return func(e *Engine) {
		if a != nil {
			e.audit = a
		}
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithKey stores the blob under a key other than StorageKey
func WithKey(key string) Option {
	return func(e *Engine) {
		if key = strings.TrimSpace(key); key != "" {
			e.key = key
		}
	}
}

// NewEngine builds an engine over st and loads any saved team.
// A failed load is a persistence warning: the engine starts empty.
func NewEngine(ctx context.Context, st BlobStore, opts ...Option) *Engine {
	e := &Engine{
		store: st,
		key:   StorageKey,
		audit: noopAuditor{},
		now:   time.Now,
		team:  Empty(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadLocked(ctx)
	return e
}

func (e *Engine) loadLocked(ctx context.Context) {
	data, ok, err := e.store.Load(ctx, e.key)
	if err != nil {
		e.warnLocked("load", err)
		return
	}
	if !ok {
		return
	}
	doc, err := Decode(data)
	if err != nil {
		e.warnLocked("load", err)
		return
	}
	e.team = doc.Team
	if ts, err := time.Parse(time.RFC3339Nano, doc.LastUpdated); err == nil {
		e.lastUpdated = ts
	}
	for _, c := range e.team.Challenges {
		if c.ID > e.lastID {
			e.lastID = c.ID
		}
	}
	log.Printf("📂 Loaded team %q (%d members, %d challenges)",
		e.team.TeamName, len(e.team.Members), len(e.team.Challenges))
}

// CreateTeam founds the team with its captain as first member
func (e *Engine) CreateTeam(ctx context.Context, teamName, captainName string) (Team, error) {
	teamName = strings.TrimSpace(teamName)
	captainName = strings.TrimSpace(captainName)

	if teamName == "" || captainName == "" {
		return Team{}, opError(OpCreateTeam, ErrMissingField, "team name and captain name are required")
	}
	if utf8.RuneCountInString(teamName) < MinTeamNameLength {
		return Team{}, opError(OpCreateTeam, ErrNameTooShort, "")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.team.Created() {
		return Team{}, opError(OpCreateTeam, ErrAlreadyExists, "team "+e.team.TeamName+" already created")
	}

	t := Empty()
	t.TeamName = teamName
	t.CaptainName = captainName
	t.Members = []Member{{Name: captainName, IsCaptain: true, JoinedAt: e.now()}}
	e.team = t

	e.audit.Audit("team_created", captainName, teamName, nil)
	e.persistLocked(ctx)
	return e.team.Clone(), nil
}

// AddMember appends a non-captain member and lifts morale
func (e *Engine) AddMember(ctx context.Context, name string) (Member, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.team.Created() {
		return Member{}, opError(OpAddMember, ErrNotReady, "")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Member{}, opError(OpAddMember, ErrMissingName, "")
	}
	if len(e.team.Members) >= MaxMembers {
		return Member{}, opError(OpAddMember, ErrRosterFull, "")
	}
	if e.team.HasMember(name) {
		return Member{}, opError(OpAddMember, ErrDuplicateName, name+" already on roster")
	}

	m := Member{Name: name, JoinedAt: e.now()}
	e.team.Members = append(e.team.Members, m)
	e.team.Stats.Morale = minInt(statCap, e.team.Stats.Morale+2)

	e.audit.Audit("member_added", name, e.team.TeamName, map[string]interface{}{
		"members": len(e.team.Members),
		"morale":  e.team.Stats.Morale,
	})
	e.persistLocked(ctx)
	return m, nil
}

// RemoveMember drops the member at index. The captain is never removable.
func (e *Engine) RemoveMember(ctx context.Context, index int) (Member, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.team.Members) {
		return Member{}, opError(OpRemoveMember, ErrIndexOutOfRange, "")
	}
	m := e.team.Members[index]
	if m.IsCaptain {
		return Member{}, opError(OpRemoveMember, ErrCannotRemoveCaptain, "")
	}

	e.team.Members = append(e.team.Members[:index:index], e.team.Members[index+1:]...)
	e.team.Stats.Morale = maxInt(moraleFloorRemoval, e.team.Stats.Morale-5)

	e.audit.Audit("member_removed", m.Name, e.team.TeamName, map[string]interface{}{
		"members": len(e.team.Members),
		"morale":  e.team.Stats.Morale,
	})
	e.persistLocked(ctx)
	return m, nil
}

// RecordChallenge logs a completed challenge and rescores the team.
// Negative points are coerced to 0 and points above MaxPoints to MaxPoints.
func (e *Engine) RecordChallenge(ctx context.Context, barName string, challengeType ChallengeType, points int, notes string) (Challenge, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.team.Created() {
		return Challenge{}, opError(OpRecordChallenge, ErrNotReady, "")
	}
	barName = strings.TrimSpace(barName)
	if barName == "" || !challengeType.Valid() {
		return Challenge{}, opError(OpRecordChallenge, ErrMissingField, "venue and challenge type are required")
	}
	if points < 0 {
		points = 0
	}
	if points > MaxPoints {
		points = MaxPoints
	}

	now := e.now()
	c := Challenge{
		ID:            e.nextIDLocked(now),
		BarName:       barName,
		ChallengeType: challengeType,
		PointsEarned:  points,
		Notes:         strings.TrimSpace(notes),
		CompletedAt:   now.Format("02/01/2006, 15:04:05"),
		Timestamp:     now.UnixMilli(),
	}
	e.team.Challenges = append(e.team.Challenges, c)
	e.team.Stats = scoreChallenge(e.team.Stats, e.team.Challenges, points)

	e.audit.Audit("challenge_recorded", "", e.team.TeamName, map[string]interface{}{
		"bar":      c.BarName,
		"type":     string(c.ChallengeType),
		"points":   c.PointsEarned,
		"morale":   e.team.Stats.Morale,
		"energy":   e.team.Stats.Energy,
		"strategy": e.team.Stats.Strategy,
	})
	e.persistLocked(ctx)
	return c, nil
}

// ids are millisecond timestamps, bumped to stay unique within a burst
func (e *Engine) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= e.lastID {
		id = e.lastID + 1
	}
	e.lastID = id
	return id
}

// ApplyCaptainAction boosts the team stats. Actions have no cooldown.
func (e *Engine) ApplyCaptainAction(ctx context.Context, kind ActionKind) (StatDelta, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.team.Created() {
		return StatDelta{}, opError(OpCaptainAction, ErrNotReady, "")
	}
	switch kind {
	case ActionRally, ActionStrategy, ActionVictory:
	default:
		return StatDelta{}, opError(OpCaptainAction, ErrUnknownAction, "unknown captain action: "+string(kind))
	}

	before := e.team.Stats
	e.team.Stats = Apply(kind, before)
	delta := diffStats(before, e.team.Stats)

	e.audit.Audit("captain_action", e.team.CaptainName, e.team.TeamName, map[string]interface{}{
		"action":   string(kind),
		"morale":   delta.Morale,
		"energy":   delta.Energy,
		"strategy": delta.Strategy,
	})
	e.persistLocked(ctx)
	return delta, nil
}

// SaveNotes replaces the captain's strategy notes
func (e *Engine) SaveNotes(ctx context.Context, notes string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.team.Created() {
		return opError(OpSaveNotes, ErrNotReady, "")
	}
	e.team.StrategyNotes = notes
	e.audit.Audit("notes_saved", e.team.CaptainName, e.team.TeamName, map[string]interface{}{
		"length": utf8.RuneCountInString(notes),
	})
	e.persistLocked(ctx)
	return nil
}

// ResetAll wipes the team and its stored blob.
// Callers must confirm with the user before calling it.
func (e *Engine) ResetAll(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := e.team.TeamName
	e.team = Empty()
	e.lastUpdated = time.Time{}
	e.lastID = 0
	e.warning = nil
	if err := e.store.Delete(ctx, e.key); err != nil {
		e.warnLocked("delete", err)
	}
	e.audit.Audit("team_reset", "", name, nil)
	log.Printf("🧹 Team state reset")
}

// Snapshot returns a copy of the current team
func (e *Engine) Snapshot() Team {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.team.Clone()
}

// Created reports whether a team exists
func (e *Engine) Created() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.team.Created()
}

// Summary returns the team overview
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	at := e.lastUpdated
	if at.IsZero() {
		at = e.now()
	}
	return e.team.summary(at)
}

// ExportSnapshot returns the backup document. It never mutates state.
func (e *Engine) ExportSnapshot() ExportDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc := ExportDocument{
		Team:       e.team.Clone(),
		ExportedAt: isoTime(e.now()),
		Version:    Version,
	}
	if !e.lastUpdated.IsZero() {
		doc.LastUpdated = isoTime(e.lastUpdated)
	}
	return doc
}

// PersistenceWarning returns the last storage failure, or nil once a save succeeds
func (e *Engine) PersistenceWarning() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.warning == nil {
		return nil
	}
	return e.warning
}

func (e *Engine) persistLocked(ctx context.Context) {
	now := e.now()
	e.lastUpdated = now
	data, err := Encode(e.team, now)
	if err == nil {
		err = e.store.Save(ctx, e.key, data)
	}
	if err != nil {
		e.warnLocked("save", err)
		return
	}
	e.warning = nil
}

func (e *Engine) warnLocked(stage string, err error) {
	w := opError(OpPersist, ErrPersistence, stage+" team state")
	w.Cause = err
	e.warning = w
	log.Printf("⚠️ Persistence %s failed, in-memory state kept: %v", stage, err)
	e.audit.Audit("persistence_warning", "", e.team.TeamName, map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
}
