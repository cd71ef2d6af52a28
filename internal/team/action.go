package team

import (
	"math"
	"strings"
)

// ActionKind is a captain boost
type ActionKind string

const (
	ActionRally    ActionKind = "rally"
	ActionStrategy ActionKind = "strategy"
	ActionVictory  ActionKind = "victory"
)

// ActionKinds lists every captain action
var ActionKinds = []ActionKind{ActionRally, ActionStrategy, ActionVictory}

// ParseActionKind maps a submitted action name to its kind
func ParseActionKind(raw string) (ActionKind, error) {
	kind := ActionKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case ActionRally, ActionStrategy, ActionVictory:
		return kind, nil
	}
	return "", newError(ErrUnknownAction, "unknown captain action: "+raw)
}

// StatDelta is the observed change of the gamified stats
type StatDelta struct {
	Morale   int     `json:"morale"`
	Energy   int     `json:"energy"`
	Strategy float64 `json:"strategy"`
}

// Apply returns stats after the captain action. Every stat is capped at 100.
func Apply(kind ActionKind, s Stats) Stats {
	switch kind {
	case ActionRally:
		s.Morale = minInt(statCap, s.Morale+12)
		s.Energy = minInt(statCap, s.Energy+8)
	case ActionStrategy:
		s.Strategy = math.Min(statCap, s.Strategy+15)
		s.Morale = minInt(statCap, s.Morale+5)
	case ActionVictory:
		s.Morale = statCap
		s.Energy = minInt(statCap, s.Energy+15)
		s.Strategy = math.Min(statCap, s.Strategy+5)
	}
	return s
}

func diffStats(before, after Stats) StatDelta {
	return StatDelta{
		Morale:   after.Morale - before.Morale,
		Energy:   after.Energy - before.Energy,
		Strategy: after.Strategy - before.Strategy,
	}
}
