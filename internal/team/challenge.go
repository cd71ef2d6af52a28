package team

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ChallengeType defines the category of a venue challenge
type ChallengeType string

const (
	TypeQuiz        ChallengeType = "quiz"
	TypePerformance ChallengeType = "performance"
	TypeCreativity  ChallengeType = "creativity"
	TypePenalty     ChallengeType = "penalty"
	TypeCode        ChallengeType = "code"  // riddles and codebreaking
	TypeFinal       ChallengeType = "final" // grand finale
)

// ChallengeTypes lists every accepted type in display order
var ChallengeTypes = []ChallengeType{
	TypeQuiz,
	TypePerformance,
	TypeCreativity,
	TypePenalty,
	TypeCode,
	TypeFinal,
}

// Valid reports whether t is one of the known types
func (t ChallengeType) Valid() bool {
	for _, known := range ChallengeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseChallengeType accepts a type name as submitted by a form
func ParseChallengeType(raw string) (ChallengeType, bool) {
	t := ChallengeType(strings.TrimSpace(raw))
	return t, t.Valid()
}

// MaxPoints bounds the points of a single challenge
const MaxPoints = math.MaxInt32

// ParsePoints reads the leading integer of raw user input.
// Anything that is not a non-negative integer yields 0 and values above
// MaxPoints saturate; it never fails.
func ParsePoints(raw string) int {
	s := strings.TrimSpace(raw)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) || n > MaxPoints {
		return MaxPoints
	}
	if err != nil {
		return 0
	}
	return n
}

// Performance tiers
const (
	tierExcellent = 80
	tierGood      = 60
	tierPoor      = 30
)

// Stat floors and caps
const (
	statCap            = 100
	moraleFloor        = 0
	moraleFloorPoor    = 10 // after a poor challenge
	moraleFloorRemoval = 20 // after a member leaves
	energyFloor        = 5
	fatigueCost        = 3
	strategyBase       = 50
)

// scoreChallenge applies one recorded challenge to stats.
// challenges must already include the new entry.
func scoreChallenge(s Stats, challenges []Challenge, points int) Stats {
	s.ChallengesCompleted++
	if s.TotalPoints > math.MaxInt-points {
		s.TotalPoints = math.MaxInt
	} else {
		s.TotalPoints += points
	}
	s.BarsVisited = distinctBars(challenges)

	switch {
	case points >= tierExcellent:
		s.Morale = minInt(statCap, s.Morale+8)
		s.Energy = minInt(statCap, s.Energy+5)
	case points >= tierGood:
		s.Morale = minInt(statCap, s.Morale+4)
		s.Energy = minInt(statCap, s.Energy+2)
	case points < tierPoor:
		s.Morale = maxInt(moraleFloorPoor, s.Morale-5)
	}

	s.Energy = maxInt(energyFloor, s.Energy-fatigueCost)

	// Recomputed from the latest challenge only, not accumulated.
	bonus := s.ChallengesCompleted / 2
	s.Strategy = math.Min(statCap, float64(strategyBase+bonus)+float64(points)/5)
	return s
}

// distinctBars counts venues ignoring case
func distinctBars(challenges []Challenge) int {
	seen := make(map[string]struct{}, len(challenges))
	for _, c := range challenges {
		seen[strings.ToLower(c.BarName)] = struct{}{}
	}
	return len(seen)
}

// clampStats forces every stat into its documented range
func clampStats(s Stats) Stats {
	s.Morale = maxInt(moraleFloor, minInt(statCap, s.Morale))
	s.Energy = maxInt(energyFloor, minInt(statCap, s.Energy))
	s.Strategy = math.Max(0, math.Min(statCap, s.Strategy))
	if s.ChallengesCompleted < 0 {
		s.ChallengesCompleted = 0
	}
	if s.TotalPoints < 0 {
		s.TotalPoints = 0
	}
	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
