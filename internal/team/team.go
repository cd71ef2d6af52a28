package team

import (
	"strings"
	"time"
)

// MaxMembers is the roster capacity, captain included
const MaxMembers = 8

// MinTeamNameLength is the minimum trimmed team name length, in characters
const MinTeamNameLength = 3

// Default stat values for a freshly created team
const (
	DefaultMorale   = 100
	DefaultEnergy   = 85
	DefaultStrategy = 70
)

// Team is the single managed entity of a storage slot
type Team struct {
	TeamName      string      `json:"teamName"`
	CaptainName   string      `json:"captainName"`
	Members       []Member    `json:"members"`
	Challenges    []Challenge `json:"challenges"`
	StrategyNotes string      `json:"strategyNotes"`
	Stats         Stats       `json:"stats"`
}

// Member is a roster entry
type Member struct {
	Name      string    `json:"name"`
	IsCaptain bool      `json:"isCaptain"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// Challenge is one logged venue challenge. Challenges are never edited.
type Challenge struct {
	ID            int64         `json:"id"`
	BarName       string        `json:"barName"`
	ChallengeType ChallengeType `json:"challengeType"`
	PointsEarned  int           `json:"pointsEarned"`
	Notes         string        `json:"notes"`
	CompletedAt   string        `json:"completedAt"` // display form, dd/mm/yyyy, hh:mm:ss
	Timestamp     int64         `json:"timestamp"`   // epoch milliseconds
}

// Stats holds the derived counters and the three gamified stats
type Stats struct {
	ChallengesCompleted int     `json:"challengesCompleted"`
	TotalPoints         int     `json:"totalPoints"`
	BarsVisited         int     `json:"barsVisited"`
	Morale              int     `json:"morale"`
	Energy              int     `json:"energy"`
	Strategy            float64 `json:"strategy"`
}

// DefaultStats returns the stats of a team with no history
func DefaultStats() Stats {
	return Stats{
		Morale:   DefaultMorale,
		Energy:   DefaultEnergy,
		Strategy: DefaultStrategy,
	}
}

// Empty returns the state of a slot with no team created yet
func Empty() Team {
	return Team{
		Members:    []Member{},
		Challenges: []Challenge{},
		Stats:      DefaultStats(),
	}
}

// Created reports whether the team has been founded
func (t Team) Created() bool {
	return t.TeamName != "" && t.CaptainName != ""
}

// HasMember reports whether name matches an existing member, ignoring case
func (t Team) HasMember(name string) bool {
	for _, m := range t.Members {
		if strings.EqualFold(m.Name, name) {
			return true
		}
	}
	return false
}

// repairRoster restores the roster rules on loaded data: the member named
// after the captain is the only captain and sits first, names are unique
// ignoring case, and the roster holds at most MaxMembers. A team that was
// never created has no members.
func repairRoster(t Team) Team {
	if !t.Created() {
		t.Members = []Member{}
		return t
	}

	captain := Member{Name: t.CaptainName, IsCaptain: true}
	for _, m := range t.Members {
		if strings.EqualFold(strings.TrimSpace(m.Name), t.CaptainName) {
			captain.JoinedAt = m.JoinedAt
			break
		}
	}

	roster := Team{Members: make([]Member, 0, MaxMembers)}
	roster.Members = append(roster.Members, captain)
	for _, m := range t.Members {
		if len(roster.Members) >= MaxMembers {
			break
		}
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" || roster.HasMember(m.Name) {
			continue
		}
		m.IsCaptain = false
		roster.Members = append(roster.Members, m)
	}
	t.Members = roster.Members
	return t
}

// Clone returns a deep copy so callers cannot mutate engine state
func (t Team) Clone() Team {
	out := t
	out.Members = append(make([]Member, 0, len(t.Members)), t.Members...)
	out.Challenges = append(make([]Challenge, 0, len(t.Challenges)), t.Challenges...)
	return out
}

// Summary is the compact overview of a team
type Summary struct {
	TeamName            string    `json:"teamName"`
	CaptainName         string    `json:"captainName"`
	MemberCount         int       `json:"memberCount"`
	ChallengesCompleted int       `json:"challengesCompleted"`
	TotalPoints         int       `json:"totalPoints"`
	BarsVisited         int       `json:"barsVisited"`
	TeamMorale          int       `json:"teamMorale"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

func (t Team) summary(at time.Time) Summary {
	return Summary{
		TeamName:            t.TeamName,
		CaptainName:         t.CaptainName,
		MemberCount:         len(t.Members),
		ChallengesCompleted: t.Stats.ChallengesCompleted,
		TotalPoints:         t.Stats.TotalPoints,
		BarsVisited:         t.Stats.BarsVisited,
		TeamMorale:          t.Stats.Morale,
		LastUpdated:         at,
	}
}
