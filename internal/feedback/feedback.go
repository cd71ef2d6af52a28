// Package feedback renders the fixed set of user-facing title and message
// pairs shown after every team operation.
package feedback

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/amit/captainhub/internal/team"
)

// Supported locales. Italian is the default.
var (
	Italian = language.Italian
	English = language.English

	supported = []language.Tag{Italian, English}
	matcher   = language.NewMatcher(supported)
)

// Message is a title and body pair ready for display
type Message struct {
	Title string `json:"title"`
	Body  string `json:"message"`
}

// Event keys for successful operations
const (
	TeamCreated       = "team_created"
	MemberAdded       = "member_added"
	MemberRemoved     = "member_removed"
	ChallengeRecorded = "challenge_recorded"
	NotesSaved        = "notes_saved"
	ExportCreated     = "export_created"
	ExportFailed      = "export_failed"
	TeamReset         = "team_reset"
	ResetConfirm      = "reset_confirm"
)

// ParseLocale picks the closest supported locale for a tag such as "en-GB"
// or an Accept-Language header. Unknown input falls back to Italian.
func ParseLocale(raw string) language.Tag {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Italian
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return Italian
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Italian
	}
	return supported[idx]
}

// For renders the message registered under key
func For(lang language.Tag, key string, args ...interface{}) Message {
	p := message.NewPrinter(lang)
	return Message{
		Title: p.Sprintf(key + ".title"),
		Body:  p.Sprintf(key+".body", args...),
	}
}

// ForAction renders the captain action announcement
func ForAction(lang language.Tag, kind team.ActionKind) Message {
	return For(lang, "action."+string(kind))
}

// ForChallenge renders the confirmation for a recorded challenge
func ForChallenge(lang language.Tag, c team.Challenge) Message {
	return For(lang, ChallengeRecorded, ChallengeLabel(lang, c.ChallengeType), c.BarName, c.PointsEarned)
}

// ChallengeLabel returns the display label of a challenge type
func ChallengeLabel(lang language.Tag, t team.ChallengeType) string {
	return message.NewPrinter(lang).Sprintf("label." + string(t))
}

// ForError renders the message for an engine error. Operation specific text
// wins over the generic text of the code.
func ForError(lang language.Tag, err error) Message {
	e, ok := team.AsError(err)
	if !ok {
		return For(lang, "error.unknown")
	}
	var args []interface{}
	if e.Code == team.CodeRosterFull {
		args = append(args, team.MaxMembers)
	}
	if e.Op != "" {
		key := "error." + e.Op + "." + string(e.Code)
		if _, found := catalogs[Italian][key]; found {
			return For(lang, key, args...)
		}
	}
	return For(lang, "error."+string(e.Code), args...)
}
