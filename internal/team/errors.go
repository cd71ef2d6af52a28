package team

import "errors"

// Kind groups error codes the way callers react to them
type Kind string

const (
	KindValidation  Kind = "ValidationError"
	KindRoster      Kind = "RosterError"
	KindNotReady    Kind = "NotReady"
	KindPersistence Kind = "PersistenceWarning"
)

// Code is a machine-readable error code
type Code string

const (
	CodeMissingField        Code = "MISSING_FIELD"
	CodeNameTooShort        Code = "NAME_TOO_SHORT"
	CodeAlreadyExists       Code = "ALREADY_EXISTS"
	CodeNotReady            Code = "NOT_READY"
	CodeMissingName         Code = "MISSING_NAME"
	CodeRosterFull          Code = "ROSTER_FULL"
	CodeDuplicateName       Code = "DUPLICATE_NAME"
	CodeCannotRemoveCaptain Code = "CANNOT_REMOVE_CAPTAIN"
	CodeIndexOutOfRange     Code = "INDEX_OUT_OF_RANGE"
	CodeUnknownAction       Code = "UNKNOWN_ACTION"
	CodePersistenceFailed   Code = "PERSISTENCE_FAILED"
)

// Operation names carried by errors, used to pick the matching user message
const (
	OpCreateTeam      = "create_team"
	OpAddMember       = "add_member"
	OpRemoveMember    = "remove_member"
	OpRecordChallenge = "record_challenge"
	OpCaptainAction   = "captain_action"
	OpSaveNotes       = "save_notes"
	OpPersist         = "persist"
)

// Error is the engine's error type
type Error struct {
	Kind    Kind
	Code    Code
	Op      string // operation that failed
	Message string // internal message, for logs
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by code so sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrMissingField        = &Error{Kind: KindValidation, Code: CodeMissingField, Message: "missing required field"}
	ErrNameTooShort        = &Error{Kind: KindValidation, Code: CodeNameTooShort, Message: "team name too short"}
	ErrAlreadyExists       = &Error{Kind: KindValidation, Code: CodeAlreadyExists, Message: "team already created"}
	ErrUnknownAction       = &Error{Kind: KindValidation, Code: CodeUnknownAction, Message: "unknown captain action"}
	ErrNotReady            = &Error{Kind: KindNotReady, Code: CodeNotReady, Message: "team not created yet"}
	ErrMissingName         = &Error{Kind: KindRoster, Code: CodeMissingName, Message: "missing member name"}
	ErrRosterFull          = &Error{Kind: KindRoster, Code: CodeRosterFull, Message: "roster is full"}
	ErrDuplicateName       = &Error{Kind: KindRoster, Code: CodeDuplicateName, Message: "member already on roster"}
	ErrCannotRemoveCaptain = &Error{Kind: KindRoster, Code: CodeCannotRemoveCaptain, Message: "captain cannot be removed"}
	ErrIndexOutOfRange     = &Error{Kind: KindRoster, Code: CodeIndexOutOfRange, Message: "member index out of range"}
	ErrPersistence         = &Error{Kind: KindPersistence, Code: CodePersistenceFailed, Message: "persistence failed"}
)

func newError(base *Error, msg string) *Error {
	e := *base
	if msg != "" {
		e.Message = msg
	}
	return &e
}

func opError(op string, base *Error, msg string) *Error {
	e := newError(base, msg)
	e.Op = op
	return e
}

// AsError extracts the engine error from err, if any
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of an engine error, or "" for foreign errors
func CodeOf(err error) Code {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}
