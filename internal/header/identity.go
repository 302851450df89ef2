package header

import (
	"strings"
	"time"
)

type Source string

const (
	SourceNone    Source = ""
	SourceSession Source = "session"
	SourceManual  Source = "manual"
)

// Identity is either a SessionIdentity or a ManualIdentity.
// A nil Identity means nobody is logged in.
type Identity interface {
	Source() Source
	FirstName() string
	identity()
}

type SessionIdentity struct {
	Name       string
	SignedInAt time.Time
}

func (SessionIdentity) Source() Source { return SourceSession }

// FirstName returns the first word of the session display name.
func (i SessionIdentity) FirstName() string {
	fields := strings.Fields(i.Name)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

func (SessionIdentity) identity() {}

type ManualIdentity struct {
	Name string
}

func (ManualIdentity) Source() Source { return SourceManual }

func (i ManualIdentity) FirstName() string {
	return strings.TrimSpace(i.Name)
}

func (ManualIdentity) identity() {}

var (
	_ Identity = SessionIdentity{}
	_ Identity = ManualIdentity{}
)

// ResolveIdentity picks the identity to display. A session always wins
// over a manual record.
func ResolveIdentity(session *Session, record *Record) Identity {
	switch {
	case session != nil:
		return SessionIdentity{Name: session.Name, SignedInAt: session.SignedInAt}
	case record != nil:
		return ManualIdentity{Name: record.FirstName}
	default:
		return nil
	}
}

// DisplayName derives the name shown in the header. The session name is
// preferred, then the record name, then the empty string.
func DisplayName(session *Session, record *Record) string {
	if id := ResolveIdentity(session, nil); id != nil {
		if name := id.FirstName(); name != "" {
			return name
		}
	}

	if id := ResolveIdentity(nil, record); id != nil {
		return id.FirstName()
	}

	return ""
}
