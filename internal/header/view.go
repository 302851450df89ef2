package header

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bornholm/deepidia/pkg/log"
	"github.com/pkg/errors"
)

// State is a snapshot of everything the header renders.
type State struct {
	MobileMenuOpen bool
	LogoutDialog   DialogState
	LoggedIn       bool
	DisplayName    string
	Source         Source
	SignedInAt     time.Time
}

// View is the header view-model. It is driven by user interactions and
// is not safe for concurrent use: hosts create one per interaction.
type View struct {
	sessions    SessionProvider
	preferences PreferenceStore
	recordKey   string

	initialized    bool
	session        *Session
	record         *Record
	mobileMenuOpen bool
	logoutDialog   DialogState

	subscribers map[int]func(State)
	nextID      int
}

func New(sessions SessionProvider, preferences PreferenceStore, funcs ...OptionFunc) *View {
	opts := NewOptions(funcs...)

	if sessions == nil {
		sessions = noSession{}
	}

	if preferences == nil {
		preferences = noPreferences{}
	}

	return &View{
		sessions:       sessions,
		preferences:    preferences,
		recordKey:      opts.RecordKey,
		mobileMenuOpen: opts.MobileMenuOpen,
		logoutDialog:   opts.LogoutDialog,
		subscribers:    make(map[int]func(State)),
	}
}

// Initialize loads the session and the preference record. Only the first
// call has an effect. Unreadable or malformed records are treated as absent.
func (v *View) Initialize(ctx context.Context) {
	if v.initialized {
		return
	}

	v.mutate(func() {
		v.initialized = true

		session, err := v.sessions.CurrentSession(ctx)
		if err != nil {
			slog.DebugContext(ctx, "could not retrieve current session", log.Error(errors.WithStack(err)))
			session = nil
		}

		v.session = session
		v.record = v.readRecord(ctx)
	})
}

func (v *View) readRecord(ctx context.Context) *Record {
	raw, exists, err := v.preferences.Read(ctx, v.recordKey)
	if err != nil {
		slog.DebugContext(ctx, "could not read preference record", log.Error(errors.WithStack(err)), slog.String("key", v.recordKey))
		return nil
	}

	if !exists {
		return nil
	}

	record, err := DecodeRecord(raw)
	if err != nil {
		slog.DebugContext(ctx, "ignoring malformed preference record", log.Error(errors.WithStack(err)), slog.String("key", v.recordKey))
		return nil
	}

	return record
}

func (v *View) ToggleMobileMenu() {
	v.mutate(func() {
		v.mobileMenuOpen = !v.mobileMenuOpen
	})
}

func (v *View) CloseMobileMenu() {
	v.mutate(func() {
		v.mobileMenuOpen = false
	})
}

func (v *View) RequestLogout() {
	v.mutate(func() {
		v.logoutDialog = v.logoutDialog.Next(DialogEventRequest)
	})
}

func (v *View) CancelLogout() {
	v.mutate(func() {
		v.logoutDialog = v.logoutDialog.Next(DialogEventCancel)
	})
}

// ConfirmLogout terminates the current session if there is one, deletes
// the preference record and closes the dialog. The in-memory state is
// always cleared, even when a collaborator fails.
func (v *View) ConfirmLogout(ctx context.Context) error {
	v.Initialize(ctx)

	logoutErr := &LogoutError{}

	v.mutate(func() {
		if v.session != nil {
			if err := v.sessions.TerminateSession(ctx); err != nil {
				logoutErr.Session = errors.WithStack(err)
			}
		}

		if err := v.preferences.Delete(ctx, v.recordKey); err != nil {
			logoutErr.Preference = errors.WithStack(err)
		}

		v.session = nil
		v.record = nil
		v.logoutDialog = v.logoutDialog.Next(DialogEventConfirm)
	})

	if logoutErr.Session != nil || logoutErr.Preference != nil {
		return logoutErr
	}

	return nil
}

func (v *View) Identity() Identity {
	return ResolveIdentity(v.session, v.record)
}

func (v *View) IsLoggedIn() bool {
	return v.Identity() != nil
}

func (v *View) DisplayName() string {
	return DisplayName(v.session, v.record)
}

func (v *View) MobileMenuOpen() bool {
	return v.mobileMenuOpen
}

func (v *View) LogoutDialog() DialogState {
	return v.logoutDialog
}

func (v *View) State() State {
	state := State{
		MobileMenuOpen: v.mobileMenuOpen,
		LogoutDialog:   v.logoutDialog,
		DisplayName:    v.DisplayName(),
	}

	identity := v.Identity()
	if identity != nil {
		state.LoggedIn = true
		state.Source = identity.Source()
	}

	if sessionIdentity, ok := identity.(SessionIdentity); ok {
		state.SignedInAt = sessionIdentity.SignedInAt
	}

	return state
}

// Subscribe registers fn to be called with the new state after each
// change. The returned function removes the subscription.
func (v *View) Subscribe(fn func(State)) func() {
	id := v.nextID
	v.nextID++
	v.subscribers[id] = fn

	return func() {
		delete(v.subscribers, id)
	}
}

func (v *View) mutate(fn func()) {
	before := v.State()
	fn()
	after := v.State()

	if before == after {
		return
	}

	for _, subscriber := range v.subscribers {
		subscriber(after)
	}
}

type LogoutError struct {
	Session    error
	Preference error
}

func (e *LogoutError) Error() string {
	switch {
	case e.Session != nil && e.Preference != nil:
		return fmt.Sprintf("could not terminate session: %s; could not delete preference record: %s", e.Session, e.Preference)
	case e.Session != nil:
		return fmt.Sprintf("could not terminate session: %s", e.Session)
	default:
		return fmt.Sprintf("could not delete preference record: %s", e.Preference)
	}
}

func (e *LogoutError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Session != nil {
		errs = append(errs, e.Session)
	}
	if e.Preference != nil {
		errs = append(errs, e.Preference)
	}
	return errs
}
