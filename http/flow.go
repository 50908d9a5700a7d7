package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"riskscreen/risk"
)

// Screen is one of the three pages of the assessment flow.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenAssessment
	ScreenResults
)

func (s Screen) String() string {
	switch s {
	case ScreenHome:
		return "home"
	case ScreenAssessment:
		return "assessment"
	case ScreenResults:
		return "results"
	default:
		return "unknown"
	}
}

// Event is a user action that moves the flow between screens.
type Event int

const (
	EventStart Event = iota
	EventSubmit
	EventBack
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventSubmit:
		return "submit"
	case EventBack:
		return "back"
	default:
		return "unknown"
	}
}

// Transition is the whole navigation model: Home --start--> Assessment
// --submit--> Results --back--> Home. Anything else is an error.
func Transition(current Screen, event Event) (Screen, error) {
	switch {
	case current == ScreenHome && event == EventStart:
		return ScreenAssessment, nil
	case current == ScreenAssessment && event == EventSubmit:
		return ScreenResults, nil
	case current == ScreenResults && event == EventBack:
		return ScreenHome, nil
	default:
		return current, fmt.Errorf("invalid transition: %s from %s", event, current)
	}
}

// Session is one browser's place in the flow. The results screen owns
// the last rendered assessment; returning home clears it.
type Session struct {
	ID         string
	Screen     Screen
	LastResult *risk.Assessment
}

// Apply runs one event against the session, updating held output.
func (s *Session) Apply(event Event, result *risk.Assessment) error {
	next, err := Transition(s.Screen, event)
	if err != nil {
		return err
	}
	s.Screen = next
	switch event {
	case EventSubmit:
		s.LastResult = result
	case EventBack:
		s.LastResult = nil
	}
	return nil
}

const sessionCookie = "rs_session"

// SessionStore keeps per-browser flow state in an expiring LRU. Expiry
// or eviction simply restarts that browser at the home screen.
type SessionStore struct {
	cache *expirable.LRU[string, *Session]
}

func NewSessionStore(size int, ttl time.Duration) *SessionStore {
	if size <= 0 {
		size = 1024
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{cache: expirable.NewLRU[string, *Session](size, nil, ttl)}
}

// Get returns the request's session, minting a fresh one (and cookie)
// when none exists.
func (st *SessionStore) Get(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if session, ok := st.cache.Get(cookie.Value); ok {
			return session
		}
	}

	session := &Session{ID: uuid.NewString(), Screen: ScreenHome}
	st.cache.Add(session.ID, session)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session
}
