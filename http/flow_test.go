package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"riskscreen/risk"
)

func TestTransitionTable(t *testing.T) {
	valid := []struct {
		from  Screen
		event Event
		to    Screen
	}{
		{ScreenHome, EventStart, ScreenAssessment},
		{ScreenAssessment, EventSubmit, ScreenResults},
		{ScreenResults, EventBack, ScreenHome},
	}
	for _, tt := range valid {
		got, err := Transition(tt.from, tt.event)
		if err != nil {
			t.Errorf("Transition(%v, %v) failed: %v", tt.from, tt.event, err)
		}
		if got != tt.to {
			t.Errorf("Transition(%v, %v) = %v, want %v", tt.from, tt.event, got, tt.to)
		}
	}

	invalid := []struct {
		from  Screen
		event Event
	}{
		{ScreenHome, EventSubmit},
		{ScreenHome, EventBack},
		{ScreenAssessment, EventStart},
		{ScreenAssessment, EventBack},
		{ScreenResults, EventStart},
		{ScreenResults, EventSubmit},
	}
	for _, tt := range invalid {
		if _, err := Transition(tt.from, tt.event); err == nil {
			t.Errorf("Transition(%v, %v) should fail", tt.from, tt.event)
		}
	}
}

func TestSessionApplyClearsResultOnBack(t *testing.T) {
	session := &Session{Screen: ScreenHome}
	if err := session.Apply(EventStart, nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	result := &risk.Assessment{Tier: risk.TierLow}
	if err := session.Apply(EventSubmit, result); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if session.LastResult != result {
		t.Fatal("submit did not store the result")
	}
	if err := session.Apply(EventBack, nil); err != nil {
		t.Fatalf("back failed: %v", err)
	}
	if session.Screen != ScreenHome {
		t.Fatalf("expected home after back, got %v", session.Screen)
	}
	if session.LastResult != nil {
		t.Fatal("back must clear the last result")
	}
}

func TestSessionApplyRejectsInvalidEvent(t *testing.T) {
	session := &Session{Screen: ScreenHome}
	if err := session.Apply(EventSubmit, nil); err == nil {
		t.Fatal("expected error submitting from home")
	}
	if session.Screen != ScreenHome {
		t.Fatal("failed event must not move the screen")
	}
}

func TestSessionStoreReusesCookie(t *testing.T) {
	store := NewSessionStore(8, time.Minute)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	first := store.Get(w, r)
	if first.ID == "" || first.Screen != ScreenHome {
		t.Fatalf("unexpected fresh session: %+v", first)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookie {
		t.Fatalf("expected one session cookie, got %v", cookies)
	}

	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(cookies[0])
	second := store.Get(httptest.NewRecorder(), r2)
	if second != first {
		t.Fatal("cookie did not resolve to the same session")
	}
}
