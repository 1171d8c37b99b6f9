package domain

import (
	"errors"
	"testing"
)

func newSessionWith(records ...Record) (*RecordStore, *EditSession) {
	store := NewRecordStore()
	store.Load(records)
	return store, NewEditSession(store)
}

func TestEditSession_BeginTwiceFails(t *testing.T) {
	a := Record{UserID: 1, FirstName: "A"}
	b := Record{UserID: 2, FirstName: "B"}
	_, s := newSessionWith(a, b)

	if err := s.Begin(a); err != nil {
		t.Fatalf("begin: %v", err)
	}
	_ = s.SetField(FieldFirstName, "X")

	if err := s.Begin(b); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if id, ok := s.TargetID(); !ok || id != 1 {
		t.Fatalf("first session must be untouched, got %d %v", id, ok)
	}
	if s.Draft()[FieldFirstName] != "X" {
		t.Fatal("first draft must be untouched")
	}
}

func TestEditSession_SetFieldRequiresSession(t *testing.T) {
	_, s := newSessionWith()

	if err := s.SetField(FieldEmail, "a@b.c"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestEditSession_ResolveOverlaysNonEmpty(t *testing.T) {
	base := Record{UserID: 1, FirstName: "A", LastName: "L", Email: "a@example.com", PhoneNumber: "555", Gender: GenderFemale, Type: RoleUser}
	_, s := newSessionWith(base)
	_ = s.Begin(base)
	_ = s.SetField(FieldFirstName, "B")
	_ = s.SetField(FieldLastName, "")
	_ = s.SetField(FieldPhoneNumber, "+57 300")
	_ = s.SetField(FieldGender, "NO BINARIO")

	got, err := s.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := base
	want.FirstName = "B"
	want.PhoneNumber = "+57 300"
	want.Gender = GenderNonBinary
	if got != want {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestEditSession_ResolveReadsCurrentBaseline(t *testing.T) {
	base := Record{UserID: 1, FirstName: "A", LastName: "L"}
	store, s := newSessionWith(base)
	_ = s.Begin(base)
	_ = s.SetField(FieldFirstName, "B")

	store.UpsertLocal(Record{UserID: 1, FirstName: "A", LastName: "Server"})

	got, _ := s.Resolve()
	if got.LastName != "Server" || got.FirstName != "B" {
		t.Fatalf("expected draft over current baseline, got %+v", got)
	}
}

func TestEditSession_ResolveStaleTarget(t *testing.T) {
	base := Record{UserID: 1}
	store, s := newSessionWith(base)
	_ = s.Begin(base)
	store.RemoveLocal(1)

	if _, err := s.Resolve(); !errors.Is(err, ErrStaleTarget) {
		t.Fatalf("expected ErrStaleTarget, got %v", err)
	}
}

func TestEditSession_EndClears(t *testing.T) {
	base := Record{UserID: 1}
	_, s := newSessionWith(base)
	_ = s.Begin(base)
	_ = s.SetField(FieldUsername, "x")
	s.End()

	if s.Active() || s.Draft() != nil {
		t.Fatal("session must be cleared")
	}
	if err := s.Begin(base); err != nil {
		t.Fatalf("begin after end: %v", err)
	}
	if len(s.Draft()) != 0 {
		t.Fatal("new session must start with an empty draft")
	}
}

func TestEditSession_DraftIsACopy(t *testing.T) {
	base := Record{UserID: 1}
	_, s := newSessionWith(base)
	_ = s.Begin(base)
	_ = s.SetField(FieldEmail, "a@example.com")

	d := s.Draft()
	d[FieldEmail] = "changed"
	if s.Draft()[FieldEmail] != "a@example.com" {
		t.Fatal("Draft must return a copy")
	}
}
