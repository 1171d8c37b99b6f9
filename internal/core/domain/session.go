package domain

import "fmt"

// Draft holds the attribute overrides the user has touched.
type Draft map[Field]string

func (d Draft) clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// EditSession tracks the single record being edited and its draft. The
// session never owns a Record; baselines are read from the store.
type EditSession struct {
	store    *RecordStore
	active   bool
	targetID int64
	draft    Draft
}

// NewEditSession returns an inactive session reading baselines from store.
func NewEditSession(store *RecordStore) *EditSession {
	return &EditSession{store: store}
}

// Begin opens the session on r. It fails if a session is already open and
// leaves that session untouched.
func (s *EditSession) Begin(r Record) error {
	if s.active {
		return fmt.Errorf("%w: record %d is already being edited", ErrInvalidState, s.targetID)
	}
	s.active = true
	s.targetID = r.UserID
	s.draft = Draft{}
	return nil
}

// SetField records value for f in the draft.
func (s *EditSession) SetField(f Field, value string) error {
	if !s.active {
		return fmt.Errorf("%w: no record is being edited", ErrInvalidState)
	}
	v, err := f.normalize(value)
	if err != nil {
		return err
	}
	s.draft[f] = v
	return nil
}

// Resolve overlays the draft on the current baseline. Empty draft values
// fall back to the baseline, so a field cannot be blanked here.
func (s *EditSession) Resolve() (Record, error) {
	if !s.active {
		return Record{}, fmt.Errorf("%w: no record is being edited", ErrInvalidState)
	}
	base, ok := s.store.Get(s.targetID)
	if !ok {
		return Record{}, fmt.Errorf("%w: record %d", ErrStaleTarget, s.targetID)
	}
	for f, v := range s.draft {
		if v == "" {
			continue
		}
		base.set(f, v)
	}
	return base, nil
}

// End clears the session.
func (s *EditSession) End() {
	s.active = false
	s.targetID = 0
	s.draft = nil
}

func (s *EditSession) Active() bool { return s.active }

// TargetID returns the edited record id and whether a session is open.
func (s *EditSession) TargetID() (int64, bool) {
	return s.targetID, s.active
}

// Draft returns a copy of the current draft, or nil when inactive.
func (s *EditSession) Draft() Draft {
	if !s.active {
		return nil
	}
	return s.draft.clone()
}
