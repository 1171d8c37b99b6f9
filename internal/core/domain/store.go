package domain

import "strings"

// RecordStore holds the loaded records in load order. It is not safe for
// concurrent use; the table controller serializes access to it.
type RecordStore struct {
	records []Record
}

// NewRecordStore returns an empty store.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Load replaces the entire sequence. A repeated user_id keeps its first
// occurrence.
func (s *RecordStore) Load(records []Record) {
	seen := make(map[int64]struct{}, len(records))
	s.records = make([]Record, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.UserID]; dup {
			continue
		}
		seen[r.UserID] = struct{}{}
		s.records = append(s.records, r)
	}
}

// UpsertLocal replaces the record with the same user_id, or appends it.
func (s *RecordStore) UpsertLocal(r Record) {
	if i := s.index(r.UserID); i >= 0 {
		s.records[i] = r
		return
	}
	s.records = append(s.records, r)
}

// RemoveLocal drops the record with the given id. Absent ids are ignored.
func (s *RecordStore) RemoveLocal(id int64) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)
}

// Get returns a copy of the record with the given id.
func (s *RecordStore) Get(id int64) (Record, bool) {
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	return Record{}, false
}

// Records returns a copy of the sequence.
func (s *RecordStore) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *RecordStore) Len() int { return len(s.records) }

// Filter returns the records whose first name contains query, ignoring case.
// An empty query matches everything.
func (s *RecordStore) Filter(query string) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.Records()
	}
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if strings.Contains(strings.ToLower(r.FirstName), q) {
			out = append(out, r)
		}
	}
	return out
}

func (s *RecordStore) index(id int64) int {
	for i := range s.records {
		if s.records[i].UserID == id {
			return i
		}
	}
	return -1
}
