package editor

import (
	"errors"
	"fmt"

	"gitlab.com/dirk.krummacker/addressbook/internal/model"
	"gitlab.com/dirk.krummacker/addressbook/internal/store"
)

var (
	// ErrNoRecord is returned when a change is applied to a nil record.
	ErrNoRecord = errors.New("editor: no record")

	// ErrIndexOutOfRange is returned when a record number does not exist.
	ErrIndexOutOfRange = errors.New("editor: record number out of range")
)

// Change is a new value for one field.
type Change struct {
	Field model.Field
	Value string
}

// Apply sets the changed fields of rec in place. Fields without a change keep their values.
func Apply(rec *model.Record, changes ...Change) error {
	if rec == nil {
		return ErrNoRecord
	}
	for _, c := range changes {
		if !c.Field.Valid() {
			return fmt.Errorf("editor: unknown field %v", c.Field)
		}
	}
	for _, c := range changes {
		rec.Set(c.Field, c.Value)
	}
	return nil
}

// Session holds the complete address book in memory while records are edited. Editing requires
// the whole collection because the store can only rewrite everything at once.
type Session struct {
	store   store.Store
	records []*model.Record
	skipped []store.SkippedLine
	dirty   bool
}

// NewSession loads all records from s.
func NewSession(s store.Store) (*Session, error) {
	result, err := s.Load()
	if err != nil {
		return nil, err
	}
	return &Session{store: s, records: result.Records, skipped: result.Skipped}, nil
}

// Records returns the collection being edited.
func (s *Session) Records() []*model.Record {
	return s.records
}

// Skipped returns the lines that could not be loaded. They are dropped by the next Save.
func (s *Session) Skipped() []store.SkippedLine {
	return s.skipped
}

// Len returns the number of records.
func (s *Session) Len() int {
	return len(s.records)
}

// Select returns the record with the 1-based number n.
func (s *Session) Select(n int) (*model.Record, error) {
	if n < 1 || n > len(s.records) {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrIndexOutOfRange, n, len(s.records))
	}
	return s.records[n-1], nil
}

// Edit applies changes to the record with the 1-based number n.
func (s *Session) Edit(n int, changes ...Change) error {
	rec, err := s.Select(n)
	if err != nil {
		return err
	}
	if err := Apply(rec, changes...); err != nil {
		return err
	}
	if len(changes) > 0 {
		s.dirty = true
	}
	return nil
}

// Dirty reports whether any record was changed since the last save.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Save writes the whole collection back if anything was changed.
func (s *Session) Save() error {
	if !s.dirty {
		return nil
	}
	if err := s.store.SaveAll(s.records); err != nil {
		return err
	}
	s.dirty = false
	return nil
}
