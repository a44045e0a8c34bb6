// Package store owns the canonical application state and applies intents as
// pure transitions. Every transition is followed by a synchronous write of
// the full state blob; a failed write is a diagnostic, not an error, so the
// in-memory state stays authoritative for the session.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brightoak/homeschool-api/internal/blob"
	"github.com/brightoak/homeschool-api/internal/models"
)

// Store holds the application state and serializes transitions.
type Store struct {
	mu     sync.Mutex
	state  models.AppState
	blob   blob.Store
	logger *zap.Logger

	now   func() time.Time
	newID func() string
	hook  TransitionHook
}

// Sizes reports collection sizes after a transition.
type Sizes struct {
	Students    int
	Subjects    int
	TimeEntries int
}

// TransitionHook is notified after each applied transition, with the store
// mutex held. Implementations must not call back into the store.
type TransitionHook func(entity, op string, sizes Sizes)

// Option customizes store construction, mainly for tests.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithTransitionHook registers an observer for applied transitions.
func WithTransitionHook(hook TransitionHook) Option {
	return func(s *Store) { s.hook = hook }
}

// New constructs a store over the given blob backend with an empty state.
// Call Load to hydrate from persisted data.
func New(b blob.Store, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		state:  models.DefaultState(),
		blob:   b,
		logger: logger,
		now:    time.Now,
		newID:  GenerateID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateID returns a unique opaque identifier: millisecond timestamp in
// base36 plus a random suffix. Collisions are accepted as negligible.
func GenerateID() string {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + hex.EncodeToString(buf[:])
}

// Load hydrates state from the blob backend. A missing or corrupt blob
// degrades to the empty default state; neither is surfaced as an error.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.blob.Get(ctx)
	if err != nil {
		if err != blob.ErrNotFound {
			s.logger.Warn("failed to read persisted state, starting empty", zap.Error(err))
		}
		s.state = models.DefaultState()
		return
	}

	state, err := Decode(data)
	if err != nil {
		s.logger.Warn("persisted state is corrupt, starting empty", zap.Error(err))
		s.state = models.DefaultState()
		return
	}
	s.state = state
}

// State returns a deep copy of the current state.
func (s *Store) State() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// applied is called with the mutex held, once per committed transition.
func (s *Store) applied(entity, op string) {
	if s.hook == nil {
		return
	}
	s.hook(entity, op, Sizes{
		Students:    len(s.state.Students),
		Subjects:    len(s.state.Subjects),
		TimeEntries: len(s.state.TimeEntries),
	})
}

// persist is called with the mutex held, after every transition.
func (s *Store) persist(ctx context.Context) {
	data, err := Encode(s.state)
	if err != nil {
		s.logger.Error("failed to encode state", zap.Error(err))
		return
	}
	if err := s.blob.Set(ctx, data); err != nil {
		s.logger.Error("failed to persist state", zap.Error(err))
	}
}

// StudentDraft carries caller-supplied fields for a new student. The store
// performs no validation; empty names are a concern for the surface above.
type StudentDraft struct {
	Name              string
	Grade             string
	Requirements      *models.Requirements
	SubjectCurriculum map[string]models.CurriculumInfo
}

// AddStudent appends a new student with a generated id.
func (s *Store) AddStudent(ctx context.Context, draft StudentDraft) models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	student := models.Student{
		ID:                s.newID(),
		Name:              draft.Name,
		Grade:             draft.Grade,
		Requirements:      draft.Requirements,
		SubjectCurriculum: draft.SubjectCurriculum,
		CreatedAt:         s.now(),
	}
	s.state.Students = append(s.state.Students, student)
	s.persist(ctx)
	s.applied("student", "add")
	return student
}

// StudentUpdate is a shallow-merge payload: nil pointer fields are kept,
// non-nil fields replace the existing value wholesale (a provided
// Requirements object replaces the whole object, it is not merged per
// field).
type StudentUpdate struct {
	Name              *string
	Grade             *string
	Requirements      *models.Requirements
	SubjectCurriculum map[string]models.CurriculumInfo
}

// UpdateStudent merges the payload onto the matching student. An unknown id
// is a no-op reported through the boolean, never an error.
func (s *Store) UpdateStudent(ctx context.Context, id string, upd StudentUpdate) (models.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Students {
		if s.state.Students[i].ID != id {
			continue
		}
		st := &s.state.Students[i]
		if upd.Name != nil {
			st.Name = *upd.Name
		}
		if upd.Grade != nil {
			st.Grade = *upd.Grade
		}
		if upd.Requirements != nil {
			st.Requirements = upd.Requirements
		}
		if upd.SubjectCurriculum != nil {
			st.SubjectCurriculum = upd.SubjectCurriculum
		}
		s.persist(ctx)
		s.applied("student", "update")
		return *st, true
	}
	return models.Student{}, false
}

// DeleteStudent removes the student and cascades to its time entries in one
// transition. It reports the number of records removed.
func (s *Store) DeleteStudent(ctx context.Context, id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected := 0
	students := s.state.Students[:0]
	for _, st := range s.state.Students {
		if st.ID == id {
			affected++
			continue
		}
		students = append(students, st)
	}
	if affected == 0 {
		return 0
	}
	s.state.Students = students

	entries := s.state.TimeEntries[:0]
	for _, e := range s.state.TimeEntries {
		if e.StudentID == id {
			affected++
			continue
		}
		entries = append(entries, e)
	}
	s.state.TimeEntries = entries
	s.persist(ctx)
	s.applied("student", "delete")
	return affected
}

// SubjectDraft carries caller-supplied fields for a new subject.
type SubjectDraft struct {
	Name     string
	Color    string
	Category models.SubjectCategory
}

// AddSubject appends a new subject. An invalid or empty category defaults
// to Core.
func (s *Store) AddSubject(ctx context.Context, draft SubjectDraft) models.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := draft.Category
	if !category.Valid() {
		category = models.CategoryCore
	}
	subject := models.Subject{
		ID:        s.newID(),
		Name:      draft.Name,
		Color:     draft.Color,
		Category:  category,
		CreatedAt: s.now(),
	}
	s.state.Subjects = append(s.state.Subjects, subject)
	s.persist(ctx)
	s.applied("subject", "add")
	return subject
}

// SubjectUpdate is a shallow-merge payload for subjects.
type SubjectUpdate struct {
	Name     *string
	Color    *string
	Category *models.SubjectCategory
}

// UpdateSubject merges the payload onto the matching subject.
func (s *Store) UpdateSubject(ctx context.Context, id string, upd SubjectUpdate) (models.Subject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Subjects {
		if s.state.Subjects[i].ID != id {
			continue
		}
		sub := &s.state.Subjects[i]
		if upd.Name != nil {
			sub.Name = *upd.Name
		}
		if upd.Color != nil {
			sub.Color = *upd.Color
		}
		if upd.Category != nil && upd.Category.Valid() {
			sub.Category = *upd.Category
		}
		s.persist(ctx)
		s.applied("subject", "update")
		return *sub, true
	}
	return models.Subject{}, false
}

// DeleteSubject removes the subject and cascades to its time entries.
func (s *Store) DeleteSubject(ctx context.Context, id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected := 0
	subjects := s.state.Subjects[:0]
	for _, sub := range s.state.Subjects {
		if sub.ID == id {
			affected++
			continue
		}
		subjects = append(subjects, sub)
	}
	if affected == 0 {
		return 0
	}
	s.state.Subjects = subjects

	entries := s.state.TimeEntries[:0]
	for _, e := range s.state.TimeEntries {
		if e.SubjectID == id {
			affected++
			continue
		}
		entries = append(entries, e)
	}
	s.state.TimeEntries = entries
	s.persist(ctx)
	s.applied("subject", "delete")
	return affected
}

// TimeEntryDraft carries caller-supplied fields for a new time entry.
// Dangling student or subject references are accepted silently; display
// layers resolve them as "Unknown".
type TimeEntryDraft struct {
	StudentID string
	SubjectID string
	Date      time.Time
	StartTime *time.Time
	EndTime   *time.Time
	Duration  int
	Location  models.EntryLocation
	Notes     string
	Tags      []string

	IsRecurring       bool
	RecurringPattern  models.RecurrencePattern
	RecurringDay      *int
	RecurringSeriesID string
}

// AddTimeEntry appends a new time entry. An invalid or empty location
// defaults to Home.
func (s *Store) AddTimeEntry(ctx context.Context, draft TimeEntryDraft) models.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	location := draft.Location
	if !location.Valid() {
		location = models.LocationHome
	}
	entry := models.TimeEntry{
		ID:                s.newID(),
		StudentID:         draft.StudentID,
		SubjectID:         draft.SubjectID,
		Date:              draft.Date,
		StartTime:         draft.StartTime,
		EndTime:           draft.EndTime,
		Duration:          draft.Duration,
		Location:          location,
		Notes:             draft.Notes,
		Tags:              draft.Tags,
		IsRecurring:       draft.IsRecurring,
		RecurringPattern:  draft.RecurringPattern,
		RecurringDay:      draft.RecurringDay,
		RecurringSeriesID: draft.RecurringSeriesID,
		CreatedAt:         s.now(),
	}
	s.state.TimeEntries = append(s.state.TimeEntries, entry)
	s.persist(ctx)
	s.applied("timeEntry", "add")
	return entry
}

// TimeEntryUpdate is a shallow-merge payload for time entries. Tags, when
// provided, replace the existing list wholesale.
type TimeEntryUpdate struct {
	StudentID *string
	SubjectID *string
	Date      *time.Time
	StartTime *time.Time
	EndTime   *time.Time
	Duration  *int
	Location  *models.EntryLocation
	Notes     *string
	Tags      []string
}

// UpdateTimeEntry merges the payload onto the matching entry.
func (s *Store) UpdateTimeEntry(ctx context.Context, id string, upd TimeEntryUpdate) (models.TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.TimeEntries {
		if s.state.TimeEntries[i].ID != id {
			continue
		}
		e := &s.state.TimeEntries[i]
		if upd.StudentID != nil {
			e.StudentID = *upd.StudentID
		}
		if upd.SubjectID != nil {
			e.SubjectID = *upd.SubjectID
		}
		if upd.Date != nil {
			e.Date = *upd.Date
		}
		if upd.StartTime != nil {
			e.StartTime = upd.StartTime
		}
		if upd.EndTime != nil {
			e.EndTime = upd.EndTime
		}
		if upd.Duration != nil {
			e.Duration = *upd.Duration
		}
		if upd.Location != nil && upd.Location.Valid() {
			e.Location = *upd.Location
		}
		if upd.Notes != nil {
			e.Notes = *upd.Notes
		}
		if upd.Tags != nil {
			e.Tags = upd.Tags
		}
		s.persist(ctx)
		s.applied("timeEntry", "update")
		return *e, true
	}
	return models.TimeEntry{}, false
}

// DeleteTimeEntry removes one entry, reporting whether anything matched.
func (s *Store) DeleteTimeEntry(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.TimeEntries {
		if s.state.TimeEntries[i].ID == id {
			s.state.TimeEntries = append(s.state.TimeEntries[:i], s.state.TimeEntries[i+1:]...)
			s.persist(ctx)
			s.applied("timeEntry", "delete")
			return true
		}
	}
	return false
}
