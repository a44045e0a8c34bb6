package models

// AppState is the canonical in-memory representation of all tracked
// entities. Each collection is insertion-ordered and keyed by id.
type AppState struct {
	Students    []Student   `json:"students"`
	Subjects    []Subject   `json:"subjects"`
	TimeEntries []TimeEntry `json:"timeEntries"`
}

// DefaultState returns an empty state with non-nil collections so the
// persisted blob always carries all three arrays.
func DefaultState() AppState {
	return AppState{
		Students:    []Student{},
		Subjects:    []Subject{},
		TimeEntries: []TimeEntry{},
	}
}

// Clone returns a deep copy of the state so callers can read without
// observing later transitions.
func (s AppState) Clone() AppState {
	out := AppState{
		Students:    make([]Student, len(s.Students)),
		Subjects:    make([]Subject, len(s.Subjects)),
		TimeEntries: make([]TimeEntry, len(s.TimeEntries)),
	}
	copy(out.Subjects, s.Subjects)
	for i, st := range s.Students {
		out.Students[i] = cloneStudent(st)
	}
	for i, e := range s.TimeEntries {
		out.TimeEntries[i] = cloneEntry(e)
	}
	return out
}

func cloneStudent(st Student) Student {
	if st.Requirements != nil {
		req := *st.Requirements
		st.Requirements = &req
	}
	if st.SubjectCurriculum != nil {
		sc := make(map[string]CurriculumInfo, len(st.SubjectCurriculum))
		for k, v := range st.SubjectCurriculum {
			sc[k] = v
		}
		st.SubjectCurriculum = sc
	}
	return st
}

func cloneEntry(e TimeEntry) TimeEntry {
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	if e.StartTime != nil {
		t := *e.StartTime
		e.StartTime = &t
	}
	if e.EndTime != nil {
		t := *e.EndTime
		e.EndTime = &t
	}
	if e.RecurringDay != nil {
		d := *e.RecurringDay
		e.RecurringDay = &d
	}
	return e
}
