package model

import "time"

// DayStats summarises the sprint as of one day.
type DayStats struct {
	Day             int     `json:"day" yaml:"day"`
	IdealRemaining  float64 `json:"ideal_remaining" yaml:"ideal_remaining"`
	ActualRemaining float64 `json:"actual_remaining" yaml:"actual_remaining"`
	Variance        float64 `json:"variance" yaml:"variance"`
	PercentComplete float64 `json:"percent_complete" yaml:"percent_complete"`
	Regressions     int     `json:"regressions,omitempty" yaml:"regressions,omitempty"`
}

// Artifact records one chart image written (or kept) by a render run.
type Artifact struct {
	Day         int
	Path        string
	Fingerprint uint64
	Bytes       int64
	ContentHash string
	RenderedAt  time.Time
	Skipped     bool
}

// Stats computes DayStats for the given day. ok is false when the sprint has
// no snapshot for that day.
func (s Sprint) Stats(day int) (DayStats, bool) {
	actual := s.Actual(day)
	if len(actual) == 0 {
		return DayStats{}, false
	}
	ideal := s.IdealThrough(day)

	st := DayStats{
		Day:             day,
		IdealRemaining:  ideal[len(ideal)-1],
		ActualRemaining: actual[len(actual)-1],
		Regressions:     len(s.Regressions(day)),
	}
	st.Variance = st.ActualRemaining - st.IdealRemaining
	if s.TotalTasks > 0 {
		st.PercentComplete = 1 - st.ActualRemaining/float64(s.TotalTasks)
	}
	return st, true
}

// AllStats returns DayStats for every day that has a snapshot.
func (s Sprint) AllStats() []DayStats {
	out := make([]DayStats, 0, len(s.Snapshots))
	for d := range s.Snapshots {
		if st, ok := s.Stats(d); ok {
			out = append(out, st)
		}
	}
	return out
}
