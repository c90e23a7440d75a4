// Package model defines the sprint data and derived burn-down figures.
package model

import (
	"errors"
	"fmt"
)

// Sprint holds the fixed parameters of one sprint and its observed progress.
// Snapshots[d] is the remaining-task count for days 0..d as seen on day d.
type Sprint struct {
	TotalDays  int
	TotalTasks int
	Snapshots  [][]float64
}

// DefaultSprint returns the built-in demonstration sprint.
func DefaultSprint() Sprint {
	return Sprint{
		TotalDays:  5,
		TotalTasks: 10,
		Snapshots: [][]float64{
			{10},
			{10, 8},
			{10, 8, 6},
			{10, 8, 6, 4},
			{10, 8, 6, 4, 2},
			{10, 8, 6, 4, 2, 0},
		},
	}
}

// LinearSnapshots returns snapshots that follow the ideal line exactly.
// Used when sprint parameters change and custom snapshots no longer fit.
func LinearSnapshots(totalDays, totalTasks int) [][]float64 {
	s := Sprint{TotalDays: totalDays, TotalTasks: totalTasks}
	ideal := s.Ideal()
	snaps := make([][]float64, totalDays+1)
	for d := range snaps {
		snaps[d] = append([]float64(nil), ideal[:d+1]...)
	}
	return snaps
}

// Ideal returns the linear burn-down from TotalTasks to 0, one point per day
// index 0..TotalDays.
func (s Sprint) Ideal() []float64 {
	if s.TotalDays <= 0 {
		return []float64{float64(s.TotalTasks)}
	}
	rate := float64(s.TotalTasks) / float64(s.TotalDays)
	ideal := make([]float64, s.TotalDays+1)
	for i := range ideal {
		ideal[i] = float64(s.TotalTasks) - rate*float64(i)
	}
	return ideal
}

// IdealThrough returns the first day+1 points of the ideal curve.
func (s Sprint) IdealThrough(day int) []float64 {
	ideal := s.Ideal()
	if day < 0 {
		return nil
	}
	if day >= len(ideal) {
		day = len(ideal) - 1
	}
	return ideal[:day+1]
}

// Actual returns a copy of the snapshot recorded on day, or nil if there is none.
func (s Sprint) Actual(day int) []float64 {
	if day < 0 || day >= len(s.Snapshots) {
		return nil
	}
	return append([]float64(nil), s.Snapshots[day]...)
}

// Days returns the X values 0..day.
func (s Sprint) Days(day int) []float64 {
	if day < 0 {
		return nil
	}
	xs := make([]float64, day+1)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// Validate checks the structural invariants of the sprint.
// Snapshot values are not required to be non-increasing.
func (s Sprint) Validate() error {
	if s.TotalDays <= 0 {
		return fmt.Errorf("total days must be positive, got %d", s.TotalDays)
	}
	if s.TotalTasks <= 0 {
		return fmt.Errorf("total tasks must be positive, got %d", s.TotalTasks)
	}
	if len(s.Snapshots) != s.TotalDays+1 {
		return fmt.Errorf("expected %d snapshots (days 0..%d), got %d",
			s.TotalDays+1, s.TotalDays, len(s.Snapshots))
	}
	var errs []error
	for d, snap := range s.Snapshots {
		if len(snap) != d+1 {
			errs = append(errs, fmt.Errorf("snapshot for day %d has %d points, want %d", d, len(snap), d+1))
		}
	}
	return errors.Join(errs...)
}

// Regressions returns the indices in the day's snapshot where remaining work
// went up compared to the previous day.
func (s Sprint) Regressions(day int) []int {
	snap := s.Actual(day)
	var out []int
	for i := 1; i < len(snap); i++ {
		if snap[i] > snap[i-1] {
			out = append(out, i)
		}
	}
	return out
}
