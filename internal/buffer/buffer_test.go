package buffer

import (
	"errors"
	"testing"

	dofperrors "github.com/five82/dofp/internal/errors"
)

func TestNewThresholds(t *testing.T) {
	th, err := NewThresholds(20, DefaultFractions())
	if err != nil {
		t.Fatalf("NewThresholds() error = %v", err)
	}
	if th.Low != 5 || th.Save != 10 || th.High != 15 || th.Capacity != 20 {
		t.Errorf("NewThresholds(20) = %+v", th)
	}
}

func TestNewThresholdsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		capacity float64
		f        Fractions
		sentinel error
	}{
		{"zero capacity", 0, DefaultFractions(), ErrInvalidCapacity},
		{"negative capacity", -5, DefaultFractions(), ErrInvalidCapacity},
		{"save below low", 20, Fractions{Low: 0.5, Save: 0.25, High: 0.75}, ErrThresholdOrder},
		{"high above capacity", 20, Fractions{Low: 0.25, Save: 0.5, High: 1.5}, ErrThresholdOrder},
		{"negative low", 20, Fractions{Low: -0.1, Save: 0.5, High: 0.75}, ErrThresholdOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewThresholds(tt.capacity, tt.f)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("NewThresholds() error = %v, want %v", err, tt.sentinel)
			}
			if !dofperrors.IsConfig(err) {
				t.Errorf("NewThresholds() error kind = %v, want config error", err)
			}
		})
	}
}

func TestEqualThresholdsAllowed(t *testing.T) {
	if _, err := NewThresholds(10, Fractions{Low: 0.5, Save: 0.5, High: 1}); err != nil {
		t.Errorf("NewThresholds() error = %v", err)
	}
}

func TestStateValidate(t *testing.T) {
	th, _ := NewThresholds(20, DefaultFractions())
	valid := State{Occupancy: 16.743, SegmentDuration: 4, RemainingCurrent: 1, Thresholds: th}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name     string
		mutate   func(*State)
		sentinel error
	}{
		{"zero segment", func(s *State) { s.SegmentDuration = 0 }, ErrInvalidSegmentDuration},
		{"negative occupancy", func(s *State) { s.Occupancy = -1 }, ErrNegativeOccupancy},
		{"negative remaining", func(s *State) { s.RemainingCurrent = -0.5 }, ErrNegativeRemaining},
		{"bad thresholds", func(s *State) { s.Thresholds.Save = 30 }, ErrThresholdOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.sentinel) {
				t.Errorf("Validate() error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestDeadline(t *testing.T) {
	s := State{SegmentDuration: 4, RemainingCurrent: 1}
	tests := []struct {
		pos      int
		expected float64
	}{
		{1, 1},
		{2, 5},
		{4, 13},
	}
	for _, tt := range tests {
		if got := s.Deadline(tt.pos); got != tt.expected {
			t.Errorf("Deadline(%d) = %v, want %v", tt.pos, got, tt.expected)
		}
	}
}
