package gaps

import (
	"errors"
	"reflect"
	"testing"

	"github.com/five82/dofp/internal/quality"
)

const U = quality.Undecided

func g(cur, target quality.Level, segs ...int) Gap {
	return Gap{Segments: segs, Current: cur, Target: target}
}

func TestStrictDetect(t *testing.T) {
	tests := []struct {
		name     string
		seq      quality.Sequence
		expected []Gap
	}{
		{
			name:     "plateau between equal neighbors",
			seq:      quality.Sequence{6, 5, 5, 6, 6, U},
			expected: []Gap{g(5, 6, 1, 2), g(U, 7, 5)},
		},
		{
			name:     "non-decreasing history",
			seq:      quality.Sequence{3, 4, 5, U},
			expected: []Gap{g(U, 7, 3)},
		},
		{
			name:     "closing rise lowers target",
			seq:      quality.Sequence{6, 3, 4, 4, U},
			expected: []Gap{g(3, 4, 1), g(U, 7, 4)},
		},
		{
			name:     "staircase keeps deepest step",
			seq:      quality.Sequence{6, 5, 3, 4, U},
			expected: []Gap{g(3, 4, 2), g(U, 7, 4)},
		},
		{
			name:     "drop at second-to-last position",
			seq:      quality.Sequence{6, 6, 4, U},
			expected: []Gap{g(4, 6, 2), g(U, 7, 3)},
		},
		{
			name:     "staircase into second-to-last",
			seq:      quality.Sequence{6, 5, 4, U},
			expected: []Gap{g(4, 5, 2), g(U, 7, 3)},
		},
		{
			name:     "open plateau replaced by terminal",
			seq:      quality.Sequence{6, 5, 5, U},
			expected: []Gap{g(U, 7, 3)},
		},
		{
			name:     "two separate dips",
			seq:      quality.Sequence{5, 2, 5, 3, 3, 6, 6, U},
			expected: []Gap{g(2, 5, 1), g(3, 5, 3, 4), g(U, 7, 7)},
		},
		{
			name:     "minimal sequence",
			seq:      quality.Sequence{4, U},
			expected: []Gap{g(U, 7, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StrictDetector{}.Detect(tt.seq, 8)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Detect(%v) = %v, want %v", tt.seq, got, tt.expected)
			}
		})
	}
}

func TestExtendedDetect(t *testing.T) {
	tests := []struct {
		name     string
		seq      quality.Sequence
		expected []Gap
	}{
		{
			name:     "plateau and trailing run",
			seq:      quality.Sequence{6, 5, 5, 6, 6, U},
			expected: []Gap{g(5, 6, 1, 2), g(6, 7, 3, 4), g(U, 7, 5)},
		},
		{
			name:     "higher neighbor wins",
			seq:      quality.Sequence{6, 3, 4, 4, U},
			expected: []Gap{g(3, 6, 1), g(4, 7, 2, 3), g(U, 7, 4)},
		},
		{
			name:     "peak is not a gap",
			seq:      quality.Sequence{2, 5, 3, 7, U},
			expected: []Gap{g(3, 7, 2), g(U, 7, 4)},
		},
		{
			name:     "minimal sequence",
			seq:      quality.Sequence{4, U},
			expected: []Gap{g(U, 7, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtendedDetector{}.Detect(tt.seq, 8)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Detect(%v) = %v, want %v", tt.seq, got, tt.expected)
			}
		})
	}
}

func TestDetectorsPartition(t *testing.T) {
	seqs := []quality.Sequence{
		{6, 5, 5, 6, 6, U},
		{5, 2, 5, 3, 3, 6, 6, U},
		{7, 6, 5, 4, 3, 2, 1, U},
		{1, 2, 3, 2, 1, 2, 3, U},
		{0, 0, 0, U},
	}

	for _, d := range []Detector{StrictDetector{}, ExtendedDetector{}} {
		for _, seq := range seqs {
			found := Order(d.Detect(seq, 8))
			seen := map[int]bool{}
			terminal := 0
			for _, gap := range found {
				for _, p := range gap.Segments {
					if seen[p] {
						t.Errorf("%s: position %d in two gaps of %v", d.Name(), p, seq)
					}
					seen[p] = true
					if p < 0 || p >= len(seq) {
						t.Errorf("%s: position %d out of range for %v", d.Name(), p, seq)
					}
				}
				if gap.Last() == len(seq)-1 {
					terminal++
					if gap.Target != 7 {
						t.Errorf("%s: terminal target = %v, want 7", d.Name(), gap.Target)
					}
				}
			}
			if terminal != 1 {
				t.Errorf("%s: %d terminal gaps for %v, want 1", d.Name(), terminal, seq)
			}
		}
	}
}

func TestOrder(t *testing.T) {
	in := []Gap{g(5, 6, 1, 2), g(3, 5, 4), g(5, 7, 6), g(U, 7, 8)}
	want := []Gap{g(U, 7, 8), g(3, 5, 4), g(5, 6, 1, 2), g(5, 7, 6)}

	got := Order(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
	if in[0].Segments[0] != 1 {
		t.Error("Order modified its input")
	}
	if again := Order(got); !reflect.DeepEqual(again, got) {
		t.Errorf("Order is not idempotent: %v", again)
	}
}

func TestGapReversed(t *testing.T) {
	gap := g(5, 6, 1, 2, 3)
	if got := gap.Reversed(); !reflect.DeepEqual(got, []int{3, 2, 1}) {
		t.Errorf("Reversed() = %v", got)
	}
	if gap.Last() != 3 {
		t.Errorf("Last() = %d, want 3", gap.Last())
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input    string
		expected Strategy
	}{
		{"strict", StrategyStrict},
		{"STRICT", StrategyStrict},
		{"", StrategyStrict},
		{" extended ", StrategyExtended},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.input)
		if err != nil || got != tt.expected {
			t.Errorf("ParseStrategy(%q) = %v, %v, want %v", tt.input, got, err, tt.expected)
		}
	}

	if _, err := ParseStrategy("greedy"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("ParseStrategy(\"greedy\") error = %v, want ErrUnknownStrategy", err)
	}
}

func TestNewDetector(t *testing.T) {
	d, err := NewDetector(StrategyExtended)
	if err != nil {
		t.Fatal(err)
	}
	if d.Name() != "extended" {
		t.Errorf("Name() = %q", d.Name())
	}
	if _, err := NewDetector("bogus"); err == nil {
		t.Error("NewDetector(\"bogus\") expected error")
	}
}
