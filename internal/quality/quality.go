// Package quality defines quality levels, quality sequences and the bitrate table
// that maps levels to bitrates.
package quality

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	dofperrors "github.com/five82/dofp/internal/errors"
)

// Level is a quality level index into a BitrateTable.
type Level int

// Undecided marks a position whose quality has not been chosen yet.
// It is distinct from level 0, which is a real (lowest) tier.
const Undecided Level = -1

// Sentinel errors for sequence validation.
var (
	ErrSequenceTooShort   = errors.New("sequence must contain at least two positions")
	ErrTerminalDecided    = errors.New("terminal position is already decided")
	ErrUndecidedInHistory = errors.New("undecided marker in committed history")
	ErrLevelOutOfRange    = errors.New("quality level out of range")
)

// IsDecided reports whether l is a real quality level.
func (l Level) IsDecided() bool {
	return l != Undecided
}

func (l Level) String() string {
	if l == Undecided {
		return "?"
	}
	return strconv.Itoa(int(l))
}

// Sequence is an ordered assignment of quality levels to segment positions.
// The last position is the next segment to decide.
type Sequence []Level

// Clone returns an independent copy of s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// With returns a copy of s with position pos set to l. s is not modified.
func (s Sequence) With(pos int, l Level) Sequence {
	out := s.Clone()
	out[pos] = l
	return out
}

// Terminal returns the level at the last position.
func (s Sequence) Terminal() Level {
	if len(s) == 0 {
		return Undecided
	}
	return s[len(s)-1]
}

// Equal reports whether s and o hold the same levels.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Validate checks that s can be handed to the decision engine for a table
// with the given number of levels: at least two positions, every history
// position decided and in range, and an undecided terminal.
func (s Sequence) Validate(levels int) error {
	if len(s) < 2 {
		return dofperrors.NewPolicyError(ErrSequenceTooShort, "got %d position(s)", len(s))
	}
	last := len(s) - 1
	for i, l := range s[:last] {
		if l == Undecided {
			return dofperrors.NewPolicyError(ErrUndecidedInHistory, "position %d", i)
		}
		if l < 0 || int(l) >= levels {
			return dofperrors.NewPolicyError(ErrLevelOutOfRange, "position %d has level %d, table has %d levels", i, l, levels)
		}
	}
	if s[last] != Undecided {
		return dofperrors.NewPolicyError(ErrTerminalDecided, "terminal position %d holds level %d", last, s[last])
	}
	return nil
}

// String renders s as a comma-separated list, using "?" for undecided positions.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, l := range s {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

// ParseSequence parses a comma- or space-separated list of levels.
// "?", "_" and "-1" denote the undecided marker.
func ParseSequence(s string) (Sequence, error) {
	fields := splitList(s)
	if len(fields) == 0 {
		return nil, dofperrors.NewParseError("empty quality sequence", nil)
	}
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		switch f {
		case "?", "_", "-1":
			seq = append(seq, Undecided)
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, dofperrors.NewParseError(fmt.Sprintf("invalid quality level %q", f), err)
		}
		if n < 0 {
			return nil, dofperrors.NewParseError(fmt.Sprintf("invalid quality level %q", f), ErrLevelOutOfRange)
		}
		seq = append(seq, Level(n))
	}
	return seq, nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
