package quality

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	dofperrors "github.com/five82/dofp/internal/errors"
)

// Sentinel errors for bitrate tables.
var (
	ErrEmptyBitrates      = errors.New("bitrate table is empty")
	ErrNegativeBitrate    = errors.New("bitrate must be non-negative")
	ErrDecreasingBitrates = errors.New("bitrates must be non-decreasing")
)

// DefaultBitrates is the reference ladder in kbps, index 0 being the
// zero-bitrate placeholder tier.
var DefaultBitrates = []float64{0, 107, 240, 346, 715, 1347, 2426, 4121}

// BitrateTable maps quality levels to bitrates. It is immutable once built.
type BitrateTable struct {
	rates []float64
}

// NewBitrateTable validates rates and returns a table.
func NewBitrateTable(rates []float64) (BitrateTable, error) {
	if len(rates) == 0 {
		return BitrateTable{}, dofperrors.NewConfigError(ErrEmptyBitrates, "at least one level is required")
	}
	for i, r := range rates {
		if r < 0 || math.IsNaN(r) {
			return BitrateTable{}, dofperrors.NewConfigError(ErrNegativeBitrate, "level %d has bitrate %v", i, r)
		}
		if i > 0 && r < rates[i-1] {
			return BitrateTable{}, dofperrors.NewConfigError(ErrDecreasingBitrates,
				"level %d (%v) is below level %d (%v)", i, r, i-1, rates[i-1])
		}
	}
	out := make([]float64, len(rates))
	copy(out, rates)
	return BitrateTable{rates: out}, nil
}

// Levels returns the number of quality levels.
func (t BitrateTable) Levels() int {
	return len(t.rates)
}

// Top returns the highest quality level.
func (t BitrateTable) Top() Level {
	return Level(len(t.rates) - 1)
}

// Bitrate returns the bitrate of level l.
func (t BitrateTable) Bitrate(l Level) float64 {
	return t.rates[l]
}

// Bitrates returns a copy of the underlying ladder.
func (t BitrateTable) Bitrates() []float64 {
	out := make([]float64, len(t.rates))
	copy(out, t.rates)
	return out
}

// DownloadTime returns the seconds needed to fetch one segment of segDur
// seconds at level l with the given throughput. Zero throughput makes every
// non-zero bitrate take forever.
func (t BitrateTable) DownloadTime(l Level, segDur, throughput float64) float64 {
	size := t.rates[l] * segDur
	if size == 0 {
		return 0
	}
	if throughput <= 0 {
		return math.Inf(1)
	}
	return size / throughput
}

// ParseBitrates parses a comma- or space-separated list of bitrates.
func ParseBitrates(s string) ([]float64, error) {
	fields := splitList(s)
	if len(fields) == 0 {
		return nil, dofperrors.NewParseError("empty bitrate list", nil)
	}
	rates := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, dofperrors.NewParseError(fmt.Sprintf("invalid bitrate %q", f), err)
		}
		rates = append(rates, v)
	}
	return rates, nil
}
