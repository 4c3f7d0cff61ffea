package engine

import (
	"errors"
	"math"

	dofperrors "github.com/five82/dofp/internal/errors"
	"github.com/five82/dofp/internal/gaps"
	"github.com/five82/dofp/internal/quality"
)

// ErrNegativeThroughput is returned when the throughput estimate is negative.
var ErrNegativeThroughput = errors.New("throughput must be non-negative")

// Config holds the per-call decision settings.
type Config struct {
	Bitrates quality.BitrateTable
	// Throughput is the estimated throughput in the bitrate table's unit per second.
	Throughput float64
	// OneGapAtATime evaluates each gap against the original history only.
	// When false, repairs accumulate across gaps.
	OneGapAtATime bool
	// MaximizeWhenBufferHigh spends the surplus above the save threshold
	// on repairs while the buffer is above the high threshold.
	MaximizeWhenBufferHigh bool
	// Detector finds gaps. Nil means the strict detector.
	Detector gaps.Detector
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Bitrates.Levels() == 0 {
		return dofperrors.NewConfigError(quality.ErrEmptyBitrates, "decision config has no bitrate table")
	}
	if c.Throughput < 0 || math.IsNaN(c.Throughput) {
		return dofperrors.NewConfigError(ErrNegativeThroughput, "got %v", c.Throughput)
	}
	return nil
}

func (c Config) detector() gaps.Detector {
	if c.Detector == nil {
		return gaps.StrictDetector{}
	}
	return c.Detector
}
