package metrics

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/dofp/internal/reporter"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dofp.prom")
	require.NoError(t, m.WriteTextfile(path))
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(body)
}

func TestReporterRecordsDecisions(t *testing.T) {
	m := New()
	r := NewReporter(m)

	r.DecisionComplete(reporter.DecisionSummary{
		Terminal:        7,
		TerminalBitrate: 4121,
		Budget:          6.743,
		BudgetMode:      "surplus",
		Score:           0.5,
		Retransmissions: []int{1, 2},
		Evaluated:       12,
	})
	r.DecisionComplete(reporter.DecisionSummary{
		BudgetMode: "segment",
		Budget:     4,
		Infeasible: true,
	})
	r.Error(reporter.ReporterError{Title: "x"})
	r.Warning("ignored")

	body := scrape(t, m)
	for _, want := range []string{
		`dofp_decisions_total{mode="surplus"} 1`,
		`dofp_decisions_total{mode="segment"} 1`,
		"dofp_retransmissions_total 2",
		"dofp_infeasible_total 1",
		"dofp_evaluated_configurations_total 12",
		"dofp_errors_total 1",
		"dofp_budget_seconds_count 2",
		"dofp_terminal_level 0",
	} {
		assert.Contains(t, body, want)
	}
}

func TestObserveBudgetSkipsNonFinite(t *testing.T) {
	m := New()
	m.ObserveBudget(math.Inf(1))
	m.ObserveBudget(math.NaN())
	m.ObserveBudget(4)

	assert.Contains(t, scrape(t, m), "dofp_budget_seconds_count 1")
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.IncDecisions("saving")
	m.SetTerminal(3, 346)

	path := filepath.Join(t.TempDir(), "dofp.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `dofp_decisions_total{mode="saving"} 1`), text)
	assert.Contains(t, text, "dofp_terminal_bitrate 346")
}

func TestWriteTextfileError(t *testing.T) {
	m := New()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "dofp.prom"))
	assert.Error(t, err)
}
