package reporter

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/dofp/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu       sync.Mutex
	out      io.Writer
	progress *progressbar.ProgressBar
	verbose  bool
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	magenta  *color.Color
	bold     *color.Color
	faint    *color.Color
}

// NewTerminalReporter creates a new terminal reporter writing to stdout.
// With verbose set, every replay decision and verbose message is printed.
func NewTerminalReporter(verbose bool) *TerminalReporter {
	return NewTerminalReporterWithWriter(os.Stdout, verbose)
}

// NewTerminalReporterWithWriter creates a terminal reporter with a custom writer.
func NewTerminalReporterWithWriter(w io.Writer, verbose bool) *TerminalReporter {
	return &TerminalReporter{
		out:     w,
		verbose: verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
		faint:   color.New(color.Faint),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) heading(title string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, title)
}

func (r *TerminalReporter) ScenarioStarted(info ScenarioInfo) {
	r.heading("SCENARIO")
	const w = 10
	r.printLabel(w, "Name:", info.Name)
	r.printLabel(w, "Steps:", fmt.Sprint(info.Steps))
	r.printLabel(w, "Levels:", fmt.Sprintf("%d (top %s)", len(info.Bitrates), topBitrate(info.Bitrates)))
	r.printLabel(w, "Buffer:", fmt.Sprintf("%s capacity, %s segments",
		util.FormatSeconds(info.BufferCapacity), util.FormatSeconds(info.SegmentDuration)))
	r.printLabel(w, "Policy:", fmt.Sprintf("%s gaps, one gap at a time=%t, maximize when high=%t",
		info.GapStrategy, info.OneGapAtATime, info.MaximizeWhenBufferHigh))
	r.printLabel(w, "History:", info.History)

	r.mu.Lock()
	defer r.mu.Unlock()
	if info.Steps > 0 && !r.verbose {
		r.progress = progressbar.NewOptions64(
			int64(info.Steps),
			progressbar.OptionSetDescription(""),
			progressbar.OptionSetWidth(40),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionShowCount(),
			progressbar.OptionShowDescriptionAtLineEnd(),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "Replaying [",
				BarEnd:        "]",
			}),
		)
	}
}

func topBitrate(bitrates []float64) string {
	if len(bitrates) == 0 {
		return "n/a"
	}
	return util.FormatBitrate(bitrates[len(bitrates)-1])
}

func (r *TerminalReporter) DecisionComplete(summary DecisionSummary) {
	r.mu.Lock()
	replaying := r.progress != nil
	if replaying {
		r.progress.Describe(fmt.Sprintf("terminal %d, score %.4f", summary.Terminal, summary.Score))
	}
	r.mu.Unlock()

	if replaying {
		return
	}

	if summary.Step > 0 {
		r.decisionLine(summary)
		return
	}

	r.heading("DECISION")
	const w = 16
	r.printLabel(w, "Input:", summary.Input)
	r.printLabel(w, "Output:", r.bold.Sprint(summary.Output))
	r.printLabel(w, "Next segment:", fmt.Sprintf("level %d (%s)", summary.Terminal, util.FormatBitrate(summary.TerminalBitrate)))
	r.printLabel(w, "Budget:", fmt.Sprintf("%s (%s)", util.FormatSeconds(summary.Budget), summary.BudgetMode))
	r.printLabel(w, "Score:", fmt.Sprintf("%.5f", summary.Score))
	r.printLabel(w, "Gaps:", fmt.Sprint(summary.Gaps))
	r.printLabel(w, "Retransmit:", util.FormatPositions(summary.Retransmissions))
	r.printLabel(w, "Fetch order:", util.FormatPositions(summary.FetchOrder))
	r.printLabel(w, "Evaluated:", fmt.Sprint(summary.Evaluated))
	if summary.Infeasible {
		_, _ = fmt.Fprintf(r.out, "  %s\n", r.yellow.Sprint("No level fits the budget, fell back to level 0"))
	}
}

func (r *TerminalReporter) decisionLine(summary DecisionSummary) {
	status := r.green.Sprintf("level %d", summary.Terminal)
	if summary.Infeasible {
		status = r.red.Sprint("infeasible")
	}
	retrans := ""
	if len(summary.Retransmissions) > 0 {
		retrans = r.magenta.Sprintf(" retransmit %s", util.FormatPositions(summary.Retransmissions))
	}
	_, _ = fmt.Fprintf(r.out, "  %s %3d  %s  %s  %s%s\n",
		r.magenta.Sprint("›"),
		summary.Step,
		status,
		r.faint.Sprintf("%s %s", util.FormatSeconds(summary.Budget), summary.BudgetMode),
		summary.Output,
		retrans)
}

func (r *TerminalReporter) StepProgress(update StepProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}
	_ = r.progress.Set64(int64(update.Step))
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.yellow.Fprintf(r.out, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.finishProgress()

	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) ScenarioComplete(summary ScenarioSummary) {
	r.finishProgress()

	r.heading("RESULTS")
	const w = 18
	r.printLabel(w, "Steps:", fmt.Sprint(summary.Steps))
	r.printLabel(w, "Mean level:", fmt.Sprintf("%.2f (%s)", summary.MeanTerminalLevel, util.FormatBitrate(summary.MeanTerminalBitrate)))
	r.printLabel(w, "Downward switches:", fmt.Sprint(summary.DownwardSwitches))
	r.printLabel(w, "Retransmissions:", fmt.Sprint(summary.Retransmissions))
	infeasible := fmt.Sprintf("%d (%.1f%%)", summary.InfeasibleSteps, util.Percent(summary.InfeasibleSteps, summary.Steps))
	if summary.InfeasibleSteps > 0 {
		infeasible = r.yellow.Sprint(infeasible)
	}
	r.printLabel(w, "Infeasible steps:", infeasible)
	r.printLabel(w, "Played:", summary.Played)
	r.printLabel(w, "Final window:", summary.FinalSequence)
	r.printLabel(w, "Time:", summary.Duration.String())

	_, _ = fmt.Fprintln(r.out)
	_, _ = fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgGreen, color.Bold).Sprint("✓"), r.bold.Sprintf("Replayed %s", summary.Name))
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.faint.Sprint(message))
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	r.heading("BATCH")
	_, _ = fmt.Fprintf(r.out, "  Replaying %d scenarios with %d workers\n", info.TotalScenarios, info.Workers)
	for i, name := range info.FileList {
		_, _ = fmt.Fprintf(r.out, "  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.heading("BATCH SUMMARY")
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.bold.Sprintf("%d of %d succeeded", summary.SuccessfulCount, summary.TotalScenarios))
	_, _ = fmt.Fprintf(r.out, "  Steps: %d, retransmissions: %d, infeasible: %d\n",
		summary.TotalSteps, summary.Retransmissions, summary.InfeasibleSteps)
	_, _ = fmt.Fprintf(r.out, "  Time: %s\n", summary.TotalDuration.Round(time.Millisecond))

	for _, res := range summary.Results {
		if res.Failed {
			_, _ = fmt.Fprintf(r.out, "  - %s (%s)\n", res.Name, r.red.Sprint("failed"))
			continue
		}
		_, _ = fmt.Fprintf(r.out, "  - %s (mean level %.2f)\n", res.Name, res.MeanTerminalLevel)
	}
}
