// Package report renders run results as stdout lines.
//
// Plain mode writes one value per line and is meant for pipes. Table and
// Markdown modes render the summary and histogram with go-pretty.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"roomwalk/internal/maze"
	"roomwalk/internal/sim"
	"roomwalk/internal/stats"
)

// Mode controls the output format.
type Mode int

const (
	Plain    Mode = iota // one value per line
	Table                // fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return Plain, nil
	case "table", "ascii":
		return Table, nil
	case "markdown", "md":
		return Markdown, nil
	}
	return Plain, fmt.Errorf("unknown format %q (want plain, table or markdown)", s)
}

func (m Mode) String() string {
	switch m {
	case Table:
		return "table"
	case Markdown:
		return "markdown"
	default:
		return "plain"
	}
}

// Writer is the run's stdout. It implements sim.RawSink: every raw value
// is written as a whole line under a lock, so lines from concurrent workers
// interleave but never tear.
type Writer struct {
	mu   sync.Mutex
	out  *bufio.Writer
	mode Mode
}

// NewWriter buffers output to w. Call Flush when the run is over.
func NewWriter(w io.Writer, mode Mode) *Writer {
	return &Writer{out: bufio.NewWriter(w), mode: mode}
}

// EmitRaw writes one raw outcome line.
func (w *Writer) EmitRaw(steps int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var buf [24]byte
	line := strconv.AppendInt(buf[:0], int64(steps), 10)
	line = append(line, '\n')
	_, err := w.out.Write(line)
	return err
}

// Flush writes any buffered output.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Flush()
}

// Summary is the computed, ready-to-print part of a result.
type Summary struct {
	Trials  uint64
	Workers int
	Mean    *float64
	Stdev   *float64
	Counts  []stats.Bucket
	Outputs sim.Outputs
}

// Summarize computes every requested statistic. It fails with
// stats.ErrInsufficientSamples when mean or stdev is requested over too
// few trials, so nothing half-computed is ever printed.
func Summarize(res *sim.Result) (*Summary, error) {
	agg := res.Aggregate
	s := &Summary{
		Trials:  agg.Trials,
		Workers: res.Config.Workers,
		Outputs: res.Config.Outputs,
	}
	if s.Outputs.Has(sim.OutputMean) {
		m, err := agg.Mean()
		if err != nil {
			return nil, err
		}
		s.Mean = &m
	}
	if s.Outputs.Has(sim.OutputStdev) {
		sd, err := agg.Stdev()
		if err != nil {
			return nil, err
		}
		s.Stdev = &sd
	}
	if s.Outputs.Has(sim.OutputCounts) {
		s.Counts = agg.Histogram()
	}
	return s, nil
}

// WriteResult prints the summary lines for res after any raw lines.
func (w *Writer) WriteResult(res *sim.Result) error {
	s, err := Summarize(res)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.mode {
	case Plain:
		_, err = io.WriteString(w.out, plainSummary(s))
	default:
		_, err = io.WriteString(w.out, tableSummary(s, w.mode))
	}
	return err
}

// FormatFloat renders a statistic without exponent notation.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func plainSummary(s *Summary) string {
	var b strings.Builder
	if s.Mean != nil {
		fmt.Fprintf(&b, "mean: %s\n", FormatFloat(*s.Mean))
	}
	if s.Stdev != nil {
		fmt.Fprintf(&b, "stdev: %s\n", FormatFloat(*s.Stdev))
	}
	for _, bucket := range s.Counts {
		fmt.Fprintf(&b, "%d: %d\n", bucket.Steps, bucket.Count)
	}
	return b.String()
}

func tableSummary(s *Summary, mode Mode) string {
	var parts []string

	summary := newTable()
	summary.AppendHeader(table.Row{"Statistic", "Value"})
	summary.AppendRow(table.Row{"trials", s.Trials})
	summary.AppendRow(table.Row{"workers", s.Workers})
	if s.Mean != nil {
		summary.AppendRow(table.Row{"mean", FormatFloat(*s.Mean)})
	}
	if s.Stdev != nil {
		summary.AppendRow(table.Row{"stdev", FormatFloat(*s.Stdev)})
	}
	summary.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	parts = append(parts, render(summary, mode))

	if s.Outputs.Has(sim.OutputCounts) {
		counts := newTable()
		counts.AppendHeader(table.Row{"Steps", "Count", "Share"})
		for _, bucket := range s.Counts {
			share := 0.0
			if s.Trials > 0 {
				share = float64(bucket.Count) / float64(s.Trials)
			}
			counts.AppendRow(table.Row{bucket.Steps, bucket.Count, fmt.Sprintf("%.4f", share)})
		}
		counts.AppendFooter(table.Row{"total", s.Trials, ""})
		counts.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight},
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
		})
		parts = append(parts, render(counts, mode))
	}

	return strings.Join(parts, "\n\n") + "\n"
}

// Rooms renders the graph as a table of rooms and their doors.
func Rooms(g *maze.Graph, mode Mode) string {
	if mode == Plain {
		var b strings.Builder
		for _, r := range g.Rooms() {
			fmt.Fprintf(&b, "%s: %s\n", r.Name, strings.Join(r.Doors, " "))
		}
		return b.String()
	}

	t := newTable()
	t.AppendHeader(table.Row{"Room", "Doors", "Exit door"})
	for _, r := range g.Rooms() {
		exit := ""
		for _, d := range r.Doors {
			if g.IsExit(d) {
				exit = "yes"
				break
			}
		}
		t.AppendRow(table.Row{r.Name, strings.Join(r.Doors, ", "), exit})
	}
	t.AppendFooter(table.Row{"exit", g.Exit(), ""})
	return render(t, mode) + "\n"
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

func render(t table.Writer, mode Mode) string {
	if mode == Markdown {
		return t.RenderMarkdown()
	}
	return t.Render()
}
