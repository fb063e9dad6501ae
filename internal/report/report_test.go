package report

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"roomwalk/internal/maze"
	"roomwalk/internal/sim"
	"roomwalk/internal/stats"
)

func resultOf(t *testing.T, outputs sim.Outputs, chunks ...[]int) *sim.Result {
	t.Helper()
	var parts []*stats.Partial
	for _, chunk := range chunks {
		p := stats.NewPartial(outputs.Histogram())
		for _, v := range chunk {
			if err := p.Add(v); err != nil {
				t.Fatalf("Add: %v", err)
			}
		}
		parts = append(parts, p)
	}
	agg, err := stats.Combine(parts)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	return &sim.Result{
		Config:    sim.Config{Trials: int(agg.Trials), Workers: len(chunks), Start: "A", Outputs: outputs},
		Partials:  parts,
		Aggregate: agg,
	}
}

func TestWriteResult_Plain(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Plain)
	outputs := sim.DefaultOutputs.With(sim.OutputCounts)
	if err := w.WriteResult(resultOf(t, outputs, []int{1, 2}, []int{3, 5, 4})); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []string{
		"mean: 3",
		"stdev: " + FormatFloat(math.Sqrt(2.5)),
		"1: 1", "2: 1", "3: 1", "4: 1", "5: 1",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("plain output mismatch:\n%s", diff)
	}
}

func TestWriteResult_CountsWithGaps(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Plain)
	if err := w.WriteResult(resultOf(t, sim.Outputs(sim.OutputCounts), []int{1, 1, 3})); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	_ = w.Flush()
	if diff := cmp.Diff("1: 2\n2: 0\n3: 1\n", buf.String()); diff != "" {
		t.Errorf("counts mismatch:\n%s", diff)
	}
}

func TestWriteResult_InsufficientSamplesPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Plain)
	err := w.WriteResult(resultOf(t, sim.DefaultOutputs, []int{4}))
	if !errors.Is(err, stats.ErrInsufficientSamples) {
		t.Fatalf("expected ErrInsufficientSamples, got %v", err)
	}
	_ = w.Flush()
	if buf.Len() != 0 {
		t.Errorf("nothing should be printed on error, got %q", buf.String())
	}
}

func TestWriteResult_Table(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Table)
	if err := w.WriteResult(resultOf(t, sim.DefaultOutputs.With(sim.OutputCounts), []int{1, 1, 3})); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	_ = w.Flush()
	out := buf.String()
	for _, want := range []string{"Statistic", "mean", "stdev", "Steps", "Count", "0.6667", "TOTAL"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteResult_Markdown(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Markdown)
	if err := w.WriteResult(resultOf(t, sim.Outputs(sim.OutputMean), []int{2, 4})); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	_ = w.Flush()
	out := strings.ToLower(buf.String())
	if !strings.Contains(out, "| statistic |") || !strings.Contains(out, "| mean |") {
		t.Errorf("markdown output unexpected:\n%s", out)
	}
	if strings.Contains(out, "steps") {
		t.Errorf("counts table rendered without counts output:\n%s", out)
	}
}

func TestEmitRaw_ConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Plain)

	const workers, each = 8, 500
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			for j := 0; j < each; j++ {
				if err := w.EmitRaw(v*1000 + j); err != nil {
					t.Errorf("EmitRaw: %v", err)
					return
				}
			}
		}(i + 1)
	}
	wg.Wait()
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != workers*each {
		t.Fatalf("got %d lines, want %d", len(lines), workers*each)
	}
	seen := make(map[int]bool, len(lines))
	for _, l := range lines {
		v, err := strconv.Atoi(l)
		if err != nil {
			t.Fatalf("torn line %q", l)
		}
		seen[v] = true
	}
	if len(seen) != workers*each {
		t.Errorf("expected %d distinct values, got %d", workers*each, len(seen))
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"": Plain, "plain": Plain, "TABLE": Table, "ascii": Table, "md": Markdown, "markdown": Markdown}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("html"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRooms(t *testing.T) {
	g := maze.Default()
	plain := Rooms(g, Plain)
	if !strings.Contains(plain, "D: A B C E\n") || !strings.Contains(plain, "F: EXIT\n") {
		t.Errorf("plain rooms unexpected:\n%s", plain)
	}
	tbl := Rooms(g, Table)
	if !strings.Contains(tbl, "F, D") || !strings.Contains(tbl, "yes") {
		t.Errorf("table rooms unexpected:\n%s", tbl)
	}
}

func TestFormatFloat(t *testing.T) {
	if got := FormatFloat(3.75); got != "3.75" {
		t.Errorf("FormatFloat(3.75) = %q", got)
	}
	if got := FormatFloat(1e21); strings.ContainsAny(got, "eE") {
		t.Errorf("FormatFloat used exponent: %q", got)
	}
}
