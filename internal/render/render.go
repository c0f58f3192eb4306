// Package render writes query matches in the output formats the CLI
// offers: YAML streams, JSON lines, bare scalars, or a single result
// envelope describing the whole run.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
)

// Mode selects how matches are written.
type Mode string

const (
	// ModeYAML writes matches as a YAML stream separated by ---.
	ModeYAML Mode = "yaml"
	// ModeJSON writes one compact JSON value per match per line.
	ModeJSON Mode = "json"
	// ModeRaw writes scalars bare and containers as compact JSON.
	ModeRaw Mode = "raw"
	// ModeResult writes a single JSON envelope for the whole run.
	ModeResult Mode = "result"
)

// ParseMode maps a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeYAML, ModeJSON, ModeRaw, ModeResult:
		return m, nil
	default:
		return "", fmt.Errorf("unknown output mode %q", s)
	}
}

// SourceResult holds the matches one source produced.
type SourceResult struct {
	Source     string `json:"source"`
	MatchCount int    `json:"match_count"`
	Matches    []any  `json:"matches"`
}

// Report collects the matches of a run, grouped by source, together with
// a correlation id for the run.
type Report struct {
	RunID      string         `json:"run_id"`
	Path       string         `json:"path"`
	Sources    []SourceResult `json:"sources"`
	DurationMS int64          `json:"duration_ms"`
}

// NewReport starts a report for the given canonical path expression.
func NewReport(path string) *Report {
	return &Report{
		RunID:   uuid.New().String(),
		Path:    path,
		Sources: []SourceResult{},
	}
}

// Add records the matches one source produced, in evaluation order.
func (r *Report) Add(source string, matches []any) {
	if matches == nil {
		matches = []any{}
	}
	r.Sources = append(r.Sources, SourceResult{
		Source:     source,
		MatchCount: len(matches),
		Matches:    matches,
	})
}

// SetDuration records the wall-clock duration of the run.
func (r *Report) SetDuration(duration time.Duration) {
	r.DurationMS = duration.Milliseconds()
}

// MatchCount returns the number of matches across all sources.
func (r *Report) MatchCount() int {
	var count int
	for _, src := range r.Sources {
		count += src.MatchCount
	}
	return count
}

// Renderer writes a report to a single destination.
type Renderer struct {
	writer io.Writer
	mode   Mode
}

// New creates a renderer that writes to stdout.
func New(mode Mode) *Renderer {
	return &Renderer{
		writer: os.Stdout,
		mode:   mode,
	}
}

// NewWithWriter creates a renderer with a custom writer.
// This is useful for testing or redirecting output to files.
func NewWithWriter(writer io.Writer, mode Mode) *Renderer {
	return &Renderer{
		writer: writer,
		mode:   mode,
	}
}

// Render writes the report in the configured mode.
func (r *Renderer) Render(report *Report) error {
	switch r.mode {
	case ModeYAML:
		return r.renderYAML(report)
	case ModeJSON:
		return r.renderJSON(report)
	case ModeRaw:
		return r.renderRaw(report)
	case ModeResult:
		return r.renderResult(report)
	default:
		return fmt.Errorf("unknown output mode %q", r.mode)
	}
}

func (r *Renderer) renderYAML(report *Report) error {
	first := true
	for _, src := range report.Sources {
		for _, match := range src.Matches {
			if !first {
				if _, err := io.WriteString(r.writer, "---\n"); err != nil {
					return err
				}
			}
			first = false

			out, err := yaml.Marshal(match)
			if err != nil {
				return err
			}
			if _, err := r.writer.Write(out); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) renderJSON(report *Report) error {
	enc := json.NewEncoder(r.writer)
	for _, src := range report.Sources {
		for _, match := range src.Matches {
			if err := enc.Encode(match); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) renderRaw(report *Report) error {
	for _, src := range report.Sources {
		for _, match := range src.Matches {
			text, err := rawText(match)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(r.writer, text); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) renderResult(report *Report) error {
	return json.NewEncoder(r.writer).Encode(report)
}

// rawText renders scalars without quoting and containers as compact JSON.
func rawText(match any) (string, error) {
	switch v := match.(type) {
	case nil:
		return "null", nil
	case string:
		return v, nil
	case bool, int, int64, uint64, float64, json.Number:
		return fmt.Sprint(v), nil
	default:
		out, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}
