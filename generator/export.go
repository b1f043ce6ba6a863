package generator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/randalmurphal/contentkit/internal/fileutil"
	"github.com/randalmurphal/contentkit/truncate"
)

// Format is a history export format.
type Format string

// Supported export formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

// Content preview lengths in CSV and text exports.
const (
	csvPreviewLength  = 100
	textPreviewLength = 200
)

// ParseFormat accepts "json", "csv", or "txt" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatText:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (use json, csv, or txt)", ErrUnsupportedFormat, s)
}

// HistoryExport is the JSON export document.
type HistoryExport struct {
	SessionID       string    `json:"session_id"`
	SessionStart    time.Time `json:"session_start"`
	ExportTimestamp time.Time `json:"export_timestamp"`
	TotalEntries    int       `json:"total_entries"`
	History         []*Result `json:"history"`
}

var csvHeader = []string{
	"success", "template_used", "timestamp", "request_id", "model",
	"tokens_prompt", "tokens_completion", "tokens_total", "cost", "cached",
	"generation_time", "content_preview", "error",
}

// ReadHistoryExport decodes a JSON export written by ExportHistory.
func ReadHistoryExport(r io.Reader) (*HistoryExport, error) {
	var doc HistoryExport
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode history export: %w", err)
	}
	return &doc, nil
}

// AutoSavePath is where Close writes the history.
func (g *Generator) AutoSavePath() string {
	return filepath.Join(g.autoSaveDir, fmt.Sprintf("content_history_%s.json", g.sessionID[:8]))
}

// ExportHistory writes the history to path. The file is replaced
// atomically.
func (g *Generator) ExportHistory(path string, format Format) error {
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	err := fileutil.WriteAtomicFunc(path, func(w io.Writer) error {
		return g.WriteHistory(w, format)
	})
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	g.logger.Info("history exported", slog.String("path", path), slog.String("format", string(format)))
	return nil
}

// WriteHistory encodes the history to w.
func (g *Generator) WriteHistory(w io.Writer, format Format) error {
	history := g.snapshot()
	switch format {
	case FormatJSON:
		return g.writeJSON(w, history)
	case FormatCSV:
		return writeCSV(w, history)
	case FormatText:
		return g.writeText(w, history)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func (g *Generator) writeJSON(w io.Writer, history []*Result) error {
	if history == nil {
		history = []*Result{}
	}
	doc := HistoryExport{
		SessionID:       g.sessionID,
		SessionStart:    g.sessionStart,
		ExportTimestamp: g.now(),
		TotalEntries:    len(history),
		History:         history,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// writeCSV writes nothing at all for an empty history.
func writeCSV(w io.Writer, history []*Result) error {
	if len(history) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range history {
		row := []string{
			strconv.FormatBool(r.Success),
			r.TemplateUsed,
			r.Timestamp.Format(time.RFC3339Nano),
			r.RequestID,
			r.Model,
			strconv.Itoa(r.TokensUsed.Prompt),
			strconv.Itoa(r.TokensUsed.Completion),
			strconv.Itoa(r.TokensUsed.Total),
			strconv.FormatFloat(r.Cost, 'f', -1, 64),
			strconv.FormatBool(r.Cached),
			strconv.FormatFloat(r.GenerationTime, 'f', -1, 64),
			truncate.Preview(r.Content, csvPreviewLength),
			r.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (g *Generator) writeText(w io.Writer, history []*Result) error {
	var b strings.Builder
	fmt.Fprintln(&b, "Content Generation History")
	fmt.Fprintf(&b, "Session ID: %s\n", g.sessionID)
	fmt.Fprintf(&b, "Session Start: %s\n", g.sessionStart.Format(time.RFC3339))
	fmt.Fprintf(&b, "Export Time: %s\n", g.now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Total Entries: %d\n", len(history))
	fmt.Fprintln(&b, strings.Repeat("=", 60))
	fmt.Fprintln(&b)

	for i, r := range history {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, r.Timestamp.Format(time.RFC3339))
		fmt.Fprintf(&b, "    Template: %s\n", orNA(r.TemplateUsed))
		fmt.Fprintf(&b, "    Success: %t\n", r.Success)
		fmt.Fprintf(&b, "    Model: %s\n", orNA(r.Model))
		fmt.Fprintf(&b, "    Tokens: %d\n", r.TokensUsed.Total)
		fmt.Fprintf(&b, "    Cost: $%.6f\n", r.Cost)
		fmt.Fprintf(&b, "    Cached: %t\n", r.Cached)
		if r.Success {
			fmt.Fprintf(&b, "    Content: %s\n", truncate.Preview(r.Content, textPreviewLength))
		} else {
			fmt.Fprintf(&b, "    Error: %s\n", r.Error)
		}
		fmt.Fprintln(&b, strings.Repeat("-", 40))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
