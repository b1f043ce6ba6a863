package generator

import (
	"log/slog"
	"time"
)

// HistoryFilter selects History entries. Zero fields do not filter.
type HistoryFilter struct {
	// Limit keeps only the most recent Limit matches.
	Limit int

	// Template keeps entries generated from this template.
	Template string

	// Since keeps entries stamped at or after this time.
	Since time.Time

	// SuccessOnly drops failed entries.
	SuccessOnly bool
}

func (f HistoryFilter) match(r *Result) bool {
	if f.Template != "" && r.TemplateUsed != f.Template {
		return false
	}
	if !f.Since.IsZero() && r.Timestamp.Before(f.Since) {
		return false
	}
	if f.SuccessOnly && !r.Success {
		return false
	}
	return true
}

// record appends a copy of res, dropping the oldest entries past the cap.
func (g *Generator) record(res *Result) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.history = append(g.history, res.Clone())
	if over := len(g.history) - g.historyCap; over > 0 {
		clear(g.history[:over])
		g.history = g.history[over:]
	}
}

// snapshot copies the history slice header under the lock. Entries are
// never mutated after record, so sharing them is safe.
func (g *Generator) snapshot() []*Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Result(nil), g.history...)
}

func (g *Generator) historyLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.history)
}

// History returns copies of the entries matching f, oldest first.
func (g *Generator) History(f HistoryFilter) []*Result {
	var out []*Result
	for _, r := range g.snapshot() {
		if f.match(r) {
			out = append(out, r)
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	for i, r := range out {
		out[i] = r.Clone()
	}
	return out
}

// ClearHistory drops every entry and returns how many there were.
func (g *Generator) ClearHistory() int {
	g.mu.Lock()
	n := len(g.history)
	g.history = nil
	g.mu.Unlock()

	g.logger.Info("cleared history", slog.Int("entries", n))
	return n
}

// ImportHistory appends saved entries after the current history, keeping
// their order and the history bound. Nil entries are skipped. It returns
// how many entries were appended before trimming.
func (g *Generator) ImportHistory(entries []*Result) int {
	n := 0
	for _, r := range entries {
		if r == nil {
			continue
		}
		g.record(r)
		n++
	}
	g.logger.Info("imported history", slog.Int("entries", n))
	return n
}
