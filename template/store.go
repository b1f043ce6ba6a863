package template

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/randalmurphal/contentkit/sanitize"
	"github.com/sahilm/fuzzy"
)

// Store owns a catalog of templates keyed by name.
// It is safe for concurrent use; renders work on a consistent snapshot.
type Store struct {
	mu        sync.RWMutex
	templates map[string]*Template
	active    map[string]struct{}
	usage     map[string]int
	compiled  map[string]*compiled

	deny   sanitize.DenyList
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDenyList replaces DefaultDenyList for renders through this store.
func WithDenyList(d sanitize.DenyList) StoreOption {
	return func(s *Store) { s.deny = d }
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		templates: make(map[string]*Template),
		active:    make(map[string]struct{}),
		usage:     make(map[string]int),
		compiled:  make(map[string]*compiled),
		deny:      DefaultDenyList,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreWithBuiltins creates a store preloaded with Builtins.
func NewStoreWithBuiltins(opts ...StoreOption) *Store {
	s := NewStore(opts...)
	s.LoadBuiltins()
	return s
}

// LoadBuiltins registers the built-in templates, overwriting same-named
// entries, and returns how many were loaded.
func (s *Store) LoadBuiltins() int {
	builtins := Builtins()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range builtins {
		s.put(t)
	}
	s.logger.Info("loaded built-in templates", slog.Int("count", len(builtins)))
	return len(builtins)
}

// Register validates t and inserts or overwrites it by name.
// Lint findings are logged as warnings and do not fail registration.
func (s *Store) Register(t *Template) error {
	if t == nil {
		return fmt.Errorf("%w: template is nil", ErrTemplateValidation)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	for _, w := range t.Lint() {
		s.logger.Warn("template lint", slog.String("template", t.Name), slog.String("warning", w))
	}

	c := t.Clone()

	s.mu.Lock()
	_, exists := s.templates[c.Name]
	s.put(c)
	s.mu.Unlock()

	action := "registered template"
	if exists {
		action = "updated template"
	}
	s.logger.Info(action, slog.String("name", c.Name), slog.String("version", c.Version))
	return nil
}

// put stores t and invalidates its render cache. Caller holds s.mu.
func (s *Store) put(t *Template) {
	s.templates[t.Name] = t
	if t.Enabled {
		s.active[t.Name] = struct{}{}
	} else {
		delete(s.active, t.Name)
	}
	delete(s.compiled, t.Name)
}

// Get returns a copy of the named template and counts the access.
func (s *Store) Get(name string) (*Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.templates[name]
	if !ok {
		return nil, notFound(name)
	}
	s.usage[name]++
	return t.Clone(), nil
}

// Has reports whether name is registered.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.templates[name]
	return ok
}

// Len returns the number of registered templates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}

// ListOptions filter List.
type ListOptions struct {
	// Category keeps only templates in this category.
	Category string

	// Tags keeps only templates carrying every listed tag.
	Tags []string

	// IncludeDisabled also returns disabled templates.
	IncludeDisabled bool
}

// List returns sorted names matching every filter.
func (s *Store) List(opts ListOptions) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for name, t := range s.templates {
		if !opts.IncludeDisabled && !t.Enabled {
			continue
		}
		if opts.Category != "" && t.Category != opts.Category {
			continue
		}
		if len(opts.Tags) > 0 && !t.HasTags(opts.Tags) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Categories returns the sorted set of categories in use.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, t := range s.templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Active returns the sorted names of enabled templates.
func (s *Store) Active() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.active))
	for name := range s.active {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Remove deletes name and reports whether it was present.
func (s *Store) Remove(name string) bool {
	s.mu.Lock()
	_, ok := s.templates[name]
	if ok {
		delete(s.templates, name)
		delete(s.active, name)
		delete(s.compiled, name)
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("attempted to remove unknown template", slog.String("name", name))
		return false
	}
	s.logger.Info("removed template", slog.String("name", name))
	return true
}

// Clone copies name to newName, applies update to the copy, validates it,
// and registers it. newName must not already exist.
func (s *Store) Clone(name, newName string, update func(*Template)) (*Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.templates[name]
	if !ok {
		return nil, notFound(name)
	}
	if _, exists := s.templates[newName]; exists {
		return nil, fmt.Errorf("%w: template '%s' already exists", ErrTemplateValidation, newName)
	}

	c := src.Clone()
	if update != nil {
		update(c)
	}
	c.Name = newName
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s.put(c)
	s.logger.Info("cloned template", slog.String("from", name), slog.String("to", newName))
	return c.Clone(), nil
}

// Enable marks name active. It returns false when name is unknown.
func (s *Store) Enable(name string) bool {
	return s.setEnabled(name, true)
}

// Disable marks name inactive. It returns false when name is unknown.
func (s *Store) Disable(name string) bool {
	return s.setEnabled(name, false)
}

func (s *Store) setEnabled(name string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.templates[name]
	if !ok {
		return false
	}
	c := t.Clone()
	c.Enabled = enabled
	s.templates[name] = c
	if enabled {
		s.active[name] = struct{}{}
	} else {
		delete(s.active, name)
	}
	s.logger.Debug("template enabled state changed", slog.String("name", name), slog.Bool("enabled", enabled))
	return true
}

// Render looks up name, counts the access, and renders it with vars.
// Compiled bodies are cached per name until the template is replaced.
func (s *Store) Render(name string, vars map[string]any, opts RenderOptions) (string, error) {
	t, c, err := s.snapshot(name)
	if err != nil {
		return "", err
	}
	if opts.DenyList == nil {
		opts.DenyList = s.deny
	}
	return t.render(c, vars, opts)
}

// Resolve is Render that also returns a copy of the template it rendered,
// counting one access. On a render error the template is still returned;
// it is nil only when name is not registered.
func (s *Store) Resolve(name string, vars map[string]any, opts RenderOptions) (*Template, string, error) {
	t, c, err := s.snapshot(name)
	if err != nil {
		return nil, "", err
	}
	if opts.DenyList == nil {
		opts.DenyList = s.deny
	}
	out, err := t.render(c, vars, opts)
	return t.Clone(), out, err
}

func (s *Store) snapshot(name string) (*Template, *compiled, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.templates[name]
	if !ok {
		return nil, nil, notFound(name)
	}
	s.usage[name]++

	c, ok := s.compiled[name]
	if !ok {
		var err error
		if c, err = compile(t.Template); err != nil {
			return nil, nil, err
		}
		s.compiled[name] = c
	}
	return t, c, nil
}

// Info is a template with its access statistics.
type Info struct {
	*Template
	UsageCount int  `json:"usage_count"`
	Active     bool `json:"is_active"`
}

// Info returns the named template with usage and active state.
func (s *Store) Info(name string) (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[name]
	if !ok {
		return Info{}, notFound(name)
	}
	_, active := s.active[name]
	return Info{Template: t.Clone(), UsageCount: s.usage[name], Active: active}, nil
}

// UsageCounts returns per-name access counts from Get and Render.
func (s *Store) UsageCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.usage))
	for k, v := range s.usage {
		out[k] = v
	}
	return out
}

// Search fuzzy-matches query against each template's name, description,
// and tags, returning names best match first. An empty query returns every
// name sorted.
func (s *Store) Search(query string) []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	searchStrings := make([]string, len(names))
	for i, name := range names {
		t := s.templates[name]
		searchStrings[i] = fmt.Sprintf("%s %s %s", t.Name, t.Description, strings.Join(t.Tags, " "))
	}
	s.mu.RUnlock()

	if strings.TrimSpace(query) == "" {
		return names
	}

	matches := fuzzy.Find(query, searchStrings)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, names[m.Index])
	}
	return out
}

// Export returns copies of the named templates, or all templates sorted by
// name when names is empty. Unknown names are skipped.
func (s *Store) Export(names ...string) []*Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(names) == 0 {
		for name := range s.templates {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	out := make([]*Template, 0, len(names))
	for _, name := range names {
		if t, ok := s.templates[name]; ok {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Import registers templates. Existing names are skipped unless overwrite
// is set; invalid templates are logged and skipped.
func (s *Store) Import(templates []*Template, overwrite bool) (imported, skipped int) {
	for _, t := range templates {
		if t == nil {
			skipped++
			continue
		}
		if !overwrite && s.Has(t.Name) {
			s.logger.Debug("skipped existing template", slog.String("name", t.Name))
			skipped++
			continue
		}
		if err := s.Register(t); err != nil {
			s.logger.Warn("failed to import template", slog.String("name", t.Name), slog.Any("error", err))
			skipped++
			continue
		}
		imported++
	}
	s.logger.Info("imported templates", slog.Int("imported", imported), slog.Int("skipped", skipped))
	return imported, skipped
}
