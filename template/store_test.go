package template

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietStore(opts ...StoreOption) *Store {
	return NewStore(append([]StoreOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)...)
}

func TestStore_RegisterAndGet(t *testing.T) {
	var buf bytes.Buffer
	s := NewStore(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	greet, err := New("greet", "Hello {name}!", WithRequired("name"))
	require.NoError(t, err)
	require.NoError(t, s.Register(greet))
	assert.Contains(t, buf.String(), "registered template")

	require.NoError(t, s.Register(greet))
	assert.Contains(t, buf.String(), "updated template")

	got, err := s.Get("greet")
	require.NoError(t, err)
	assert.Equal(t, "Hello {name}!", got.Template)

	got.Template = "mutated"
	again, err := s.Get("greet")
	require.NoError(t, err)
	assert.Equal(t, "Hello {name}!", again.Template, "Get must return a copy")

	assert.Equal(t, 2, s.UsageCounts()["greet"])
}

func TestStore_RegisterRejectsInvalid(t *testing.T) {
	s := quietStore()

	err := s.Register(&Template{Name: "bad name", Template: "x", MaxTokens: 1})
	assert.ErrorIs(t, err, ErrTemplateValidation)
	assert.Equal(t, 0, s.Len())

	assert.ErrorIs(t, s.Register(nil), ErrTemplateValidation)
}

func TestStore_RegisterLogsLintWarnings(t *testing.T) {
	var buf bytes.Buffer
	s := NewStore(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	tmpl, err := New("lint", "{a} {b}", WithRequired("a"))
	require.NoError(t, err)
	require.NoError(t, s.Register(tmpl))

	assert.Contains(t, buf.String(), "template lint")
	assert.True(t, s.Has("lint"))
}

func TestStore_GetNotFound(t *testing.T) {
	s := quietStore()
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Contains(t, err.Error(), "'nope'")
}

func TestStore_List(t *testing.T) {
	s := NewStoreWithBuiltins(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	assert.Len(t, s.List(ListOptions{}), 10)
	assert.Equal(t,
		[]string{"competitor_analysis", "press_release", "product_description"},
		s.List(ListOptions{Category: CategoryMarketing}))
	assert.Equal(t,
		[]string{"email_newsletter", "email_subject_line"},
		s.List(ListOptions{Tags: []string{"email", "marketing"}}))
	assert.Equal(t,
		[]string{"email_newsletter", "social_media_post"},
		s.List(ListOptions{Tags: []string{"engagement"}}))
	assert.Empty(t, s.List(ListOptions{Tags: []string{"email", "nonexistent"}}))

	require.True(t, s.Disable("press_release"))
	assert.Equal(t,
		[]string{"competitor_analysis", "product_description"},
		s.List(ListOptions{Category: CategoryMarketing}))
	assert.Contains(t, s.List(ListOptions{Category: CategoryMarketing, IncludeDisabled: true}), "press_release")
	assert.NotContains(t, s.Active(), "press_release")

	require.True(t, s.Enable("press_release"))
	assert.Contains(t, s.Active(), "press_release")
	assert.False(t, s.Enable("missing"))
}

func TestStore_Remove(t *testing.T) {
	s := quietStore()
	s.LoadBuiltins()

	assert.True(t, s.Remove("meta_description"))
	assert.False(t, s.Remove("meta_description"))
	assert.False(t, s.Has("meta_description"))
	assert.NotContains(t, s.Active(), "meta_description")

	_, err := s.Render("meta_description", map[string]any{"topic": "x", "keyword": "y"}, RenderOptions{})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestStore_Clone(t *testing.T) {
	s := quietStore()
	s.LoadBuiltins()

	c, err := s.Clone("product_description", "my_product_desc", func(t *Template) {
		t.DefaultTone = ToneCasual
		t.Temperature = 1.1
	})
	require.NoError(t, err)
	assert.Equal(t, "my_product_desc", c.Name)
	assert.Equal(t, ToneCasual, c.DefaultTone)
	assert.Equal(t, 1.1, c.Temperature)

	src, err := s.Get("product_description")
	require.NoError(t, err)
	assert.Equal(t, TonePersuasive, src.DefaultTone, "source must be untouched")

	_, err = s.Clone("product_description", "my_product_desc", nil)
	assert.ErrorIs(t, err, ErrTemplateValidation)

	_, err = s.Clone("missing", "other", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = s.Clone("product_description", "bad_temp", func(t *Template) { t.Temperature = 5 })
	assert.ErrorIs(t, err, ErrTemplateValidation)
	assert.False(t, s.Has("bad_temp"))
}

func TestStore_Render(t *testing.T) {
	s := quietStore()
	s.LoadBuiltins()

	got, err := s.Render("product_description", map[string]any{
		"product_name": "Super Widget",
		"features":     "fast, reliable",
		"audience":     "small businesses",
	}, RenderOptions{IncludeSystem: true})
	require.NoError(t, err)

	want := "[System: You are an expert e-commerce copywriter]\n\n" +
		"Write a persuasive product description for Super Widget. " +
		"Key features: fast, reliable. Target audience: small businesses. " +
		"Length: 100 words. Include a compelling call-to-action."
	assert.Equal(t, want, got)
	assert.Equal(t, 1, s.UsageCounts()["product_description"])
}

func TestStore_Resolve(t *testing.T) {
	s := quietStore()
	s.LoadBuiltins()

	tmpl, out, err := s.Resolve("meta_description", map[string]any{
		"topic":   "coffee",
		"keyword": "fresh beans",
	}, RenderOptions{})
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	assert.Equal(t, "meta_description", tmpl.Name)
	assert.Contains(t, out, "coffee")
	assert.Equal(t, 1, s.UsageCounts()["meta_description"])

	tmpl, _, err = s.Resolve("meta_description", map[string]any{}, RenderOptions{})
	var varErr *VariableError
	require.ErrorAs(t, err, &varErr)
	require.NotNil(t, tmpl, "template is returned alongside render errors")

	tmpl, _, err = s.Resolve("nope", nil, RenderOptions{})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Nil(t, tmpl)
}

func TestStore_RenderSeesReregisteredBody(t *testing.T) {
	s := quietStore()
	v1, err := New("t", "v1 {x}", WithRequired("x"))
	require.NoError(t, err)
	require.NoError(t, s.Register(v1))

	out, err := s.Render("t", map[string]any{"x": "a"}, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "v1 a", out)

	v2, err := New("t", "v2 {x}", WithRequired("x"))
	require.NoError(t, err)
	require.NoError(t, s.Register(v2))

	out, err = s.Render("t", map[string]any{"x": "a"}, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "v2 a", out)
}

func TestStore_RenderUsesStoreDenyList(t *testing.T) {
	s := quietStore(WithDenyList(nil))
	tmpl, err := New("t", "{x}", WithRequired("x"))
	require.NoError(t, err)
	require.NoError(t, s.Register(tmpl))

	// A nil store list falls back to DefaultDenyList.
	_, err = s.Render("t", map[string]any{"x": "javascript:alert(1)"}, RenderOptions{})
	assert.ErrorIs(t, err, ErrSanitization)
}

func TestStore_InfoAndCategories(t *testing.T) {
	s := quietStore()
	s.LoadBuiltins()
	_, _ = s.Get("faq_generator")

	info, err := s.Info("faq_generator")
	require.NoError(t, err)
	assert.Equal(t, 1, info.UsageCount)
	assert.True(t, info.Active)
	assert.Equal(t, CategorySupport, info.Category)

	_, err = s.Info("missing")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	assert.Equal(t,
		[]string{"branding", "content", "email", "marketing", "seo", "social_media", "support"},
		s.Categories())
}

func TestStore_Search(t *testing.T) {
	s := quietStore()
	s.LoadBuiltins()

	results := s.Search("newsletter")
	require.NotEmpty(t, results)
	assert.Equal(t, "email_newsletter", results[0])

	assert.Contains(t, s.Search("seo"), "meta_description")
	assert.Empty(t, s.Search("zzzzqqqq"))
	assert.Len(t, s.Search(""), 10)
}

func TestStore_ExportImport(t *testing.T) {
	src := quietStore()
	src.LoadBuiltins()

	exported := src.Export("tagline_slogan", "missing", "meta_description")
	require.Len(t, exported, 2)
	assert.Equal(t, "tagline_slogan", exported[0].Name)
	assert.Len(t, src.Export(), 10)

	dst := quietStore()
	imported, skipped := dst.Import(exported, false)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 0, skipped)

	imported, skipped = dst.Import(exported, false)
	assert.Equal(t, 0, imported)
	assert.Equal(t, 2, skipped)

	bad := &Template{Name: "bad", Template: "", MaxTokens: 1}
	imported, skipped = dst.Import([]*Template{exported[0], bad, nil}, true)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 2, skipped)
}

func TestStore_ConcurrentRenderAndMutate(t *testing.T) {
	s := quietStore()
	s.LoadBuiltins()

	vars := map[string]any{"topic": "go", "keyword": "concurrency"}
	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := s.Render("meta_description", vars, RenderOptions{}); err != nil {
				errs <- err
			}
		}()
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("clone_%d", i)
			if _, err := s.Clone("meta_description", name, nil); err != nil {
				errs <- err
				return
			}
			s.Remove(name)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	assert.Equal(t, 10, s.Len())
}

func TestVariableError(t *testing.T) {
	err := error(&VariableError{Template: "t", Missing: []string{"a", "b"}})
	assert.True(t, errors.Is(err, ErrVariableValidation))
	assert.Equal(t, `missing required variables for template 't': ["a", "b"]`, err.Error())

	unresolved := &VariableError{Template: "t", Missing: []string{"x"}, Unresolved: true}
	assert.True(t, strings.Contains(unresolved.Error(), `["x"] not provided`))
}
