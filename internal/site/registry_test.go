package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/session"
)

type stubModule struct {
	name string
}

func (m *stubModule) Name() string                  { return m.name }
func (m *stubModule) ValidateParams(p Params) error { return nil }
func (m *stubModule) NormalizeParams(p Params) Params {
	return p
}
func (m *stubModule) Execute(ctx context.Context, s *session.Session, p Params) (*Result, error) {
	return &Result{Module: m.name}, nil
}

func TestRegistry_NamesInRegistrationOrder(t *testing.T) {
	r := NewRegistry(&stubModule{"c"}, &stubModule{"a"}, &stubModule{"b"})
	assert.Equal(t, []string{"c", "a", "b"}, r.Names())
}

func TestRegistry_ReRegisterReplacesWithoutReordering(t *testing.T) {
	r := NewRegistry(&stubModule{"a"}, &stubModule{"b"})
	replacement := &stubModule{"a"}
	r.Register(replacement)

	assert.Equal(t, []string{"a", "b"}, r.Names())
	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Same(t, replacement, got)
}

func TestRegistry_UnknownModule(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nope")
	require.Error(t, err)
	assert.True(t, schemas.IsCode(err, schemas.ErrCodeConfiguration))
}

func TestSearchModule_ParamValidation(t *testing.T) {
	m := NewSearchModule(zaptest.NewLogger(t))

	assert.Error(t, m.ValidateParams(Params{}))
	assert.Error(t, m.ValidateParams(Params{"url": "https://example.com"}))
	assert.Error(t, m.ValidateParams(Params{"url": " ", "query": "x"}))
	assert.Error(t, m.ValidateParams(Params{
		"url": "https://example.com", "query": "x", "max_results": "zero",
	}))
	assert.Error(t, m.ValidateParams(Params{
		"url": "https://example.com", "query": "x", "max_results": "-3",
	}))
	assert.NoError(t, m.ValidateParams(Params{
		"url": "https://example.com", "query": "adaptive systems",
	}))
}

func TestSearchModule_NormalizeFillsDefaults(t *testing.T) {
	m := NewSearchModule(zaptest.NewLogger(t))
	p := m.NormalizeParams(Params{"url": " https://example.com ", "query": " q "})
	assert.Equal(t, "https://example.com", p["url"])
	assert.Equal(t, "q", p["query"])
	assert.Equal(t, "10", p["max_results"])
}

func TestExtractModule_ParamValidation(t *testing.T) {
	m := NewExtractModule(zaptest.NewLogger(t))

	assert.Error(t, m.ValidateParams(Params{}))
	assert.Error(t, m.ValidateParams(Params{"url": "https://example.com", "kind": "screenshot"}))
	assert.NoError(t, m.ValidateParams(Params{"url": "https://example.com"}))
	assert.NoError(t, m.ValidateParams(Params{"url": "https://example.com", "kind": "article"}))
}

func TestExtractModule_NormalizeDefaults(t *testing.T) {
	m := NewExtractModule(zaptest.NewLogger(t))
	p := m.NormalizeParams(Params{"url": "https://example.com"})
	assert.Equal(t, string(schemas.ExtractArticle), p["kind"])
	assert.Equal(t, "body", p["scope"])
}

func TestRegistry_RunValidatesBeforeExecute(t *testing.T) {
	r := NewRegistry(NewSearchModule(zaptest.NewLogger(t)))

	// Invalid params must fail before any session work happens, so a nil
	// session is safe here.
	_, err := r.Run(context.Background(), nil, "search", Params{})
	require.Error(t, err)
	assert.True(t, schemas.IsCode(err, schemas.ErrCodeConfiguration))
}
