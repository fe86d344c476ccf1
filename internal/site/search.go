package site

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/session"
)

// SearchModule drives a generic search flow: locate the query input by
// role, type the query with humanized cadence, submit, and collect result
// items. It carries no site-specific selectors; the discovery cascade does
// the locating.
type SearchModule struct {
	logger *zap.Logger
}

func NewSearchModule(logger *zap.Logger) *SearchModule {
	return &SearchModule{logger: logger.Named("site.search")}
}

func (m *SearchModule) Name() string { return "search" }

func (m *SearchModule) ValidateParams(p Params) error {
	if strings.TrimSpace(p["url"]) == "" {
		return schemas.NewError(schemas.ErrCodeConfiguration, "search: param %q is required", "url")
	}
	if strings.TrimSpace(p["query"]) == "" {
		return schemas.NewError(schemas.ErrCodeConfiguration, "search: param %q is required", "query")
	}
	if raw, ok := p["max_results"]; ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return schemas.NewError(schemas.ErrCodeConfiguration,
				"search: param max_results must be a positive integer, got %q", raw)
		}
	}
	return nil
}

func (m *SearchModule) NormalizeParams(p Params) Params {
	out := Params{}
	for k, v := range p {
		out[k] = strings.TrimSpace(v)
	}
	if out["max_results"] == "" {
		out["max_results"] = "10"
	}
	return out
}

func (m *SearchModule) Execute(ctx context.Context, s *session.Session, p Params) (*Result, error) {
	query := p["query"]
	maxResults, _ := strconv.Atoi(p["max_results"])

	if err := s.Navigate(ctx, p["url"]); err != nil {
		return nil, err
	}

	input := schemas.LocatorSpec{
		Role:     schemas.RoleTextInput,
		TextHint: "search",
	}
	if err := s.Type(ctx, input, query); err != nil {
		return nil, err
	}

	submit := schemas.LocatorSpec{
		Role:     schemas.RoleButton,
		TextHint: "search",
	}
	if err := s.Click(ctx, submit); err != nil {
		return nil, err
	}
	// Results render asynchronously on most engines.
	if err := s.Settle(ctx); err != nil {
		return nil, err
	}

	results := schemas.LocatorSpec{
		Role:     schemas.RoleResultItem,
		TextHint: query,
	}
	extraction, err := s.Extract(ctx, results, schemas.ExtractionSpec{
		Kind:     schemas.ExtractList,
		MaxItems: maxResults,
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Search completed",
		zap.String("query", query),
		zap.Int("items", len(extraction.Items)))
	return &Result{
		Module:     m.Name(),
		Extraction: extraction,
		Details:    map[string]string{"query": query},
	}, nil
}
