package site

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/session"
)

// ExtractModule navigates to a page and pulls article-style structured
// content out of it: title, headings, paragraphs, and links, with
// boilerplate regions excluded.
type ExtractModule struct {
	logger *zap.Logger
}

func NewExtractModule(logger *zap.Logger) *ExtractModule {
	return &ExtractModule{logger: logger.Named("site.extract")}
}

func (m *ExtractModule) Name() string { return "extract" }

func (m *ExtractModule) ValidateParams(p Params) error {
	if strings.TrimSpace(p["url"]) == "" {
		return schemas.NewError(schemas.ErrCodeConfiguration, "extract: param %q is required", "url")
	}
	switch kind := strings.TrimSpace(p["kind"]); kind {
	case "", string(schemas.ExtractArticle), string(schemas.ExtractText), string(schemas.ExtractList):
	default:
		return schemas.NewError(schemas.ErrCodeConfiguration,
			"extract: unsupported kind %q", kind)
	}
	if raw, ok := p["max_items"]; ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return schemas.NewError(schemas.ErrCodeConfiguration,
				"extract: param max_items must be a positive integer, got %q", raw)
		}
	}
	return nil
}

func (m *ExtractModule) NormalizeParams(p Params) Params {
	out := Params{}
	for k, v := range p {
		out[k] = strings.TrimSpace(v)
	}
	if out["kind"] == "" {
		out["kind"] = string(schemas.ExtractArticle)
	}
	if out["scope"] == "" {
		out["scope"] = "body"
	}
	return out
}

func (m *ExtractModule) Execute(ctx context.Context, s *session.Session, p Params) (*Result, error) {
	if err := s.Navigate(ctx, p["url"]); err != nil {
		return nil, err
	}

	maxItems, _ := strconv.Atoi(p["max_items"])
	spec := schemas.LocatorSpec{Selectors: []string{p["scope"]}}
	extraction, err := s.Extract(ctx, spec, schemas.ExtractionSpec{
		Kind:     schemas.ExtractionKind(p["kind"]),
		MaxItems: maxItems,
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Extraction completed",
		zap.String("url", p["url"]),
		zap.String("kind", p["kind"]),
		zap.Float64("confidence", extraction.Confidence))
	return &Result{
		Module:     m.Name(),
		Extraction: extraction,
		Details:    map[string]string{"url": p["url"], "kind": p["kind"]},
	}, nil
}
