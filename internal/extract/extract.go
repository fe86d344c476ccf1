// Package extract pulls structured content out of resolved elements and
// wraps it in extraction results that carry confidence and provenance.
package extract

import (
	"context"
	"strconv"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/page"
)

// Extract performs a read-type interaction against an already resolved
// element. No motion is involved; the result inherits the resolution's
// confidence and strategy so callers can always tell how trustworthy the
// source node was.
func Extract(ctx context.Context, p page.Page, elem *schemas.ResolvedElement, spec schemas.ExtractionSpec) (*schemas.ExtractionResult, error) {
	switch spec.Kind {
	case schemas.ExtractText, "":
		return extractText(ctx, p, elem)
	case schemas.ExtractAttributes:
		return extractAttributes(ctx, p, elem, spec)
	case schemas.ExtractList:
		return extractList(ctx, p, elem, spec)
	case schemas.ExtractArticle:
		return extractArticle(ctx, p, elem)
	default:
		return nil, schemas.NewError(schemas.ErrCodeConfiguration,
			"unknown extraction kind %q", spec.Kind)
	}
}

func baseResult(elem *schemas.ResolvedElement, kind schemas.ExtractionKind) *schemas.ExtractionResult {
	return &schemas.ExtractionResult{
		Confidence: elem.Confidence,
		Strategy:   elem.Strategy,
		Provenance: map[string]string{
			"kind":     string(kind),
			"selector": elem.Selector,
			"strategy": string(elem.Strategy),
		},
	}
}

func extractText(ctx context.Context, p page.Page, elem *schemas.ResolvedElement) (*schemas.ExtractionResult, error) {
	text, err := p.Text(ctx, elem.Selector)
	if err != nil {
		return nil, schemas.WrapError(schemas.ErrCodeActionTimeout, err, "text extraction failed")
	}
	res := baseResult(elem, schemas.ExtractText)
	res.Text = text
	return res, nil
}

func extractAttributes(ctx context.Context, p page.Page, elem *schemas.ResolvedElement, spec schemas.ExtractionSpec) (*schemas.ExtractionResult, error) {
	attrs, err := p.Attributes(ctx, elem.Selector)
	if err != nil {
		return nil, schemas.WrapError(schemas.ErrCodeActionTimeout, err, "attribute extraction failed")
	}
	if len(spec.Attributes) > 0 {
		filtered := make(map[string]string, len(spec.Attributes))
		for _, name := range spec.Attributes {
			if v, ok := attrs[name]; ok {
				filtered[name] = v
			}
		}
		attrs = filtered
	}
	res := baseResult(elem, schemas.ExtractAttributes)
	res.Attributes = attrs
	return res, nil
}

// extractList harvests repeated children of the resolved container as
// nested sub-results, preserving document order.
func extractList(ctx context.Context, p page.Page, elem *schemas.ResolvedElement, spec schemas.ExtractionSpec) (*schemas.ExtractionResult, error) {
	itemSel := spec.ItemSelector
	if itemSel == "" {
		itemSel = "li, article, [role=\"listitem\"], tr"
	}
	items, err := p.Query(ctx, elem.Selector, itemSel)
	if err != nil {
		return nil, schemas.WrapError(schemas.ErrCodeActionTimeout, err, "list extraction failed")
	}

	res := baseResult(elem, schemas.ExtractList)
	res.Provenance["item_selector"] = itemSel
	for i, item := range items {
		if spec.MaxItems > 0 && i >= spec.MaxItems {
			break
		}
		sub := schemas.ExtractionResult{
			Text:       item.Text,
			Confidence: elem.Confidence,
			Strategy:   elem.Strategy,
			Provenance: map[string]string{
				"selector": item.Selector,
				"index":    strconv.Itoa(i),
			},
		}
		if href := item.Attr("href"); href != "" {
			sub.Attributes = map[string]string{"href": href}
		}
		res.Items = append(res.Items, sub)
	}
	res.Provenance["item_count"] = strconv.Itoa(len(res.Items))
	return res, nil
}
