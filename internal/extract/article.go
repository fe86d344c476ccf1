package extract

import (
	"context"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/page"
)

// negativeScopeKeywords mark containers that are chrome, not content. Nodes
// living under them are excluded from article extraction.
var negativeScopeKeywords = []string{
	"nav", "footer", "sidebar", "comment", "advert", "promo", "banner", "menu", "cookie",
}

// extractArticle parses the resolved scope's markup and harvests the
// article-shaped content: title, headings, paragraphs, and links, skipping
// navigation and boilerplate containers.
func extractArticle(ctx context.Context, p page.Page, elem *schemas.ResolvedElement) (*schemas.ExtractionResult, error) {
	markup, err := p.HTML(ctx, elem.Selector)
	if err != nil {
		return nil, schemas.WrapError(schemas.ErrCodeActionTimeout, err, "article markup read failed")
	}
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, schemas.WrapError(schemas.ErrCodeActionTimeout, err, "article markup parse failed")
	}

	article := schemas.Article{}
	if title := firstText(doc, "//h1"); title != "" {
		article.Title = title
	}
	for _, n := range queryContent(doc, "//h2 | //h3") {
		if t := nodeText(n); t != "" {
			article.Headings = append(article.Headings, t)
		}
	}
	for _, n := range queryContent(doc, "//p") {
		if t := nodeText(n); len(t) > 0 {
			article.Paragraphs = append(article.Paragraphs, t)
		}
	}
	for _, n := range queryContent(doc, "//a[@href]") {
		text := nodeText(n)
		href := htmlquery.SelectAttr(n, "href")
		if text == "" || href == "" || strings.HasPrefix(href, "#") {
			continue
		}
		article.Links = append(article.Links, schemas.Link{Text: text, Href: href})
	}

	res := baseResult(elem, schemas.ExtractArticle)
	res.Text = strings.Join(article.Paragraphs, "\n\n")
	res.Attributes = map[string]string{"title": article.Title}
	for _, h := range article.Headings {
		res.Items = append(res.Items, schemas.ExtractionResult{
			Text:       h,
			Confidence: elem.Confidence,
			Provenance: map[string]string{"part": "heading"},
		})
	}
	for _, l := range article.Links {
		res.Items = append(res.Items, schemas.ExtractionResult{
			Text:       l.Text,
			Attributes: map[string]string{"href": l.Href},
			Confidence: elem.Confidence,
			Provenance: map[string]string{"part": "link"},
		})
	}
	res.Provenance["paragraph_count"] = strconv.Itoa(len(article.Paragraphs))
	res.Provenance["heading_count"] = strconv.Itoa(len(article.Headings))
	res.Provenance["link_count"] = strconv.Itoa(len(article.Links))
	return res, nil
}

// queryContent runs an XPath query and drops nodes that live inside
// boilerplate containers.
func queryContent(doc *html.Node, expr string) []*html.Node {
	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil
	}
	out := nodes[:0]
	for _, n := range nodes {
		if !insideBoilerplate(n) {
			out = append(out, n)
		}
	}
	return out
}

// insideBoilerplate walks ancestors looking for chrome containers.
func insideBoilerplate(n *html.Node) bool {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		switch cur.Data {
		case "nav", "footer", "aside":
			return true
		}
		marker := strings.ToLower(htmlquery.SelectAttr(cur, "class") + " " + htmlquery.SelectAttr(cur, "id"))
		for _, kw := range negativeScopeKeywords {
			if strings.Contains(marker, kw) {
				return true
			}
		}
	}
	return false
}

func firstText(doc *html.Node, expr string) string {
	n, err := htmlquery.Query(doc, expr)
	if err != nil || n == nil {
		return ""
	}
	return nodeText(n)
}

func nodeText(n *html.Node) string {
	return strings.TrimSpace(strings.Join(strings.Fields(htmlquery.InnerText(n)), " "))
}
