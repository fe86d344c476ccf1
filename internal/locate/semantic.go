// Package locate resolves logical element requests into physical elements
// through an ordered cascade of discovery strategies with confidence
// scoring, plus the semantic analyzer backing the heuristic tier.
package locate

import (
	"sort"
	"strings"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/page"
)

// Weights tune the semantic analyzer's signal blend. They are configuration,
// not constants, so cascade behavior can be adjusted without code changes.
type Weights struct {
	TagAffinity      float64 `mapstructure:"tag_affinity" yaml:"tag_affinity"`
	SizePlausibility float64 `mapstructure:"size_plausibility" yaml:"size_plausibility"`
	KeywordAffinity  float64 `mapstructure:"keyword_affinity" yaml:"keyword_affinity"`
	Position         float64 `mapstructure:"position" yaml:"position"`
}

// DefaultWeights favors structural signals over positional guesses.
func DefaultWeights() Weights {
	return Weights{
		TagAffinity:      0.40,
		SizePlausibility: 0.15,
		KeywordAffinity:  0.30,
		Position:         0.15,
	}
}

func (w Weights) total() float64 {
	return w.TagAffinity + w.SizePlausibility + w.KeywordAffinity + w.Position
}

// ScoredCandidate pairs an element with its semantic score and the reasons
// that produced it, for provenance.
type ScoredCandidate struct {
	Element page.ElementInfo
	Score   float64
	Reasons []string
}

// Analyzer scores candidate elements against a requested role. It is a pure,
// read-only scan: identical snapshot and weights always produce identical
// output, with ties broken by document order.
type Analyzer struct {
	weights Weights
}

func NewAnalyzer(weights Weights) *Analyzer {
	if weights.total() <= 0 {
		weights = DefaultWeights()
	}
	return &Analyzer{weights: weights}
}

// Score ranks candidates for the role, highest first. Elements that are not
// visible score zero and sort last.
func (a *Analyzer) Score(candidates []page.ElementInfo, role schemas.Role) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, el := range candidates {
		sc := ScoredCandidate{Element: el}
		if el.Visible {
			sc.Score, sc.Reasons = a.score(el, role)
		}
		scored = append(scored, sc)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Element.Index < scored[j].Element.Index
	})
	return scored
}

func (a *Analyzer) score(el page.ElementInfo, role schemas.Role) (float64, []string) {
	var reasons []string
	total := a.weights.total()

	tag := tagAffinity(el, role)
	if tag > 0 {
		reasons = append(reasons, "tag-affinity")
	}
	size := sizePlausibility(el, role)
	kw := keywordAffinity(el, role)
	if kw > 0 {
		reasons = append(reasons, "keyword-affinity")
	}
	pos := positionScore(el, role)

	score := (tag*a.weights.TagAffinity +
		size*a.weights.SizePlausibility +
		kw*a.weights.KeywordAffinity +
		pos*a.weights.Position) / total
	return score, reasons
}

// roleTagAffinities maps roles to tag scores; ariaRoleFor maps roles to the
// ARIA role attribute values that imply them.
var roleTagAffinities = map[schemas.Role]map[string]float64{
	schemas.RoleButton: {
		"button": 1.0, "input": 0.8, "a": 0.5, "div": 0.25, "span": 0.2,
	},
	schemas.RoleTextInput: {
		"input": 1.0, "textarea": 0.95, "div": 0.2,
	},
	schemas.RoleLink: {
		"a": 1.0, "area": 0.6, "button": 0.3,
	},
	schemas.RoleNavigation: {
		"nav": 1.0, "ul": 0.5, "div": 0.3, "header": 0.5,
	},
	schemas.RoleResultItem: {
		"li": 0.8, "article": 0.9, "div": 0.5, "tr": 0.6, "section": 0.5,
	},
	schemas.RoleImage: {
		"img": 1.0, "picture": 0.9, "svg": 0.6, "figure": 0.7,
	},
}

var ariaRoleFor = map[schemas.Role][]string{
	schemas.RoleButton:     {"button"},
	schemas.RoleTextInput:  {"textbox", "searchbox", "combobox"},
	schemas.RoleLink:       {"link"},
	schemas.RoleNavigation: {"navigation", "menubar"},
	schemas.RoleResultItem: {"listitem", "article", "row", "option"},
	schemas.RoleImage:      {"img"},
}

// roleKeywords is the vocabulary commonly found in names, classes, and
// labels of elements serving each role.
var roleKeywords = map[schemas.Role][]string{
	schemas.RoleButton:     {"submit", "search", "go", "send", "ok", "confirm", "continue", "btn", "button", "apply"},
	schemas.RoleTextInput:  {"search", "query", "q", "input", "field", "keyword", "text", "email", "name"},
	schemas.RoleLink:       {"link", "more", "next", "prev", "detail", "view", "read"},
	schemas.RoleNavigation: {"nav", "menu", "navbar", "topbar", "header", "breadcrumb"},
	schemas.RoleResultItem: {"result", "item", "card", "entry", "row", "product", "listing", "hit"},
	schemas.RoleImage:      {"image", "img", "photo", "picture", "thumbnail", "thumb", "logo"},
}

func tagAffinity(el page.ElementInfo, role schemas.Role) float64 {
	best := 0.0
	if affinities, ok := roleTagAffinities[role]; ok {
		best = affinities[el.TagName]
	}
	// input[type=submit|button] behaves as a button regardless of tag score.
	if role == schemas.RoleButton && el.TagName == "input" {
		switch el.Attr("type") {
		case "submit", "button", "image":
			best = 1.0
		default:
			best = 0.1
		}
	}
	if role == schemas.RoleTextInput && el.TagName == "input" {
		switch el.Attr("type") {
		case "", "text", "search", "email", "url", "tel", "password":
			best = 1.0
		default:
			best = 0.1
		}
	}
	// An explicit ARIA role is as strong a signal as the native tag.
	if aria := el.Attr("role"); aria != "" {
		for _, want := range ariaRoleFor[role] {
			if aria == want {
				if best < 0.9 {
					best = 0.9
				}
				break
			}
		}
	}
	return best
}

// sizePlausibility penalizes elements implausibly small or large for their
// role. Ranges are in CSS pixels.
func sizePlausibility(el page.ElementInfo, role schemas.Role) float64 {
	w, h := el.Width, el.Height
	if w <= 1 || h <= 1 {
		return 0
	}
	type span struct{ lo, hi float64 }
	ranges := map[schemas.Role][2]span{
		schemas.RoleButton:     {{40, 400}, {20, 80}},
		schemas.RoleTextInput:  {{80, 900}, {18, 70}},
		schemas.RoleLink:       {{10, 600}, {10, 60}},
		schemas.RoleNavigation: {{200, 4000}, {24, 300}},
		schemas.RoleResultItem: {{150, 1400}, {40, 800}},
		schemas.RoleImage:      {{16, 2000}, {16, 2000}},
	}
	r, ok := ranges[role]
	if !ok {
		return 0.5
	}
	return (axisScore(w, r[0].lo, r[0].hi) + axisScore(h, r[1].lo, r[1].hi)) / 2
}

// axisScore is 1 inside [lo, hi] and decays linearly to 0 at half lo or
// double hi.
func axisScore(v, lo, hi float64) float64 {
	switch {
	case v >= lo && v <= hi:
		return 1
	case v < lo:
		floor := lo / 2
		if v <= floor {
			return 0
		}
		return (v - floor) / (lo - floor)
	default:
		ceil := hi * 2
		if v >= ceil {
			return 0
		}
		return (ceil - v) / (hi * 1.0)
	}
}

// keywordAffinity checks the role vocabulary against the element's text and
// naming attributes.
func keywordAffinity(el page.ElementInfo, role schemas.Role) float64 {
	keywords, ok := roleKeywords[role]
	if !ok {
		return 0
	}
	haystack := strings.ToLower(strings.Join([]string{
		el.Text,
		el.Attr("id"),
		el.Attr("class"),
		el.Attr("name"),
		el.Attr("aria-label"),
		el.Attr("placeholder"),
		el.Attr("title"),
		el.Attr("alt"),
	}, " "))
	if haystack == "" {
		return 0
	}
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			hits++
		}
	}
	switch {
	case hits == 0:
		return 0
	case hits == 1:
		return 0.6
	case hits == 2:
		return 0.85
	default:
		return 1.0
	}
}

// positionScore applies the structural-position bias: primary navigation and
// search inputs cluster near the top of the page, result items in the main
// body below it.
func positionScore(el page.ElementInfo, role schemas.Role) float64 {
	y := el.Y
	switch role {
	case schemas.RoleNavigation:
		if y < 150 {
			return 1
		}
		if y < 400 {
			return 0.5
		}
		return 0.1
	case schemas.RoleTextInput, schemas.RoleButton:
		if y < 500 {
			return 0.9
		}
		return 0.5
	case schemas.RoleResultItem:
		if y > 100 {
			return 0.9
		}
		return 0.4
	default:
		return 0.5
	}
}
