package locate

import (
	"strings"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/page"
)

// attrPattern is one attribute signal the smart-attribute strategy inspects,
// with a specificity weight. Test-id style attributes placed there by the
// site's own developers are the most reliable signal on the page.
type attrPattern struct {
	name   string
	weight float64
}

// smartAttrPatterns are ordered by specificity, highest first.
var smartAttrPatterns = []attrPattern{
	{"data-testid", 0.90},
	{"data-cy", 0.90},
	{"data-qa", 0.90},
	{"aria-label", 0.80},
	{"name", 0.75},
	{"placeholder", 0.75},
	{"id", 0.70},
	{"title", 0.65},
	{"value", 0.65},
	{"role", 0.60},
}

// smartCandidate holds the outcome of scoring one element.
type smartCandidate struct {
	info    page.ElementInfo
	score   float64
	matched []string
}

// scoreSmartAttributes implements the smart-attribute strategy: scan the
// snapshot for attributes correlated with the requested role or hint, and
// score each candidate by the number and specificity of matches.
func scoreSmartAttributes(candidates []page.ElementInfo, role schemas.Role, hint string) []smartCandidate {
	needle := normalizeToken(hint)
	out := make([]smartCandidate, 0, len(candidates))
	for _, el := range candidates {
		if !el.Visible {
			continue
		}
		sc := smartCandidate{info: el}
		best := 0.0
		extra := 0

		for _, p := range smartAttrPatterns {
			val, ok := el.Attributes[p.name]
			if !ok || val == "" {
				continue
			}
			w := 0.0
			switch {
			case needle != "" && tokenContains(val, needle):
				w = p.weight
			case role != schemas.RoleUnspecified && attrImpliesRole(p.name, val, role):
				w = p.weight * 0.85
			}
			if w == 0 {
				continue
			}
			sc.matched = append(sc.matched, p.name)
			if w > best {
				best = w
			} else {
				extra++
			}
		}

		if best == 0 {
			continue
		}
		// Each corroborating attribute beyond the strongest adds a little.
		sc.score = best + 0.05*float64(extra)
		if sc.score > 0.95 {
			sc.score = 0.95
		}
		out = append(out, sc)
	}
	return out
}

// attrImpliesRole reports whether an attribute value marks the element as
// serving the requested role even without a text hint.
func attrImpliesRole(attr, val string, role schemas.Role) bool {
	val = strings.ToLower(val)
	switch attr {
	case "role":
		for _, want := range ariaRoleFor[role] {
			if val == want {
				return true
			}
		}
	case "data-testid", "data-cy", "data-qa", "aria-label", "name", "id", "placeholder", "title":
		for _, kw := range roleKeywords[role] {
			if strings.Contains(val, kw) {
				return true
			}
		}
	}
	return false
}

// contentTier identifies which fallback level of the content strategy
// matched, in decreasing confidence order.
type contentTier int

const (
	tierExact contentTier = iota
	tierCaseInsensitive
	tierFuzzy
	tierNone
)

// contentMatch is the outcome of content matching one element.
type contentMatch struct {
	info    page.ElementInfo
	tier    contentTier
	overlap float64
}

// contentAttrs are the attributes whose values count as matchable content.
var contentAttrs = []string{"value", "placeholder", "aria-label", "title", "alt"}

// matchContent implements the content strategy's fallback ladder: exact
// text, case-insensitive substring, then fuzzy token overlap.
func matchContent(candidates []page.ElementInfo, hint string, minOverlap float64) []contentMatch {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return nil
	}
	hintLower := strings.ToLower(hint)
	hintTokens := tokenize(hintLower)

	out := make([]contentMatch, 0, 4)
	for _, el := range candidates {
		if !el.Visible {
			continue
		}
		contents := make([]string, 0, 1+len(contentAttrs))
		if el.Text != "" {
			contents = append(contents, el.Text)
		}
		for _, a := range contentAttrs {
			if v := el.Attr(a); v != "" {
				contents = append(contents, v)
			}
		}

		tier := tierNone
		overlap := 0.0
		for _, c := range contents {
			c = strings.TrimSpace(c)
			switch {
			case c == hint:
				tier = tierExact
			case tier > tierCaseInsensitive && strings.Contains(strings.ToLower(c), hintLower):
				tier = tierCaseInsensitive
			case tier > tierFuzzy:
				if o := jaccard(tokenize(strings.ToLower(c)), hintTokens); o >= minOverlap && o > overlap {
					tier = tierFuzzy
					overlap = o
				}
			}
			if tier == tierExact {
				break
			}
		}
		if tier != tierNone {
			out = append(out, contentMatch{info: el, tier: tier, overlap: overlap})
		}
	}
	return out
}

// confidence maps a content tier to its score. Each fallback level is less
// trustworthy than the one before it.
func (m contentMatch) confidence() float64 {
	switch m.tier {
	case tierExact:
		return 0.90
	case tierCaseInsensitive:
		return 0.75
	default:
		return 0.45 + 0.25*m.overlap
	}
}

func tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	}) {
		tokens[f] = struct{}{}
	}
	return tokens
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// normalizeToken lowercases and trims a hint for attribute comparisons.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// tokenContains reports whether an attribute value contains the needle,
// ignoring case and common separator characters.
func tokenContains(val, needle string) bool {
	val = strings.ToLower(val)
	if strings.Contains(val, needle) {
		return true
	}
	collapsed := strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(val)
	return strings.Contains(collapsed, strings.NewReplacer("-", " ", "_", " ").Replace(needle))
}
