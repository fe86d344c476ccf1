package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/page"
)

func visibleElement(tag, selector string, attrs map[string]string, text string) page.ElementInfo {
	return page.ElementInfo{
		TagName: tag, Selector: selector, Attributes: attrs, Text: text,
		Width: 100, Height: 30, Visible: true,
	}
}

func TestScoreSmartAttributes_TestIDOutranksWeakerSignals(t *testing.T) {
	elements := []page.ElementInfo{
		visibleElement("button", "#a", map[string]string{"title": "login"}, ""),
		visibleElement("div", "#b", map[string]string{"data-testid": "login"}, ""),
	}
	candidates := scoreSmartAttributes(elements, schemas.RoleUnspecified, "login")
	require.Len(t, candidates, 2)
	best := bestSmart(candidates)
	assert.Equal(t, "#b", best.info.Selector)
	assert.InDelta(t, 0.90, best.score, 1e-9)
}

func TestScoreSmartAttributes_CorroboratingAttributesAdd(t *testing.T) {
	single := visibleElement("input", "#s", map[string]string{"name": "email"}, "")
	multi := visibleElement("input", "#m", map[string]string{
		"name": "email", "placeholder": "email", "id": "email",
	}, "")

	candidates := scoreSmartAttributes([]page.ElementInfo{single, multi}, schemas.RoleUnspecified, "email")
	require.Len(t, candidates, 2)
	best := bestSmart(candidates)
	assert.Equal(t, "#m", best.info.Selector)
	assert.Greater(t, best.score, 0.75)
	assert.LessOrEqual(t, best.score, 0.95, "smart-attribute confidence is capped below direct")
}

func TestScoreSmartAttributes_SkipsInvisible(t *testing.T) {
	hidden := visibleElement("div", "#h", map[string]string{"data-testid": "target"}, "")
	hidden.Visible = false
	candidates := scoreSmartAttributes([]page.ElementInfo{hidden}, schemas.RoleUnspecified, "target")
	assert.Empty(t, candidates)
}

func TestScoreSmartAttributes_RoleImpliedDiscounted(t *testing.T) {
	// Same attribute value; one matched via the hint, one only via the role
	// vocabulary. The role-implied match scores lower.
	byHint := scoreSmartAttributes(
		[]page.ElementInfo{visibleElement("div", "#x", map[string]string{"aria-label": "search"}, "")},
		schemas.RoleUnspecified, "search")
	byRole := scoreSmartAttributes(
		[]page.ElementInfo{visibleElement("div", "#x", map[string]string{"aria-label": "search"}, "")},
		schemas.RoleButton, "")

	require.Len(t, byHint, 1)
	require.Len(t, byRole, 1)
	assert.Greater(t, byHint[0].score, byRole[0].score)
}

func TestTokenContains_CollapsesSeparators(t *testing.T) {
	assert.True(t, tokenContains("submit-btn", "submit"))
	assert.True(t, tokenContains("search_input_field", "search input"))
	assert.True(t, tokenContains("Login.Form", "login form"))
	assert.False(t, tokenContains("logout", "login"))
}

func TestMatchContent_TierLadder(t *testing.T) {
	elements := []page.ElementInfo{
		visibleElement("button", "#exact", nil, "Add to cart"),
		visibleElement("button", "#ci", nil, "ADD TO CART today"),
		visibleElement("button", "#fuzzy", nil, "to cart add extras"),
	}

	matches := matchContent(elements, "Add to cart", 0.3)
	require.Len(t, matches, 3)

	byTier := map[string]contentTier{}
	for _, m := range matches {
		byTier[m.info.Selector] = m.tier
	}
	assert.Equal(t, tierExact, byTier["#exact"])
	assert.Equal(t, tierCaseInsensitive, byTier["#ci"])
	assert.Equal(t, tierFuzzy, byTier["#fuzzy"])

	best := bestContent(matches)
	assert.Equal(t, "#exact", best.info.Selector)
	assert.InDelta(t, 0.90, best.confidence(), 1e-9)
}

func TestMatchContent_AttributeValuesCount(t *testing.T) {
	el := visibleElement("input", "#p", map[string]string{"placeholder": "Search products"}, "")
	matches := matchContent([]page.ElementInfo{el}, "search products", 0.5)
	require.Len(t, matches, 1)
	assert.Equal(t, tierCaseInsensitive, matches[0].tier)
}

func TestMatchContent_FuzzyRespectsMinOverlap(t *testing.T) {
	el := visibleElement("div", "#d", nil, "completely unrelated words here")
	matches := matchContent([]page.ElementInfo{el}, "add to cart", 0.5)
	assert.Empty(t, matches)
}

func TestMatchContent_FuzzyConfidenceScalesWithOverlap(t *testing.T) {
	high := contentMatch{tier: tierFuzzy, overlap: 0.8}
	low := contentMatch{tier: tierFuzzy, overlap: 0.4}
	assert.Greater(t, high.confidence(), low.confidence())
	assert.InDelta(t, 0.45+0.25*0.8, high.confidence(), 1e-9)
}

func TestJaccard(t *testing.T) {
	a := tokenize("add to cart")
	b := tokenize("cart to add")
	assert.InDelta(t, 1.0, jaccard(a, b), 1e-9)

	c := tokenize("add items")
	// {add,to,cart} vs {add,items}: intersection 1, union 4.
	assert.InDelta(t, 0.25, jaccard(a, c), 1e-9)

	assert.Zero(t, jaccard(a, tokenize("")))
}
