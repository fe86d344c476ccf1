package schemas

import (
	"strings"
	"time"
)

// -- Locator Schemas --

// Role is a semantic tag describing what an element is for, independent of
// its concrete markup. Discovery can fall back to role-based heuristics when
// no selector matches.
type Role string

const (
	RoleUnspecified Role = ""
	RoleButton      Role = "button"
	RoleTextInput   Role = "text-input"
	RoleLink        Role = "link"
	RoleNavigation  Role = "navigation"
	RoleResultItem  Role = "result-item"
	RoleImage       Role = "image"
)

// Strategy identifies which discovery strategy produced a match. It is part
// of every resolution result so callers can always distinguish an exact match
// from a heuristic guess.
type Strategy string

const (
	StrategyDirect         Strategy = "direct"
	StrategySmartAttribute Strategy = "smart-attribute"
	StrategyContentMatch   Strategy = "content-match"
	StrategyHeuristicRole  Strategy = "heuristic-role"
)

// LocatorSpec describes which element the caller wants. Selectors are tried
// in order; Role and TextHint feed the fallback strategies. The spec is
// immutable once handed to the engine.
type LocatorSpec struct {
	// Selectors are candidate CSS selectors, exhausted in the given order.
	Selectors []string `json:"selectors,omitempty" yaml:"selectors,omitempty"`
	// Role is the semantic role used by the smart-attribute and heuristic
	// strategies when no selector matches.
	Role Role `json:"role,omitempty" yaml:"role,omitempty"`
	// TextHint is an optional visible-text or attribute-content hint.
	TextHint string `json:"text_hint,omitempty" yaml:"text_hint,omitempty"`
	// Scope restricts discovery to a sub-tree. Empty means document root.
	Scope string `json:"scope,omitempty" yaml:"scope,omitempty"`
	// Timeout bounds a single resolution attempt. Zero means the engine's
	// configured default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// IsEmpty reports whether the spec carries nothing discovery could act on.
func (s LocatorSpec) IsEmpty() bool {
	return len(s.Selectors) == 0 && s.Role == RoleUnspecified && s.TextHint == ""
}

// CacheKey returns a stable identity for (scope, spec) cache lookups.
func (s LocatorSpec) CacheKey() string {
	var b strings.Builder
	b.WriteString(s.Scope)
	b.WriteString("|")
	b.WriteString(strings.Join(s.Selectors, ","))
	b.WriteString("|")
	b.WriteString(string(s.Role))
	b.WriteString("|")
	b.WriteString(s.TextHint)
	return b.String()
}

// ResolvedElement is the output of a successful resolution. The handle is a
// reconstructed stable selector plus a structural fingerprint; it is valid
// only until the page navigates or mutates underneath it.
type ResolvedElement struct {
	// Selector uniquely addresses the located node at resolution time.
	Selector string `json:"selector"`
	// Fingerprint is a structural hash of the node, used to detect that a
	// re-resolution landed on the same element.
	Fingerprint uint64 `json:"fingerprint"`
	// Scope the element was resolved within, carried for re-resolution.
	Scope string `json:"scope,omitempty"`
	// Strategy that produced the match.
	Strategy Strategy `json:"strategy"`
	// Confidence in [0, 1]. Direct selector matches are always 1.0.
	Confidence float64 `json:"confidence"`
	// Elapsed is the wall time resolution took.
	Elapsed time.Duration `json:"elapsed"`
	// Role requested by the originating spec, if any.
	Role Role `json:"role,omitempty"`
}
