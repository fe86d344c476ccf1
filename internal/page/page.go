// Package page defines the narrow capability surface the interaction core
// needs from a live browser tab. The core depends only on this interface,
// never on a concrete driver type; production uses the CDP adapter in this
// package, tests substitute in-memory fakes.
package page

import (
	"context"
	"encoding/json"
	"hash"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xkilldash9x/wayfarer/api/schemas"
)

// ElementInfo describes one candidate element harvested from the live page,
// in document order. It is a point-in-time observation; nothing about the
// underlying node is guaranteed to survive a mutation.
type ElementInfo struct {
	// Index is the element's position in document order within its harvest.
	Index int `json:"index"`
	// TagName is the lowercase tag (e.g., "input", "button").
	TagName string `json:"tagName"`
	// Attributes holds every attribute present on the node.
	Attributes map[string]string `json:"attributes"`
	// Text is the trimmed visible text, truncated for large containers.
	Text string `json:"text"`
	// Selector is a reconstructed CSS path uniquely addressing the node at
	// harvest time.
	Selector string `json:"selector"`
	// Layout box in CSS pixels relative to the viewport.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Visible reports whether the node occupies layout space and is not
	// hidden via display/visibility.
	Visible bool `json:"visible"`
}

// Attr returns the named attribute or "".
func (e ElementInfo) Attr(name string) string {
	return e.Attributes[name]
}

// Page is the capability interface handed to the discovery engine and the
// interaction executor. All blocking calls take a context and honor its
// cancellation.
type Page interface {
	// Navigate loads a URL and waits for the load event.
	Navigate(ctx context.Context, url string) error
	// NavigationEpoch increases every time the main frame navigates. Used
	// to invalidate resolution caches.
	NavigationEpoch() uint64

	// Query returns elements matching a raw CSS selector within scope, in
	// document order. An empty scope means the document root.
	Query(ctx context.Context, scope, selector string) ([]ElementInfo, error)
	// Snapshot returns every interaction candidate under scope, in document
	// order, for the fallback discovery strategies.
	Snapshot(ctx context.Context, scope string) ([]ElementInfo, error)
	// HTML returns the serialized markup of scope (or the whole document).
	HTML(ctx context.Context, scope string) (string, error)

	Text(ctx context.Context, selector string) (string, error)
	Attributes(ctx context.Context, selector string) (map[string]string, error)
	// Value reads the current value of a form field.
	Value(ctx context.Context, selector string) (string, error)
	BoundingBox(ctx context.Context, selector string) (*schemas.ElementGeometry, error)
	// Detached reports whether the node a selector+fingerprint pair pointed
	// at no longer exists or was replaced by a structurally different node.
	Detached(ctx context.Context, selector string, fingerprint uint64) (bool, error)

	Focus(ctx context.Context, selector string) error
	// Clear empties a form field's value.
	Clear(ctx context.Context, selector string) error

	DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error
	SendKeys(ctx context.Context, keys string) error
	DispatchKeyEvent(ctx context.Context, data schemas.KeyEventData) error

	ExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error)
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Sleep waits for d or until ctx is done. Routed through the page so
	// tests can observe pacing without real time passing.
	Sleep(ctx context.Context, d time.Duration) error
}

// hasherPool recycles FNV hashers across fingerprint calls.
var hasherPool = sync.Pool{
	New: func() interface{} { return fnv.New64a() },
}

func getHasher() hash.Hash64 { return hasherPool.Get().(hash.Hash64) }

// fingerprintAttrs are the attributes folded into a node fingerprint, chosen
// for stability across re-renders of the same logical element.
var fingerprintAttrs = []string{
	"id", "name", "type", "role", "href",
	"aria-label", "placeholder", "data-testid", "data-cy", "data-qa",
}

// Fingerprint computes a structural hash of an element so a later lookup can
// tell whether a selector still addresses the same logical node.
func Fingerprint(info ElementInfo) uint64 {
	h := getHasher()
	defer func() {
		h.Reset()
		hasherPool.Put(h)
	}()

	h.Write([]byte(info.TagName))
	for _, name := range fingerprintAttrs {
		if v, ok := info.Attributes[name]; ok {
			h.Write([]byte{'|'})
			h.Write([]byte(name))
			h.Write([]byte{'='})
			h.Write([]byte(v))
		}
	}
	if classes := strings.Fields(info.Attr("class")); len(classes) > 0 {
		sort.Strings(classes)
		h.Write([]byte{'|'})
		h.Write([]byte(strings.Join(classes, ".")))
	}
	text := info.Text
	if len(text) > 64 {
		text = text[:64]
	}
	h.Write([]byte{'|'})
	h.Write([]byte(text))
	return h.Sum64()
}
