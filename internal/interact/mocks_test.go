package interact

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/page"
)

// fakePage records everything the executor dispatches. Form state is
// simulated: SendKeys appends to the focused field's value, honoring
// backspaces, so verify-after-type exercises the real path.
type fakePage struct {
	mu sync.Mutex

	elements []page.ElementInfo
	epoch    uint64

	events  []schemas.MouseEventData
	keys    []string
	sleeps  []time.Duration
	focused string
	values  map[string]string

	MockValue       func(ctx context.Context, selector string) (string, error)
	MockDetached    func(ctx context.Context, selector string, fingerprint uint64) (bool, error)
	MockSendKeys    func(ctx context.Context, keys string) error
	MockBoundingBox func(ctx context.Context, selector string) (*schemas.ElementGeometry, error)
}

func newFakePage(elements ...page.ElementInfo) *fakePage {
	return &fakePage{elements: elements, values: make(map[string]string)}
}

func (f *fakePage) recordedEvents() []schemas.MouseEventData {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]schemas.MouseEventData, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakePage) recordedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

func (f *fakePage) recordedSleeps() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.sleeps))
	copy(out, f.sleeps)
	return out
}

func (f *fakePage) find(selector string) (page.ElementInfo, bool) {
	for _, el := range f.elements {
		if el.Selector == selector {
			return el, true
		}
	}
	return page.ElementInfo{}, false
}

func (f *fakePage) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.epoch++
	return nil
}

func (f *fakePage) NavigationEpoch() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epoch
}

func (f *fakePage) Query(ctx context.Context, scope, selector string) ([]page.ElementInfo, error) {
	var out []page.ElementInfo
	for _, el := range f.elements {
		if el.Selector == selector ||
			(strings.HasPrefix(selector, "#") && el.Attr("id") == selector[1:]) {
			out = append(out, el)
		}
	}
	return out, nil
}

func (f *fakePage) Snapshot(ctx context.Context, scope string) ([]page.ElementInfo, error) {
	return f.elements, nil
}

func (f *fakePage) HTML(ctx context.Context, scope string) (string, error) { return "", nil }
func (f *fakePage) Text(ctx context.Context, selector string) (string, error) {
	el, ok := f.find(selector)
	if !ok {
		return "", errors.New("no such element")
	}
	return el.Text, nil
}
func (f *fakePage) Attributes(ctx context.Context, selector string) (map[string]string, error) {
	el, ok := f.find(selector)
	if !ok {
		return nil, errors.New("no such element")
	}
	return el.Attributes, nil
}

func (f *fakePage) Value(ctx context.Context, selector string) (string, error) {
	if f.MockValue != nil {
		return f.MockValue(ctx, selector)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[selector], nil
}

func (f *fakePage) BoundingBox(ctx context.Context, selector string) (*schemas.ElementGeometry, error) {
	if f.MockBoundingBox != nil {
		return f.MockBoundingBox(ctx, selector)
	}
	el, ok := f.find(selector)
	if !ok {
		return nil, errors.New("no such element")
	}
	return &schemas.ElementGeometry{
		Vertices: []float64{el.X, el.Y, el.X + el.Width, el.Y, el.X + el.Width, el.Y + el.Height, el.X, el.Y + el.Height},
		Width:    int64(el.Width),
		Height:   int64(el.Height),
		TagName:  el.TagName,
	}, nil
}

func (f *fakePage) Detached(ctx context.Context, selector string, fingerprint uint64) (bool, error) {
	if f.MockDetached != nil {
		return f.MockDetached(ctx, selector, fingerprint)
	}
	_, ok := f.find(selector)
	return !ok, nil
}

func (f *fakePage) Focus(ctx context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = selector
	return nil
}

func (f *fakePage) Clear(ctx context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[selector] = ""
	return nil
}

func (f *fakePage) DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return nil
}

func (f *fakePage) SendKeys(ctx context.Context, keys string) error {
	if f.MockSendKeys != nil {
		return f.MockSendKeys(ctx, keys)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, keys)
	if f.focused != "" {
		cur := []rune(f.values[f.focused])
		if keys == "\b" {
			if len(cur) > 0 {
				cur = cur[:len(cur)-1]
			}
		} else {
			cur = append(cur, []rune(keys)...)
		}
		f.values[f.focused] = string(cur)
	}
	return nil
}

func (f *fakePage) DispatchKeyEvent(ctx context.Context, data schemas.KeyEventData) error {
	return nil
}

func (f *fakePage) ExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error) {
	return nil, nil
}

func (f *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}

// Sleep records the requested pause without really waiting, so tests run at
// full speed while still observing pacing.
func (f *fakePage) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleeps = append(f.sleeps, d)
	return nil
}

var _ page.Page = (*fakePage)(nil)
