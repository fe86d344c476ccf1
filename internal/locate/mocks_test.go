package locate

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

// fakePage is an in-memory page.Page. Default behavior serves the elements
// slice; individual methods are overridable per test via the Mock fields.
type fakePage struct {
	mu sync.Mutex

	elements []page.ElementInfo
	epoch    uint64

	queryCalls    int
	snapshotCalls int

	MockQuery    func(ctx context.Context, scope, selector string) ([]page.ElementInfo, error)
	MockSnapshot func(ctx context.Context, scope string) ([]page.ElementInfo, error)
	MockDetached func(ctx context.Context, selector string, fingerprint uint64) (bool, error)
}

func newFakePage(elements ...page.ElementInfo) *fakePage {
	return &fakePage{elements: elements}
}

func (f *fakePage) bumpEpoch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.epoch++
}

func (f *fakePage) counts() (queries, snapshots int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queryCalls, f.snapshotCalls
}

func (f *fakePage) Navigate(ctx context.Context, url string) error {
	f.bumpEpoch()
	return nil
}

func (f *fakePage) NavigationEpoch() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epoch
}

// Query matches by literal selector equality against each element's Selector
// field, or by a "#id" / tag shortcut, which covers what the engine needs.
func (f *fakePage) Query(ctx context.Context, scope, selector string) ([]page.ElementInfo, error) {
	f.mu.Lock()
	f.queryCalls++
	f.mu.Unlock()
	if f.MockQuery != nil {
		return f.MockQuery(ctx, scope, selector)
	}
	var out []page.ElementInfo
	for _, el := range f.elements {
		switch {
		case el.Selector == selector:
			out = append(out, el)
		case strings.HasPrefix(selector, "#") && el.Attr("id") == selector[1:]:
			out = append(out, el)
		case el.TagName == selector:
			out = append(out, el)
		}
	}
	return out, nil
}

func (f *fakePage) Snapshot(ctx context.Context, scope string) ([]page.ElementInfo, error) {
	f.mu.Lock()
	f.snapshotCalls++
	f.mu.Unlock()
	if f.MockSnapshot != nil {
		return f.MockSnapshot(ctx, scope)
	}
	return f.elements, nil
}

func (f *fakePage) HTML(ctx context.Context, scope string) (string, error) { return "", nil }
func (f *fakePage) Text(ctx context.Context, selector string) (string, error) {
	return "", nil
}
func (f *fakePage) Attributes(ctx context.Context, selector string) (map[string]string, error) {
	return nil, nil
}
func (f *fakePage) Value(ctx context.Context, selector string) (string, error) { return "", nil }

func (f *fakePage) BoundingBox(ctx context.Context, selector string) (*schemas.ElementGeometry, error) {
	for _, el := range f.elements {
		if el.Selector == selector {
			return &schemas.ElementGeometry{
				Vertices: []float64{el.X, el.Y, el.X + el.Width, el.Y, el.X + el.Width, el.Y + el.Height, el.X, el.Y + el.Height},
				Width:    int64(el.Width),
				Height:   int64(el.Height),
				TagName:  el.TagName,
			}, nil
		}
	}
	return nil, errors.New("no such element")
}

func (f *fakePage) Detached(ctx context.Context, selector string, fingerprint uint64) (bool, error) {
	if f.MockDetached != nil {
		return f.MockDetached(ctx, selector, fingerprint)
	}
	for _, el := range f.elements {
		if el.Selector == selector && page.Fingerprint(el) == fingerprint {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakePage) Focus(ctx context.Context, selector string) error { return nil }
func (f *fakePage) Clear(ctx context.Context, selector string) error { return nil }
func (f *fakePage) DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	return nil
}
func (f *fakePage) SendKeys(ctx context.Context, keys string) error { return nil }
func (f *fakePage) DispatchKeyEvent(ctx context.Context, data schemas.KeyEventData) error {
	return nil
}
func (f *fakePage) ExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}
func (f *fakePage) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

var _ page.Page = (*fakePage)(nil)
