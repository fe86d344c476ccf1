package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/config"
	"github.com/xkilldash9x/wayfarer/internal/interact"
	"github.com/xkilldash9x/wayfarer/internal/page"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakePage is the minimal in-memory page the orchestrator tests need.
type fakePage struct {
	mu       sync.Mutex
	elements []page.ElementInfo
	epoch    uint64
	navs     []string
	keys     []string
	events   int
	focused  string
	values   map[string]string
}

func newFakePage(elements ...page.ElementInfo) *fakePage {
	return &fakePage{elements: elements, values: make(map[string]string)}
}

func (f *fakePage) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.epoch++
	f.navs = append(f.navs, url)
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
	for _, el := range f.elements {
		if el.Selector == selector {
			return el.Text, nil
		}
	}
	return "", errors.New("no such element")
}
func (f *fakePage) Attributes(ctx context.Context, selector string) (map[string]string, error) {
	return nil, nil
}
func (f *fakePage) Value(ctx context.Context, selector string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[selector], nil
}
func (f *fakePage) BoundingBox(ctx context.Context, selector string) (*schemas.ElementGeometry, error) {
	for _, el := range f.elements {
		if el.Selector == selector {
			return &schemas.ElementGeometry{
				Vertices: []float64{el.X, el.Y, el.X + el.Width, el.Y, el.X + el.Width, el.Y + el.Height, el.X, el.Y + el.Height},
				Width:    int64(el.Width), Height: int64(el.Height), TagName: el.TagName,
			}, nil
		}
	}
	return nil, errors.New("no such element")
}
func (f *fakePage) Detached(ctx context.Context, selector string, fingerprint uint64) (bool, error) {
	for _, el := range f.elements {
		if el.Selector == selector {
			return false, nil
		}
	}
	return true, nil
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
	f.events++
	return nil
}
func (f *fakePage) SendKeys(ctx context.Context, keys string) error {
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
func (f *fakePage) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

var _ page.Page = (*fakePage)(nil)

func fastConfig() *config.Config {
	cfg := config.Default()
	// Keep the limiter from slowing the test down.
	cfg.SessionCfg.ActionsPerSecond = 10000
	cfg.SessionCfg.ActionBurst = 10000
	cfg.InteractCfg.SimulateTypos = false
	return &cfg
}

func searchBox() page.ElementInfo {
	return page.ElementInfo{
		Index: 0, TagName: "input", Selector: "#q",
		Attributes: map[string]string{"id": "q", "type": "text"},
		X:          300, Y: 200, Width: 400, Height: 36, Visible: true,
	}
}

func TestNew_DistinctIdentityAndPersona(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cfg := fastConfig()

	a := New(newFakePage(), cfg, logger)
	b := New(newFakePage(), cfg, logger)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "every session gets its own identity")
}

func TestSession_TypeEndToEnd(t *testing.T) {
	fp := newFakePage(searchBox())
	s := New(fp, fastConfig(), zaptest.NewLogger(t))

	err := s.Type(context.Background(), schemas.LocatorSpec{Selectors: []string{"#q"}}, "hello")
	require.NoError(t, err)

	value, err := fp.Value(context.Background(), "#q")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
	assert.Positive(t, fp.events, "typing is preceded by pointer motion and a click")
}

func TestSession_NavigateRecordsURL(t *testing.T) {
	fp := newFakePage()
	s := New(fp, fastConfig(), zaptest.NewLogger(t))

	err := s.Navigate(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com"}, fp.navs)
	assert.Equal(t, uint64(1), fp.NavigationEpoch())
}

func TestSession_ExtractWithoutMotion(t *testing.T) {
	el := searchBox()
	el.Text = "visible text"
	fp := newFakePage(el)
	s := New(fp, fastConfig(), zaptest.NewLogger(t))

	res, err := s.Extract(context.Background(),
		schemas.LocatorSpec{Selectors: []string{"#q"}},
		schemas.ExtractionSpec{Kind: schemas.ExtractText})
	require.NoError(t, err)
	assert.Equal(t, "visible text", res.Text)
	assert.Zero(t, fp.events, "extraction must not dispatch any input events")
}

func TestSession_PerformRejectsUnresolvable(t *testing.T) {
	fp := newFakePage()
	s := New(fp, fastConfig(), zaptest.NewLogger(t))

	_, err := s.Perform(context.Background(),
		schemas.LocatorSpec{Selectors: []string{"#missing"}},
		interact.ActionClick, interact.Params{})
	require.Error(t, err)
	assert.True(t, schemas.IsCode(err, schemas.ErrCodeElementNotFound))
}

func TestSession_CancelledContext(t *testing.T) {
	fp := newFakePage(searchBox())
	s := New(fp, fastConfig(), zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Click(ctx, schemas.LocatorSpec{Selectors: []string{"#q"}})
	require.Error(t, err)
}
