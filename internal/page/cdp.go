package page

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/input"
	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/wayfarer/api/schemas"
)

var fastJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// dispatchTimeout bounds individual CDP input commands so a wedged renderer
// cannot stall an interaction sequence indefinitely.
const dispatchTimeout = 10 * time.Second

// CDPPage adapts one chromedp tab context to the Page interface.
type CDPPage struct {
	ctx    context.Context
	logger *zap.Logger
	epoch  atomic.Uint64
}

// NewCDPPage wraps an existing chromedp tab context. The caller owns the
// context lifecycle; the adapter only listens on it for navigation events.
func NewCDPPage(tabCtx context.Context, logger *zap.Logger) *CDPPage {
	p := &CDPPage{ctx: tabCtx, logger: logger.Named("page")}
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if nav, ok := ev.(*cdppage.EventFrameNavigated); ok {
			if nav.Frame != nil && nav.Frame.ParentID == "" {
				p.epoch.Add(1)
			}
		}
	})
	return p
}

func (p *CDPPage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *CDPPage) NavigationEpoch() uint64 { return p.epoch.Load() }

func (p *CDPPage) Query(ctx context.Context, scope, selector string) ([]ElementInfo, error) {
	return p.harvest(ctx, scope, selector, false)
}

func (p *CDPPage) Snapshot(ctx context.Context, scope string) ([]ElementInfo, error) {
	return p.harvest(ctx, scope, "", true)
}

func (p *CDPPage) harvest(ctx context.Context, scope, selector string, interactableOnly bool) ([]ElementInfo, error) {
	raw, err := p.ExecuteScript(ctx, harvestJS, []interface{}{scope, selector, interactableOnly})
	if err != nil {
		return nil, fmt.Errorf("harvest elements: %w", err)
	}
	var infos []ElementInfo
	if err := fastJSON.Unmarshal(raw, &infos); err != nil {
		return nil, fmt.Errorf("decode harvest result: %w", err)
	}
	return infos, nil
}

func (p *CDPPage) HTML(ctx context.Context, scope string) (string, error) {
	sel := scope
	if sel == "" {
		sel = "html"
	}
	var markup string
	if err := p.run(ctx, chromedp.OuterHTML(sel, &markup, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read markup of %q: %w", sel, err)
	}
	return markup, nil
}

func (p *CDPPage) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := p.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read text of %q: %w", selector, err)
	}
	return text, nil
}

func (p *CDPPage) Attributes(ctx context.Context, selector string) (map[string]string, error) {
	attrs := make(map[string]string)
	if err := p.run(ctx, chromedp.Attributes(selector, &attrs, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("read attributes of %q: %w", selector, err)
	}
	return attrs, nil
}

func (p *CDPPage) Value(ctx context.Context, selector string) (string, error) {
	var value string
	if err := p.run(ctx, chromedp.Value(selector, &value, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read value of %q: %w", selector, err)
	}
	return value, nil
}

func (p *CDPPage) BoundingBox(ctx context.Context, selector string) (*schemas.ElementGeometry, error) {
	infos, err := p.Query(ctx, "", selector)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	info := infos[0]
	geom := &schemas.ElementGeometry{
		Vertices: []float64{
			info.X, info.Y,
			info.X + info.Width, info.Y,
			info.X + info.Width, info.Y + info.Height,
			info.X, info.Y + info.Height,
		},
		Width:   int64(info.Width),
		Height:  int64(info.Height),
		TagName: info.TagName,
		Type:    info.Attr("type"),
	}
	return geom, nil
}

func (p *CDPPage) Detached(ctx context.Context, selector string, fingerprint uint64) (bool, error) {
	infos, err := p.Query(ctx, "", selector)
	if err != nil {
		return true, err
	}
	if len(infos) == 0 {
		return true, nil
	}
	if fingerprint != 0 && Fingerprint(infos[0]) != fingerprint {
		return true, nil
	}
	return false, nil
}

func (p *CDPPage) Focus(ctx context.Context, selector string) error {
	if err := p.run(ctx, chromedp.Focus(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("focus %q: %w", selector, err)
	}
	return nil
}

func (p *CDPPage) Clear(ctx context.Context, selector string) error {
	if err := p.run(ctx, chromedp.SetValue(selector, "", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("clear %q: %w", selector, err)
	}
	return nil
}

// DispatchMouseEvent forwards one synthetic mouse event as a raw CDP input
// command, preserving the caller's coordinates and button state exactly.
func (p *CDPPage) DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	params := input.DispatchMouseEvent(input.MouseType(data.Type), data.X, data.Y).
		WithButton(input.MouseButton(data.Button)).
		WithButtons(data.Buttons).
		WithClickCount(int64(data.ClickCount))
	if data.Type == schemas.MouseWheel {
		params = params.WithDeltaX(data.DeltaX).WithDeltaY(data.DeltaY)
	}

	opCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	err := p.run(opCtx, params)
	if err != nil && opCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("mouse event timed out after %v: %w", dispatchTimeout, opCtx.Err())
	}
	return err
}

func (p *CDPPage) SendKeys(ctx context.Context, keys string) error {
	opCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	return p.run(opCtx, chromedp.KeyEvent(keys))
}

// DispatchKeyEvent presses a key with modifiers as a full down/up sequence.
func (p *CDPPage) DispatchKeyEvent(ctx context.Context, data schemas.KeyEventData) error {
	opCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	mods := input.Modifier(data.Modifiers)
	down := input.DispatchKeyEvent(input.KeyDown).WithKey(data.Key).WithModifiers(mods)
	up := input.DispatchKeyEvent(input.KeyUp).WithKey(data.Key).WithModifiers(mods)
	return p.run(opCtx, down, up)
}

// ExecuteScript evaluates a function-expression script with JSON-encoded
// arguments and returns the raw JSON result.
func (p *CDPPage) ExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error) {
	encoded := make([]string, 0, len(args))
	for _, arg := range args {
		b, err := fastJSON.Marshal(arg)
		if err != nil {
			return nil, fmt.Errorf("encode script argument: %w", err)
		}
		encoded = append(encoded, string(b))
	}
	expr := fmt.Sprintf("JSON.stringify((%s)(%s))", script, joinArgs(encoded))

	var out string
	if err := p.run(ctx, chromedp.Evaluate(expr, &out)); err != nil {
		return nil, fmt.Errorf("evaluate script: %w", err)
	}
	return json.RawMessage(out), nil
}

func joinArgs(args []string) string {
	switch len(args) {
	case 0:
		return ""
	case 1:
		return args[0]
	}
	s := args[0]
	for _, a := range args[1:] {
		s += "," + a
	}
	return s
}

func (p *CDPPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.run(opCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait visible %q: %w", selector, err)
	}
	return nil
}

func (p *CDPPage) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// run executes chromedp actions against the tab context while honoring the
// per-call context for cancellation.
func (p *CDPPage) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(p.ctx, actions...)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Ensure the adapter keeps satisfying the interface.
var _ Page = (*CDPPage)(nil)
