package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Options configures the browser launch.
type Options struct {
	Headless   bool
	Width      int
	Height     int
	Timeout    time.Duration // navigation timeout
	ProfileDir string        // Chrome/Chromium profile directory for authenticated sessions
}

// Browser is a rod-backed Session over one Chromium instance and one page.
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
}

var _ Session = (*Browser)(nil)

// New launches a browser and opens a blank page. A launch or connect
// failure here is the one startup-fatal condition for a run.
func New(opts Options) (*Browser, error) {
	if opts.Width == 0 {
		opts.Width = 1280
	}
	if opts.Height == 0 {
		opts.Height = 720
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		b.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	return &Browser{browser: b, page: page, timeout: opts.Timeout}, nil
}

func (b *Browser) Navigate(url string) error {
	page := b.page.Timeout(b.timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return page.WaitLoad()
}

func (b *Browser) Element(selector string) (Element, error) {
	has, el, err := b.page.Has(selector)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return &element{el: el}, nil
}

func (b *Browser) Elements(selector string) ([]Element, error) {
	els, err := b.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

func (b *Browser) ActiveElement() (Element, error) {
	el, err := b.page.ElementByJS(rod.Eval(`() => document.activeElement || document.body`))
	if err != nil {
		return nil, fmt.Errorf("active element: %w", err)
	}
	return &element{el: el}, nil
}

func (b *Browser) Eval(js string, args ...any) error {
	_, err := b.page.Eval(js, args...)
	return err
}

func (b *Browser) Quit() error {
	if b.page != nil {
		b.page.Close()
	}
	if b.browser != nil {
		return b.browser.Close()
	}
	return nil
}

// element adapts a rod element to the Element interface.
type element struct {
	el *rod.Element
}

var keymap = map[Key]input.Key{
	KeyEnter:     input.Enter,
	KeyTab:       input.Tab,
	KeyEscape:    input.Escape,
	KeyBackspace: input.Backspace,
}

func (e *element) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *element) Clear() error {
	if err := e.el.SelectAllText(); err != nil {
		return err
	}
	return e.el.Type(input.Backspace)
}

func (e *element) Input(text string) error {
	return e.el.Input(text)
}

func (e *element) Press(key Key) error {
	k, ok := keymap[key]
	if !ok {
		return fmt.Errorf("unsupported key %q", key)
	}
	return e.el.Type(k)
}

func (e *element) Text() (string, error) {
	return e.el.Text()
}

func (e *element) Attributes() (map[string]string, error) {
	node, err := e.el.Describe(0, false)
	if err != nil {
		return nil, err
	}
	attrs := make(map[string]string, len(node.Attributes)/2)
	for i := 0; i+1 < len(node.Attributes); i += 2 {
		attrs[node.Attributes[i]] = node.Attributes[i+1]
	}
	return attrs, nil
}
