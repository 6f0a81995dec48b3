package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config controls how the browser is launched.
type Config struct {
	ProxyURL  string
	Headless  bool
	UserAgent string
	Width     int
	Height    int
	// BlockResources aborts image and font requests on every page.
	BlockResources bool
}

// Browser wraps a rod.Browser together with the launcher that started it.
type Browser struct {
	browser *rod.Browser
	kill    func() // stops the launched process
	cfg     Config
	routers []*rod.HijackRouter
}

// New launches a browser according to cfg.
func New(cfg Config) (*Browser, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = 1280, 800
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("window-size", fmt.Sprintf("%d,%d", cfg.Width, cfg.Height))
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{browser: b, kill: l.Kill, cfg: cfg}, nil
}

// NewPage opens a page with the configured user agent, viewport and
// resource blocking applied.
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.cfg.UserAgent})
	_ = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  b.cfg.Width,
		Height: b.cfg.Height,
	})
	_, _ = page.EvalOnNewDocument(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`)

	if b.cfg.BlockResources {
		router := page.HijackRequests()
		err := router.Add("*", "", func(h *rod.Hijack) {
			switch h.Request.Type() {
			case proto.NetworkResourceTypeImage, proto.NetworkResourceTypeFont:
				h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			default:
				h.ContinueRequest(&proto.FetchContinueRequest{})
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to block resources: %w", err)
		}
		go router.Run()
		b.routers = append(b.routers, router)
	}

	return page, nil
}

// Close stops request routers, closes the browser and kills the process.
// The process is killed even when closing the browser fails.
func (b *Browser) Close() error {
	for _, r := range b.routers {
		_ = r.Stop()
	}
	var closeBrowser func() error
	if b.browser != nil {
		closeBrowser = b.browser.Close
	}
	return shutdown(closeBrowser, b.kill)
}

func shutdown(closeBrowser func() error, kill func()) error {
	var err error
	if closeBrowser != nil {
		err = closeBrowser()
	}
	if kill != nil {
		kill()
	}
	return err
}
