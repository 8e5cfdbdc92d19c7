package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"casetrack/internal/logging"
	"casetrack/internal/timeline"
)

// Defaults for Browser.
const (
	DefaultBaseURL     = "https://mycaseshub.com"
	DefaultUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultWaitTimeout = 15 * time.Second
	DefaultSettle      = 2 * time.Second
)

// Browser fetches case pages with a shared headless Chrome instance.
type Browser struct {
	baseURL     string
	waitTimeout time.Duration
	settle      time.Duration
	logger      *slog.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// Option configures a Browser during construction.
type Option func(*browserConfig) error

type browserConfig struct {
	baseURL     string
	userAgent   string
	execPath    string
	waitTimeout time.Duration
	settle      time.Duration
	visible     bool
	logger      *slog.Logger
}

// WithBaseURL sets the status site root. Pages are read from
// <base>/analysis/<caseID>.
func WithBaseURL(base string) Option {
	return func(cfg *browserConfig) error {
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("source: invalid base URL %q", base)
		}
		cfg.baseURL = strings.TrimSuffix(base, "/")
		return nil
	}
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(cfg *browserConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithExecPath points chromedp at a specific Chrome binary.
func WithExecPath(path string) Option {
	return func(cfg *browserConfig) error {
		cfg.execPath = path
		return nil
	}
}

// WithWaitTimeout bounds the wait for the case id to appear on the page.
// Non-positive values keep the default.
func WithWaitTimeout(d time.Duration) Option {
	return func(cfg *browserConfig) error {
		if d > 0 {
			cfg.waitTimeout = d
		}
		return nil
	}
}

// WithSettle sets how long to let client-side rendering finish once the
// case id is visible.
func WithSettle(d time.Duration) Option {
	return func(cfg *browserConfig) error {
		cfg.settle = d
		return nil
	}
}

// WithVisible runs Chrome with a window instead of headless.
func WithVisible(visible bool) Option {
	return func(cfg *browserConfig) error {
		cfg.visible = visible
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *browserConfig) error {
		cfg.logger = l
		return nil
	}
}

// NewBrowser starts Chrome. The browser lives until Close is called or ctx
// is canceled.
func NewBrowser(ctx context.Context, opts ...Option) (*Browser, error) {
	cfg := &browserConfig{
		baseURL:     DefaultBaseURL,
		userAgent:   DefaultUserAgent,
		waitTimeout: DefaultWaitTimeout,
		settle:      DefaultSettle,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	logger := cfg.logger
	if logger == nil {
		logger = logging.Discard()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !cfg.visible),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.userAgent),
	)
	if cfg.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.execPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser now so a missing Chrome fails here, not on the
	// first case.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	logger.Info("browser started", "base_url", cfg.baseURL, "headless", !cfg.visible)

	return &Browser{
		baseURL:       cfg.baseURL,
		waitTimeout:   cfg.waitTimeout,
		settle:        cfg.settle,
		logger:        logger,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// PageURL returns the status page address for caseID.
func (b *Browser) PageURL(caseID string) string {
	return b.baseURL + "/analysis/" + url.PathEscape(caseID)
}

// Fetch renders the case page and extracts its timeline. Canceling ctx
// aborts the page load.
func (b *Browser) Fetch(ctx context.Context, caseID string) ([]timeline.Entry, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	// The first Run allocates the tab; it must not carry the wait timeout
	// or the tab would close with it.
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("open tab: %w", err)
	}

	pageURL := b.PageURL(caseID)
	b.logger.Debug("loading case page", "case", caseID, "url", pageURL)

	waitCtx, cancelWait := context.WithTimeout(tabCtx, b.waitTimeout)
	defer cancelWait()
	err := chromedp.Run(waitCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(fmt.Sprintf(`//*[contains(text(), %s)]`, xpathLiteral(caseID)), chromedp.BySearch),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("load %s: %w", pageURL, err)
	}

	var pageText string
	if err := chromedp.Run(tabCtx,
		chromedp.Sleep(b.settle),
		chromedp.Text("body", &pageText, chromedp.ByQuery),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}
	b.logger.Debug("page read", "case", caseID, "bytes", len(pageText))
	return entriesFrom(pageText)
}

// Close shuts Chrome down.
func (b *Browser) Close() {
	b.browserCancel()
	b.allocCancel()
}

// xpathLiteral quotes s for use inside an XPath expression.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}
