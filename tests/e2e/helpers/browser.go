// Package helpers provides browser setup and teardown for e2e tests.
package helpers

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/qaforge/webprobe/internal/config"
	"github.com/qaforge/webprobe/internal/envelope"
	"github.com/qaforge/webprobe/internal/locator"
	"github.com/qaforge/webprobe/internal/page"
	"github.com/qaforge/webprobe/internal/runner"
)

// BrowserHelper wires Playwright, the locator registry and the envelope for
// one test.
type BrowserHelper struct {
	Playwright *playwright.Playwright
	Browser    playwright.Browser
	Context    playwright.BrowserContext
	Page       playwright.Page

	Runner   *runner.PlaywrightRunner
	Registry *locator.Registry
	Envelope *envelope.Envelope
	Config   *config.Config

	t *testing.T
}

// NewBrowserHelper creates a new browser helper instance.
func NewBrowserHelper(t *testing.T) *BrowserHelper {
	return &BrowserHelper{
		Config: config.Get(),
		t:      t,
	}
}

// Setup initializes Playwright, launches the browser and builds the runner,
// registry and envelope.
func (b *BrowserHelper) Setup() error {
	var pw *playwright.Playwright
	var err error
	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err = playwright.Install(); err != nil {
			return fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err = playwright.Run()
	if err != nil {
		_ = playwright.Install()
		pw, err = playwright.Run()
		if err != nil {
			return fmt.Errorf("could not start playwright after retry: %w", err)
		}
	}
	b.Playwright = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.Config.Browser.Headless),
		SlowMo:   playwright.Float(float64(b.Config.Browser.SlowMo)),
	})
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	b.Browser = browser

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1280, Height: 720},
	})
	if err != nil {
		return fmt.Errorf("could not create context: %w", err)
	}
	b.Context = context

	page, err := context.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	b.Page = page
	page.SetDefaultTimeout(float64(b.Config.Browser.DefaultTimeout.Milliseconds()))

	b.Runner = runner.NewPlaywrightRunner(page, b.Config.Failures.ScreenshotDir)
	b.Registry = locator.New(b.Config.Locators.Root)
	b.Envelope = envelope.New(b.Runner, envelope.Options{
		Screenshots: playwright.Bool(b.Config.Failures.Screenshots),
	})

	return nil
}

// TearDown closes the browser and cleans up resources, capturing a final
// screenshot when the test failed.
func (b *BrowserHelper) TearDown() {
	if b.t.Failed() && b.Config.Failures.Screenshots && b.Runner != nil {
		name := fmt.Sprintf("%s_%d", b.t.Name(), time.Now().Unix())
		if _, err := b.Runner.Screenshot(name); err != nil {
			b.t.Logf("teardown screenshot failed: %v", err)
		}
	}

	if b.Page != nil {
		b.Page.Close()
	}
	if b.Context != nil {
		b.Context.Close()
	}
	if b.Browser != nil {
		b.Browser.Close()
	}
	if b.Playwright != nil {
		b.Playwright.Stop()
	}
}

// NavigateTo navigates to a path relative to the configured base URL.
func (b *BrowserHelper) NavigateTo(path string) error {
	_, err := b.Page.Goto(b.Config.Browser.BaseURL + path)
	return err
}

// OpenPage builds a page context bound to the shared envelope.
func (b *BrowserHelper) OpenPage(name string) *page.Context {
	return page.NewContext(name, b.Registry, b.Runner).WithEnvelope(b.Envelope)
}
