package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightRunner adapts a live Playwright page to the Runner capability
// set. One runner wraps one page; the caller owns page lifecycle.
type PlaywrightRunner struct {
	page          playwright.Page
	screenshotDir string
}

// NewPlaywrightRunner wraps an existing page. Screenshots are written under
// screenshotDir, created on first use.
func NewPlaywrightRunner(page playwright.Page, screenshotDir string) *PlaywrightRunner {
	if screenshotDir == "" {
		screenshotDir = "./test-results/screenshots"
	}
	return &PlaywrightRunner{page: page, screenshotDir: screenshotDir}
}

// Page exposes the underlying page for host-level operations (navigation,
// assertions) that are outside the Runner contract.
func (p *PlaywrightRunner) Page() playwright.Page { return p.page }

type playwrightElement struct {
	loc playwright.Locator
}

func (e *playwrightElement) Count() (int, error) { return e.loc.Count() }

func (p *PlaywrightRunner) QueryByCSS(selector string) (Element, error) {
	return &playwrightElement{loc: p.page.Locator(selector)}, nil
}

func (p *PlaywrightRunner) QueryByXPath(expr string) (Element, error) {
	return &playwrightElement{loc: p.page.Locator("xpath=" + expr)}, nil
}

func (p *PlaywrightRunner) QueryByText(literal string) (Element, error) {
	return &playwrightElement{loc: p.page.Locator("text=" + literal)}, nil
}

func (p *PlaywrightRunner) WaitVisible(el Element, timeout time.Duration) error {
	pe, ok := el.(*playwrightElement)
	if !ok {
		return fmt.Errorf("element was not produced by this runner")
	}
	return pe.loc.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *PlaywrightRunner) Click(el Element, opts ClickOptions) error {
	pe, ok := el.(*playwrightElement)
	if !ok {
		return fmt.Errorf("element was not produced by this runner")
	}
	clickOpts := playwright.LocatorClickOptions{}
	if opts.Timeout > 0 {
		clickOpts.Timeout = playwright.Float(float64(opts.Timeout.Milliseconds()))
	}
	if opts.Force {
		clickOpts.Force = playwright.Bool(true)
	}
	return pe.loc.First().Click(clickOpts)
}

func (p *PlaywrightRunner) Type(el Element, text string, opts TypeOptions) error {
	pe, ok := el.(*playwrightElement)
	if !ok {
		return fmt.Errorf("element was not produced by this runner")
	}
	target := pe.loc.First()
	if opts.Clear {
		if err := target.Clear(); err != nil {
			return fmt.Errorf("failed to clear field: %w", err)
		}
	}
	fillOpts := playwright.LocatorFillOptions{}
	if opts.Timeout > 0 {
		fillOpts.Timeout = playwright.Float(float64(opts.Timeout.Milliseconds()))
	}
	return target.Fill(text, fillOpts)
}

func (p *PlaywrightRunner) Screenshot(name string) (string, error) {
	if err := os.MkdirAll(p.screenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	path := filepath.Join(p.screenshotDir, fmt.Sprintf("%s_%d.png", name, time.Now().Unix()))
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return path, nil
}

func (p *PlaywrightRunner) BodyText() (string, error) {
	return p.page.Locator("body").InnerText()
}

func (p *PlaywrightRunner) EvaluateXPath(expr string) (bool, error) {
	result, err := p.page.Evaluate(
		`expr => document.evaluate(expr, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue !== null`,
		expr,
	)
	if err != nil {
		return false, err
	}
	found, ok := result.(bool)
	return ok && found, nil
}
