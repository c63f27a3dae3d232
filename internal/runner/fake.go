package runner

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// FakeRunner is an in-memory Runner for tests. It records every action and
// answers queries from a static element table, so core behavior can be
// exercised without launching a browser.
type FakeRunner struct {
	mu sync.Mutex

	// CSSElements maps CSS selectors to match counts.
	CSSElements map[string]int
	// XPathMatches lists XPath expressions with a non-null first match.
	XPathMatches map[string]bool
	// Body is the rendered body text used for text-kind probes.
	Body string
	// VisibleAfter makes WaitVisible fail until the given number of calls.
	VisibleAfter int

	// Fail injections.
	FailClick      error
	FailType       error
	FailScreenshot error

	Clicks      []string
	Typed       []string
	Screenshots []string
	WaitCalls   int
}

// NewFakeRunner returns a runner with empty tables.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		CSSElements:  map[string]int{},
		XPathMatches: map[string]bool{},
	}
}

type fakeElement struct {
	selector string
	count    int
}

func (e *fakeElement) Count() (int, error) { return e.count, nil }

func (f *FakeRunner) QueryByCSS(selector string) (Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &fakeElement{selector: selector, count: f.CSSElements[selector]}, nil
}

func (f *FakeRunner) QueryByXPath(expr string) (Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	if f.XPathMatches[expr] {
		count = 1
	}
	return &fakeElement{selector: "xpath=" + expr, count: count}, nil
}

func (f *FakeRunner) QueryByText(literal string) (Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	if strings.Contains(f.Body, literal) {
		count = 1
	}
	return &fakeElement{selector: "text=" + literal, count: count}, nil
}

func (f *FakeRunner) WaitVisible(el Element, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.WaitCalls++
	if f.WaitCalls <= f.VisibleAfter {
		return fmt.Errorf("timeout %s exceeded waiting for visibility", timeout)
	}
	return nil
}

func (f *FakeRunner) Click(el Element, opts ClickOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailClick != nil {
		return f.FailClick
	}
	f.Clicks = append(f.Clicks, el.(*fakeElement).selector)
	return nil
}

func (f *FakeRunner) Type(el Element, text string, opts TypeOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailType != nil {
		return f.FailType
	}
	f.Typed = append(f.Typed, text)
	return nil
}

func (f *FakeRunner) Screenshot(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailScreenshot != nil {
		return "", f.FailScreenshot
	}
	path := "fake://" + name + ".png"
	f.Screenshots = append(f.Screenshots, path)
	return path, nil
}

func (f *FakeRunner) BodyText() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Body, nil
}

func (f *FakeRunner) EvaluateXPath(expr string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.XPathMatches[expr], nil
}
