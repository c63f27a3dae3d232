// Package runner defines the capability set the core expects from the host
// browser runner, plus the selector-kind dispatch that turns a parsed
// locator selector into a live element query. The concrete Playwright
// adapter lives in playwright.go; tests use FakeRunner.
package runner

import "time"

// DefaultVisibleTimeout is used by QueryVisible when the caller passes a
// non-positive timeout.
const DefaultVisibleTimeout = 10 * time.Second

// Element is an opaque handle to the element(s) matched by a query.
type Element interface {
	// Count reports how many elements the underlying query currently matches.
	Count() (int, error)
}

// ClickOptions controls a click action.
type ClickOptions struct {
	Timeout time.Duration
	Force   bool
}

// TypeOptions controls a type action.
type TypeOptions struct {
	Timeout time.Duration
	Clear   bool
}

// Runner is the host test runner's capability set. Only the primitives the
// core actually dispatches to are included; navigation, assertions and
// reporting stay with the host.
type Runner interface {
	QueryByCSS(selector string) (Element, error)
	QueryByXPath(expr string) (Element, error)
	QueryByText(literal string) (Element, error)

	WaitVisible(el Element, timeout time.Duration) error
	Click(el Element, opts ClickOptions) error
	Type(el Element, text string, opts TypeOptions) error

	// Screenshot captures a full-page screenshot and returns the file path.
	Screenshot(name string) (string, error)

	// BodyText returns the rendered text content of the current body.
	BodyText() (string, error)

	// EvaluateXPath evaluates an XPath expression against the document and
	// reports whether it has a non-null first match.
	EvaluateXPath(expr string) (bool, error)
}
