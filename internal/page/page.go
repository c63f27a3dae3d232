// Package page binds a named locator document to a live runner session.
// A Context is a value, not a base class: each "page object" is just a
// Context plus whatever helper functions a suite wants to define on top.
package page

import (
	"time"

	"github.com/qaforge/webprobe/internal/envelope"
	"github.com/qaforge/webprobe/internal/locator"
	"github.com/qaforge/webprobe/internal/runner"
)

// Context addresses the elements of one logical page by symbolic key.
type Context struct {
	Name     string
	Registry *locator.Registry
	Runner   runner.Runner
	Envelope *envelope.Envelope
}

// NewContext creates a page context. The envelope is built over the runner
// with default options.
func NewContext(name string, reg *locator.Registry, r runner.Runner) *Context {
	return &Context{
		Name:     name,
		Registry: reg,
		Runner:   r,
		Envelope: envelope.New(r, envelope.Options{}),
	}
}

// WithEnvelope returns a copy of the context using the given envelope, so
// suites can share one session across pages.
func (c *Context) WithEnvelope(env *envelope.Envelope) *Context {
	out := *c
	out.Envelope = env
	return &out
}

// Selector resolves a symbolic element key to its parsed selector.
func (c *Context) Selector(key string) (locator.Selector, error) {
	return c.Registry.Resolve(c.Name, key)
}

// Click resolves key and clicks it through the safe-click path.
func (c *Context) Click(key string, opts runner.ClickOptions) error {
	sel, err := c.Selector(key)
	if err != nil {
		return c.Envelope.Handle(err, c.Name+"."+key, true)
	}
	return c.Envelope.SafeClick(sel, opts)
}

// Type resolves key and types text through the safe-type path.
func (c *Context) Type(key, text string, opts envelope.SafeTypeOptions) error {
	sel, err := c.Selector(key)
	if err != nil {
		return c.Envelope.Handle(err, c.Name+"."+key, true)
	}
	return c.Envelope.SafeType(sel, text, opts)
}

// Visible resolves key and waits for the element to become visible.
func (c *Context) Visible(key string, timeout time.Duration) error {
	sel, err := c.Selector(key)
	if err != nil {
		return c.Envelope.Handle(err, c.Name+"."+key, true)
	}
	_, err = runner.QueryVisible(c.Runner, sel, timeout)
	if err != nil {
		return c.Envelope.Handle(err, c.Name+"."+key, true)
	}
	return nil
}

// Exists resolves key and probes for the element without failing the test.
// An unresolvable key counts as absent.
func (c *Context) Exists(key string) bool {
	sel, err := c.Selector(key)
	if err != nil {
		return false
	}
	return runner.Exists(c.Runner, sel)
}
