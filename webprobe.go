// Package webprobe is the entry point for test suites: it wires the locator
// registry, the host runner and the error/retry envelope from configuration
// and exposes the surface a page object or test step needs.
package webprobe

import (
	"log"
	"time"

	"github.com/qaforge/webprobe/internal/config"
	"github.com/qaforge/webprobe/internal/envelope"
	"github.com/qaforge/webprobe/internal/locator"
	"github.com/qaforge/webprobe/internal/page"
	"github.com/qaforge/webprobe/internal/runner"
)

// Re-exported types so suites only import this package.
type (
	Selector        = locator.Selector
	Registry        = locator.Registry
	Runner          = runner.Runner
	Envelope        = envelope.Envelope
	ClassifiedError = envelope.ClassifiedError
	Response        = envelope.Response
	Expectations    = envelope.Expectations
	ClickOptions    = runner.ClickOptions
	SafeTypeOptions = envelope.SafeTypeOptions
	PageContext     = page.Context
)

// WithRetry runs an action with bounded fixed-delay retry.
var WithRetry = envelope.WithRetry

// ValidateResponse checks a response and batches every violation into one
// ApiError.
var ValidateResponse = envelope.ValidateResponse

// Suite owns the per-run wiring: one registry, one envelope, optionally a
// document watcher.
type Suite struct {
	Config   *config.Config
	Registry *locator.Registry
	Runner   runner.Runner
	Envelope *envelope.Envelope

	watcher *locator.Watcher
}

// NewSuite builds a suite over a host runner using the loaded configuration.
// When locator watching is enabled the registry follows document edits.
func NewSuite(r runner.Runner) (*Suite, error) {
	cfg := config.Get()
	reg := locator.New(cfg.Locators.Root)

	s := &Suite{
		Config:   cfg,
		Registry: reg,
		Runner:   r,
		Envelope: envelope.New(r, envelope.Options{Screenshots: &cfg.Failures.Screenshots}),
	}

	if cfg.Locators.Watch {
		w, err := locator.Watch(reg)
		if err != nil {
			return nil, err
		}
		s.watcher = w
		go func() {
			for ev := range w.Events() {
				if ev.Type == locator.EventError {
					log.Printf("locator watch: %s", ev.Error)
				}
			}
		}()
	}

	return s, nil
}

// Page returns a context for one logical page, sharing the suite envelope.
func (s *Suite) Page(name string) *page.Context {
	return page.NewContext(name, s.Registry, s.Runner).WithEnvelope(s.Envelope)
}

// Resolve maps a symbolic (page, key) pair to its selector.
func (s *Suite) Resolve(pageName, key string) (Selector, error) {
	return s.Registry.Resolve(pageName, key)
}

// QueryVisible resolves a selector and waits for visibility.
func (s *Suite) QueryVisible(sel Selector, timeout time.Duration) error {
	_, err := runner.QueryVisible(s.Runner, sel, timeout)
	return err
}

// Exists probes a selector without failing.
func (s *Suite) Exists(sel Selector) bool {
	return runner.Exists(s.Runner, sel)
}

// SafeClick clicks through the envelope's existence-checked path.
func (s *Suite) SafeClick(sel Selector, opts ClickOptions) error {
	return s.Envelope.SafeClick(sel, opts)
}

// SafeType types through the envelope's existence-checked path.
func (s *Suite) SafeType(sel Selector, text string, opts SafeTypeOptions) error {
	return s.Envelope.SafeType(sel, text, opts)
}

// ClearCache drops every cached locator document.
func (s *Suite) ClearCache() {
	s.Registry.ClearCache()
}

// Close stops the document watcher if one is running.
func (s *Suite) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}
