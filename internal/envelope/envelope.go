package envelope

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/qaforge/webprobe/internal/locator"
	"github.com/qaforge/webprobe/internal/runner"
)

// Envelope wraps runner actions with failure classification, structured
// logging and best-effort screenshots. One envelope covers one test session;
// its session ID is stamped on every log line and screenshot name.
type Envelope struct {
	runner      runner.Runner
	logger      *log.Logger
	sessionID   string
	screenshots bool
}

// Options configures an Envelope.
type Options struct {
	// Logger receives failure records; defaults to the standard logger.
	Logger *log.Logger
	// Screenshots toggles failure screenshot capture. Default on.
	Screenshots *bool
}

// New creates an envelope over a runner.
func New(r runner.Runner, opts Options) *Envelope {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	screenshots := true
	if opts.Screenshots != nil {
		screenshots = *opts.Screenshots
	}
	return &Envelope{
		runner:      r,
		logger:      logger,
		sessionID:   uuid.NewString()[:8],
		screenshots: screenshots,
	}
}

// SessionID returns the run-scoped identifier stamped on failure records.
func (e *Envelope) SessionID() string { return e.sessionID }

// Handle classifies a failure, logs a structured record, captures a
// full-page screenshot, and either returns the classified error (propagate)
// or swallows it. A screenshot failure never masks the original error; it is
// logged and ignored.
func (e *Envelope) Handle(err error, context string, propagate bool) error {
	if err == nil {
		return nil
	}

	ce := classify(err, context)
	e.logger.Printf("[%s] FAIL context=%s kind=%s message=%q time=%s",
		e.sessionID, context, ce.Kind, ce.Message, ce.Timestamp.Format(time.RFC3339))

	if e.screenshots {
		name := fmt.Sprintf("failure_%s_%s", e.sessionID, context)
		if path, shotErr := e.runner.Screenshot(name); shotErr != nil {
			e.logger.Printf("[%s] screenshot failed for context=%s: %v", e.sessionID, context, shotErr)
		} else {
			e.logger.Printf("[%s] screenshot saved: %s", e.sessionID, path)
		}
	}

	if propagate {
		return ce
	}
	return nil
}

// WithRetry runs action, retrying on failure after a fixed delay, up to
// maxRetries additional attempts. The last failure propagates unchanged;
// there is no backoff and no side-effect suppression, so actions must be
// idempotent.
func WithRetry(action func() error, maxRetries int, delay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
		}
		lastErr = action()
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// WithRetryValue is WithRetry for actions that produce a value.
func WithRetryValue[T any](action func() (T, error), maxRetries int, delay time.Duration) (T, error) {
	var result T
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
		}
		result, lastErr = action()
		if lastErr == nil {
			return result, nil
		}
	}
	return result, lastErr
}

// SafeClick probes the selector first and fails fast with ElementNotFound
// when nothing matches; otherwise it clicks through the runner.
func (e *Envelope) SafeClick(sel locator.Selector, opts runner.ClickOptions) error {
	if !runner.Exists(e.runner, sel) {
		return e.Handle(
			NewClassifiedError(KindElementNotFound, "SafeClick", fmt.Sprintf("element not found: %s", sel.String())),
			"SafeClick", true)
	}
	el, err := runner.Query(e.runner, sel)
	if err != nil {
		return e.Handle(err, "SafeClick", true)
	}
	if err := e.runner.Click(el, opts); err != nil {
		return e.Handle(err, "SafeClick", true)
	}
	return nil
}

// SafeTypeOptions controls SafeType.
type SafeTypeOptions struct {
	Timeout time.Duration
	Clear   bool
	// Sensitive suppresses the typed value from any log output on failure.
	Sensitive bool
}

// SafeType probes the selector first and fails fast with ElementNotFound
// when nothing matches; otherwise it optionally clears the field and types
// text. When opts.Sensitive is set the value never reaches the log.
func (e *Envelope) SafeType(sel locator.Selector, text string, opts SafeTypeOptions) error {
	if !runner.Exists(e.runner, sel) {
		return e.Handle(
			NewClassifiedError(KindElementNotFound, "SafeType", fmt.Sprintf("element not found: %s", sel.String())),
			"SafeType", true)
	}
	el, err := runner.Query(e.runner, sel)
	if err != nil {
		return e.Handle(err, "SafeType", true)
	}
	err = e.runner.Type(el, text, runner.TypeOptions{Timeout: opts.Timeout, Clear: opts.Clear})
	if err != nil {
		if opts.Sensitive {
			// Keep the kind but drop the underlying message, which may echo
			// the typed value.
			err = NewClassifiedError(ClassifyKind(err), "SafeType",
				fmt.Sprintf("failed to type into %s: [redacted]", sel.String()))
		}
		return e.Handle(err, "SafeType", true)
	}
	return nil
}
