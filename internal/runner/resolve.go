package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/qaforge/webprobe/internal/locator"
)

// Query dispatches a parsed selector to the matching host query primitive.
// Callers get the same Element contract back regardless of which kind fired.
func Query(r Runner, sel locator.Selector) (Element, error) {
	switch sel.Kind {
	case locator.KindXPath:
		return r.QueryByXPath(sel.Payload)
	case locator.KindText:
		return r.QueryByText(sel.Payload)
	default:
		return r.QueryByCSS(sel.Payload)
	}
}

// QueryVisible queries a selector and waits for it to become visible within
// the timeout. A non-positive timeout means DefaultVisibleTimeout.
func QueryVisible(r Runner, sel locator.Selector, timeout time.Duration) (Element, error) {
	if timeout <= 0 {
		timeout = DefaultVisibleTimeout
	}
	el, err := Query(r, sel)
	if err != nil {
		return nil, err
	}
	if err := r.WaitVisible(el, timeout); err != nil {
		return nil, fmt.Errorf("element %q not visible within %s: %w", sel.String(), timeout, err)
	}
	return el, nil
}

// Exists probes whether a selector currently matches anything. It never
// fails: runner errors count as absent. For text selectors this is a
// substring test over the whole body text, so unrelated text elsewhere on
// the page can satisfy it.
func Exists(r Runner, sel locator.Selector) bool {
	switch sel.Kind {
	case locator.KindXPath:
		found, err := r.EvaluateXPath(sel.Payload)
		return err == nil && found
	case locator.KindText:
		body, err := r.BodyText()
		return err == nil && strings.Contains(body, sel.Payload)
	default:
		el, err := r.QueryByCSS(sel.Payload)
		if err != nil {
			return false
		}
		n, err := el.Count()
		return err == nil && n > 0
	}
}
