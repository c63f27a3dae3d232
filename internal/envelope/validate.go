package envelope

import (
	"fmt"
	"sort"
)

// Response is the minimal shape of an API response the validator inspects.
type Response struct {
	Status int
	Body   map[string]interface{}
}

// Expectations describes what a response must look like. Zero-value fields
// are not checked.
type Expectations struct {
	// Status is the expected status code; 0 skips the check.
	Status int
	// Properties that must be present in the body.
	Properties []string
	// Values that must match exactly in the body.
	Values map[string]interface{}
}

// ValidateResponse checks a response against expectations and accumulates
// every mismatch before failing, so one failure carries the complete
// diagnostic picture. On any violation it returns a single ApiError whose
// details list all of them.
func ValidateResponse(resp Response, want Expectations) error {
	violations := []string{}

	if want.Status != 0 && resp.Status != want.Status {
		violations = append(violations, fmt.Sprintf("expected status %d, got %d", want.Status, resp.Status))
	}

	for _, prop := range want.Properties {
		if _, ok := resp.Body[prop]; !ok {
			violations = append(violations, fmt.Sprintf("missing property %q", prop))
		}
	}

	keys := make([]string, 0, len(want.Values))
	for key := range want.Values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		expected := want.Values[key]
		actual, ok := resp.Body[key]
		if !ok {
			violations = append(violations, fmt.Sprintf("missing property %q (expected value %v)", key, expected))
			continue
		}
		if fmt.Sprintf("%v", actual) != fmt.Sprintf("%v", expected) {
			violations = append(violations, fmt.Sprintf("property %q: expected %v, got %v", key, expected, actual))
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return apiError("ValidateResponse", violations)
}
