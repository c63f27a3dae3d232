package envelope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResponseAllGood(t *testing.T) {
	resp := Response{
		Status: 200,
		Body:   map[string]interface{}{"id": 7, "name": "X"},
	}
	err := ValidateResponse(resp, Expectations{
		Status:     200,
		Properties: []string{"id"},
		Values:     map[string]interface{}{"name": "X"},
	})
	assert.NoError(t, err)
}

func TestValidateResponseBatchesAllViolations(t *testing.T) {
	resp := Response{
		Status: 404,
		Body:   map[string]interface{}{"name": "Y"},
	}
	err := ValidateResponse(resp, Expectations{
		Status:     200,
		Properties: []string{"id"},
		Values:     map[string]interface{}{"name": "X"},
	})
	require.Error(t, err)

	var classified *ClassifiedError
	require.True(t, errors.As(err, &classified))
	assert.Equal(t, KindAPIError, classified.Kind)
	require.Len(t, classified.Details, 3)
	assert.Contains(t, classified.Details[0], "expected status 200, got 404")
	assert.Contains(t, classified.Details[1], `missing property "id"`)
	assert.Contains(t, classified.Details[2], `property "name": expected X, got Y`)
}

func TestValidateResponseSkipsZeroStatus(t *testing.T) {
	resp := Response{Status: 500, Body: map[string]interface{}{}}
	assert.NoError(t, ValidateResponse(resp, Expectations{}))
}

func TestValidateResponseMissingValueProperty(t *testing.T) {
	resp := Response{Status: 200, Body: map[string]interface{}{}}
	err := ValidateResponse(resp, Expectations{Values: map[string]interface{}{"token": "abc"}})
	require.Error(t, err)

	var classified *ClassifiedError
	require.True(t, errors.As(err, &classified))
	require.Len(t, classified.Details, 1)
	assert.Contains(t, classified.Details[0], `missing property "token"`)
}

func TestValidateResponseNumericValueComparison(t *testing.T) {
	// JSON decoding yields float64; expectations are often written as int.
	resp := Response{Status: 200, Body: map[string]interface{}{"count": float64(3)}}
	assert.NoError(t, ValidateResponse(resp, Expectations{Values: map[string]interface{}{"count": 3}}))
}
