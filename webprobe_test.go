package webprobe

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/webprobe/internal/locator"
	"github.com/qaforge/webprobe/internal/runner"
)

func TestSuiteEndToEndWithFakeRunner(t *testing.T) {
	dir := t.TempDir()
	doc := `
checkoutPage:
  payButton: button#pay
  cardInput: input[name='card']
  confirmation: text=Order placed
`
	require.NoError(t, os.WriteFile(dir+"/checkout.yaml", []byte(doc), 0o644))

	fake := runner.NewFakeRunner()
	fake.CSSElements["button#pay"] = 1
	fake.CSSElements["input[name='card']"] = 1
	fake.Body = "Order placed. Thank you!"

	suite, err := NewSuite(fake)
	require.NoError(t, err)
	defer suite.Close()

	// Point the suite at the fixture documents regardless of local config.
	suite.Registry = locator.New(dir)

	checkout := suite.Page("checkout")
	assert.True(t, checkout.Exists("confirmation"))

	sel, err := suite.Resolve("checkout", "payButton")
	require.NoError(t, err)
	assert.Equal(t, "button#pay", sel.Payload)

	require.NoError(t, suite.SafeType(mustResolve(t, suite, "checkout", "cardInput"), "4242", SafeTypeOptions{Sensitive: true}))
	require.NoError(t, suite.SafeClick(sel, ClickOptions{}))
	assert.True(t, suite.Exists(mustResolve(t, suite, "checkout", "confirmation")))

	suite.ClearCache()
	sel2, err := suite.Resolve("checkout", "payButton")
	require.NoError(t, err)
	assert.Equal(t, sel, sel2)
}

func mustResolve(t *testing.T, s *Suite, pageName, key string) Selector {
	t.Helper()
	sel, err := s.Resolve(pageName, key)
	require.NoError(t, err)
	return sel
}
