package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lintPage(t *testing.T, yaml string) []LintIssue {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, "page.yaml", yaml)
	doc, err := New(dir).Load("page")
	require.NoError(t, err)
	return Lint(doc)
}

func rulesOf(issues []LintIssue) []string {
	rules := make([]string, 0, len(issues))
	for _, i := range issues {
		rules = append(rules, i.Rule)
	}
	return rules
}

func TestLintCleanDocument(t *testing.T) {
	issues := lintPage(t, `
pagePage:
  emailInput: input[name='email']
  submitButton: xpath=//button[@type="submit"]
`)
	assert.Empty(t, issues)
}

func TestLintEmptySelector(t *testing.T) {
	issues := lintPage(t, "okButton: ' '\n")
	assert.Contains(t, rulesOf(issues), "selector-001")
}

func TestLintDuplicateSelectors(t *testing.T) {
	issues := lintPage(t, `
saveButton: .btn-primary
submitButton: .btn-primary
`)
	require.Contains(t, rulesOf(issues), "selector-002")
	for _, issue := range issues {
		if issue.Rule == "selector-002" {
			assert.Contains(t, issue.Message, "saveButton")
			assert.Contains(t, issue.Message, "submitButton")
		}
	}
}

func TestLintUnbalancedXPath(t *testing.T) {
	issues := lintPage(t, `row: 'xpath=//div[@id="x"'`+"\n")
	assert.Contains(t, rulesOf(issues), "selector-003")
}

func TestLintKeyWithWhitespace(t *testing.T) {
	issues := lintPage(t, "\"ok button\": .ok\n")
	assert.Contains(t, rulesOf(issues), "naming-001")
}

func TestLintDirReportsParseFailures(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "good.yaml", "okButton: .ok\n")
	writeDoc(t, dir, "broken.yaml", "nested:\n  bad: [unclosed\n")

	issues, err := LintDir(dir)
	require.NoError(t, err)
	assert.Contains(t, rulesOf(issues), "doc-002")
}
