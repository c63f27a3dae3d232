package locator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LintIssue is a single problem found in a locator document.
type LintIssue struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"` // error, warning, info
	Message  string `json:"message"`
	File     string `json:"file"`
	Key      string `json:"key,omitempty"`
}

// LintRule is a validation rule applied to a parsed document.
type LintRule struct {
	ID          string
	Name        string
	Description string
	Severity    string
	Check       func(*Document) []LintIssue
}

var lintRules = []LintRule{
	{
		ID:          "doc-001",
		Name:        "Empty document",
		Description: "A locator document must define at least one element",
		Severity:    "error",
		Check:       checkEmptyDocument,
	},
	{
		ID:          "selector-001",
		Name:        "Empty selector",
		Description: "Selector payloads must not be empty",
		Severity:    "error",
		Check:       checkEmptySelectors,
	},
	{
		ID:          "selector-002",
		Name:        "Duplicate selector",
		Description: "Two keys resolving to the same selector usually indicate a copy-paste mistake",
		Severity:    "warning",
		Check:       checkDuplicateSelectors,
	},
	{
		ID:          "selector-003",
		Name:        "Unbalanced XPath",
		Description: "XPath expressions should have balanced brackets and parentheses",
		Severity:    "error",
		Check:       checkXPathBalance,
	},
	{
		ID:          "naming-001",
		Name:        "Key format",
		Description: "Element keys should not contain whitespace",
		Severity:    "warning",
		Check:       checkKeyFormat,
	},
}

// Lint applies every rule to a parsed document.
func Lint(doc *Document) []LintIssue {
	issues := []LintIssue{}
	for _, rule := range lintRules {
		issues = append(issues, rule.Check(doc)...)
	}
	return issues
}

// LintDir lints every .yaml/.yml file in a directory. Parse failures are
// reported as issues rather than aborting the run, so one broken file does
// not hide problems in the others.
func LintDir(dir string) ([]LintIssue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	reg := New(dir)
	issues := []LintIssue{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		page := strings.TrimSuffix(entry.Name(), ext)
		doc, err := reg.Load(page)
		if err != nil {
			issues = append(issues, LintIssue{
				Rule:     "doc-002",
				Severity: "error",
				Message:  fmt.Sprintf("Failed to parse: %v", err),
				File:     entry.Name(),
			})
			continue
		}
		issues = append(issues, Lint(doc)...)
	}
	return issues, nil
}

func checkEmptyDocument(doc *Document) []LintIssue {
	if len(doc.Keys()) > 0 {
		return nil
	}
	return []LintIssue{{
		Rule:     "doc-001",
		Severity: "error",
		Message:  "Document defines no elements",
		File:     doc.Path,
	}}
}

func checkEmptySelectors(doc *Document) []LintIssue {
	issues := []LintIssue{}
	for _, key := range doc.Keys() {
		sel, _ := doc.Lookup(key)
		if strings.TrimSpace(sel.Payload) == "" {
			issues = append(issues, LintIssue{
				Rule:     "selector-001",
				Severity: "error",
				Message:  fmt.Sprintf("Selector for '%s' is empty", key),
				File:     doc.Path,
				Key:      key,
			})
		}
	}
	return issues
}

func checkDuplicateSelectors(doc *Document) []LintIssue {
	byText := map[string][]string{}
	for _, key := range doc.Keys() {
		sel, _ := doc.Lookup(key)
		byText[sel.String()] = append(byText[sel.String()], key)
	}

	texts := make([]string, 0, len(byText))
	for text := range byText {
		texts = append(texts, text)
	}
	sort.Strings(texts)

	issues := []LintIssue{}
	for _, text := range texts {
		keys := byText[text]
		if len(keys) < 2 {
			continue
		}
		issues = append(issues, LintIssue{
			Rule:     "selector-002",
			Severity: "warning",
			Message:  fmt.Sprintf("Keys %s share the same selector '%s'", strings.Join(keys, ", "), text),
			File:     doc.Path,
		})
	}
	return issues
}

func checkXPathBalance(doc *Document) []LintIssue {
	issues := []LintIssue{}
	for _, key := range doc.Keys() {
		sel, _ := doc.Lookup(key)
		if sel.Kind != KindXPath {
			continue
		}
		if !balanced(sel.Payload, '[', ']') || !balanced(sel.Payload, '(', ')') {
			issues = append(issues, LintIssue{
				Rule:     "selector-003",
				Severity: "error",
				Message:  fmt.Sprintf("XPath for '%s' has unbalanced brackets: %s", key, sel.Payload),
				File:     doc.Path,
				Key:      key,
			})
		}
	}
	return issues
}

func checkKeyFormat(doc *Document) []LintIssue {
	issues := []LintIssue{}
	for _, key := range doc.Keys() {
		if strings.ContainsAny(key, " \t") {
			issues = append(issues, LintIssue{
				Rule:     "naming-001",
				Severity: "warning",
				Message:  fmt.Sprintf("Key '%s' contains whitespace", key),
				File:     doc.Path,
				Key:      key,
			})
		}
	}
	return issues
}

func balanced(s string, open, closing byte) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case closing:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
