package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qaforge/webprobe/internal/locator"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "webprobe",
	Short: "webprobe CLI - YAML locator tooling for browser test suites",
	Long: `webprobe Command Line Interface

Lints, validates and resolves YAML locator documents used by browser
test suites. Documents live one per page at <root>/<page>.yaml.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var strictFlag bool

var lintCmd = &cobra.Command{
	Use:   "lint <locator-root>",
	Short: "Lint every locator document in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runLint,
}

var validateCmd = &cobra.Command{
	Use:   "validate <locator-root>",
	Short: "Validate locator documents against the document schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var resolveRootFlag string

var resolveCmd = &cobra.Command{
	Use:   "resolve <page> <key>",
	Short: "Resolve a (page, key) pair to its selector",
	Args:  cobra.ExactArgs(2),
	RunE:  runResolve,
}

var pagesCmd = &cobra.Command{
	Use:   "pages <locator-root>",
	Short: "List pages and their element keys",
	Args:  cobra.ExactArgs(1),
	RunE:  runPages,
}

func init() {
	lintCmd.Flags().BoolVar(&strictFlag, "strict", false, "Treat warnings as errors")
	resolveCmd.Flags().StringVar(&resolveRootFlag, "root", "./locators", "Locator root directory")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(pagesCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	issues, err := locator.LintDir(args[0])
	if err != nil {
		return err
	}
	errorCount := 0
	for _, issue := range issues {
		fmt.Printf("%-7s %-12s %s (%s)\n", issue.Severity, issue.Rule, issue.Message, filepath.Base(issue.File))
		if issue.Severity == "error" || (strictFlag && issue.Severity == "warning") {
			errorCount++
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("%d blocking issue(s) found", errorCount)
	}
	fmt.Printf("OK: %d issue(s), none blocking\n", len(issues))
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	entries, err := os.ReadDir(args[0])
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", args[0], err)
	}

	failed := 0
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(args[0], entry.Name())
		issues, err := locator.ValidateFile(path)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", entry.Name(), err)
			failed++
			continue
		}
		if len(issues) == 0 {
			fmt.Printf("OK   %s\n", entry.Name())
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", entry.Name())
		for _, issue := range issues {
			fmt.Printf("     %s: %s\n", issue.Path, issue.Message)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed schema validation", failed)
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	reg := locator.New(resolveRootFlag)
	sel, err := reg.Resolve(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("kind:    %s\npayload: %s\n", sel.Kind, sel.Payload)
	return nil
}

func runPages(cmd *cobra.Command, args []string) error {
	entries, err := os.ReadDir(args[0])
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", args[0], err)
	}

	reg := locator.New(args[0])
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		doc, err := reg.ListAll(name)
		if err != nil {
			fmt.Printf("%s: %v\n", name, err)
			continue
		}
		fmt.Printf("%s: %s\n", name, strings.Join(doc.Keys(), ", "))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
