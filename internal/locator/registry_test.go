package locator

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveNamespaceFallback(t *testing.T) {
	dir := t.TempDir()

	// All three namespace forms a document may use.
	writeDoc(t, dir, "login.yaml", `
loginPage:
  emailInput: input[name='email']
  submitButton: "text=Log in"
`)
	writeDoc(t, dir, "home.yaml", `
home:
  searchBox: "#search"
`)
	writeDoc(t, dir, "settings.yaml", `
saveButton: xpath=//button[@type="submit"]
`)

	reg := New(dir)

	sel, err := reg.Resolve("login", "emailInput")
	require.NoError(t, err)
	assert.Equal(t, Selector{Kind: KindCSS, Payload: "input[name='email']"}, sel)

	sel, err = reg.Resolve("login", "submitButton")
	require.NoError(t, err)
	assert.Equal(t, KindText, sel.Kind)
	assert.Equal(t, "Log in", sel.Payload)

	sel, err = reg.Resolve("home", "searchBox")
	require.NoError(t, err)
	assert.Equal(t, "#search", sel.Payload)

	sel, err = reg.Resolve("settings", "saveButton")
	require.NoError(t, err)
	assert.Equal(t, KindXPath, sel.Kind)
	assert.Equal(t, `//button[@type="submit"]`, sel.Payload)
}

func TestResolveMissingKeyMessage(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "login.yaml", "loginPage:\n  emailInput: input\n")

	reg := New(dir)
	_, err := reg.Resolve("login", "missingKey")
	require.Error(t, err)
	assert.Equal(t, "Locator not found: login.missingKey", err.Error())

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "login", notFound.Page)
	assert.Equal(t, "missingKey", notFound.Key)
}

func TestLoadMissingDocumentReportsAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	reg := New(dir)

	_, err := reg.Load("nope")
	require.Error(t, err)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.True(t, filepath.IsAbs(notFound.Path))
	assert.Contains(t, notFound.Path, "nope.yaml")
}

func TestCacheHitUntilClear(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "login.yaml", "loginPage:\n  emailInput: input\n")

	reg := New(dir)
	sel1, err := reg.Resolve("login", "emailInput")
	require.NoError(t, err)

	// Delete the backing file: cached resolutions must keep working and must
	// not touch the document store.
	require.NoError(t, os.Remove(path))

	sel2, err := reg.Resolve("login", "emailInput")
	require.NoError(t, err)
	assert.Equal(t, sel1, sel2)
	assert.Equal(t, int64(1), reg.Stats().Loads)

	reg.ClearCache()
	_, err = reg.Resolve("login", "emailInput")
	require.Error(t, err)
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestEvictSinglePage(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "login.yaml", "emailInput: input.old\n")
	writeDoc(t, dir, "home.yaml", "searchBox: '#search'\n")

	reg := New(dir)
	_, err := reg.Resolve("login", "emailInput")
	require.NoError(t, err)
	_, err = reg.Resolve("home", "searchBox")
	require.NoError(t, err)

	writeDoc(t, dir, "login.yaml", "emailInput: input.new\n")
	reg.Evict("login")

	sel, err := reg.Resolve("login", "emailInput")
	require.NoError(t, err)
	assert.Equal(t, "input.new", sel.Payload)

	// home stayed cached
	assert.Equal(t, int64(3), reg.Stats().Loads)
}

func TestConcurrentResolveIsRaceFree(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "login.yaml", "loginPage:\n  emailInput: input[name='email']\n")

	reg := New(dir)

	const goroutines = 8
	const iterations = 200
	errs := make(chan error, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				sel, err := reg.Resolve("login", "emailInput")
				if err != nil {
					errs <- err
					return
				}
				if sel.Payload != "input[name='email']" {
					errs <- errors.New("resolved wrong selector: " + sel.Payload)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	stats := reg.Stats()
	// One document, one disk read, every lookup accounted for.
	assert.Equal(t, int64(1), stats.Loads)
	assert.Equal(t, int64(goroutines*iterations), stats.Hits+stats.Misses)
}

func TestYmlExtensionFallback(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "legacy.yml", "okButton: '.ok'\n")

	reg := New(dir)
	sel, err := reg.Resolve("legacy", "okButton")
	require.NoError(t, err)
	assert.Equal(t, ".ok", sel.Payload)
}

func TestNonStringSelectorRejected(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "bad.yaml", "badPage:\n  count: 42\n")

	reg := New(dir)
	_, err := reg.Load("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector must be a string")
}

func TestListAllKeys(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "login.yaml", `
loginPage:
  emailInput: input[name='email']
  passwordInput: input[name='password']
rememberMe: '#remember'
`)

	reg := New(dir)
	doc, err := reg.ListAll("login")
	require.NoError(t, err)
	assert.Equal(t, []string{"emailInput", "passwordInput", "rememberMe"}, doc.Keys())
}
