package locator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Document is a parsed locator document for one page. Entries are grouped by
// namespace: documents may nest their mapping under "<page>Page", under
// "<page>", or hold element keys directly at the root.
type Document struct {
	Page string
	Path string

	// namespace -> element key -> parsed selector; "" is the document root
	sections map[string]map[string]Selector
}

// Lookup returns the selector for key, trying the "<page>Page" namespace,
// then "<page>", then the document root.
func (d *Document) Lookup(key string) (Selector, bool) {
	for _, ns := range []string{d.Page + "Page", d.Page, ""} {
		if sec, ok := d.sections[ns]; ok {
			if sel, ok := sec[key]; ok {
				return sel, true
			}
		}
	}
	return Selector{}, false
}

// Keys returns every element key reachable through Lookup, sorted.
func (d *Document) Keys() []string {
	seen := map[string]bool{}
	for _, ns := range []string{d.Page + "Page", d.Page, ""} {
		for key := range d.sections[ns] {
			seen[key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NotFoundError reports a missing locator document or element key.
type NotFoundError struct {
	Page string
	Key  string
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("Locator not found: %s.%s", e.Page, e.Key)
	}
	return fmt.Sprintf("locator document not found: %s", e.Path)
}

// Stats is a snapshot of registry cache effectiveness for a run.
type Stats struct {
	Hits   int64
	Misses int64
	Loads  int64
}

// Registry loads and caches locator documents from a root directory.
// Documents live at <root>/<page>.yaml (or .yml); each is read from disk at
// most once until ClearCache or Evict. The registry is an explicit value
// constructed at suite start and passed to whatever needs it; there is no
// package-level cache.
type Registry struct {
	root string
	exts []string

	mu    sync.RWMutex
	cache map[string]*Document

	// Counters are atomic so lookups under the read lock stay race-free.
	hits   atomic.Int64
	misses atomic.Int64
	loads  atomic.Int64
}

// New creates a registry rooted at dir.
func New(root string) *Registry {
	return &Registry{
		root:  root,
		exts:  []string{".yaml", ".yml"},
		cache: make(map[string]*Document),
	}
}

// Root returns the locator root directory.
func (r *Registry) Root() string { return r.root }

// Load returns the parsed document for page, reading it from disk on first
// use. The returned document must not be mutated by callers.
func (r *Registry) Load(page string) (*Document, error) {
	r.mu.RLock()
	doc, ok := r.cache[page]
	r.mu.RUnlock()
	if ok {
		r.hits.Add(1)
		return doc, nil
	}
	r.misses.Add(1)

	doc, err := r.readDocument(page)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	// Another caller may have loaded the page meanwhile; the first insert wins
	// so already-handed-out documents stay consistent.
	if existing, ok := r.cache[page]; ok {
		r.mu.Unlock()
		return existing, nil
	}
	r.cache[page] = doc
	r.loads.Add(1)
	r.mu.Unlock()
	return doc, nil
}

// Resolve returns the selector for (page, key), loading the page document if
// needed. Fails with NotFoundError when the key is absent from all three
// fallback namespaces.
func (r *Registry) Resolve(page, key string) (Selector, error) {
	doc, err := r.Load(page)
	if err != nil {
		return Selector{}, err
	}
	sel, ok := doc.Lookup(key)
	if !ok {
		return Selector{}, &NotFoundError{Page: page, Key: key}
	}
	return sel, nil
}

// ListAll returns the full parsed document for a page, through the same
// load/cache path as Resolve.
func (r *Registry) ListAll(page string) (*Document, error) {
	return r.Load(page)
}

// ClearCache drops every cached document. Documents already returned to
// callers remain valid; subsequent loads re-read from disk.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string]*Document)
	r.mu.Unlock()
}

// Evict drops a single page from the cache.
func (r *Registry) Evict(page string) {
	r.mu.Lock()
	delete(r.cache, page)
	r.mu.Unlock()
}

// Stats returns a snapshot of cache statistics.
func (r *Registry) Stats() Stats {
	return Stats{
		Hits:   r.hits.Load(),
		Misses: r.misses.Load(),
		Loads:  r.loads.Load(),
	}
}

// documentPath resolves the on-disk path for a page, trying each known
// extension. Returns the absolute path of the first candidate that exists,
// or the absolute path of the primary candidate when none do.
func (r *Registry) documentPath(page string) (string, bool) {
	var primary string
	for i, ext := range r.exts {
		p := filepath.Join(r.root, page+ext)
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if i == 0 {
			primary = p
		}
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return primary, false
}

func (r *Registry) readDocument(page string) (*Document, error) {
	path, exists := r.documentPath(page)
	if !exists {
		return nil, &NotFoundError{Page: page, Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locator document %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse locator document %s: %w", path, err)
	}

	doc := &Document{
		Page:     page,
		Path:     path,
		sections: map[string]map[string]Selector{"": {}},
	}
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			doc.sections[""][key] = ParseSelector(v)
		case map[string]interface{}:
			sec := make(map[string]Selector, len(v))
			for elemKey, elemVal := range v {
				s, ok := elemVal.(string)
				if !ok {
					return nil, fmt.Errorf("locator %s.%s.%s: selector must be a string, got %T", page, key, elemKey, elemVal)
				}
				sec[elemKey] = ParseSelector(s)
			}
			doc.sections[key] = sec
		default:
			return nil, fmt.Errorf("locator %s.%s: expected selector string or mapping, got %T", page, key, value)
		}
	}
	return doc, nil
}
