package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bitwharf/bucketeer/internal/models"
	"github.com/bitwharf/bucketeer/internal/utils"
	"github.com/minio/minio-go/v7"
)

// RootLabel is the name of the breadcrumb segment that leaves the bucket.
const RootLabel = "Buckets"

// Navigator projects the flat key space of one bucket into a navigable
// hierarchy. It owns the current context (bucket, prefix), the last-fetched
// listing, the selection set, and the filter query; nothing else mutates
// them. The listing is recomputed on every navigation, never patched in
// place.
type Navigator struct {
	mu        sync.Mutex
	bucket    string
	prefix    string
	entries   []models.ObjectEntry
	selection map[string]struct{}
	query     string
}

func NewNavigator() *Navigator {
	return &Navigator{selection: make(map[string]struct{})}
}

// Context returns the current (bucket, prefix). An empty bucket means the
// bucket list, not an object listing.
func (n *Navigator) Context() (bucket, prefix string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bucket, n.prefix
}

// SetContext moves to (bucket, prefix). Any change of context clears the
// selection set, the filter query, and the stale listing; selections never
// survive across contexts.
func (n *Navigator) SetContext(bucket, prefix string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if bucket == n.bucket && prefix == n.prefix {
		return
	}
	n.bucket = bucket
	n.prefix = prefix
	n.entries = nil
	n.selection = make(map[string]struct{})
	n.query = ""
}

// Reset clears all navigator state. Called on connect and disconnect.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bucket = ""
	n.prefix = ""
	n.entries = nil
	n.selection = make(map[string]struct{})
	n.query = ""
}

// ListCurrent fetches a delimited listing for the current context and
// replaces the in-memory listing with the result. Folders (common prefixes)
// come first in store order, then files in store order; an object whose key
// exactly equals the prefix is a folder marker and is never shown as a file.
// On failure the listing is cleared so a previous context's entries cannot
// be displayed under the new breadcrumbs.
func (n *Navigator) ListCurrent(ctx context.Context, store StoreClient) ([]models.ObjectEntry, error) {
	n.mu.Lock()
	bucket, prefix := n.bucket, n.prefix
	n.mu.Unlock()

	if bucket == "" {
		return nil, wrapErr(KindListing, "no bucket selected", nil)
	}

	raw, err := store.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	})
	if err != nil {
		n.mu.Lock()
		if n.bucket == bucket && n.prefix == prefix {
			n.entries = nil
			n.selection = make(map[string]struct{})
		}
		n.mu.Unlock()
		return nil, wrapErr(KindListing, fmt.Sprintf("list %s/%s failed", bucket, prefix), err)
	}

	var folders, files []models.ObjectEntry
	seen := make(map[string]bool)

	for _, obj := range raw {
		if strings.HasSuffix(obj.Key, "/") {
			// The marker object at the prefix itself is not a child.
			if obj.Key == prefix || seen[obj.Key] {
				continue
			}
			seen[obj.Key] = true
			folders = append(folders, models.ObjectEntry{Key: obj.Key, IsFolder: true})
			continue
		}
		if obj.Key == prefix {
			continue
		}
		files = append(files, models.ObjectEntry{
			Key:           obj.Key,
			Size:          uint64(obj.Size),
			FormattedSize: utils.FormatFileSize(obj.Size),
			LastModified:  obj.LastModified,
		})
	}

	entries := append(folders, files...)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.bucket != bucket || n.prefix != prefix {
		// Context moved on while the listing was in flight; discard.
		return nil, nil
	}
	n.entries = entries
	// Keys deleted (or renamed) since the selection was made drop out here.
	valid := make(map[string]struct{}, len(n.selection))
	for _, e := range entries {
		if _, ok := n.selection[e.Key]; ok {
			valid[e.Key] = struct{}{}
		}
	}
	n.selection = valid
	return append([]models.ObjectEntry(nil), entries...), nil
}

// Entries returns a snapshot of the last-fetched listing.
func (n *Navigator) Entries() []models.ObjectEntry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.ObjectEntry(nil), n.entries...)
}

// VisibleEntries returns the listing filtered by the active query.
func (n *Navigator) VisibleEntries() []models.ObjectEntry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return FilterEntries(append([]models.ObjectEntry(nil), n.entries...), n.query)
}

// SetQuery replaces the filter query. Pure display state; no store calls.
func (n *Navigator) SetQuery(query string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.query = query
}

// Query returns the active filter query.
func (n *Navigator) Query() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.query
}

// Breadcrumbs derives the path segments of the current context: a root
// label, the bucket, then one segment per prefix component.
func (n *Navigator) Breadcrumbs() []models.Breadcrumb {
	n.mu.Lock()
	defer n.mu.Unlock()

	crumbs := []models.Breadcrumb{{Name: RootLabel}}
	if n.bucket == "" {
		return crumbs
	}
	crumbs = append(crumbs, models.Breadcrumb{Name: n.bucket, Bucket: n.bucket})

	path := ""
	for _, part := range strings.Split(n.prefix, "/") {
		if part == "" {
			continue
		}
		path += part + "/"
		crumbs = append(crumbs, models.Breadcrumb{Name: part, Bucket: n.bucket, Prefix: path})
	}
	return crumbs
}

// NavigateBreadcrumb moves the context to segment index of Breadcrumbs().
// Index 0 leaves the bucket entirely.
func (n *Navigator) NavigateBreadcrumb(index int) error {
	crumbs := n.Breadcrumbs()
	if index < 0 || index >= len(crumbs) {
		return fmt.Errorf("breadcrumb index %d out of range", index)
	}
	n.SetContext(crumbs[index].Bucket, crumbs[index].Prefix)
	return nil
}

// Select adds or removes key from the selection set. Only members of the
// last-fetched listing are selectable.
func (n *Navigator) Select(key string, selected bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !selected {
		delete(n.selection, key)
		return nil
	}
	for _, e := range n.entries {
		if e.Key == key {
			n.selection[key] = struct{}{}
			return nil
		}
	}
	return fmt.Errorf("key %q is not in the current listing", key)
}

// Selection returns the selected keys in sorted order.
func (n *Navigator) Selection() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	keys := make([]string, 0, len(n.selection))
	for k := range n.selection {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ClearSelection empties the selection set without touching the context.
func (n *Navigator) ClearSelection() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.selection = make(map[string]struct{})
}
