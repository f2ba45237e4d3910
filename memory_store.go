package postlist

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// SaveHook is called after a post list is saved. Hosts use it to dispatch their own save
// events, which may re-enter the Manager.
type SaveHook func(ctx context.Context, pl *PostList)

// MemoryStore implements PostListStore and DesignStore using in-memory storage
type MemoryStore struct {
	lists   map[string]*PostList
	designs map[string]*Design
	onSave  SaveHook
	mu      sync.RWMutex
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lists:   make(map[string]*PostList),
		designs: make(map[string]*Design),
	}
}

// OnSave registers a hook that runs after every Save
func (m *MemoryStore) OnSave(hook SaveHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onSave = hook
}

// Find returns the post list matching the lookup
func (m *MemoryStore) Find(_ context.Context, lookup Lookup) (*PostList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pl, exists := m.lists[ResourceKey(lookup.Type, lookup.ID)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, ResourceKey(lookup.Type, lookup.ID))
	}

	if len(lookup.Statuses) > 0 && !slices.Contains(lookup.Statuses, pl.Status) {
		return nil, fmt.Errorf("%w: %s has status %s", ErrResourceNotFound, pl.Key(), pl.Status)
	}

	return clonePostList(pl)
}

// Save stores a copy of the post list
func (m *MemoryStore) Save(ctx context.Context, pl *PostList) error {
	clone, err := clonePostList(pl)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.lists[pl.Key()] = clone
	hook := m.onSave
	m.mu.Unlock()

	if hook != nil {
		hook(ctx, pl)
	}
	return nil
}

// Search returns a page of post lists ordered by ID
func (m *MemoryStore) Search(_ context.Context, opts SearchOptions) (Paginator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	opts = opts.Normalize()

	var filtered []*PostList
	for _, pl := range m.lists {
		if m.postListMatches(pl, opts) {
			clone, err := clonePostList(pl)
			if err != nil {
				return Paginator{}, err
			}
			filtered = append(filtered, clone)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].ID < filtered[j].ID
	})

	start, end := PageBounds(opts.PageNum, opts.PageSize, len(filtered))
	return NewPaginator(filtered[start:end], len(filtered), opts.PageNum, opts.PageSize), nil
}

// postListMatches checks if a post list matches the provided options
func (m *MemoryStore) postListMatches(pl *PostList, opts SearchOptions) bool {
	if pl.Type != ResourceTypePostList {
		return false
	}

	if len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, pl.Status) {
		return false
	}

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	if query == "" {
		return true
	}

	return strings.Contains(strings.ToLower(pl.Title), query) || strings.Contains(pl.Slug, query)
}

// GetDesign returns a copy of the design with the given slug
func (m *MemoryStore) GetDesign(_ context.Context, slug string) (*Design, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, exists := m.designs[slug]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrDesignNotFound, slug)
	}

	clone := *d
	return &clone, nil
}

// SaveDesign stores a copy of the design, moving it from oldSlug when the slug changed
func (m *MemoryStore) SaveDesign(_ context.Context, oldSlug string, d *Design) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldSlug != "" && oldSlug != d.Slug {
		delete(m.designs, oldSlug)
	}

	clone := *d
	m.designs[d.Slug] = &clone
	return nil
}

// DeleteDesign removes the design with the given slug
func (m *MemoryStore) DeleteDesign(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.designs, slug)
	return nil
}

// DesignCount returns the number of stored designs
func (m *MemoryStore) DesignCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.designs)
}

// clonePostList returns a deep copy so callers never share maps or slices with the store
func clonePostList(pl *PostList) (*PostList, error) {
	data, err := pl.Serialize()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize post list: %w", err)
	}
	return DeserializePostList(data)
}
