package postlist

import (
	"context"
	"slices"
	"sync"
)

// Catalog exposes the host's content model: the registered content types, their taxonomies,
// the terms of each taxonomy and the items of each content type.
type Catalog interface {
	// ContentTypes returns the content types a post list may select, in display order.
	ContentTypes(ctx context.Context) ([]ContentTypeInfo, error)
	// Taxonomies returns the taxonomies attached to a content type. ContentTypeAny yields every taxonomy.
	Taxonomies(ctx context.Context, ct ContentType) ([]string, error)
	// Terms returns the term IDs of a taxonomy in canonical order.
	Terms(ctx context.Context, taxonomy string) ([]int64, error)
	// Items returns the item IDs of a content type, newest first.
	Items(ctx context.Context, ct ContentType) ([]int64, error)
}

// MemoryCatalog implements Catalog using in-memory storage
type MemoryCatalog struct {
	types      []ContentTypeInfo
	taxonomies map[ContentType][]string
	terms      map[string][]int64
	items      map[ContentType][]int64
	mu         sync.RWMutex
}

// NewMemoryCatalog creates a new MemoryCatalog with the given content types
func NewMemoryCatalog(types ...ContentTypeInfo) *MemoryCatalog {
	return &MemoryCatalog{
		types:      types,
		taxonomies: make(map[ContentType][]string),
		terms:      make(map[string][]int64),
		items:      make(map[ContentType][]int64),
	}
}

// AddContentType registers a content type, replacing an existing one with the same key
func (m *MemoryCatalog) AddContentType(info ContentTypeInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.types {
		if t.Key == info.Key {
			m.types[i] = info
			return
		}
	}
	m.types = append(m.types, info)
}

// SetTaxonomies attaches taxonomies to a content type
func (m *MemoryCatalog) SetTaxonomies(ct ContentType, taxonomies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.taxonomies[ct] = taxonomies
}

// AddTerms appends terms to a taxonomy
func (m *MemoryCatalog) AddTerms(taxonomy string, termIDs ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.terms[taxonomy] = append(m.terms[taxonomy], termIDs...)
}

// AddItems adds items to a content type
func (m *MemoryCatalog) AddItems(ct ContentType, itemIDs ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[ct] = append(m.items[ct], itemIDs...)
}

func (m *MemoryCatalog) ContentTypes(_ context.Context) ([]ContentTypeInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.types), nil
}

func (m *MemoryCatalog) Taxonomies(_ context.Context, ct ContentType) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !ct.IsAny() {
		return slices.Clone(m.taxonomies[ct]), nil
	}

	var all []string
	for _, t := range m.types {
		for _, taxonomy := range m.taxonomies[t.Key] {
			if !slices.Contains(all, taxonomy) {
				all = append(all, taxonomy)
			}
		}
	}
	return all, nil
}

func (m *MemoryCatalog) Terms(_ context.Context, taxonomy string) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.terms[taxonomy]), nil
}

func (m *MemoryCatalog) Items(_ context.Context, ct ContentType) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := slices.Clone(m.items[ct])
	slices.SortFunc(items, func(a, b int64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	return items, nil
}
