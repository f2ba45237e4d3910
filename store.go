package postlist

import "context"

// Lookup identifies the resource a lifecycle event refers to. Events fire for every resource
// type, so a lookup only matches when ID, Type and one of Statuses all agree.
type Lookup struct {
	ID       int64
	Type     string
	Statuses []Status // Statuses restricts the match; empty matches every status
}

// SearchOptions contains the options to search post lists.
type SearchOptions struct {
	Query    string   // Query matches the title or slug. Empty matches everything.
	Statuses []Status // Statuses restricts the results; empty matches every status.
	PageNum  int      // The page number to retrieve
	PageSize int      // The number of items per page
}

// Normalize fills in the paging defaults.
func (o SearchOptions) Normalize() SearchOptions {
	if o.PageNum < 1 {
		o.PageNum = 1
	}
	if o.PageSize < 1 {
		o.PageSize = 10
	}
	return o
}

// PostListStore persists post lists.
type PostListStore interface {
	// Find returns the resource matching the lookup, or ErrResourceNotFound.
	Find(ctx context.Context, lookup Lookup) (*PostList, error)
	// Save creates or replaces a post list.
	Save(ctx context.Context, pl *PostList) error
	// Search returns a page of post lists matching the options.
	Search(ctx context.Context, opts SearchOptions) (Paginator, error)
}

// DesignStore persists designs, keyed by slug.
type DesignStore interface {
	// GetDesign returns the design with the given slug, or ErrDesignNotFound.
	GetDesign(ctx context.Context, slug string) (*Design, error)
	// SaveDesign creates or replaces a design. When oldSlug is set and differs from d.Slug
	// the design stored under oldSlug is moved to d.Slug.
	SaveDesign(ctx context.Context, oldSlug string, d *Design) error
	// DeleteDesign removes a design. Deleting a missing design is not an error.
	DeleteDesign(ctx context.Context, slug string) error
}
