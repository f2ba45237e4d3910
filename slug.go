package postlist

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Slug naming defaults.
const (
	DefaultDesignSlugSuffix = "-design"
	DefaultTrashMarker      = "__trashed"
	DefaultTitlePrefix      = "post-list"
)

// SlugHook transforms a post list slug before the design suffix is appended.
type SlugHook func(postListSlug string) string

// SlugPolicy derives the slug of a post list's design from the post list's own slug.
// ProcessSlug applies to live post lists and TrashSlug to trashed ones; both default to identity.
type SlugPolicy struct {
	Suffix      string   // Suffix is appended to every design slug. Default is "-design".
	TrashMarker string   // TrashMarker is appended to the slug of a trashed post list. Default is "__trashed".
	ProcessSlug SlugHook // ProcessSlug overrides the naming of live designs.
	TrashSlug   SlugHook // TrashSlug overrides the naming of trashed designs.
}

// DefaultSlugPolicy returns the policy used when no overrides are configured.
func DefaultSlugPolicy() SlugPolicy {
	return SlugPolicy{
		Suffix:      DefaultDesignSlugSuffix,
		TrashMarker: DefaultTrashMarker,
	}
}

// DesignSlug returns ProcessSlug(postListSlug) + Suffix. An empty postListSlug yields the
// bare suffix, which IsPlaceholder reports as "no design yet".
func (p SlugPolicy) DesignSlug(postListSlug string) string {
	if postListSlug == "" {
		return p.Suffix
	}
	if p.ProcessSlug != nil {
		postListSlug = p.ProcessSlug(postListSlug)
	}
	return postListSlug + p.Suffix
}

// TrashedDesignSlug returns TrashSlug(trashedSlug) + Suffix for a post list slug that already
// carries the trash marker.
func (p SlugPolicy) TrashedDesignSlug(trashedSlug string) string {
	if trashedSlug == "" {
		return p.Suffix
	}
	if p.TrashSlug != nil {
		trashedSlug = p.TrashSlug(trashedSlug)
	}
	return trashedSlug + p.Suffix
}

// IsPlaceholder returns true for design slugs that must never be resolved or created.
func (p SlugPolicy) IsPlaceholder(designSlug string) bool {
	return designSlug == "" || designSlug == p.Suffix
}

// Trashed appends the trash marker to slug unless it is already there.
func (p SlugPolicy) Trashed(postListSlug string) string {
	if postListSlug == "" || strings.HasSuffix(postListSlug, p.TrashMarker) {
		return postListSlug
	}
	return postListSlug + p.TrashMarker
}

// Untrashed removes the trash marker from slug.
func (p SlugPolicy) Untrashed(postListSlug string) string {
	return strings.TrimSuffix(postListSlug, p.TrashMarker)
}

// FallbackTitle returns the title given to a post list saved without a title or slug.
func FallbackTitle(prefix string, id int64) string {
	return fmt.Sprintf("%s-%d", prefix, id)
}

// Sanitize turns a title into a slug: lowercase ASCII words joined by dashes.
func Sanitize(title string) string {
	return slug.Make(title)
}
