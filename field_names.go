package postlist

import (
	"strconv"
	"strings"
)

// FieldPrefix namespaces every field submitted by the post list edit screen.
const FieldPrefix = "pl_"

// Field names for the scalar settings of a post list.
const (
	FieldPageSize       = FieldPrefix + "posts_per_page"
	FieldOrderBy        = FieldPrefix + "order_by"
	FieldOrder          = FieldPrefix + "order"
	FieldStatusPrimary  = FieldPrefix + "post_status_1"
	FieldStatusExtra    = FieldPrefix + "post_status_2"
	FieldPermission     = FieldPrefix + "perm"
	FieldAuthorMode     = FieldPrefix + "author_mode"
	FieldAuthorIDs      = FieldPrefix + "author_in"
	FieldExcludedIDs    = FieldPrefix + "post_not_in"
	FieldSticky         = FieldPrefix + "sticky_posts"
	FieldExcludeCurrent = FieldPrefix + "exclude_current"
	FieldExcludeDupes   = FieldPrefix + "exclude_dupes"

	FieldBefore       = FieldPrefix + "before"
	FieldContent      = FieldPrefix + "content"
	FieldAfter        = FieldPrefix + "after"
	FieldEmptyEnable  = FieldPrefix + "empty_enable"
	FieldEmptyMessage = FieldPrefix + "empty_message"
)

// RequireToken is submitted among a content type's taxonomies to require every
// taxonomy clause to match instead of any of them.
const RequireToken = "require"

// AnyTermToken marks the "any term" checkbox of a taxonomy.
const AnyTermToken = "any"

func fieldName(parts ...string) string {
	return FieldPrefix + strings.Join(parts, "-")
}

// ToggleField is set when the content type is active.
func ToggleField(ct ContentType) string {
	return fieldName("toggle", ct.String())
}

// TaxonomiesField lists the active taxonomies of a content type.
func TaxonomiesField(ct ContentType) string {
	return fieldName("taxonomies", ct.String())
}

// TermsRequiredField is set when every selected term of a taxonomy must match.
func TermsRequiredField(ct ContentType, taxonomy string) string {
	return fieldName("terms_req", ct.String(), taxonomy)
}

// TermsDynamicField is set when a taxonomy's terms resolve from the viewing context.
func TermsDynamicField(ct ContentType, taxonomy string) string {
	return fieldName("terms_dynamic", ct.String(), taxonomy)
}

// TermField is set when the term is selected.
func TermField(ct ContentType, taxonomy string, termID int64) string {
	return fieldName("term", ct.String(), taxonomy, strconv.FormatInt(termID, 10))
}

// AnyTermField is set when any term of the taxonomy matches.
func AnyTermField(ct ContentType, taxonomy string) string {
	return fieldName("term", ct.String(), taxonomy, AnyTermToken)
}

// ParentDynamicField is set when a hierarchical type uses the viewing context's parent.
func ParentDynamicField(ct ContentType) string {
	return fieldName("parent_dynamic", ct.String())
}

// ParentField is set when the item is selected as a parent.
func ParentField(ct ContentType, itemID int64) string {
	return fieldName("parent", ct.String(), strconv.FormatInt(itemID, 10))
}
