package postlist

import "slices"

// ContentType is a string key that identifies a kind of content item, such as "post" or "page".
type ContentType string

// ContentTypes is an ordered slice of ContentType.
type ContentTypes []ContentType

// ContentTypeAny selects items of every content type.
const ContentTypeAny ContentType = "any"

// String returns the string representation of the ContentType.
func (ct ContentType) String() string {
	return string(ct)
}

// IsAny returns true if the ContentType is ContentTypeAny.
func (ct ContentType) IsAny() bool {
	return ct == ContentTypeAny
}

// Has returns true if the slice contains ct.
func (cts ContentTypes) Has(ct ContentType) bool {
	return slices.Contains(cts, ct)
}

// ContentTypeInfo describes a content type known to the host.
type ContentTypeInfo struct {
	Key          ContentType `json:"key" yaml:"key" toml:"key"`
	Name         string      `json:"name" yaml:"name" toml:"name"`
	Hierarchical bool        `json:"hierarchical" yaml:"hierarchical" toml:"hierarchical"`
}

// DefaultContentTypes returns the content types of a stock install: posts and hierarchical pages.
func DefaultContentTypes() []ContentTypeInfo {
	return []ContentTypeInfo{
		{Key: "post", Name: "Posts"},
		{Key: "page", Name: "Pages", Hierarchical: true},
	}
}
