package postlist

import (
	"encoding/json"
	"fmt"
	"slices"
)

// ResourceTypePostList is the resource type of every PostList.
const ResourceTypePostList = "post_list"

// Status is the publishing status of a post list.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPrivate Status = "private"
	StatusPublish Status = "publish"
	StatusPending Status = "pending"
	StatusFuture  Status = "future"
	StatusTrash   Status = "trash"
)

// String returns the string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// LiveStatuses are the statuses on which a save compiles the submission.
func LiveStatuses() []Status {
	return []Status{StatusPrivate, StatusPublish, StatusPending, StatusFuture}
}

// ActiveStatuses are every status except trash.
func ActiveStatuses() []Status {
	return append([]Status{StatusDraft}, LiveStatuses()...)
}

// IsLive returns true if saving with this status compiles the submission.
func (s Status) IsLive() bool {
	return slices.Contains(LiveStatuses(), s)
}

// PostList is a persisted filter plus the slug of the design that renders its matches.
type PostList struct {
	ID     int64      `json:"id"`     // ID is assigned by the host
	Type   string     `json:"type"`   // Type is always ResourceTypePostList for post lists
	Title  string     `json:"title"`  // Title is the display title
	Slug   string     `json:"slug"`   // Slug identifies the post list; empty until the first save
	Status Status     `json:"status"` // Status is the publishing status
	Filter FilterSpec `json:"filter"` // Filter is the compiled filter, including DesignSlug
}

// NewPostList returns a draft post list with the default filter.
func NewPostList(id int64, title string) *PostList {
	return &PostList{
		ID:     id,
		Type:   ResourceTypePostList,
		Title:  title,
		Status: StatusDraft,
		Filter: DefaultFilterSpec(),
	}
}

// DesignSlug returns the slug of the linked design.
func (pl *PostList) DesignSlug() string {
	return pl.Filter.DesignSlug
}

// IsTrashed returns true if the post list is in the trash.
func (pl *PostList) IsTrashed() bool {
	return pl.Status == StatusTrash
}

// Key returns the unique key of the post list in a store
func (pl *PostList) Key() string {
	return ResourceKey(pl.Type, pl.ID)
}

// ResourceKey returns the unique key for a resource of the given type and ID
func ResourceKey(resourceType string, id int64) string {
	return fmt.Sprintf("%s/%d", resourceType, id)
}

// Serialize serializes the post list to a byte slice
func (pl *PostList) Serialize() ([]byte, error) {
	return json.Marshal(pl)
}

// DeserializePostList deserializes the byte slice to a post list
func DeserializePostList(data []byte) (*PostList, error) {
	var pl PostList
	if err := json.Unmarshal(data, &pl); err != nil {
		return nil, err
	}
	return &pl, nil
}
