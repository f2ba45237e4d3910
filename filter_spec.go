package postlist

import (
	"encoding/json"
	"slices"
)

// Tokens shared by several FilterSpec fields.
const (
	TokenAny  = "any"
	TokenNone = "none"
)

// Sort directions.
const (
	OrderASC  = "ASC"
	OrderDESC = "DESC"
)

// Relations between the clauses of a TaxQuery.
const (
	RelationAND = "AND"
	RelationOR  = "OR"
)

// Term operators of a TaxClause.
const (
	OperatorIN  = "IN"
	OperatorAND = "AND"
)

// DefaultPageSize is the number of items shown when no page size was submitted.
const DefaultPageSize = 5

// StatusMode tells how a StatusFilter is interpreted.
type StatusMode string

const (
	StatusModeAny  StatusMode = "any"  // items of every status
	StatusModeNone StatusMode = "none" // no status restriction is passed on
	StatusModeSet  StatusMode = "set"  // only the listed statuses
)

// StatusFilter restricts the item statuses a list includes.
type StatusFilter struct {
	Mode     StatusMode `json:"mode" yaml:"mode" toml:"mode" validate:"oneof=any none set"`
	Statuses []string   `json:"statuses,omitempty" yaml:"statuses,omitempty" toml:"statuses,omitempty"`
}

// ContentTypeSelector is either every content type or an explicit, ordered set.
type ContentTypeSelector struct {
	Any   bool         `json:"any" yaml:"any" toml:"any"`
	Types ContentTypes `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty"`
}

// TaxClause matches items against the terms of one taxonomy.
type TaxClause struct {
	Taxonomy        string  `json:"taxonomy" yaml:"taxonomy" toml:"taxonomy" validate:"required"`
	Field           string  `json:"field" yaml:"field" toml:"field"`
	Terms           []int64 `json:"terms" yaml:"terms" toml:"terms"`
	IncludeChildren bool    `json:"includeChildren" yaml:"includeChildren" toml:"includeChildren"`
	Operator        string  `json:"operator" yaml:"operator" toml:"operator" validate:"oneof=IN AND"`
	Dynamic         bool    `json:"dynamic" yaml:"dynamic" toml:"dynamic"` // Dynamic resolves the terms from the viewing context
}

// TaxQuery is the taxonomy restriction of one content type.
type TaxQuery struct {
	Relation string      `json:"relation" yaml:"relation" toml:"relation" validate:"oneof=AND OR"`
	Clauses  []TaxClause `json:"clauses" yaml:"clauses" toml:"clauses" validate:"dive"`
}

// ParentScope restricts a hierarchical content type to children of the given parents.
// When Dynamic is set the viewing context's parent is authoritative and ParentIDs is the fallback.
type ParentScope struct {
	ParentIDs []int64 `json:"parentIDs" yaml:"parentIDs" toml:"parentIDs"`
	Dynamic   bool    `json:"dynamic" yaml:"dynamic" toml:"dynamic"`
}

// FilterSpec describes which content items a post list includes, in what order and how many.
// It is handed as-is to the content query engine. The TOML encoder cannot handle maps keyed by
// ContentType, so TOML documents go through tomlFilterSpec.
type FilterSpec struct {
	ContentTypes      ContentTypeSelector         `json:"contentTypes" yaml:"contentTypes" toml:"contentTypes"`
	TaxQueries        map[ContentType]TaxQuery    `json:"taxQueries" yaml:"taxQueries" toml:"-" validate:"dive"`
	ParentScope       map[ContentType]ParentScope `json:"parentScope" yaml:"parentScope" toml:"-"`
	PageSize          int                         `json:"pageSize" yaml:"pageSize" toml:"pageSize" validate:"min=-1"`
	OrderBy           string                      `json:"orderBy" yaml:"orderBy" toml:"orderBy" validate:"required"`
	Order             string                      `json:"order" yaml:"order" toml:"order" validate:"oneof=ASC DESC"`
	Status            StatusFilter                `json:"status" yaml:"status" toml:"status"`
	Permission        string                      `json:"permission" yaml:"permission" toml:"permission" validate:"required"`
	AuthorMode        string                      `json:"authorMode" yaml:"authorMode" toml:"authorMode" validate:"required"`
	AuthorIDs         []int64                     `json:"authorIDs" yaml:"authorIDs" toml:"authorIDs"`
	ExcludedIDs       []int64                     `json:"excludedIDs" yaml:"excludedIDs" toml:"excludedIDs"`
	IgnoreSticky      bool                        `json:"ignoreSticky" yaml:"ignoreSticky" toml:"ignoreSticky"`
	ExcludeCurrent    bool                        `json:"excludeCurrent" yaml:"excludeCurrent" toml:"excludeCurrent"`
	ExcludeDuplicates bool                        `json:"excludeDuplicates" yaml:"excludeDuplicates" toml:"excludeDuplicates"`
	DesignSlug        string                      `json:"designSlug" yaml:"designSlug" toml:"designSlug"`
}

// DefaultFilterSpec returns the specification compiled from an empty submission.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		TaxQueries:   map[ContentType]TaxQuery{},
		ParentScope:  map[ContentType]ParentScope{},
		PageSize:     DefaultPageSize,
		OrderBy:      TokenNone,
		Order:        OrderDESC,
		Status:       StatusFilter{Mode: StatusModeAny},
		Permission:   TokenNone,
		AuthorMode:   TokenNone,
		AuthorIDs:    []int64{},
		ExcludedIDs:  []int64{},
		IgnoreSticky: true,
	}
}

// HasOrder returns true if the list is sorted by a key, in which case Order applies.
func (fs *FilterSpec) HasOrder() bool {
	return fs.OrderBy != "" && fs.OrderBy != TokenNone
}

// HasAuthors returns true if the list filters by author.
func (fs *FilterSpec) HasAuthors() bool {
	return fs.AuthorMode != "" && fs.AuthorMode != TokenNone
}

// Includes returns true if items of the given content type can match the list.
func (fs *FilterSpec) Includes(ct ContentType) bool {
	return fs.ContentTypes.Any || slices.Contains(fs.ContentTypes.Types, ct)
}

// TaxQuery returns the taxonomy restriction for ct, if any.
func (fs *FilterSpec) TaxQuery(ct ContentType) (TaxQuery, bool) {
	tq, ok := fs.TaxQueries[ct]
	return tq, ok
}

// Serialize serializes the filter spec to a byte slice
func (fs *FilterSpec) Serialize() ([]byte, error) {
	return json.Marshal(fs)
}

// DeserializeFilterSpec deserializes the byte slice to a filter spec
func DeserializeFilterSpec(data []byte) (FilterSpec, error) {
	var spec FilterSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return FilterSpec{}, err
	}
	return spec, nil
}
