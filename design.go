package postlist

import "encoding/json"

// Design holds the template fragments that render a post list: Before and After once per list,
// Content once per matched item, and Empty when nothing matched.
type Design struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Before  string `json:"before"`
	Content string `json:"content"`
	After   string `json:"after"`
	Empty   string `json:"empty"`
}

// DesignContent is the part of a design edited together with its post list.
type DesignContent struct {
	Before  string `json:"before" yaml:"before,omitempty" toml:"before,omitempty"`
	Content string `json:"content" yaml:"-" toml:"-"`
	After   string `json:"after" yaml:"after,omitempty" toml:"after,omitempty"`
	Empty   string `json:"empty" yaml:"empty,omitempty" toml:"empty,omitempty"`
}

// DesignContentFromFields reads the design fragments of a submission. Missing fragments are
// empty, and the empty message is only read when its enable flag was submitted too.
func DesignContentFromFields(fields Fields) DesignContent {
	content := DesignContent{
		Before:  fields.Raw(FieldBefore),
		Content: fields.Raw(FieldContent),
		After:   fields.Raw(FieldAfter),
	}

	if fields.Has(FieldEmptyEnable) && fields.Has(FieldEmptyMessage) {
		content.Empty = fields.Raw(FieldEmptyMessage)
	}

	return content
}

// Apply overwrites the fragments of the design.
func (d *Design) Apply(content DesignContent) {
	d.Before = content.Before
	d.Content = content.Content
	d.After = content.After
	d.Empty = content.Empty
}

// Fragments returns the design's fragments.
func (d *Design) Fragments() DesignContent {
	return DesignContent{
		Before:  d.Before,
		Content: d.Content,
		After:   d.After,
		Empty:   d.Empty,
	}
}

// Serialize serializes the design to a byte slice
func (d *Design) Serialize() ([]byte, error) {
	return json.Marshal(d)
}

// DeserializeDesign deserializes the byte slice to a design
func DeserializeDesign(data []byte) (*Design, error) {
	var d Design
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
