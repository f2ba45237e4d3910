package postlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var presetValidator = validator.New(validator.WithRequiredStructEnabled())

// Preset is a portable post list: its filter plus the fragments of its design. As a document,
// everything but the design's content template lives in the frontmatter and the template is the body.
type Preset struct {
	Title    string        `yaml:"title" toml:"title" validate:"required"`
	Slug     string        `yaml:"slug,omitempty" toml:"slug,omitempty"`
	Markdown bool          `yaml:"markdown,omitempty" toml:"markdown,omitempty"` // Markdown marks a body written in markdown
	Filter   FilterSpec    `yaml:"filter" toml:"filter"`
	Design   DesignContent `yaml:"design" toml:"design"`
}

// tomlPreset is the TOML form of a Preset.
type tomlPreset struct {
	Title    string         `toml:"title"`
	Slug     string         `toml:"slug,omitempty"`
	Markdown bool           `toml:"markdown,omitempty"`
	Filter   tomlFilterSpec `toml:"filter"`
	Design   DesignContent  `toml:"design"`
}

// tomlFilterSpec is a FilterSpec whose per content type maps are keyed by plain strings.
type tomlFilterSpec struct {
	FilterSpec
	TaxQueries  map[string]TaxQuery    `toml:"taxQueries"`
	ParentScope map[string]ParentScope `toml:"parentScope"`
}

func newTOMLPreset(p *Preset) *tomlPreset {
	return &tomlPreset{
		Title:    p.Title,
		Slug:     p.Slug,
		Markdown: p.Markdown,
		Filter: tomlFilterSpec{
			FilterSpec:  p.Filter,
			TaxQueries:  stringKeys(p.Filter.TaxQueries),
			ParentScope: stringKeys(p.Filter.ParentScope),
		},
		Design: p.Design,
	}
}

func (t *tomlPreset) preset() *Preset {
	filter := t.Filter.FilterSpec
	filter.TaxQueries = contentTypeKeys(t.Filter.TaxQueries)
	filter.ParentScope = contentTypeKeys(t.Filter.ParentScope)
	return &Preset{
		Title:    t.Title,
		Slug:     t.Slug,
		Markdown: t.Markdown,
		Filter:   filter,
		Design:   t.Design,
	}
}

func stringKeys[V any](m map[ContentType]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func contentTypeKeys[V any](m map[string]V) map[ContentType]V {
	if m == nil {
		return nil
	}
	out := make(map[ContentType]V, len(m))
	for k, v := range m {
		out[ContentType(k)] = v
	}
	return out
}

// Validate checks the preset's title and filter settings.
func (p *Preset) Validate() error {
	if err := presetValidator.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	return nil
}

// EncodePreset writes the preset as a markdown document with frontmatter in the given format.
func EncodePreset(p *Preset, format FrontmatterFormat) ([]byte, error) {
	delim, err := format.delimiter()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case FrontmatterYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("failed to encode yaml frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml frontmatter: %w", err)
		}
	case FrontmatterTOML:
		if err := toml.NewEncoder(&buf).Encode(newTOMLPreset(p)); err != nil {
			return nil, fmt.Errorf("failed to encode toml frontmatter: %w", err)
		}
	}

	return []byte(fmt.Sprintf("%s\n%s%s\n\n%s", delim, buf.String(), delim, p.Design.Content)), nil
}

// DecodePreset reads a preset document. Settings missing from the frontmatter keep their
// defaults, and a markdown body is converted to HTML.
func DecodePreset(data []byte) (*Preset, error) {
	p := &Preset{Filter: DefaultFilterSpec()}

	var target any = p
	var shadow *tomlPreset
	if format, ok := frontmatterFormatOf(data); ok && format == FrontmatterTOML {
		shadow = newTOMLPreset(p)
		target = shadow
	}

	found, err := DecodeFrontmatter(data, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: missing frontmatter", ErrInvalidPreset)
	}
	if shadow != nil {
		p = shadow.preset()
	}

	body := splitBody(data)
	p.Design.Content = string(body)
	if p.Markdown {
		if p.Design.Content, err = RenderMarkdown(body); err != nil {
			return nil, err
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ExportPreset captures the post list with the given ID and its design as a preset.
// A design that went missing exports empty.
func (m *Manager) ExportPreset(ctx context.Context, id int64) (*Preset, error) {
	pl, err := m.lists.Find(ctx, Lookup{ID: id, Type: ResourceTypePostList})
	if err != nil {
		return nil, fmt.Errorf("error finding post list %d: %w", id, err)
	}

	p := &Preset{
		Title:  pl.Title,
		Slug:   pl.Slug,
		Filter: pl.Filter,
	}
	p.Filter.DesignSlug = ""

	if m.policy.IsPlaceholder(pl.DesignSlug()) {
		return p, nil
	}

	design, err := m.designs.GetDesign(ctx, pl.DesignSlug())
	switch {
	case errors.Is(err, ErrDesignNotFound):
		m.logger.Warn("exporting post list without its design",
			slog.Int64("id", id),
			slog.String("design", pl.DesignSlug()))
	case err != nil:
		return nil, fmt.Errorf("error getting design %s: %w", pl.DesignSlug(), err)
	default:
		p.Design = design.Fragments()
	}

	return p, nil
}

// ApplyPreset replaces the filter and design fragments of a draft or live post list with the
// preset's. The design is linked exactly as on Save.
func (m *Manager) ApplyPreset(ctx context.Context, id int64, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}

	pl, err := m.find(ctx, id, ActiveStatuses()...)
	if err != nil {
		return err
	}
	if pl == nil {
		return fmt.Errorf("%w: post list %d", ErrResourceNotFound, id)
	}

	if !m.enter(id) {
		return nil
	}
	defer m.leave(id)

	if err := m.initDraft(ctx, pl); err != nil {
		return err
	}

	designSlug, err := m.linker.LinkContent(ctx, pl.DesignSlug(), m.policy.DesignSlug(pl.Slug), p.Design)
	if err != nil {
		return fmt.Errorf("error linking design of post list %d: %w", pl.ID, err)
	}

	pl.Filter = p.Filter
	pl.Filter.DesignSlug = designSlug

	if err := m.lists.Save(ctx, pl); err != nil {
		return fmt.Errorf("error saving post list %d: %w", pl.ID, err)
	}
	return nil
}
