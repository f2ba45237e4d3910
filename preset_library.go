package postlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const presetExt = ".md"

// PresetLibrary keeps presets as markdown documents in a local directory, one file per slug.
type PresetLibrary struct {
	rootDir string
	format  FrontmatterFormat
}

// NewPresetLibrary creates a PresetLibrary rooted at rootDir that writes frontmatter in format.
func NewPresetLibrary(rootDir string, format FrontmatterFormat) *PresetLibrary {
	return &PresetLibrary{rootDir: rootDir, format: format}
}

// Walk decodes every preset below the root directory. Presets without a slug take their
// file name as slug.
func (l *PresetLibrary) Walk(ctx context.Context) (<-chan *Preset, <-chan error) {
	presets := make(chan *Preset)
	errs := make(chan error, 1)

	go func() {
		defer close(presets)
		defer close(errs)

		err := filepath.WalkDir(l.rootDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != presetExt {
				return nil
			}

			p, err := l.readFile(path)
			if err != nil {
				return err
			}

			select {
			case presets <- p:
			case <-ctx.Done():
				return ctx.Err()
			}

			return nil
		})

		if err != nil {
			errs <- err
		}
	}()

	return presets, errs
}

// Read decodes the preset with the given slug.
func (l *PresetLibrary) Read(_ context.Context, slug string) (*Preset, error) {
	p, err := l.readFile(l.buildPath(slug))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: preset %s", ErrResourceNotFound, slug)
	}
	return p, err
}

// Write stores the preset, replacing any preset with the same slug. A preset without a slug is
// stored under its sanitized title.
func (l *PresetLibrary) Write(_ context.Context, p *Preset) error {
	if p.Slug == "" {
		p.Slug = Sanitize(p.Title)
	}
	if p.Slug == "" {
		return fmt.Errorf("%w: preset needs a title or slug", ErrInvalidPreset)
	}

	data, err := EncodePreset(p, l.format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(l.rootDir, 0755); err != nil {
		return err
	}

	return atomic.WriteFile(l.buildPath(p.Slug), bytes.NewReader(data))
}

// Delete removes the preset with the given slug.
func (l *PresetLibrary) Delete(_ context.Context, slug string) error {
	err := os.Remove(l.buildPath(slug))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: preset %s", ErrResourceNotFound, slug)
	}
	return err
}

func (l *PresetLibrary) readFile(path string) (*Preset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p, err := DecodePreset(content)
	if err != nil {
		return nil, fmt.Errorf("error processing preset file %s: %w", path, err)
	}

	if p.Slug == "" {
		p.Slug = strings.TrimSuffix(filepath.Base(path), presetExt)
	}

	return p, nil
}

func (l *PresetLibrary) buildPath(slug string) string {
	return filepath.Join(l.rootDir, Sanitize(slug)+presetExt)
}
