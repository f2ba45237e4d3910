package postlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Linker keeps the design of a post list in step with the post list's slug.
type Linker struct {
	designs DesignStore
	policy  SlugPolicy
	logger  *slog.Logger
}

// NewLinker creates a Linker that stores designs in designs and names them with policy.
func NewLinker(designs DesignStore, policy SlugPolicy, logger *slog.Logger) *Linker {
	if logger == nil {
		logger = defaultLogger()
	}
	return &Linker{designs: designs, policy: policy, logger: logger}
}

// Link loads the design stored under existingSlug, renames it to derivedSlug when that differs and
// is not a placeholder, overwrites its fragments from the submission and saves it. It returns the
// design's final slug, which belongs in FilterSpec.DesignSlug.
func (l *Linker) Link(ctx context.Context, existingSlug, derivedSlug string, fields Fields) (string, error) {
	return l.LinkContent(ctx, existingSlug, derivedSlug, DesignContentFromFields(fields))
}

// LinkContent is Link with the fragments already extracted.
func (l *Linker) LinkContent(ctx context.Context, existingSlug, derivedSlug string, content DesignContent) (string, error) {
	placeholder := l.policy.IsPlaceholder(derivedSlug)
	if existingSlug == "" && placeholder {
		// Nothing to link to until the post list has a slug.
		return "", nil
	}

	design, err := l.loadOrCreate(ctx, existingSlug)
	if err != nil {
		return "", err
	}

	if !placeholder {
		if newSlug := Sanitize(derivedSlug); newSlug != "" && newSlug != design.Slug {
			l.logger.Debug("renaming design",
				slog.String("from", design.Slug),
				slog.String("to", newSlug))
			design.Title = derivedSlug
			design.Slug = newSlug
		}
	}

	design.Apply(content)

	if err := l.designs.SaveDesign(ctx, existingSlug, design); err != nil {
		return "", fmt.Errorf("error saving design %s: %w", design.Slug, err)
	}

	return design.Slug, nil
}

// Rename moves the design stored under existingSlug to newSlug, keeping its fragments. A design
// that went missing, or that was never linked, is created empty under newSlug. With a placeholder
// newSlug nothing moves and existingSlug stays the link.
func (l *Linker) Rename(ctx context.Context, existingSlug, newSlug string) (string, error) {
	if l.policy.IsPlaceholder(newSlug) {
		if l.policy.IsPlaceholder(existingSlug) {
			return "", nil
		}
		return existingSlug, nil
	}

	design, err := l.loadOrCreate(ctx, existingSlug)
	if err != nil {
		return "", err
	}

	from := existingSlug
	if l.policy.IsPlaceholder(from) {
		l.logger.Debug("no design linked, creating it", slog.String("slug", newSlug))
		from = ""
	}

	design.Title = newSlug
	design.Slug = Sanitize(newSlug)

	if err := l.designs.SaveDesign(ctx, from, design); err != nil {
		return "", fmt.Errorf("error renaming design %s to %s: %w", existingSlug, design.Slug, err)
	}

	return design.Slug, nil
}

// Delete removes the design stored under slug. Placeholders are ignored.
func (l *Linker) Delete(ctx context.Context, slug string) error {
	if l.policy.IsPlaceholder(slug) {
		return nil
	}

	if err := l.designs.DeleteDesign(ctx, slug); err != nil {
		return fmt.Errorf("error deleting design %s: %w", slug, err)
	}
	return nil
}

// loadOrCreate returns the design stored under slug, or a new one when the link points nowhere.
func (l *Linker) loadOrCreate(ctx context.Context, slug string) (*Design, error) {
	if l.policy.IsPlaceholder(slug) {
		return &Design{}, nil
	}

	design, err := l.designs.GetDesign(ctx, slug)
	if errors.Is(err, ErrDesignNotFound) {
		l.logger.Debug("design missing, creating it", slog.String("slug", slug))
		return &Design{Slug: slug, Title: slug}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting design %s: %w", slug, err)
	}

	return design, nil
}
