package postlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Manager is the main struct for interacting with the postlist library. It compiles submitted
// post list forms and keeps every post list's design in step with the post list's lifecycle.
type Manager struct {
	compiler    *Compiler
	designs     DesignStore
	inFlight    map[int64]bool
	linker      *Linker
	lists       PostListStore
	logger      *slog.Logger
	mu          sync.Mutex
	policy      SlugPolicy
	titlePrefix string
}

// Options is a struct for configuring a new Manager instance.
type Options struct {
	Catalog     Catalog       // Catalog enumerates content types, taxonomies, terms and items. Required.
	Designs     DesignStore   // Designs stores the designs. Required.
	Logger      *slog.Logger  // Logger is the logger used by the Manager. Default is a debug logger to stderr.
	PostLists   PostListStore // PostLists stores the post lists. Required.
	SlugPolicy  SlugPolicy    // SlugPolicy names designs. Empty suffix and trash marker fall back to the defaults.
	TitlePrefix string        // TitlePrefix starts the title of untitled drafts. Default is "post-list".
}

// New creates a new Manager instance with the provided options.
func New(opts Options) (*Manager, error) {
	if opts.Catalog == nil || opts.PostLists == nil || opts.Designs == nil {
		return nil, fmt.Errorf("%w: Catalog, PostLists and Designs are required", ErrMissingStore)
	}

	if opts.Logger == nil {
		opts.Logger = defaultLogger()
	}

	if opts.SlugPolicy.Suffix == "" {
		opts.SlugPolicy.Suffix = DefaultDesignSlugSuffix
	}

	if opts.SlugPolicy.TrashMarker == "" {
		opts.SlugPolicy.TrashMarker = DefaultTrashMarker
	}

	if opts.TitlePrefix == "" {
		opts.TitlePrefix = DefaultTitlePrefix
	}

	return &Manager{
		compiler:    NewCompiler(opts.Catalog),
		designs:     opts.Designs,
		inFlight:    make(map[int64]bool),
		linker:      NewLinker(opts.Designs, opts.SlugPolicy, opts.Logger),
		lists:       opts.PostLists,
		logger:      opts.Logger,
		policy:      opts.SlugPolicy,
		titlePrefix: opts.TitlePrefix,
	}, nil
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelDebug,
		}))
}

// Compiler returns the compiler used for submissions.
func (m *Manager) Compiler() *Compiler {
	return m.compiler
}

// SlugPolicy returns the policy used to name designs.
func (m *Manager) SlugPolicy() SlugPolicy {
	return m.policy
}

// Save handles a save of the post list with the given ID.
//
// A draft without a slug first gets one, derived from its title (or from a fallback title when
// that is empty too). Drafts and live post lists then have the submission compiled into their
// filter and their design linked. Post lists in any other status, and IDs that are not post lists,
// are ignored. A Save triggered while the same post list is still being saved returns immediately.
func (m *Manager) Save(ctx context.Context, id int64, fields Fields) error {
	pl, err := m.find(ctx, id, ActiveStatuses()...)
	if err != nil || pl == nil {
		return err
	}

	if !m.enter(id) {
		m.logger.Debug("ignoring re-entrant save", slog.Int64("id", id))
		return nil
	}
	defer m.leave(id)

	switch {
	case pl.Status == StatusDraft:
		if err := m.initDraft(ctx, pl); err != nil {
			return err
		}
	case pl.Status.IsLive():
	default:
		return nil
	}

	return m.process(ctx, pl, fields)
}

// Trash moves the post list into the trash: the trash marker is appended to its slug and its
// design is renamed out of the live namespace. A post list without a design gets an empty one, and
// one without a slug keeps its design where it is.
func (m *Manager) Trash(ctx context.Context, id int64) error {
	pl, err := m.find(ctx, id)
	if err != nil || pl == nil {
		return err
	}

	trashedSlug := m.policy.Trashed(pl.Slug)
	newDesignSlug := ""
	if pl.Slug != "" {
		newDesignSlug = m.policy.TrashedDesignSlug(trashedSlug)
	}

	return m.relink(ctx, pl, trashedSlug, newDesignSlug, StatusTrash)
}

// Untrash restores a trashed post list to draft: the trash marker is removed from its slug and its
// design is renamed back.
func (m *Manager) Untrash(ctx context.Context, id int64) error {
	pl, err := m.find(ctx, id, StatusTrash)
	if err != nil || pl == nil {
		return err
	}

	slug := m.policy.Untrashed(pl.Slug)
	newDesignSlug := ""
	if slug != "" {
		newDesignSlug = m.policy.DesignSlug(slug)
	}

	return m.relink(ctx, pl, slug, newDesignSlug, StatusDraft)
}

// Delete handles the permanent deletion of a trashed post list by deleting its design. The post
// list itself is left to its store.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	pl, err := m.find(ctx, id, StatusTrash)
	if err != nil || pl == nil {
		return err
	}

	m.logger.Debug("deleting design of post list",
		slog.Int64("id", id),
		slog.String("design", pl.DesignSlug()))

	return m.linker.Delete(ctx, pl.DesignSlug())
}

// Search returns a page of post lists.
func (m *Manager) Search(ctx context.Context, opts SearchOptions) (Paginator, error) {
	return m.lists.Search(ctx, opts.Normalize())
}

// find looks up a post list. A miss is not an error: lifecycle events fire for every resource
// type, so both return values are nil.
func (m *Manager) find(ctx context.Context, id int64, statuses ...Status) (*PostList, error) {
	pl, err := m.lists.Find(ctx, Lookup{ID: id, Type: ResourceTypePostList, Statuses: statuses})
	if errors.Is(err, ErrResourceNotFound) {
		m.logger.Debug("no post list for event", slog.Int64("id", id))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding post list %d: %w", id, err)
	}
	return pl, nil
}

// initDraft gives an unnamed draft its slug. The post list is stored directly, so a host that
// dispatches saves from its store re-enters Save and is turned away by the in-flight guard.
func (m *Manager) initDraft(ctx context.Context, pl *PostList) error {
	if pl.Slug != "" {
		return nil
	}

	if pl.Title == "" {
		pl.Title = FallbackTitle(m.titlePrefix, pl.ID)
	}

	pl.Slug = Sanitize(pl.Title)
	if pl.Slug == "" {
		pl.Slug = Sanitize(FallbackTitle(m.titlePrefix, pl.ID))
	}

	if err := m.lists.Save(ctx, pl); err != nil {
		return fmt.Errorf("error saving slug of post list %d: %w", pl.ID, err)
	}
	return nil
}

// process compiles the submission into the post list's filter and links its design.
func (m *Manager) process(ctx context.Context, pl *PostList, fields Fields) error {
	spec, err := m.compiler.Compile(ctx, fields)
	if err != nil {
		return fmt.Errorf("error compiling post list %d: %w", pl.ID, err)
	}

	designSlug, err := m.linker.Link(ctx, pl.DesignSlug(), m.policy.DesignSlug(pl.Slug), fields)
	if err != nil {
		return fmt.Errorf("error linking design of post list %d: %w", pl.ID, err)
	}

	spec.DesignSlug = designSlug
	pl.Filter = spec

	if err := m.lists.Save(ctx, pl); err != nil {
		return fmt.Errorf("error saving post list %d: %w", pl.ID, err)
	}

	m.logger.Debug("post list saved",
		slog.Int64("id", pl.ID),
		slog.String("slug", pl.Slug),
		slog.String("design", designSlug))
	return nil
}

// relink renames the post list and its design together and stores the new status.
func (m *Manager) relink(ctx context.Context, pl *PostList, slug, designSlug string, status Status) error {
	finalDesignSlug, err := m.linker.Rename(ctx, pl.DesignSlug(), designSlug)
	if err != nil {
		return fmt.Errorf("error renaming design of post list %d: %w", pl.ID, err)
	}

	pl.Slug = slug
	pl.Status = status
	pl.Filter.DesignSlug = finalDesignSlug

	if err := m.lists.Save(ctx, pl); err != nil {
		return fmt.Errorf("error saving post list %d: %w", pl.ID, err)
	}
	return nil
}

func (m *Manager) enter(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight[id] {
		return false
	}
	m.inFlight[id] = true
	return true
}

func (m *Manager) leave(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.inFlight, id)
}
