package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hypergopher/postlist"
)

// SQLiteStore stores post lists and designs in SQLite. Post lists live in tableName and designs in
// tableName_designs.
type SQLiteStore struct {
	db        *sql.DB
	tableName string
}

// Open opens the SQLite database at dbPath with WAL journaling and foreign keys enabled.
func Open(dbPath string) (*sql.DB, error) {
	// Note: the busy_timeout pragma must be first because
	// the connection needs to be set to block on busy before WAL mode
	// is set in case it hasn't been already set by another connection.
	pragmas := "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=journal_size_limit(200000000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=temp_store(MEMORY)&_pragma=cache_size(-16000)"

	db, err := sql.Open("sqlite", dbPath+pragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func NewSQLiteStore(db *sql.DB, tableName string) *SQLiteStore {
	return &SQLiteStore{db: db, tableName: tableName}
}

// Init initializes the SQLiteStore, creating the necessary tables or indexes if they do not exist.
func (s *SQLiteStore) Init() error {
	query := `
		-- Table for holding post lists
		CREATE TABLE IF NOT EXISTS ` + s.tableName + ` (
			resource_key TEXT PRIMARY KEY,
			id INTEGER NOT NULL,
			type TEXT NOT NULL,
			title TEXT,
			slug TEXT,
			status TEXT,
			filter_json TEXT,
			created DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Index on type and id
		CREATE UNIQUE INDEX IF NOT EXISTS ` + s.tableName + `_type_id_idx ON ` + s.tableName + `(type, id);

		-- Index on status
		CREATE INDEX IF NOT EXISTS ` + s.tableName + `_status_idx ON ` + s.tableName + `(status);

		-- Table for designs
		CREATE TABLE IF NOT EXISTS ` + s.tableName + `_designs (
			slug TEXT PRIMARY KEY,
			title TEXT,
			before_html TEXT,
			content_html TEXT,
			after_html TEXT,
			empty_html TEXT,
			updated DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Trigger to update the updated timestamp
		CREATE TRIGGER IF NOT EXISTS ` + s.tableName + `_updated AFTER UPDATE ON ` + s.tableName + `
		BEGIN
			UPDATE ` + s.tableName + ` SET updated = CURRENT_TIMESTAMP WHERE resource_key = old.resource_key;
		END;
	`
	_, err := s.db.Exec(query)
	return err
}

// Find returns the post list matching the lookup.
func (s *SQLiteStore) Find(ctx context.Context, lookup postlist.Lookup) (*postlist.PostList, error) {
	query := `SELECT id, type, title, slug, status, filter_json FROM ` + s.tableName + ` WHERE resource_key = ?`
	pl, err := scanPostList(s.db.QueryRowContext(ctx, query, postlist.ResourceKey(lookup.Type, lookup.ID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", postlist.ErrResourceNotFound, postlist.ResourceKey(lookup.Type, lookup.ID))
	}
	if err != nil {
		return nil, err
	}

	if len(lookup.Statuses) > 0 && !slices.Contains(lookup.Statuses, pl.Status) {
		return nil, fmt.Errorf("%w: %s has status %s", postlist.ErrResourceNotFound, pl.Key(), pl.Status)
	}

	return pl, nil
}

// Save creates or replaces the post list.
func (s *SQLiteStore) Save(ctx context.Context, pl *postlist.PostList) error {
	filter, err := pl.Filter.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize filter: %w", err)
	}

	query := `
		INSERT INTO ` + s.tableName + ` (resource_key, id, type, title, slug, status, filter_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(resource_key) DO UPDATE SET
			title = excluded.title,
			slug = excluded.slug,
			status = excluded.status,
			filter_json = excluded.filter_json
	`
	_, err = s.db.ExecContext(ctx, query,
		pl.Key(), pl.ID, pl.Type, pl.Title, pl.Slug, pl.Status.String(), string(filter))
	return err
}

// Search returns the post lists matching the options, ordered by ID.
func (s *SQLiteStore) Search(ctx context.Context, opts postlist.SearchOptions) (postlist.Paginator, error) {
	opts = opts.Normalize()

	where := []string{"type = ?"}
	args := []any{postlist.ResourceTypePostList}

	if len(opts.Statuses) > 0 {
		placeholders := make([]string, 0, len(opts.Statuses))
		for _, status := range opts.Statuses {
			placeholders = append(placeholders, "?")
			args = append(args, status.String())
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if search := strings.TrimSpace(opts.Query); search != "" {
		where = append(where, "(title LIKE ? OR slug LIKE ?)")
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.tableName+clause, args...).Scan(&total); err != nil {
		return postlist.Paginator{}, fmt.Errorf("error counting post lists: %w", err)
	}

	query := `SELECT id, type, title, slug, status, filter_json FROM ` + s.tableName + clause + ` ORDER BY id LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, opts.PageSize, (opts.PageNum-1)*opts.PageSize)...)
	if err != nil {
		return postlist.Paginator{}, fmt.Errorf("error searching for post lists: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var lists []*postlist.PostList
	for rows.Next() {
		pl, err := scanPostList(rows)
		if err != nil {
			return postlist.Paginator{}, err
		}
		lists = append(lists, pl)
	}
	if err := rows.Err(); err != nil {
		return postlist.Paginator{}, err
	}

	return postlist.NewPaginator(lists, total, opts.PageNum, opts.PageSize), nil
}

// GetDesign returns the design with the given slug.
func (s *SQLiteStore) GetDesign(ctx context.Context, slug string) (*postlist.Design, error) {
	query := `SELECT slug, title, before_html, content_html, after_html, empty_html FROM ` + s.tableName + `_designs WHERE slug = ?`

	var d postlist.Design
	err := s.db.QueryRowContext(ctx, query, slug).Scan(&d.Slug, &d.Title, &d.Before, &d.Content, &d.After, &d.Empty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", postlist.ErrDesignNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveDesign stores the design, moving it from oldSlug when that differs.
func (s *SQLiteStore) SaveDesign(ctx context.Context, oldSlug string, d *postlist.Design) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if oldSlug != "" && oldSlug != d.Slug {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+s.tableName+`_designs WHERE slug = ?`, oldSlug); err != nil {
			return err
		}
	}

	query := `
		REPLACE INTO ` + s.tableName + `_designs (slug, title, before_html, content_html, after_html, empty_html)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query, d.Slug, d.Title, d.Before, d.Content, d.After, d.Empty); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteDesign removes the design with the given slug.
func (s *SQLiteStore) DeleteDesign(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM `+s.tableName+`_designs WHERE slug = ?`, slug)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostList(row rowScanner) (*postlist.PostList, error) {
	var (
		pl     postlist.PostList
		status string
		filter string
	)
	if err := row.Scan(&pl.ID, &pl.Type, &pl.Title, &pl.Slug, &status, &filter); err != nil {
		return nil, err
	}

	pl.Status = postlist.Status(status)

	spec, err := postlist.DeserializeFilterSpec([]byte(filter))
	if err != nil {
		return nil, fmt.Errorf("error deserializing filter of %s: %w", pl.Key(), err)
	}
	pl.Filter = spec

	return &pl, nil
}
