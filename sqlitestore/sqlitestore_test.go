package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypergopher/postlist"
	"github.com/hypergopher/postlist/sqlitestore"
)

func setupTestEnvironment(t *testing.T) *sqlitestore.SQLiteStore {
	t.Helper()

	db, err := sqlitestore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create SQLite db")

	store := sqlitestore.NewSQLiteStore(db, "post_lists")
	require.NoError(t, store.Init(), "Failed to init store")

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func createTestPostList(t *testing.T, store *sqlitestore.SQLiteStore, id int64, title, slug string, status postlist.Status) *postlist.PostList {
	t.Helper()

	pl := postlist.NewPostList(id, title)
	pl.Slug = slug
	pl.Status = status
	require.NoError(t, store.Save(context.Background(), pl))
	return pl
}

func TestSQLiteStore_Init(t *testing.T) {
	store := setupTestEnvironment(t)

	// Init is idempotent.
	assert.NoError(t, store.Init())
}

func TestSQLiteStore_FindSave(t *testing.T) {
	ctx := context.Background()
	store := setupTestEnvironment(t)

	pl := createTestPostList(t, store, 1, "News", "news", postlist.StatusDraft)

	found, err := store.Find(ctx, postlist.Lookup{ID: 1, Type: postlist.ResourceTypePostList})
	require.NoError(t, err)
	assert.Equal(t, pl, found)

	pl.Status = postlist.StatusPublish
	pl.Filter.DesignSlug = "news-design"
	pl.Filter.TaxQueries["post"] = postlist.TaxQuery{Relation: postlist.RelationOR, Clauses: []postlist.TaxClause{}}
	require.NoError(t, store.Save(ctx, pl))

	found, err = store.Find(ctx, postlist.Lookup{ID: 1, Type: postlist.ResourceTypePostList, Statuses: postlist.LiveStatuses()})
	require.NoError(t, err)
	assert.Equal(t, pl, found)

	_, err = store.Find(ctx, postlist.Lookup{ID: 1, Type: postlist.ResourceTypePostList, Statuses: []postlist.Status{postlist.StatusTrash}})
	assert.ErrorIs(t, err, postlist.ErrResourceNotFound)

	_, err = store.Find(ctx, postlist.Lookup{ID: 2, Type: postlist.ResourceTypePostList})
	assert.ErrorIs(t, err, postlist.ErrResourceNotFound)
}

func TestSQLiteStore_Search(t *testing.T) {
	ctx := context.Background()
	store := setupTestEnvironment(t)

	createTestPostList(t, store, 3, "Upcoming Events", "upcoming-events", postlist.StatusPublish)
	createTestPostList(t, store, 1, "Latest News", "latest-news", postlist.StatusPublish)
	createTestPostList(t, store, 2, "Old News", "old-news__trashed", postlist.StatusTrash)

	testCases := []struct {
		name        string
		opts        postlist.SearchOptions
		expectedIDs []int64
		total       int
	}{
		{"all", postlist.SearchOptions{}, []int64{1, 2, 3}, 3},
		{"query", postlist.SearchOptions{Query: "news"}, []int64{1, 2}, 2},
		{"status", postlist.SearchOptions{Statuses: []postlist.Status{postlist.StatusTrash}}, []int64{2}, 1},
		{"query and status", postlist.SearchOptions{Query: "NEWS", Statuses: postlist.LiveStatuses()}, []int64{1}, 1},
		{"second page", postlist.SearchOptions{PageNum: 2, PageSize: 2}, []int64{3}, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := store.Search(ctx, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.total, page.TotalLists)

			ids := make([]int64, 0, len(page.PostLists))
			for _, pl := range page.PostLists {
				ids = append(ids, pl.ID)
			}
			assert.Equal(t, tc.expectedIDs, ids)
		})
	}
}

func TestSQLiteStore_Designs(t *testing.T) {
	ctx := context.Background()
	store := setupTestEnvironment(t)

	design := &postlist.Design{Slug: "news-design", Title: "news-design", Before: "<ul>", Content: "<li></li>", After: "</ul>", Empty: "none"}
	require.NoError(t, store.SaveDesign(ctx, "", design))

	found, err := store.GetDesign(ctx, "news-design")
	require.NoError(t, err)
	assert.Equal(t, design, found)

	moved := *design
	moved.Slug = "news__trashed-design"
	require.NoError(t, store.SaveDesign(ctx, "news-design", &moved))

	_, err = store.GetDesign(ctx, "news-design")
	assert.ErrorIs(t, err, postlist.ErrDesignNotFound)

	found, err = store.GetDesign(ctx, "news__trashed-design")
	require.NoError(t, err)
	assert.Equal(t, "<li></li>", found.Content)

	require.NoError(t, store.DeleteDesign(ctx, "news__trashed-design"))
	_, err = store.GetDesign(ctx, "news__trashed-design")
	assert.ErrorIs(t, err, postlist.ErrDesignNotFound)
}

func TestSQLiteStore_ManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := setupTestEnvironment(t)

	m, err := postlist.New(postlist.Options{
		Catalog:   postlist.NewMemoryCatalog(postlist.DefaultContentTypes()...),
		Designs:   store,
		PostLists: store,
	})
	require.NoError(t, err)

	createTestPostList(t, store, 9, "", "", postlist.StatusDraft)
	require.NoError(t, m.Save(ctx, 9, postlist.Fields{postlist.FieldContent: {"<li>x</li>"}}))

	pl, err := store.Find(ctx, postlist.Lookup{ID: 9, Type: postlist.ResourceTypePostList})
	require.NoError(t, err)
	assert.Equal(t, "post-list-9", pl.Slug)
	assert.Equal(t, "post-list-9-design", pl.DesignSlug())

	require.NoError(t, m.Trash(ctx, 9))
	_, err = store.GetDesign(ctx, "post-list-9__trashed-design")
	require.NoError(t, err)

	require.NoError(t, m.Untrash(ctx, 9))
	design, err := store.GetDesign(ctx, "post-list-9-design")
	require.NoError(t, err)
	assert.Equal(t, "<li>x</li>", design.Content)
}
