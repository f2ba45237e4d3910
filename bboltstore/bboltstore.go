package bboltstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.etcd.io/bbolt"

	"github.com/hypergopher/postlist"
)

const (
	bboltFile          = "postlist.db"
	bleveFile          = "postlist.bleve"
	bucketPostLists    = "postlists"
	bucketDesigns      = "designs"
	bucketContentTypes = "contenttypes"
	bucketTaxonomies   = "taxonomies"
	bucketTerms        = "terms"
	bucketItems        = "items"
	keyContentTypes    = "all"
)

var buckets = []string{
	bucketPostLists,
	bucketDesigns,
	bucketContentTypes,
	bucketTaxonomies,
	bucketTerms,
	bucketItems,
}

// BBoltStore stores post lists, designs and the content catalog in bbolt. Post lists are also
// indexed in bleve for searching.
type BBoltStore struct {
	bleveIndex bleve.Index
	boltIndex  *bbolt.DB
	dataDir    string // DataDir is the directory where the store keeps its bolt file and bleve index.
	logger     *slog.Logger
	mu         sync.Mutex
}

// New creates a new BBoltStore instance. Call Init before use.
func New(dataDir string, logger *slog.Logger) *BBoltStore {
	if logger == nil {
		logger = defaultLogger()
	}

	return &BBoltStore{
		dataDir: dataDir,
		logger:  logger,
	}
}

// Init initializes the BBolt and Bleve indexes
func (bbs *BBoltStore) Init() error {
	if err := os.MkdirAll(bbs.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	boltIndex, err := bbs.initBolt()
	if err != nil {
		return fmt.Errorf("failed to initialize bbolt: %w", err)
	}
	bbs.boltIndex = boltIndex

	bleveIndex, err := bbs.initBleve()
	if err != nil {
		return fmt.Errorf("failed to initialize bleve: %w", err)
	}
	bbs.bleveIndex = bleveIndex

	return nil
}

// Clear removes every stored record and recreates empty indexes.
func (bbs *BBoltStore) Clear() error {
	if err := bbs.Close(); err != nil {
		return fmt.Errorf("failed to close indexes: %w", err)
	}

	boltPath := filepath.Join(bbs.dataDir, bboltFile)
	blevePath := filepath.Join(bbs.dataDir, bleveFile)

	if err := os.Remove(boltPath); err != nil {
		return fmt.Errorf("failed to remove bolt file: %w", err)
	}

	if err := os.RemoveAll(blevePath); err != nil {
		return fmt.Errorf("failed to remove bleve file: %w", err)
	}

	return bbs.Init()
}

func (bbs *BBoltStore) Close() error {
	if bbs.boltIndex != nil {
		if err := bbs.boltIndex.Close(); err != nil {
			return err
		}
		bbs.boltIndex = nil
	}

	if bbs.bleveIndex != nil {
		err := bbs.bleveIndex.Close()
		bbs.bleveIndex = nil
		return err
	}

	return nil
}

// Find returns the post list matching the lookup.
func (bbs *BBoltStore) Find(_ context.Context, lookup postlist.Lookup) (*postlist.PostList, error) {
	key := postlist.ResourceKey(lookup.Type, lookup.ID)

	var pl *postlist.PostList
	err := bbs.boltIndex.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketPostLists)).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%w: %s", postlist.ErrResourceNotFound, key)
		}

		var err error
		pl, err = postlist.DeserializePostList(data)
		if err != nil {
			return fmt.Errorf("error deserializing post list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(lookup.Statuses) > 0 && !slices.Contains(lookup.Statuses, pl.Status) {
		return nil, fmt.Errorf("%w: %s has status %s", postlist.ErrResourceNotFound, key, pl.Status)
	}

	return pl, nil
}

// Save stores the post list and indexes it for searching.
func (bbs *BBoltStore) Save(_ context.Context, pl *postlist.PostList) error {
	bbs.mu.Lock()
	defer bbs.mu.Unlock()

	data, err := pl.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize post list: %w", err)
	}

	err = bbs.boltIndex.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketPostLists)).Put([]byte(pl.Key()), data)
	})
	if err != nil {
		return fmt.Errorf("failed to put post list in bolt: %w", err)
	}

	if err := bbs.bleveIndex.Index(pl.Key(), indexDocument(pl)); err != nil {
		return fmt.Errorf("failed to index post list in bleve: %w", err)
	}

	return nil
}

// Search returns the post lists matching the options, ordered by ID.
func (bbs *BBoltStore) Search(ctx context.Context, opts postlist.SearchOptions) (postlist.Paginator, error) {
	opts = opts.Normalize()

	request := bleve.NewSearchRequestOptions(searchQuery(opts), opts.PageSize, (opts.PageNum-1)*opts.PageSize, false)
	request.SortBy([]string{"postID"})

	result, err := bbs.bleveIndex.SearchInContext(ctx, request)
	if err != nil {
		return postlist.Paginator{}, fmt.Errorf("error searching for post lists: %w", err)
	}

	lists := make([]*postlist.PostList, 0, len(result.Hits))
	err = bbs.boltIndex.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketPostLists))
		for _, hit := range result.Hits {
			data := b.Get([]byte(hit.ID))
			if data == nil {
				bbs.logger.Warn("indexed post list missing from bolt", slog.String("key", hit.ID))
				continue
			}
			pl, err := postlist.DeserializePostList(data)
			if err != nil {
				return fmt.Errorf("error deserializing post list %s: %w", hit.ID, err)
			}
			lists = append(lists, pl)
		}
		return nil
	})
	if err != nil {
		return postlist.Paginator{}, err
	}

	return postlist.NewPaginator(lists, int(result.Total), opts.PageNum, opts.PageSize), nil
}

// GetDesign returns the design with the given slug.
func (bbs *BBoltStore) GetDesign(_ context.Context, slug string) (*postlist.Design, error) {
	var d *postlist.Design
	err := bbs.boltIndex.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketDesigns)).Get([]byte(slug))
		if data == nil {
			return fmt.Errorf("%w: %s", postlist.ErrDesignNotFound, slug)
		}

		var err error
		d, err = postlist.DeserializeDesign(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SaveDesign stores the design, moving it from oldSlug when that differs.
func (bbs *BBoltStore) SaveDesign(_ context.Context, oldSlug string, d *postlist.Design) error {
	data, err := d.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize design: %w", err)
	}

	return bbs.boltIndex.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketDesigns))
		if oldSlug != "" && oldSlug != d.Slug {
			if err := b.Delete([]byte(oldSlug)); err != nil {
				return fmt.Errorf("failed to delete design %s: %w", oldSlug, err)
			}
		}
		return b.Put([]byte(d.Slug), data)
	})
}

// DeleteDesign removes the design with the given slug.
func (bbs *BBoltStore) DeleteDesign(_ context.Context, slug string) error {
	return bbs.boltIndex.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketDesigns)).Delete([]byte(slug))
	})
}

// DesignSlugs returns the slugs of every stored design in key order.
func (bbs *BBoltStore) DesignSlugs() ([]string, error) {
	var slugs []string
	err := bbs.boltIndex.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketDesigns)).ForEach(func(k, _ []byte) error {
			slugs = append(slugs, string(k))
			return nil
		})
	})
	return slugs, err
}

// AddContentType registers a content type, replacing an existing one with the same key.
func (bbs *BBoltStore) AddContentType(info postlist.ContentTypeInfo) error {
	return bbs.boltIndex.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketContentTypes))

		var types []postlist.ContentTypeInfo
		if err := getJSON(b, keyContentTypes, &types); err != nil {
			return err
		}

		i := slices.IndexFunc(types, func(t postlist.ContentTypeInfo) bool { return t.Key == info.Key })
		if i >= 0 {
			types[i] = info
		} else {
			types = append(types, info)
		}

		return putJSON(b, keyContentTypes, types)
	})
}

// SetTaxonomies attaches taxonomies to a content type.
func (bbs *BBoltStore) SetTaxonomies(ct postlist.ContentType, taxonomies ...string) error {
	return bbs.boltIndex.Update(func(tx *bbolt.Tx) error {
		return putJSON(tx.Bucket([]byte(bucketTaxonomies)), ct.String(), taxonomies)
	})
}

// AddTerms appends terms to a taxonomy.
func (bbs *BBoltStore) AddTerms(taxonomy string, termIDs ...int64) error {
	return bbs.appendIDs(bucketTerms, taxonomy, termIDs)
}

// AddItems adds items to a content type.
func (bbs *BBoltStore) AddItems(ct postlist.ContentType, itemIDs ...int64) error {
	return bbs.appendIDs(bucketItems, ct.String(), itemIDs)
}

func (bbs *BBoltStore) ContentTypes(_ context.Context) ([]postlist.ContentTypeInfo, error) {
	var types []postlist.ContentTypeInfo
	err := bbs.boltIndex.View(func(tx *bbolt.Tx) error {
		return getJSON(tx.Bucket([]byte(bucketContentTypes)), keyContentTypes, &types)
	})
	return types, err
}

func (bbs *BBoltStore) Taxonomies(ctx context.Context, ct postlist.ContentType) ([]string, error) {
	keys := []postlist.ContentType{ct}
	if ct.IsAny() {
		types, err := bbs.ContentTypes(ctx)
		if err != nil {
			return nil, err
		}
		keys = keys[:0]
		for _, t := range types {
			keys = append(keys, t.Key)
		}
	}

	var all []string
	err := bbs.boltIndex.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketTaxonomies))
		for _, key := range keys {
			var taxonomies []string
			if err := getJSON(b, key.String(), &taxonomies); err != nil {
				return err
			}
			for _, taxonomy := range taxonomies {
				if !slices.Contains(all, taxonomy) {
					all = append(all, taxonomy)
				}
			}
		}
		return nil
	})
	return all, err
}

func (bbs *BBoltStore) Terms(_ context.Context, taxonomy string) ([]int64, error) {
	var terms []int64
	err := bbs.boltIndex.View(func(tx *bbolt.Tx) error {
		return getJSON(tx.Bucket([]byte(bucketTerms)), taxonomy, &terms)
	})
	return terms, err
}

// Items returns the items of a content type, newest first.
func (bbs *BBoltStore) Items(_ context.Context, ct postlist.ContentType) ([]int64, error) {
	var items []int64
	err := bbs.boltIndex.View(func(tx *bbolt.Tx) error {
		return getJSON(tx.Bucket([]byte(bucketItems)), ct.String(), &items)
	})
	slices.Sort(items)
	slices.Reverse(items)
	return items, err
}

func (bbs *BBoltStore) appendIDs(bucket, key string, ids []int64) error {
	return bbs.boltIndex.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))

		var existing []int64
		if err := getJSON(b, key, &existing); err != nil {
			return err
		}

		return putJSON(b, key, append(existing, ids...))
	})
}

func (bbs *BBoltStore) initBolt() (*bbolt.DB, error) {
	boltPath := filepath.Join(bbs.dataDir, bboltFile)
	boltIndex, err := bbolt.Open(boltPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt index: %w", err)
	}

	err = boltIndex.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})

	if err != nil {
		_ = boltIndex.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return boltIndex, nil
}

func (bbs *BBoltStore) initBleve() (bleve.Index, error) {
	index, err := bleve.Open(filepath.Join(bbs.dataDir, bleveFile))
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		bbs.logger.Debug("Creating new bleve index")
		index, err = bleve.New(filepath.Join(bbs.dataDir, bleveFile), defineBleveMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create bleve index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to open bleve index: %w", err)
	}

	return index, nil
}

func defineBleveMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Type and status are matched exactly, so they must not be analyzed.
	docMapping.AddFieldMappingsAt("type", bleve.NewKeywordFieldMapping())
	docMapping.AddFieldMappingsAt("status", bleve.NewKeywordFieldMapping())
	docMapping.AddFieldMappingsAt("title", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("slug", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("postID", bleve.NewNumericFieldMapping())

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func indexDocument(pl *postlist.PostList) map[string]any {
	return map[string]any{
		"type":   pl.Type,
		"status": pl.Status.String(),
		"title":  pl.Title,
		"slug":   pl.Slug,
		"postID": float64(pl.ID),
	}
}

func searchQuery(opts postlist.SearchOptions) *query.ConjunctionQuery {
	typeQuery := bleve.NewTermQuery(postlist.ResourceTypePostList)
	typeQuery.SetField("type")
	queries := []query.Query{typeQuery}

	if len(opts.Statuses) > 0 {
		statusQueries := make([]query.Query, 0, len(opts.Statuses))
		for _, status := range opts.Statuses {
			statusQuery := bleve.NewTermQuery(status.String())
			statusQuery.SetField("status")
			statusQueries = append(statusQueries, statusQuery)
		}
		queries = append(queries, bleve.NewDisjunctionQuery(statusQueries...))
	}

	if search := strings.TrimSpace(opts.Query); search != "" {
		titleQuery := bleve.NewMatchQuery(search)
		titleQuery.SetField("title")
		slugQuery := bleve.NewMatchQuery(search)
		slugQuery.SetField("slug")
		queries = append(queries, bleve.NewDisjunctionQuery(titleQuery, slugQuery))
	}

	return bleve.NewConjunctionQuery(queries...)
}

func getJSON(b *bbolt.Bucket, key string, v any) error {
	data := b.Get([]byte(key))
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error decoding %s: %w", key, err)
	}
	return nil
}

func putJSON(b *bbolt.Bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", key, err)
	}
	return b.Put([]byte(key), data)
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelDebug,
		}))
}
