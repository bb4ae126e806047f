// Package search maintains a Bleve index over the mirrored tree so entries
// can be found by name without re-walking the filesystem.
package search

import (
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/SublimeIbanez/Overseer/internal/errors"
	"github.com/SublimeIbanez/Overseer/internal/node"
)

// Index wraps a Bleve index over tree entry documents.
//
// The mutex serializes IndexTree's drop-and-rebatch against queries; the
// index always reflects exactly one walked tree.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Hit is one search result.
type Hit struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Path  string  `json:"path"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// New creates an index at path, or an in-memory one when path is empty.
func New(path string, logger *slog.Logger) (*Index, error) {
	var index bleve.Index
	var err error

	if path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		index, err = bleve.Open(path)
		if err != nil {
			index, err = bleve.New(path, buildIndexMapping())
		}
	}
	if err != nil {
		return nil, errors.IO("open search index", err)
	}

	logger.Debug("search index ready", "path", path, "in_memory", path == "")
	return &Index{index: index, logger: logger}, nil
}

// IndexTree replaces the index contents with the given tree's entries.
func (i *Index) IndexTree(root *node.Directory) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	// Drop stale entries first so removed paths stop matching.
	count, err := i.index.DocCount()
	if err != nil {
		return errors.IO("count index documents", err)
	}
	if count > 0 {
		if err := i.clearLocked(); err != nil {
			return err
		}
	}

	docs := Flatten(root)
	const batchSize = 500

	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))

		batch := i.index.NewBatch()
		for _, doc := range docs[start:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return errors.IO("batch index entry", err)
			}
		}
		if err := i.index.Batch(batch); err != nil {
			return errors.IO("commit index batch", err)
		}
	}

	i.logger.Debug("tree indexed", "entries", len(docs))
	return nil
}

// clearLocked deletes every document. Caller holds the write lock.
func (i *Index) clearLocked() error {
	req := bleve.NewSearchRequest(query.NewMatchAllQuery())
	req.Size = 10000
	req.Fields = nil

	for {
		res, err := i.index.Search(req)
		if err != nil {
			return errors.IO("enumerate index documents", err)
		}
		if len(res.Hits) == 0 {
			return nil
		}

		batch := i.index.NewBatch()
		for _, hit := range res.Hits {
			batch.Delete(hit.ID)
		}
		if err := i.index.Batch(batch); err != nil {
			return errors.IO("delete index batch", err)
		}
	}
}

// Query searches entry names. Matches on whole terms and name prefixes
// both count, best score first.
func (i *Index) Query(q string, limit int) ([]Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	q = normalizeQuery(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 25
	}

	match := bleve.NewMatchQuery(q)
	match.SetField("name")

	prefix := bleve.NewPrefixQuery(q)
	prefix.SetField("name")

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(match, prefix))
	req.Size = limit
	req.Fields = []string{"name", "path", "type"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, errors.IO("search index", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["name"].(string); ok {
			hit.Name = v
		}
		if v, ok := h.Fields["path"].(string); ok {
			hit.Path = v
		}
		if v, ok := h.Fields["type"].(string); ok {
			hit.Type = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Count returns the number of indexed entries.
func (i *Index) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.index.DocCount()
}

// Close closes the index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.index.Close(); err != nil {
		return errors.IO("close search index", err)
	}
	return nil
}
