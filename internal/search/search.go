package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/models"
)

type Hit struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Search runs a fuzzy multi_match over book titles and descriptions. This is
// the full-text endpoint; the catalog listing's `search` filter stays a SQL
// predicate.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []Hit, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", errs.ErrStorageUnavailable)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s: %w", res.Status(), errs.ErrStorageUnavailable)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Hit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	hits := make([]Hit, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		hits[i] = hit.Source
	}
	return r.Hits.Total.Value, hits, nil
}

// Reindex pushes the whole catalog into the index in one bulk request.
func Reindex(ctx context.Context, es *elasticsearch.Client, index string, db *gorm.DB) (int, error) {
	var books []models.Book
	if err := db.WithContext(ctx).Find(&books).Error; err != nil {
		return 0, errs.Storage(err)
	}
	if len(books) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	for _, b := range books {
		meta := map[string]any{"index": map[string]any{"_index": index, "_id": strconv.FormatUint(uint64(b.ID), 10)}}
		doc := map[string]any{
			"id":          b.ID,
			"title":       b.Title,
			"description": b.Description,
			"price":       b.Price,
			"stock":       b.Stock,
		}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return 0, fmt.Errorf("search: encode bulk meta: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(doc); err != nil {
			return 0, fmt.Errorf("search: encode bulk doc: %w", err)
		}
	}

	res, err := es.Bulk(bytes.NewReader(buf.Bytes()), es.Bulk.WithContext(ctx), es.Bulk.WithRefresh("true"))
	if err != nil {
		return 0, fmt.Errorf("reindex: %w", errs.ErrStorageUnavailable)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("reindex: %s: %w", res.Status(), errs.ErrStorageUnavailable)
	}
	return len(books), nil
}
