package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/summaries/internal/models"
)

const DefaultIndex = "summaries"

// ErrDisabled is returned by Search when no search backend is configured.
var ErrDisabled = errors.New("search backend disabled")

type Index interface {
	Put(ctx context.Context, s *models.Summary) error
	Delete(ctx context.Context, id uint) error
	// Search returns matching summary ids ordered by relevance.
	Search(ctx context.Context, query string, limit int) ([]uint, error)
}

type document struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      uint   `json:"user_id"`
}

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

type ESIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewClient(cfg Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return client, nil
}

// New returns an Elasticsearch-backed index, or Disabled when cfg.URL is empty.
func New(cfg Config) (Index, error) {
	if cfg.URL == "" {
		return Disabled{}, nil
	}
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewESIndex(client, cfg.Index), nil
}

func NewESIndex(client *elasticsearch.Client, index string) *ESIndex {
	if index == "" {
		index = DefaultIndex
	}
	return &ESIndex{es: client, index: index}
}

func (i *ESIndex) Put(ctx context.Context, s *models.Summary) error {
	doc := document{ID: s.ID, Title: s.Title, UserID: s.UserID}
	if s.Description != nil {
		doc.Description = *s.Description
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode summary %d: %w", s.ID, err)
	}

	res, err := i.es.Index(i.index, &buf,
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(strconv.FormatUint(uint64(s.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index summary %d: %w", s.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.Status(), res.Body)
	}
	return nil
}

func (i *ESIndex) Delete(ctx context.Context, id uint) error {
	res, err := i.es.Delete(i.index, strconv.FormatUint(uint64(id), 10),
		i.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete summary %d: %w", id, err)
	}
	defer res.Body.Close()
	// a missing document is already deleted
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete", res.Status(), res.Body)
	}
	return nil
}

func (i *ESIndex) Search(ctx context.Context, query string, limit int) ([]uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size":    limit,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, nil
}

func responseError(op, status string, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, status, bytes.TrimSpace(msg))
}

// Disabled keeps no index; Search always reports ErrDisabled.
type Disabled struct{}

func (Disabled) Put(context.Context, *models.Summary) error { return nil }
func (Disabled) Delete(context.Context, uint) error         { return nil }
func (Disabled) Search(context.Context, string, int) ([]uint, error) {
	return nil, ErrDisabled
}
