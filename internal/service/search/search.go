// Package search keeps the question index in Elasticsearch in sync with
// the store and serves full-text question search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/cloneoverflow/backend/internal/models"
)

type Service struct {
	ES    *elasticsearch.Client
	Index string
}

type questionDoc struct {
	ID      string   `json:"id"`
	OwnerID string   `json:"owner_id"`
	Title   string   `json:"title"`
	Text    string   `json:"text"`
	Rate    int      `json:"rate"`
	Tags    []string `json:"tags"`
}

func (s *Service) IndexQuestion(ctx context.Context, question *models.Question) error {
	tags := make([]string, len(question.Tags))
	for i, tag := range question.Tags {
		tags[i] = tag.Name
	}
	doc := questionDoc{
		ID:      question.ID.String(),
		OwnerID: question.OwnerID.String(),
		Title:   question.Title,
		Text:    question.Text,
		Rate:    question.Rate,
		Tags:    tags,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := s.ES.Index(
		s.Index,
		bytes.NewReader(data),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.Status())
	}
	return nil
}

func (s *Service) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	res, err := s.ES.Delete(s.Index, id.String(), s.ES.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy multi_match over titles, bodies and tags.
func (s *Service) Search(ctx context.Context, query string, from, size int) (int64, []json.RawMessage, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "text", "tags"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}

	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search error: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]json.RawMessage, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
