package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/pkg/helpers"
)

// PeopleMapping is the index mapping used by EnsurePeopleIndex.
const PeopleMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "username":   {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "full_name":  {"type": "text"},
      "gender":     {"type": "keyword"},
      "dob":        {"type": "date", "format": "yyyy-MM-dd"},
      "created_at": {"type": "date"}
    }
  }
}`

type PeopleIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewPeopleIndex(es *elasticsearch.Client, index string) *PeopleIndex {
	return &PeopleIndex{ES: es, IndexName: index}
}

func (x *PeopleIndex) Ensure(ctx context.Context) error {
	return helpers.EnsureIndex(ctx, x.ES, x.IndexName, PeopleMapping)
}

type personDoc struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Gender    string `json:"gender"`
	DOB       string `json:"dob"`
	CreatedAt string `json:"created_at"`
}

func (x *PeopleIndex) Index(ctx context.Context, p *entity.Person) error {
	b, err := json.Marshal(personDoc{
		ID:        p.ID,
		Username:  p.Username,
		FullName:  p.FullName,
		Gender:    p.Gender,
		DOB:       p.DOB.Format(time.DateOnly),
		CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index person %s: %s", p.Username, res.Status())
	}
	return nil
}

// SearchBody builds the multi_match query on username and full name.
func SearchBody(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"username^2", "full_name"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
}

func (x *PeopleIndex) Search(ctx context.Context, q string, size int) ([]application.PersonHit, error) {
	b, err := json.Marshal(SearchBody(q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.IndexName), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search people: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source personDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]application.PersonHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, application.PersonHit{
			ID:       h.Source.ID,
			Username: h.Source.Username,
			FullName: h.Source.FullName,
			Gender:   h.Source.Gender,
		})
	}
	return out, nil
}

var _ application.PersonIndex = (*PeopleIndex)(nil)
