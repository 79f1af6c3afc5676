package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
	"github.com/oksasatya/bath-journal/pkg/contract"
)

// NewClient creates an Elasticsearch client with optional basic auth.
func NewClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	})
}

// BathIndex keeps one Elasticsearch document per bath, keyed by bath id.
type BathIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewBathIndex(es *elasticsearch.Client, index string) *BathIndex {
	return &BathIndex{es: es, index: index}
}

type bathDoc struct {
	ID                 int64   `json:"id"`
	Date               string  `json:"date"`
	DurationMinutes    int     `json:"durationMinutes"`
	TemperatureCelsius *int    `json:"temperatureCelsius,omitempty"`
	Rating             int     `json:"rating"`
	Notes              *string `json:"notes,omitempty"`
}

// Index upserts the document for b.
func (x *BathIndex) Index(ctx context.Context, b entity.Bath) error {
	body, err := json.Marshal(bathDoc{
		ID:                 b.ID,
		Date:               b.Date.UTC().Format(time.RFC3339Nano),
		DurationMinutes:    b.DurationMinutes,
		TemperatureCelsius: b.TemperatureCelsius,
		Rating:             b.Rating,
		Notes:              b.Notes,
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(b.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index bath %d: %s", b.ID, res.Status())
	}
	return nil
}

// Remove deletes the document for id. A missing document is not an error.
func (x *BathIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete bath %d: %s", id, res.Status())
	}
	return nil
}

// Search returns the ids of baths whose notes match q, best match first.
// size is clamped to the API search bounds.
func (x *BathIndex) Search(ctx context.Context, q string, size int) ([]int64, error) {
	size = contract.ClampSearchSize(size)
	query := map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"notes": map[string]any{"query": q},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return []int64{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}
	return decodeHitIDs(res.Body)
}
