package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchClient maintains the event availability index used by search.
type ElasticsearchClient struct {
	client *elasticsearch.Client
	config config.ElasticsearchConfig
}

// EventDocument is the denormalized availability view of an event.
type EventDocument struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Organizer   string                   `json:"organizer"`
	StartTime   time.Time                `json:"start_time"`
	EndTime     time.Time                `json:"end_time"`
	Cancelled   bool                     `json:"cancelled"`
	MaxCapacity int                      `json:"max_capacity"`
	Sold        int                      `json:"sold"`
	Available   int                      `json:"available"`
	TicketTypes []TicketTypeAvailability `json:"ticket_types"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

type TicketTypeAvailability struct {
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Available int    `json:"available"`
}

// NewEventDocument builds the index document for event.
func NewEventDocument(event *models.Event) EventDocument {
	doc := EventDocument{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		Organizer:   event.Organizer,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		Cancelled:   event.Cancelled,
		MaxCapacity: event.MaxCapacity,
		Sold:        event.CurrentSales,
		Available:   event.MaxCapacity - event.CurrentSales,
		TicketTypes: make([]TicketTypeAvailability, len(event.TicketTypes)),
		UpdatedAt:   event.UpdatedAt,
	}
	for i, tt := range event.TicketTypes {
		doc.TicketTypes[i] = TicketTypeAvailability{
			Name:      tt.Name,
			Price:     tt.Price,
			Available: tt.Quantity - tt.Sold,
		}
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now()
	}
	return doc
}

func NewElasticsearchClient(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		config: cfg,
	}

	if err := client.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.config.Index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type": "keyword",
				},
				"name": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description": map[string]interface{}{
					"type": "text",
				},
				"organizer":    map[string]interface{}{"type": "keyword"},
				"start_time":   map[string]interface{}{"type": "date"},
				"end_time":     map[string]interface{}{"type": "date"},
				"cancelled":    map[string]interface{}{"type": "boolean"},
				"max_capacity": map[string]interface{}{"type": "integer"},
				"sold":         map[string]interface{}{"type": "integer"},
				"available":    map[string]interface{}{"type": "integer"},
				"ticket_types": map[string]interface{}{
					"type": "nested",
					"properties": map[string]interface{}{
						"name":      map[string]interface{}{"type": "keyword"},
						"price":     map[string]interface{}{"type": "long"},
						"available": map[string]interface{}{"type": "integer"},
					},
				},
				"updated_at": map[string]interface{}{"type": "date"},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  strings.NewReader(string(mappingJSON)),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

// GetByID returns (nil, nil) when the event is not indexed.
func (c *ElasticsearchClient) GetByID(ctx context.Context, id string) (*EventDocument, error) {
	req := esapi.GetRequest{
		Index:      c.config.Index,
		DocumentID: id,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, nil
	}

	if res.IsError() {
		return nil, fmt.Errorf("Elasticsearch error: %s", res.String())
	}

	var response struct {
		Source EventDocument `json:"_source"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response.Source, nil
}

// Search finds events by free text. With onlyAvailable set, cancelled and sold out events are skipped.
func (c *ElasticsearchClient) Search(ctx context.Context, query string, onlyAvailable bool, page, pageSize int) ([]EventDocument, error) {
	from := 0
	if page > 0 && pageSize > 0 {
		from = (page - 1) * pageSize
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	searchRequest := map[string]interface{}{
		"query": buildSearchQuery(query, onlyAvailable),
		"sort":  buildSortQuery(query),
		"from":  from,
		"size":  pageSize,
	}

	searchJSON, err := json.Marshal(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  strings.NewReader(string(searchJSON)),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source EventDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	docs := make([]EventDocument, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		docs[i] = hit.Source
	}

	return docs, nil
}

func buildSearchQuery(query string, onlyAvailable bool) map[string]interface{} {
	var must, filter []map[string]interface{}

	if query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		})
	}

	if onlyAvailable {
		filter = append(filter,
			map[string]interface{}{"term": map[string]interface{}{"cancelled": false}},
			map[string]interface{}{"range": map[string]interface{}{"available": map[string]interface{}{"gt": 0}}},
		)
	}

	if len(must) == 0 && len(filter) == 0 {
		return map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	boolQuery := map[string]interface{}{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	return map[string]interface{}{"bool": boolQuery}
}

func buildSortQuery(query string) []map[string]interface{} {
	if query != "" {
		return []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"start_time": map[string]interface{}{"order": "asc"}},
		}
	}

	return []map[string]interface{}{
		{"start_time": map[string]interface{}{"order": "asc"}},
	}
}

// IndexEvent writes the availability document for event.
func (c *ElasticsearchClient) IndexEvent(ctx context.Context, event *models.Event) error {
	docJSON, err := json.Marshal(NewEventDocument(event))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: event.ID,
		Body:       strings.NewReader(string(docJSON)),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}

func (c *ElasticsearchClient) DeleteEvent(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      c.config.Index,
		DocumentID: id,
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.String())
	}

	return nil
}

func (c *ElasticsearchClient) HealthCheck(ctx context.Context) error {
	req := esapi.ClusterHealthRequest{
		WaitForStatus: "yellow",
		Timeout:       10 * time.Second,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check error: %s", res.String())
	}

	return nil
}
