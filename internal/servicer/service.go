// File: internal/servicer/service.go
package servicer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/config"
	platformES "vehicle_service_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for servicer directory business logic.
type Service interface {
	GetServicerByID(ctx context.Context, id uuid.UUID) (*Servicer, error)
	GetServicerBySlug(ctx context.Context, slug string) (*Servicer, error)
	GetServicerByEmail(ctx context.Context, email string) (*Servicer, error)
	// SearchServicers queries Elasticsearch when it is configured and falls
	// back to the database otherwise (or when the search cluster errors).
	SearchServicers(ctx context.Context, query SearchQuery) ([]ServicerResponse, *common.Pagination, error)
	// UpdateOwnStatus lets the servicer identified by email flip their
	// availability status.
	UpdateOwnStatus(ctx context.Context, email string, status Status) (*Servicer, error)
}

// ServiceImplementation implements the servicer Service interface.
type ServiceImplementation struct {
	repo     Repository
	esClient *platformES.ESClientWrapper
	cfg      *config.Config
	logger   *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new servicer service. esClient may be nil when
// Elasticsearch is not configured.
func NewService(repo Repository, esClient *platformES.ESClientWrapper, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		esClient: esClient,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *ServiceImplementation) GetServicerByID(ctx context.Context, id uuid.UUID) (*Servicer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ServiceImplementation) GetServicerBySlug(ctx context.Context, slug string) (*Servicer, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *ServiceImplementation) GetServicerByEmail(ctx context.Context, email string) (*Servicer, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *ServiceImplementation) SearchServicers(ctx context.Context, query SearchQuery) ([]ServicerResponse, *common.Pagination, error) {
	if s.esClient != nil && s.esClient.Client != nil {
		responses, pagination, err := s.searchElasticsearch(ctx, query)
		if err == nil {
			return responses, pagination, nil
		}
		s.logger.Warn("Elasticsearch search failed, falling back to database", zap.Error(err))
	}

	servicers, pagination, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	responses := make([]ServicerResponse, 0, len(servicers))
	for i := range servicers {
		responses = append(responses, ToServicerResponse(&servicers[i]))
	}
	return responses, pagination, nil
}

// esDoc mirrors the servicers index mapping.
type esDoc struct {
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	WorkType      *string   `json:"work_type"`
	Location      *string   `json:"location"`
	Status        string    `json:"status"`
	Rating        float64   `json:"rating"`
	AvailableTime string    `json:"available_time"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type esSearchResult struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string `json:"_id"`
			Source esDoc  `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ServiceImplementation) searchElasticsearch(ctx context.Context, query SearchQuery) ([]ServicerResponse, *common.Pagination, error) {
	boolQuery := map[string]interface{}{}
	var must []interface{}
	var filter []interface{}

	if query.SearchTerm != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query.SearchTerm,
				"fields": []string{"name^2", "work_type", "location"},
			},
		})
	}
	if query.WorkType != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"work_type": query.WorkType},
		})
	}
	if query.Location != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"location": query.Location},
		})
	}
	if query.Status != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"status": query.Status},
		})
	}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	if len(boolQuery) == 0 {
		boolQuery["must"] = []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}}
	}

	page := query.Page
	if page < 1 {
		page = common.DefaultPage
	}
	pageSize := query.Limit()

	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"rating": map[string]interface{}{"order": "desc"}},
		},
		"from": (page - 1) * pageSize,
		"size": pageSize,
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{platformES.ServicersIndexName},
		Body:  bytes.NewReader(bodyBytes),
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		return nil, nil, fmt.Errorf("elasticsearch search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, nil, fmt.Errorf("elasticsearch search returned status %s", res.Status())
	}

	var result esSearchResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	responses := make([]ServicerResponse, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			s.logger.Warn("Skipping search hit with non-UUID document ID", zap.String("id", hit.ID))
			continue
		}
		doc := hit.Source
		responses = append(responses, ServicerResponse{
			ID:            id,
			Name:          doc.Name,
			Slug:          doc.Slug,
			Email:         doc.Email,
			WorkType:      doc.WorkType,
			Location:      doc.Location,
			AvailableTime: doc.AvailableTime,
			Rating:        doc.Rating,
			Status:        Status(doc.Status),
			CreatedAt:     doc.CreatedAt,
			UpdatedAt:     doc.UpdatedAt,
		})
	}

	pagination := common.NewPagination(result.Hits.Total.Value, page, pageSize)
	return responses, pagination, nil
}

func (s *ServiceImplementation) UpdateOwnStatus(ctx context.Context, email string, status Status) (*Servicer, error) {
	record, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	record.Status = status
	if err := s.repo.Update(ctx, record); err != nil {
		s.logger.Error("Failed to update servicer status", zap.Error(err), zap.String("email", email))
		return nil, err
	}
	s.logger.Info("Servicer status updated",
		zap.String("servicerID", record.ID.String()),
		zap.String("status", string(status)))
	return record, nil
}
