package esutil

import (
	"encoding/json"
	"errors"
	"fmt"

	"vehicle_service_backend/internal/servicer"
)

// ServicerToElasticsearchDoc converts a servicer.Servicer to its
// Elasticsearch document representation.
func ServicerToElasticsearchDoc(s *servicer.Servicer) (string, error) {
	if s == nil {
		return "", errors.New("servicer cannot be nil")
	}

	doc := map[string]interface{}{
		"name":           s.Name,
		"slug":           s.Slug,
		"email":          s.Email,
		"status":         string(s.Status),
		"rating":         s.Rating,
		"available_time": s.AvailableTime,
		"created_at":     s.CreatedAt,
		"updated_at":     s.UpdatedAt,
	}

	if s.WorkType != nil {
		doc["work_type"] = *s.WorkType
	} else {
		doc["work_type"] = nil
	}
	if s.Location != nil {
		doc["location"] = *s.Location
	} else {
		doc["location"] = nil
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error marshalling servicer to JSON for ES: %w", err)
	}
	return string(docBytes), nil
}
