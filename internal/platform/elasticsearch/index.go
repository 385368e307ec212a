// File: internal/platform/elasticsearch/index.go
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const ServicersIndexName = "servicers"

// defineServicersMapping returns the JSON string for the servicers index mapping.
func defineServicersMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"name":           map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"slug":           map[string]interface{}{"type": "keyword"},
				"work_type":      map[string]interface{}{"type": "text"},
				"location":       map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"status":         map[string]interface{}{"type": "keyword"},
				"rating":         map[string]interface{}{"type": "float"},
				"available_time": map[string]interface{}{"type": "keyword"},
				"email":          map[string]interface{}{"type": "keyword"},
				"created_at":     map[string]interface{}{"type": "date"},
				"updated_at":     map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling servicers mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateServicersIndexIfNotExists creates the servicers index with the defined
// mapping if it does not already exist.
func CreateServicersIndexIfNotExists(client *ESClientWrapper, logger *zap.Logger) error {
	ctx := context.Background()
	log := logger.Named("elasticsearch_index_setup")

	req := esapi.IndicesExistsRequest{
		Index: []string{ServicersIndexName},
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if servicers index exists", zap.Error(err))
		return fmt.Errorf("error checking if servicers index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("Servicers index already exists", zap.String("index_name", ServicersIndexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Error("Error checking if servicers index exists, unexpected status",
			zap.String("status", res.Status()),
			zap.String("index_name", ServicersIndexName),
		)
		return fmt.Errorf("error checking if servicers index exists: status %s", res.Status())
	}

	mappingJSON, err := defineServicersMapping()
	if err != nil {
		log.Error("Failed to define servicers mapping", zap.Error(err))
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: ServicersIndexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating servicers index", zap.Error(err), zap.String("index_name", ServicersIndexName))
		return fmt.Errorf("error creating servicers index %s: %w", ServicersIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := json.NewDecoder(createRes.Body).Decode(&errorBody); err != nil {
			log.Error("Failed to parse servicers index creation error response body", zap.Error(err), zap.String("status", createRes.Status()))
		} else {
			log.Error("Failed to create servicers index",
				zap.String("status", createRes.Status()),
				zap.Any("error_details", errorBody),
				zap.String("index_name", ServicersIndexName),
			)
		}
		return fmt.Errorf("failed to create servicers index %s: status %s", ServicersIndexName, createRes.Status())
	}

	log.Info("Servicers index created successfully", zap.String("index_name", ServicersIndexName))
	return nil
}
