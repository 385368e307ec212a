// File: cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"strings"
	"syscall"

	"vehicle_service_backend/internal/config"
	"vehicle_service_backend/internal/platform/database"
	platformElasticsearch "vehicle_service_backend/internal/platform/elasticsearch"
	"vehicle_service_backend/internal/platform/logger"
	"vehicle_service_backend/internal/servicer"
	"vehicle_service_backend/internal/servicer/esutil"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

func main() {
	syncServicersCmd := flag.NewFlagSet("sync-servicers", flag.ExitOnError)
	batchSize := syncServicersCmd.Int("batch-size", 100, "Batch size for syncing servicers")
	esRefresh := syncServicersCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-servicers" {
		syncServicersCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
		}
		db, err := database.NewGORM(cfg)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize database for sync", zap.Error(err))
		}
		defer database.CloseGORMDB(db)

		esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
		}
		if esClient == nil {
			appLogger.Fatal("FATAL: Elasticsearch client is nil, ensure ELASTICSEARCH_URL is set.")
		}

		if err := platformElasticsearch.CreateServicersIndexIfNotExists(esClient, appLogger); err != nil {
			appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
		}

		servicerRepo := servicer.NewGORMRepository(db)
		if err := runServicerSync(servicerRepo, esClient, appLogger, *batchSize, *esRefresh); err != nil {
			appLogger.Fatal("FATAL: Servicer synchronization failed", zap.Error(err))
		}
		appLogger.Info("Servicer synchronization completed successfully.")
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if err := database.AutoMigrate(server.DB); err != nil {
		server.AppLogger.Fatal("FATAL: Schema migration failed", zap.Error(err))
	}

	if server.ESClient != nil {
		if err := platformElasticsearch.CreateServicersIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch servicers index", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not initialized, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runServicerSync pushes every servicer into the Elasticsearch index in
// batches using the Bulk API.
func runServicerSync(
	servicerRepo servicer.Repository,
	esClient *platformElasticsearch.ESClientWrapper,
	logger *zap.Logger,
	batchSize int,
	esRefresh string,
) error {
	logger.Info("Starting servicer synchronization to Elasticsearch...",
		zap.Int("batchSize", batchSize),
		zap.String("esRefreshPolicy", esRefresh),
	)

	offset := 0
	totalSynced := 0
	totalFailed := 0

	for {
		servicers, err := servicerRepo.FindAllForSync(context.Background(), offset, batchSize)
		if err != nil {
			return fmt.Errorf("failed to fetch servicers at offset %d: %w", offset, err)
		}
		if len(servicers) == 0 {
			break
		}

		var bulkBody strings.Builder
		docCount := 0
		for i := range servicers {
			s := &servicers[i]
			docJSON, errDoc := esutil.ServicerToElasticsearchDoc(s)
			if errDoc != nil {
				logger.Error("Failed to convert servicer to Elasticsearch document",
					zap.String("servicerID", s.ID.String()), zap.Error(errDoc))
				totalFailed++
				continue
			}
			fmt.Fprintf(&bulkBody, `{ "index" : { "_index" : "%s", "_id" : "%s" } }%s`,
				platformElasticsearch.ServicersIndexName, s.ID.String(), "\n")
			bulkBody.WriteString(docJSON)
			bulkBody.WriteString("\n")
			docCount++
		}

		if docCount > 0 {
			synced, failed, err := sendBulk(esClient, bulkBody.String(), esRefresh, logger)
			if err != nil {
				logger.Error("Bulk request failed", zap.Error(err), zap.Int("offset", offset))
				totalFailed += docCount
			} else {
				totalSynced += synced
				totalFailed += failed
			}
		}

		logger.Info("Batch processed.", zap.Int("offset", offset), zap.Int("count", len(servicers)))
		offset += len(servicers)
	}

	logger.Info("Servicer synchronization process finished.",
		zap.Int("totalSynced", totalSynced),
		zap.Int("totalFailed", totalFailed),
	)
	if totalFailed > 0 {
		return fmt.Errorf("%d servicers failed to sync", totalFailed)
	}
	return nil
}

// sendBulk executes one bulk request and counts item-level outcomes; a bulk
// call can succeed overall while individual documents fail.
func sendBulk(esClient *platformElasticsearch.ESClientWrapper, body, esRefresh string, logger *zap.Logger) (synced, failed int, err error) {
	req := esapi.BulkRequest{
		Body:    strings.NewReader(body),
		Refresh: esRefresh,
	}
	res, err := req.Do(context.Background(), esClient.Client)
	if err != nil {
		return 0, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, 0, fmt.Errorf("bulk request returned status %s", res.Status())
	}

	var bulkResponse struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string                 `json:"_id"`
				Status int                    `json:"status"`
				Error  map[string]interface{} `json:"error,omitempty"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return 0, 0, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	for _, item := range bulkResponse.Items {
		if item.Index.Error != nil {
			logger.Error("Failed to index servicer document",
				zap.String("servicerID", item.Index.ID),
				zap.Int("status", item.Index.Status),
				zap.Any("error", item.Index.Error),
			)
			failed++
		} else {
			synced++
		}
	}
	return synced, failed, nil
}
