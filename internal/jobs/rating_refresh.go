// File: internal/jobs/rating_refresh.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"vehicle_service_backend/internal/config"
	"vehicle_service_backend/internal/feedback"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RatingRefreshJob recomputes every servicer's aggregate rating from
// stored feedback on a schedule, catching any drift left behind when the
// inline refresh after feedback creation fails.
type RatingRefreshJob struct {
	feedbackService feedback.Service
	logger          *zap.Logger
	cfg             *config.Config
	cronScheduler   *cron.Cron
}

// NewRatingRefreshJob creates a new RatingRefreshJob.
func NewRatingRefreshJob(
	feedbackService feedback.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *RatingRefreshJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &RatingRefreshJob{
		feedbackService: feedbackService,
		logger:          logger.Named("RatingRefreshJob"),
		cfg:             cfg,
		cronScheduler:   scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *RatingRefreshJob) SetupAndStart() error {
	jobSpec := j.cfg.RatingRefreshJobSchedule // e.g., "@daily", "0 2 * * *"
	if jobSpec == "" {
		j.logger.Warn("Rating refresh job schedule not defined (RATING_REFRESH_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule rating refresh job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Rating refresh job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *RatingRefreshJob) runJob() {
	j.logger.Info("Starting rating refresh job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	refreshed, err := j.feedbackService.RefreshServicerRatings(ctx)
	if err != nil {
		j.logger.Error("Rating refresh job run failed", zap.Error(err), zap.Int("servicers_refreshed", refreshed))
	} else {
		j.logger.Info("Rating refresh job run completed", zap.Int("servicers_refreshed", refreshed))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *RatingRefreshJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping rating refresh job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Rating refresh job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Rating refresh job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
