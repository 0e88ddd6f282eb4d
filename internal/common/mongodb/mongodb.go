// Package mongodb connects to MongoDB and provides the shared error and
// metrics handling used by the document-store repositories.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/AlibekovAA/taskflow/backend/internal/common/constants"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/observability/metrics"
)

const backendLabel = "mongo"

// Connect dials uri and pings the primary, retrying while the server comes up.
func Connect(ctx context.Context, log *logger.Logger, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetAppName("taskflow").
		SetConnectTimeout(constants.MongoConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= constants.MongoMaxAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, constants.MongoConnectTimeout)
		lastErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if lastErr == nil {
			log.Infof("mongo connection established")
			return client, nil
		}

		log.Warnf("failed to ping mongo (attempt %d/%d): %v", attempt, constants.MongoMaxAttempts, lastErr)

		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, ctx.Err()
		case <-time.After(constants.MongoRetryDelay):
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("failed to connect to mongo after %d attempts: %w", constants.MongoMaxAttempts, lastErr)
}

// HandleError records the operation duration and maps mongo.ErrNoDocuments to notFoundErr.
func HandleError(err error, notFoundErr error, operation, collection string, startTime time.Time) error {
	metrics.DBQueryDurationSeconds.WithLabelValues(backendLabel, operation, collection).Observe(time.Since(startTime).Seconds())

	if err == nil {
		return nil
	}
	if notFoundErr != nil && errors.Is(err, mongo.ErrNoDocuments) {
		return notFoundErr
	}
	metrics.DBQueryErrors.WithLabelValues(backendLabel, operation, collection, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}
