//go:build !protogen

package main

import (
	"context"
	"log/slog"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/busy"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/storage"
)

func startGrpcServer(_ context.Context, _ *slog.Logger, _ *storage.AvailabilityRepository, _ *busy.Aggregator) error {
	return nil
}
