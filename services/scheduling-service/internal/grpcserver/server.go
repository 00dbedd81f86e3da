//go:build protogen

package grpcserver

import (
	"context"
	"log/slog"
	"time"

	schedulingv1 "github.com/tahsin-rahman/meetsync/protos/gen/scheduling/v1"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/busy"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/slots"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/storage"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/suggest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type server struct {
	schedulingv1.UnimplementedSchedulingServiceServer
	availability *storage.AvailabilityRepository
	aggregator   *busy.Aggregator
	logger       *slog.Logger
}

func Register(grpcServer *grpc.Server, availability *storage.AvailabilityRepository, aggregator *busy.Aggregator, logger *slog.Logger) {
	schedulingv1.RegisterSchedulingServiceServer(grpcServer, &server{
		availability: availability,
		aggregator:   aggregator,
		logger:       logger,
	})
}

// GetOpenSlots serves other services that need a user's bookable openings
// without going through the HTTP edge.
func (s *server) GetOpenSlots(ctx context.Context, req *schedulingv1.OpenSlotsRequest) (*schedulingv1.OpenSlotsResponse, error) {
	if req.GetUserId() == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id required")
	}
	day, err := time.Parse("2006-01-02", req.GetDate())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid date")
	}
	duration := time.Duration(req.GetDurationMinutes()) * time.Minute
	if duration <= 0 {
		duration = 30 * time.Minute
	}
	buffer := time.Duration(req.GetBufferMinutes()) * time.Minute

	windows, err := s.availability.ListWindows(ctx, req.GetUserId())
	if err != nil {
		s.logger.Error("availability lookup failed", "err", err, "user_id", req.GetUserId())
		return nil, status.Error(codes.Internal, "failed to load availability")
	}

	busyList := s.aggregator.Aggregate(ctx, req.GetUserId(), day, day.AddDate(0, 0, 1))
	open, err := slots.Generate(windows, busyList, day, duration, buffer)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp := &schedulingv1.OpenSlotsResponse{UserId: req.GetUserId()}
	for _, slot := range open {
		resp.Slots = append(resp.Slots, &schedulingv1.Slot{
			StartTime: timestamppb.New(slot.Start),
			EndTime:   timestamppb.New(slot.End),
		})
	}
	return resp, nil
}

// SuggestSlot returns the earliest workday opening for the user.
func (s *server) SuggestSlot(ctx context.Context, req *schedulingv1.SuggestSlotRequest) (*schedulingv1.SuggestSlotResponse, error) {
	if req.GetUserId() == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id required")
	}
	duration := time.Duration(req.GetDurationMinutes()) * time.Minute
	if duration <= 0 {
		duration = 30 * time.Minute
	}

	now := time.Now().UTC()
	horizon := now.AddDate(0, 0, suggest.DefaultLookAheadDays)
	busyList := s.aggregator.Aggregate(ctx, req.GetUserId(), now, horizon)

	busyRanges := make([]interval.Range, 0, len(busyList))
	for _, b := range busyList {
		busyRanges = append(busyRanges, interval.Range{Start: b.Start, End: b.End})
	}

	slot, ok := suggest.NextOpenSlot(busyRanges, now, duration, suggest.DefaultLookAheadDays)
	if !ok {
		return &schedulingv1.SuggestSlotResponse{Found: false}, nil
	}
	return &schedulingv1.SuggestSlotResponse{
		Found: true,
		Slot: &schedulingv1.Slot{
			StartTime: timestamppb.New(slot.Start),
			EndTime:   timestamppb.New(slot.End),
		},
	}, nil
}
