// Package handlers exposes the scheduling engine over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/conflict"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/goldenhour"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/interval"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/model"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/slots"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/suggest"
)

type AvailabilityStore interface {
	ListWindows(ctx context.Context, userID string) ([]model.WeeklyWindow, error)
}

type CalendarStore interface {
	ListItemsForDay(ctx context.Context, userID string, dayStart, dayEnd time.Time) ([]model.CalendarItem, error)
}

type ProfileStore interface {
	ListProfiles(ctx context.Context, userIDs []string) ([]model.UserTimezoneProfile, error)
}

type RequestStore interface {
	CreateMeetingRequest(ctx context.Context, req *model.MeetingRequest) (string, error)
}

type BusyAggregator interface {
	Aggregate(ctx context.Context, userID string, from, to time.Time) []model.BusyInterval
}

type ScheduleHandler struct {
	availability AvailabilityStore
	calendar     CalendarStore
	profiles     ProfileStore
	requests     RequestStore
	busy         BusyAggregator
	logger       *slog.Logger
	now          func() time.Time
}

func NewScheduleHandler(availability AvailabilityStore, calendar CalendarStore, profiles ProfileStore, requests RequestStore, busy BusyAggregator, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		availability: availability,
		calendar:     calendar,
		profiles:     profiles,
		requests:     requests,
		busy:         busy,
		logger:       logger,
		now:          time.Now,
	}
}

type slotItem struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type calendarEventItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	OwnerID   string `json:"owner_id,omitempty"`
	Location  string `json:"location,omitempty"`
}

type calendarEntry struct {
	Kind      string              `json:"kind"`
	Event     *calendarEventItem  `json:"event,omitempty"`
	GroupID   string              `json:"group_id,omitempty"`
	StartTime string              `json:"start_time,omitempty"`
	EndTime   string              `json:"end_time,omitempty"`
	Members   []calendarEventItem `json:"members,omitempty"`
}

type createRequestBody struct {
	OrganizerID string `json:"organizer_id"`
	InviteeID   string `json:"invitee_id"`
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type createRequestResponse struct {
	RequestID string `json:"request_id"`
}

type suggestResponse struct {
	Found     bool   `json:"found"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// Slots answers GET /api/v1/slots: the user's bookable openings on one day.
func (h *ScheduleHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}
	day, err := parseDay(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date (want YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	duration, err := minutesParam(r, "duration_minutes", 30)
	if err != nil || duration <= 0 {
		http.Error(w, "invalid duration_minutes", http.StatusBadRequest)
		return
	}
	buffer, err := minutesParam(r, "buffer_minutes", 0)
	if err != nil || buffer < 0 {
		http.Error(w, "invalid buffer_minutes", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	windows, err := h.availability.ListWindows(ctx, userID)
	if err != nil {
		h.logger.Error("availability lookup failed", "err", err, "user_id", userID)
		http.Error(w, "failed to load availability", http.StatusInternalServerError)
		return
	}

	dayEnd := day.AddDate(0, 0, 1)
	busyList := h.busy.Aggregate(ctx, userID, day, dayEnd)

	open, err := slots.Generate(windows, busyList, day, duration, buffer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items := make([]slotItem, 0, len(open))
	for _, s := range open {
		items = append(items, slotItem{
			StartTime: s.Start.Format(time.RFC3339),
			EndTime:   s.End.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// Calendar answers GET /api/v1/calendar: the day's items with overlapping
// entries folded into conflict groups.
func (h *ScheduleHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}
	day, err := parseDay(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date (want YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	items, err := h.calendar.ListItemsForDay(r.Context(), userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error("calendar lookup failed", "err", err, "user_id", userID)
		http.Error(w, "failed to load calendar", http.StatusInternalServerError)
		return
	}

	rendered := conflict.Group(items)
	entries := make([]calendarEntry, 0, len(rendered))
	for _, it := range rendered {
		entries = append(entries, toEntry(it))
	}
	writeJSON(w, http.StatusOK, entries)
}

// GoldenHours answers GET /api/v1/golden-hours: UTC ranges where every
// listed user is inside working hours.
func (h *ScheduleHandler) GoldenHours(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("user_ids"))
	if raw == "" {
		http.Error(w, "user_ids required", http.StatusBadRequest)
		return
	}
	var userIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			userIDs = append(userIDs, id)
		}
	}
	if len(userIDs) == 0 {
		http.Error(w, "user_ids required", http.StatusBadRequest)
		return
	}

	day, err := parseDay(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date (want YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	profiles, err := h.profiles.ListProfiles(r.Context(), userIDs)
	if err != nil {
		h.logger.Error("profile lookup failed", "err", err)
		http.Error(w, "failed to load timezone profiles", http.StatusInternalServerError)
		return
	}
	if len(profiles) < len(userIDs) {
		http.Error(w, "unknown user in user_ids", http.StatusNotFound)
		return
	}

	ranges, err := goldenhour.Find(profiles, day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	items := make([]slotItem, 0, len(ranges))
	for _, g := range ranges {
		items = append(items, slotItem{
			StartTime: g.Start.Format(time.RFC3339),
			EndTime:   g.End.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// Suggest answers GET /api/v1/suggest: the earliest workday slot that fits
// the requested duration around the user's commitments.
func (h *ScheduleHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}
	duration, err := minutesParam(r, "duration_minutes", 30)
	if err != nil || duration <= 0 {
		http.Error(w, "invalid duration_minutes", http.StatusBadRequest)
		return
	}

	now := h.now().UTC()
	horizon := now.AddDate(0, 0, suggest.DefaultLookAheadDays)
	busyList := h.busy.Aggregate(r.Context(), userID, now, horizon)

	busyRanges := make([]interval.Range, 0, len(busyList))
	for _, b := range busyList {
		busyRanges = append(busyRanges, interval.Range{Start: b.Start, End: b.End})
	}

	slot, ok := suggest.NextOpenSlot(busyRanges, now, duration, suggest.DefaultLookAheadDays)
	if !ok {
		writeJSON(w, http.StatusOK, suggestResponse{Found: false})
		return
	}
	writeJSON(w, http.StatusOK, suggestResponse{
		Found:     true,
		StartTime: slot.Start.Format(time.RFC3339),
		EndTime:   slot.End.Format(time.RFC3339),
	})
}

// CreateRequest answers POST /api/v1/requests: files a pending meeting
// request that immediately blocks both parties' time.
func (h *ScheduleHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	body.OrganizerID = strings.TrimSpace(body.OrganizerID)
	body.InviteeID = strings.TrimSpace(body.InviteeID)
	body.Title = strings.TrimSpace(body.Title)
	if body.OrganizerID == "" || body.InviteeID == "" || body.Title == "" {
		http.Error(w, "organizer_id, invitee_id and title required", http.StatusBadRequest)
		return
	}
	if body.OrganizerID == body.InviteeID {
		http.Error(w, "organizer and invitee must differ", http.StatusBadRequest)
		return
	}

	start, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, body.EndTime)
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}
	if !end.After(start) {
		http.Error(w, "end_time must be after start_time", http.StatusBadRequest)
		return
	}

	id, err := h.requests.CreateMeetingRequest(r.Context(), &model.MeetingRequest{
		OrganizerID: body.OrganizerID,
		InviteeID:   body.InviteeID,
		Title:       body.Title,
		Start:       start,
		End:         end,
	})
	if err != nil {
		h.logger.Error("request create failed", "err", err)
		http.Error(w, "failed to create request", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, createRequestResponse{RequestID: id})
}

func toEntry(it model.RenderableItem) calendarEntry {
	if it.Kind == model.RenderableConflict && it.Group != nil {
		members := make([]calendarEventItem, 0, len(it.Group.Members))
		for _, m := range it.Group.Members {
			members = append(members, toEventItem(m))
		}
		return calendarEntry{
			Kind:      model.RenderableConflict,
			GroupID:   it.Group.ID,
			StartTime: it.Group.Start.Format(time.RFC3339),
			EndTime:   it.Group.End.Format(time.RFC3339),
			Members:   members,
		}
	}
	ev := toEventItem(*it.Event)
	return calendarEntry{Kind: model.RenderableEvent, Event: &ev}
}

func toEventItem(e model.CalendarItem) calendarEventItem {
	return calendarEventItem{
		ID:        e.ID,
		Title:     e.Title,
		StartTime: e.Start.Format(time.RFC3339),
		EndTime:   e.End.Format(time.RFC3339),
		OwnerID:   e.OwnerID,
		Location:  e.Location,
	}
}

func parseDay(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(raw))
}

func minutesParam(r *http.Request, name string, def int) (time.Duration, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Duration(def) * time.Minute, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Minute, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
