package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coc-ops/roombook-api/internal/allocator"
	"github.com/coc-ops/roombook-api/internal/dto"
	"github.com/coc-ops/roombook-api/internal/finder"
	"github.com/coc-ops/roombook-api/internal/models"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

// RoomSource provides the bookable room catalog.
type RoomSource interface {
	List(ctx context.Context) ([]models.Room, error)
}

// BookingStore persists a day's request set.
type BookingStore interface {
	Load(day string) ([]models.Request, error)
	Save(day string, requests []models.Request) error
}

type slotSuggester interface {
	Suggest(req models.Request, assignments []models.Assignment, rooms []models.Room) ([]finder.RankedSlot, error)
}

// CacheInvalidator drops derived cache entries after a day mutates.
type CacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// BookingService orchestrates the booking lifecycle: submit, allocate,
// suggest alternatives, confirm or decline, and expose the day schedule.
// All mutations run load -> mutate -> allocate -> persist under one
// exclusive lock so concurrent clients cannot interleave writes.
type BookingService struct {
	rooms     RoomSource
	store     BookingStore
	suggester slotSuggester
	cache     CacheInvalidator
	heuristic allocator.Allocator
	exact     allocator.Allocator
	defaults  BookingConfig
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	pending   *suggestionStore

	mu sync.Mutex
}

// BookingConfig governs orchestrator behaviour.
type BookingConfig struct {
	DefaultStrategy allocator.Strategy
	OpenHour        float64
	CloseHour       float64
	SuggestionTTL   time.Duration
}

// NewBookingService wires the orchestrator dependencies.
func NewBookingService(
	rooms RoomSource,
	store BookingStore,
	suggester slotSuggester,
	cache CacheInvalidator,
	heuristic allocator.Allocator,
	exact allocator.Allocator,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg BookingConfig,
) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = allocator.StrategyHeuristic
	}
	if cfg.OpenHour == 0 && cfg.CloseHour == 0 {
		cfg.OpenHour = models.DefaultOpenHour
		cfg.CloseHour = models.DefaultCloseHour
	}
	if cfg.SuggestionTTL <= 0 {
		cfg.SuggestionTTL = 10 * time.Minute
	}
	return &BookingService{
		rooms:     rooms,
		store:     store,
		suggester: suggester,
		cache:     cache,
		heuristic: heuristic,
		exact:     exact,
		defaults:  cfg,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		pending:   newSuggestionStore(cfg.SuggestionTTL),
	}
}

// Create submits a new booking request. If the heuristic run cannot place it
// the response carries ranked alternative slots and a suggestion token; the
// request is not persisted until a suggestion is confirmed.
func (s *BookingService) Create(ctx context.Context, req dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	day := s.normalizeDay(req.Day)

	rooms, err := s.listRooms(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(day)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.ID == req.ID {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("booking id %s already exists for %s", req.ID, day))
		}
	}

	request := models.Request{
		ID:        req.ID,
		Order:     nextOrder(existing),
		Activity:  req.Activity,
		Priority:  req.Priority,
		Size:      req.Size,
		Primary:   models.Window{Start: req.Primary.Start, End: req.Primary.End},
		Alternate: models.Window{Start: req.Alternate.Start, End: req.Alternate.End},
	}
	if err := request.Validate(s.defaults.OpenHour, s.defaults.CloseHour); err != nil {
		return nil, err
	}

	augmented := append(append([]models.Request{}, existing...), request)
	assignments, err := s.allocate(ctx, allocator.StrategyHeuristic, augmented, rooms)
	if err != nil {
		return nil, err
	}

	if placement := findAssignment(assignments, request.ID); placement != nil {
		if err := s.persist(ctx, day, augmented); err != nil {
			return nil, err
		}
		return &dto.CreateBookingResponse{Status: "placed", Assignment: placement}, nil
	}

	slots, err := s.suggester.Suggest(request, assignments, rooms)
	if err != nil {
		s.metrics.ObserveSuggestion("none")
		return nil, err
	}
	s.metrics.ObserveSuggestion("offered")

	token := s.pending.Save(pendingSuggestion{
		SuggestionID: uuid.NewString(),
		Day:          day,
		Request:      request,
		Slots:        slots,
	})
	s.logger.Info("booking not placed, alternatives offered",
		zap.String("day", day),
		zap.String("request_id", request.ID),
		zap.Int("alternatives", len(slots)),
	)
	return &dto.CreateBookingResponse{
		Status:       "suggested",
		SuggestionID: token,
		Suggestions:  toRankedSlotDTOs(slots),
	}, nil
}

// ConfirmSuggestion applies one of the offered alternatives: the pending
// request's primary window is rewritten to the chosen interval and the full
// day is re-allocated and persisted.
func (s *BookingService) ConfirmSuggestion(ctx context.Context, req dto.ConfirmSuggestionRequest) (*dto.CreateBookingResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid confirm payload")
	}
	pending, ok := s.pending.Get(req.SuggestionID)
	if !ok {
		s.metrics.ObserveSuggestion("expired")
		return nil, appErrors.Clone(appErrors.ErrSuggestionExpired, "")
	}
	if req.Choice < 0 || req.Choice >= len(pending.Slots) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("choice must be between 0 and %d", len(pending.Slots)-1))
	}

	rooms, err := s.listRooms(ctx)
	if err != nil {
		return nil, err
	}

	chosen := pending.Slots[req.Choice]
	request := pending.Request
	request.Primary = chosen.Window

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(pending.Day)
	if err != nil {
		return nil, err
	}
	augmented := append(append([]models.Request{}, existing...), request)
	assignments, err := s.allocate(ctx, allocator.StrategyHeuristic, augmented, rooms)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, pending.Day, augmented); err != nil {
		return nil, err
	}
	s.pending.Delete(req.SuggestionID)
	s.metrics.ObserveSuggestion("confirmed")

	if placement := findAssignment(assignments, request.ID); placement != nil {
		return &dto.CreateBookingResponse{Status: "placed", Assignment: placement}, nil
	}
	return &dto.CreateBookingResponse{Status: "unplaced"}, nil
}

// DeclineSuggestion discards the pending request entirely; nothing is
// persisted.
func (s *BookingService) DeclineSuggestion(ctx context.Context, req dto.DeclineSuggestionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decline payload")
	}
	if _, ok := s.pending.Get(req.SuggestionID); !ok {
		return appErrors.Clone(appErrors.ErrSuggestionExpired, "")
	}
	s.pending.Delete(req.SuggestionID)
	s.metrics.ObserveSuggestion("declined")
	return nil
}

// Run allocates a day's request set with the requested strategy without
// mutating stored state.
func (s *BookingService) Run(ctx context.Context, req dto.AllocateRequest) (*dto.AllocateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload")
	}
	day := s.normalizeDay(req.Day)
	strategy := allocator.ParseStrategy(req.Strategy)
	if req.Strategy == "" {
		strategy = s.defaults.DefaultStrategy
	}

	rooms, err := s.listRooms(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	requests, err := s.load(day)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	assignments, err := s.allocate(ctx, strategy, requests, rooms)
	if err != nil {
		return nil, err
	}
	return &dto.AllocateResponse{
		Day:           day,
		Strategy:      string(strategy),
		Assignments:   assignments,
		Unplaced:      allocator.Unplaced(requests, assignments),
		TotalPriority: models.TotalPriority(assignments),
	}, nil
}

// Schedule builds the per-room day view from a fresh heuristic run.
func (s *BookingService) Schedule(ctx context.Context, query dto.ScheduleQuery) (*dto.ScheduleResponse, error) {
	day := s.normalizeDay(query.Day)

	rooms, err := s.listRooms(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	requests, err := s.load(day)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	assignments, err := s.allocate(ctx, s.defaults.DefaultStrategy, requests, rooms)
	if err != nil {
		return nil, err
	}

	byRoom := make(map[string][]models.Assignment, len(rooms))
	for _, a := range assignments {
		byRoom[a.RoomID] = append(byRoom[a.RoomID], a)
	}

	openSpan := s.defaults.CloseHour - s.defaults.OpenHour
	roomViews := make([]dto.RoomSchedule, 0, len(rooms))
	for _, room := range rooms {
		entries := byRoom[room.ID]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Window.Start < entries[j].Window.Start })

		view := dto.RoomSchedule{RoomID: room.ID, Capacity: room.Capacity, Bookings: make([]dto.ScheduleEntry, 0, len(entries))}
		for _, a := range entries {
			view.Bookings = append(view.Bookings, dto.ScheduleEntry{
				RequestID: a.RequestID,
				Activity:  a.Activity,
				Start:     a.Window.Start,
				End:       a.Window.End,
				Size:      a.Size,
				Priority:  a.Priority,
			})
			view.BookedHours += a.Window.Duration()
		}
		if openSpan > 0 {
			view.Utilization = view.BookedHours / openSpan
		}
		roomViews = append(roomViews, view)
	}

	return &dto.ScheduleResponse{
		Day:      day,
		Rooms:    roomViews,
		Unplaced: allocator.Unplaced(requests, assignments),
	}, nil
}

// ListRooms exposes the room catalog.
func (s *BookingService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.listRooms(ctx)
}

func (s *BookingService) listRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room catalog")
	}
	if len(rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "room catalog is empty")
	}
	return rooms, nil
}

func (s *BookingService) load(day string) ([]models.Request, error) {
	requests, err := s.store.Load(day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking requests")
	}
	return requests, nil
}

func (s *BookingService) persist(ctx context.Context, day string, requests []models.Request) error {
	if err := s.store.Save(day, requests); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist booking requests")
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, forecastCachePattern(day)); err != nil {
			s.logger.Warn("forecast cache invalidation failed", zap.String("day", day), zap.Error(err))
		}
	}
	return nil
}

func (s *BookingService) allocate(ctx context.Context, strategy allocator.Strategy, requests []models.Request, rooms []models.Room) ([]models.Assignment, error) {
	alloc := s.heuristic
	if strategy == allocator.StrategyExact && s.exact != nil {
		alloc = s.exact
	}
	start := time.Now()
	assignments, err := alloc.Allocate(ctx, requests, rooms)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveAllocation(string(strategy), time.Since(start), len(assignments), len(requests)-len(assignments))
	return assignments, nil
}

func (s *BookingService) normalizeDay(day string) string {
	if day == "" {
		return time.Now().UTC().Format("2006-01-02")
	}
	return day
}

func nextOrder(requests []models.Request) int {
	next := 1
	for _, r := range requests {
		if r.Order >= next {
			next = r.Order + 1
		}
	}
	return next
}

func findAssignment(assignments []models.Assignment, requestID string) *models.Assignment {
	for i := range assignments {
		if assignments[i].RequestID == requestID {
			return &assignments[i]
		}
	}
	return nil
}

func toRankedSlotDTOs(slots []finder.RankedSlot) []dto.RankedSlot {
	result := make([]dto.RankedSlot, 0, len(slots))
	for _, slot := range slots {
		result = append(result, dto.RankedSlot{
			RoomID:  slot.RoomID,
			Window:  slot.Window,
			Score:   slot.Score,
			Density: slot.Density,
		})
	}
	return result
}

func forecastCachePattern(day string) string {
	return fmt.Sprintf("forecast:%s*", day)
}

// --- Pending suggestion cache ---

type pendingSuggestion struct {
	SuggestionID string
	Day          string
	Request      models.Request
	Slots        []finder.RankedSlot
	CreatedAt    time.Time
}

type suggestionStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]pendingSuggestion
}

func newSuggestionStore(ttl time.Duration) *suggestionStore {
	return &suggestionStore{
		ttl:   ttl,
		items: make(map[string]pendingSuggestion),
	}
}

func (s *suggestionStore) Save(item pendingSuggestion) string {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	s.items[item.SuggestionID] = item
	s.mu.Unlock()
	return item.SuggestionID
}

func (s *suggestionStore) Get(id string) (pendingSuggestion, bool) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return pendingSuggestion{}, false
	}
	if time.Since(item.CreatedAt) > s.ttl {
		s.Delete(id)
		return pendingSuggestion{}, false
	}
	return item, true
}

func (s *suggestionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
