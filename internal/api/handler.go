package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/eugenenazirov/army-grid/internal/layout"
	"github.com/eugenenazirov/army-grid/internal/metrics"
	"github.com/eugenenazirov/army-grid/internal/partition"
	"github.com/eugenenazirov/army-grid/internal/roster"
	"github.com/eugenenazirov/army-grid/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultMaxUnits = 10_000

// Handler wires partitioning, layout, roster and profile storage into HTTP handlers.
type Handler struct {
	storage  storage.Storage
	metrics  *metrics.Collector
	maxUnits int

	// one spawner per profile so each keeps its own previous grid
	spawners *xsync.Map[string, *roster.Spawner]

	clock func() time.Time

	mu                sync.RWMutex
	profilesUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMetrics records request outcomes on c.
func WithMetrics(c *metrics.Collector) HandlerOption {
	return func(h *Handler) {
		h.metrics = c
	}
}

// WithMaxUnits caps roster totals, partition sizes and layout item counts.
func WithMaxUnits(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxUnits = n
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage:  store,
		maxUnits: defaultMaxUnits,
		spawners: xsync.NewMap[string, *roster.Spawner](),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.profilesUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePartition(w http.ResponseWriter, r *http.Request) {
	var req partitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Count > h.maxUnits || req.Sum > h.maxUnits {
		writeError(w, http.StatusBadRequest, "Invalid request",
			fmt.Sprintf("sum and count must not exceed %d", h.maxUnits))
		return
	}

	values, err := partitionerFor(req.Seed).Generate(req.Sum, req.Count, req.LowerBound, req.UpperBound)
	h.metrics.ObservePartition(len(values), err)
	if err != nil {
		writePartitionError(w, err, "Keep sum between count*lowerBound and count*upperBound")
		return
	}

	resp := partitionResponse{
		Sum:        req.Sum,
		Count:      req.Count,
		LowerBound: req.LowerBound,
		UpperBound: req.UpperBound,
		Values:     values,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.ItemCount < 0 || req.ItemCount > h.maxUnits {
		writeError(w, http.StatusBadRequest, "Invalid request",
			fmt.Sprintf("itemCount must be between 0 and %d", h.maxUnits))
		return
	}
	if req.Previous.Rows < 0 || req.Previous.Columns < 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "previous rows and columns must not be negative")
		return
	}

	profile, err := req.toProfile()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if err := profile.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid layout", err.Error())
		return
	}

	layoutReq := profile.Request(req.ItemCount)
	layoutReq.Previous = layout.Grid{Rows: req.Previous.Rows, Columns: req.Previous.Columns}
	result := layout.Solve(layoutReq)
	h.metrics.ObserveLayout(result, true)

	writeJSON(w, http.StatusOK, newLayoutResponse(result))
}

func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request) {
	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	name := req.Profile
	if name == "" {
		name = storage.DefaultProfileName
	}
	profile, err := h.storage.GetProfile(name)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	start := time.Now()
	built, err := roster.NewBuilder(partitionerFor(req.Seed), h.maxUnits).Build(req.Total)
	if errors.Is(err, roster.ErrTooManyUnits) {
		// Rejected before any partitioning took place.
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if err != nil {
		h.metrics.ObservePartition(0, err)
		suggestion := fmt.Sprintf("A roster needs at least one unit of each of the %d unit types", len(roster.UnitTypes()))
		writePartitionError(w, err, suggestion)
		return
	}
	h.metrics.ObservePartition(len(built.Counts), nil)

	army := h.spawner(name).Spawn(built, profile.Request(0))
	elapsed := time.Since(start)
	h.metrics.ObserveRoster(len(army.Units))
	h.metrics.ObserveLayout(army.Layout, army.Recomputed)

	writeJSON(w, http.StatusOK, newRosterResponse(name, profile, army, elapsed))
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	_ = r
	names, err := h.storage.ListProfiles()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := profilesResponse{
		Profiles:  names,
		UpdatedAt: h.currentProfilesUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	profile, err := h.storage.GetProfile(name)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Name: name, Profile: newProfileDTO(profile)})
}

func (h *Handler) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var req profileDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	profile, err := req.toProfile()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid profile", err.Error())
		return
	}

	name := r.PathValue("name")
	if err := h.storage.PutProfile(name, profile); err != nil {
		writeStorageError(w, err)
		return
	}

	h.markProfilesUpdated()

	resp := profileResponse{
		Name:    name,
		Profile: newProfileDTO(profile),
		Message: "Profile saved successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.storage.DeleteProfile(name); err != nil {
		writeStorageError(w, err)
		return
	}
	h.spawners.Delete(name)
	h.markProfilesUpdated()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) spawner(profile string) *roster.Spawner {
	if s, ok := h.spawners.Load(profile); ok {
		return s
	}
	s, _ := h.spawners.LoadOrStore(profile, roster.NewSpawner())
	return s
}

func (h *Handler) currentProfilesUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.profilesUpdatedAt
}

func (h *Handler) markProfilesUpdated() {
	h.mu.Lock()
	h.profilesUpdatedAt = h.clock()
	h.mu.Unlock()
}

// partitionerFor returns a reproducible partitioner when a seed is given and
// the shared one otherwise.
func partitionerFor(seed *uint64) partition.Partitioner {
	if seed == nil {
		return partition.New(nil)
	}
	return partition.New(partition.NewSource(*seed))
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}

func writePartitionError(w http.ResponseWriter, err error, suggestion string) {
	switch {
	case errors.Is(err, partition.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, partition.ErrInfeasible):
		writeError(w, http.StatusUnprocessableEntity, "Cannot partition", err.Error(), suggestion)
	default:
		writeInternalError(w, err)
	}
}

func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "Profile not found", err.Error())
	case errors.Is(err, storage.ErrInvalidProfile), errors.Is(err, storage.ErrInvalidProfileName):
		writeError(w, http.StatusBadRequest, "Invalid profile", err.Error())
	case errors.Is(err, storage.ErrProfileProtected):
		writeError(w, http.StatusConflict, "Profile protected", err.Error())
	case errors.Is(err, storage.ErrTooManyProfiles):
		writeError(w, http.StatusConflict, "Too many profiles", err.Error(), "Delete an unused profile first")
	default:
		writeInternalError(w, err)
	}
}
