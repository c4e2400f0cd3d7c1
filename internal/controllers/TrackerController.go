package controllers

import (
	"ecotracker/internal/models"
	"ecotracker/internal/providers"
	"ecotracker/internal/services"
	"ecotracker/internal/structures"
	"ecotracker/internal/tracker"
	"errors"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const maxHistoryDays = 31

type TrackerController struct {
	logger  providers.Logger
	service services.TrackerServiceInterface
	cache   providers.CacheProviderInterface
	conf    *structures.Config
}

func NewTrackerController(conf *structures.Config, logger providers.Logger, service services.TrackerServiceInterface, cache providers.CacheProviderInterface) *TrackerController {
	return &TrackerController{
		logger:  logger,
		service: service,
		cache:   cache,
		conf:    conf,
	}
}

func (tc *TrackerController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := tc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	tc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// dateParam returns the "date" query value, or today when absent.
func (tc *TrackerController) dateParam(r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return tc.service.Today(), true
	}
	if _, err := time.Parse(tracker.DateLayout, date); err != nil {
		return "", false
	}
	return date, true
}

func (tc *TrackerController) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tc.service.ReadModel())
}

func (tc *TrackerController) Start(w http.ResponseWriter, r *http.Request) {
	err := tc.service.StartTracking()
	switch {
	case errors.Is(err, models.ErrNoSession):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "Login required to start tracking"})
		return
	case err != nil:
		tc.logger.Errorf(providers.TypePost, "Unable to start tracking: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tc.service.ReadModel())
}

func (tc *TrackerController) Stop(w http.ResponseWriter, r *http.Request) {
	tc.service.StopTracking()
	writeJSON(w, http.StatusOK, tc.service.ReadModel())
}

func (tc *TrackerController) GetWeeklyHistory(w http.ResponseWriter, r *http.Request) {
	days := tc.conf.Tracker.HistoryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := cast.ToIntE(raw)
		if err != nil || n < 1 || n > maxHistoryDays {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "days must be between 1 and " + strconv.Itoa(maxHistoryDays)})
			return
		}
		days = n
	}

	tc.serveFromCacheOrCompute(w, "weekly:"+strconv.Itoa(days), func() (any, error) {
		return tc.service.WeeklyHistory(days), nil
	})
}

func (tc *TrackerController) GetHourly(w http.ResponseWriter, r *http.Request) {
	date, ok := tc.dateParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}
	tc.serveFromCacheOrCompute(w, "hourly:"+date, func() (any, error) {
		return tc.service.Hourly(date), nil
	})
}

type missionsResponse struct {
	Date      string                 `json:"date"`
	Missions  []models.MissionStatus `json:"missions"`
	Completed int                    `json:"completed"`
}

// GetMissions is never cached: today's missions change with every signal.
func (tc *TrackerController) GetMissions(w http.ResponseWriter, r *http.Request) {
	date, ok := tc.dateParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}
	missions, completed, err := tc.service.MissionsFor(date)
	if errors.Is(err, models.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "No snapshot for " + date})
		return
	}
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, missionsResponse{Date: date, Missions: missions, Completed: completed})
}
