package controllers

import (
	"ecotracker/internal/acquisition"
	"ecotracker/internal/models"
	"ecotracker/internal/providers"
	"errors"
	"net/http"
	"time"
)

// SignalController receives device events from the page and hands them to
// the device bridge.
type SignalController struct {
	logger providers.Logger
	device acquisition.DevicePushInterface
}

func NewSignalController(logger providers.Logger, device acquisition.DevicePushInterface) *SignalController {
	return &SignalController{
		logger: logger,
		device: device,
	}
}

func (sc *SignalController) ReceivePosition(w http.ResponseWriter, r *http.Request) {
	var payload models.PositionInput
	if !decodePayload(w, r, sc.logger, &payload) {
		return
	}

	fix := models.Fix{Latitude: payload.Latitude, Longitude: payload.Longitude}
	if payload.Speed != nil {
		fix.SpeedMetersPerSecond = *payload.Speed
	}
	if payload.TimestampMs > 0 {
		fix.Timestamp = time.UnixMilli(payload.TimestampMs)
	}

	if err := sc.device.PushFix(fix); err != nil {
		// fixes without a live watch or past max age are dropped, not rejected
		sc.logger.Debugf(providers.TypePost, "Fix ignored: %v", err)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (sc *SignalController) ReceivePositionError(w http.ResponseWriter, r *http.Request) {
	var payload models.PositionErrorInput
	if !decodePayload(w, r, sc.logger, &payload) {
		return
	}
	if err := sc.device.PushPositionError(payload.Code, payload.Message); err != nil {
		sc.logger.Debugf(providers.TypePost, "Position error ignored: %v", err)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (sc *SignalController) ReceiveBattery(w http.ResponseWriter, r *http.Request) {
	var payload models.BatteryInput
	if !decodePayload(w, r, sc.logger, &payload) {
		return
	}
	err := sc.device.PushBattery(payload.Level)
	if errors.Is(err, models.ErrCapabilityUnavailable) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "Battery status not supported"})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (sc *SignalController) ReceiveVisibility(w http.ResponseWriter, r *http.Request) {
	var payload models.VisibilityInput
	if !decodePayload(w, r, sc.logger, &payload) {
		return
	}
	sc.device.SetHidden(payload.Hidden)
	w.WriteHeader(http.StatusAccepted)
}

func (sc *SignalController) ReleaseWakeLock(w http.ResponseWriter, r *http.Request) {
	if !sc.device.ReleaseWakeLockBySystem() {
		sc.logger.Debugf(providers.TypePost, "Wake lock release without a held lock")
	}
	w.WriteHeader(http.StatusAccepted)
}

func (sc *SignalController) PutSession(w http.ResponseWriter, r *http.Request) {
	var payload models.SessionInput
	if !decodePayload(w, r, sc.logger, &payload) {
		return
	}
	sc.device.SetSession(payload.Email, payload.LoggedIn)
	w.WriteHeader(http.StatusNoContent)
}

type trackDeviceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TrackDevice accepts a summary pushed by the client and only logs it.
func (sc *SignalController) TrackDevice(w http.ResponseWriter, r *http.Request) {
	var payload models.TrackDeviceInput
	if !decodePayload(w, r, sc.logger, &payload) {
		return
	}
	sc.logger.Infof(providers.TypeTracker, "Device data from %s: carbon=%.5f kg battery=%.1f%% distance=%.2f km speed=%.1f km/h",
		payload.Email, payload.Carbon, payload.BatteryUsed, payload.Distance, payload.Speed)
	writeJSON(w, http.StatusOK, trackDeviceResponse{Success: true, Message: "Tracking data received"})
}
