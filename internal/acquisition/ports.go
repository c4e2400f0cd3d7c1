// Package acquisition turns device capabilities into tracker signals.
package acquisition

import (
	"ecotracker/internal/models"
	"errors"
	"time"
)

var (
	ErrWatchActive = errors.New("position watch already active")
	ErrNoWatch     = errors.New("no active position watch")
	ErrStaleFix    = errors.New("position fix older than max age")
	ErrNotAllowed  = errors.New("wake lock not allowed while hidden")
)

type WatchHandle int

type WatchOptions struct {
	HighAccuracy bool
	MaxAge       time.Duration
	Timeout      time.Duration
}

// PositionWatcher delivers fixes until the watch is cleared or fails.
// After onError fires the watch is over.
type PositionWatcher interface {
	Watch(onFix func(models.Fix), onError func(error), opts WatchOptions) (WatchHandle, error)
	ClearWatch(h WatchHandle)
}

// BatteryHandle reports the last known level; ok is false until the device
// has reported one.
type BatteryHandle interface {
	Level() (level float64, ok bool)
	OnLevelChange(cb func(level float64))
}

type BatteryManager interface {
	GetBattery() (BatteryHandle, error)
}

type VisibilityMonitor interface {
	IsHidden() bool
	OnVisibilityChange(cb func(hidden bool))
}

type WakeLockHandle interface {
	Released() bool
	// OnRelease fires when the system drops the lock, not on explicit Release.
	OnRelease(cb func())
}

type WakeLocker interface {
	Request(kind string) (WakeLockHandle, error)
	Release(h WakeLockHandle) error
}

// SessionReader exposes the identity owned by the auth collaborator.
type SessionReader interface {
	UserEmail() string
	LoggedIn() bool
}

// DevicePushInterface is how the page reports device events to the bridge.
type DevicePushInterface interface {
	PushFix(fix models.Fix) error
	PushPositionError(code int, message string) error
	PushBattery(level float64) error
	SetHidden(hidden bool)
	ReleaseWakeLockBySystem() bool
	SetSession(email string, loggedIn bool)
}
