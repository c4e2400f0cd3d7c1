package models

import "time"

// Fix is one geolocation sample reported by the device.
type Fix struct {
	Latitude             float64
	Longitude            float64
	SpeedMetersPerSecond float64
	Timestamp            time.Time
}

// Signal is an event delivered to the tracker loop.
type Signal interface {
	isSignal()
}

type FixSignal struct {
	Watch uint64
	Fix   Fix
}

type PermissionDeniedSignal struct {
	Watch uint64
	Err   error
}

// BatterySignal carries a raw level in [0, 1]. The tracker loop turns it
// into a drop against the session reference.
type BatterySignal struct {
	Level float64
}

type VisibilitySignal struct {
	Hidden bool
}

type WakeLockReleasedSignal struct{}

type WakeLockRetrySignal struct{}

func (FixSignal) isSignal()              {}
func (PermissionDeniedSignal) isSignal() {}
func (BatterySignal) isSignal()          {}
func (VisibilitySignal) isSignal()       {}
func (WakeLockReleasedSignal) isSignal() {}
func (WakeLockRetrySignal) isSignal()    {}
