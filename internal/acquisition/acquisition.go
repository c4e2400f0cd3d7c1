package acquisition

import (
	"ecotracker/internal/models"
	"ecotracker/internal/providers"
	"ecotracker/internal/structures"
	"errors"
	"time"
)

// Acquisition owns the device subscriptions of one tracking session and
// turns their callbacks into signals. Apart from emit it is driven from the
// tracker loop only.
type Acquisition struct {
	caps       models.Capabilities
	position   PositionWatcher
	battery    BatteryManager
	visibility VisibilityMonitor
	wakeLock   WakeLocker
	logger     providers.Logger

	opts       WatchOptions
	retryDelay time.Duration
	emit       func(models.Signal)

	watch    WatchHandle
	watchGen uint64
	watching bool

	batteryHandle BatteryHandle
	batteryRef    float64
	batteryRefSet bool

	lock  WakeLockHandle
	retry *time.Timer
}

func NewAcquisition(
	conf *structures.Config,
	caps models.Capabilities,
	position PositionWatcher,
	battery BatteryManager,
	visibility VisibilityMonitor,
	wakeLock WakeLocker,
	logger providers.Logger,
) *Acquisition {
	return &Acquisition{
		caps:       caps,
		position:   position,
		battery:    battery,
		visibility: visibility,
		wakeLock:   wakeLock,
		logger:     logger,
		opts: WatchOptions{
			HighAccuracy: conf.Tracker.HighAccuracy,
			MaxAge:       conf.Tracker.FixMaxAge,
			Timeout:      conf.Tracker.FixTimeout,
		},
		retryDelay: conf.Tracker.WakeLockRetryDelay,
		emit:       func(models.Signal) {},
	}
}

// Bind sets the signal sink. It must be called before any subscription starts.
func (a *Acquisition) Bind(emit func(models.Signal)) {
	a.emit = emit
}

func (a *Acquisition) Capabilities() models.Capabilities {
	return a.caps
}

// StartPosition opens the position watch. A second call while watching is a no-op.
func (a *Acquisition) StartPosition() error {
	if a.watching {
		return nil
	}
	if !a.caps.Geolocation {
		return models.ErrCapabilityUnavailable
	}

	gen := a.watchGen + 1
	h, err := a.position.Watch(
		func(fix models.Fix) { a.emit(models.FixSignal{Watch: gen, Fix: fix}) },
		func(err error) { a.emit(models.PermissionDeniedSignal{Watch: gen, Err: err}) },
		a.opts,
	)
	if err != nil {
		return err
	}
	a.watch = h
	a.watchGen = gen
	a.watching = true
	a.logger.Debugf(providers.TypeTracker, "Position watch %d started", gen)
	return nil
}

func (a *Acquisition) StopPosition() {
	if !a.watching {
		return
	}
	a.position.ClearWatch(a.watch)
	a.watching = false
	a.logger.Debugf(providers.TypeTracker, "Position watch %d stopped", a.watchGen)
}

// IsCurrentWatch filters out signals of watches that have since ended.
func (a *Acquisition) IsCurrentWatch(gen uint64) bool {
	return a.watching && gen == a.watchGen
}

func (a *Acquisition) Watching() bool {
	return a.watching
}

// HookBattery starts a battery session. The level-change subscription is
// made once; every call takes a fresh reference point, the current level
// when one is known, otherwise the next level the device reports.
func (a *Acquisition) HookBattery() {
	if !a.caps.Battery {
		return
	}
	if a.batteryHandle == nil {
		h, err := a.battery.GetBattery()
		if err != nil {
			a.logger.Debugf(providers.TypeTracker, "Battery unavailable: %v", err)
			return
		}
		h.OnLevelChange(func(level float64) {
			a.emit(models.BatterySignal{Level: level})
		})
		a.batteryHandle = h
	}

	a.batteryRef, a.batteryRefSet = a.batteryHandle.Level()
	if a.batteryRefSet {
		a.logger.Debugf(providers.TypeTracker, "Battery referenced at level %.2f", a.batteryRef)
	}
}

// BatteryDelta converts a reported level into the drop since the session
// reference. The first level seen without a reference becomes the reference.
func (a *Acquisition) BatteryDelta(level float64) float64 {
	if !a.batteryRefSet {
		a.batteryRef, a.batteryRefSet = level, true
		a.logger.Debugf(providers.TypeTracker, "Battery referenced at level %.2f", level)
	}
	return a.batteryRef - level
}

func (a *Acquisition) WatchVisibility() {
	a.visibility.OnVisibilityChange(func(hidden bool) {
		a.emit(models.VisibilitySignal{Hidden: hidden})
	})
}

func (a *Acquisition) Hidden() bool {
	return a.visibility.IsHidden()
}

// AcquireWakeLock requests a screen lock if none is held. Failures are
// swallowed.
func (a *Acquisition) AcquireWakeLock() {
	if !a.caps.WakeLock || a.lock != nil {
		return
	}
	h, err := a.wakeLock.Request(ScreenWakeLock)
	if err != nil {
		if !errors.Is(err, ErrNotAllowed) {
			a.logger.Warnf(providers.TypeTracker, "Wake lock request failed: %v", err)
		}
		return
	}
	a.stopRetry()
	a.lock = h
	h.OnRelease(func() { a.emit(models.WakeLockReleasedSignal{}) })
}

func (a *Acquisition) HoldsWakeLock() bool {
	return a.lock != nil
}

// OnWakeLockReleased forgets a lock the system dropped and, when retry is
// set, schedules a new request after the retry delay.
func (a *Acquisition) OnWakeLockReleased(retry bool) {
	if a.lock != nil && !a.lock.Released() {
		return
	}
	a.lock = nil
	if !retry {
		return
	}
	a.stopRetry()
	a.retry = time.AfterFunc(a.retryDelay, func() {
		a.emit(models.WakeLockRetrySignal{})
	})
}

func (a *Acquisition) ReleaseWakeLock() {
	a.stopRetry()
	if a.lock == nil {
		return
	}
	if err := a.wakeLock.Release(a.lock); err != nil {
		a.logger.Debugf(providers.TypeTracker, "Wake lock release failed: %v", err)
	}
	a.lock = nil
}

func (a *Acquisition) stopRetry() {
	if a.retry != nil {
		a.retry.Stop()
		a.retry = nil
	}
}

// Stop cancels the position watch and releases the wake lock. The battery
// subscription outlives tracking sessions.
func (a *Acquisition) Stop() {
	a.StopPosition()
	a.ReleaseWakeLock()
}
