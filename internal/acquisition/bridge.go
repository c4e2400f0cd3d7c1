package acquisition

import (
	"ecotracker/internal/models"
	"fmt"
	"sync"
	"time"
)

// Geolocation error codes as reported by the page.
const (
	PositionPermissionDenied = 1
	PositionUnavailable      = 2
	PositionTimeout          = 3
)

const ScreenWakeLock = "screen"

type activeWatch struct {
	id      WatchHandle
	onFix   func(models.Fix)
	onError func(error)
	opts    WatchOptions
	timer   *time.Timer
}

type bridgeWakeLock struct {
	mu        sync.Mutex
	released  bool
	listeners []func()
}

func (l *bridgeWakeLock) Released() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}

func (l *bridgeWakeLock) OnRelease(cb func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, cb)
}

// release marks the lock released and returns the listeners to notify.
func (l *bridgeWakeLock) release() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return nil
	}
	l.released = true
	return l.listeners
}

type bridgeBattery struct {
	b *DeviceBridge
}

func (h bridgeBattery) Level() (float64, bool) {
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	return h.b.batteryLevel, h.b.batteryKnown
}

func (h bridgeBattery) OnLevelChange(cb func(level float64)) {
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	h.b.batteryListeners = append(h.b.batteryListeners, cb)
}

// DeviceBridge implements the device ports on top of events pushed by the
// page over HTTP. Callbacks always run outside the bridge lock.
type DeviceBridge struct {
	mu   sync.Mutex
	caps models.Capabilities
	now  func() time.Time

	nextWatch WatchHandle
	watch     *activeWatch

	batteryKnown     bool
	batteryLevel     float64
	batteryListeners []func(float64)

	hidden              bool
	visibilityListeners []func(bool)

	lock *bridgeWakeLock

	email    string
	loggedIn bool
}

func NewDeviceBridge(caps models.Capabilities) *DeviceBridge {
	return &DeviceBridge{caps: caps, now: time.Now}
}

func (b *DeviceBridge) Watch(onFix func(models.Fix), onError func(error), opts WatchOptions) (WatchHandle, error) {
	if !b.caps.Geolocation {
		return 0, models.ErrCapabilityUnavailable
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.watch != nil {
		return 0, ErrWatchActive
	}

	b.nextWatch++
	w := &activeWatch{id: b.nextWatch, onFix: onFix, onError: onError, opts: opts}
	b.armTimeout(w)
	b.watch = w
	return w.id, nil
}

// armTimeout must be called with b.mu held.
func (b *DeviceBridge) armTimeout(w *activeWatch) {
	if w.opts.Timeout <= 0 {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	id := w.id
	w.timer = time.AfterFunc(w.opts.Timeout, func() {
		b.fail(id, models.ErrFixTimeout)
	})
}

func (b *DeviceBridge) ClearWatch(h WatchHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.watch == nil || b.watch.id != h {
		return
	}
	if b.watch.timer != nil {
		b.watch.timer.Stop()
	}
	b.watch = nil
}

// fail ends watch id and reports err to its owner.
func (b *DeviceBridge) fail(id WatchHandle, err error) bool {
	b.mu.Lock()
	w := b.watch
	if w == nil || w.id != id {
		b.mu.Unlock()
		return false
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	b.watch = nil
	b.mu.Unlock()

	w.onError(err)
	return true
}

// PushFix forwards a fix to the live watch. Fixes older than the watch max
// age are dropped.
func (b *DeviceBridge) PushFix(fix models.Fix) error {
	b.mu.Lock()
	w := b.watch
	if w == nil {
		b.mu.Unlock()
		return ErrNoWatch
	}
	now := b.now()
	if fix.Timestamp.IsZero() {
		fix.Timestamp = now
	}
	if w.opts.MaxAge > 0 && now.Sub(fix.Timestamp) > w.opts.MaxAge {
		b.mu.Unlock()
		return ErrStaleFix
	}
	b.armTimeout(w)
	b.mu.Unlock()

	w.onFix(fix)
	return nil
}

// PushPositionError fails the live watch with the error matching code.
func (b *DeviceBridge) PushPositionError(code int, message string) error {
	b.mu.Lock()
	w := b.watch
	b.mu.Unlock()
	if w == nil {
		return ErrNoWatch
	}

	var err error
	switch code {
	case PositionUnavailable:
		err = fmt.Errorf("%w: position unavailable: %s", models.ErrPermissionDenied, message)
	case PositionTimeout:
		err = fmt.Errorf("%w: %s", models.ErrFixTimeout, message)
	default:
		err = fmt.Errorf("%w: code %d: %s", models.ErrPermissionDenied, code, message)
	}
	if !b.fail(w.id, err) {
		return ErrNoWatch
	}
	return nil
}

func (b *DeviceBridge) GetBattery() (BatteryHandle, error) {
	if !b.caps.Battery {
		return nil, models.ErrCapabilityUnavailable
	}
	return bridgeBattery{b: b}, nil
}

// PushBattery records a level reading in [0, 1]. Listeners fire on the first
// reading and then only when the level changes.
func (b *DeviceBridge) PushBattery(level float64) error {
	if !b.caps.Battery {
		return models.ErrCapabilityUnavailable
	}
	b.mu.Lock()
	changed := !b.batteryKnown || level != b.batteryLevel
	b.batteryKnown = true
	b.batteryLevel = level
	listeners := append([]func(float64){}, b.batteryListeners...)
	b.mu.Unlock()

	if changed {
		for _, cb := range listeners {
			cb(level)
		}
	}
	return nil
}

func (b *DeviceBridge) IsHidden() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hidden
}

func (b *DeviceBridge) OnVisibilityChange(cb func(hidden bool)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visibilityListeners = append(b.visibilityListeners, cb)
}

// SetHidden updates page visibility. Hiding the page drops a held wake lock.
func (b *DeviceBridge) SetHidden(hidden bool) {
	b.mu.Lock()
	if b.hidden == hidden {
		b.mu.Unlock()
		return
	}
	b.hidden = hidden
	listeners := append([]func(bool){}, b.visibilityListeners...)
	b.mu.Unlock()

	if hidden {
		b.ReleaseWakeLockBySystem()
	}
	for _, cb := range listeners {
		cb(hidden)
	}
}

func (b *DeviceBridge) Request(kind string) (WakeLockHandle, error) {
	if !b.caps.WakeLock {
		return nil, models.ErrCapabilityUnavailable
	}
	if kind != ScreenWakeLock {
		return nil, fmt.Errorf("unsupported wake lock type %q", kind)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hidden {
		return nil, ErrNotAllowed
	}
	b.lock = &bridgeWakeLock{}
	return b.lock, nil
}

func (b *DeviceBridge) Release(h WakeLockHandle) error {
	l, ok := h.(*bridgeWakeLock)
	if !ok {
		return fmt.Errorf("foreign wake lock handle %T", h)
	}
	b.mu.Lock()
	if b.lock == l {
		b.lock = nil
	}
	b.mu.Unlock()

	l.mu.Lock()
	l.released = true
	l.mu.Unlock()
	return nil
}

// ReleaseWakeLockBySystem drops the held lock as the OS would and notifies
// its listeners. It reports whether a lock was held.
func (b *DeviceBridge) ReleaseWakeLockBySystem() bool {
	b.mu.Lock()
	l := b.lock
	b.lock = nil
	b.mu.Unlock()
	if l == nil {
		return false
	}
	for _, cb := range l.release() {
		cb()
	}
	return true
}

func (b *DeviceBridge) SetSession(email string, loggedIn bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.email = email
	b.loggedIn = loggedIn
}

func (b *DeviceBridge) UserEmail() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.loggedIn {
		return ""
	}
	return b.email
}

func (b *DeviceBridge) LoggedIn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loggedIn
}
