package acquisition

import (
	"ecotracker/internal/models"
	"ecotracker/internal/structures"
	"ecotracker/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	signals chan models.Signal
}

func newRecorder() *recorder {
	return &recorder{signals: make(chan models.Signal, 32)}
}

func (r *recorder) emit(s models.Signal) {
	r.signals <- s
}

func (r *recorder) next(t *testing.T) models.Signal {
	t.Helper()
	select {
	case s := <-r.signals:
		return s
	case <-time.After(time.Second):
		t.Fatal("no signal emitted")
		return nil
	}
}

func (r *recorder) none(t *testing.T) {
	t.Helper()
	select {
	case s := <-r.signals:
		t.Fatalf("unexpected signal %#v", s)
	default:
	}
}

func newTestAcquisition(caps models.Capabilities) (*Acquisition, *DeviceBridge, *recorder, *testutil.MockLogger) {
	conf := &structures.Config{Tracker: structures.TrackerConfig{
		FixMaxAge:          5 * time.Second,
		FixTimeout:         time.Hour,
		HighAccuracy:       true,
		WakeLockRetryDelay: 10 * time.Millisecond,
	}}
	bridge := NewDeviceBridge(caps)
	logger := &testutil.MockLogger{}
	a := NewAcquisition(conf, caps, bridge, bridge, bridge, bridge, logger)
	rec := newRecorder()
	a.Bind(rec.emit)
	return a, bridge, rec, logger
}

func TestNewCapabilities(t *testing.T) {
	conf := &structures.Config{Device: structures.DeviceConfig{Geolocation: true, WakeLock: true}}
	assert.Equal(t, models.Capabilities{Geolocation: true, WakeLock: true}, NewCapabilities(conf))
}

func TestAcquisition_StartPositionIdempotent(t *testing.T) {
	a, bridge, rec, _ := newTestAcquisition(allCaps)

	require.NoError(t, a.StartPosition())
	require.NoError(t, a.StartPosition())
	assert.True(t, a.Watching())

	require.NoError(t, bridge.PushFix(models.Fix{Latitude: 4}))
	sig, ok := rec.next(t).(models.FixSignal)
	require.True(t, ok)
	assert.Equal(t, uint64(1), sig.Watch)
	assert.True(t, a.IsCurrentWatch(sig.Watch))
	rec.none(t)
}

func TestAcquisition_StopPositionIdempotent(t *testing.T) {
	a, bridge, _, _ := newTestAcquisition(allCaps)

	a.StopPosition()
	require.NoError(t, a.StartPosition())
	a.StopPosition()
	a.StopPosition()

	assert.False(t, a.Watching())
	assert.ErrorIs(t, bridge.PushFix(models.Fix{}), ErrNoWatch)
}

func TestAcquisition_NoGeolocation(t *testing.T) {
	a, _, _, _ := newTestAcquisition(models.Capabilities{Battery: true})
	assert.ErrorIs(t, a.StartPosition(), models.ErrCapabilityUnavailable)
	assert.False(t, a.Watching())
}

func TestAcquisition_DenialThenRestartUsesNewGeneration(t *testing.T) {
	a, bridge, rec, _ := newTestAcquisition(allCaps)

	require.NoError(t, a.StartPosition())
	require.NoError(t, bridge.PushPositionError(PositionPermissionDenied, "denied"))

	denied, ok := rec.next(t).(models.PermissionDeniedSignal)
	require.True(t, ok)
	assert.ErrorIs(t, denied.Err, models.ErrPermissionDenied)
	assert.Equal(t, uint64(1), denied.Watch)

	// the tracker loop stops the watch in response
	a.StopPosition()
	assert.False(t, a.IsCurrentWatch(denied.Watch))

	require.NoError(t, a.StartPosition())
	require.NoError(t, bridge.PushFix(models.Fix{}))
	fix := rec.next(t).(models.FixSignal)
	assert.Equal(t, uint64(2), fix.Watch)
	assert.False(t, a.IsCurrentWatch(1))
}

func TestAcquisition_HookBattery(t *testing.T) {
	a, bridge, rec, _ := newTestAcquisition(allCaps)

	require.NoError(t, bridge.PushBattery(0.8))
	a.HookBattery()
	a.HookBattery()
	require.NoError(t, bridge.PushBattery(0.75))

	sig, ok := rec.next(t).(models.BatterySignal)
	require.True(t, ok)
	assert.Equal(t, 0.75, sig.Level)
	assert.InDelta(t, 0.05, a.BatteryDelta(sig.Level), 1e-9)
	rec.none(t)

	// a new session measures from the current level
	a.HookBattery()
	assert.Zero(t, a.BatteryDelta(0.75))
}

func TestAcquisition_BatteryReferenceFromFirstReading(t *testing.T) {
	a, bridge, rec, _ := newTestAcquisition(allCaps)

	a.HookBattery()
	require.NoError(t, bridge.PushBattery(0.6))
	require.NoError(t, bridge.PushBattery(0.5))

	first := rec.next(t).(models.BatterySignal)
	assert.Zero(t, a.BatteryDelta(first.Level))
	second := rec.next(t).(models.BatterySignal)
	assert.InDelta(t, 0.1, a.BatteryDelta(second.Level), 1e-9)
}

func TestAcquisition_HookBatteryUnsupported(t *testing.T) {
	a, _, rec, _ := newTestAcquisition(models.Capabilities{Geolocation: true})
	a.HookBattery()
	rec.none(t)
}

func TestAcquisition_Visibility(t *testing.T) {
	a, bridge, rec, _ := newTestAcquisition(allCaps)
	a.WatchVisibility()

	bridge.SetHidden(true)
	assert.True(t, a.Hidden())
	assert.Equal(t, models.VisibilitySignal{Hidden: true}, rec.next(t))
}

func TestAcquisition_WakeLockRetry(t *testing.T) {
	a, bridge, rec, _ := newTestAcquisition(allCaps)

	a.AcquireWakeLock()
	require.True(t, a.HoldsWakeLock())

	require.True(t, bridge.ReleaseWakeLockBySystem())
	assert.Equal(t, models.WakeLockReleasedSignal{}, rec.next(t))

	a.OnWakeLockReleased(true)
	assert.False(t, a.HoldsWakeLock())
	assert.Equal(t, models.WakeLockRetrySignal{}, rec.next(t))

	a.AcquireWakeLock()
	assert.True(t, a.HoldsWakeLock())
}

func TestAcquisition_ReleaseCancelsRetry(t *testing.T) {
	a, bridge, rec, _ := newTestAcquisition(allCaps)

	a.AcquireWakeLock()
	bridge.ReleaseWakeLockBySystem()
	rec.next(t)
	a.OnWakeLockReleased(true)
	a.ReleaseWakeLock()

	time.Sleep(30 * time.Millisecond)
	rec.none(t)
}

func TestAcquisition_WakeLockHiddenIsQuiet(t *testing.T) {
	a, bridge, _, logger := newTestAcquisition(allCaps)
	bridge.SetHidden(true)

	a.AcquireWakeLock()
	assert.False(t, a.HoldsWakeLock())
	assert.Zero(t, logger.Count("warn"))
}

func TestAcquisition_StaleReleaseIgnored(t *testing.T) {
	a, _, rec, _ := newTestAcquisition(allCaps)

	a.AcquireWakeLock()
	// a release signal for an older lock while the current one is held
	a.OnWakeLockReleased(true)
	assert.True(t, a.HoldsWakeLock())
	rec.none(t)
}

func TestAcquisition_Stop(t *testing.T) {
	a, bridge, _, _ := newTestAcquisition(allCaps)

	require.NoError(t, a.StartPosition())
	a.AcquireWakeLock()
	a.Stop()

	assert.False(t, a.Watching())
	assert.False(t, a.HoldsWakeLock())
	assert.False(t, bridge.ReleaseWakeLockBySystem())
}
