package services

import (
	"ecotracker/internal/acquisition"
	"ecotracker/internal/models"
	"ecotracker/internal/providers"
	"ecotracker/internal/structures"
	"ecotracker/internal/tracker"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

const signalBuffer = 64

type TrackerServiceInterface interface {
	StartTracking() error
	StopTracking()
	IsTracking() bool
	ReadModel() models.ReadModel
	Totals() models.RunningTotals
	WeeklyHistory(days int) []models.DayHistory
	Hourly(date string) []models.HourlySample
	MissionsFor(date string) ([]models.MissionStatus, int, error)
	Capabilities() models.Capabilities
	Today() string
	Devices() models.DeviceStatus
}

type request struct {
	fn   func()
	done chan struct{}
}

// TrackerService runs the single event loop that owns the accumulator.
// Device signals, clock ticks, save ticks and API calls are all serialized
// through it, so tracker state needs no locks.
type TrackerService struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	persistence *tracker.Persistence
	acquisition *acquisition.Acquisition
	session     acquisition.SessionReader
	location    *time.Location
	now         func() time.Time

	signals  chan models.Signal
	requests chan request
	quit     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once

	// owned by the loop
	acc      *tracker.Accumulator
	clock    *tracker.ActiveClock
	day      string
	tracking bool
	tier     models.RankTier
	streak   models.StreakRecord
}

func NewTrackerService(
	conf *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	persistence *tracker.Persistence,
	acq *acquisition.Acquisition,
	session acquisition.SessionReader,
) *TrackerService {
	location, err := time.LoadLocation(conf.Tracker.Timezone)
	if err != nil {
		logger.Warnf(providers.TypeTracker, "Unknown timezone %q, using local time: %v", conf.Tracker.Timezone, err)
		location = time.Local
	}

	s := &TrackerService{
		config:      conf,
		logger:      logger,
		metrics:     metrics,
		persistence: persistence,
		acquisition: acq,
		session:     session,
		location:    location,
		now:         time.Now,
		signals:     make(chan models.Signal, signalBuffer),
		requests:    make(chan request),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		acc:         tracker.NewAccumulator(tracker.FactorsFromConfig(conf)),
		clock:       tracker.NewActiveClock(conf.Tracker.ActiveTickInterval),
		tier:        tracker.RankFor(0),
		streak:      models.StreakRecord{Days: 1},
	}
	acq.Bind(s.emit)
	return s
}

func (s *TrackerService) localNow() time.Time {
	return s.now().In(s.location)
}

// emit hands a signal to the loop. Signals arriving after shutdown are dropped.
func (s *TrackerService) emit(sig models.Signal) {
	select {
	case s.signals <- sig:
	case <-s.done:
	}
}

// do runs fn on the loop goroutine, or inline while the loop is not running.
func (s *TrackerService) do(fn func()) {
	if !s.started.Load() {
		fn()
		return
	}
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case s.requests <- req:
		<-req.done
	case <-s.done:
		fn()
	}
}

// Restore seeds today's totals and the streak from storage.
func (s *TrackerService) Restore() error {
	now := s.localNow()
	s.day = tracker.DayKey(now)
	if snap, ok := s.persistence.LoadDaily(s.day); ok {
		s.acc.Seed(snap)
		s.logger.Infof(providers.TypeTracker, "Resumed %s: %.4f kg, %.2f km, %ds active",
			s.day, snap.CarbonKg, snap.DistanceKm, snap.ActiveSeconds)
	}
	s.streak = s.persistence.LoadStreak(now)
	s.tier = tracker.RankFor(s.acc.Totals().CarbonKg)
	return nil
}

// Init starts the loop.
func (s *TrackerService) Init() {
	if s.day == "" {
		s.day = tracker.DayKey(s.localNow())
	}
	s.acquisition.WatchVisibility()
	if !s.acquisition.Hidden() {
		s.clock.Resume()
	}
	s.started.Store(true)
	go s.run()
	s.logger.Infof(providers.TypeTracker, "Tracker loop started (save every %s)", s.config.Persistence.SaveInterval)
}

func (s *TrackerService) run() {
	defer close(s.done)

	save := time.NewTicker(s.config.Persistence.SaveInterval)
	defer save.Stop()
	defer s.clock.Pause()

	for {
		select {
		case <-s.quit:
			return
		case sig := <-s.signals:
			s.handleSignal(sig)
		case <-s.clock.C():
			s.acc.Tick()
		case <-save.C:
			s.saveTick(s.localNow())
		case req := <-s.requests:
			req.fn()
			close(req.done)
		}
	}
}

// Stop ends the loop. Later calls run inline.
func (s *TrackerService) Stop() {
	s.stopOnce.Do(func() {
		if !s.started.Load() {
			close(s.done)
			return
		}
		close(s.quit)
		<-s.done
		s.logger.Infof(providers.TypeTracker, "Tracker loop stopped")
	})
}

// Persist cancels the tracking session and writes the final snapshot.
func (s *TrackerService) Persist() error {
	var err error
	s.do(func() {
		s.acquisition.Stop()
		s.tracking = false
		s.logger.Infof(providers.TypeTracker, "Persisting %s snapshot...", s.day)
		err = s.persistence.SaveDaily(s.day, s.acc.Totals(), s.localNow())
	})
	return err
}

func (s *TrackerService) handleSignal(sig models.Signal) {
	switch sig := sig.(type) {
	case models.FixSignal:
		if !s.tracking || !s.acquisition.IsCurrentWatch(sig.Watch) {
			return
		}
		if prev := s.acc.Totals().LastLocation; prev != nil {
			s.metrics.ObserveFixStep(tracker.DistanceKm(*prev, models.Location{
				Latitude:  sig.Fix.Latitude,
				Longitude: sig.Fix.Longitude,
			}))
		}
		s.acc.ApplyFix(sig.Fix)
		s.metrics.IncFixes()

	case models.PermissionDeniedSignal:
		if !s.acquisition.IsCurrentWatch(sig.Watch) {
			return
		}
		s.acc.Deny()
		s.acquisition.Stop()
		s.tracking = false
		reason := "denied"
		if errors.Is(sig.Err, models.ErrFixTimeout) {
			reason = "timeout"
		}
		s.metrics.IncFixErrors(reason)
		s.logger.Warnf(providers.TypeTracker, "Position watch failed, tracking stopped: %v", sig.Err)

	case models.BatterySignal:
		s.acc.ApplyBattery(s.acquisition.BatteryDelta(sig.Level))

	case models.VisibilitySignal:
		if sig.Hidden {
			s.clock.Pause()
			return
		}
		s.clock.Resume()
		if s.tracking {
			s.acquisition.AcquireWakeLock()
		}

	case models.WakeLockReleasedSignal:
		s.acquisition.OnWakeLockReleased(s.tracking)

	case models.WakeLockRetrySignal:
		if s.tracking {
			s.acquisition.AcquireWakeLock()
		}
	}
}

// saveTick writes today's snapshot, samples the hour and checks for a rank
// change. On a new calendar day the old day is closed first.
func (s *TrackerService) saveTick(now time.Time) {
	if day := tracker.DayKey(now); day != s.day {
		_ = s.persistence.SaveDaily(s.day, s.acc.Totals(), now)
		s.logger.Infof(providers.TypeTracker, "Day rollover %s -> %s", s.day, day)
		s.acc.Rollover()
		s.day = day
		s.tier = tracker.RankFor(0)
		s.streak = s.persistence.LoadStreak(now)
	}

	totals := s.acc.Totals()
	if err := s.persistence.SaveDaily(s.day, totals, now); err == nil {
		s.logger.Debugf(providers.TypeStorage, "Saved %s snapshot", s.day)
	}
	s.persistence.SampleHour(now, totals)
	s.observeRank(now)
}

// observeRank bumps the streak whenever the derived tier differs from the
// last one seen, in either direction.
func (s *TrackerService) observeRank(now time.Time) {
	tier := tracker.RankFor(s.acc.Totals().CarbonKg)
	if tier.Index == s.tier.Index {
		return
	}
	s.logger.Infof(providers.TypeTracker, "Rank changed %s -> %s", s.tier.Name, tier.Name)
	s.tier = tier
	s.streak = s.persistence.BumpStreak(now)
}

func (s *TrackerService) StartTracking() error {
	if s.session != nil && s.session.UserEmail() == "" {
		return models.ErrNoSession
	}

	var err error
	s.do(func() {
		if s.tracking {
			return
		}
		s.acc.ClearDenial()
		if startErr := s.acquisition.StartPosition(); startErr != nil {
			if !errors.Is(startErr, models.ErrCapabilityUnavailable) {
				err = startErr
				return
			}
			s.logger.Infof(providers.TypeTracker, "Geolocation unavailable, tracking without position")
		}
		s.acc.RebaseBattery()
		s.acquisition.HookBattery()
		s.acquisition.AcquireWakeLock()
		s.tracking = true
		s.logger.Infof(providers.TypeTracker, "Tracking started")
	})
	return err
}

func (s *TrackerService) StopTracking() {
	s.do(func() {
		if !s.tracking {
			return
		}
		s.acquisition.Stop()
		s.tracking = false
		s.logger.Infof(providers.TypeTracker, "Tracking stopped")
	})
}

func (s *TrackerService) IsTracking() bool {
	var tracking bool
	s.do(func() { tracking = s.tracking })
	return tracking
}

func (s *TrackerService) ReadModel() models.ReadModel {
	var rm models.ReadModel
	s.do(func() {
		s.observeRank(s.localNow())
		rm = s.buildReadModel()
	})
	return rm
}

func (s *TrackerService) buildReadModel() models.ReadModel {
	totals := s.acc.Totals()
	missions, completed := tracker.EvaluateMissions(totals)
	xp := tracker.XP(totals.CarbonKg)

	return models.ReadModel{
		CarbonKg:           totals.CarbonKg,
		DistanceKm:         totals.DistanceKm,
		BatteryUsedPercent: totals.BatteryUsedPercent,
		SpeedKmh:           totals.SpeedKmh,
		LastLocation:       totals.LastLocation,
		ActiveSeconds:      totals.ActiveSeconds,
		PermissionDenied:   s.acc.Denied(),
		IsTracking:         s.tracking,
		RankTier:           s.tier,
		NextRankProgress:   tracker.NextRankProgress(totals.CarbonKg),
		XP:                 xp,
		XPRingPercent:      tracker.XPRingPercent(xp),
		StreakDays:         s.streak.Days,
		EcoEquivalent:      tracker.EcoEquivalentFor(totals.CarbonKg),
		Missions:           missions,
		MissionsCompleted:  completed,
		Supported:          s.acquisition.Capabilities(),
		Date:               s.day,
	}
}

// Totals has no side effects, unlike ReadModel.
func (s *TrackerService) Totals() models.RunningTotals {
	var totals models.RunningTotals
	s.do(func() { totals = s.acc.Totals() })
	return totals
}

func (s *TrackerService) Today() string {
	var day string
	s.do(func() { day = s.day })
	return day
}

// WeeklyHistory reads storage directly; it does not touch loop state.
func (s *TrackerService) WeeklyHistory(days int) []models.DayHistory {
	return s.persistence.History(days)
}

func (s *TrackerService) Hourly(date string) []models.HourlySample {
	return s.persistence.Hourly(date)
}

// MissionsFor evaluates missions live for today and against the stored
// snapshot for any other date.
func (s *TrackerService) MissionsFor(date string) ([]models.MissionStatus, int, error) {
	var (
		missions  []models.MissionStatus
		completed int
		today     bool
	)
	s.do(func() {
		if date == "" || date == s.day {
			today = true
			missions, completed = tracker.EvaluateMissions(s.acc.Totals())
		}
	})
	if today {
		return missions, completed, nil
	}

	snap, ok := s.persistence.LoadDaily(date)
	if !ok {
		return nil, 0, models.ErrNotFound
	}
	missions, completed = tracker.EvaluateMissions(snap.Totals())
	return missions, completed, nil
}

// Devices reports which device subscriptions are live right now.
func (s *TrackerService) Devices() models.DeviceStatus {
	var status models.DeviceStatus
	s.do(func() {
		status = models.DeviceStatus{
			Watching:     s.acquisition.Watching(),
			WakeLockHeld: s.acquisition.HoldsWakeLock(),
			ClockRunning: s.clock.Running(),
			Hidden:       s.acquisition.Hidden(),
		}
	})
	return status
}

func (s *TrackerService) Capabilities() models.Capabilities {
	return s.acquisition.Capabilities()
}
