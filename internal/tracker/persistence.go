package tracker

import (
	"ecotracker/internal/models"
	"ecotracker/internal/providers"
	"ecotracker/internal/storage/interfaces"
	"ecotracker/internal/structures"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	DateLayout   = "2006-01-02"
	dailyPrefix  = "daily:"
	hourlyPrefix = "hourly:"
	streakKey    = "streak"
)

// DayKey is the local calendar date of t.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Persistence maps totals onto the key-value store. Every failure is logged
// and counted, then swallowed: the accumulator keeps running without storage.
type Persistence struct {
	store        interfaces.StoreInterface
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
	hourlyWindow time.Duration
}

func NewPersistence(conf *structures.Config, store interfaces.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Persistence {
	return &Persistence{
		store:        store,
		logger:       logger,
		metrics:      metrics,
		hourlyWindow: conf.Tracker.HourlyWindow,
	}
}

func (p *Persistence) read(key string, v interface{}) bool {
	raw, err := p.store.Get(key)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			p.fail("get", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		p.fail("decode", key, err)
		return false
	}
	return true
}

func (p *Persistence) write(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		p.fail("encode", key, err)
		return err
	}
	if err := p.store.Set(key, raw); err != nil {
		p.fail("set", key, err)
		return err
	}
	return nil
}

func (p *Persistence) fail(op, key string, err error) {
	p.metrics.IncStorageFailures(op)
	p.logger.Warnf(providers.TypeStorage, "Storage %s failed for %s: %v", op, key, err)
}

func (p *Persistence) LoadDaily(day string) (models.DailySnapshot, bool) {
	var snap models.DailySnapshot
	ok := p.read(dailyPrefix+day, &snap)
	return snap, ok
}

// SaveDaily overwrites the snapshot of day with the current totals.
func (p *Persistence) SaveDaily(day string, totals models.RunningTotals, now time.Time) error {
	start := time.Now()
	err := p.write(dailyPrefix+day, totals.Snapshot(now.UnixMilli()))
	p.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

// InHourlyWindow reports whether now falls in the first seconds of an hour.
func (p *Persistence) InHourlyWindow(now time.Time) bool {
	return now.Minute() == 0 && time.Duration(now.Second())*time.Second < p.hourlyWindow
}

// SampleHour appends an hourly sample when now is inside the hourly window and
// the hour has no sample yet. It reports whether a sample was written.
func (p *Persistence) SampleHour(now time.Time, totals models.RunningTotals) bool {
	if !p.InHourlyWindow(now) {
		return false
	}
	day := DayKey(now)
	label := fmt.Sprintf("%d:00", now.Hour())

	samples := p.Hourly(day)
	for _, s := range samples {
		if s.HourLabel == label {
			return false
		}
	}
	samples = append(samples, models.HourlySample{
		HourLabel:  label,
		CarbonKg:   totals.CarbonKg,
		DistanceKm: totals.DistanceKm,
	})
	if err := p.write(hourlyPrefix+day, samples); err != nil {
		return false
	}
	p.logger.Debugf(providers.TypeStorage, "Hourly sample %s stored for %s", label, day)
	return true
}

func (p *Persistence) Hourly(day string) []models.HourlySample {
	var samples []models.HourlySample
	if !p.read(hourlyPrefix+day, &samples) || samples == nil {
		return []models.HourlySample{}
	}
	return samples
}

// History returns the last n stored days in ascending date order.
func (p *Persistence) History(n int) []models.DayHistory {
	out := []models.DayHistory{}
	if n <= 0 {
		return out
	}
	keys, err := p.store.Keys(dailyPrefix)
	if err != nil {
		p.fail("keys", dailyPrefix, err)
		return out
	}
	if len(keys) > n {
		keys = keys[len(keys)-n:]
	}
	for _, key := range keys {
		var snap models.DailySnapshot
		if !p.read(key, &snap) {
			continue
		}
		out = append(out, models.DayHistory{
			Date:          strings.TrimPrefix(key, dailyPrefix),
			DailySnapshot: snap,
		})
	}
	return out
}

func (p *Persistence) loadStreak() (models.StreakRecord, bool) {
	var rec models.StreakRecord
	if !p.read(streakKey, &rec) {
		return models.StreakRecord{}, false
	}
	return rec, true
}

// continues reports whether a streak last touched on lastDate still counts on today.
func continues(lastDate string, today time.Time) bool {
	return lastDate == DayKey(today) || lastDate == DayKey(today.AddDate(0, 0, -1))
}

// LoadStreak returns the streak to display on today. A missing or broken
// streak displays as one day.
func (p *Persistence) LoadStreak(today time.Time) models.StreakRecord {
	rec, ok := p.loadStreak()
	if !ok || rec.Days < 1 || !continues(rec.LastDate, today) {
		return models.StreakRecord{Days: 1, LastDate: rec.LastDate}
	}
	return rec
}

// BumpStreak records a rank transition on today.
func (p *Persistence) BumpStreak(today time.Time) models.StreakRecord {
	rec, ok := p.loadStreak()
	days := 1
	if ok && rec.Days >= 1 && continues(rec.LastDate, today) {
		days = rec.Days + 1
	}
	next := models.StreakRecord{Days: days, LastDate: DayKey(today)}
	_ = p.write(streakKey, next)
	return next
}
