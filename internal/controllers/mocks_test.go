package controllers

import (
	"ecotracker/internal/models"
	"ecotracker/internal/providers"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockService struct {
	startErr      error
	tracking      bool
	readModel     models.ReadModel
	history       []models.DayHistory
	historyCalls  []int
	hourly        map[string][]models.HourlySample
	missions      []models.MissionStatus
	missionsErr   error
	missionsDates []string
	caps          models.Capabilities
	today         string
	devices       models.DeviceStatus
}

func (m *mockService) StartTracking() error {
	if m.startErr != nil {
		return m.startErr
	}
	m.tracking = true
	return nil
}
func (m *mockService) StopTracking()                     { m.tracking = false }
func (m *mockService) IsTracking() bool                  { return m.tracking }
func (m *mockService) Totals() models.RunningTotals      { return models.RunningTotals{} }
func (m *mockService) Capabilities() models.Capabilities { return m.caps }
func (m *mockService) Today() string                     { return m.today }
func (m *mockService) Devices() models.DeviceStatus      { return m.devices }
func (m *mockService) ReadModel() models.ReadModel {
	rm := m.readModel
	rm.IsTracking = m.tracking
	return rm
}
func (m *mockService) WeeklyHistory(days int) []models.DayHistory {
	m.historyCalls = append(m.historyCalls, days)
	return m.history
}
func (m *mockService) Hourly(date string) []models.HourlySample { return m.hourly[date] }
func (m *mockService) MissionsFor(date string) ([]models.MissionStatus, int, error) {
	m.missionsDates = append(m.missionsDates, date)
	if m.missionsErr != nil {
		return nil, 0, m.missionsErr
	}
	done := 0
	for _, ms := range m.missions {
		if ms.Done {
			done++
		}
	}
	return m.missions, done, nil
}

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache                     { return &mockCache{data: make(map[string][]byte)} }
func (m *mockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *mockCache) Set(key string, value []byte)  { m.data[key] = value }

type mockDevice struct {
	fixes      []models.Fix
	fixErr     error
	posErrors  []int
	levels     []float64
	batteryErr error
	hidden     []bool
	released   int
	email      string
	loggedIn   bool
}

func (m *mockDevice) PushFix(fix models.Fix) error {
	m.fixes = append(m.fixes, fix)
	return m.fixErr
}
func (m *mockDevice) PushPositionError(code int, _ string) error {
	m.posErrors = append(m.posErrors, code)
	return nil
}
func (m *mockDevice) PushBattery(level float64) error {
	if m.batteryErr != nil {
		return m.batteryErr
	}
	m.levels = append(m.levels, level)
	return nil
}
func (m *mockDevice) SetHidden(hidden bool) { m.hidden = append(m.hidden, hidden) }
func (m *mockDevice) ReleaseWakeLockBySystem() bool {
	m.released++
	return true
}
func (m *mockDevice) SetSession(email string, loggedIn bool) {
	m.email = email
	m.loggedIn = loggedIn
}
