package acquisition

import (
	"ecotracker/internal/models"
	"ecotracker/internal/structures"
)

// NewCapabilities is computed once at startup and passed down.
func NewCapabilities(conf *structures.Config) models.Capabilities {
	return models.Capabilities{
		Geolocation: conf.Device.Geolocation,
		Battery:     conf.Device.Battery,
		WakeLock:    conf.Device.WakeLock,
	}
}
