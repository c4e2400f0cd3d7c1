package providers

import (
	"ecotracker/internal/structures"
	"errors"
	"fmt"
	"github.com/gookit/validate"
	"time"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}

	if c.conf.Persistence.Driver == "file" && c.conf.Persistence.FilePath == "" {
		return errors.New("persistence.filePath is required for the file driver")
	}
	if c.conf.Tracker.DistancePerFixKm <= 0 || c.conf.Tracker.CarbonFactorPerKm <= 0 {
		return errors.New("tracker conversion factors must be positive")
	}
	if c.conf.Tracker.Timezone != "" {
		if _, err := time.LoadLocation(c.conf.Tracker.Timezone); err != nil {
			return fmt.Errorf("tracker.timezone: %w", err)
		}
	}
	return nil
}
