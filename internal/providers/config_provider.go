package providers

import (
	"ecotracker/internal/structures"
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
	"time"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("persistence.driver", "file")
	v.SetDefault("persistence.saveInterval", 10*time.Second)
	v.SetDefault("tracker.distancePerFixKm", 0.05)
	v.SetDefault("tracker.carbonFactorPerKm", 0.0002)
	v.SetDefault("tracker.activeTickInterval", time.Second)
	v.SetDefault("tracker.fixMaxAge", 5*time.Second)
	v.SetDefault("tracker.fixTimeout", 10*time.Second)
	v.SetDefault("tracker.highAccuracy", true)
	v.SetDefault("tracker.wakeLockRetryDelay", time.Second)
	v.SetDefault("tracker.hourlyWindow", 12*time.Second)
	v.SetDefault("tracker.historyDays", 7)
	v.SetDefault("tracker.timezone", "Local")
	v.SetDefault("device.geolocation", true)
	v.SetDefault("device.battery", true)
	v.SetDefault("device.wakeLock", true)
	v.SetDefault("cache.ttl", 60*time.Second)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	setConfigDefaults(v)

	v.BindEnv("logger.level", "ECO_LOG_LEVEL")
	v.BindEnv("persistence.saveInterval", "ECO_SAVE_INTERVAL")
	v.BindEnv("persistence.filePath", "ECO_STORAGE_PATH")
	v.BindEnv("cache.enabled", "ECO_CACHE_ENABLED")
	v.BindEnv("cache.size", "ECO_CACHE_SIZE")
	v.BindEnv("tracker.timezone", "ECO_TIMEZONE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "EcoTracker"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
