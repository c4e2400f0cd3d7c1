//go:build wireinject
// +build wireinject

package di

import (
	"ecotracker/internal"
	"ecotracker/internal/acquisition"
	"ecotracker/internal/controllers"
	"ecotracker/internal/providers"
	"ecotracker/internal/services"
	"ecotracker/internal/services/interfaces"
	"ecotracker/internal/storage"
	"ecotracker/internal/structures"
	"ecotracker/internal/tracker"

	wire "github.com/google/wire"
)

var deviceSet = wire.NewSet(
	acquisition.NewCapabilities,
	acquisition.NewDeviceBridge,
	wire.Bind(new(acquisition.PositionWatcher), new(*acquisition.DeviceBridge)),
	wire.Bind(new(acquisition.BatteryManager), new(*acquisition.DeviceBridge)),
	wire.Bind(new(acquisition.VisibilityMonitor), new(*acquisition.DeviceBridge)),
	wire.Bind(new(acquisition.WakeLocker), new(*acquisition.DeviceBridge)),
	wire.Bind(new(acquisition.SessionReader), new(*acquisition.DeviceBridge)),
	wire.Bind(new(acquisition.DevicePushInterface), new(*acquisition.DeviceBridge)),
	acquisition.NewAcquisition,
)

var trackerSet = wire.NewSet(
	storage.NewStoreCodec,
	storage.NewStore,
	tracker.NewPersistence,
	services.NewTrackerService,
	wire.Bind(new(services.TrackerServiceInterface), new(*services.TrackerService)),
	wire.Bind(new(interfaces.SchedulerInterface), new(*services.TrackerService)),
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		deviceSet,
		trackerSet,
		controllers.NewTrackerController,
		controllers.NewSignalController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
