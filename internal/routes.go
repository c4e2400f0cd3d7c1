package internal

import (
	"ecotracker/internal/controllers"
	"ecotracker/internal/providers"
	"net/http"
)

func InitRoutes(trackerController *controllers.TrackerController, signalController *controllers.SignalController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	tracker := routers.Group("/tracker")
	tracker.Get("", http.HandlerFunc(trackerController.GetState))
	tracker.Post("/start", http.HandlerFunc(trackerController.Start))
	tracker.Post("/stop", http.HandlerFunc(trackerController.Stop))

	history := routers.Group("/history")
	history.Get("/weekly", http.HandlerFunc(trackerController.GetWeeklyHistory))
	history.Get("/hourly", http.HandlerFunc(trackerController.GetHourly))
	routers.Get("/missions", http.HandlerFunc(trackerController.GetMissions))

	signals := routers.Group("/signals")
	signals.Post("/position", http.HandlerFunc(signalController.ReceivePosition))
	signals.Post("/position-error", http.HandlerFunc(signalController.ReceivePositionError))
	signals.Post("/battery", http.HandlerFunc(signalController.ReceiveBattery))
	signals.Post("/visibility", http.HandlerFunc(signalController.ReceiveVisibility))
	signals.Post("/wakelock-released", http.HandlerFunc(signalController.ReleaseWakeLock))

	routers.Post("/session", http.HandlerFunc(signalController.PutSession))
	routers.Post("/api/track-device", http.HandlerFunc(signalController.TrackDevice))
	return routers
}
