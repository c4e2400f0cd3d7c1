package interfaces

// SchedulerInterface is the lifecycle of a background component: Restore
// before Init, Stop before the final Persist.
type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}
