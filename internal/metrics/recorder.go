package metrics

// Recorder receives countdown and scheduler observations.
type Recorder interface {
	IncIntent(kind string)
	IncDroppedTick()
	IncSchedulerArm()
	IncSchedulerDisarm()
	SetCurrentTime(n int)
	SetRunning(running bool)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncIntent(string)    {}
func (NoopRecorder) IncDroppedTick()     {}
func (NoopRecorder) IncSchedulerArm()    {}
func (NoopRecorder) IncSchedulerDisarm() {}
func (NoopRecorder) SetCurrentTime(int)  {}
func (NoopRecorder) SetRunning(bool)     {}
