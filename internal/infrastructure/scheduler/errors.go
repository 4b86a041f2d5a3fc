package scheduler

import "errors"

var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	ErrJobQueueFull        = errors.New("job queue is full")
	ErrInvalidSweepType    = errors.New("invalid sweep type")
)
