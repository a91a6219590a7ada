package worker

// Log messages for the worker pool and income worker
const (
	LogMsgWorkerJobFailed     = "Worker job failed"
	LogMsgIncomeTick          = "Passive income credited"
	LogMsgIncomeWorkerStarted = "Income worker started"
	LogMsgIncomeWorkerStopped = "Income worker stopped"
)

// Default pool sizing for background jobs.
const (
	DefaultWorkers   = 2
	DefaultQueueSize = 16
)
