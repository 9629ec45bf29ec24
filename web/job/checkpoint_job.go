// Package job contains the scheduled maintenance tasks run by the web
// server's cron. None of them touch request handling.
package job

import (
	"loctrack/database"
	"loctrack/logger"
)

// CheckpointJob flushes the sqlite WAL into the main database file so the
// WAL does not grow without bound between restarts.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
	}
}
