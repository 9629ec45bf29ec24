package job

import (
	"os"

	"loctrack/logger"
)

// ClearLogsJob truncates the application log file so long-running
// deployments do not fill the log folder.
type ClearLogsJob struct{}

func NewClearLogsJob() *ClearLogsJob {
	return new(ClearLogsJob)
}

func (j *ClearLogsJob) Run() {
	if err := os.Truncate(logger.GetLogPath(), 0); err != nil {
		logger.Warning("clear logs job err:", err)
	}
}
