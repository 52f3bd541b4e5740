package job

import (
	"context"
	"time"

	"exam_platform_backend/pkg/logger"
	"exam_platform_backend/pkg/monitoring"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExamSweeper is implemented by service.ExamService.
type ExamSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// ExamWindowJob switches off exams whose endDate has passed.
type ExamWindowJob struct {
	sweeper ExamSweeper
	timeout time.Duration
	now     func() time.Time
}

func NewExamWindowJob(sweeper ExamSweeper, timeout time.Duration) *ExamWindowJob {
	return &ExamWindowJob{sweeper: sweeper, timeout: timeout, now: time.Now}
}

// Run implements cron.Job.
func (j *ExamWindowJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.sweeper.SweepExpired(ctx, j.now())
	if err != nil {
		logger.Log.Error("exam window sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		monitoring.ExamsDeactivated.Add(float64(n))
		logger.Log.Info("exam window sweep", zap.Int("deactivated", n))
	}
}

// Schedule registers the job on a new cron scheduler. The caller starts and
// stops the returned scheduler.
func Schedule(spec string, j cron.Job) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddJob(spec, j); err != nil {
		return nil, err
	}
	return c, nil
}
