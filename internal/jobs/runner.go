package jobs

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Run()
}

// CronJob is a Job with a cron schedule.
type CronJob interface {
	Schedule() string
	Job
}

// Runner executes one-shot jobs on Start and keeps cron jobs running on
// their schedules. A job still running when its schedule fires again is
// skipped.
type Runner struct {
	cron        *cron.Cron
	jobs        []Job
	cronJobs    []CronJob
	runningJobs mapset.Set[CronJob]
	mu          sync.Mutex
}

func NewRunner(jobs []Job, cronJobs []CronJob) *Runner {
	return &Runner{
		cron:        cron.New(),
		jobs:        jobs,
		cronJobs:    cronJobs,
		runningJobs: mapset.NewSet[CronJob](),
	}
}

func (r *Runner) Start() error {
	for _, job := range r.jobs {
		go job.Run()
	}

	for _, job := range r.cronJobs {
		job := job
		err := r.cron.AddFunc(job.Schedule(), func() {
			r.mu.Lock()
			if r.runningJobs.Contains(job) {
				r.mu.Unlock()
				logrus.Warnf("cron job still running, skipping this tick")
				return
			}
			r.runningJobs.Add(job)
			r.mu.Unlock()

			job.Run()

			r.mu.Lock()
			r.runningJobs.Remove(job)
			r.mu.Unlock()
		})
		if err != nil {
			return err
		}
	}

	r.cron.Start()
	return nil
}

func (r *Runner) Stop() {
	r.cron.Stop()
}
