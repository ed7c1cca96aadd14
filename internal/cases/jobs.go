package cases

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/suPer8Hu/dxcases/internal/common"
	"github.com/suPer8Hu/dxcases/internal/enrich"
	"github.com/suPer8Hu/dxcases/internal/metrics"
)

var (
	ErrJobNotFound  = errors.New("job not found")
	ErrJobsDisabled = errors.New("illustration jobs are not configured")
	ErrJobNotFailed = errors.New("only failed jobs can be retried")
)

type Publisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

type Illustrator interface {
	Illustrate(ctx context.Context, summary, title string) (*enrich.Illustration, error)
}

// UsePublisher enables illustration jobs.
func (s *Service) UsePublisher(p Publisher) {
	s.jobs = p
}

// RequestIllustration queues a new picture for a case. A repeated
// idempotency key returns the job created the first time, with created=false.
func (s *Service) RequestIllustration(ctx context.Context, caseID, idempotencyKey string) (job *IllustrationJob, created bool, err error) {
	if s.jobs == nil {
		return nil, false, ErrJobsDisabled
	}
	if _, err := s.Get(ctx, caseID); err != nil {
		return nil, false, err
	}

	id, err := common.NewULID()
	if err != nil {
		return nil, false, err
	}
	j := &IllustrationJob{ID: id, CaseID: caseID, Status: JobQueued}
	if idempotencyKey != "" {
		j.IdempotencyKey = &idempotencyKey
	}

	job, created, err = s.repo.CreateJobOrGetExisting(ctx, j)
	if err != nil {
		return nil, false, err
	}
	if !created {
		return job, false, nil
	}

	if err := s.jobs.PublishJob(ctx, job.ID); err != nil {
		_ = s.repo.MarkJobFailed(ctx, job.ID, "publish failed: "+err.Error())
		return nil, false, fmt.Errorf("publish job: %w", err)
	}
	return job, true, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*IllustrationJob, error) {
	j, err := s.repo.GetJobByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return j, nil
}

// RetryIllustration queues a failed job again under the same id.
func (s *Service) RetryIllustration(ctx context.Context, jobID string) (*IllustrationJob, error) {
	if s.jobs == nil {
		return nil, ErrJobsDisabled
	}
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	ok, err := s.repo.RequeueFailedJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrJobNotFailed
	}
	if err := s.jobs.PublishJob(ctx, jobID); err != nil {
		_ = s.repo.MarkJobFailed(ctx, jobID, "publish failed: "+err.Error())
		return nil, fmt.Errorf("publish job: %w", err)
	}
	return s.GetJob(ctx, jobID)
}

// RunIllustrationJob is the worker side of RequestIllustration. A job that is
// no longer queued is skipped, so redelivered messages are harmless.
func (s *Service) RunIllustrationJob(ctx context.Context, jobID string, ill Illustrator) error {
	jobStart := time.Now()

	running, err := s.repo.MarkJobRunning(ctx, jobID)
	if err != nil {
		return err
	}
	if !running {
		log.WithField("job", jobID).Info("job is not queued, skipping")
		return nil
	}

	j, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	fail := func(err error) error {
		_ = s.repo.MarkJobFailed(ctx, jobID, err.Error())
		metrics.IllustrationJobs.WithLabelValues(string(JobFailed)).Inc()
		log.WithError(err).WithFields(log.Fields{
			"job":   jobID,
			"case":  j.CaseID,
			"total": time.Since(jobStart),
		}).Warn("job_timing_failed")
		return err
	}

	c, err := s.Get(ctx, j.CaseID)
	if err != nil {
		return fail(err)
	}

	t0 := time.Now()
	out, err := ill.Illustrate(ctx, c.Summary, c.Title)
	genCost := time.Since(t0)
	if err != nil {
		return fail(err)
	}

	if err := s.repo.SetCaseImage(ctx, c.ID, out.URL); err != nil {
		return fail(err)
	}
	if err := s.repo.MarkJobSucceeded(ctx, jobID, out.URL, out.Prompt); err != nil {
		return fail(err)
	}
	metrics.IllustrationJobs.WithLabelValues(string(JobSucceeded)).Inc()

	if total := time.Since(jobStart); total > 2*time.Second {
		log.WithFields(log.Fields{"job": jobID, "gen": genCost, "total": total}).Info("job_timing")
	}
	return nil
}
