package cases

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// ListFilter narrows a gallery listing. Empty fields do not filter.
type ListFilter struct {
	Keyword string
	Tag     string
	Offset  int
	Limit   int
}

func (r *Repo) CreateCase(ctx context.Context, c *Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) GetCase(ctx context.Context, id string) (*Case, error) {
	var c Case
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCases returns one page newest first, and the total matching rows.
func (r *Repo) ListCases(ctx context.Context, f ListFilter) ([]Case, int64, error) {
	q := r.db.WithContext(ctx).Model(&Case{})
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + escapeLike(kw) + "%"
		q = q.Where("(title LIKE ? ESCAPE '!' OR summary LIKE ? ESCAPE '!')", like, like)
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		// tags is a JSON array column; match the quoted element
		q = q.Where("tags LIKE ? ESCAPE '!'", "%"+escapeLike(quotedTag(tag))+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []Case
	if err := q.Order("created_at DESC").Order("id DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repo) SaveCase(ctx context.Context, c *Case) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *Repo) SetCaseImage(ctx context.Context, id, url string) error {
	res := r.db.WithContext(ctx).Model(&Case{}).
		Where("id = ?", id).
		Update("image_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) DeleteCase(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Case{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TagColumns returns the raw tags column of every case.
func (r *Repo) TagColumns(ctx context.Context) ([]string, error) {
	var cols []string
	if err := r.db.WithContext(ctx).Model(&Case{}).Pluck("tags", &cols).Error; err != nil {
		return nil, err
	}
	return cols, nil
}

func (r *Repo) InsertModerationLog(ctx context.Context, l *ModerationLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// ListModerationLogs returns logs in DESC id order (newest -> oldest).
func (r *Repo) ListModerationLogs(ctx context.Context, limit int, beforeID uint64) ([]ModerationLog, error) {
	q := r.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	var logs []ModerationLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Job CRUD
func (r *Repo) CreateJob(ctx context.Context, job *IllustrationJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repo) GetJobByID(ctx context.Context, id string) (*IllustrationJob, error) {
	var j IllustrationJob
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

// MarkJobRunning moves a queued job to running. It reports false when the
// job was not queued, which means another delivery already picked it up.
func (r *Repo) MarkJobRunning(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&IllustrationJob{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning)
	return res.RowsAffected > 0, res.Error
}

// RequeueFailedJob moves a failed job back to queued.
func (r *Repo) RequeueFailedJob(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&IllustrationJob{}).
		Where("id = ? AND status = ?", id, JobFailed).
		Updates(map[string]any{"status": JobQueued, "error": nil})
	return res.RowsAffected > 0, res.Error
}

func (r *Repo) MarkJobSucceeded(ctx context.Context, id, imageURL, prompt string) error {
	return r.db.WithContext(ctx).Model(&IllustrationJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    JobSucceeded,
			"image_url": imageURL,
			"prompt":    prompt,
			"error":     nil,
		}).Error
}

func (r *Repo) MarkJobFailed(ctx context.Context, id string, errMsg string) error {
	return r.db.WithContext(ctx).Model(&IllustrationJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    JobFailed,
			"error":     errMsg,
			"image_url": nil,
		}).Error
}

func (r *Repo) GetJobByCaseAndIdempotencyKey(ctx context.Context, caseID string, key string) (*IllustrationJob, error) {
	var job IllustrationJob
	err := r.db.WithContext(ctx).
		Where("case_id = ? AND idempotency_key = ?", caseID, key).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJobOrGetExisting tries to create a job, but if (case_id, idempotency_key) already exists,
// it returns the existing job instead.
func (r *Repo) CreateJobOrGetExisting(ctx context.Context, job *IllustrationJob) (*IllustrationJob, bool, error) {
	if job.IdempotencyKey == nil || *job.IdempotencyKey == "" {
		job.IdempotencyKey = nil
		if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
			return nil, false, err
		}
		return job, true, nil
	}

	err := r.db.WithContext(ctx).Create(job).Error
	if err == nil {
		return job, true, nil
	}

	existing, getErr := r.GetJobByCaseAndIdempotencyKey(ctx, job.CaseID, *job.IdempotencyKey)
	if getErr == nil {
		return existing, false, nil
	}

	if errors.Is(getErr, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	return nil, false, getErr
}

// escapeLike escapes LIKE wildcards with '!' as the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`).Replace(s)
}

// quotedTag is how tag appears inside an encoded tags column.
func quotedTag(tag string) string {
	enc := EncodeTags([]string{tag})
	return enc[1 : len(enc)-1]
}
