package cases

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// IllustrationJob regenerates the picture of one case in the worker.
type IllustrationJob struct {
	ID string `gorm:"primaryKey;size:26" json:"job_id"` // ULID length

	CaseID string `gorm:"size:26;not null;index;index:uniq_case_idempo,unique,priority:1" json:"case_id"`

	IdempotencyKey *string `gorm:"type:varchar(128);index:uniq_case_idempo,unique,priority:2" json:"idempotency_key,omitempty"`

	Status JobStatus `gorm:"type:varchar(16);index;not null" json:"status"`

	// Filled when succeeded
	ImageURL *string `gorm:"type:text" json:"image_url,omitempty"`
	Prompt   *string `gorm:"type:text" json:"prompt,omitempty"`

	// Filled when failed
	Error *string `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (IllustrationJob) TableName() string { return "illustration_jobs" }
