// Package cases stores published failure cases and serves the gallery and
// the admin back-office.
package cases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/common"
	"github.com/suPer8Hu/dxcases/internal/conversation"
	"github.com/suPer8Hu/dxcases/internal/metrics"
	"github.com/suPer8Hu/dxcases/internal/moderation"
)

var (
	ErrNotFound        = errors.New("case not found")
	ErrFlagged         = errors.New("content flagged by moderation")
	ErrConfirmRequired = errors.New("deletion must be confirmed")
	ErrEmptyField      = errors.New("title and summary cannot be blank")
)

const maxPageSize = 100

type Reviewer interface {
	Review(ctx context.Context, content string) (*moderation.Verdict, error)
}

// TagCache holds the gallery's tag list between writes.
type TagCache interface {
	CachedTags(ctx context.Context) ([]string, bool, error)
	CacheTags(ctx context.Context, tags []string) error
	InvalidateTags(ctx context.Context) error
}

type Service struct {
	repo     *Repo
	gate     Reviewer
	cache    TagCache
	jobs     Publisher
	pageSize int
}

func NewService(repo *Repo, gate Reviewer, cache TagCache, pageSize int) *Service {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = 12
	}
	return &Service{repo: repo, gate: gate, cache: cache, pageSize: pageSize}
}

// Submission is a finished conversation handed in for publication.
type Submission struct {
	Data     conversation.Data `json:"conversationData"`
	Messages []ai.Message      `json:"messages"`
}

// Submit moderates the submission and stores it as a case. Flagged content
// is recorded in moderation_logs and ErrFlagged is returned with the verdict;
// no case row is written in that path.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Case, *moderation.Verdict, error) {
	content := sub.Data.PublishableSummary()

	verdict, err := s.gate.Review(ctx, content)
	if err != nil {
		return nil, nil, err
	}
	if verdict.Flagged {
		entry := &ModerationLog{Content: content, ModerationResult: verdict.JSON()}
		if err := s.repo.InsertModerationLog(ctx, entry); err != nil {
			return nil, verdict, fmt.Errorf("write moderation log: %w", err)
		}
		log.WithField("categories", verdict.FlaggedCategories()).Info("submission rejected by moderation")
		return nil, verdict, ErrFlagged
	}

	id, err := common.NewULID()
	if err != nil {
		return nil, verdict, err
	}
	d := sub.Data
	c := &Case{
		ID:               id,
		Title:            d.Title,
		Summary:          content,
		Tags:             d.Tags,
		ImageURL:         d.ImageURL,
		When:             d.When,
		Location:         d.Location,
		Who:              d.Who,
		Impact:           d.Impact,
		Cause:            d.Cause,
		Suggestions:      d.Suggestions,
		ParagraphSummary: d.ParagraphSummary,
		Conversation:     sub.Messages,
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Conversation == nil {
		c.Conversation = []ai.Message{}
	}
	if err := s.repo.CreateCase(ctx, c); err != nil {
		return nil, verdict, fmt.Errorf("insert case: %w", err)
	}

	metrics.CasesSubmitted.Inc()
	s.invalidateTags(ctx)
	return c, verdict, nil
}

type ListQuery struct {
	Page     int
	PageSize int
	Keyword  string
	Tag      string
}

type Page struct {
	Items    []Case `json:"items"`
	Total    int64  `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	HasMore  bool   `json:"has_more"`
}

// List returns one gallery page, newest first.
func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = s.pageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	offset := (q.Page - 1) * q.PageSize

	items, total, err := s.repo.ListCases(ctx, ListFilter{
		Keyword: q.Keyword,
		Tag:     q.Tag,
		Offset:  offset,
		Limit:   q.PageSize,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Case{}
	}
	return &Page{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		HasMore:  int64(offset+len(items)) < total,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Case, error) {
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// CaseUpdate carries the admin edit form. Nil fields are left as they are.
type CaseUpdate struct {
	Title    *string  `json:"title"`
	Summary  *string  `json:"summary"`
	Tags     *TagList `json:"tags"`
	ImageURL *string  `json:"image_url"`
}

func (s *Service) Update(ctx context.Context, id string, u CaseUpdate) (*Case, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			return nil, ErrEmptyField
		}
		c.Title = strings.TrimSpace(*u.Title)
	}
	if u.Summary != nil {
		if strings.TrimSpace(*u.Summary) == "" {
			return nil, ErrEmptyField
		}
		c.Summary = *u.Summary
	}
	if u.Tags != nil {
		c.Tags = []string(*u.Tags)
	}
	if u.ImageURL != nil {
		c.ImageURL = strings.TrimSpace(*u.ImageURL)
	}

	if err := s.repo.SaveCase(ctx, c); err != nil {
		return nil, err
	}
	if u.Tags != nil {
		s.invalidateTags(ctx)
	}
	return c, nil
}

// Delete removes a case. confirm is the server side of the admin
// confirmation dialog and must be true.
func (s *Service) Delete(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return ErrConfirmRequired
	}
	if err := s.repo.DeleteCase(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateTags(ctx)
	return nil
}

// Tags lists every tag in use, sorted.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		tags, ok, err := s.cache.CachedTags(ctx)
		if err != nil {
			log.WithError(err).Warn("tag cache read failed")
		} else if ok {
			return tags, nil
		}
	}

	cols, err := s.repo.TagColumns(ctx)
	if err != nil {
		return nil, err
	}
	tags := UniqueTags(cols)

	if s.cache != nil {
		if err := s.cache.CacheTags(ctx, tags); err != nil {
			log.WithError(err).Warn("tag cache write failed")
		}
	}
	return tags, nil
}

func (s *Service) ModerationLogs(ctx context.Context, limit int, beforeID uint64) ([]ModerationLog, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = 50
	}
	return s.repo.ListModerationLogs(ctx, limit, beforeID)
}

func (s *Service) invalidateTags(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTags(ctx); err != nil {
		log.WithError(err).Warn("tag cache invalidation failed")
	}
}
