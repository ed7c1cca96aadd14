package cases

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/suPer8Hu/dxcases/internal/ai"
)

type Case struct {
	ID    string `gorm:"primaryKey;size:26" json:"id"` // ULID
	Title string `gorm:"type:varchar(255);not null;default:''" json:"title"`
	// Summary is the published text: paragraph summary when there is one.
	Summary  string `gorm:"type:text;not null" json:"summary"`
	TagsJSON string `gorm:"column:tags;type:text" json:"-"`
	ImageURL string `gorm:"type:text" json:"image_url"`

	When        string `gorm:"column:when;type:text" json:"when,omitempty"`
	Location    string `gorm:"type:text" json:"location,omitempty"`
	Who         string `gorm:"type:text" json:"who,omitempty"`
	Impact      string `gorm:"type:text" json:"impact,omitempty"`
	Cause       string `gorm:"type:text" json:"cause,omitempty"`
	Suggestions string `gorm:"type:text" json:"suggestions,omitempty"`

	ConversationJSON string `gorm:"column:conversation;type:text" json:"-"`
	ParagraphSummary string `gorm:"type:text" json:"paragraph_summary,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tags         []string     `gorm:"-" json:"tags"`
	Conversation []ai.Message `gorm:"-" json:"conversation,omitempty"`
}

func (Case) TableName() string { return "cases" }

func (c *Case) BeforeSave(tx *gorm.DB) error {
	c.TagsJSON = EncodeTags(c.Tags)
	if c.Conversation != nil {
		b, err := json.Marshal(c.Conversation)
		if err != nil {
			return err
		}
		c.ConversationJSON = string(b)
	}
	return nil
}

func (c *Case) AfterFind(tx *gorm.DB) error {
	c.Tags = ParseTags(c.TagsJSON)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.ConversationJSON != "" {
		// an unreadable transcript is an audit detail, not worth failing the read
		_ = json.Unmarshal([]byte(c.ConversationJSON), &c.Conversation)
	}
	return nil
}

// ModerationLog is written once per rejected submission.
type ModerationLog struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	ModerationResult string    `gorm:"type:text;not null" json:"moderation_result"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

func (ModerationLog) TableName() string { return "moderation_logs" }

// Models lists every table this package owns, for AutoMigrate.
func Models() []any {
	return []any{&Case{}, &ModerationLog{}, &IllustrationJob{}}
}
