package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_NeverClearsFields(t *testing.T) {
	d := Data{Summary: "s", Location: "学校", Tags: []string{"ネットワーク"}}

	out := d.Merge(Data{Location: "", Who: "教師", Summary: "   "})

	assert.Equal(t, "s", out.Summary)
	assert.Equal(t, "学校", out.Location)
	assert.Equal(t, "教師", out.Who)
	assert.Equal(t, []string{"ネットワーク"}, out.Tags)
}

func TestMerge_Idempotent(t *testing.T) {
	base := Data{Summary: "s"}
	ext := Data{Impact: "授業が止まった", Cause: "フィルタリング"}

	once := base.Merge(ext)
	twice := once.Merge(ext)

	assert.Equal(t, once, twice)
}

func TestMerge_NewValuesWin(t *testing.T) {
	out := Data{Impact: "old"}.Merge(Data{Impact: "new", Tags: []string{"a"}})
	assert.Equal(t, "new", out.Impact)
	assert.Equal(t, []string{"a"}, out.Tags)
}

func TestMerge_DoesNotAliasTags(t *testing.T) {
	src := []string{"a"}
	out := Data{}.Merge(Data{Tags: src})
	src[0] = "changed"
	assert.Equal(t, []string{"a"}, out.Tags)
}

func TestPublishableSummary(t *testing.T) {
	assert.Equal(t, "p", Data{Summary: "s", ParagraphSummary: "p"}.PublishableSummary())
	assert.Equal(t, "s", Data{Summary: "s"}.PublishableSummary())
}
