package cases

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// ParseTags decodes a stored tags column. Anything that is not a JSON
// array of strings yields no tags.
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// SplitTagList turns the admin form's "a, b, c" into a clean list.
func SplitTagList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UniqueTags merges the tags of every stored column value, sorted.
func UniqueTags(columns []string) []string {
	seen := map[string]struct{}{}
	for _, col := range columns {
		for _, t := range ParseTags(col) {
			if t = strings.TrimSpace(t); t != "" {
				seen[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// TagList accepts either a JSON array or a comma separated string.
type TagList []string

func (t *TagList) UnmarshalJSON(b []byte) error {
	out := TagList{}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		for _, tag := range list {
			if tag = strings.TrimSpace(tag); tag != "" {
				out = append(out, tag)
			}
		}
		*t = out
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("tags must be a list or a comma separated string")
	}
	*t = append(out, SplitTagList(s)...)
	return nil
}
