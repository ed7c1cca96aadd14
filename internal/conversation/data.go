package conversation

import "strings"

// Data is what has been learnt about one failure case so far.
type Data struct {
	When             string   `json:"when,omitempty"`
	Location         string   `json:"location,omitempty"`
	Who              string   `json:"who,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	Impact           string   `json:"impact,omitempty"`
	Cause            string   `json:"cause,omitempty"`
	Suggestions      string   `json:"suggestions,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Title            string   `json:"title,omitempty"`
	ParagraphSummary string   `json:"paragraph_summary,omitempty"`
	ImageURL         string   `json:"image_url,omitempty"`
}

// Merge returns d updated with every non-empty field of next.
// Empty or absent fields in next never clear a value already in d.
func (d Data) Merge(next Data) Data {
	out := d
	setString(&out.When, next.When)
	setString(&out.Location, next.Location)
	setString(&out.Who, next.Who)
	setString(&out.Summary, next.Summary)
	setString(&out.Impact, next.Impact)
	setString(&out.Cause, next.Cause)
	setString(&out.Suggestions, next.Suggestions)
	setString(&out.Title, next.Title)
	setString(&out.ParagraphSummary, next.ParagraphSummary)
	setString(&out.ImageURL, next.ImageURL)
	if len(next.Tags) > 0 {
		out.Tags = append([]string(nil), next.Tags...)
	} else if d.Tags != nil {
		out.Tags = append([]string(nil), d.Tags...)
	}
	return out
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

// PublishableSummary is the text shown, moderated and stored for a case.
func (d Data) PublishableSummary() string {
	if strings.TrimSpace(d.ParagraphSummary) != "" {
		return d.ParagraphSummary
	}
	return d.Summary
}
