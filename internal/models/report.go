package models

// Report is a moderation record surfaced on the admin dashboard. It comes in
// two shapes: a comment report carries the flagged text and its star rating,
// an app report carries the app identity. Absent fields stay nil so the two
// variants are distinguishable rather than zero-valued.
type Report struct {
	ReportID     int64  `json:"report_id"`
	ReportDate   string `json:"report_date"`
	ReportReason string `json:"report_reason"`

	// Comment report fields.
	FlaggedContent *string `json:"flagged_content,omitempty"`
	Stars          *int    `json:"stars,omitempty"`

	// App report fields.
	AppID   *int64  `json:"app_id,omitempty"`
	AppName *string `json:"app_name,omitempty"`
}

// IsCommentReport reports whether the record flags a review rather than an app.
func (r Report) IsCommentReport() bool {
	return r.FlaggedContent != nil
}
