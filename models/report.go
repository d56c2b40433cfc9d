package models

import (
	"time"
)

const ReportStatusPending = "pending"

// ReportReasons is the fixed set of reasons a lesson can be reported for.
var ReportReasons = []string{
	"Inappropriate Content",
	"Hate Speech or Harassment",
	"Misleading or False Information",
	"Spam or Promotional Content",
	"Sensitive or Disturbing Content",
	"Other",
}

func IsValidReportReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

type Report struct {
	ID             string    `json:"id"`
	LessonID       string    `json:"lessonId"`
	ReporterUserID string    `json:"reporterUserId"`
	ReporterEmail  string    `json:"reporterEmail,omitempty"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"` // pending
	CreatedAt      time.Time `json:"createdAt"`
}
