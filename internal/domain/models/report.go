package models

import (
	"errors"
	"time"
)

// Report is a user-submitted scam message
type Report struct {
	ID            int64     `json:"id" db:"id"`
	Content       string    `json:"content" db:"content"`
	Type          string    `json:"type" db:"type"` // sms, whatsapp, ...
	PhoneNumber   string    `json:"phone_number,omitempty" db:"phone_number"`
	URL           string    `json:"url,omitempty" db:"url"`
	ReportedBy    string    `json:"reported_by,omitempty" db:"reported_by"`
	ReportedAt    time.Time `json:"reported_at" db:"reported_at"`
	Verified      bool      `json:"verified" db:"verified"`
	TimesReported int       `json:"times_reported" db:"times_reported"`

	// Synced is only meaningful for the offline store
	Synced bool `json:"-" db:"synced"`
}

// DefaultReportType is used when a report does not specify its channel
const DefaultReportType = "sms"

// ReportReceipt is the answer given to a reporter
type ReportReceipt struct {
	ID        int64  `json:"id,omitempty"`
	Duplicate bool   `json:"duplicate"`
	Stored    bool   `json:"stored"`
	Message   string `json:"message"`
}

// CommunityMatch is a URL or phone number in a checked message that other
// people already reported
type CommunityMatch struct {
	Kind  string `json:"kind"` // "url" or "phone"
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ErrReportNotFound is returned by stores when no report matches
var ErrReportNotFound = errors.New("report not found")
