package domain

import "time"

// Severity classifies how badly an animal is hurt.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// CaseStatus enumerates case lifecycle states. Nothing moves a case to
// CaseStatusClosed yet.
type CaseStatus string

const (
	CaseStatusOpen   CaseStatus = "open"
	CaseStatusClosed CaseStatus = "closed"
)

// Case is a reported rescue case. Only Raised changes after creation.
type Case struct {
	ID          string     `json:"id"`
	AnimalType  string     `json:"animal_type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Severity    Severity   `json:"severity"`
	ImageURL    string     `json:"image_url"`
	Goal        int64      `json:"goal"`
	Raised      int64      `json:"raised"`
	UserID      string     `json:"user_id"`
	Status      CaseStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Overfunded reports whether donations pushed Raised past Goal.
func (c Case) Overfunded() bool {
	return c.Raised > c.Goal
}

// NewCase carries the reporter supplied fields of a case.
type NewCase struct {
	AnimalType  string   `json:"animal_type" validate:"required,max=64"`
	Title       string   `json:"title" validate:"required,max=160"`
	Description string   `json:"description" validate:"max=4000"`
	Location    string   `json:"location" validate:"required,max=240"`
	Severity    Severity `json:"severity" validate:"required,oneof=mild moderate severe"`
	Goal        int64    `json:"goal" validate:"gt=0"`
}

// Image is an uploaded case photo.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CaseStats summarises funding across all cases.
type CaseStats struct {
	TotalCases  int   `json:"total_cases"`
	OpenCases   int   `json:"open_cases"`
	TotalGoal   int64 `json:"total_goal"`
	TotalRaised int64 `json:"total_raised"`
	Overfunded  int   `json:"overfunded_cases"`
}
