package entity

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a candidate company enriched with scraped website text and a generated outreach message.
type Lead struct {
	ID                  uuid.UUID `json:"id"`
	CompanyName         string    `json:"company_name"`
	Website             string    `json:"website"`
	EmployeeCount       int       `json:"employee_count"`
	ScrapedInsights     string    `json:"scraped_insights"`
	PersonalizedMessage string    `json:"personalized_message"`
	CreatedAt           time.Time `json:"created_at"`
}
