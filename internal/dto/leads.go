package dto

import "github.com/octobees/leads-generator/outreach/internal/entity"

// LeadRecord is the lead shape returned to clients and written to the JSON export.
type LeadRecord struct {
	CompanyName         string `json:"company_name"`
	Website             string `json:"website"`
	EmployeeCount       int    `json:"employee_count"`
	ScrapedInsights     string `json:"scraped_insights"`
	PersonalizedMessage string `json:"personalized_message"`
}

// LeadsResponse wraps a list of lead records.
type LeadsResponse struct {
	Leads []LeadRecord `json:"leads"`
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewLeadRecord projects an entity onto its wire shape.
func NewLeadRecord(lead entity.Lead) LeadRecord {
	return LeadRecord{
		CompanyName:         lead.CompanyName,
		Website:             lead.Website,
		EmployeeCount:       lead.EmployeeCount,
		ScrapedInsights:     lead.ScrapedInsights,
		PersonalizedMessage: lead.PersonalizedMessage,
	}
}

// NewLeadRecords projects a slice of entities, never returning nil.
func NewLeadRecords(leads []entity.Lead) []LeadRecord {
	records := make([]LeadRecord, 0, len(leads))
	for _, lead := range leads {
		records = append(records, NewLeadRecord(lead))
	}
	return records
}
