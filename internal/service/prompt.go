package service

import (
	"fmt"
	"strings"

	"github.com/octobees/leads-generator/outreach/internal/scraper"
)

const promptInsightLength = 200

// PromptBuilder renders the outreach prompt sent to the language model.
type PromptBuilder struct {
	Persona       string
	Industry      string
	EmployeeRange string
}

// NewPromptBuilder creates a prompt builder with sensible defaults.
func NewPromptBuilder(persona, industry, employeeRange string) PromptBuilder {
	if strings.TrimSpace(persona) == "" {
		persona = "a hardware computer store"
	}
	return PromptBuilder{Persona: persona, Industry: industry, EmployeeRange: employeeRange}
}

// Build embeds the company name and the first 200 characters of the insight.
func (b PromptBuilder) Build(companyName, insight string) string {
	return fmt.Sprintf(
		"You are a sales representative for %s. "+
			"Generate a professional B2B outreach message for %s, "+
			"a %s company with %s employees. "+
			"Use these insights from their website: %s. "+
			"Highlight relevant hardware solutions (e.g., servers, workstations) and keep the tone professional.",
		b.Persona,
		companyName,
		b.Industry,
		b.EmployeeRange,
		scraper.Truncate(insight, promptInsightLength),
	)
}
