package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptBuilder_Build(t *testing.T) {
	b := NewPromptBuilder("", "retail", "1-1000")
	prompt := b.Build("Acme", "We sell shoes across Europe.")

	assert.Equal(t,
		"You are a sales representative for a hardware computer store. "+
			"Generate a professional B2B outreach message for Acme, a retail company with 1-1000 employees. "+
			"Use these insights from their website: We sell shoes across Europe.. "+
			"Highlight relevant hardware solutions (e.g., servers, workstations) and keep the tone professional.",
		prompt)
}

func TestPromptBuilder_TruncatesInsight(t *testing.T) {
	b := NewPromptBuilder("Contoso Hardware", "retail", "1-1000")
	insight := strings.Repeat("é", 300)

	prompt := b.Build("Acme", insight)
	assert.Contains(t, prompt, "sales representative for Contoso Hardware.")
	assert.Contains(t, prompt, strings.Repeat("é", 200)+". Highlight")
	assert.NotContains(t, prompt, strings.Repeat("é", 201))
}
