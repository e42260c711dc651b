package service

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/outreach/internal/apollo"
	"github.com/octobees/leads-generator/outreach/internal/dto"
	"github.com/octobees/leads-generator/outreach/internal/entity"
	"github.com/octobees/leads-generator/outreach/internal/export"
	"github.com/octobees/leads-generator/outreach/internal/llm"
	"github.com/octobees/leads-generator/outreach/internal/repository"
	"github.com/octobees/leads-generator/outreach/internal/scraper"
)

// Stages that abort a whole run.
const (
	StageSearch  = "search"
	StagePersist = "persist"
	StageExport  = "export"
)

// StageError is a request-fatal failure. Per-lead problems never produce one.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Message is the outcome of drafting one outreach message. Text always holds
// something printable; Err is set when Text is the fallback.
type Message struct {
	Text string
	Err  error
}

// Result summarises a completed run.
type Result struct {
	Leads   []entity.Lead
	Skipped int
}

// Options tunes a LeadService.
type Options struct {
	Criteria apollo.Criteria
	MaxLeads int
	Prompts  PromptBuilder
}

// LeadService runs the search, scrape, generate and persist pipeline.
type LeadService struct {
	searcher  apollo.Searcher
	scraper   scraper.Scraper
	generator llm.Generator
	repo      repository.LeadsRepository
	sink      *export.FileSink
	opts      Options
}

// NewLeadService wires the pipeline collaborators.
func NewLeadService(searcher apollo.Searcher, s scraper.Scraper, generator llm.Generator, repo repository.LeadsRepository, sink *export.FileSink, opts Options) *LeadService {
	if opts.MaxLeads <= 0 {
		opts.MaxLeads = 5
	}
	return &LeadService{
		searcher:  searcher,
		scraper:   s,
		generator: generator,
		repo:      repo,
		sink:      sink,
		opts:      opts,
	}
}

// Generate runs one full pipeline. Organizations are processed one at a time; the
// collected leads are stored in one transaction and exported only after the commit.
func (s *LeadService) Generate(ctx context.Context) (Result, error) {
	log := zap.L().With(zap.String("component", "lead_service"))

	orgs, err := s.searcher.SearchOrganizations(ctx, s.opts.Criteria)
	if err != nil {
		return Result{}, &StageError{Stage: StageSearch, Err: err}
	}
	if len(orgs) > s.opts.MaxLeads {
		orgs = orgs[:s.opts.MaxLeads]
	}

	var result Result
	leads := make([]entity.Lead, 0, len(orgs))
	for _, org := range orgs {
		name := org.DisplayName()
		website := org.Website()
		if website == "" {
			log.Info("skipping organization without website", zap.String("company", name))
			result.Skipped++
			continue
		}
		log.Info("processing organization", zap.String("company", name), zap.String("website", website))

		insight := s.scraper.Scrape(ctx, website)
		if insight.Err != nil {
			log.Warn("scrape failed", zap.String("company", name), zap.Error(insight.Err))
		}

		msg := s.draft(ctx, name, insight.Text)
		if msg.Err != nil {
			log.Warn("message generation failed", zap.String("company", name), zap.Error(msg.Err))
		}

		leads = append(leads, entity.Lead{
			CompanyName:         name,
			Website:             website,
			EmployeeCount:       org.EmployeeCount(),
			ScrapedInsights:     insight.Text,
			PersonalizedMessage: msg.Text,
		})
	}

	stored, err := s.persist(ctx, leads)
	if err != nil {
		return Result{}, err
	}
	result.Leads = stored

	log.Info("lead run completed", zap.Int("leads", len(stored)), zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *LeadService) draft(ctx context.Context, companyName, insight string) Message {
	prompt := s.opts.Prompts.Build(companyName, insight)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Message{Text: FailureMessage(err), Err: err}
	}
	return Message{Text: text}
}

// List returns previously stored leads, newest first.
func (s *LeadService) List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	leads, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, eris.Wrap(err, "list stored leads")
	}
	return leads, nil
}

// FailureMessage renders the fallback stored when generation fails.
func FailureMessage(err error) string {
	return fmt.Sprintf("Failed to generate message: %v", err)
}

func (s *LeadService) persist(ctx context.Context, leads []entity.Lead) ([]entity.Lead, error) {
	staged, err := s.sink.Stage(dto.NewLeadRecords(leads))
	if err != nil {
		return nil, &StageError{Stage: StageExport, Err: err}
	}
	defer staged.Discard()

	stored, err := s.repo.InsertBatch(ctx, leads)
	if err != nil {
		return nil, &StageError{Stage: StagePersist, Err: err}
	}

	if err := staged.Commit(); err != nil {
		zap.L().Error("leads committed but export file not replaced",
			zap.String("path", s.sink.Path()),
			zap.Int("leads", len(stored)),
			zap.Error(err),
		)
		return nil, &StageError{Stage: StageExport, Err: err}
	}
	return stored, nil
}
