package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/octobees/leads-generator/outreach/internal/dto"
	"github.com/octobees/leads-generator/outreach/internal/entity"
)

// LeadsRepository describes persistence operations for leads.
type LeadsRepository interface {
	InsertBatch(ctx context.Context, leads []entity.Lead) ([]entity.Lead, error)
	List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error)
}

// pgxPool is the subset of *pgxpool.Pool the repository needs; pgxmock satisfies it in tests.
type pgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

var _ LeadsRepository = (*PGXLeadsRepository)(nil)

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

const insertLeadSQL = `
        INSERT INTO leads (company_name, website, employee_count, scraped_insights, personalized_message)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `

// InsertBatch stores every lead in a single transaction and returns them with id and
// created_at populated. Either all rows are committed or none are.
func (r *PGXLeadsRepository) InsertBatch(ctx context.Context, leads []entity.Lead) ([]entity.Lead, error) {
	if len(leads) == 0 {
		return []entity.Lead{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "start lead batch tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	stored := make([]entity.Lead, 0, len(leads))
	for _, lead := range leads {
		err := tx.QueryRow(ctx, insertLeadSQL,
			lead.CompanyName,
			lead.Website,
			lead.EmployeeCount,
			lead.ScrapedInsights,
			lead.PersonalizedMessage,
		).Scan(&lead.ID, &lead.CreatedAt)
		if err != nil {
			return nil, eris.Wrapf(err, "insert lead %q", lead.CompanyName)
		}
		stored = append(stored, lead)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "commit lead batch tx")
	}

	return stored, nil
}

const listLeadsSQL = `
        SELECT id, company_name, website, employee_count, scraped_insights, personalized_message, created_at
        FROM leads
        ORDER BY created_at DESC, id
        LIMIT $1 OFFSET $2
    `

// List returns persisted leads, newest first.
func (r *PGXLeadsRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage

	rows, err := r.pool.Query(ctx, listLeadsSQL, perPage, offset)
	if err != nil {
		return nil, eris.Wrap(err, "list leads")
	}
	defer rows.Close()

	return scanLeads(rows)
}

func scanLeads(rows pgx.Rows) ([]entity.Lead, error) {
	leads := []entity.Lead{}
	for rows.Next() {
		var lead entity.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.CompanyName,
			&lead.Website,
			&lead.EmployeeCount,
			&lead.ScrapedInsights,
			&lead.PersonalizedMessage,
			&lead.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "scan lead")
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate leads")
	}
	return leads, nil
}
