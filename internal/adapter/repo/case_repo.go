package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"rescue/internal/domain"
	"rescue/internal/infra"
	"rescue/internal/sqlinline"
)

// ListCases returns all cases, newest first.
func (s *Store) ListCases(ctx context.Context) ([]domain.Case, error) {
	rows, err := s.SQL.Query(ctx, sqlinline.QListCases)
	if err != nil {
		return nil, classify("list cases", err)
	}
	defer rows.Close()

	items := make([]domain.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, classify("list cases", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list cases", err)
	}
	return items, nil
}

// GetCase fetches a case by id.
func (s *Store) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	c, err := scanCase(s.SQL.QueryRow(ctx, sqlinline.QSelectCaseByID, id))
	if err != nil {
		return nil, classify("get case", err)
	}
	return c, nil
}

// CreateCase inserts c. The database assigns ID and CreatedAt.
func (s *Store) CreateCase(ctx context.Context, c *domain.Case) (string, error) {
	row := s.SQL.QueryRow(ctx, sqlinline.QInsertCase,
		c.AnimalType,
		c.Title,
		c.Description,
		c.Location,
		string(c.Severity),
		c.ImageURL,
		c.Goal,
		c.UserID,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return "", classify("create case", err)
	}
	c.Raised = 0
	c.Status = domain.CaseStatusOpen
	return c.ID, nil
}

// Donate locks the case row, increments raised and appends the ledger entry.
func (s *Store) Donate(ctx context.Context, d *domain.Donation) (*domain.Case, error) {
	var updated *domain.Case
	err := s.SQL.InTx(ctx, func(tx infra.SQLExecutor) error {
		var raised int64
		if err := tx.QueryRow(ctx, sqlinline.QLockCaseForDonation, d.CaseID).Scan(&raised); err != nil {
			return err
		}
		c, err := scanCase(tx.QueryRow(ctx, sqlinline.QIncrementCaseRaised, d.CaseID, d.Amount))
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sqlinline.QInsertDonation, d.CaseID, d.UserID, d.Amount, string(d.Method)).Scan(&d.ID, &d.CreatedAt); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, classify("donate", err)
	}
	return updated, nil
}

func scanCase(row pgx.Row) (*domain.Case, error) {
	var (
		c         domain.Case
		severity  string
		status    string
		createdAt *time.Time
	)
	if err := row.Scan(
		&c.ID,
		&c.AnimalType,
		&c.Title,
		&c.Description,
		&c.Location,
		&severity,
		&c.ImageURL,
		&c.Goal,
		&c.Raised,
		&c.UserID,
		&status,
		&createdAt,
	); err != nil {
		return nil, err
	}
	c.Severity = domain.Severity(severity)
	c.Status = domain.CaseStatus(status)
	if createdAt != nil {
		c.CreatedAt = *createdAt
	}
	return &c, nil
}
