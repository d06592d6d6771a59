package repo

import (
	"context"

	"rescue/internal/domain"
	"rescue/internal/sqlinline"
)

// ListDonations returns the most recent donations for a case.
func (s *Store) ListDonations(ctx context.Context, caseID string, limit int) ([]domain.Donation, error) {
	rows, err := s.SQL.Query(ctx, sqlinline.QListDonationsByCase, caseID, limit)
	if err != nil {
		return nil, classify("list donations", err)
	}
	defer rows.Close()

	items := make([]domain.Donation, 0)
	for rows.Next() {
		var (
			d      domain.Donation
			method string
		)
		if err := rows.Scan(&d.ID, &d.CaseID, &d.UserID, &d.Amount, &method, &d.CreatedAt); err != nil {
			return nil, classify("list donations", err)
		}
		d.Method = domain.PaymentMethod(method)
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list donations", err)
	}
	return items, nil
}
