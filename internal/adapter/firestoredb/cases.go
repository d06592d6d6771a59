package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"rescue/internal/domain"
)

// ListCases reads the whole collection and sorts in memory, so documents
// still missing their server timestamp are listed too.
func (s *Store) ListCases(ctx context.Context) ([]domain.Case, error) {
	iter := s.client.Collection(colCases).Documents(ctx)
	defer iter.Stop()

	now := s.now()
	items := make([]domain.Case, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify("list cases", err)
		}
		var doc caseDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, classify("list cases", fmt.Errorf("decode case %s: %w", snap.Ref.ID, err))
		}
		if doc.CreatedAt.IsZero() {
			s.logger.Debug().Str("case_id", snap.Ref.ID).Msg("case without createdAt, using now")
		}
		items = append(items, doc.toCase(snap.Ref.ID, now))
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *Store) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	snap, err := s.client.Collection(colCases).Doc(id).Get(ctx)
	if err != nil {
		return nil, classify("get case", err)
	}
	var doc caseDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, classify("get case", err)
	}
	c := doc.toCase(snap.Ref.ID, s.now())
	return &c, nil
}

// CreateCase adds a document with a generated id and a server timestamp.
func (s *Store) CreateCase(ctx context.Context, c *domain.Case) (string, error) {
	ref := s.client.Collection(colCases).NewDoc()
	res, err := ref.Create(ctx, newCaseDoc(c))
	if err != nil {
		return "", classify("create case", err)
	}
	c.ID = ref.ID
	c.Raised = 0
	c.Status = domain.CaseStatusOpen
	c.CreatedAt = res.UpdateTime
	return ref.ID, nil
}

// Donate runs a read-modify-write transaction. Firestore retries it on contention.
func (s *Store) Donate(ctx context.Context, d *domain.Donation) (*domain.Case, error) {
	caseRef := s.client.Collection(colCases).Doc(d.CaseID)
	var (
		updated domain.Case
		donID   string
		donAt   = s.now()
	)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(caseRef)
		if err != nil {
			if isNotFound(err) {
				return domain.ErrNotFound
			}
			return err
		}
		var doc caseDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		doc.Raised += d.Amount
		if err := tx.Update(caseRef, []firestore.Update{{Path: "raised", Value: doc.Raised}}); err != nil {
			return err
		}
		donRef := caseRef.Collection(colDonations).NewDoc()
		if err := tx.Create(donRef, donationDoc{UserID: d.UserID, Amount: d.Amount, Method: string(d.Method), CreatedAt: donAt}); err != nil {
			return err
		}
		donID = donRef.ID
		updated = doc.toCase(caseRef.ID, donAt)
		return nil
	})
	if err != nil {
		return nil, classify("donate", err)
	}
	d.ID = donID
	d.CreatedAt = donAt
	return &updated, nil
}

func (s *Store) ListDonations(ctx context.Context, caseID string, limit int) ([]domain.Donation, error) {
	q := s.client.Collection(colCases).Doc(caseID).Collection(colDonations).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	items := make([]domain.Donation, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify("list donations", err)
		}
		var doc donationDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, classify("list donations", err)
		}
		items = append(items, domain.Donation{
			ID:        snap.Ref.ID,
			CaseID:    caseID,
			UserID:    doc.UserID,
			Amount:    doc.Amount,
			Method:    domain.PaymentMethod(doc.Method),
			CreatedAt: doc.CreatedAt,
		})
	}
	return items, nil
}
