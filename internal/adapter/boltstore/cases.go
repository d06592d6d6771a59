package boltstore

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "github.com/boltdb/bolt"
	"github.com/google/uuid"

	"rescue/internal/domain"
)

// ListCases walks the created-at index backwards.
func (s *Store) ListCases(ctx context.Context) ([]domain.Case, error) {
	items := make([]domain.Case, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		cases := tx.Bucket(bucketCases)
		c := tx.Bucket(bucketCasesByCreated).Cursor()
		for k, id := c.Last(); k != nil; k, id = c.Prev() {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw := cases.Get(id)
			if raw == nil {
				s.logger.Warn().Str("case_id", string(id)).Msg("bolt index points at missing case")
				continue
			}
			var item domain.Case
			if err := json.Unmarshal(raw, &item); err != nil {
				return fmt.Errorf("decode case %s: %w", id, err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, classify("list cases", err)
	}
	return items, nil
}

func (s *Store) GetCase(_ context.Context, id string) (*domain.Case, error) {
	var item domain.Case
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketCases).Get([]byte(id))
		if raw == nil {
			return domain.ErrNotFound
		}
		return json.Unmarshal(raw, &item)
	})
	if err != nil {
		return nil, classify("get case", err)
	}
	return &item, nil
}

// CreateCase assigns a fresh id and creation time, then stores c with its index entry.
func (s *Store) CreateCase(_ context.Context, c *domain.Case) (string, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()
	c.Raised = 0
	c.Status = domain.CaseStatusOpen

	data, err := json.Marshal(c)
	if err != nil {
		return "", classify("create case", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketCases).Put([]byte(c.ID), data); err != nil {
			return err
		}
		return tx.Bucket(bucketCasesByCreated).Put(timeKey(c.CreatedAt, c.ID), []byte(c.ID))
	})
	if err != nil {
		return "", classify("create case", err)
	}
	return c.ID, nil
}

// Donate reads the case, increments Raised and appends d in one write transaction.
// Bolt allows a single writer, so concurrent donations are serialized.
func (s *Store) Donate(_ context.Context, d *domain.Donation) (*domain.Case, error) {
	var updated domain.Case
	err := s.db.Update(func(tx *bolt.Tx) error {
		cases := tx.Bucket(bucketCases)
		raw := cases.Get([]byte(d.CaseID))
		if raw == nil {
			return domain.ErrNotFound
		}
		if err := json.Unmarshal(raw, &updated); err != nil {
			return err
		}
		updated.Raised += d.Amount

		data, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		if err := cases.Put([]byte(updated.ID), data); err != nil {
			return err
		}

		d.ID = uuid.NewString()
		d.CreatedAt = s.now()
		ledger, err := tx.Bucket(bucketDonations).CreateBucketIfNotExists([]byte(d.CaseID))
		if err != nil {
			return err
		}
		entry, err := json.Marshal(d)
		if err != nil {
			return err
		}
		return ledger.Put(timeKey(d.CreatedAt, d.ID), entry)
	})
	if err != nil {
		return nil, classify("donate", err)
	}
	return &updated, nil
}

// ListDonations returns up to limit donations for the case, newest first.
// A non-positive limit returns all of them.
func (s *Store) ListDonations(_ context.Context, caseID string, limit int) ([]domain.Donation, error) {
	items := make([]domain.Donation, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		ledger := tx.Bucket(bucketDonations).Bucket([]byte(caseID))
		if ledger == nil {
			return nil
		}
		c := ledger.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(items) >= limit {
				break
			}
			var d domain.Donation
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			items = append(items, d)
		}
		return nil
	})
	if err != nil {
		return nil, classify("list donations", err)
	}
	return items, nil
}
