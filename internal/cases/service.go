// Package cases implements listing, reporting and donating to rescue cases.
package cases

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"rescue/internal/domain"
	"rescue/internal/validation"
)

// BlobStore stores case images and publishes them under a URL.
type BlobStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Service coordinates the case repository, the image store and the list cache.
type Service struct {
	repo      domain.CaseRepository
	blobs     BlobStore
	cache     *Cache
	validator *validation.Validator
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(repo domain.CaseRepository, blobs BlobStore, v *validation.Validator, listTTL time.Duration, logger zerolog.Logger) *Service {
	s := &Service{
		repo:      repo,
		blobs:     blobs,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
	s.cache = NewCache(repo.ListCases, listTTL)
	return s
}

// List returns every case, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Case, error) {
	items, err := s.cache.Get(ctx)
	if err != nil {
		return nil, tag("list cases", err)
	}
	return items, nil
}

// Get returns one case.
func (s *Service) Get(ctx context.Context, id string) (*domain.Case, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.E("get case", domain.KindNotFound, domain.ErrNotFound)
	}
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return nil, tag("get case", err)
	}
	return c, nil
}

// Report uploads img and creates an open case with nothing raised yet. It
// returns the new case id. When the insert fails the uploaded image is removed.
func (s *Service) Report(ctx context.Context, userID string, in domain.NewCase, img *domain.Image) (string, error) {
	const op = "report"
	if userID == "" {
		return "", domain.E(op, domain.KindUnauthenticated, domain.ErrUnauthenticated)
	}
	in.AnimalType = strings.TrimSpace(in.AnimalType)
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.validator.Struct(in); err != nil {
		return "", domain.E(op, domain.KindInvalid, err)
	}
	if img == nil || len(img.Data) == 0 {
		return "", domain.E(op, domain.KindInvalid, domain.ErrImageRequired)
	}

	key, err := s.blobs.Write(ctx, ImageKey(s.now(), img.Filename), img.Data)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return "", domain.E(op, domain.KindPermissionDenied, err)
		}
		return "", domain.E(op, domain.KindUnknown, fmt.Errorf("upload image: %w", err))
	}

	c := &domain.Case{
		AnimalType:  in.AnimalType,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Severity:    in.Severity,
		ImageURL:    s.blobs.URL(key),
		Goal:        in.Goal,
		Raised:      0,
		UserID:      userID,
		Status:      domain.CaseStatusOpen,
	}
	id, err := s.repo.CreateCase(ctx, c)
	if err != nil {
		if derr := s.blobs.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.logger.Error().Err(derr).Str("key", key).Msg("remove orphaned case image")
		}
		return "", tag(op, err)
	}
	s.cache.Invalidate()
	s.logger.Info().Str("case_id", id).Str("user_id", userID).Msg("case reported")
	return id, nil
}

// Donate adds amount to the case's raised total. Raised may exceed the goal.
func (s *Service) Donate(ctx context.Context, userID, caseID string, amount int64, method domain.PaymentMethod) (*domain.Case, *domain.Donation, error) {
	const op = "donate"
	if userID == "" {
		return nil, nil, domain.E(op, domain.KindUnauthenticated, domain.ErrUnauthenticated)
	}
	if amount <= 0 {
		return nil, nil, domain.E(op, domain.KindInvalid, domain.ErrInvalidAmount)
	}

	d := &domain.Donation{CaseID: caseID, UserID: userID, Amount: amount, Method: method}
	c, err := s.repo.Donate(ctx, d)
	if err != nil {
		return nil, nil, tag(op, err)
	}
	s.cache.Invalidate()
	if c.Overfunded() {
		s.logger.Warn().Str("case_id", c.ID).Int64("goal", c.Goal).Int64("raised", c.Raised).Msg("case raised more than its goal")
	}
	return c, d, nil
}

// Donations returns recent donations to a case, newest first.
func (s *Service) Donations(ctx context.Context, caseID string, limit int) ([]domain.Donation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if _, err := s.repo.GetCase(ctx, caseID); err != nil {
		return nil, tag("list donations", err)
	}
	items, err := s.repo.ListDonations(ctx, caseID, limit)
	if err != nil {
		return nil, tag("list donations", err)
	}
	return items, nil
}

// Stats summarises funding across the cached list.
func (s *Service) Stats(ctx context.Context) (domain.CaseStats, error) {
	items, err := s.List(ctx)
	if err != nil {
		return domain.CaseStats{}, err
	}
	var st domain.CaseStats
	for _, c := range items {
		st.TotalCases++
		if c.Status == domain.CaseStatusOpen {
			st.OpenCases++
		}
		st.TotalGoal += c.Goal
		st.TotalRaised += c.Raised
		if c.Overfunded() {
			st.Overfunded++
		}
	}
	return st, nil
}

// ImageKey builds the blob key for an upload made at t.
func ImageKey(t time.Time, filename string) string {
	return fmt.Sprintf("%s/%d_%s", ImagePrefix, t.UnixMilli(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "image"
	}
	return out
}

// tag makes sure err carries a Kind, keeping whatever the store assigned.
func tag(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.E(op, domain.KindOf(err), err)
}
