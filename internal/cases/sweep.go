package cases

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"rescue/internal/domain"
)

// ImagePrefix is the blob key prefix of every case image.
const ImagePrefix = "cases"

// SweepStore is the part of the blob store the orphan sweep needs.
type SweepStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// SweepOptions controls Sweep.
type SweepOptions struct {
	DryRun bool
	// MinAge spares images uploaded more recently than this, so a report
	// that is between its upload and its insert keeps its image.
	MinAge      time.Duration
	Concurrency int
	Now         func() time.Time
}

// SweepResult summarises one sweep.
type SweepResult struct {
	Scanned    int      `json:"scanned"`
	Referenced int      `json:"referenced"`
	Orphans    []string `json:"orphans"`
	Deleted    int      `json:"deleted"`
	// Unmapped lists cases whose image URL names no key under ImagePrefix.
	Unmapped []string `json:"unmapped,omitempty"`
}

// ErrUnmappedImages stops a sweep from deleting anything while some case
// points at an image it cannot locate.
var ErrUnmappedImages = errors.New("sweep: some case image URLs do not map to a stored key")

// Sweep deletes images under ImagePrefix that no case references. Such
// images are left behind when the process dies between upload and insert.
func Sweep(ctx context.Context, repo domain.CaseRepository, blobs SweepStore, opts SweepOptions, logger zerolog.Logger) (SweepResult, error) {
	var res SweepResult
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	list, err := repo.ListCases(ctx)
	if err != nil {
		return res, tag("sweep", err)
	}
	referenced := make(map[string]struct{}, len(list))
	for _, c := range list {
		if c.ImageURL == "" {
			continue
		}
		key, ok := imageKeyFromURL(blobs, c.ImageURL)
		if !ok {
			res.Unmapped = append(res.Unmapped, c.ID)
			logger.Warn().Str("case_id", c.ID).Str("image_url", c.ImageURL).Msg("case image url does not map to a key")
			continue
		}
		referenced[key] = struct{}{}
	}
	res.Referenced = len(referenced)

	keys, err := blobs.List(ctx, ImagePrefix)
	if err != nil {
		return res, err
	}
	res.Scanned = len(keys)

	cutoff := opts.Now().Add(-opts.MinAge)
	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}
		if opts.MinAge > 0 {
			if at, ok := uploadedAt(key); ok && at.After(cutoff) {
				continue
			}
		}
		res.Orphans = append(res.Orphans, key)
	}
	if opts.DryRun || len(res.Orphans) == 0 {
		return res, nil
	}
	if len(res.Unmapped) > 0 {
		return res, ErrUnmappedImages
	}

	var (
		mu      sync.Mutex
		deleted int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, key := range res.Orphans {
		key := key
		g.Go(func() error {
			if err := blobs.Delete(gctx, key); err != nil {
				return err
			}
			logger.Info().Str("key", key).Msg("removed orphaned case image")
			mu.Lock()
			deleted++
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	res.Deleted = deleted
	return res, err
}

// imageKeyFromURL maps a stored image URL to its blob key. URLs written
// under an older STORAGE_BASE_URL still map through their path, so a host or
// prefix change does not turn every image into an orphan.
func imageKeyFromURL(blobs SweepStore, raw string) (string, bool) {
	if key, ok := blobs.KeyFromURL(raw); ok {
		return key, true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	p := path.Clean("/" + u.Path)
	marker := "/" + ImagePrefix + "/"
	idx := strings.LastIndex(p, marker)
	if idx < 0 {
		return "", false
	}
	rest := p[idx+len(marker):]
	if rest == "" {
		return "", false
	}
	return ImagePrefix + "/" + rest, true
}

// uploadedAt reads the upload time encoded by ImageKey.
func uploadedAt(key string) (time.Time, bool) {
	base := path.Base(key)
	millis, _, found := strings.Cut(base, "_")
	if !found {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
