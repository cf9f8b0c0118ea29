package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/juicelabs/juice-content/cmd/contentd/models"
	"github.com/juicelabs/juice-content/common/bucket"
	"github.com/juicelabs/juice-content/common/config"
	"github.com/juicelabs/juice-content/common/frontmatter"
	"github.com/juicelabs/juice-content/common/logger"
	"github.com/juicelabs/juice-content/common/slug"
)

const docExt = ".md"

// assetExts are the extensions of image files uploaded alongside documents.
// They share the document's filename stem and are swept by delete.
var assetExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
	".avif": {},
	".svg":  {},
}

// isDocKey reports whether key names a markdown document. Extension matching
// is case-insensitive, same as slug.Normalize's extension strip, so a .MD key
// cannot normalize to a slug the listing filter refuses to surface.
func isDocKey(key string) bool {
	return strings.ToLower(path.Ext(key)) == docExt
}

// ContentStore implements the slug-addressed document operations on top of
// the blob bucket. It is stateless between requests; the bucket is the sole
// persistence authority.
type ContentStore struct {
	bucket bucket.Bucket
	cfg    *config.Config
	log    *logger.Logger
}

// NewContentStore creates a content store over the given bucket.
func NewContentStore(b bucket.Bucket, cfg *config.Config, log *logger.Logger) *ContentStore {
	return &ContentStore{
		bucket: b,
		cfg:    cfg,
		log:    log,
	}
}

// List returns summaries for every document under prefix, in bucket listing
// order. Non-document keys (images and other assets) are skipped. A document
// whose content cannot be fetched still appears, with a filename-derived
// title, so one unreachable blob does not blank the index.
func (s *ContentStore) List(ctx context.Context, prefix string) ([]models.DocumentSummary, error) {
	infos, err := s.bucket.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: list %q: %v", ErrBucketUnavailable, prefix, err)
	}

	summaries := make([]models.DocumentSummary, 0, len(infos))
	for _, info := range infos {
		if !isDocKey(info.Key) {
			continue
		}

		docSlug := slug.Normalize(info.Key)
		summary := models.DocumentSummary{
			Slug:       docSlug,
			URL:        s.siteURL(prefix, docSlug),
			Key:        info.Key,
			Size:       info.Size,
			UploadedAt: info.UploadedAt,
		}

		raw, err := s.bucket.Fetch(ctx, info.URL)
		if err != nil {
			s.log.Warn("listing entry content unreachable, degrading to filename title",
				"key", info.Key, "error", err)
			summary.Title = titleFallback(info.Key)
		} else {
			meta, body := frontmatter.Parse(string(raw))
			summary.Title = frontmatter.Title(meta, body, info.Key)
			summary.Category = meta.GetString("category")
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// FindBySlug returns the first document in listing order whose key normalizes
// to exactly the requested slug. Colliding keys are tolerated: the first
// match wins and the choice is stable for a given listing order. There is no
// fuzzy fallback here; similarity matching is reserved for the cleanup
// delete.
func (s *ContentStore) FindBySlug(ctx context.Context, requested, prefix string) (*models.Document, error) {
	if requested == "" {
		return nil, fmt.Errorf("%w: empty slug", ErrInvalidInput)
	}

	infos, err := s.bucket.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: list %q: %v", ErrBucketUnavailable, prefix, err)
	}

	for _, info := range infos {
		if !isDocKey(info.Key) {
			continue
		}
		if slug.Normalize(info.Key) == requested {
			return &models.Document{
				Key:        info.Key,
				URL:        info.URL,
				Slug:       requested,
				Size:       info.Size,
				UploadedAt: info.UploadedAt,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: slug %q under %q", ErrNotFound, requested, prefix)
}

// FetchContent retrieves the document's raw text from the bucket. A failure
// here is ErrContentFetch, not ErrNotFound: the key was present in the
// listing but its bytes were unreachable.
func (s *ContentStore) FetchContent(ctx context.Context, doc *models.Document) (string, error) {
	raw, err := s.bucket.Fetch(ctx, doc.URL)
	if err != nil {
		return "", fmt.Errorf("%w: key %q: %v", ErrContentFetch, doc.Key, err)
	}
	return string(raw), nil
}

// Upsert writes content at key. Overwriting an existing key requires the
// explicit allowOverwrite opt-in; otherwise bucket.ErrKeyExists surfaces so a
// slug collision cannot silently clobber another author's document. Protected
// seed slugs are refused before any bucket traffic.
func (s *ContentStore) Upsert(ctx context.Context, key string, content []byte, allowOverwrite bool) (*bucket.ObjectInfo, error) {
	if IsProtectedSlug(slug.Normalize(key)) {
		return nil, fmt.Errorf("%w: key %q", ErrProtected, key)
	}

	info, err := s.bucket.Put(ctx, key, content, bucket.PutOptions{
		ContentType:    "text/markdown",
		AllowOverwrite: allowOverwrite,
	})
	if err != nil {
		if errors.Is(err, bucket.ErrKeyExists) {
			return nil, bucket.ErrKeyExists
		}
		return nil, fmt.Errorf("%w: put %q: %v", ErrBucketUnavailable, key, err)
	}

	s.log.Info("document stored", "key", key, "size", len(content), "overwrite", allowOverwrite)
	return info, nil
}

// DeleteBySlugOrSimilar removes every document whose normalized filename stem
// equals the requested slug or is similar to it under the bounded-mismatch
// heuristic, plus image assets sharing a matching stem. The similarity sweep
// exists to catch near-duplicate keys left by repeated re-uploads of the same
// title. Irreversible; dryRun reports the matches without deleting. Returns
// the affected keys tagged with an operation ID for caller reporting.
func (s *ContentStore) DeleteBySlugOrSimilar(ctx context.Context, requested, prefix string, dryRun bool) (*models.DeleteResult, error) {
	if requested == "" {
		return nil, fmt.Errorf("%w: empty slug", ErrInvalidInput)
	}
	if IsProtectedSlug(requested) {
		return nil, fmt.Errorf("%w: slug %q", ErrProtected, requested)
	}

	infos, err := s.bucket.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: list %q: %v", ErrBucketUnavailable, prefix, err)
	}

	opID := uuid.New().String()
	log := s.log.WithFields(map[string]any{"operation_id": opID, "slug": requested})

	result := &models.DeleteResult{
		OperationID: opID,
		Deleted:     []string{},
		DryRun:      dryRun,
	}

	for _, info := range infos {
		ext := path.Ext(info.Key)
		if strings.ToLower(ext) != docExt {
			if _, ok := assetExts[strings.ToLower(ext)]; !ok {
				continue
			}
		}

		stem := strings.TrimSuffix(strings.TrimPrefix(info.Key, prefix), ext)
		normalized := slug.Normalize(stem)
		if normalized != requested && !slug.IsSimilar(normalized, requested) {
			continue
		}
		if IsProtectedSlug(normalized) {
			log.Warn("similarity match skipped protected seed content", "key", info.Key)
			continue
		}

		if !dryRun {
			if err := s.bucket.Delete(ctx, info.URL); err != nil {
				log.Error("delete failed mid-sweep", "key", info.Key, "error", err,
					"deleted_so_far", len(result.Deleted))
				return result, fmt.Errorf("%w: delete %q: %v", ErrBucketUnavailable, info.Key, err)
			}
		}
		result.Deleted = append(result.Deleted, info.Key)
	}

	log.Info("delete sweep finished", "matched", len(result.Deleted), "dry_run", dryRun)
	return result, nil
}

// siteURL builds the canonical site URL for a document.
func (s *ContentStore) siteURL(prefix, docSlug string) string {
	section := strings.TrimSuffix(prefix, "/")
	return s.cfg.Content.SiteBaseURL + "/" + section + "/" + docSlug
}

// titleFallback derives a display title from a key when content is
// unreachable.
func titleFallback(key string) string {
	if t := slug.Humanize(key); t != "" {
		return t
	}
	return "Untitled"
}
