package bucket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/juicelabs/juice-content/common/logger"
)

// HTTPBucket talks to the hosted blob API: listing by prefix, token-authorized
// puts and deletes, and plain GETs against returned URLs for content bytes.
type HTTPBucket struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logger.Logger
}

// NewHTTPBucket creates a client for the blob API at baseURL.
func NewHTTPBucket(baseURL, token string, timeout time.Duration, log *logger.Logger) *HTTPBucket {
	return &HTTPBucket{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type listResponse struct {
	Blobs []struct {
		Pathname   string    `json:"pathname"`
		URL        string    `json:"url"`
		Size       int64     `json:"size"`
		UploadedAt time.Time `json:"uploadedAt"`
	} `json:"blobs"`
}

type putResponse struct {
	Pathname string `json:"pathname"`
	URL      string `json:"url"`
}

// List fetches the bucket listing for prefix.
func (b *HTTPBucket) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	endpoint := b.baseURL + "?prefix=" + url.QueryEscape(prefix)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %q: unexpected status %d", prefix, resp.StatusCode)
	}

	var parsed listResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	infos := make([]ObjectInfo, 0, len(parsed.Blobs))
	for _, blob := range parsed.Blobs {
		infos = append(infos, ObjectInfo{
			Key:        blob.Pathname,
			URL:        blob.URL,
			Size:       blob.Size,
			UploadedAt: blob.UploadedAt,
		})
	}
	return infos, nil
}

// Put uploads body under key.
func (b *HTTPBucket) Put(ctx context.Context, key string, body []byte, opts PutOptions) (*ObjectInfo, error) {
	endpoint := b.baseURL + "/" + key
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build put request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	if opts.ContentType != "" {
		req.Header.Set("x-content-type", opts.ContentType)
	}
	req.Header.Set("x-allow-overwrite", strconv.FormatBool(opts.AllowOverwrite))

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("put %q: %w", key, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict:
		return nil, ErrKeyExists
	default:
		return nil, fmt.Errorf("put %q: unexpected status %d", key, resp.StatusCode)
	}

	var parsed putResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode put response: %w", err)
	}

	b.log.Debug("blob uploaded", "key", parsed.Pathname, "size", len(body))
	return &ObjectInfo{
		Key:        parsed.Pathname,
		URL:        parsed.URL,
		Size:       int64(len(body)),
		UploadedAt: time.Now().UTC(),
	}, nil
}

// Delete removes the blob behind url.
func (b *HTTPBucket) Delete(ctx context.Context, blobURL string) error {
	payload, err := json.Marshal(map[string][]string{"urls": {blobURL}})
	if err != nil {
		return fmt.Errorf("encode delete payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, b.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete %q: %w", blobURL, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("delete %q: unexpected status %d", blobURL, resp.StatusCode)
	}
}

// Fetch downloads content bytes from a blob URL.
func (b *HTTPBucket) Fetch(ctx context.Context, blobURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, blobURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", blobURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: unexpected status %d", blobURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %q: %w", blobURL, err)
	}
	return data, nil
}
