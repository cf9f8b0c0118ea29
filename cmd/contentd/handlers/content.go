package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/juicelabs/juice-content/cmd/contentd/service"
	"github.com/juicelabs/juice-content/common/bootstrap"
	"github.com/juicelabs/juice-content/common/slug"
)

// ContentHandler adapts HTTP requests to content-store operations. No logic
// beyond input validation and error translation belongs here.
type ContentHandler struct {
	components *bootstrap.Components
	store      *service.ContentStore
}

// NewContentHandler creates a new content handler
func NewContentHandler(components *bootstrap.Components, store *service.ContentStore) *ContentHandler {
	return &ContentHandler{
		components: components,
		store:      store,
	}
}

// resolvePrefix validates the prefix query/body value against the configured
// set, defaulting to the first configured prefix when absent.
func (h *ContentHandler) resolvePrefix(raw string) (string, *echo.HTTPError) {
	if raw == "" {
		return h.components.Config.DefaultPrefix(), nil
	}
	if !h.components.Config.AllowedPrefix(raw) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "unknown prefix")
	}
	return raw, nil
}

// GetContent fetches a document's raw text by slug
// GET /api/v1/content?slug=<s>&prefix=<p>
func (h *ContentHandler) GetContent(c echo.Context) error {
	requested := slug.Normalize(c.QueryParam("slug"))
	if requested == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}
	prefix, httpErr := h.resolvePrefix(c.QueryParam("prefix"))
	if httpErr != nil {
		return httpErr
	}

	ctx := c.Request().Context()

	doc, err := h.store.FindBySlug(ctx, requested, prefix)
	if err != nil {
		h.components.Logger.Warn("content lookup failed", "slug", requested, "prefix", prefix, "error", err)
		return toHTTPError(err)
	}

	content, err := h.store.FetchContent(ctx, doc)
	if err != nil {
		h.components.Logger.Error("content fetch failed", "slug", requested, "key", doc.Key, "error", err)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"slug":    doc.Slug,
		"key":     doc.Key,
		"content": content,
	})
}

type createContentRequest struct {
	Name           string `json:"name"`
	Prefix         string `json:"prefix"`
	Content        string `json:"content"`
	AllowOverwrite bool   `json:"allow_overwrite"`
}

// CreateContent uploads a new document
// POST /api/v1/content
func (h *ContentHandler) CreateContent(c echo.Context) error {
	var req createContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	docSlug := slug.Normalize(req.Name)
	if docSlug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name must contain alphanumeric characters")
	}
	prefix, httpErr := h.resolvePrefix(req.Prefix)
	if httpErr != nil {
		return httpErr
	}

	key := prefix + docSlug + ".md"
	h.components.Logger.Info("creating document", "key", key, "overwrite", req.AllowOverwrite)

	info, err := h.store.Upsert(c.Request().Context(), key, []byte(req.Content), req.AllowOverwrite)
	if err != nil {
		h.components.Logger.Warn("create failed", "key", key, "error", err)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"slug": docSlug,
		"key":  info.Key,
		"url":  info.URL,
	})
}

type updateContentRequest struct {
	Slug    string `json:"slug"`
	Prefix  string `json:"prefix"`
	Content string `json:"content"`
}

// UpdateContent overwrites an existing document's text in place
// PATCH /api/v1/content
func (h *ContentHandler) UpdateContent(c echo.Context) error {
	var req updateContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	requested := slug.Normalize(req.Slug)
	if requested == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}
	prefix, httpErr := h.resolvePrefix(req.Prefix)
	if httpErr != nil {
		return httpErr
	}

	ctx := c.Request().Context()

	doc, err := h.store.FindBySlug(ctx, requested, prefix)
	if err != nil {
		h.components.Logger.Warn("update target not found", "slug", requested, "error", err)
		return toHTTPError(err)
	}

	// Overwrite is explicit here: the key was just resolved from the slug.
	if _, err := h.store.Upsert(ctx, doc.Key, []byte(req.Content), true); err != nil {
		h.components.Logger.Error("update failed", "key", doc.Key, "error", err)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"slug": doc.Slug,
		"key":  doc.Key,
	})
}

// DeleteContent deletes matching and similar documents plus their assets
// DELETE /api/v1/content?slug=<s>&prefix=<p>[&dry_run=true]
func (h *ContentHandler) DeleteContent(c echo.Context) error {
	requested := slug.Normalize(c.QueryParam("slug"))
	if requested == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}
	prefix, httpErr := h.resolvePrefix(c.QueryParam("prefix"))
	if httpErr != nil {
		return httpErr
	}
	dryRun, _ := strconv.ParseBool(c.QueryParam("dry_run"))

	result, err := h.store.DeleteBySlugOrSimilar(c.Request().Context(), requested, prefix, dryRun)
	if err != nil {
		h.components.Logger.Error("delete failed", "slug", requested, "prefix", prefix, "error", err)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// ListContent lists document summaries under a prefix
// GET /api/v1/content/list?prefix=<p>
func (h *ContentHandler) ListContent(c echo.Context) error {
	prefix, httpErr := h.resolvePrefix(c.QueryParam("prefix"))
	if httpErr != nil {
		return httpErr
	}

	summaries, err := h.store.List(c.Request().Context(), prefix)
	if err != nil {
		h.components.Logger.Error("listing failed", "prefix", prefix, "error", err)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"prefix":    prefix,
		"documents": summaries,
	})
}
