package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/juicelabs/juice-content/common/bootstrap"
)

// DebugHandler serves the development diagnostics routes. All of them sit
// behind the debug-token middleware.
type DebugHandler struct {
	components *bootstrap.Components
}

// NewDebugHandler creates a new debug handler
func NewDebugHandler(components *bootstrap.Components) *DebugHandler {
	return &DebugHandler{components: components}
}

// GetLogs returns the most recent entries from the process ring buffer
// GET /api/v1/debug/logs?limit=<n>
func (h *DebugHandler) GetLogs(c echo.Context) error {
	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	entries := h.components.RingLog.Recent(limit)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"held":    h.components.RingLog.Len(),
		"entries": entries,
	})
}

// GetBucket returns the raw bucket listing for a prefix, including
// non-document keys
// GET /api/v1/debug/bucket?prefix=<p>
func (h *DebugHandler) GetBucket(c echo.Context) error {
	prefix := c.QueryParam("prefix")

	infos, err := h.components.Bucket.List(c.Request().Context(), prefix)
	if err != nil {
		h.components.Logger.Error("debug bucket listing failed", "prefix", prefix, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "bucket listing failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"prefix":  prefix,
		"count":   len(infos),
		"objects": infos,
	})
}

// GetConfig returns the effective configuration with secrets redacted
// GET /api/v1/debug/config
func (h *DebugHandler) GetConfig(c echo.Context) error {
	cfg := h.components.Config

	return c.JSON(http.StatusOK, map[string]interface{}{
		"service": map[string]interface{}{
			"name":        cfg.Service.Name,
			"environment": cfg.Service.Environment,
			"log_level":   cfg.Service.LogLevel,
			"log_format":  cfg.Service.LogFormat,
		},
		"bucket": map[string]interface{}{
			"backend":  cfg.Bucket.Backend,
			"base_url": cfg.Bucket.BaseURL,
			"token":    redact(cfg.Bucket.Token),
		},
		"content": map[string]interface{}{
			"prefixes":      cfg.Content.Prefixes,
			"site_base_url": cfg.Content.SiteBaseURL,
			"ring_log_size": cfg.Content.RingLogSize,
		},
		"debug": map[string]interface{}{
			"token": redact(cfg.Debug.Token),
		},
	})
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "[redacted]"
}
