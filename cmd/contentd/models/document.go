package models

import "time"

// Document identifies one markdown document in the bucket. The slug is
// derived from the key; uniqueness is intended but not enforced, so lookups
// resolve collisions by listing order.
type Document struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Slug       string    `json:"slug"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DocumentSummary is the listing view of a document: identity plus the
// frontmatter fields the site index needs.
type DocumentSummary struct {
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Category   string    `json:"category,omitempty"`
	URL        string    `json:"url"`
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DeleteResult reports what a cleanup delete removed (or, for a dry run,
// would remove).
type DeleteResult struct {
	OperationID string   `json:"operation_id"`
	Deleted     []string `json:"deleted"`
	DryRun      bool     `json:"dry_run"`
}
