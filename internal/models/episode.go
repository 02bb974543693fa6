package models

import "time"

// Episode is the stored record of a feed item. Rows are created once per
// distinct link and never updated.
type Episode struct {
	Link        string    `db:"link" json:"link"`
	Title       string    `db:"title" json:"title"`
	Filename    string    `db:"filename" json:"filename"`
	Published   string    `db:"published" json:"published"`
	Description string    `db:"description" json:"description"`
	Transcript  *string   `db:"transcript" json:"transcript,omitempty"`
	IngestedAt  time.Time `db:"ingested_at" json:"ingested_at"`
}

// RemoteItem is one validated entry of a freshly fetched feed.
type RemoteItem struct {
	Link         string
	Title        string
	PublishedAt  string
	Description  string
	EnclosureURL string
}

// AssetRequest asks the materializer for one local audio file.
type AssetRequest struct {
	Link         string
	EnclosureURL string
	Filename     string
}

// MaterializedFile confirms that Filename exists in the episode folder.
type MaterializedFile struct {
	Link     string `json:"link"`
	Filename string `json:"filename"`
}
