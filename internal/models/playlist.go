package models

// Playlist is an ordered, non-owning index into a channel's content items
type Playlist struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ContentIDs  []string `json:"contentIds"`
	Thumbnail   string   `json:"thumbnail"` // Copied from the first item at creation
}

// Post is a community post; counters are fixed at creation
type Post struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"` // RFC3339
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
}
