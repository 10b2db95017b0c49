package domain

import "time"

// GalleryItem is an uploaded portfolio image with its thumbnail
type GalleryItem struct {
	ID          int64
	FileName    string
	ThumbName   string
	ContentType string
	Caption     *string
	Width       int
	Height      int
	CreatedAt   time.Time
}
