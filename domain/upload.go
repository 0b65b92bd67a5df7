package domain

import "time"

// Upload records a resume stored on disk together with the text pulled out of it.
type Upload struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	FileName      string    `gorm:"size:255;not null" json:"file_name"`
	StoredPath    string    `gorm:"size:512;not null" json:"stored_path"`
	MimeType      string    `gorm:"size:128;not null" json:"mime_type"`
	Size          int64     `json:"size"`
	ExtractedText string    `gorm:"type:text" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
