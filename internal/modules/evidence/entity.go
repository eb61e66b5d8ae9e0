package evidence

import "time"

// Asset is a file a party attached to back an attendance claim or a
// dispute. Assets are append-only: once referenced from a record they
// are never deleted or reassigned.
type Asset struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	OwnerID      int64     `gorm:"column:owner_id;index" json:"owner_id"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	FilePath     string    `gorm:"column:file_path" json:"-"`
	FileURL      string    `gorm:"column:file_url" json:"url"`
	MimeType     string    `gorm:"column:mime_type" json:"mime_type"`
	Size         int64     `gorm:"column:size" json:"size"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Asset) TableName() string { return "evidence_assets" }
