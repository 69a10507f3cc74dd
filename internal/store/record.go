package store

import (
	"time"

	"gorm.io/datatypes"
)

// Record is one persisted collection. The whole collection value lives in a single JSON
// column and is replaced wholesale on every write.
type Record struct {
	Key       string         `gorm:"column:collection_key;type:varchar(32);primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"column:value" json:"value"`
	Revision  int64          `gorm:"column:revision;not null;default:0" json:"revision"`
	Origin    string         `gorm:"column:origin;type:varchar(64)" json:"origin"`
	UpdatedAt time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Record) TableName() string {
	return "Collections"
}

// Revision identifies the last write of a collection and the context that made it.
type Revision struct {
	Number int64
	Origin string
}
