package model

type Nonconformity struct {
	RecordID    uint64  `gorm:"column:record_id;primaryKey;autoIncrement"`
	Code        string  `gorm:"column:code;type:text;not null;uniqueIndex"`
	Description string  `gorm:"column:description;type:text;not null"`
	StatusID    uint64  `gorm:"column:status_id;not null;index"`
	SeverityID  uint64  `gorm:"column:severity_id;not null"`
	CategoryID  uint64  `gorm:"column:category_id;not null"`
	AreaID      *uint64 `gorm:"column:area_id"`
	CreatedAt   string  `gorm:"column:created_at;type:text;not null"`
	ClosedAt    *string `gorm:"column:closed_at;type:text"`
}

func (Nonconformity) TableName() string {
	return "nonconformities"
}
