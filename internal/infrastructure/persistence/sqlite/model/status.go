package model

type Status struct {
	StatusID uint64 `gorm:"column:status_id;primaryKey;autoIncrement"`
	Label    string `gorm:"column:label;type:text;not null;uniqueIndex"`
	IsClosed bool   `gorm:"column:is_closed;not null;default:0"`
}

func (Status) TableName() string {
	return "statuses"
}
