package model

type Severity struct {
	SeverityID uint64 `gorm:"column:severity_id;primaryKey;autoIncrement"`
	Label      string `gorm:"column:label;type:text;not null;uniqueIndex"`
}

func (Severity) TableName() string {
	return "severities"
}
