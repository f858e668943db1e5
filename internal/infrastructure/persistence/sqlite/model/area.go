package model

type Area struct {
	AreaID uint64 `gorm:"column:area_id;primaryKey;autoIncrement"`
	Label  string `gorm:"column:label;type:text;not null;uniqueIndex"`
	Coding string `gorm:"column:coding;type:text;not null;default:''"`
}

func (Area) TableName() string {
	return "areas"
}
