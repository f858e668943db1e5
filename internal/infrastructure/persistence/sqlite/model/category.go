package model

type Category struct {
	CategoryID uint64 `gorm:"column:category_id;primaryKey;autoIncrement"`
	Label      string `gorm:"column:label;type:text;not null;uniqueIndex"`
}

func (Category) TableName() string {
	return "categories"
}
