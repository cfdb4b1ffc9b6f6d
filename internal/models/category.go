package models

// Category groups tasks; the name is the natural key referenced by Task.CategoryName.
type Category struct {
	Name        string `gorm:"primaryKey;size:100"`
	Description string `gorm:"size:250"`

	Tasks []Task `gorm:"foreignKey:CategoryName;references:Name;constraint:OnDelete:CASCADE"`
}
