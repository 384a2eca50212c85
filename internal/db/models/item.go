package models

// Item is the example resource of the template.
// Copy it when adding a new model and register the copy in the migrate package.
type Item struct {
	Base
	Name        string `gorm:"size:100;not null;index" json:"name"`
	Description string `gorm:"size:1000" json:"description"`
}
