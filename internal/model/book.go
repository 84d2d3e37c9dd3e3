package model

type Book struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"not null"`
	Author      *string
	Year        *int
	Description *string
}

func (Book) TableName() string { return "books" }

// OptionalString returns nil for a blank value so that it is stored as NULL.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
