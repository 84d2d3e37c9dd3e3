package handler

import (
	"strconv"
	"strings"

	"github.com/snnyvrz/bookshelf/internal/model"
)

type BookForm struct {
	Title       string `form:"title" validate:"required"`
	Author      string `form:"author"`
	Year        string `form:"year" validate:"omitempty,integer"`
	Description string `form:"description"`
}

func (f *BookForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Year = strings.TrimSpace(f.Year)
	f.Description = strings.TrimSpace(f.Description)
}

// Book converts a validated form. Blank optional fields become nil so they
// are stored as NULL.
func (f *BookForm) Book() model.Book {
	book := model.Book{
		Title:       f.Title,
		Author:      model.OptionalString(f.Author),
		Description: model.OptionalString(f.Description),
	}

	if f.Year != "" {
		if year, err := strconv.Atoi(f.Year); err == nil {
			book.Year = &year
		}
	}

	return book
}

type Book struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Author      *string `json:"author"`
	Year        *int    `json:"year"`
	Description *string `json:"description"`
}

type BookResponse struct {
	Data Book `json:"data"`
}

type ListBooksResponse struct {
	Data []Book `json:"data"`
}
