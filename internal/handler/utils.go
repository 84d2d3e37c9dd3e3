package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookshelf/internal/flash"
	"github.com/snnyvrz/bookshelf/internal/model"
	"github.com/snnyvrz/bookshelf/internal/validation"
)

// parseBookID reads the :id path segment, which must be a positive integer.
func parseBookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func dangerMessages(errs []validation.FieldError) []flash.Message {
	msgs := make([]flash.Message, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, flash.Danger(fe.Message))
	}
	return msgs
}

func toBook(b model.Book) Book {
	return Book{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Year:        b.Year,
		Description: b.Description,
	}
}

func toBookResponse(b model.Book) BookResponse {
	return BookResponse{Data: toBook(b)}
}

func toListBooksResponse(books []model.Book) ListBooksResponse {
	data := make([]Book, 0, len(books))
	for _, b := range books {
		data = append(data, toBook(b))
	}
	return ListBooksResponse{Data: data}
}
