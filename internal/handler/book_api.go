package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookshelf/internal/repository"
	"gorm.io/gorm"
)

// BookAPIHandler exposes the catalog as read-only JSON.
type BookAPIHandler struct {
	conns repository.Connector
}

func NewBookAPIHandler(conns repository.Connector) *BookAPIHandler {
	return &BookAPIHandler{conns: conns}
}

func (h *BookAPIHandler) RegisterRoutes(r *gin.RouterGroup) {
	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/:id", h.GetBookByID)
	}
}

// ListBooks godoc
// @Summary      List books
// @Description  Get all books, most recently created first
// @Tags         books
// @Produce      json
// @Success      200  {object}  ListBooksResponse
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books [get]
func (h *BookAPIHandler) ListBooks(c *gin.Context) {
	ctx := c.Request.Context()
	conn := h.conns.Connect(ctx)
	defer conn.Close()

	repo, err := conn.Books()
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError,
			"BOOK_LIST_FAILED",
			"failed to fetch books",
		)
		return
	}

	books, err := repo.List(ctx)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError,
			"BOOK_LIST_FAILED",
			"failed to fetch books",
		)
		return
	}

	c.JSON(http.StatusOK, toListBooksResponse(books))
}

// GetBookByID godoc
// @Summary      Get a book by ID
// @Description  Get a single book by its numeric ID
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  BookResponse
// @Failure      400  {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse   "Book not found"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [get]
func (h *BookAPIHandler) GetBookByID(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		writeError(c, http.StatusBadRequest,
			"INVALID_BOOK_ID",
			"invalid book id",
		)
		return
	}

	ctx := c.Request.Context()
	conn := h.conns.Connect(ctx)
	defer conn.Close()

	repo, err := conn.Books()
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError,
			"BOOK_FETCH_FAILED",
			"failed to fetch book",
		)
		return
	}

	book, err := repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, http.StatusNotFound,
				"BOOK_NOT_FOUND",
				"book not found",
			)
			return
		}

		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError,
			"BOOK_FETCH_FAILED",
			"failed to fetch book",
		)
		return
	}

	c.JSON(http.StatusOK, toBookResponse(*book))
}
