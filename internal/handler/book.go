package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookshelf/internal/flash"
	"github.com/snnyvrz/bookshelf/internal/repository"
	"github.com/snnyvrz/bookshelf/internal/validation"
	"github.com/snnyvrz/bookshelf/internal/view"
	"gorm.io/gorm"
)

const (
	msgBookCreated  = "Book created successfully."
	msgBookUpdated  = "Book updated."
	msgBookDeleted  = "Book deleted."
	msgBookNotFound = "Book not found."
)

// BookHandler serves the HTML pages of the catalog. Every handler opens its
// own connection and releases it when it returns.
type BookHandler struct {
	conns   repository.Connector
	flashes *flash.Store
}

func NewBookHandler(conns repository.Connector, flashes *flash.Store) *BookHandler {
	return &BookHandler{conns: conns, flashes: flashes}
}

func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.ListBooks)

	books := r.Group("/book")
	{
		books.GET("/new", h.NewBook)
		books.POST("/new", h.CreateBook)
		books.GET("/:id/edit", h.EditBook)
		books.POST("/:id/edit", h.UpdateBook)
		books.POST("/:id/delete", h.DeleteBook)
	}
}

// render shows page together with any messages left by a previous redirect
// and the ones produced while handling this request.
func (h *BookHandler) render(c *gin.Context, page, title string, data gin.H, msgs ...flash.Message) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Messages"] = append(h.flashes.Consume(c), msgs...)

	c.HTML(http.StatusOK, page, data)
}

func (h *BookHandler) redirectToList(c *gin.Context, msg flash.Message) {
	if err := h.flashes.Add(c, msg); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *BookHandler) ListBooks(c *gin.Context) {
	ctx := c.Request.Context()
	conn := h.conns.Connect(ctx)
	defer conn.Close()

	repo, err := conn.Books()
	if err != nil {
		internalError(c, err)
		return
	}

	books, err := repo.List(ctx)
	if err != nil {
		internalError(c, err)
		return
	}

	h.render(c, view.IndexPage, "Books", gin.H{"Books": books})
}

func (h *BookHandler) NewBook(c *gin.Context) {
	h.render(c, view.CreatePage, "Add a book", nil)
}

func (h *BookHandler) CreateBook(c *gin.Context) {
	ctx := c.Request.Context()
	conn := h.conns.Connect(ctx)
	defer conn.Close()

	var form BookForm
	errs, err := validation.BindAndValidateForm(c, &form)
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	// The submitted values are not echoed back on failure.
	if len(errs) > 0 {
		h.render(c, view.CreatePage, "Add a book", nil, dangerMessages(errs)...)
		return
	}

	repo, err := conn.Books()
	if err != nil {
		internalError(c, err)
		return
	}

	book := form.Book()
	if err := repo.Create(ctx, &book); err != nil {
		internalError(c, err)
		return
	}

	h.redirectToList(c, flash.Success(msgBookCreated))
}

func (h *BookHandler) EditBook(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	conn := h.conns.Connect(ctx)
	defer conn.Close()

	repo, err := conn.Books()
	if err != nil {
		internalError(c, err)
		return
	}

	book, err := repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.redirectToList(c, flash.Danger(msgBookNotFound))
			return
		}

		internalError(c, err)
		return
	}

	h.render(c, view.EditPage, "Edit book", gin.H{"Book": book})
}

func (h *BookHandler) UpdateBook(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	conn := h.conns.Connect(ctx)
	defer conn.Close()

	repo, err := conn.Books()
	if err != nil {
		internalError(c, err)
		return
	}

	book, err := repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.redirectToList(c, flash.Danger(msgBookNotFound))
			return
		}

		internalError(c, err)
		return
	}

	var form BookForm
	errs, err := validation.BindAndValidateForm(c, &form)
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	// On failure the form shows the stored record, not the rejected input.
	if len(errs) > 0 {
		h.render(c, view.EditPage, "Edit book", gin.H{"Book": book}, dangerMessages(errs)...)
		return
	}

	updated := form.Book()
	updated.ID = book.ID

	if err := repo.Update(ctx, &updated); err != nil {
		internalError(c, err)
		return
	}

	h.redirectToList(c, flash.Success(msgBookUpdated))
}

func (h *BookHandler) DeleteBook(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	conn := h.conns.Connect(ctx)
	defer conn.Close()

	repo, err := conn.Books()
	if err != nil {
		internalError(c, err)
		return
	}

	if err := repo.Delete(ctx, bookID); err != nil {
		internalError(c, err)
		return
	}

	h.redirectToList(c, flash.Success(msgBookDeleted))
}
