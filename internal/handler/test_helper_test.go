package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookshelf/internal/config"
	"github.com/snnyvrz/bookshelf/internal/db"
	"github.com/snnyvrz/bookshelf/internal/flash"
	"github.com/snnyvrz/bookshelf/internal/middleware"
	"github.com/snnyvrz/bookshelf/internal/model"
	"github.com/snnyvrz/bookshelf/internal/repository"
	"github.com/snnyvrz/bookshelf/internal/view"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "instance", "books.db"),
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})

	return gdb
}

func setupRouter(conns repository.Connector) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery())
	r.SetHTMLTemplate(view.Templates())

	NewBookHandler(conns, flash.NewStore("test-secret")).RegisterRoutes(r.Group(""))
	NewBookAPIHandler(conns).RegisterRoutes(r.Group("/api"))
	NewHealthHandler(conns, time.Now(), "test").RegisterRoutes(r.Group(""))

	return r
}

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gdb := setupTestDB(t)
	return setupRouter(db.NewPool(gdb)), gdb
}

// browser keeps cookies between requests the way a real client would.
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, r *gin.Engine) *browser {
	return &browser{t: t, router: r, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}

	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, path, form)
}

// follow asserts w is a redirect to the list and loads the target page.
func (b *browser) follow(w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	b.t.Helper()

	if w.Code != http.StatusSeeOther {
		b.t.Fatalf("expected status 303, got %d, body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		b.t.Fatalf("expected redirect to /, got %q", loc)
	}

	return b.get("/")
}

func bookForm(title, author, year, description string) url.Values {
	return url.Values{
		"title":       {title},
		"author":      {author},
		"year":        {year},
		"description": {description},
	}
}

var titleCell = regexp.MustCompile(`<td class="title">([^<]*)</td>`)

func listedTitles(body string) []string {
	matches := titleCell.FindAllStringSubmatch(body, -1)
	titles := make([]string, 0, len(matches))
	for _, m := range matches {
		titles = append(titles, m[1])
	}
	return titles
}

func hasMessage(body string, level flash.Level, text string) bool {
	return strings.Contains(body, `<div class="alert alert-`+string(level)+`" role="alert">`+text+`</div>`)
}

func countBooks(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()

	var n int64
	if err := gdb.Model(&model.Book{}).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func seedBook(t *testing.T, gdb *gorm.DB, title string) model.Book {
	t.Helper()

	book := model.Book{Title: title}
	if err := gdb.Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book %q: %v", title, err)
	}
	return book
}

type fakeBookRepo struct {
	CreateFn   func(ctx context.Context, b *model.Book) error
	ListFn     func(ctx context.Context) ([]model.Book, error)
	FindByIDFn func(ctx context.Context, id uint) (*model.Book, error)
	UpdateFn   func(ctx context.Context, b *model.Book) error
	DeleteFn   func(ctx context.Context, id uint) error
}

func (f *fakeBookRepo) Create(ctx context.Context, b *model.Book) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, b)
	}
	return nil
}

func (f *fakeBookRepo) List(ctx context.Context) ([]model.Book, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return nil, nil
}

func (f *fakeBookRepo) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	if f.FindByIDFn != nil {
		return f.FindByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBookRepo) Update(ctx context.Context, b *model.Book) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, b)
	}
	return nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

type fakeConn struct {
	repo     repository.BookRepository
	booksErr error
	pingErr  error
	opened   bool
	closes   int
}

func (f *fakeConn) Books() (repository.BookRepository, error) {
	if f.booksErr != nil {
		return nil, f.booksErr
	}
	f.opened = true
	return f.repo, nil
}

func (f *fakeConn) Ping() error {
	return f.pingErr
}

func (f *fakeConn) Close() error {
	f.closes++
	return nil
}

type fakeConnector struct {
	newConn func() *fakeConn
	conns   []*fakeConn
}

func (f *fakeConnector) Connect(ctx context.Context) repository.Conn {
	conn := f.newConn()
	f.conns = append(f.conns, conn)
	return conn
}

func connectorFor(repo repository.BookRepository) *fakeConnector {
	return &fakeConnector{newConn: func() *fakeConn { return &fakeConn{repo: repo} }}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
