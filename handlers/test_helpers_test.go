package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"srv_contratos/models"
	"srv_contratos/services"
	"srv_contratos/services/postal"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakePostal struct {
	address postal.Address
	err     error
	code    string
}

func (f *fakePostal) Lookup(ctx context.Context, code string) (postal.Address, error) {
	f.code = code
	return f.address, f.err
}

type fakeConverter struct {
	data []byte
	err  error
	html string
}

func (f *fakeConverter) HTMLToDOCX(ctx context.Context, html string) ([]byte, error) {
	f.html = html
	return f.data, f.err
}

func (f *fakeConverter) Render(ctx context.Context, html string) ([]byte, error) {
	f.html = html
	return f.data, f.err
}

type testServer struct {
	t      *testing.T
	e      *echo.Echo
	db     *gorm.DB
	h      *Handler
	postal *fakePostal
	docx   *fakeConverter
	pdf    *fakeConverter
	user   *models.User
	token  string
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// newTestServer wires the whole API against an in-memory database and a logged in user
func newTestServer(t *testing.T, scopeToOwner bool) *testServer {
	t.Helper()
	db := setupTestDB(t)
	storage := services.NewLocalStorage(t.TempDir())

	drafts := services.NewDraftService(db, storage, scopeToOwner)
	auth := services.NewAuthService(db, "test-secret-with-enough-length-0123", time.Hour, 24*time.Hour)
	ts := &testServer{
		t:      t,
		db:     db,
		postal: &fakePostal{},
		docx:   &fakeConverter{data: []byte("PK docx")},
		pdf:    &fakeConverter{data: []byte("%PDF-1.4")},
	}
	ts.h = New(
		services.NewEntityService(db),
		services.NewCatalogService(db),
		drafts,
		services.NewAttachmentService(db, storage, drafts),
		auth,
		ts.postal,
		ts.docx,
		ts.pdf,
	)

	ts.e = echo.New()
	ts.e.HTTPErrorHandler = ErrorHandler
	ts.e.IPExtractor = echo.ExtractIPDirect()
	ts.h.Register(ts.e, auth)

	ts.user, ts.token = ts.login("ana")
	return ts
}

// login creates a user and returns it with a fresh access token
func (ts *testServer) login(username string) (*models.User, string) {
	ts.t.Helper()
	user, err := ts.h.Auth.CreateUser(context.Background(), username, username+"@example.com", "SecretPass123!", false)
	require.NoError(ts.t, err)
	pair, err := ts.h.Auth.Login(context.Background(), username, "SecretPass123!")
	require.NoError(ts.t, err)
	return user, pair.Access
}

func (ts *testServer) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

// do sends body as JSON with the default user's token
func (ts *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	return ts.doAs(ts.token, method, path, body)
}

func (ts *testServer) doAs(token, method, path string, body interface{}) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			data, err := json.Marshal(body)
			require.NoError(ts.t, err)
			raw = string(data)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return ts.serve(req, token)
}

// upload posts a multipart form with one file part
func (ts *testServer) upload(path, field, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	ts.t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(ts.t, writer.WriteField(k, v))
	}
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(ts.t, err)
		_, err = part.Write(content)
		require.NoError(ts.t, err)
	}
	require.NoError(ts.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return ts.serve(req, ts.token)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
