package sharing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yusuke0018/marumie-sub004/database"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Init(db))
	return db
}

func TestShareUploadAndFetch(t *testing.T) {
	db := newTestDB(t)
	upload := UploadHandler(db, "http://localhost:8080/")
	data := DataHandler(db)

	body := `{"type":"monthly","category":"internal","data":{"total":42}}`
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(body))
	rec := httptest.NewRecorder()
	upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created["id"], 16)
	assert.Equal(t, "http://localhost:8080/api/data/"+created["id"], created["url"])

	req = httptest.NewRequest(http.MethodGet, "/api/data/"+created["id"], nil)
	rec = httptest.NewRecorder()
	data(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Type       string          `json:"type"`
		Category   string          `json:"category"`
		Data       json.RawMessage `json:"data"`
		UploadedAt string          `json:"uploadedAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "monthly", got.Type)
	assert.Equal(t, "internal", got.Category)
	assert.JSONEq(t, `{"total":42}`, string(got.Data))
	assert.NotEmpty(t, got.UploadedAt)
}

func TestShareUnknownIDReturns404(t *testing.T) {
	db := newTestDB(t)
	req := httptest.NewRequest(http.MethodGet, "/api/data/deadbeefdeadbeef", nil)
	rec := httptest.NewRecorder()
	DataHandler(db)(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShareUploadValidation(t *testing.T) {
	db := newTestDB(t)
	upload := UploadHandler(db, "http://localhost:8080")

	// type 欠落
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"data":{}}`))
	rec := httptest.NewRecorder()
	upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 壊れたJSON
	req = httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// GETは許可しない
	req = httptest.NewRequest(http.MethodGet, "/api/upload", nil)
	rec = httptest.NewRecorder()
	upload(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSharePreflight(t *testing.T) {
	db := newTestDB(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
	rec := httptest.NewRecorder()
	UploadHandler(db, "")(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}
