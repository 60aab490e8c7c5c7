package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(CtxRequestIDKey, "req-1")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, StatusSuccess, StatusText(http.StatusCreated))
	assert.Equal(t, StatusFail, StatusText(http.StatusNotFound))
	assert.Equal(t, StatusError, StatusText(http.StatusInternalServerError))
}

func TestListCountsAndStampsTime(t *testing.T) {
	c, w := testContext()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c.Set(CtxRequestTimeKey, at)

	List[string](c, "tours", nil)

	body := decode(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["results"])
	assert.Equal(t, at.Format(time.RFC3339), body["requestedAt"])
	assert.Equal(t, map[string]any{"tours": []any{}}, body["data"])
	assert.Equal(t, "req-1", body["requestId"])
}

func TestWithToken(t *testing.T) {
	c, w := testContext()
	WithToken(c, http.StatusCreated, "tok", gin.H{"user": gin.H{"name": "Jo"}})

	body := decode(t, w)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "tok", body["token"])
	assert.NotContains(t, body, "results")
}

func TestErrorStatus(t *testing.T) {
	c, w := testContext()
	Error[any](c, 0, "Invalid input data.", map[string]string{"name": "is required"})

	body := decode(t, w)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "Invalid input data.", body["message"])
	assert.Equal(t, map[string]any{"name": "is required"}, body["error"])

	c, w = testContext()
	Error[any](c, http.StatusInternalServerError, "Something went very wrong!", nil)
	assert.Equal(t, "error", decode(t, w)["status"])
}
