package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func invoke(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(zap.NewNop())(err, c)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body["message"]
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"conflict", Conflictf("tweet already liked"), http.StatusConflict, "tweet already liked"},
		{"not found", NotFoundf("tweet not found"), http.StatusNotFound, "tweet not found"},
		{"self reference", SelfReferencef("cannot follow yourself"), http.StatusBadRequest, "cannot follow yourself"},
		{"validation", Validationf("q is required"), http.StatusBadRequest, "q is required"},
		{"duplicate key", gorm.ErrDuplicatedKey, http.StatusConflict, "resource already exists"},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "resource not found"},
		{"foreign key", gorm.ErrForeignKeyViolated, http.StatusNotFound, "referenced resource not found"},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "missing token"), http.StatusUnauthorized, "missing token"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := invoke(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestWrappedErrorsUnwrap(t *testing.T) {
	wrapped := errors.Join(errors.New("while liking"), gorm.ErrDuplicatedKey)
	status, _ := invoke(t, wrapped)
	assert.Equal(t, http.StatusConflict, status)
}

func TestStatusByKind(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, New(Validation, "x").Status())
	assert.Equal(t, http.StatusConflict, New(Conflict, "x").Status())
	assert.Equal(t, http.StatusNotFound, New(NotFound, "x").Status())
	assert.Equal(t, http.StatusBadRequest, New(SelfReference, "x").Status())
	assert.Equal(t, http.StatusBadRequest, New(Operational, "x").Status())
	assert.Equal(t, http.StatusInternalServerError, New(Internal, "x").Status())
}
