package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecole/schoolrecords/internal/app/models/dto"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
		field   string
	}{
		{
			name:    "student not found",
			err:     apperrors.StudentNotFound(4),
			status:  http.StatusNotFound,
			code:    dto.ErrorCodeResourceNotFound,
			message: "student with id 4 not found",
		},
		{
			name:    "enrollment not found",
			err:     apperrors.EnrollmentNotFound(2),
			status:  http.StatusNotFound,
			code:    dto.ErrorCodeResourceNotFound,
			message: "enrollment with id 2 not found",
		},
		{
			name:    "validation",
			err:     apperrors.NewValidationError("name", "name is required"),
			status:  http.StatusBadRequest,
			code:    dto.ErrorCodeValidationFailed,
			message: "name is required",
			field:   "name",
		},
		{
			name:    "duplicate email",
			err:     apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "a student with email a@x.com already exists"),
			status:  http.StatusBadRequest,
			code:    dto.ErrorCodeResourceAlreadyExists,
			message: "a student with email a@x.com already exists",
			field:   "email",
		},
		{
			name:    "duplicate enrollment",
			err:     apperrors.ErrDuplicateEnrollment,
			status:  http.StatusBadRequest,
			code:    dto.ErrorCodeDuplicateEnrollment,
			message: "student is already enrolled in this course",
		},
		{
			name:    "persistence",
			err:     fmt.Errorf("%w: listing students: %w", apperrors.ErrPersistence, errors.New("conn reset")),
			status:  http.StatusBadRequest,
			code:    dto.ErrorCodeDatabaseError,
			message: "Database operation failed",
		},
		{
			name:    "unclassified",
			err:     errors.New("something odd"),
			status:  http.StatusBadRequest,
			code:    dto.ErrorCodeDatabaseError,
			message: "Request could not be processed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", func(c *gin.Context) { HandleAPIError(c, tt.err) })

			w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Equal(t, tt.field, resp.Error.Field)
			assert.False(t, resp.Timestamp.IsZero())
		})
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(router, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	t.Run("allow all by default", func(t *testing.T) {
		router := gin.New()
		router.Use(CORS(nil))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := serve(router, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("restricted origins", func(t *testing.T) {
		router := gin.New()
		router.Use(CORS([]string{"https://ecole.fr"}))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://ecole.fr")
		assert.Equal(t, "https://ecole.fr", serve(router, req).Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := serve(router, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		router := gin.New()
		router.Use(CORS([]string{"*"}))
		router.POST("/", func(c *gin.Context) { c.Status(http.StatusCreated) })

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := serve(router, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	})

	t.Run("options without origin is not a preflight", func(t *testing.T) {
		router := gin.New()
		router.Use(CORS(nil))
		router.POST("/students", func(c *gin.Context) { c.Status(http.StatusCreated) })

		w := serve(router, httptest.NewRequest(http.MethodOptions, "/unknown", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("exposes request id", func(t *testing.T) {
		router := gin.New()
		router.Use(CORS([]string{"https://ecole.fr"}))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://ecole.fr")
		w := serve(router, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, http.CanonicalHeaderKey(RequestIDHeader), w.Header().Get("Access-Control-Expose-Headers"))
	})
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(), Recovery())
	router.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternalServer, resp.Error.Code)
}

func TestRegisterValidator(t *testing.T) {
	assert.True(t, RegisterValidator())
}
