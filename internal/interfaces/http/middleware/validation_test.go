package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/formax/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createTrainerBody struct {
	FullName   string `json:"full_name" binding:"required,min=2"`
	Email      string `json:"email" binding:"required,email"`
	DailyRate  int    `json:"daily_rate" binding:"gte=0"`
	Speciality string `json:"speciality" binding:"omitempty,oneof=prl forklift first_aid"`
}

func postTrainer(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.POST("/trainers", func(c *gin.Context) {
		var req createTrainerBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trainers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()

	t.Run("valid body passes", func(t *testing.T) {
		w := postTrainer(t, `{"full_name":"Marta Ibáñez","email":"marta@formax.example","daily_rate":320}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("reports json field names", func(t *testing.T) {
		w := postTrainer(t, `{"full_name":"M","email":"not-an-email","daily_rate":-5}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		byField := map[string]string{}
		for _, d := range resp.Error.Details {
			byField[d.Field] = d.Message
		}
		assert.Equal(t, "Must be at least 2 characters", byField["full_name"])
		assert.Equal(t, "Invalid email format", byField["email"])
		assert.Equal(t, "Must be greater than or equal to 0", byField["daily_rate"])
	})

	t.Run("oneof lists allowed values", func(t *testing.T) {
		w := postTrainer(t, `{"full_name":"Marta Ibáñez","email":"marta@formax.example","speciality":"scuba"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "speciality", resp.Error.Details[0].Field)
		assert.Equal(t, "Must be one of: prl forklift first_aid", resp.Error.Details[0].Message)
	})

	t.Run("malformed json yields empty details", func(t *testing.T) {
		w := postTrainer(t, `{"full_name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Empty(t, resp.Error.Details)
	})

	t.Run("echoes the request id", func(t *testing.T) {
		SetupValidator()

		router := gin.New()
		router.Use(RequestID())
		router.POST("/trainers", func(c *gin.Context) {
			var req createTrainerBody
			if err := c.ShouldBindJSON(&req); err != nil {
				HandleValidationError(c, err)
			}
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/trainers", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", "office-ui-19cd")
		router.ServeHTTP(w, req)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "office-ui-19cd", resp.Error.RequestID)
	})
}

func TestFormatValidationErrorsNonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Empty(t, resp.Error.Details)
}
