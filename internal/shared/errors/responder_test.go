package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainedResponder_UsesFirstMatchingMapper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	errOutOfStock := errors.New("out of stock")
	responder := NewChainedResponder("",
		func(err error) (ProblemDetail, bool) {
			if errors.Is(err, errOutOfStock) {
				return ErrInsufficientStock.WithDetail(err.Error()), true
			}
			return ProblemDetail{}, false
		},
	)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/order/create", nil)
	responder.RespondError(c, errOutOfStock)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeInsufficient, body["type"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "out of stock", body["message"])
	assert.Equal(t, "/api/order/create", body["instance"])
}

func TestResponder_MessageFallsBackToTitle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/order/list", nil)

	Respond(c, ErrUnauthorized)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized", body.Message)
	assert.False(t, body.Success)
}
