package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()
	a, b := GenerateToken(), GenerateToken()
	require.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestSetLevel(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	require.NoError(t, SetLevel("debug"))
	require.Equal(t, log.DebugLevel, log.GetLevel())
	require.Error(t, SetLevel("loud"))
	require.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestJSONResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		write    func(c *gin.Context)
		wantBody string
	}{
		{
			name:     "with_data",
			write:    func(c *gin.Context) { JSONResponse(c, http.StatusOK, []int{1}, "ok") },
			wantBody: `{"data":[1],"message":"ok","status":200}`,
		},
		{
			name:     "nil_data_is_omitted",
			write:    func(c *gin.Context) { JSONResponse(c, http.StatusOK, nil, "deleted") },
			wantBody: `{"message":"deleted","status":200}`,
		},
		{
			name:     "error",
			write:    func(c *gin.Context) { JSONError(c, http.StatusConflict, errors.New("taken"), "conflict") },
			wantBody: `{"error":"taken","message":"conflict","status":409}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tc.write(c)
			require.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}
