package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRequireQuizWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now()

	tests := []struct {
		name       string
		start, end time.Time
		wantAbort  bool
	}{
		{"window open", now.Add(-time.Hour), now.Add(time.Hour), false},
		{"not started yet", now.Add(time.Hour), now.Add(2 * time.Hour), true},
		{"already ended", now.Add(-2 * time.Hour), now.Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
			c.Set(CtxQuiz, &model.Quiz{StartTime: tt.start, EndTime: tt.end})

			RequireQuizWindow()(c)

			assert.Equal(t, tt.wantAbort, c.IsAborted())
			if tt.wantAbort {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
