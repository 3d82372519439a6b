package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/formatter"
	"github.com/mrlokans/h2o/internal/obsidian"
	"github.com/mrlokans/h2o/internal/sender"
)

type fakeSender struct {
	calls   []string
	bookIDs []int64
	onlyNew bool
	result  *sender.Result
	err     error
}

func (f *fakeSender) record(name string, action entities.SendAction) (*sender.Result, error) {
	f.calls = append(f.calls, name)
	if f.result != nil {
		return f.result, f.err
	}
	return &sender.Result{Action: action, Highlights: 2, Notes: 1, Delivered: 1}, f.err
}

func (f *fakeSender) SendNew(string) (*sender.Result, error) {
	return f.record("new", entities.SendActionNew)
}

func (f *fakeSender) SendAll(string) (*sender.Result, error) {
	return f.record("all", entities.SendActionAll)
}

func (f *fakeSender) Resend(string) (*sender.Result, error) {
	return f.record("resend", entities.SendActionResend)
}

func (f *fakeSender) SendBooks(_ string, bookIDs []int64, onlyNew bool) (*sender.Result, error) {
	f.bookIDs = bookIDs
	f.onlyNew = onlyNew
	return f.record("books", entities.SendActionBooks)
}

func (f *fakeSender) Preview(_ string, onlyNew bool) (*sender.Result, error) {
	f.onlyNew = onlyNew
	return f.record("preview", entities.SendActionPreview)
}

func setupSendRouter(s *fakeSender) *gin.Engine {
	controller := NewSendController(s)
	router := gin.New()
	router.POST("/api/preview", controller.Preview)
	router.POST("/api/send/new", controller.SendNew)
	router.POST("/api/send/all", controller.SendAll)
	router.POST("/api/send/resend", controller.Resend)
	router.POST("/api/send/books", controller.SendBooks)
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestSendController_Actions(t *testing.T) {
	tests := []struct {
		path     string
		call     string
		expected entities.SendAction
	}{
		{"/api/send/new", "new", entities.SendActionNew},
		{"/api/send/all", "all", entities.SendActionAll},
		{"/api/send/resend", "resend", entities.SendActionResend},
	}

	for _, tt := range tests {
		t.Run(tt.call, func(t *testing.T) {
			s := &fakeSender{}
			w := post(setupSendRouter(s), tt.path, "")

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, []string{tt.call}, s.calls)

			var result sender.Result
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, tt.expected, result.Action)
			assert.Equal(t, 1, result.Delivered)
		})
	}
}

func TestSendController_SendBooks(t *testing.T) {
	t.Run("passes book ids", func(t *testing.T) {
		s := &fakeSender{}
		w := post(setupSendRouter(s), "/api/send/books", `{"book_ids": [3, 7], "only_new": true}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []int64{3, 7}, s.bookIDs)
		assert.True(t, s.onlyNew)
	})

	t.Run("requires book ids", func(t *testing.T) {
		s := &fakeSender{}
		w := post(setupSendRouter(s), "/api/send/books", `{"only_new": true}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, s.calls)
	})
}

func TestSendController_Preview(t *testing.T) {
	t.Run("empty body previews everything", func(t *testing.T) {
		s := &fakeSender{result: &sender.Result{
			Action:  entities.SendActionPreview,
			Notes:   1,
			Preview: []formatter.Note{{Title: "Books/Dune", Content: "> spice"}},
		}}
		w := post(setupSendRouter(s), "/api/preview", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, s.onlyNew)
		assert.Contains(t, w.Body.String(), "Books/Dune")
	})

	t.Run("only new", func(t *testing.T) {
		s := &fakeSender{}
		w := post(setupSendRouter(s), "/api/preview", `{"only_new": true}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, s.onlyNew)
	})

	t.Run("malformed body", func(t *testing.T) {
		s := &fakeSender{}
		w := post(setupSendRouter(s), "/api/preview", `{`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, s.calls)
	})
}

func TestSendController_Errors(t *testing.T) {
	t.Run("nothing to resend", func(t *testing.T) {
		s := &fakeSender{err: sender.ErrNothingToResend}
		w := post(setupSendRouter(s), "/api/send/resend", "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("delivery failure reports partial result", func(t *testing.T) {
		s := &fakeSender{
			result: &sender.Result{Action: entities.SendActionAll, Highlights: 5, Notes: 3, Delivered: 2},
			err:    &obsidian.URITooLongError{Title: "Books/Dune", Length: 40000, Max: 32699},
		}
		w := post(setupSendRouter(s), "/api/send/all", "")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "uri_too_long", response.Code)
		details, ok := response.Details.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(2), details["delivered"])
	})
}
