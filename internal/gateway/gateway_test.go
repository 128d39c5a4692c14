package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/notes/internal/model"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

type errRT struct{}

func (errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, errors.New("boom") }

var fixedNow = time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, h http.HandlerFunc, tok string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/", staticToken(tok), WithHTTPClient(srv.Client()), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return c
}

func TestBearerHeader(t *testing.T) {
	t.Parallel()
	var auth, reqID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		reqID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`[]`))
	}, "tok")

	_, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", auth)
	assert.NotEmpty(t, reqID)
}

func TestNoBearerWithoutToken(t *testing.T) {
	t.Parallel()
	var auth []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}, "")

	_, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestListCategories_NumericIDs(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/categories/", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"Work","color":"#111"},{"id":"abc","name":"Home","color":"#222"}]`))
	}, "t")

	got, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Category{
		{ID: "1", Name: "Work", Color: "#111"},
		{ID: "abc", Name: "Home", Color: "#222"},
	}, got)
}

func TestCreateCategory(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"name": "School", "color": "#FCDC94"}, body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7,"name":"School","color":"#FCDC94","created_at":"2024-01-01T00:00:00Z"}`))
	}, "t")

	got, err := c.CreateCategory(context.Background(), "School", "#FCDC94")
	require.NoError(t, err)
	assert.Equal(t, &model.Category{ID: "7", Name: "School", Color: "#FCDC94"}, got)

	_, err = c.CreateCategory(context.Background(), " ", "#000")
	assert.Error(t, err)
}

func TestListNotes_Filter(t *testing.T) {
	t.Parallel()
	var queries []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[{"id":3,"title":"t","content":"c","category":1,"created_at":"2024-05-01T10:00:00.123456Z"}]`))
	}, "t")

	notes, err := c.ListNotes(context.Background(), model.AllCategories())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "3", notes[0].ID)
	assert.Equal(t, "1", notes[0].CategoryID)
	assert.True(t, notes[0].UpdatedAt.Equal(notes[0].CreatedAt))

	_, err = c.ListNotes(context.Background(), model.OnlyCategory("1"))
	require.NoError(t, err)

	assert.Equal(t, []string{"", "category=1"}, queries)
}

func TestNoteTimestampsFallback(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"a","content":"","category":1},
			{"id":2,"title":"b","content":"","category":1,"created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-02T10:00:00Z"}
		]`))
	}, "t")

	notes, err := c.ListNotes(context.Background(), model.AllCategories())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.True(t, notes[0].UpdatedAt.Equal(fixedNow))
	assert.True(t, notes[1].UpdatedAt.Equal(time.Date(2024, time.May, 2, 10, 0, 0, 0, time.UTC)))
}

func TestCreateAndUpdateNote(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body noteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/api/notes/", r.URL.Path)
			w.WriteHeader(http.StatusCreated)
		case http.MethodPut:
			assert.Equal(t, "/api/notes/9/", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 9, "title": body.Title, "content": body.Content, "category": body.Category,
			"created_at": "2024-05-01T10:00:00Z",
		})
	}, "t")

	n, err := c.CreateNote(context.Background(), "T", "C", "2")
	require.NoError(t, err)
	assert.Equal(t, "9", n.ID)
	assert.Equal(t, "2", n.CategoryID)

	n, err = c.UpdateNote(context.Background(), "9", "T2", "C2", "3")
	require.NoError(t, err)
	assert.Equal(t, "T2", n.Title)
	assert.Equal(t, "3", n.CategoryID)

	_, err = c.CreateNote(context.Background(), "T", "C", "")
	assert.ErrorIs(t, err, ErrNoCategoryID)
}

func TestDeleteNote(t *testing.T) {
	t.Parallel()
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}, "t")

	require.NoError(t, c.DeleteNote(context.Background(), "5"))
	assert.Equal(t, "/api/notes/5/", path)
	assert.Error(t, c.DeleteNote(context.Background(), ""))
}

func TestRequestFailedMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail", http.StatusUnauthorized, `{"detail":"Given token not valid"}`, "Given token not valid"},
		{"error", http.StatusBadRequest, `{"error":"User exists"}`, "User exists"},
		{"field errors", http.StatusBadRequest, `{"title":["This field is required."]}`, "title: This field is required."},
		{"html body", http.StatusInternalServerError, `<html>oops</html>`, GenericFailure},
		{"empty body", http.StatusNotFound, ``, GenericFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, "t")
			_, err := c.ListCategories(context.Background())
			var rf *RequestFailedError
			require.ErrorAs(t, err, &rf)
			assert.Equal(t, tt.status, rf.StatusCode)
			assert.Equal(t, tt.want, rf.Message)
			assert.Equal(t, tt.status == http.StatusUnauthorized, IsUnauthorized(err))
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body credentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "right" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"access":"a","refresh":"r"}`))
	}, "")

	toks, err := c.Login(context.Background(), " me@example.com ", "right")
	require.NoError(t, err)
	assert.Equal(t, &Tokens{Access: "a", Refresh: "r"}, toks)

	_, err = c.Login(context.Background(), "me@example.com", "wrong")
	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, "Login failed", rf.Message)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register/", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"User with this email already exists"}`))
	}, "")

	err := c.Register(context.Background(), "me@example.com", "pw")
	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, "User with this email already exists", rf.Message)
}

func TestDecodeError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{bad json`))
	}, "t")
	_, err := c.ListNotes(context.Background(), model.AllCategories())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestTransportError(t *testing.T) {
	t.Parallel()
	c, err := New("http://example.com/api", staticToken("t"), WithHTTPClient(&http.Client{Transport: errRT{}}))
	require.NoError(t, err)
	_, err = c.ListCategories(context.Background())
	require.Error(t, err)
	var rf *RequestFailedError
	assert.False(t, errors.As(err, &rf))
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}, "t")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListCategories(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewValidation(t *testing.T) {
	t.Parallel()
	c, err := New("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	_, err = New("::not a url", nil)
	assert.Error(t, err)

	_, err = New("http://x", nil, WithHTTPTimeout(0))
	assert.Error(t, err)
}
