package thttp

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello"))
	head, truncated := PeekBody(r, 10)
	assert.Equal(t, "hello", string(head))
	assert.False(t, truncated)

	rest, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(rest))
	require.NoError(t, r.Body.Close())
}

func TestPeekBodyExact(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello"))
	head, truncated := PeekBody(r, 5)
	assert.Equal(t, "hello", string(head))
	assert.False(t, truncated)
}

func TestPeekBodyTruncated(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello world"))
	head, truncated := PeekBody(r, 4)
	assert.Equal(t, "hell", string(head))
	assert.True(t, truncated)

	rest, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(rest))
}

func TestPeekBodyEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	head, truncated := PeekBody(r, 4)
	assert.Empty(t, head)
	assert.False(t, truncated)
	assert.Equal(t, http.NoBody, r.Body)
}

type failingReader struct{}

var errBroken = errors.New("broken connection")

func (failingReader) Read([]byte) (int, error) {
	return 0, errBroken
}

func TestPeekBodyError(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", io.MultiReader(strings.NewReader("he"), failingReader{}))
	head, truncated := PeekBody(r, 10)
	assert.Equal(t, "he", string(head))
	assert.False(t, truncated)

	// The handler gets what was read, then the error
	rest, err := io.ReadAll(r.Body)
	assert.ErrorIs(t, err, errBroken)
	assert.Equal(t, "he", string(rest))
}

func TestContentType(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, "", ContentType(h))
	h.Set("Content-Type", " Application/JSON; charset=utf-8")
	assert.Equal(t, "application/json", ContentType(h))
	assert.True(t, IsJSON(ContentType(h)))
	assert.True(t, IsJSON("application/problem+json"))
	assert.False(t, IsJSON("text/plain"))
	assert.True(t, IsBinary("application/octet-stream"))
}

func TestJSONResult(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResult(nil, w, map[string]int{"a": 1}, http.StatusCreated)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, w.Body.String())
}
