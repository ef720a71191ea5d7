package thttp

import (
	"io"
	"net/http"
	"testing"

	"github.com/ridge/must/v2"
	"github.com/ridge/parallel"
	"github.com/ridge/reqlog/test"
	"github.com/ridge/reqlog/tnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer(t *testing.T) {
	group := test.Group(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("hello"))
		assert.NoError(t, err)
	})

	s := NewServer(tnet.ListenOnRandomPort(), StandardMiddleware(handler))
	group.Spawn("server", parallel.Fail, s.Run)

	res, err := http.DefaultClient.Do(must.OK1(http.NewRequestWithContext(group.Context(), http.MethodGet, "http://"+s.ListenAddr().String(), nil)))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), body)
}

func TestWrapOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))

	Test(handler, must.OK1(http.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
