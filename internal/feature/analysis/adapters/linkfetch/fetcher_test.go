package linkfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchText(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts the visible text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html><head><title>Title</title>
				<script>var x = "hidden";</script>
				<style>body { color: red }</style>
				</head><body><h1>Heading</h1><p>Paragraph text.</p></body></html>`))
		}))
		defer srv.Close()

		got, err := NewRestyFetcher().FetchText(ctx, srv.URL)
		require.NoError(t, err)
		assert.Contains(t, got, "Title")
		assert.Contains(t, got, "Heading")
		assert.Contains(t, got, "Paragraph text.")
		assert.NotContains(t, got, "hidden")
		assert.NotContains(t, got, "color: red")
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewRestyFetcher().FetchText(ctx, srv.URL)
		assert.ErrorContains(t, err, "unexpected status")
	})

	t.Run("unreachable host", func(t *testing.T) {
		_, err := NewRestyFetcher().FetchText(ctx, "http://127.0.0.1:1")
		assert.Error(t, err)
	})
}

func TestExtractText(t *testing.T) {
	t.Run("plain text passes through", func(t *testing.T) {
		assert.Equal(t, "just words", extractText("just words"))
	})

	t.Run("whitespace-only nodes are dropped", func(t *testing.T) {
		got := extractText("<div>  </div><p>kept</p>")
		assert.Equal(t, "kept", got)
	})

	t.Run("nested markup", func(t *testing.T) {
		got := extractText("<ul><li>one</li><li>two</li></ul>")
		assert.Equal(t, "one\ntwo", got)
	})
}
