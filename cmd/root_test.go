package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeWith(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func newPage(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><article><h1>Title</h1>` +
			`<p>Read <a href="https://example.com/more">more</a> about <strong>this</strong>.</p>` +
			`</article></body></html>`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRoot_MarkdownWithFooter(t *testing.T) {
	ts := newPage(t)

	stdout, stderr, err := executeWith(t, "", ts.URL, "-m", "-i")
	require.NoError(t, err)

	assert.Contains(t, stdout, "[more](https://example.com/more)")
	assert.Contains(t, stdout, "**this**")
	assert.Contains(t, stdout, "Source: "+ts.URL)
	assert.Contains(t, stderr, "Fetching and converting "+ts.URL+" to markdown...")
}

func TestRoot_TextFlags(t *testing.T) {
	ts := newPage(t)

	stdout, _, err := executeWith(t, "", ts.URL, "--no-links", "--no-emphasis", "--no-images", "--no-tables")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Read more about this.")
	assert.NotContains(t, stdout, "https://example.com/more")
	assert.NotContains(t, stdout, "**")
	assert.NotContains(t, stdout, "Source:")
}

func TestRoot_ReadsStdin(t *testing.T) {
	ts := newPage(t)

	stdout, _, err := executeWith(t, ts.URL+"\n\n"+ts.URL+"\n")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, "\n---\n"))
}

func TestRoot_EmptyStdin(t *testing.T) {
	stdout, stderr, err := executeWith(t, "")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestRoot_TooManyArgs(t *testing.T) {
	_, _, err := executeWith(t, "", "https://a.example", "https://b.example")
	require.Error(t, err)
}

func TestIsTerminal_NonFileReader(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("x")))
}
