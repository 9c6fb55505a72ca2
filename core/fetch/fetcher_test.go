package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/storypdf/core"
)

func TestFetch_SendsAgreementParam(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("enterAgree")
		w.Write([]byte(`<html><body><h1 class="titleSemantic">Hello</h1></body></html>`))
	}))
	defer ts.Close()

	f := New(Options{BaseURL: ts.URL})
	doc, err := f.Fetch(context.Background(), ts.URL+"/page")
	require.NoError(t, err)

	assert.Equal(t, "1", gotQuery)
	assert.Equal(t, "Hello", doc.Find("h1.titleSemantic").Text())
}

func TestFetch_NonOKIsParsed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<html><body><p class="error">Story not found</p></body></html>`))
	}))
	defer ts.Close()

	f := New(Options{BaseURL: ts.URL})
	doc, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "Story not found", doc.Find("p.error").Text())
}

func TestFetch_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	f := New(Options{BaseURL: url})
	_, err := f.Fetch(context.Background(), url)
	require.Error(t, err)

	var te *core.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, url, te.URL)
}

func TestFetchStoryAndChapter_Paths(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`<html></html>`))
	}))
	defer ts.Close()

	f := New(Options{BaseURL: ts.URL + "/stories/user/_/"})
	ctx := context.Background()

	_, err := f.FetchStory(ctx, "46750")
	require.NoError(t, err)
	_, err = f.FetchChapter(ctx, "46750", core.Chapter{Number: 2, ID: "200"})
	require.NoError(t, err)
	_, err = f.FetchChapter(ctx, "46750", core.Chapter{Number: 3, ID: "300", NumberText: "03"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/stories/user/_/46750/_",
		"/stories/user/_/46750/_/200/Chapter-2/_",
		"/stories/user/_/46750/_/300/Chapter-03/_",
	}, paths)
}

func TestFetch_CanceledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html></html>`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(Options{BaseURL: ts.URL, RateLimit: 1})
	_, err := f.Fetch(ctx, ts.URL)

	var te *core.TransportError
	assert.True(t, errors.As(err, &te))
}
