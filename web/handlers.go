package web

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/storypdf/core"
	"github.com/gaurav-prasanna/storypdf/core/cache"
	"github.com/gaurav-prasanna/storypdf/core/output"
	"github.com/gaurav-prasanna/storypdf/core/source"
)

const exampleURL = "https://www.hentai-foundry.com/stories/user/pickleherring/46750/Sisterhood-Initiation"

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type indexData struct {
	Example     string
	URL         string
	DownloadURL string // empty until URL names a story
	FileName    string
}

type handler struct {
	exporter Exporter
	cache    cache.Cache
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	data := indexData{Example: exampleURL, URL: r.URL.Query().Get("url")}

	if id, title, ok := source.ParseStoryURL(data.URL); ok {
		data.FileName = output.FileName(title) + ".pdf"
		data.DownloadURL = fmt.Sprintf("/stories/%s/pdf?title=%s", id, url.QueryEscape(title))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("rendering index page")
	}
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (h *handler) download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := zerolog.Ctx(r.Context()).With().Str("story_id", id).Logger()

	data, err := h.cache.GetOrCompute(r.Context(), id, func(ctx context.Context) ([]byte, error) {
		return h.exporter.GetStoryAsPDF(ctx, id, "")
	})
	if err != nil {
		log.Error().Err(err).Str("kind", errorKind(err)).Msg("building story failed")
		http.Error(w, "Could not build a PDF for this story. Check the URL and try again later.", http.StatusBadGateway)
		return
	}

	name := r.URL.Query().Get("title")
	if name == "" {
		name = id
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, output.FileName(name)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// errorKind classifies pipeline failures for the logs. Users only ever see
// the generic message.
func errorKind(err error) string {
	var (
		te *core.TransportError
		ee *core.ExtractionError
		re *core.RenderError
	)
	switch {
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &ee):
		return "extraction"
	case errors.As(err, &re):
		return "render"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
