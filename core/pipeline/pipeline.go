// Package pipeline runs a story through every stage:
// fetch frontpage → extract metadata and chapter list → fetch and extract
// each chapter → assemble → render → optionally persist.
//
// Nothing is retried and nothing partial is returned: the first error from
// any stage aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/storypdf/core"
	"github.com/gaurav-prasanna/storypdf/core/assemble"
	"github.com/gaurav-prasanna/storypdf/core/extract"
	"github.com/gaurav-prasanna/storypdf/core/output"
)

// ProgressFunc is called after each chapter is fetched and extracted.
// Calls are serialized; done counts up to total.
type ProgressFunc func(done, total int)

// Pipeline wires the stages together.
type Pipeline struct {
	fetcher   core.Fetcher
	extractor *extract.HTMLExtractor
	assembler *assemble.Assembler
	renderer  core.Renderer
	workers   int
	progress  ProgressFunc
}

// New creates a Pipeline. workers bounds concurrent chapter fetches and is
// raised to 1 if smaller.
func New(fetcher core.Fetcher, extractor *extract.HTMLExtractor, assembler *assemble.Assembler, renderer core.Renderer, workers int) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		extractor: extractor,
		assembler: assembler,
		renderer:  renderer,
		workers:   max(workers, 1),
	}
}

// OnProgress registers a progress callback.
func (p *Pipeline) OnProgress(fn ProgressFunc) {
	p.progress = fn
}

// GetStory fetches and extracts a complete story.
func (p *Pipeline) GetStory(ctx context.Context, storyID string) (*core.Story, error) {
	log := zerolog.Ctx(ctx).With().Str("story_id", storyID).Logger()

	page, err := p.fetcher.FetchStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	story, err := p.extractor.Story(storyID, page)
	if err != nil {
		return nil, fmt.Errorf("story %s frontpage: %w", storyID, err)
	}
	log.Debug().Str("title", story.Title).Int("chapters", len(story.Chapters)).Msg("read story frontpage")

	if err := p.fetchChapters(ctx, story); err != nil {
		return nil, err
	}
	log.Debug().Msg("read all chapters")
	return story, nil
}

// fetchChapters fills every chapter of story in place. Each worker writes
// only its own slot, so order is preserved. The first failure cancels the
// remaining fetches and is the error returned.
func (p *Pipeline) fetchChapters(ctx context.Context, story *core.Story) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	total := len(story.Chapters)
	var (
		mu   sync.Mutex
		done int
	)

	for i := range story.Chapters {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ref := story.Chapters[i]
			page, err := p.fetcher.FetchChapter(gctx, story.ID, ref)
			if err != nil {
				return err
			}
			ch, err := p.extractor.Chapter(ref, page)
			if err != nil {
				return fmt.Errorf("chapter %d: %w", ref.Number, err)
			}
			story.Chapters[i] = ch

			if p.progress != nil {
				mu.Lock()
				done++
				p.progress(done, total)
				mu.Unlock()
			}
			return nil
		})
	}
	return g.Wait()
}

// Build assembles and renders a story.
func (p *Pipeline) Build(story *core.Story) ([]byte, error) {
	return p.renderer.Render(p.assembler.Assemble(story))
}

// GetStoryAsPDF runs the whole pipeline for storyID and returns the rendered
// bytes. If filename is not empty the bytes are also written there.
// Despite the name, the output format is the configured renderer's.
func (p *Pipeline) GetStoryAsPDF(ctx context.Context, storyID, filename string) ([]byte, error) {
	story, err := p.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}

	data, err := p.Build(story)
	if err != nil {
		return nil, err
	}

	if filename != "" {
		if err := output.Persist(filename, data); err != nil {
			return nil, err
		}
		zerolog.Ctx(ctx).Info().Str("story_id", storyID).Str("file", filename).Int("bytes", len(data)).Msg("wrote story")
	}
	return data, nil
}
