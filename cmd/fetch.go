package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/storypdf/core"
	"github.com/gaurav-prasanna/storypdf/core/assemble"
	"github.com/gaurav-prasanna/storypdf/core/config"
	"github.com/gaurav-prasanna/storypdf/core/extract"
	"github.com/gaurav-prasanna/storypdf/core/fetch"
	"github.com/gaurav-prasanna/storypdf/core/normalize"
	"github.com/gaurav-prasanna/storypdf/core/output"
	"github.com/gaurav-prasanna/storypdf/core/pipeline"
	"github.com/gaurav-prasanna/storypdf/core/render"
	"github.com/gaurav-prasanna/storypdf/core/source"
)

// Flag variables.
var (
	flagFormat    string
	flagOutputDir string
	flagWorkers   int
	flagOpen      bool
	flagQuiet     bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [story-id|story-url]",
	Short: "Download a story and convert it to a single document",
	Long: `Fetch downloads a story's frontpage and all of its chapters, assembles them
with a linked table of contents and writes <story-id>.pdf.

If no argument is given the story id is read from stdin.

Examples:
  storypdf fetch 46750
  storypdf fetch https://www.hentai-foundry.com/stories/user/pickleherring/46750/Sisterhood-Initiation
  storypdf fetch 46750 --format markdown --output_dir ./out --open=false`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&flagFormat, "format", "pdf", "Output format: pdf, markdown or json")
	fetchCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: STORYPDF_OUTPUT_DIR or current directory)")
	fetchCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent chapter fetches (default: STORYPDF_WORKERS)")
	fetchCmd.Flags().BoolVar(&flagOpen, "open", true, "Open the result in the default viewer")
	fetchCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Do not show a progress bar")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var arg string
	if len(args) == 1 {
		arg = args[0]
	} else {
		var err error
		arg, err = promptStoryID(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}
	storyID, err := resolveStoryID(arg)
	if err != nil {
		return err
	}

	renderer, err := selectRenderer(flagFormat)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if cmd.Flags().Changed("output_dir") {
		cfg.OutputDir = flagOutputDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	writer, err := output.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path := writer.Path(storyID, renderer.Extension())

	p := newPipeline(cfg, renderer)
	if !flagQuiet {
		bar := newProgress(cmd.ErrOrStderr())
		p.OnProgress(bar.update)
		defer bar.finish()
	}

	if _, err := p.GetStoryAsPDF(ctx, storyID, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)

	if flagOpen {
		if err := openFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("could not open viewer")
		}
	}
	return nil
}

// newPipeline wires every stage from configuration. The server uses it too.
func newPipeline(cfg *config.Config, renderer core.Renderer) *pipeline.Pipeline {
	fetcher := fetch.New(fetch.Options{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.RequestTimeout,
		RetryCount: cfg.RetryCount,
		RateLimit:  cfg.RateLimit,
		UserAgent:  cfg.UserAgent,
		Logger:     &log,
	})
	extractor := extract.New().WithSanitizeOptions(extract.SanitizeOptions{
		StripDivs:      cfg.SanitizeStripDivs,
		StripNofollow:  cfg.SanitizeStripNofollow,
		StripSpanStyle: cfg.SanitizeStripSpanStyle,
	})
	return pipeline.New(fetcher, extractor, assemble.New(assemble.DefaultStyles()), renderer, cfg.Workers)
}

// resolveStoryID accepts a bare id or a public story URL.
func resolveStoryID(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if source.IsStoryID(arg) {
		return arg, nil
	}
	if id, _, ok := source.ParseStoryURL(arg); ok {
		return id, nil
	}
	return "", fmt.Errorf("invalid story: %q is neither a story id nor a story URL", arg)
}

func promptStoryID(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Story ID: ")
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading story id: %w", err)
		}
		return "", fmt.Errorf("reading story id: no input")
	}
	return scanner.Text(), nil
}

// selectRenderer creates the Renderer for the --format flag.
func selectRenderer(format string) (core.Renderer, error) {
	switch strings.ToLower(format) {
	case "pdf":
		return render.NewPDFRenderer(render.DefaultPDFOptions()), nil
	case "markdown", "md":
		return render.NewMarkdownRenderer(normalize.New()), nil
	case "json":
		return render.NewJSONRenderer(normalize.New()), nil
	default:
		return nil, fmt.Errorf("unknown format %q: use pdf, markdown or json", format)
	}
}

// progress shows chapter progress. The bar is created on the first update,
// once the chapter count is known.
type progress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newProgress(out io.Writer) *progress {
	return &progress{out: out}
}

func (p *progress) update(done, total int) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription("chapters"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(done)
}

func (p *progress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// openFile hands path to the platform's default viewer without waiting for it.
func openFile(path string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", path)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		c = exec.Command("xdg-open", path)
	}
	if err := c.Start(); err != nil {
		return fmt.Errorf("starting viewer: %w", err)
	}
	return c.Process.Release()
}
