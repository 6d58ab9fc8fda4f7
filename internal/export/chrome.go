package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/resumeforge/resumeforge/internal/preview"
)

// ErrNoPreview is returned when the rendered page has no preview root node.
var ErrNoPreview = errors.New("could not find resume preview")

// Options is the print contract: A4 portrait, no margins, 2x device scale and
// a JPEG thumbnail at quality 98.
type Options struct {
	PaperWidth  float64 // inches
	PaperHeight float64 // inches
	Margin      float64
	Scale       float64
	Quality     int
	Timeout     time.Duration
	ChromePath  string
}

func DefaultOptions() Options {
	return Options{
		PaperWidth:  8.27,
		PaperHeight: 11.69,
		Margin:      0,
		Scale:       2,
		Quality:     98,
		Timeout:     60 * time.Second,
	}
}

// viewport is the A4 page at 96 dpi.
func (o Options) viewport() (int64, int64) {
	return int64(o.PaperWidth * 96), int64(o.PaperHeight * 96)
}

type Result struct {
	PDF       []byte
	Thumbnail []byte
}

// Renderer turns a printable HTML page into a PDF.
type Renderer interface {
	Render(ctx context.Context, html []byte) (*Result, error)
}

// ChromeRenderer drives a headless Chrome per call.
type ChromeRenderer struct {
	opts Options
}

func NewChromeRenderer(opts Options) *ChromeRenderer {
	return &ChromeRenderer{opts: opts}
}

func (r *ChromeRenderer) Render(ctx context.Context, html []byte) (*Result, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.opts.ChromePath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()
	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()
	if r.opts.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		cctx, cancelTimeout = context.WithTimeout(cctx, r.opts.Timeout)
		defer cancelTimeout()
	}

	w, h := r.opts.viewport()
	var found bool
	err := chromedp.Run(cctx,
		chromedp.EmulateViewport(w, h, chromedp.EmulateScale(r.opts.Scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf("document.querySelector('.%s') !== null", preview.RootClass), &found),
	)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	if !found {
		return nil, ErrNoPreview
	}

	res := &Result{}
	err = chromedp.Run(cctx,
		chromedp.FullScreenshot(&res.Thumbnail, r.opts.Quality),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			res.PDF, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(r.opts.PaperWidth).
				WithPaperHeight(r.opts.PaperHeight).
				WithMarginTop(r.opts.Margin).
				WithMarginBottom(r.opts.Margin).
				WithMarginLeft(r.opts.Margin).
				WithMarginRight(r.opts.Margin).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return res, nil
}
