package extract

import (
	"context"
	"fmt"
	"image"

	"github.com/flowshot/flowshot/flowgraph"
	"github.com/flowshot/flowshot/tracking"
	"github.com/flowshot/flowshot/utils"
)

// Options controls the frame-to-keyframe pipeline. Zero MaxWidth/MaxHeight
// means no downscaling; Format defaults to png.
type Options struct {
	MaxWidth   int
	MaxHeight  int
	Format     string
	Quality    int
	Background *Background
}

// Request is one extraction target within a batch.
type Request struct {
	TimestampMs   int64
	MousePosition *flowgraph.Point
	Label         string
	Source        flowgraph.Source
}

// Result reports one batch item. Failed items carry Err and no keyframe.
type Result struct {
	TimestampMs int64
	Success     bool
	Keyframe    *flowgraph.Keyframe
	Err         error
}

// BatchResult aggregates a batch run. Results keeps input order, so failed
// seeks do not shift the position of later items.
type BatchResult struct {
	Total      int
	Successful int
	Failed     int
	Results    []Result
}

// ProgressFunc receives (completed, total) after each batch item.
type ProgressFunc func(current, total int)

// Extractor pulls frames out of a source and packages them as keyframes.
type Extractor struct {
	source     FrameSource
	opts       Options
	compositor *compositor
}

func New(source FrameSource, opts Options) *Extractor {
	if opts.Format == "" {
		opts.Format = "png"
	}
	return &Extractor{source: source, opts: opts, compositor: newCompositor()}
}

// ExtractAt seeks to a timestamp and produces a single keyframe.
func (e *Extractor) ExtractAt(ctx context.Context, req Request) (*flowgraph.Keyframe, error) {
	frame, err := e.source.FrameAt(ctx, req.TimestampMs)
	if err != nil {
		return nil, err
	}

	frame = e.compositor.apply(frame, e.opts.Background)
	frame = e.downscale(frame)

	data, err := utils.EncodeImage(frame, e.opts.Format, e.opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("error encoding keyframe at %dms: %w", req.TimestampMs, err)
	}

	source := req.Source
	if source == "" {
		source = flowgraph.SourceManual
	}
	k := flowgraph.NewKeyframe(req.TimestampMs, source)
	k.Label = req.Label
	k.ImageData = data
	k.ImageWidth = frame.Bounds().Dx()
	k.ImageHeight = frame.Bounds().Dy()
	if req.MousePosition != nil {
		pos := *req.MousePosition
		k.MousePosition = &pos
	}
	return &k, nil
}

// ExtractBatch runs every request in order. One failed seek marks that item
// failed and the batch keeps going.
func (e *Extractor) ExtractBatch(ctx context.Context, reqs []Request, progress ProgressFunc) BatchResult {
	batch := BatchResult{Total: len(reqs), Results: make([]Result, 0, len(reqs))}

	for i, req := range reqs {
		result := Result{TimestampMs: req.TimestampMs}
		k, err := e.ExtractAt(ctx, req)
		if err != nil {
			result.Err = err
			batch.Failed++
			utils.Verbose("Extraction at %dms failed: %v", req.TimestampMs, err)
		} else {
			result.Success = true
			result.Keyframe = k
			batch.Successful++
		}
		batch.Results = append(batch.Results, result)
		if progress != nil {
			progress(i+1, batch.Total)
		}
	}
	return batch
}

// RequestsFromClicks turns recorded click events into batch requests, in
// event order, with ordinal step labels. Move events are skipped.
func RequestsFromClicks(events []tracking.MouseEvent) []Request {
	reqs := make([]Request, 0, len(events))
	step := 0
	for _, ev := range events {
		if ev.Type != tracking.EventClick {
			continue
		}
		step++
		reqs = append(reqs, Request{
			TimestampMs:   ev.TimestampMs,
			MousePosition: &flowgraph.Point{X: ev.X, Y: ev.Y},
			Label:         fmt.Sprintf("Step %d", step),
			Source:        flowgraph.SourceClick,
		})
	}
	return reqs
}

// ExtractFromClicks is the common path: one keyframe per recorded click.
func (e *Extractor) ExtractFromClicks(ctx context.Context, events []tracking.MouseEvent, progress ProgressFunc) BatchResult {
	return e.ExtractBatch(ctx, RequestsFromClicks(events), progress)
}

func (e *Extractor) downscale(frame image.Image) image.Image {
	if e.opts.MaxWidth <= 0 && e.opts.MaxHeight <= 0 {
		return frame
	}
	b := frame.Bounds()
	maxW, maxH := e.opts.MaxWidth, e.opts.MaxHeight
	if maxW <= 0 {
		maxW = b.Dx()
	}
	if maxH <= 0 {
		maxH = b.Dy()
	}
	w, h := utils.FitWithin(b.Dx(), b.Dy(), maxW, maxH)
	return utils.Resize(frame, w, h)
}
