package gif2anim

import (
	"context"
	"errors"
	"sync"

	"github.com/bodgit/gif2anim/canvas"
	"github.com/bodgit/gif2anim/frame"
	"github.com/bodgit/gif2anim/profile"
	"github.com/bodgit/gif2anim/rgb565"
)

type job struct {
	index int
	frame *frame.Composed
}

// Frames are composited strictly in order on a single goroutine
func (c *Converter) reconstructFrames(ctx context.Context, r *frame.Reconstructor) (<-chan job, <-chan error, error) {
	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- r.All(func(i int, f *frame.Composed) error {
			c.logger.Trace("composited frame", "index", i, "duration", f.Duration)
			select {
			case out <- job{index: i, frame: f}:
			case <-ctx.Done():
				return errors.New("reconstruction cancelled")
			}
			return nil
		})
	}()
	return out, errc, nil
}

// Once composited, frames are independent so each worker writes its own
// slots in dst
func (c *Converter) frameWorker(ctx context.Context, in <-chan job, p profile.Profile, dst []*rgb565.Image) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for j := range in {
			if j.index >= len(dst) {
				errc <- frame.ErrMismatch
				return
			}

			m, err := canvas.PadResize(j.frame.Image, p.Width, p.Height)
			if err != nil {
				errc <- err
				return
			}

			dst[j.index] = rgb565.Convert(m)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (c *Converter) scan(open frame.Opener) (frame.Meta, error) {
	d, err := open()
	if err != nil {
		return frame.Meta{}, &DecodeError{err}
	}

	meta, err := frame.Scan(d)
	if err != nil {
		return frame.Meta{}, &DecodeError{err}
	}

	if t, ok := d.(interface{ Truncated() bool }); ok && t.Truncated() {
		c.logger.Warn("source ended early, keeping complete frames only", "frames", meta.FrameCount())
	}

	c.logger.Info("scanned source", "size", meta.Size, "mode", meta.Disposition, "frames", meta.FrameCount(), "durations", meta.Durations)

	return meta, nil
}

// render makes both passes over the source and returns every frame
// letterboxed and quantized for p, in order.
func (c *Converter) render(open frame.Opener, p profile.Profile) (frame.Meta, []*rgb565.Image, error) {
	meta, err := c.scan(open)
	if err != nil {
		return frame.Meta{}, nil, err
	}

	d, err := open()
	if err != nil {
		return frame.Meta{}, nil, &DecodeError{err}
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	frames, errc, err := c.reconstructFrames(ctx, frame.NewReconstructor(d, meta))
	if err != nil {
		return frame.Meta{}, nil, err
	}
	errcList = append(errcList, errc)

	images := make([]*rgb565.Image, meta.FrameCount())

	for i := 0; i < c.workers; i++ {
		errc, err := c.frameWorker(ctx, frames, p, images)
		if err != nil {
			return frame.Meta{}, nil, err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		if errors.Is(err, frame.ErrDuration) || errors.Is(err, frame.ErrMismatch) {
			return frame.Meta{}, nil, &DecodeError{err}
		}
		return frame.Meta{}, nil, err
	}

	for i, m := range images {
		if m == nil {
			// The second pass ended early
			return frame.Meta{}, nil, &DecodeError{frame.ErrMismatch}
		}
		c.logger.Debug("rendered frame", "index", i, "duration", meta.Durations[i])
	}

	return meta, images, nil
}
