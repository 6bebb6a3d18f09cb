package nesppu

import (
	"context"
	"errors"
	"sync"
)

var errWorkers = errors.New("nesppu: need at least one writer")

func (l *Lab) produceFrames(ctx context.Context, s *Session, frames int) (<-chan *Frame, <-chan error, error) {
	out := make(chan *Frame)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i := 0; i < frames; i++ {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}
			f := l.Advance(s)
			select {
			case out <- f:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc, nil
}

func (l *Lab) frameWorker(ctx context.Context, in <-chan *Frame, w FrameWriter) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for f := range in {
			// Keep draining so the producer is never left blocked
			if ctx.Err() != nil {
				continue
			}
			if err := w.WriteFrame(f); err != nil {
				errc <- err
				return
			}
			l.logger.Printf("Wrote frame %d\n", f.Number)
		}
	}()
	return errc, nil
}

// waitForPipeline reads every error channel to completion and returns the
// first error seen, calling cancelFunc as soon as there is one.
func waitForPipeline(cancelFunc context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancelFunc()
		}
	}
	return first
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

// Record advances s by frames frames and hands each one to w using workers
// goroutines. Frames are produced in order by a single goroutine but may be
// written in any order, so w must be safe for concurrent use. The first
// error stops the recording. Record does not return until every goroutine
// has finished with s and w.
func (l *Lab) Record(ctx context.Context, s *Session, frames, workers int, w FrameWriter) error {
	if workers < 1 {
		return errWorkers
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	in, errc, err := l.produceFrames(ctx, s, frames)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := l.frameWorker(ctx, in, w)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
