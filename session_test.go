package nesppu

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bodgit/nesppu/archive"
	"github.com/bodgit/nesppu/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wideLab(t *testing.T) *Lab {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 60
	cfg.Velocity = image.Pt(3, 1)
	l, err := New(testData(64), cfg, nil)
	require.NoError(t, err)
	return l
}

func TestSessionDeterministic(t *testing.T) {
	l := wideLab(t)

	a, b := l.NewSession(11), l.NewSession(11)
	for i := 0; i < 10; i++ {
		fa, fb := l.Advance(a), l.Advance(b)
		assert.Equal(t, fa.Number, fb.Number)
		assert.Equal(t, fa.Scroll, fb.Scroll)
		assert.Equal(t, fa.Image.Pix, fb.Image.Pix)
	}

	c := l.NewSession(12)
	assert.NotEqual(t, a.Sprites(), c.Sprites())
}

func TestRenderDoesNotMutate(t *testing.T) {
	l := wideLab(t)
	s := l.NewSession(1)
	s.SetScroll(image.Pt(10, 20))

	f1 := l.Render(s)
	f2 := l.Render(s)
	assert.Equal(t, f1.Image.Pix, f2.Image.Pix)
	assert.Equal(t, 0, s.Number())
	assert.Equal(t, image.Pt(10, 20), s.Scroll())
	assert.Nil(t, s.Frame())
}

func TestAdvanceScroll(t *testing.T) {
	l := wideLab(t)
	s := l.NewSession(1)

	f := l.Advance(s)
	assert.Equal(t, 1, f.Number)
	assert.Equal(t, image.Pt(3, 1), f.Scroll)
	assert.Same(t, f, s.Frame())

	// The cursor wraps over the valid range 0-256 by 0-240
	s.SetScroll(image.Pt(255, 240))
	f = l.Advance(s)
	assert.Equal(t, image.Pt(1, 0), f.Scroll)

	s.SetVelocity(image.Pt(-5, 0))
	s.SetScroll(image.Pt(2, 0))
	f = l.Advance(s)
	assert.Equal(t, image.Pt(254, 0), f.Scroll)
}

func TestScrollClamped(t *testing.T) {
	b := new(bytes.Buffer)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 60
	l, err := New(testData(64), cfg, log.New(b, "", 0))
	require.NoError(t, err)

	s := l.NewSession(1)
	s.SetScroll(image.Pt(900, -4))
	f := l.Render(s)
	assert.Equal(t, image.Pt(256, 0), f.Scroll)
	assert.Contains(t, b.String(), "clamped")

	// Only logged once per session
	n := b.Len()
	l.Render(s)
	assert.Equal(t, n, b.Len())
}

func TestFramePublish(t *testing.T) {
	l := wideLab(t)
	s := l.NewSession(5)

	var done atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		last := 0
		for !done.Load() {
			if f := s.Frame(); f != nil {
				assert.GreaterOrEqual(t, f.Number, last)
				assert.NotNil(t, f.Image)
				last = f.Number
			}
		}
	}()

	for i := 0; i < 20; i++ {
		l.Advance(s)
	}
	done.Store(true)
	wg.Wait()

	assert.Equal(t, 20, s.Frame().Number)
}

type memWriter struct {
	mu     sync.Mutex
	frames map[int]*Frame
	fail   int
}

func (w *memWriter) WriteFrame(f *Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail != 0 && f.Number == w.fail {
		return errors.New("write failed")
	}
	if w.frames == nil {
		w.frames = make(map[int]*Frame)
	}
	w.frames[f.Number] = f
	return nil
}

func TestRecord(t *testing.T) {
	l := wideLab(t)

	s := l.NewSession(2)
	w := new(memWriter)
	require.NoError(t, l.Record(context.Background(), s, 30, 4, w))
	assert.Len(t, w.frames, 30)
	assert.Equal(t, 30, s.Number())

	// Same frames as advancing by hand
	r := l.NewSession(2)
	for i := 1; i <= 30; i++ {
		f := l.Advance(r)
		assert.Equal(t, f.Image.Pix, w.frames[i].Image.Pix)
	}
}

func TestRecordError(t *testing.T) {
	l := wideLab(t)

	s := l.NewSession(2)
	err := l.Record(context.Background(), s, 50, 3, &memWriter{fail: 10})
	assert.EqualError(t, err, "write failed")

	assert.ErrorIs(t, l.Record(context.Background(), s, 1, 0, new(memWriter)), errWorkers)
}

type blockingWriter struct {
	ctx     context.Context
	started chan struct{}
	once    sync.Once
}

func (w *blockingWriter) WriteFrame(*Frame) error {
	w.once.Do(func() { close(w.started) })
	<-w.ctx.Done()
	return nil
}

func TestRecordCancel(t *testing.T) {
	l := wideLab(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &blockingWriter{ctx: ctx, started: make(chan struct{})}
	errc := make(chan error, 1)
	go func() {
		errc <- l.Record(ctx, l.NewSession(1), 100, 1, w)
	}()

	<-w.started
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)
}

type slowWriter struct {
	active   atomic.Int32
	returned atomic.Bool
	late     atomic.Int32
}

func (w *slowWriter) WriteFrame(f *Frame) error {
	w.active.Add(1)
	defer w.active.Add(-1)
	if f.Number == 1 {
		return errors.New("write failed")
	}
	time.Sleep(20 * time.Millisecond)
	if w.returned.Load() {
		w.late.Add(1)
	}
	return nil
}

func TestRecordErrorWaitsForWriters(t *testing.T) {
	l := wideLab(t)

	w := new(slowWriter)
	err := l.Record(context.Background(), l.NewSession(1), 50, 4, w)
	w.returned.Store(true)
	assert.EqualError(t, err, "write failed")
	assert.Equal(t, int32(0), w.active.Load())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), w.active.Load())
	assert.Equal(t, int32(0), w.late.Load())
}

func TestPNGWriter(t *testing.T) {
	l := wideLab(t)
	dir := filepath.Join(t.TempDir(), "frames")

	w, err := NewPNGWriter(dir)
	require.NoError(t, err)
	w.Scale = 2
	crt := screen.DefaultCRT()
	w.CRT = &crt

	require.NoError(t, l.Record(context.Background(), l.NewSession(1), 3, 2, w))

	for i := 1; i <= 3; i++ {
		f, err := os.Open(w.Filename(i))
		require.NoError(t, err)
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, 512, cfg.Width)
		assert.Equal(t, 480, cfg.Height)
	}
	assert.Equal(t, filepath.Join(dir, "frame-00003.png"), w.Filename(3))
}

func TestArchiveWriter(t *testing.T) {
	l := wideLab(t)

	db, err := archive.Open(filepath.Join(t.TempDir(), "frames.db"))
	require.NoError(t, err)
	defer db.Close()

	w, err := l.NewArchiveWriter(db, "demo", 4)
	require.NoError(t, err)

	require.NoError(t, l.Record(context.Background(), l.NewSession(4), 5, 2, w))

	session, err := db.FindSession("demo")
	require.NoError(t, err)
	assert.Equal(t, 5, session.Frames)
	assert.Equal(t, "weave", session.Layout)

	m, err := db.FindFrame(w.Session(), 5)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, image.Rect(0, 0, 256, 240), m.Bounds())
}
