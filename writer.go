package nesppu

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/bodgit/nesppu/archive"
	"github.com/bodgit/nesppu/screen"
)

// FrameWriter stores frames. Implementations must be safe for concurrent
// use.
type FrameWriter interface {
	WriteFrame(*Frame) error
}

// PNGWriter writes each frame to its own PNG file in Dir
type PNGWriter struct {
	Dir string
	// Scale enlarges frames by an integer factor before any effect
	Scale int
	// CRT is applied if non-nil
	CRT *screen.CRT
}

// NewPNGWriter returns a PNGWriter for dir, creating it if needed
func NewPNGWriter(dir string) (*PNGWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &PNGWriter{Dir: dir, Scale: 1}, nil
}

// Filename returns the path frame number n is written to
func (w *PNGWriter) Filename(n int) string {
	return filepath.Join(w.Dir, fmt.Sprintf("frame-%05d.png", n))
}

// WriteFrame implements FrameWriter
func (w *PNGWriter) WriteFrame(f *Frame) error {
	var m image.Image = f.Image
	m = screen.Scale(m, w.Scale)
	if w.CRT != nil {
		m = w.CRT.Apply(m)
	}

	file, err := os.Create(w.Filename(f.Number))
	if err != nil {
		return err
	}
	defer file.Close()

	if err := png.Encode(file, m); err != nil {
		return err
	}

	return file.Close()
}

// ArchiveWriter stores frames in an archive under one session
type ArchiveWriter struct {
	db      *archive.Archive
	session int64
}

// NewArchiveWriter returns an ArchiveWriter recording into the session
// called name, described by seed and the layout of the Lab.
func (l *Lab) NewArchiveWriter(db *archive.Archive, name string, seed uint64) (*ArchiveWriter, error) {
	id, err := db.AddSession(name, seed, l.cfg.Layout.Kind.String())
	if err != nil {
		return nil, err
	}
	return &ArchiveWriter{
		db:      db,
		session: id,
	}, nil
}

// Session returns the archive session id frames are recorded under
func (w *ArchiveWriter) Session() int64 {
	return w.session
}

// WriteFrame implements FrameWriter
func (w *ArchiveWriter) WriteFrame(f *Frame) error {
	return w.db.AddFrame(w.session, f.Number, f.Image)
}
