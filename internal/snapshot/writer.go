// Package snapshot saves presented frames as WebP files and indexes them
// in a manifest.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/HugoSmits86/nativewebp"
)

// ManifestName is the file Close writes into the output directory.
const ManifestName = "manifest.json"

var ErrClosed = errors.New("snapshot: writer closed")

// Options configures a Writer.
type Options struct {
	Dir     string
	Every   uint64 // keep every Nth frame; 0 is treated as 1
	Workers int    // encoder goroutines; default 2
	Logger  *slog.Logger
}

type job struct {
	index uint64
	img   *image.NRGBA
}

// Writer is a swap chain sink that encodes frames on a small worker pool.
type Writer struct {
	opts Options
	log  *slog.Logger
	jobs chan job
	wg   sync.WaitGroup

	mu      sync.Mutex
	entries []ManifestEntry
	err     error
	closed  bool
}

// New creates the output directory and starts the encoder workers.
func New(opts Options) (*Writer, error) {
	if opts.Dir == "" {
		return nil, errors.New("snapshot: no output directory")
	}
	if opts.Every == 0 {
		opts.Every = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	w := &Writer{opts: opts, log: log, jobs: make(chan job, opts.Workers*2)}
	for i := 0; i < opts.Workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for j := range w.jobs {
				w.encode(j)
			}
		}()
	}
	return w, nil
}

// Present queues every Nth frame for encoding. The frame is copied, so the
// caller may reuse it. An earlier encoding failure is returned here so the
// render loop stops.
func (w *Writer) Present(frame *image.NRGBA, index uint64) error {
	w.mu.Lock()
	closed, err := w.closed, w.err
	w.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err != nil {
		return err
	}
	if index%w.opts.Every != 0 {
		return nil
	}

	cp := &image.NRGBA{
		Pix:    append([]uint8(nil), frame.Pix...),
		Stride: frame.Stride,
		Rect:   frame.Rect,
	}
	w.jobs <- job{index: index, img: cp}
	return nil
}

func (w *Writer) encode(j job) {
	name := fmt.Sprintf("frame-%06d.webp", j.index)
	err := writeWebP(filepath.Join(w.opts.Dir, name), j.img)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		if w.err == nil {
			w.err = fmt.Errorf("snapshot: frame %d: %w", j.index, err)
		}
		return
	}
	w.entries = append(w.entries, ManifestEntry{
		Frame:  j.index,
		Image:  name,
		Width:  j.img.Rect.Dx(),
		Height: j.img.Rect.Dy(),
	})
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}

// Close drains the workers and writes the manifest. It is safe to call
// more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.jobs)
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	sort.Slice(w.entries, func(i, j int) bool { return w.entries[i].Frame < w.entries[j].Frame })
	if err := WriteManifest(filepath.Join(w.opts.Dir, ManifestName), w.entries); err != nil {
		return errors.Join(w.err, fmt.Errorf("snapshot: %w", err))
	}
	w.log.Info("snapshots written", "dir", w.opts.Dir, "frames", len(w.entries))
	return w.err
}
