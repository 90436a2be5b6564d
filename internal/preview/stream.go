package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mattn/go-mjpeg"
)

const page = `<!DOCTYPE html>
<head>
	<meta charset="UTF-8">
	<title>stereo sample</title>
</head>
<body style="margin:0;background:#000">
	<img src="/mjpeg" style="max-width:100vw;max-height:100vh;object-fit:contain;display:block;margin:0 auto;" />
</body>`

// Options configures a Stream.
type Options struct {
	Addr     string
	MaxWidth int
	FPS      int // upper bound on encoded frames per second; default 30
	Quality  int // JPEG quality; default 75
	Logger   *slog.Logger
}

// Stream is a swap chain sink that publishes frames over HTTP as MJPEG.
type Stream struct {
	opts     Options
	log      *slog.Logger
	interval time.Duration
	out      *mjpeg.Stream

	mu     sync.Mutex
	buf    bytes.Buffer
	latest []byte
	last   time.Time
	srv    *http.Server
	addr   string
	closed bool
}

// NewStream creates the MJPEG stream. Call Start to begin serving.
func NewStream(opts Options) *Stream {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Quality <= 0 {
		opts.Quality = 75
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	interval := time.Second / time.Duration(opts.FPS)
	return &Stream{
		opts:     opts,
		log:      log,
		interval: interval,
		out:      mjpeg.NewStreamWithInterval(interval),
	}
}

// Handler serves a viewer page at / and the stream at /mjpeg.
func (s *Stream) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	})
	mux.Handle("/mjpeg", s.out)
	return mux
}

// Start listens on Options.Addr and serves in the background.
func (s *Stream) Start() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("preview: listen %s: %w", s.opts.Addr, err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.mu.Lock()
	s.srv = srv
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("preview server stopped", "err", err)
		}
	}()
	s.log.Info("preview stream", "url", "http://"+ln.Addr().String()+"/")
	return nil
}

// Addr returns the address the server listens on, empty before Start.
func (s *Stream) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Present encodes the frame as JPEG unless the previous one is younger
// than the stream interval.
func (s *Stream) Present(frame *image.NRGBA, _ uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	now := time.Now()
	if !s.last.IsZero() && now.Sub(s.last) < s.interval {
		return nil
	}
	s.last = now

	s.buf.Reset()
	if err := jpeg.Encode(&s.buf, Fit(frame, s.opts.MaxWidth), &jpeg.Options{Quality: s.opts.Quality}); err != nil {
		return fmt.Errorf("preview: jpeg encode: %w", err)
	}
	// Viewers may still be writing the previous frame, so publish a copy.
	s.latest = append([]byte(nil), s.buf.Bytes()...)
	return s.out.Update(s.latest)
}

// Latest returns a copy of the most recently published JPEG.
func (s *Stream) Latest() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.latest...)
}

// Close stops the server and the stream.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.srv
	s.mu.Unlock()

	// Closing the stream first ends the viewers' handlers, otherwise
	// Shutdown waits for them until it times out.
	errs := []error{s.out.Close()}
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		errs = append(errs, srv.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
