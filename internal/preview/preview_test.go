package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestFit(t *testing.T) {
	src := solid(400, 200, color.NRGBA{R: 200, G: 40, B: 10, A: 255})

	out := Fit(src, 100)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())
	px := out.NRGBAAt(50, 25)
	assert.InDelta(t, 200, int(px.R), 2)
	assert.InDelta(t, 40, int(px.G), 2)

	assert.Same(t, src, Fit(src, 400))
	assert.Same(t, src, Fit(src, 0))
}

func TestStreamPublishesScaledJPEG(t *testing.T) {
	s := NewStream(Options{MaxWidth: 64, FPS: 1000})
	defer s.Close()

	require.NoError(t, s.Present(solid(128, 32, color.NRGBA{G: 255, A: 255}), 0))
	data := s.Latest()
	require.NotEmpty(t, data)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 16), img.Bounds())
}

func TestStreamThrottles(t *testing.T) {
	s := NewStream(Options{FPS: 1})
	defer s.Close()

	require.NoError(t, s.Present(solid(8, 8, color.NRGBA{R: 255, A: 255}), 0))
	first := s.Latest()
	require.NoError(t, s.Present(solid(8, 8, color.NRGBA{B: 255, A: 255}), 1))
	assert.Equal(t, first, s.Latest(), "second frame within the interval is dropped")
}

func TestHandlerServesViewerPage(t *testing.T) {
	s := NewStream(Options{})
	defer s.Close()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `src="/mjpeg"`)

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamStartAndClose(t *testing.T) {
	s := NewStream(Options{Addr: "127.0.0.1:0"})
	require.NoError(t, s.Start())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.NoError(t, s.Present(solid(4, 4, color.NRGBA{A: 255}), 0), "closed stream ignores frames")
}

func TestCloseWithConnectedViewer(t *testing.T) {
	s := NewStream(Options{Addr: "127.0.0.1:0", FPS: 1000})
	require.NoError(t, s.Start())

	got := make(chan error, 1)
	hold := make(chan struct{})
	defer close(hold)
	go func() {
		resp, err := http.Get("http://" + s.Addr() + "/mjpeg")
		if err != nil {
			got <- err
			return
		}
		defer resp.Body.Close()
		_, err = io.ReadFull(resp.Body, make([]byte, 64))
		got <- err
		<-hold // stay connected while the stream closes
	}()

	frame := solid(16, 16, color.NRGBA{R: 90, A: 255})
	deadline := time.After(2 * time.Second)
	for received := false; !received; {
		require.NoError(t, s.Present(frame, 0))
		select {
		case err := <-got:
			require.NoError(t, err)
			received = true
		case <-deadline:
			t.Fatal("viewer received no data")
		case <-time.After(5 * time.Millisecond):
		}
	}

	start := time.Now()
	require.NoError(t, s.Close())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
