package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"stereo-sample/internal/texture"
	"stereo-sample/internal/tga"
)

func describe(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := tga.DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	encoding := "raw"
	if data[2] == 10 {
		encoding = "rle"
	}
	origin := "bottom-left"
	if img.Origin == tga.TopLeft {
		origin = "top-left"
	}
	fmt.Printf("OK  %s  %dx%d  %d-bit  %s  %s  (%d bytes)\n",
		path, img.Width, img.Height, img.BytesPerPixel()*8, encoding, origin, len(data))
	return img.NRGBA(), nil
}

func writeWebP(dir, src string, img image.Image) error {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".webp"
	out := filepath.Join(dir, name)
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("    -> %s\n", out)
	return nil
}

func main() {
	webpDir := flag.String("webp", "", "Also write each image as WebP into this directory")
	lenient := flag.Bool("lenient", false, "Fall back to the generic TGA decoder for unsupported variants")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: tgainfo [-webp dir] [-lenient] file.tga...")
		os.Exit(2)
	}
	if *webpDir != "" {
		if err := os.MkdirAll(*webpDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	errors := 0
	for _, path := range flag.Args() {
		img, err := describe(path)
		if err != nil && *lenient {
			img, err = texture.LoadLenient(path)
			if err == nil {
				fmt.Printf("OK  %s  %dx%d  (generic decoder)\n", path, img.Rect.Dx(), img.Rect.Dy())
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %s: %v\n", path, err)
			errors++
			continue
		}
		if *webpDir != "" {
			if err := writeWebP(*webpDir, path, img); err != nil {
				fmt.Fprintf(os.Stderr, "ERR %s: %v\n", path, err)
				errors++
			}
		}
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
}
