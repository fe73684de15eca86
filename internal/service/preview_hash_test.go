package service

import (
	"context"
	"errors"
	"image"
	"testing"
)

func TestBlurhashServiceHashesImage(t *testing.T) {
	files := multipartFiles(t, testFile{name: "wide.png", data: pngBytes(t, 300, 120)})
	hash, err := NewBlurhashService().Hash(context.Background(), files[0])
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	// 4x3 分量的 blurhash 长度固定为 6+2*(4*3-1)
	if len(hash) != 28 {
		t.Fatalf("hash length want 28 got %d (%s)", len(hash), hash)
	}
}

func TestBlurhashServiceRejectsNonImage(t *testing.T) {
	files := multipartFiles(t, testFile{name: "broken.png", data: []byte("not an image")})
	_, err := NewBlurhashService().Hash(context.Background(), files[0])
	if !errors.Is(err, ErrPreviewHashFailed) {
		t.Fatalf("want ErrPreviewHashFailed got %v", err)
	}
}

func TestDownscaleKeepsAspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 320))
	small := downscale(img, 64)
	if b := small.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("downscaled size want 64x32 got %dx%d", b.Dx(), b.Dy())
	}
	tiny := image.NewRGBA(image.Rect(0, 0, 10, 20))
	if downscale(tiny, 64) != image.Image(tiny) {
		t.Fatalf("small images should be returned unchanged")
	}
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"  <b>Bold</b> move ":               "Bold move",
		"<script>alert(1)</script>Safe":     "Safe",
		"Tom &amp; Jerry":                   "Tom & Jerry",
		`<a href="javascript:x()">link</a>`: "link",
	}
	for in, want := range cases {
		if got := sanitizeText(in); got != want {
			t.Fatalf("sanitizeText(%q) want %q got %q", in, want, got)
		}
	}
}
