package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/webp" // webp decode support for image.Decode
)

// Image destination kinds, mapped to subdirectories of the upload root.
const (
	ImageKindPost   = "posts"
	ImageKindAvatar = "avatars"
)

// Maximum pixel dimensions per destination.
const (
	PostImageMaxPx = 1600
	AvatarMaxPx    = 512
)

const publicUploadBase = "/static/uploads"

var allowedImageExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

type ImageService struct {
	uploadDir string
}

type SaveImageInput struct {
	Reader   io.Reader
	Filename string
	Kind     string
	MaxPx    int
}

// NewImageService returns a service writing uploads under uploadDir.
func NewImageService(uploadDir string) *ImageService {
	return &ImageService{uploadDir: uploadDir}
}

// Save validates, normalizes and persists one uploaded image, returning its
// public URL path. Oversized images are scaled down so neither dimension
// exceeds MaxPx, preserving aspect ratio. The stored name carries a random
// prefix so two users uploading "cat.png" never collide.
func (s *ImageService) Save(ctx context.Context, in SaveImageInput) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(in.Filename)), ".")
	if !allowedImageExts[ext] {
		middleware.ImageUploads.WithLabelValues("rejected").Inc()
		return "", models.NewValidationError("Unsupported image type (allowed: png, jpg, jpeg, gif, webp)")
	}

	img, _, err := image.Decode(in.Reader)
	if err != nil {
		middleware.ImageUploads.WithLabelValues("rejected").Inc()
		return "", models.NewValidationError("File is not a valid image")
	}

	maxPx := in.MaxPx
	if maxPx <= 0 {
		maxPx = PostImageMaxPx
	}
	img = normalizeImage(img, ext, maxPx)

	name, err := storedName(in.Filename, ext)
	if err != nil {
		middleware.ImageUploads.WithLabelValues("failed").Inc()
		return "", models.NewInternalError(err)
	}

	dir := filepath.Join(s.uploadDir, in.Kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		middleware.ImageUploads.WithLabelValues("failed").Inc()
		return "", models.NewInternalError(err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		middleware.ImageUploads.WithLabelValues("failed").Inc()
		return "", models.NewInternalError(err)
	}
	defer f.Close()

	if err := encodeImage(f, img, ext); err != nil {
		middleware.ImageUploads.WithLabelValues("failed").Inc()
		return "", models.NewInternalError(err)
	}

	middleware.ImageUploads.WithLabelValues("ok").Inc()
	return path.Join(publicUploadBase, in.Kind, name), nil
}

// normalizeImage flattens the pixel format and scales down oversized images.
// JPEG has no alpha channel, so transparency is composited onto white before
// encoding.
func normalizeImage(img image.Image, ext string, maxPx int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	dw, dh := w, h
	if w > maxPx || h > maxPx {
		if w >= h {
			dw = maxPx
			dh = h * maxPx / w
		} else {
			dh = maxPx
			dw = w * maxPx / h
		}
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	if ext == "jpg" || ext == "jpeg" {
		// white backing for flattened alpha
		xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	}
	if dw == w && dh == h {
		xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Over)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	}
	return dst
}

func encodeImage(w io.Writer, img image.Image, ext string) error {
	switch ext {
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	case "png":
		return png.Encode(w, img)
	case "gif":
		return gif.Encode(w, img, nil)
	case "webp":
		return webp.Encode(w, img, &webp.Options{Quality: 85})
	default:
		return fmt.Errorf("unsupported extension %q", ext)
	}
}

// storedName builds "<16 hex chars>_<sanitized base>.<ext>".
func storedName(original, ext string) (string, error) {
	prefix := make([]byte, 8)
	if _, err := rand.Read(prefix); err != nil {
		return "", err
	}
	base := sanitizeFilename(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	return fmt.Sprintf("%s_%s.%s", hex.EncodeToString(prefix), base, ext), nil
}

// sanitizeFilename keeps ASCII letters, digits, dot, dash and underscore,
// mapping runs of anything else to a single underscore. Path separators and
// leading dots cannot survive, so the result is safe to join onto a
// directory.
func sanitizeFilename(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "image"
	}
	return cleaned
}
