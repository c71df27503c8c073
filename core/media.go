package core

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrUnsupportedImage = errors.New("only jpeg, png, gif and webp images are allowed")
	ErrImageTooLarge    = errors.New("image is too large")
	ErrEmptyImage       = errors.New("image is empty")

	imageExtensions = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
)

// Image is an uploaded image ready to be stored.
type Image struct {
	Key         string
	ContentType string
	Data        []byte
}

// ImageStore is any object storage images can be uploaded to.
type ImageStore interface {
	// Put stores `img` and returns its public URL.
	Put(ctx context.Context, img Image) (string, error)
}

// ReadImage reads at most `maxSize` bytes from `r`, sniffs its content type
// and returns an Image keyed under `prefix`.
func ReadImage(r io.Reader, filename, prefix string, maxSize int64) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return Image{}, errors.Wrap(err, "reading image")
	}
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}
	if int64(len(data)) > maxSize {
		return Image{}, ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return Image{}, ErrUnsupportedImage
	}

	name := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	name = slugify(name)
	if name == "" {
		name = "image"
	}
	key := path.Join(
		CleanString(prefix, true /* lower */),
		time.Now().UTC().Format("2006/01"),
		uuid.New().String()[:8]+"-"+name+ext,
	)
	return Image{Key: key, ContentType: contentType, Data: data}, nil
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
