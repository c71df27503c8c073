package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

func TestReadImage(t *testing.T) {
	img, err := ReadImage(bytes.NewReader(pngHeader), "Summer Camp 2024!.PNG", "Programs", 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.True(t, strings.HasPrefix(img.Key, "programs/"), img.Key)
	assert.True(t, strings.HasSuffix(img.Key, "-summer-camp-2024.png"), img.Key)
	assert.Equal(t, pngHeader, img.Data)

	tests := []struct {
		name    string
		data    []byte
		maxSize int64
		wantErr error
	}{
		{name: "empty", data: nil, maxSize: 1024, wantErr: ErrEmptyImage},
		{name: "too large", data: pngHeader, maxSize: 8, wantErr: ErrImageTooLarge},
		{name: "not an image", data: []byte("%PDF-1.4 hello"), maxSize: 1024, wantErr: ErrUnsupportedImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadImage(bytes.NewReader(tt.data), "file.png", "content", tt.maxSize)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", slugify("  Hello, World!! "))
	assert.Equal(t, "", slugify("***"))
}
