package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUploadKeepsBaseName(t *testing.T) {
	assert.Equal(t, "cover.png", NewUpload(`C:\Users\z\cover.png`, "image/png", nil).Filename)
	assert.Equal(t, "cover.png", NewUpload("/tmp/cover.png", "", nil).Filename)
	assert.Equal(t, "upload", NewUpload("", "", nil).Filename)
}

func TestUploadTypeDefaults(t *testing.T) {
	assert.Equal(t, "application/octet-stream", NewUpload("a.bin", "", nil).Type())
	assert.Equal(t, "image/webp", NewUpload("a.webp", "image/webp", nil).Type())
}
