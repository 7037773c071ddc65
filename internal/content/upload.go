package content

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxUploadSize bounds an image attached to a project form.
const MaxUploadSize = 5 << 20

// Upload is an image file attached to a form, forwarded to the API as the "image" part.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewUpload names the file by its base name only; browsers on some platforms send
// the full client path.
func NewUpload(filename, contentType string, data []byte) *Upload {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		name = "upload"
	}
	return &Upload{Filename: name, ContentType: contentType, Data: data}
}

// Type is the part's media type, octet-stream when the browser sent none.
func (u *Upload) Type() string {
	if u.ContentType == "" {
		return "application/octet-stream"
	}
	return u.ContentType
}

// UploadTooLarge is the validation failure for a file over MaxUploadSize.
func UploadTooLarge(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Image must be %d MB or smaller", MaxUploadSize>>20),
	}
}
