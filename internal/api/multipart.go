package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strconv"
	"strings"

	"github.com/Zachkp/portfolio/internal/content"
)

// imagePart is the form part the API reads an uploaded image from.
const imagePart = "image"

// encodedBody is a request body that is sent as is.
type encodedBody struct {
	contentType string
	data        []byte
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// multipartBody encodes payload as form fields followed by the image file. Lists go out
// comma-joined, the way a browser FormData flattens an array.
func multipartBody(payload content.Item, image *content.Upload) (encodedBody, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return encodedBody{}, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return encodedBody{}, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if name == "_id" || name == imagePart {
			continue
		}
		value, ok := formValue(fields[name])
		if !ok {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return encodedBody{}, err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		imagePart, quoteEscaper.Replace(image.Filename)))
	h.Set("Content-Type", image.Type())
	part, err := w.CreatePart(h)
	if err != nil {
		return encodedBody{}, err
	}
	if _, err := part.Write(image.Data); err != nil {
		return encodedBody{}, err
	}
	if err := w.Close(); err != nil {
		return encodedBody{}, err
	}
	return encodedBody{contentType: w.FormDataContentType(), data: buf.Bytes()}, nil
}

func formValue(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, x := range v {
			if s, ok := formValue(x); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	}
	return "", false
}
