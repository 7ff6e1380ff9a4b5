package storage

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"
	"path/filepath"
	"strings"
	"unicode"

	_ "golang.org/x/image/webp"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedImage is returned for uploads that are not png, jpeg or webp.
var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedExt = map[string]bool{"png": true, "jpg": true, "jpeg": true, "webp": true}

var mimeByFormat = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
}

var extByMIME = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/webp": "webp",
}

// DetectImage decodes the image header and returns its MIME type.
func DetectImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnsupportedImage
	}
	mime, ok := mimeByFormat[format]
	if !ok {
		return "", ErrUnsupportedImage
	}
	return mime, nil
}

// ValidateUpload checks the upload's extension and content.
func ValidateUpload(filename string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExt[ext] {
		return "", ErrUnsupportedImage
	}
	return DetectImage(data)
}

// SecureFilename reduces a client-supplied name to a safe ASCII basename.
// Path separators become word breaks, whitespace runs become "_", and any
// character outside [A-Za-z0-9_.-] is dropped.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			ascii.WriteByte(' ')
		case r < unicode.MaxASCII:
			ascii.WriteRune(r)
		}
	}

	joined := strings.Join(strings.Fields(ascii.String()), "_")

	var out strings.Builder
	for _, r := range joined {
		if r == '_' || r == '.' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	res := strings.Trim(out.String(), "._")
	if res == "" {
		return "upload"
	}
	return res
}
