package pdf

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"

	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/h2non/filetype"
	"golang.org/x/image/webp"
)

// decodedImage is an image the pdf writer accepts as is
type decodedImage struct {
	imageType string
	data      []byte
}

// decodeImage accepts raw bytes, a data: URI or a bare base64 string and
// returns bytes in a format gofpdf can embed. WebP is transcoded to PNG.
func decodeImage(src []byte) (*decodedImage, error) {
	payload, err := unwrapImagePayload(src)
	if err != nil {
		return nil, err
	}

	kind, err := filetype.Match(payload)
	if err != nil || kind == filetype.Unknown {
		return nil, ierr.NewError("unrecognised image data").
			WithHint("Logo must be a PNG, JPEG, GIF or WebP image").
			Mark(ierr.ErrValidation)
	}

	switch kind.Extension {
	case "png":
		return &decodedImage{imageType: "PNG", data: payload}, nil
	case "jpg":
		return &decodedImage{imageType: "JPG", data: payload}, nil
	case "gif":
		return &decodedImage{imageType: "GIF", data: payload}, nil
	case "webp":
		img, err := webp.Decode(bytes.NewReader(payload))
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Logo could not be decoded").
				Mark(ierr.ErrValidation)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Logo could not be converted").
				Mark(ierr.ErrSystem)
		}
		return &decodedImage{imageType: "PNG", data: buf.Bytes()}, nil
	default:
		return nil, ierr.NewErrorf("unsupported image type %s", kind.MIME.Value).
			WithHint("Logo must be a PNG, JPEG, GIF or WebP image").
			Mark(ierr.ErrValidation)
	}
}

func unwrapImagePayload(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, ierr.NewError("empty image").Mark(ierr.ErrValidation)
	}

	if filetype.IsImage(src) {
		return src, nil
	}

	s := strings.TrimSpace(string(src))
	if strings.HasPrefix(s, "data:") {
		header, body, ok := strings.Cut(s, ",")
		if !ok {
			return nil, ierr.NewError("malformed data uri").Mark(ierr.ErrValidation)
		}
		if !strings.Contains(header, ";base64") {
			return []byte(body), nil
		}
		s = body
	}

	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, ierr.NewError("image is neither raw bytes nor base64").Mark(ierr.ErrValidation)
}
