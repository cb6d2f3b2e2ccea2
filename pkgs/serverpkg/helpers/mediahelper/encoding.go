package mediahelper

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DataUriPrefix marks a stored image that was saved straight from a canvas.
const DataUriPrefix = "data:image/png;base64,"

////////////////////////////////////////////////////////////////////////////////

type Encoding int

const (
	EncodingRaw Encoding = iota
	EncodingDataUri
)

func (e Encoding) String() string {
	switch e {
	case EncodingRaw:
		return "raw"
	case EncodingDataUri:
		return "data-uri"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// EncodedImage is a stored image column split into its encoding and its
// base64 payload.
type EncodedImage struct {
	Encoding Encoding
	Payload  string
}

////////////////////////////////////////////////////////////////////////////////

// Parse classifies a stored image string. Only the first occurrence of the
// data URI prefix is removed, wherever it appears.
func Parse(encoded string) EncodedImage {
	if strings.Contains(encoded, DataUriPrefix) {
		return EncodedImage{
			Encoding: EncodingDataUri,
			Payload:  strings.Replace(encoded, DataUriPrefix, "", 1),
		}
	}
	return EncodedImage{Encoding: EncodingRaw, Payload: encoded}
}

// Decode base64-decodes the payload. Whitespace and trailing padding are
// ignored and the URL-safe alphabet is accepted.
func (img EncodedImage) Decode() ([]byte, error) {
	payload := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, img.Payload)
	payload = strings.TrimRight(payload, "=")

	enc := base64.RawStdEncoding
	if strings.ContainsAny(payload, "-_") {
		enc = base64.RawURLEncoding
	}

	data, err := enc.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", img.Encoding, err)
	}
	return data, nil
}

// Normalize turns a stored image string into its binary content.
func Normalize(encoded string) ([]byte, error) {
	return Parse(encoded).Decode()
}
