package utils

import (
	"encoding/base64"
	"errors"
	"regexp"
)

var (
	ErrWrongImageFormat = errors.New("image base64 wrong format")

	imageDataURI = regexp.MustCompile(`^data:image/([a-zA-Z0-9+.-]+);base64,(.+)$`)
)

// DecodeImageDataURI parses a "data:image/<ext>;base64,<payload>" string and
// returns the file extension and the decoded bytes. Anything else, including
// an undecodable payload, is ErrWrongImageFormat.
func DecodeImageDataURI(data string) (string, []byte, error) {
	match := imageDataURI.FindStringSubmatch(data)
	if match == nil {
		return "", nil, ErrWrongImageFormat
	}

	payload, err := base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return "", nil, ErrWrongImageFormat
	}
	return match[1], payload, nil
}
