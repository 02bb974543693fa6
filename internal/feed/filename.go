package feed

import (
	"errors"
	"fmt"
	"strings"
)

// AudioExtension is appended to every derived episode filename.
const AudioExtension = ".mp3"

var ErrInvalidLink = errors.New("link has no usable final path segment")

// FilenameForLink derives the local audio filename from an episode link:
// the last path segment plus AudioExtension. Query, fragment and trailing
// slashes are ignored, so "https://example.com/ep/42/" yields "42.mp3".
func FilenameForLink(link string) (string, error) {
	s := link
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")

	segment := s[strings.LastIndex(s, "/")+1:]
	switch segment {
	case "", ".", "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidLink, link)
	}
	if strings.ContainsRune(segment, '\\') {
		return "", fmt.Errorf("%w: %q", ErrInvalidLink, link)
	}
	return segment + AudioExtension, nil
}
