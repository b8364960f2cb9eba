// Package portrait extracts hero portrait paths from portrait image URLs.
package portrait

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrMalformedURL = errors.New("malformed portrait url")

var pathPattern = regexp.MustCompile(`portraits/farmer/(?P<name>[a-z-]+).*(?P<ext>\.\w+)`)

// PathFromURL returns "{name}{ext}" for a farmer portrait URL such as
// "/static/portraits/farmer/red-hair.8f2c.png" ("red-hair.png"). A URL that
// does not match means the server sent data the client cannot use.
func PathFromURL(url string) (string, error) {
	m := pathPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedURL, url)
	}
	name := m[pathPattern.SubexpIndex("name")]
	ext := m[pathPattern.SubexpIndex("ext")]
	return name + ext, nil
}

// MustPathFromURL is PathFromURL for URLs the server has already vouched for.
func MustPathFromURL(url string) string {
	path, err := PathFromURL(url)
	if err != nil {
		panic(err)
	}
	return path
}

// Same reports whether two portrait URLs point at the same portrait.
func Same(a, b string) (bool, error) {
	pa, err := PathFromURL(a)
	if err != nil {
		return false, err
	}
	pb, err := PathFromURL(b)
	if err != nil {
		return false, err
	}
	return pa == pb, nil
}
