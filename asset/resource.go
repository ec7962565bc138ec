package asset

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// The Resource type wraps a streamable file or remote resource.
type Resource struct {
	io.ReadCloser
	url *url.URL

	// Set for resources created from a stream; relative paths are resolved
	// without consulting the filesystem.
	stream bool
}

// Returns the path to this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Resolve pathToResource against the location of relTo. Paths that define a
// scheme are returned unmodified.
func ResolvePath(pathToResource string, relTo *Resource) (*url.URL, error) {
	// Replace backslashes with forward slashes and try parsing as a URL
	resURL, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, errors.Wrapf(err, "resource: could not parse %q", pathToResource)
	}

	if resURL.Scheme != "" || relTo == nil {
		return resURL, nil
	}

	// Relative path; clone the parent url and adjust its path
	path := resURL.Path
	resURL, _ = url.Parse(relTo.url.String())
	prefix := resURL.Path
	if resURL.Scheme == "" && !relTo.stream {
		prefix, err = filepath.Abs(relTo.url.String())
		if err != nil {
			return nil, errors.Wrapf(err, "resource: could not detect abs path for %s", relTo.url.String())
		}
	}
	if dir := filepath.Dir(prefix); dir != "." {
		path = dir + "/" + path
	}
	resURL.Path = path
	return resURL, nil
}

// Create a new resource data stream. If relTo is specified and pathToResource
// does not define a scheme, then the path to the new resource is generated
// by concatenating the base path of relTo and pathToResource.
//
// This function can handle http/https URLs by delegating to the net/http package.
// The caller must close the returned resource.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	resURL, err := ResolvePath(pathToResource, relTo)
	if err != nil {
		return nil, err
	}

	var reader io.ReadCloser
	switch resURL.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(resURL.Path))
		if err != nil {
			return nil, errors.Wrap(err, "resource")
		}
	case "http", "https":
		resp, err := http.Get(resURL.String())
		if err != nil {
			return nil, errors.Errorf("resource: could not fetch '%s': %s", resURL.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, errors.Errorf("resource: could not fetch '%s': status %d", resURL.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, errors.Errorf("resource: unsupported scheme '%s'", resURL.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        resURL,
	}, nil
}

// Create a resource from a reader. Resources created this way resolve relative
// paths against name without touching the filesystem.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	resURL, _ := url.Parse(name)
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        resURL,
		stream:     true,
	}
}
