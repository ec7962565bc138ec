package reader

import (
	"strings"

	"github.com/achilleasa/kdaccel/asset"
	"github.com/achilleasa/kdaccel/asset/compiler/input"
	"github.com/pkg/errors"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*input.Scene, error)
}

// Read scene from a file or URL.
func ReadScene(filename string) (*input.Scene, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	// Select reader based on file extension
	var reader Reader
	switch {
	case strings.HasSuffix(filename, ".obj"):
		reader = newWavefrontReader(asset.NewResource)
	case strings.HasSuffix(filename, ".zip"):
		reader = newZipSceneReader()
	default:
		return nil, errors.Errorf("readScene: unsupported file format for %q", filename)
	}
	return reader.Read(res)
}
