package reader

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/achilleasa/kdaccel/asset"
	"github.com/achilleasa/kdaccel/asset/compiler/input"
	"github.com/achilleasa/kdaccel/log"
	"github.com/pkg/errors"
)

// The entry read first when a bundle contains more than one top-level .obj file.
const mainSceneFile = "scene.obj"

// Reads scene bundles: zip archives with a top-level .obj file and any files
// it includes via "call" statements.
type zipSceneReader struct {
	logger log.Logger

	entries map[string]*zip.File
}

// Create a new zip scene reader.
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read scene definition from zip file.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*input.Scene, error) {
	p.logger.Noticef(`reading scene bundle from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, errors.Wrapf(err, "zipSceneReader: could not read %s", sceneRes.Path())
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrapf(err, "zipSceneReader: could not open %s", sceneRes.Path())
	}

	p.entries = make(map[string]*zip.File, len(zr.File))
	var roots []string
	for _, f := range zr.File {
		name := path.Clean(f.Name)
		p.entries[name] = f
		if !strings.Contains(name, "/") && strings.HasSuffix(name, ".obj") {
			roots = append(roots, name)
		}
	}

	root, err := selectRoot(roots)
	if err != nil {
		return nil, errors.Wrapf(err, "zipSceneReader: %s", sceneRes.Path())
	}

	rootRes, err := p.open(root, nil)
	if err != nil {
		return nil, err
	}
	defer rootRes.Close()

	rawScene, err := newWavefrontReader(p.open).Read(rootRes)
	if err != nil {
		return nil, err
	}

	p.logger.Noticef("loaded scene bundle in %d ms", time.Since(start).Nanoseconds()/1e6)
	return rawScene, nil
}

// Open an archive entry. Relative paths are resolved against relTo.
func (p *zipSceneReader) open(pathToResource string, relTo *asset.Resource) (*asset.Resource, error) {
	resURL, err := asset.ResolvePath(pathToResource, relTo)
	if err != nil {
		return nil, err
	}
	if resURL.Scheme != "" {
		return nil, errors.Errorf("zipSceneReader: bundled scenes cannot reference remote resource %q", pathToResource)
	}

	name := path.Clean(resURL.Path)
	f, exists := p.entries[name]
	if !exists {
		return nil, errors.Errorf("zipSceneReader: no entry %q in bundle", name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "zipSceneReader: could not open %q", name)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "zipSceneReader: could not read %q", name)
	}
	return asset.NewResourceFromStream(name, bytes.NewReader(data)), nil
}

func selectRoot(roots []string) (string, error) {
	switch len(roots) {
	case 0:
		return "", errors.New("no top-level .obj file in bundle")
	case 1:
		return roots[0], nil
	}

	for _, root := range roots {
		if root == mainSceneFile {
			return root, nil
		}
	}
	sort.Strings(roots)
	return "", errors.Errorf("ambiguous bundle; found %s but no %s", strings.Join(roots, ", "), mainSceneFile)
}
