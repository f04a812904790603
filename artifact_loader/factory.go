package artifact_loader

import (
	"strings"
)

// Factory is the global loader factory
var Factory = newArtifactLoaderFactory()

type ArtifactLoaderFactory struct {
	// loaders keyed by the (lower case) file extension they handle
	loaders map[string]func() Loader
}

func newArtifactLoaderFactory() ArtifactLoaderFactory {
	f := ArtifactLoaderFactory{
		loaders: make(map[string]func() Loader),
	}
	f.RegisterArtifactLoader(gzipExtension, NewGzipLoader)
	return f
}

func (f *ArtifactLoaderFactory) RegisterArtifactLoader(extension string, ctor func() Loader) {
	f.loaders[strings.ToLower(extension)] = ctor
}

// GetLoader returns the loader for an object key, based on its extension.
// Keys with no registered extension use a [FileLoader].
func (f *ArtifactLoaderFactory) GetLoader(key string) Loader {
	lower := strings.ToLower(key)
	for ext, ctor := range f.loaders {
		if strings.HasSuffix(lower, ext) {
			return ctor()
		}
	}
	return NewFileLoader()
}
