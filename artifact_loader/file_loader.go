package artifact_loader

import (
	"context"
)

const FileLoaderIdentifier = "file_loader"

// FileLoader returns object data unchanged
type FileLoader struct{}

func NewFileLoader() Loader {
	return &FileLoader{}
}

func (FileLoader) Identifier() string {
	return FileLoaderIdentifier
}

func (FileLoader) Load(_ context.Context, _ string, data []byte) ([]byte, error) {
	return data, nil
}

func (FileLoader) TrimExtension(name string) string {
	return name
}
