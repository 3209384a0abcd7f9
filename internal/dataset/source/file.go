package source

import (
	"context"
	"fmt"
	"os"

	"penguinlens/internal/dataset"
)

// File reads the dataset from a CSV file on disk.
type File struct {
	Path string
}

func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) Name() string {
	return "file:" + f.Path
}

func (f *File) FetchRaw(ctx context.Context) ([]dataset.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer fh.Close()
	return ReadCSV(fh)
}
