package datatable

import (
	"context"
	"os"
	"path/filepath"
)

// Function adapters so hosts can wire environment capabilities without
// declaring types.

// FileSaverFunc adapts a function to the FileSaver interface.
type FileSaverFunc func(ctx context.Context, filename string, data []byte) error

func (f FileSaverFunc) Save(ctx context.Context, filename string, data []byte) error {
	return f(ctx, filename, data)
}

// PrintSurfaceFunc adapts a function to the PrintSurface interface.
type PrintSurfaceFunc func(ctx context.Context, document []byte) error

func (f PrintSurfaceFunc) Print(ctx context.Context, document []byte) error {
	return f(ctx, document)
}

// ShareTargetFunc adapts a function to the ShareTarget interface.
type ShareTargetFunc func(ctx context.Context, payload string) error

func (f ShareTargetFunc) Share(ctx context.Context, payload string) error {
	return f(ctx, payload)
}

// ClipboardFunc adapts a function to the Clipboard interface.
type ClipboardFunc func(ctx context.Context, text string) error

func (f ClipboardFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, level NoticeLevel, message string)

func (f NotifierFunc) Notify(ctx context.Context, level NoticeLevel, message string) {
	f(ctx, level, message)
}

// DirSaver writes export artifacts into a directory. The server-side
// equivalent of the browser download prompt; useful for CLIs and demos.
type DirSaver struct {
	Dir string
}

// Save writes the artifact under the configured directory.
func (s DirSaver) Save(_ context.Context, filename string, data []byte) error {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filename), data, 0o644) //nolint:gosec
}
