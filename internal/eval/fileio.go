package eval

import (
	"context"
	"os"
	"path/filepath"

	"github.com/wdlkit/wdlkit/internal/source"
)

// FileIO is the injected file-access boundary the evaluator uses for
// every I/O-bearing stdlib call (spec.md §4.5: "read_*/write_* go
// through an injected file-source interface"). Reads are dispatched
// through the scheme-aware source.Resolver so read_* can name a
// local, https, or s3 File value; writes and globs are local-disk
// operations scoped to WorkDir, grounded on the teacher's toolexec
// temp-file handling.
type FileIO interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, contents []byte) (string, error)
	Stat(path string) (int64, error)
	Glob(pattern string) ([]string, error)
}

// LocalFileIO implements FileIO with a source.Resolver for reads (so
// remote File values are transparently fetched) and the local
// filesystem, rooted at WorkDir, for writes and globs.
type LocalFileIO struct {
	Src     *source.Resolver
	WorkDir string
}

func (f *LocalFileIO) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, _, err := f.Src.Read(ctx, f.WorkDir, path)
	return data, err
}

// WriteFile creates a fresh file under WorkDir/tmp holding contents,
// mirroring the teacher's os.CreateTemp("", "cwl-*") pattern but
// rooted at the task's own work directory instead of the OS temp dir,
// since a write_* File output must remain resolvable after the task
// completes.
func (f *LocalFileIO) WriteFile(ctx context.Context, contents []byte) (string, error) {
	dir := filepath.Join(f.WorkDir, "tmp")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, "wdlkit-write-*")
	if err != nil {
		return "", err
	}
	defer tmp.Close()
	if _, err := tmp.Write(contents); err != nil {
		return "", err
	}
	return tmp.Name(), nil
}

func (f *LocalFileIO) Stat(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (f *LocalFileIO) Glob(pattern string) ([]string, error) {
	full := pattern
	if !filepath.IsAbs(pattern) {
		full = filepath.Join(f.WorkDir, pattern)
	}
	matches, err := filepath.Glob(full)
	if err != nil {
		return nil, err
	}
	return matches, nil
}
