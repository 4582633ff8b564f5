package source

import (
	"context"
	"log/slog"
)

// NewDefaultResolver builds a Resolver with file, https, and s3
// readers registered, each wrapped in a SQLite-backed cache when
// cacheDBPath is non-empty. S3 support degrades gracefully: if the
// ambient AWS credential chain can't load, the resolver simply has no
// s3 reader registered and s3:// imports fail with a clear "no source
// reader registered" error rather than at startup.
func NewDefaultResolver(ctx context.Context, cacheDBPath string, logger *slog.Logger) *Resolver {
	r := NewResolver()

	readers := []SourceReader{LocalReader{}, HTTPSReader{}}
	if s3r, err := NewS3Reader(ctx); err == nil {
		readers = append(readers, s3r)
	} else {
		logger.Debug("s3 source reader unavailable", "error", err)
	}

	for _, sr := range readers {
		if cacheDBPath == "" {
			r.Register(sr)
			continue
		}
		cached, err := NewCachingReader(sr, cacheDBPath, logger)
		if err != nil {
			logger.Warn("source cache unavailable, reading uncached", "scheme", sr.Scheme(), "error", err)
			r.Register(sr)
			continue
		}
		r.Register(cached)
	}

	return r
}
