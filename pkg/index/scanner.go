package index

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jdmichaud/rdicom/pkg/dicom"
	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
)

// Stats summarises one scan.
type Stats struct {
	Files   int64 // regular files visited
	Indexed int64 // entries handed to the store
	Skipped int64 // non-DICOM files, skipped silently
	Failed  int64 // DICOM files that failed to decode, logged and skipped
}

// Scanner walks a tree, decodes each DICOM file and feeds the configured
// fields to a store. Decoding fans out over Workers goroutines; all
// writes funnel through a single goroutine that owns the store, with a
// bounded channel providing backpressure.
type Scanner struct {
	Config  *Config
	Store   IndexStore
	Workers int
	Log     *slog.Logger
}

func (s *Scanner) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.NumCPU()
}

func (s *Scanner) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

// Scan indexes every regular file under root. A decode failure on a
// single file never aborts the scan; a store failure does.
func (s *Scanner) Scan(ctx context.Context, root string) (Stats, error) {
	var stats Stats
	fields := s.Config.IndexableFields()

	paths := make(chan string, 64)
	entries := make(chan Entry, 64)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(paths)
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			atomic.AddInt64(&stats.Files, 1)
			select {
			case paths <- path:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	decoders, wctx := errgroup.WithContext(ctx)
	for i := 0; i < s.workers(); i++ {
		decoders.Go(func() error {
			for path := range paths {
				entry, ok, err := s.extract(path, fields)
				if err != nil {
					atomic.AddInt64(&stats.Failed, 1)
					s.log().Warn("skipping file", "path", path, "error", err)
					continue
				}
				if !ok {
					atomic.AddInt64(&stats.Skipped, 1)
					continue
				}
				select {
				case entries <- entry:
				case <-wctx.Done():
					return wctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(entries)
		return decoders.Wait()
	})

	// The store is owned by this one goroutine; writers never touch it.
	g.Go(func() error {
		if err := s.Store.Begin(); err != nil {
			return err
		}
		for entry := range entries {
			if err := s.Store.Write(entry); err != nil {
				return err
			}
			atomic.AddInt64(&stats.Indexed, 1)
		}
		return s.Store.Commit()
	})

	err := g.Wait()
	return stats, err
}

// extract decodes one file and pulls the requested fields. ok is false
// for non-DICOM files, which the scan skips without noise.
func (s *Scanner) extract(path string, fields []string) (Entry, bool, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, false, err
	}
	if !dicom.HasMagic(buf) {
		return Entry{}, false, nil
	}
	inst, err := dicom.NewInstance(buf)
	if err != nil {
		if errors.Is(err, dicom.ErrBadMagic) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}

	row := make(Row, len(fields))
	for _, field := range fields {
		info, err := tag.Find(field)
		if err != nil {
			// Config validation resolves every field up front.
			continue
		}
		a, err := inst.Get(info.Tag)
		if err != nil {
			if dicom.IsNotFound(err) {
				continue
			}
			return Entry{}, false, err
		}
		row[field] = a.StringValue()
	}
	return Entry{Path: path, Fields: row}, true, nil
}
