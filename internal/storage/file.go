package storage

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/eternalApril/keyfile/internal/codec"
	"github.com/google/renameio/v2"
	"go.uber.org/zap"
)

// Parse merges the settings file at path into the store. Every setting the
// file defines replaces the whole in-memory list for that name; other
// settings are kept. A file that cannot be opened leaves the store unchanged
// and is not an error. A read failure stops the parse, lines read before it
// stay applied
func (s *Store) Parse(path string) error {
	f, err := os.Open(path)
	if err != nil {
		s.logger.Debug("settings file not readable, skipping",
			zap.String("file", path),
			zap.Error(err),
		)
		return nil
	}
	defer f.Close() //nolint:errcheck

	start := time.Now()
	if err := s.Restore(f); err != nil {
		s.logger.Debug("settings file read failed, stopping",
			zap.String("file", path),
			zap.Error(err),
		)
		return nil
	}

	s.logger.Debug("settings file parsed",
		zap.String("file", path),
		zap.Int("settings", len(s.data)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Save atomically replaces the file at path with the store contents
func (s *Store) Save(path string) error {
	start := time.Now()

	pending, err := renameio.NewPendingFile(path,
		renameio.WithPermissions(0o644),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return fmt.Errorf("create pending settings file: %w", err)
	}
	defer func() {
		// no-op once the file has been committed
		if err := pending.Cleanup(); err != nil {
			s.logger.Debug("cleanup pending settings file", zap.Error(err))
		}
	}()

	if err := s.Snapshot(pending); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	s.logger.Debug("settings file saved",
		zap.String("file", path),
		zap.Int("settings", len(s.data)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Snapshot writes every setting to w in lexicographic order
func (s *Store) Snapshot(w io.Writer) error {
	enc := codec.NewEncoder(w)

	for _, name := range s.Names() {
		if err := enc.Write(codec.Assignment{Name: name, Values: s.data[name]}); err != nil {
			return err
		}
	}

	return enc.Flush()
}

// Restore reads assignments from r and applies them in order.
// Assignments read before an error stay applied
func (s *Store) Restore(r io.Reader) error {
	dec := codec.NewDecoder(r)

	for {
		a, err := dec.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", dec.Line()+1, err)
		}

		s.data[a.Name] = a.Values
	}

	if skipped := dec.Skipped(); skipped > 0 {
		s.logger.Debug("ignored malformed lines", zap.Int("count", skipped))
	}
	return nil
}
