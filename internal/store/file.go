package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"gitlab.com/dirk.krummacker/addressbook/internal/model"
)

// DefaultPath is the name of the address book file when nothing else is configured.
const DefaultPath = "book.txt"

// FileStore keeps the address book in a semicolon delimited UTF-8 text file with one header
// line. The file is opened and closed within every call; the store assumes it is the only writer.
type FileStore struct {
	path   string
	logger *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store for the file at path. An empty path means DefaultPath.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileStore{path: path, logger: logger.With("store", path)}
}

// Path returns the location of the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads all records from the file. A missing or empty file yields an empty result.
func (s *FileStore) Load() (*LoadResult, error) {
	result := &LoadResult{}
	file, err := os.Open(s.path) // nosemgrep
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no address book file yet")
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer file.Close()

	var cols []model.Field
	reader := bufio.NewReader(file)
	lineNo := 0
	for {
		text, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		if text == "" && err != nil {
			break
		}
		lineNo++
		line := strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, bom)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if cols == nil {
			cols = columns(line)
			continue
		}
		rec, err := decode(line, cols)
		if err != nil {
			skipped := SkippedLine{Line: lineNo, Reason: err.Error()}
			s.logger.Warn("skipping malformed line", "line", lineNo, "err", err)
			result.Skipped = append(result.Skipped, skipped)
			continue
		}
		result.Records = append(result.Records, rec)
	}
	s.logger.Debug("loaded address book", "records", len(result.Records), "skipped", len(result.Skipped))
	return result, nil
}

// Append writes rec at the end of the file. The header is written first if the file is new or
// empty; a missing final line break is added before rec.
func (s *FileStore) Append(rec *model.Record) error {
	line, err := encode(rec)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644) // nosemgrep
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	var builder strings.Builder
	if info.Size() == 0 {
		builder.WriteString(header())
		builder.WriteString("\n")
	} else {
		// a file edited by hand may lack the final line break
		last := make([]byte, 1)
		if _, err := file.ReadAt(last, info.Size()-1); err != nil {
			file.Close()
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		if last[0] != '\n' {
			builder.WriteString("\n")
		}
	}
	builder.WriteString(line)
	builder.WriteString("\n")

	_, errWrite := file.WriteString(builder.String())
	errClose := file.Close()
	if err := errors.Join(errWrite, errClose); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	s.logger.Info("record appended")
	return nil
}

// SaveAll replaces the file with a header and recs. The new content is written to a temporary
// file that is renamed over the old one, so a failed save leaves the previous file in place.
func (s *FileStore) SaveAll(recs []*model.Record) error {
	var builder strings.Builder
	builder.WriteString(header())
	builder.WriteString("\n")
	for _, rec := range recs {
		line, err := encode(rec)
		if err != nil {
			return err
		}
		builder.WriteString(line)
		builder.WriteString("\n")
	}

	pending, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(0644), renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer pending.Cleanup()

	if _, err := pending.WriteString(builder.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	s.logger.Info("address book saved", "records", len(recs))
	return nil
}
