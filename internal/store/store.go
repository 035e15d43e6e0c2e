package store

import (
	"errors"
	"fmt"
	"log/slog"

	"gitlab.com/dirk.krummacker/addressbook/internal/model"
)

// Store persists the whole address book.
type Store interface {
	// Load returns every stored record in storage order. Missing storage is an empty result.
	Load() (*LoadResult, error)
	// Append adds a single record after the existing ones.
	Append(rec *model.Record) error
	// SaveAll replaces the stored records with recs.
	SaveAll(recs []*model.Record) error
}

// LoadResult is the outcome of a load. Lines that could not be decoded do not abort the load, they
// are listed in Skipped.
type LoadResult struct {
	Records []*model.Record
	Skipped []SkippedLine
}

// SkippedLine describes a data line that was not turned into a record.
type SkippedLine struct {
	Line   int
	Reason string
}

func (s SkippedLine) String() string {
	return fmt.Sprintf("line %d: %s", s.Line, s.Reason)
}

var (
	// ErrIO is returned when the backing storage cannot be read or written.
	ErrIO = errors.New("store: i/o failure")

	// ErrDelimiter is returned when a value contains the field delimiter or a line break and
	// therefore cannot be stored in the text format.
	ErrDelimiter = errors.New("store: value contains delimiter or line break")
)

// Options selects and configures a Store implementation.
type Options struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path"   yaml:"path"`
	DSN    string `mapstructure:"dsn"    yaml:"dsn,omitempty"`
}

const (
	DriverFile  = "file"
	DriverMySQL = "mysql"
)

// Open returns the Store described by options. A nil logger discards log output.
func Open(options Options, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch options.Driver {
	case "", DriverFile:
		return NewFileStore(options.Path, logger), nil
	case DriverMySQL:
		return OpenSQL(options.DSN, logger)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", options.Driver)
	}
}
