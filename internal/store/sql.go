package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/addressbook/internal/model"
)

const (
	selectAll = `
		SELECT family, name, surname, organization, working_phone, mobile_phone
		FROM contacts
		ORDER BY id`
	insertOne = `
		INSERT INTO contacts (family, name, surname, organization, working_phone, mobile_phone)
		VALUES (:family, :name, :surname, :organization, :working_phone, :mobile_phone)`
	deleteAll = `DELETE FROM contacts`
)

// SQLStore keeps the address book in the MySQL table 'contacts'. Absent fields are stored as
// NULL. The table is expected to exist, see scripts/contacts.sql.
type SQLStore struct {
	db     *sqlx.DB
	insert *sqlx.NamedStmt
	logger *slog.Logger
}

var _ Store = (*SQLStore)(nil)

// ConnectSQL returns a handle for the MySQL database described by dsn. No connection is made
// before the first statement.
func ConnectSQL(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: invalid dsn: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return sql.OpenDB(connector), nil
}

// OpenSQL connects to the MySQL database described by dsn.
func OpenSQL(dsn string, logger *slog.Logger) (*SQLStore, error) {
	sqlDB, err := ConnectSQL(dsn)
	if err != nil {
		return nil, err
	}
	s, err := NewSQLStore(sqlDB, logger)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps sqlDB and prepares all statements. The database argument can be a real
// database for production use or a mock database within unit tests.
func NewSQLStore(sqlDB *sql.DB, logger *slog.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	insert, err := db.PrepareNamed(insertOne)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return &SQLStore{db: db, insert: insert, logger: logger.With("store", "mysql")}, nil
}

// Close releases the prepared statements and the database handle.
func (s *SQLStore) Close() error {
	s.insert.Close()
	return s.db.Close()
}

// Load selects all rows in insertion order.
func (s *SQLStore) Load() (*LoadResult, error) {
	var records []*model.Record
	if err := s.db.Select(&records, selectAll); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	s.logger.Debug("loaded address book", "records", len(records))
	return &LoadResult{Records: records}, nil
}

// Append inserts a single row.
func (s *SQLStore) Append(rec *model.Record) error {
	if _, err := s.insert.Exec(rec); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	s.logger.Info("record appended")
	return nil
}

// SaveAll replaces the table content with recs within one transaction.
func (s *SQLStore) SaveAll(recs []*model.Record) (err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(deleteAll); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	for _, rec := range recs {
		if _, err = tx.NamedExec(insertOne, rec); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	s.logger.Info("address book saved", "records", len(recs))
	return nil
}
