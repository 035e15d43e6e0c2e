package store

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Migrate executes the statements of a SQL script in order and returns how many were run. A
// statement ends with the first line that contains a semicolon.
func Migrate(sqlDB *sql.DB, script io.Reader, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	scanner := bufio.NewScanner(script)
	builder := strings.Builder{}
	count := 0
	for scanner.Scan() {
		line := scanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if !strings.Contains(line, ";") {
			continue
		}
		statement := strings.TrimSpace(builder.String())
		builder.Reset()
		if _, err := db.Exec(statement); err != nil {
			return count, fmt.Errorf("%w: statement %d: %w", ErrIO, count+1, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if rest := strings.TrimSpace(builder.String()); rest != "" {
		return count, fmt.Errorf("store: statement %d is not terminated by ';'", count+1)
	}
	logger.Info("migration finished", "statements", count)
	return count, nil
}

// WaitUntilAvailable pings the database every interval until it answers or ctx is done.
func WaitUntilAvailable(ctx context.Context, sqlDB *sql.DB, interval time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start := time.Now()
	for {
		err := sqlDB.PingContext(ctx)
		if err == nil {
			return nil
		}
		logger.Info("waiting for database", "waited", time.Since(start).Round(time.Second), "err", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: database not available: %w", ErrIO, ctx.Err())
		case <-time.After(interval):
		}
	}
}

// Copy appends all records of src to dst and returns how many were copied. Lines of src that
// cannot be loaded are not copied.
func Copy(dst, src Store) (int, error) {
	result, err := src.Load()
	if err != nil {
		return 0, err
	}
	for i, rec := range result.Records {
		if err := dst.Append(rec); err != nil {
			return i, err
		}
	}
	return len(result.Records), nil
}
