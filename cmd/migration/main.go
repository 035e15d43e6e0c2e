package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"gitlab.com/dirk.krummacker/addressbook/internal/config"
	"gitlab.com/dirk.krummacker/addressbook/internal/logger"
	"gitlab.com/dirk.krummacker/addressbook/internal/store"
)

// Usage example on the command line:
// > ADDRESSBOOK_STORAGE_DSN='dirk:bullo92@tcp(localhost:3306)/addressbook' go run main.go \
// >   --file=../../scripts/contacts.sql --wait=1m --import=../../book.txt
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("migration", pflag.ContinueOnError)
	configPath := flags.String("config", "", "config file")
	flags.String("dsn", "", "data source name of the mysql database")
	flags.String("log-level", "", "log from debug, info, warn or error")
	file := flags.String("file", "scripts/contacts.sql", "the sql file to execute")
	wait := flags.Duration("wait", 0, "wait this long for the database to become available")
	importPath := flags.String("import", "", "address book file to copy into the database")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		return err
	}
	log, closer := logger.New(&cfg.Log)
	defer closer.Close()
	if cfg.Storage.DSN == "" {
		return fmt.Errorf("migration: no dsn given")
	}

	sqlDB, err := store.ConnectSQL(cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if *wait > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), *wait)
		defer cancel()
		if err := store.WaitUntilAvailable(ctx, sqlDB, 5*time.Second, log); err != nil {
			return err
		}
	}

	script, err := os.Open(*file) // nosemgrep
	if err != nil {
		return err
	}
	defer script.Close()
	statements, err := store.Migrate(sqlDB, script, log)
	if err != nil {
		return err
	}
	fmt.Printf("Executed %d statements from %s\n", statements, *file)

	if *importPath == "" {
		return nil
	}
	dst, err := store.NewSQLStore(sqlDB, log)
	if err != nil {
		return err
	}
	count, err := store.Copy(dst, store.NewFileStore(*importPath, log))
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d records from %s\n", count, *importPath)
	return nil
}
