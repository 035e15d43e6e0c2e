package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/addressbook/internal/config"
	"gitlab.com/dirk.krummacker/addressbook/internal/logger"
	"gitlab.com/dirk.krummacker/addressbook/internal/menu"
	"gitlab.com/dirk.krummacker/addressbook/internal/model"
	"gitlab.com/dirk.krummacker/addressbook/internal/page"
	"gitlab.com/dirk.krummacker/addressbook/internal/search"
	"gitlab.com/dirk.krummacker/addressbook/internal/store"
	"gitlab.com/dirk.krummacker/addressbook/internal/validate"
)

// app carries what the commands share once the flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	closers    []io.Closer
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "addressbook",
		Short:        "Keep a small address book in a text file",
		Long:         "Without a subcommand the address book starts an interactive menu on the terminal.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			m, err := menu.New(menu.Options{
				In:       cmd.InOrStdin(),
				Out:      cmd.OutOrStdout(),
				Store:    s,
				PageSize: a.cfg.PageSize,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			if err := m.Run(); err != nil {
				a.logger.Error("menu failed", "err", err)
				return err
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: addressbook.yaml in ., $XDG_CONFIG_HOME/addressbook or ~/.config/addressbook)")
	flags.String("storage", "", "path of the address book file")
	flags.String("driver", "", "storage driver, file or mysql")
	flags.String("dsn", "", "data source name for the mysql driver")
	flags.Int("page-size", 0, "records per page")
	flags.String("log-level", "", "log from debug, info, warn or error")
	flags.String("log-file", "", "append logs to file, - for stderr")
	flags.String("log-format", "", "format logs as text or json")

	root.AddCommand(
		a.newListCommand(),
		a.newSearchCommand(),
		a.newAddCommand(),
		a.newConfigCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	log, closer := logger.New(&cfg.Log)
	a.logger = log
	a.closers = append(a.closers, closer)
	return nil
}

func (a *app) openStore() (store.Store, error) {
	s, err := store.Open(a.cfg.Storage, a.logger)
	if err != nil {
		a.logger.Error("could not open store", "driver", a.cfg.Storage.Driver, "err", err)
		return nil, err
	}
	if closer, ok := s.(io.Closer); ok {
		a.closers = append(a.closers, closer)
	}
	return s, nil
}

// close releases the store and the log file in reverse order of opening.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
	a.closers = nil
}

func (a *app) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all records page by page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			result, err := s.Load()
			if err != nil {
				return err
			}
			warnSkipped(cmd, result.Skipped)
			if len(result.Records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No data.")
				return nil
			}
			return render(cmd, result.Records, a.cfg.PageSize)
		},
	}
}

func (a *app) newSearchCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print the records matching the given fields, ignoring case",
		Long: "A field flag that is given, even with an empty value, must match. " +
			"A record without a value for that field matches as well.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := recordFromFlags(cmd)
			if search.IsEmpty(query) && !all {
				return errors.New("no field given; use --all to print every record")
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			result, err := s.Load()
			if err != nil {
				return err
			}
			warnSkipped(cmd, result.Skipped)
			found := search.Filter(result.Records, query)
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d matches:\n", len(found))
			return render(cmd, found, a.cfg.PageSize)
		},
	}
	addFieldFlags(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "allow a search without fields, matching every record")
	return cmd
}

func (a *app) newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a record given by flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec := recordFromFlags(cmd)
			if err := validate.New().Record(rec); err != nil {
				return err
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			if err := s.Append(rec); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Record added.")
			return nil
		},
	}
	addFieldFlags(cmd)
	return cmd
}

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "addressbook.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := a.cfg.Write(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})
	return cmd
}

// flagName returns the command line flag of a field, e.g. working-phone.
func flagName(f model.Field) string {
	return strings.ReplaceAll(f.Key(), "_", "-")
}

func addFieldFlags(cmd *cobra.Command) {
	for _, f := range model.Fields {
		cmd.Flags().String(flagName(f), "", f.Title())
	}
}

// recordFromFlags sets every field whose flag was given on the command line.
func recordFromFlags(cmd *cobra.Command) *model.Record {
	rec := &model.Record{}
	for _, f := range model.Fields {
		flag := cmd.Flags().Lookup(flagName(f))
		if flag != nil && flag.Changed {
			rec.Set(f, flag.Value.String())
		}
	}
	return rec
}

func render(cmd *cobra.Command, records []*model.Record, size int) error {
	pages, err := page.Paginate(records, size)
	if err != nil {
		return err
	}
	page.NewRenderer(cmd.OutOrStdout()).Render(pages)
	return nil
}

func warnSkipped(cmd *cobra.Command, skipped []store.SkippedLine) {
	for _, line := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped %s\n", line)
	}
}
