package menu

import (
	"fmt"
	"strconv"

	"gitlab.com/dirk.krummacker/addressbook/internal/editor"
	"gitlab.com/dirk.krummacker/addressbook/internal/model"
	"gitlab.com/dirk.krummacker/addressbook/internal/page"
	"gitlab.com/dirk.krummacker/addressbook/internal/search"
)

func (m *Menu) list() error {
	result, err := m.store.Load()
	if err != nil {
		return err
	}
	m.reportSkipped(result.Skipped)
	if len(result.Records) == 0 {
		fmt.Fprintln(m.out, "No data.")
		return nil
	}
	return m.show(result.Records)
}

func (m *Menu) add() error {
	for {
		rec := &model.Record{}
		for _, f := range model.Fields {
			value, err := m.readValid(f.Title()+": ", func(s string) error {
				return m.validator.Field(f, s)
			})
			if err != nil {
				return err
			}
			rec.Set(f, value)
		}
		if err := m.store.Append(rec); err != nil {
			return err
		}
		fmt.Fprintln(m.out, "Record added.")

		again, err := m.readYesNo("Add another record?")
		if err != nil || !again {
			return err
		}
	}
}

func (m *Menu) edit() error {
	session, err := editor.NewSession(m.store)
	if err != nil {
		return err
	}
	if session.Len() == 0 {
		fmt.Fprintln(m.out, "No data.")
		return nil
	}
	if skipped := session.Skipped(); len(skipped) > 0 {
		m.reportSkipped(skipped)
		fmt.Fprintln(m.out, "Saving changes will remove the skipped lines.")
		m.logger.Warn("editing drops malformed lines", "lines", len(skipped))
	}

	for {
		if err := m.show(session.Records()); err != nil {
			return err
		}
		n, rec, err := m.readRecordNumber(session)
		if err != nil {
			return err
		}
		fmt.Fprintln(m.out, "Record being edited:")
		fmt.Fprintln(m.out, page.Header())
		fmt.Fprintln(m.out, page.Row(rec))

		fmt.Fprintln(m.out, "Fields to change:")
		m.printFieldMenu()
		fields, err := m.readFields(false)
		if err != nil {
			return err
		}
		changes := make([]editor.Change, 0, len(fields))
		for _, f := range fields {
			value, err := m.readValid("New value for "+f.Title()+": ", func(s string) error {
				return m.validator.Field(f, s)
			})
			if err != nil {
				return err
			}
			changes = append(changes, editor.Change{Field: f, Value: value})
		}
		if err := session.Edit(n, changes...); err != nil {
			return err
		}
		if err := session.Save(); err != nil {
			return err
		}
		fmt.Fprintln(m.out, "Record saved.")

		again, err := m.readYesNo("Edit another record?")
		if err != nil || !again {
			return err
		}
	}
}

// readRecordNumber asks for a record number shown by the last listing.
func (m *Menu) readRecordNumber(session *editor.Session) (int, *model.Record, error) {
	for {
		line, err := m.readLine(fmt.Sprintf("Record number (1-%d): ", session.Len()))
		if err != nil {
			return 0, nil, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(m.out, "Enter a number.")
			continue
		}
		rec, err := session.Select(n)
		if err != nil {
			fmt.Fprintln(m.out, "No record with this number.")
			continue
		}
		return n, rec, nil
	}
}

func (m *Menu) search() error {
	result, err := m.store.Load()
	if err != nil {
		return err
	}
	m.reportSkipped(result.Skipped)
	if len(result.Records) == 0 {
		fmt.Fprintln(m.out, "No data.")
		return nil
	}

	for {
		fmt.Fprintln(m.out, "Search by:")
		m.printFieldMenu()
		fmt.Fprintln(m.out, "Leave empty to return to the main menu.")
		fields, err := m.readFields(true)
		if err != nil || len(fields) == 0 {
			return err
		}

		query := &model.Record{}
		for _, f := range fields {
			value, err := m.readLine(f.Title() + ": ")
			if err != nil {
				return err
			}
			query.Set(f, value)
		}

		found := search.Filter(result.Records, query)
		m.logger.Debug("search finished", "fields", len(fields), "matches", len(found))
		if len(found) == 0 {
			fmt.Fprintln(m.out, "No matches.")
		} else {
			fmt.Fprintf(m.out, "Found %d matches:\n", len(found))
			if err := m.show(found); err != nil {
				return err
			}
		}

		again, err := m.readYesNo("Search again?")
		if err != nil || !again {
			return err
		}
	}
}
