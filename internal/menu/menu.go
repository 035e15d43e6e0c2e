package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"gitlab.com/dirk.krummacker/addressbook/internal/model"
	"gitlab.com/dirk.krummacker/addressbook/internal/page"
	"gitlab.com/dirk.krummacker/addressbook/internal/store"
	"gitlab.com/dirk.krummacker/addressbook/internal/validate"
)

var (
	// ErrInvalidChoice is returned for input that is not one of the offered menu items.
	ErrInvalidChoice = errors.New("menu: invalid choice")

	// ErrInputClosed is returned when the input ends while the menu waits for an answer.
	ErrInputClosed = errors.New("menu: input closed")
)

// Action is an item of the main menu.
type Action int

const (
	ActionExit Action = iota
	ActionList
	ActionAdd
	ActionEdit
	ActionSearch
)

// actions lists the main menu items in the order they are shown.
var actions = []Action{ActionExit, ActionList, ActionAdd, ActionEdit, ActionSearch}

var actionTitles = map[Action]string{
	ActionExit:   "Exit",
	ActionList:   "List records",
	ActionAdd:    "Add a record",
	ActionEdit:   "Edit records",
	ActionSearch: "Search records",
}

func (a Action) String() string {
	if title, ok := actionTitles[a]; ok {
		return title
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Options configure a Menu.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Store    store.Store
	PageSize int
	Logger   *slog.Logger
}

// Menu is the interactive front end of the address book. It reads answers line by line from
// its input and writes prompts and results to its output.
type Menu struct {
	in        *bufio.Scanner
	out       io.Writer
	store     store.Store
	pageSize  int
	logger    *slog.Logger
	validator *validate.Validator
	renderer  *page.Renderer
	handlers  map[Action]func() error
}

// New checks options and returns a menu ready to Run. A nil logger discards log output.
func New(options Options) (*Menu, error) {
	if options.In == nil || options.Out == nil || options.Store == nil {
		return nil, errors.New("menu: input, output and store are required")
	}
	if options.PageSize < 1 {
		return nil, page.ErrInvalidSize
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Menu{
		in:        bufio.NewScanner(options.In),
		out:       options.Out,
		store:     options.Store,
		pageSize:  options.PageSize,
		logger:    logger,
		validator: validate.New(),
		renderer:  page.NewRenderer(options.Out),
	}
	m.handlers = map[Action]func() error{
		ActionList:   m.list,
		ActionAdd:    m.add,
		ActionEdit:   m.edit,
		ActionSearch: m.search,
	}
	return m, nil
}

// Run shows the main menu until the user exits or the input ends. Storage failures end the
// current operation only; any other error ends the loop and is returned.
func (m *Menu) Run() error {
	for {
		m.printMainMenu()
		action, err := m.readAction()
		if errors.Is(err, ErrInvalidChoice) {
			fmt.Fprintln(m.out, "Choose a valid menu item.")
			continue
		}
		if errors.Is(err, ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if action == ActionExit {
			return nil
		}

		m.logger.Debug("menu action", "action", action.String())
		err = m.handlers[action]()
		switch {
		case err == nil:
		case errors.Is(err, ErrInputClosed):
			return nil
		case errors.Is(err, store.ErrIO), errors.Is(err, store.ErrDelimiter):
			m.logger.Error("operation failed", "action", action.String(), "err", err)
			fmt.Fprintf(m.out, "Operation failed: %v\n", err)
		default:
			return fmt.Errorf("menu: %s: %w", action, err)
		}
	}
}

func (m *Menu) printMainMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "Address book, available operations:")
	fmt.Fprintln(m.out)
	for _, a := range actions {
		fmt.Fprintf(m.out, "%d - %s\n", a, a)
	}
	fmt.Fprintln(m.out)
}

func (m *Menu) readAction() (Action, error) {
	line, err := m.readLine("Choose a menu item: ")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, ErrInvalidChoice
	}
	action := Action(n)
	if _, ok := actionTitles[action]; !ok {
		return 0, ErrInvalidChoice
	}
	return action, nil
}

// readLine prints prompt and returns the next input line without surrounding blanks.
func (m *Menu) readLine(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("menu: reading input: %w", err)
		}
		fmt.Fprintln(m.out)
		return "", ErrInputClosed
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// readValid asks until check accepts the answer.
func (m *Menu) readValid(prompt string, check func(string) error) (string, error) {
	for {
		value, err := m.readLine(prompt)
		if err != nil {
			return "", err
		}
		if err := check(value); err != nil {
			fmt.Fprintf(m.out, "Invalid value: %v.\n", err)
			continue
		}
		return value, nil
	}
}

// readYesNo asks a yes/no question until it gets an answer.
func (m *Menu) readYesNo(question string) (bool, error) {
	for {
		answer, err := m.readLine(question + " (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(m.out, "Please answer y or n.")
	}
}

func (m *Menu) printFieldMenu() {
	for _, f := range model.Fields {
		fmt.Fprintf(m.out, "%d - %s\n", int(f), f.Title())
	}
	fmt.Fprintln(m.out, "Several items can be chosen, separated by blanks.")
}

// readFields asks for a blank separated list of field numbers. Duplicates are dropped and the
// order of the answer is kept. An empty answer returns no fields if allowEmpty is set and is
// asked again otherwise.
func (m *Menu) readFields(allowEmpty bool) ([]model.Field, error) {
	for {
		line, err := m.readLine("Choose item(s): ")
		if err != nil {
			return nil, err
		}
		if line == "" {
			if allowEmpty {
				return nil, nil
			}
			continue
		}
		fields, err := parseFields(line)
		if err != nil {
			fmt.Fprintln(m.out, "Choose valid items.")
			continue
		}
		return fields, nil
	}
}

func parseFields(line string) ([]model.Field, error) {
	var fields []model.Field
	seen := map[model.Field]bool{}
	for _, token := range strings.Fields(line) {
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, ErrInvalidChoice
		}
		f := model.Field(n)
		if !f.Valid() {
			return nil, ErrInvalidChoice
		}
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// show prints records page by page.
func (m *Menu) show(records []*model.Record) error {
	pages, err := page.Paginate(records, m.pageSize)
	if err != nil {
		return err
	}
	m.renderer.Render(pages)
	return nil
}

func (m *Menu) reportSkipped(skipped []store.SkippedLine) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(m.out, "Warning: %d malformed line(s) in the address book were skipped.\n", len(skipped))
}
