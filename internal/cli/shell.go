package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andy/contactbook/internal/domain"
	"github.com/andy/contactbook/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive menu: type commands like \"add\" or \"show all\"",
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := newShell(cmd.InOrStdin(), cmd.OutOrStdout(), appInstance.ContactService, appInstance.Config.Display.PageSize)
		sh.logger = appInstance.Logger
		return sh.Run(cmd.Context())
	},
}

type shellCommand int

const (
	cmdUnknown shellCommand = iota
	cmdAdd
	cmdChange
	cmdAppend
	cmdDeletePhone
	cmdDeleteContact
	cmdShowAll
	cmdShowDays
	cmdFind
	cmdHelp
	cmdHello
	cmdClear
	cmdExit
)

// shellTriggers maps lower-cased input lines to commands
var shellTriggers = map[string]shellCommand{
	"add":            cmdAdd,
	"change":         cmdChange,
	"append":         cmdAppend,
	"delete phone":   cmdDeletePhone,
	"delete contact": cmdDeleteContact,
	"show all":       cmdShowAll,
	"show dtb":       cmdShowDays,
	"find":           cmdFind,
	"help":           cmdHelp,
	"hello":          cmdHello,
	"hi":             cmdHello,
	"clear":          cmdClear,
	"cls":            cmdClear,
	"exit":           cmdExit,
	"quit":           cmdExit,
	"q":              cmdExit,
}

func parseShellCommand(line string) shellCommand {
	return shellTriggers[strings.ToLower(strings.TrimSpace(line))]
}

type shellHandler func(sh *shell, ctx context.Context) error

var shellHandlers map[shellCommand]shellHandler

func init() {
	shellHandlers = map[shellCommand]shellHandler{
		cmdAdd:           (*shell).add,
		cmdChange:        (*shell).change,
		cmdAppend:        (*shell).appendPhone,
		cmdDeletePhone:   (*shell).deletePhone,
		cmdDeleteContact: (*shell).deleteContact,
		cmdShowAll:       (*shell).showAll,
		cmdShowDays:      (*shell).showDays,
		cmdFind:          (*shell).find,
		cmdHelp:          (*shell).help,
		cmdHello:         (*shell).hello,
		cmdClear:         (*shell).clear,
		cmdExit:          (*shell).exit,
	}
}

// retryMessages holds the message printed before a prompt is repeated
var retryMessages = []struct {
	kind error
	msg  string
}{
	{domain.ErrNameInvalid, "Invalid name. Try again."},
	{domain.ErrPhoneInvalid, "Invalid phone number. Try again."},
	{domain.ErrBirthdayInvalid, "Invalid birth date. Try again."},
	{domain.ErrDuplicateName, "This name already exists. Try again."},
	{domain.ErrDuplicatePhone, "This number already exists. Try again."},
	{domain.ErrRecordNotFound, "There is no such contact in the book!"},
	{domain.ErrSelectionOutOfRange, "Choose one of the listed items!"},
}

func retryMessage(err error) (string, bool) {
	for _, m := range retryMessages {
		if errors.Is(err, m.kind) {
			return m.msg, true
		}
	}
	return "", false
}

var (
	errShellExit = errors.New("exit requested")
	errEmptyBook = errors.New("the contact book is empty")
)

const clearScreen = "\033[H\033[2J"

type shell struct {
	in       *bufio.Scanner
	out      io.Writer
	svc      service.ContactService
	pageSize int
	logger   *zap.Logger
}

func newShell(in io.Reader, out io.Writer, svc service.ContactService, pageSize int) *shell {
	if pageSize < 1 {
		pageSize = 1
	}
	return &shell{
		in:       bufio.NewScanner(in),
		out:      out,
		svc:      svc,
		pageSize: pageSize,
		logger:   zap.NewNop(),
	}
}

// Run reads commands until exit or end of input
func (sh *shell) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sh.greet()

	for {
		line, err := sh.readLine("Type \"hello\" or \"help\":\n>>>> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		command := parseShellCommand(line)
		handler, ok := shellHandlers[command]
		if !ok {
			fmt.Fprintln(sh.out, "---\nUnknown command!\n---")
			continue
		}

		err = handler(sh, ctx)
		switch {
		case err == nil:
		case errors.Is(err, errShellExit), errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, errEmptyBook):
			fmt.Fprintln(sh.out, "The contact book is empty!")
		default:
			sh.logger.Error("shell command failed", zap.String("command", line), zap.Error(err))
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		}
	}
}

func (sh *shell) readLine(prompt string) (string, error) {
	fmt.Fprint(sh.out, prompt)
	if !sh.in.Scan() {
		if err := sh.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(sh.in.Text()), nil
}

// ask repeats prompt until accept succeeds or fails with an error that has
// no retry message
func (sh *shell) ask(prompt string, accept func(input string) error) error {
	for {
		input, err := sh.readLine(prompt)
		if err != nil {
			return err
		}

		err = accept(input)
		if err == nil {
			return nil
		}
		msg, retry := retryMessage(err)
		if !retry {
			return err
		}
		sh.logger.Debug("input rejected", zap.Error(err))
		fmt.Fprintln(sh.out, msg)
	}
}

func parseChoice(input string) (int, error) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrSelectionOutOfRange, input)
	}
	return n, nil
}

// chooseRecord lists contacts and asks for a 1-based number
func (sh *shell) chooseRecord(prompt string) (*domain.Record, error) {
	records := sh.svc.List()
	if len(records) == 0 {
		return nil, errEmptyBook
	}
	for i, r := range records {
		fmt.Fprintf(sh.out, "%-3s -- %s;\n", strconv.Itoa(i+1)+".", r.Name())
	}

	var chosen *domain.Record
	err := sh.ask(prompt, func(input string) error {
		n, err := parseChoice(input)
		if err != nil {
			return err
		}
		chosen, err = sh.svc.SelectRecord(n)
		return err
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(sh.out, "Contact %q selected\n", chosen.Name().Value())
	return chosen, nil
}

// choosePhone lists a contact's phones and asks for a 1-based number.
// ok is false when the contact has no phones.
func (sh *shell) choosePhone(r *domain.Record, prompt string) (phone string, ok bool, err error) {
	phones := r.Phones()
	if len(phones) == 0 {
		fmt.Fprintf(sh.out, "%s has no phone numbers.\n", r.Name())
		return "", false, nil
	}
	for i, p := range phones {
		fmt.Fprintf(sh.out, "%d. -- %s;\n", i+1, p)
	}

	err = sh.ask(prompt, func(input string) error {
		n, err := parseChoice(input)
		if err != nil {
			return err
		}
		phone, err = sh.svc.SelectPhone(r, n)
		return err
	})
	return phone, err == nil, err
}

func (sh *shell) add(ctx context.Context) error {
	fmt.Fprintln(sh.out, "--- New contact ---")

	var name, phone, birthday string
	err := sh.ask("Name: ", func(input string) (err error) {
		name, err = sh.svc.ValidateName(input)
		return err
	})
	if err != nil {
		return err
	}

	err = sh.ask("Phone (Enter to skip): ", func(input string) error {
		phone = input
		if input == "" {
			return nil
		}
		_, err := domain.NewPhone(input)
		return err
	})
	if err != nil {
		return err
	}

	err = sh.ask("Birthday dd.mm.yyyy (Enter to skip): ", func(input string) error {
		birthday = input
		return sh.svc.ValidateBirthday(input)
	})
	if err != nil {
		return err
	}

	r, err := sh.svc.Add(ctx, name, phone, birthday)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Contact %q added\n---***---\n", r.Name().Value())
	return nil
}

func (sh *shell) change(ctx context.Context) error {
	fmt.Fprintln(sh.out, "--- Change a phone number ---")
	r, err := sh.chooseRecord("Contact number: ")
	if err != nil {
		return err
	}
	old, ok, err := sh.choosePhone(r, "Phone to change: ")
	if !ok {
		return err
	}
	fmt.Fprintf(sh.out, "Phone %q selected\n", old)

	var updated string
	err = sh.ask("New phone: ", func(input string) error {
		updated = input
		return sh.svc.ChangePhone(ctx, r.Name().Value(), old, input)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Phone %q changed to %q\n---***---\n", old, updated)
	return nil
}

func (sh *shell) appendPhone(ctx context.Context) error {
	fmt.Fprintln(sh.out, "--- Add a phone number ---")
	r, err := sh.chooseRecord("Contact number: ")
	if err != nil {
		return err
	}

	var phone string
	err = sh.ask("Phone: ", func(input string) error {
		phone = input
		return sh.svc.AppendPhone(ctx, r.Name().Value(), input)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Phone %q added to %q\n---***---\n", phone, r.Name().Value())
	return nil
}

func (sh *shell) deletePhone(ctx context.Context) error {
	fmt.Fprintln(sh.out, "--- Delete a phone number ---")
	r, err := sh.chooseRecord("Contact number: ")
	if err != nil {
		return err
	}
	phone, ok, err := sh.choosePhone(r, "Phone to delete: ")
	if !ok {
		return err
	}

	if err := sh.svc.DeletePhone(ctx, r.Name().Value(), phone); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Phone %q deleted from %q\n---***---\n", phone, r.Name().Value())
	return nil
}

func (sh *shell) deleteContact(ctx context.Context) error {
	fmt.Fprintln(sh.out, "--- Delete a contact ---")
	r, err := sh.chooseRecord("Contact number to delete: ")
	if err != nil {
		return err
	}

	if err := sh.svc.Delete(ctx, r.Name().Value()); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Contact %q deleted\n---***---\n", r.Name().Value())
	return nil
}

func (sh *shell) showAll(ctx context.Context) error {
	fmt.Fprintln(sh.out, "--- All contacts ---")
	pages, err := sh.svc.Pages(sh.pageSize)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return errEmptyBook
	}

	for i, page := range pages {
		fmt.Fprintf(sh.out, "Page %d/%d\n", i+1, len(pages))
		for _, r := range page {
			fmt.Fprintln(sh.out, describeRecord(r))
		}
		fmt.Fprintln(sh.out, "----")
	}
	return nil
}

func (sh *shell) showDays(ctx context.Context) error {
	fmt.Fprintln(sh.out, "--- Days to birthday ---")
	r, err := sh.chooseRecord("Contact number: ")
	if err != nil {
		return err
	}

	days, err := sh.svc.DaysToBirthday(r.Name().Value())
	if errors.Is(err, domain.ErrBirthdayAbsent) {
		fmt.Fprintln(sh.out, "No birth date recorded.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%d day(s) left until the birthday.\n---***---\n", days)
	return nil
}

func (sh *shell) find(ctx context.Context) error {
	if sh.svc.Count() == 0 {
		return errEmptyBook
	}

	var search func(string) []*domain.Record
	err := sh.ask("Search by:\n1) name;\n2) phone number;\n>>>> ", func(input string) error {
		switch input {
		case "1":
			search = sh.svc.FindByName
		case "2":
			search = sh.svc.FindByPhone
		default:
			return fmt.Errorf("%w: %q", domain.ErrSelectionOutOfRange, input)
		}
		return nil
	})
	if err != nil {
		return err
	}

	fragment, err := sh.readLine("Fragment to look for: ")
	if err != nil {
		return err
	}
	for _, r := range search(fragment) {
		fmt.Fprintf(sh.out, "Found: %s\n-----\n", describeRecord(r))
	}
	fmt.Fprintln(sh.out, "--- Search finished ---")
	return nil
}

func (sh *shell) help(ctx context.Context) error {
	fmt.Fprint(sh.out, `---
Available commands:
add - add a contact
show all - list every contact
show dtb - days until a contact's birthday
change - change a phone number
append - add a phone number
delete phone - delete a phone number
delete contact - delete a contact
find - search by name or phone
hello, hi - greeting
clear, cls - clear the screen
help - this help
exit, quit, q - leave
---
`)
	return nil
}

func (sh *shell) greet() {
	fmt.Fprintln(sh.out, "---\nWelcome to the contact book!\nHow can I help?")
}

func (sh *shell) hello(ctx context.Context) error {
	fmt.Fprint(sh.out, clearScreen)
	sh.greet()
	return nil
}

func (sh *shell) clear(ctx context.Context) error {
	fmt.Fprint(sh.out, clearScreen)
	return nil
}

func (sh *shell) exit(ctx context.Context) error {
	fmt.Fprintln(sh.out, "Goodbye!")
	return errShellExit
}

func describeRecord(r *domain.Record) string {
	phones := strings.Join(r.Phones(), ", ")
	if phones == "" {
		phones = "no phone"
	}
	birthday := r.Birthday().Value()
	if birthday == "" {
		birthday = "not set"
	}
	return fmt.Sprintf("%s - %s; %s", r.Name(), phones, birthday)
}
