package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"moneygement/internal/core"
	"moneygement/internal/services"
	"moneygement/internal/session"
)

// prompt is the interactive front end standing in for a presentation
// layer: it parses commands, calls the service, and renders success or
// error text. All domain rules live behind the service.
type prompt struct {
	svc     *services.Service
	session *session.Session
	in      io.Reader
	out     io.Writer
	scanner *bufio.Scanner
}

func newPrompt(svc *services.Service, sess *session.Session, in io.Reader, out io.Writer) *prompt {
	return &prompt{
		svc:     svc,
		session: sess,
		in:      in,
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

func (p *prompt) run(ctx context.Context) error {
	fmt.Fprintln(p.out, "moneygement - type 'help' for commands")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(p.out, "> ")
		line, err := p.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := p.dispatch(ctx, cmd, args); err != nil {
			fmt.Fprintf(p.out, "error: %s\n", userMessage(err))
		}
	}
}

func (p *prompt) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		p.printHelp()
		return nil
	case "register":
		return p.register(ctx)
	case "login":
		return p.login(ctx)
	case "logout":
		p.svc.Logout()
		fmt.Fprintln(p.out, "logged out")
		return nil
	case "whoami":
		return p.whoami(ctx)
	case "profile":
		return p.updateProfile(ctx)
	case "delete-account":
		return p.deleteAccount(ctx)
	case "add":
		return p.addExpense(ctx)
	case "list":
		return p.listExpenses(ctx)
	case "update":
		return p.updateExpense(ctx, args)
	case "delete":
		return p.deleteExpense(ctx, args)
	case "category":
		return p.searchByCategory(ctx, args)
	case "date":
		return p.searchByDate(ctx, args)
	case "avg":
		return p.monthlyAverage(ctx, args)
	case "total":
		return p.annualTotal(ctx, args)
	default:
		fmt.Fprintf(p.out, "unknown command %q, type 'help'\n", cmd)
		return nil
	}
}

func (p *prompt) printHelp() {
	fmt.Fprint(p.out, `commands:
  register                 create an account
  login                    authenticate and start a session
  logout                   end the session
  whoami                   show the logged-in user
  profile                  update the logged-in user's profile
  delete-account           delete the logged-in user
  add                      record an expense
  list                     list your expenses
  update <id>              rewrite an expense
  delete <id>              delete an expense
  category <name>          search expenses by category
  date <yyyy-mm-ddThh:mm:ss>  search expenses by exact date
  avg <year> <month>       average spent in a month
  total <year>             total spent in a year
  quit                     exit
`)
}

func (p *prompt) register(ctx context.Context) error {
	firstName, err := p.ask("first name: ")
	if err != nil {
		return err
	}
	lastName, err := p.ask("last name: ")
	if err != nil {
		return err
	}
	email, err := p.ask("email: ")
	if err != nil {
		return err
	}
	age, err := p.askInt("age: ")
	if err != nil {
		return err
	}
	password, err := p.askPassword("password: ")
	if err != nil {
		return err
	}

	u, err := p.svc.RegisterUser(ctx, firstName, lastName, email, password, age)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "registered %s (id %d)\n", u.Email(), u.ID())
	return nil
}

func (p *prompt) login(ctx context.Context) error {
	email, err := p.ask("email: ")
	if err != nil {
		return err
	}
	password, err := p.askPassword("password: ")
	if err != nil {
		return err
	}

	u, err := p.svc.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "welcome back, %s %s\n", u.FirstName(), u.LastName())
	return nil
}

func (p *prompt) whoami(ctx context.Context) error {
	u, err := p.svc.FindCurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "%s %s <%s>, age %d (id %d)\n",
		u.FirstName(), u.LastName(), u.Email(), u.Age(), u.ID())
	return nil
}

func (p *prompt) updateProfile(ctx context.Context) error {
	firstName, err := p.ask("first name: ")
	if err != nil {
		return err
	}
	lastName, err := p.ask("last name: ")
	if err != nil {
		return err
	}
	email, err := p.ask("email: ")
	if err != nil {
		return err
	}
	age, err := p.askInt("age: ")
	if err != nil {
		return err
	}
	password, err := p.askPassword("password: ")
	if err != nil {
		return err
	}

	if _, err := p.svc.UpdateProfile(ctx, firstName, lastName, email, password, age); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "profile updated")
	return nil
}

func (p *prompt) deleteAccount(ctx context.Context) error {
	confirm, err := p.ask("type 'yes' to delete your account: ")
	if err != nil {
		return err
	}
	if confirm != "yes" {
		fmt.Fprintln(p.out, "aborted")
		return nil
	}
	if err := p.svc.DeleteCurrentUser(ctx); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "account deleted")
	return nil
}

func (p *prompt) addExpense(ctx context.Context) error {
	name, category, description, amount, date, err := p.askExpenseFields()
	if err != nil {
		return err
	}

	e, err := p.svc.AddExpense(ctx, name, category, description, amount, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "saved expense %d\n", e.ID())
	return nil
}

func (p *prompt) listExpenses(ctx context.Context) error {
	expenses, err := p.svc.ListExpenses(ctx)
	if err != nil {
		return err
	}
	p.printExpenses(expenses)
	return nil
}

func (p *prompt) updateExpense(ctx context.Context, args []string) error {
	id, err := argID(args)
	if err != nil {
		return err
	}
	name, category, description, amount, date, err := p.askExpenseFields()
	if err != nil {
		return err
	}

	if err := p.svc.UpdateExpense(ctx, id, name, category, description, amount, date); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "updated expense %d\n", id)
	return nil
}

func (p *prompt) deleteExpense(ctx context.Context, args []string) error {
	id, err := argID(args)
	if err != nil {
		return err
	}
	if err := p.svc.DeleteExpense(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "deleted expense %d\n", id)
	return nil
}

func (p *prompt) searchByCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: category <name>")
	}
	category, err := core.ParseCategory(args[0])
	if err != nil {
		return err
	}

	expenses, err := p.svc.SearchExpensesByCategory(ctx, category)
	if err != nil {
		return err
	}
	p.printExpenses(expenses)
	return nil
}

func (p *prompt) searchByDate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: date <yyyy-mm-ddThh:mm:ss>")
	}
	date, err := core.ParseDate(args[0])
	if err != nil {
		return err
	}

	expenses, err := p.svc.SearchExpensesByDate(ctx, date)
	if err != nil {
		return err
	}
	p.printExpenses(expenses)
	return nil
}

func (p *prompt) monthlyAverage(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: avg <year> <month>")
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil || month < 1 || month > 12 {
		return fmt.Errorf("invalid month %q", args[1])
	}

	avg, err := p.svc.MonthlyAverage(ctx, year, time.Month(month))
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "average for %04d-%02d: %.2f\n", year, month, avg)
	return nil
}

func (p *prompt) annualTotal(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: total <year>")
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q", args[0])
	}

	total, err := p.svc.AnnualTotal(ctx, year)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "total for %04d: %.2f\n", year, total)
	return nil
}

func (p *prompt) askExpenseFields() (string, core.Category, string, float64, time.Time, error) {
	var zero time.Time

	name, err := p.ask("name: ")
	if err != nil {
		return "", "", "", 0, zero, err
	}

	names := make([]string, 0, len(core.AllCategories()))
	for _, c := range core.AllCategories() {
		names = append(names, c.String())
	}
	catInput, err := p.ask("category (" + strings.Join(names, ", ") + "): ")
	if err != nil {
		return "", "", "", 0, zero, err
	}
	category, err := core.ParseCategory(catInput)
	if err != nil {
		return "", "", "", 0, zero, err
	}

	description, err := p.ask("description: ")
	if err != nil {
		return "", "", "", 0, zero, err
	}

	amountInput, err := p.ask("amount: ")
	if err != nil {
		return "", "", "", 0, zero, err
	}
	amount, err := strconv.ParseFloat(amountInput, 64)
	if err != nil {
		return "", "", "", 0, zero, fmt.Errorf("invalid amount %q", amountInput)
	}

	dateInput, err := p.ask("date (yyyy-mm-ddThh:mm:ss, empty for now): ")
	if err != nil {
		return "", "", "", 0, zero, err
	}
	date := time.Now()
	if dateInput != "" {
		date, err = core.ParseDate(dateInput)
		if err != nil {
			return "", "", "", 0, zero, err
		}
	}

	return name, category, description, amount, date, nil
}

func (p *prompt) printExpenses(expenses []*core.Expense) {
	for _, e := range expenses {
		fmt.Fprintf(p.out, "%4d  %-12s %-20s %8.2f  %s\n",
			e.ID(), e.Category().String(), e.Name(), e.Amount(), core.FormatDate(e.Date()))
	}
	fmt.Fprintf(p.out, "%d expense(s)\n", len(expenses))
}

func (p *prompt) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *prompt) askInt(label string) (int, error) {
	s, err := p.ask(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

// askPassword reads without echo when stdin is a terminal, falling back
// to a plain line read for pipes and tests.
func (p *prompt) askPassword(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if f, ok := p.in.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}
	return p.readLine()
}

func (p *prompt) readLine() (string, error) {
	if p.scanner.Scan() {
		return p.scanner.Text(), nil
	}
	if err := p.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func argID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one id argument")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// userMessage maps the error taxonomy to presentation text.
func userMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrNoActiveUser):
		return "you must log in first"
	case errors.Is(err, core.ErrAuthenticationFailed):
		return "invalid email or password"
	case errors.Is(err, core.ErrUserAlreadyExists):
		return "that email is already registered, pick another"
	case errors.Is(err, core.ErrNotFound):
		return "nothing found"
	case errors.Is(err, core.ErrInvalidData):
		return err.Error()
	case errors.Is(err, core.ErrStorageFailure):
		return "storage error, see logs"
	default:
		return err.Error()
	}
}
