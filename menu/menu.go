package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bank-ledger/logger"
	"bank-ledger/service"

	"github.com/shopspring/decimal"
)

// ExitKeyword returns the user to the previous menu.
const ExitKeyword = "exit"

type userAction int

const (
	actionDeposit userAction = iota + 1
	actionWithdrawal
	actionCheckBalance
	actionViewTransactions
	actionLogOut
	actionDeleteLedger
)

// Menu drives the interactive console session against the ledger service.
// It owns all prompt formatting and input retries; business rules stay in
// the service. Reader and writer are injected so tests can script a
// session.
type Menu struct {
	ledger *service.LedgerService
	in     *bufio.Scanner
	out    io.Writer
}

func New(ledger *service.LedgerService, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		ledger: ledger,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run loops over the menus until the input is exhausted or ctx is
// cancelled. Account data lives only in memory, so returning ends the
// ledger's life.
func (m *Menu) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		option, ok := m.initialAction()
		if !ok {
			return nil
		}

		if option == 2 {
			if !m.createAccount() {
				return nil
			}
			continue
		}

		if !m.logIn() {
			return nil
		}

		for ctx.Err() == nil && m.ledger.IsLoggedIn() {
			action, ok := m.accountAction()
			if !ok {
				return nil
			}
			if !m.dispatch(action) {
				return nil
			}
		}
	}
	return ctx.Err()
}

func (m *Menu) dispatch(action userAction) bool {
	switch action {
	case actionDeposit:
		return m.deposit()
	case actionWithdrawal:
		return m.withdraw()
	case actionCheckBalance:
		m.checkBalance()
	case actionViewTransactions:
		m.printTransactions()
	case actionLogOut:
		m.logOut()
	case actionDeleteLedger:
		fmt.Fprintln(m.out, "Deleting the ledger is not supported.")
		fmt.Fprintln(m.out)
	}
	return true
}

// initialAction prompts until the user picks logging in (1) or creating an
// account (2).
func (m *Menu) initialAction() (int, bool) {
	fmt.Fprintln(m.out, "Welcome to the bank ledger. Please choose one of the following options:")
	m.printInitialOptions()
	for {
		line, ok := m.readLine()
		if !ok {
			return 0, false
		}
		if line == "1" || line == "2" {
			return int(line[0] - '0'), true
		}
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Invalid option selected. Please choose one of the following options:")
		m.printInitialOptions()
	}
}

func (m *Menu) printInitialOptions() {
	fmt.Fprintln(m.out, "1: Log in")
	fmt.Fprintln(m.out, "2: Create a new account")
}

// accountAction prompts until the user picks a valid account operation.
func (m *Menu) accountAction() (userAction, bool) {
	username, _ := m.ledger.CurrentUsername()
	fmt.Fprintf(m.out, "Welcome %s! Please choose one of the following options:\n", username)
	m.printAccountOptions()
	for {
		line, ok := m.readLine()
		if !ok {
			return 0, false
		}
		if len(line) == 1 && line[0] >= '1' && line[0] <= '6' {
			fmt.Fprintln(m.out)
			return userAction(line[0] - '0'), true
		}
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Invalid option selected. Please choose one of the following options:")
		m.printAccountOptions()
	}
}

func (m *Menu) printAccountOptions() {
	fmt.Fprintln(m.out, "1: Make a deposit")
	fmt.Fprintln(m.out, "2: Make a withdrawal")
	fmt.Fprintln(m.out, "3: Check current balance")
	fmt.Fprintln(m.out, "4: View transaction history")
	fmt.Fprintln(m.out, "5: Log out")
	fmt.Fprintln(m.out, "6: Delete the ledger")
}

// logIn prompts for credentials until a login succeeds or the user types
// the exit keyword.
func (m *Menu) logIn() bool {
	fmt.Fprintln(m.out)
	fmt.Fprintf(m.out, "Enter your username (or %q to return to the main menu):\n", ExitKeyword)
	for {
		username, ok := m.readLine()
		if !ok {
			return false
		}
		if strings.EqualFold(username, ExitKeyword) {
			fmt.Fprintln(m.out, "Returning to main menu...")
			fmt.Fprintln(m.out)
			return true
		}

		fmt.Fprintln(m.out, "Enter your password:")
		password, ok := m.readLine()
		if !ok {
			return false
		}

		loggedIn, err := m.ledger.LogIn(username, password)
		if err != nil {
			logger.Log.WithError(err).Error("Login failed")
		}
		if loggedIn {
			fmt.Fprintln(m.out)
			return true
		}

		fmt.Fprintln(m.out, "Invalid username/password combination, or account does not exist. Please try again.")
		fmt.Fprintf(m.out, "If you need to create an account, type %q to return to the main menu.\n", ExitKeyword)
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Enter your username:")
	}
}

// createAccount prompts for a free username and a twice-entered password,
// then registers the account.
func (m *Menu) createAccount() bool {
	fmt.Fprintln(m.out)
	fmt.Fprintf(m.out, "Enter your desired username (or %q to return to the main menu):\n", ExitKeyword)

	var username string
	for {
		line, ok := m.readLine()
		if !ok {
			return false
		}
		if strings.EqualFold(line, ExitKeyword) {
			fmt.Fprintln(m.out)
			return true
		}

		exists, err := m.ledger.AccountExists(line)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid username. Please enter a different username:")
			continue
		}
		if exists {
			fmt.Fprintf(m.out, "Username %s is already taken. Please enter a different username:\n", line)
			continue
		}
		username = line
		break
	}
	fmt.Fprintln(m.out)

	var password string
	for {
		fmt.Fprintln(m.out, "Enter your desired password:")
		first, ok := m.readLine()
		if !ok {
			return false
		}
		fmt.Fprintln(m.out, "Re-enter your password:")
		second, ok := m.readLine()
		if !ok {
			return false
		}
		if first == second {
			password = first
			break
		}
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "The passwords you entered did not match. Please try again.")
	}

	if err := m.ledger.CreateAccount(username, password); err != nil {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Could not create the account:", userMessage(err))
		fmt.Fprintln(m.out)
		return true
	}

	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "Account successfully created! Please log in.")
	fmt.Fprintln(m.out)
	return true
}

// deposit prompts for a non-negative amount and records it.
func (m *Menu) deposit() bool {
	fmt.Fprintln(m.out, "Enter amount to deposit:")
	fmt.Fprintf(m.out, "Type %s to return to menu.\n", ExitKeyword)
	fmt.Fprint(m.out, "$")

	amount, ok, exit := m.readAmount("deposit", nil)
	if !ok {
		return false
	}
	if exit {
		fmt.Fprintln(m.out)
		return true
	}

	if err := m.ledger.Deposit(amount); err != nil {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Deposit failed:", userMessage(err))
		fmt.Fprintln(m.out)
		return true
	}

	balance, _ := m.ledger.CurrentBalance()
	fmt.Fprintln(m.out)
	fmt.Fprintf(m.out, "Deposit successful. New account balance: %s\n", balance)
	fmt.Fprintln(m.out)
	return true
}

// withdraw prompts for an amount covered by the balance and records it.
func (m *Menu) withdraw() bool {
	fmt.Fprintln(m.out, "Enter amount to withdraw:")
	fmt.Fprintf(m.out, "Type %s to return to menu.\n", ExitKeyword)
	fmt.Fprint(m.out, "$")

	balance, err := m.ledger.CurrentBalance()
	if err != nil {
		return true
	}

	amount, ok, exit := m.readAmount("withdraw", &balance)
	if !ok {
		return false
	}
	if exit {
		fmt.Fprintln(m.out)
		return true
	}

	if err := m.ledger.Withdraw(amount); err != nil {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Withdrawal failed:", userMessage(err))
		fmt.Fprintln(m.out)
		return true
	}

	newBalance, _ := m.ledger.CurrentBalance()
	fmt.Fprintln(m.out)
	fmt.Fprintf(m.out, "Withdrawal successful. New account balance: %s\n", newBalance)
	fmt.Fprintln(m.out)
	return true
}

// readAmount reprompts until the input parses as a non-negative amount
// within limit (when given), or the user types the exit keyword. The verb
// is used in the reprompt text.
func (m *Menu) readAmount(verb string, limit *decimal.Decimal) (amount decimal.Decimal, ok, exit bool) {
	for {
		line, readOK := m.readLine()
		if !readOK {
			return decimal.Zero, false, false
		}
		if strings.EqualFold(line, ExitKeyword) {
			return decimal.Zero, true, true
		}

		parsed, err := decimal.NewFromString(strings.TrimPrefix(line, "$"))
		switch {
		case err != nil || parsed.IsNegative():
			fmt.Fprintln(m.out)
			fmt.Fprintln(m.out, "Invalid amount entered.")
		case limit != nil && parsed.GreaterThan(*limit):
			fmt.Fprintln(m.out)
			fmt.Fprintf(m.out, "Insufficient funds to withdraw $%s\n", parsed)
		default:
			return parsed, true, false
		}

		fmt.Fprintf(m.out, "Enter an amount to %s, or type %s to return to menu:\n", verb, ExitKeyword)
		fmt.Fprint(m.out, "$")
	}
}

func (m *Menu) checkBalance() {
	balance, err := m.ledger.CurrentBalance()
	if err != nil {
		return
	}
	fmt.Fprintf(m.out, "Current account balance: %s\n", balance)
	fmt.Fprintln(m.out)
}

func (m *Menu) printTransactions() {
	transactions, err := m.ledger.TransactionHistory()
	if err != nil {
		return
	}
	fmt.Fprintln(m.out, "Transaction history:")
	for _, tx := range transactions {
		fmt.Fprintf(m.out, "%s: %s\n", tx.Time.Local().Format("2006-01-02 15:04:05"), tx.Action)
		if tx.Description != "" {
			fmt.Fprintf(m.out, "\t%s\n", tx.Description)
			fmt.Fprintln(m.out)
		}
	}
	fmt.Fprintln(m.out)
}

func (m *Menu) logOut() {
	fmt.Fprintln(m.out, "Logging out...")
	fmt.Fprintln(m.out)
	m.ledger.LogOut()
}

func (m *Menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// userMessage maps service and registry errors to console wording.
func userMessage(err error) string {
	var insufficient *service.InsufficientFundsError
	if errors.As(err, &insufficient) {
		return fmt.Sprintf("insufficient funds to withdraw $%s, current balance is $%s",
			insufficient.Requested, insufficient.Balance)
	}
	return err.Error()
}
