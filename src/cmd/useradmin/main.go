// Command useradmin lets an operator enable, disable or reset the password of
// an account directly against the database.
//
//	useradmin enable -user jdoe
//	useradmin disable -user USER8K2Q0ZP1AB
//	useradmin reset-password -user jdoe
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/YukichiOhno/expense-tracker/src/auth"
	"github.com/YukichiOhno/expense-tracker/src/db"
	sqldb "github.com/YukichiOhno/expense-tracker/src/db/sql"
	"github.com/YukichiOhno/expense-tracker/src/util"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

const (
	cmdEnable        = "enable"
	cmdDisable       = "disable"
	cmdResetPassword = "reset-password"
)

// connect opens the store. Tests replace it with a mock pool.
var connect = func(ctx context.Context, url string) (sqldb.DBTX, func(), error) {
	pool, err := db.Connect(ctx, url, 2)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Close, nil
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: useradmin <enable|disable|reset-password> -user <username|user number> [-password <password>] [-db <database url>]")
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return fmt.Errorf("missing command")
	}
	command, args := args[0], args[1:]
	switch command {
	case cmdEnable, cmdDisable, cmdResetPassword:
	default:
		usage(stdout)
		return fmt.Errorf("unknown command %q", command)
	}

	fs := flag.NewFlagSet("useradmin "+command, flag.ContinueOnError)
	fs.SetOutput(stderr)

	ident := fs.String("user", "", "Username or user number")
	dbURL := fs.String("db", "", "Database URL (defaults to DATABASE_URL)")
	var passwordFlag *string
	if command == cmdResetPassword {
		passwordFlag = fs.String("password", "", "New password (optional, will prompt if omitted)")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	user := util.NormalizeSpace(*ident)
	if user == "" {
		usage(stdout)
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	var hash []byte
	if command == cmdResetPassword {
		password := *passwordFlag
		if password == "" {
			fmt.Fprint(stdout, "New password: ")
			var err error
			password, err = readPassword(stdin)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			fmt.Fprintln(stdout)
		}
		if !util.ValidatePassword(password) {
			return fmt.Errorf("password must be 8 to 72 characters with uppercase, lowercase, digit, and special character")
		}

		var err error
		hash, err = auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
	}

	url := *dbURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return fmt.Errorf("database url is required: pass -db or set DATABASE_URL")
	}

	q, closeDB, err := connect(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeDB()

	number, err := sqldb.ResolveUserNumber(ctx, q, user)
	if err != nil {
		if errors.Is(err, sqldb.ErrNotFound) {
			return fmt.Errorf("user %s not found", user)
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	switch command {
	case cmdEnable:
		err = sqldb.SetUserActive(ctx, q, number, 1)
	case cmdDisable:
		err = sqldb.SetUserActive(ctx, q, number, 0)
	case cmdResetPassword:
		err = sqldb.UpdatePassword(ctx, q, number, hash)
	}
	if err != nil {
		return fmt.Errorf("failed to %s user %s: %w", command, number, err)
	}

	fmt.Fprintf(stdout, "User %s (%s): %s done\n", user, number, command)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
