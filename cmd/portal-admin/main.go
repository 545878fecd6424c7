// portal-admin is the operational CLI for the portal: migrations, database
// reset and seeding for development, and document record maintenance.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samprabha/portal/config"
	"github.com/samprabha/portal/internal/bootstrap"
	"github.com/samprabha/portal/internal/devseed"
)

const defaultMigrationTimeout = 5 * time.Minute

type command struct {
	name        string
	description string
	run         func(ctx *commandContext, args []string) error
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrations,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema, run migrations, and optionally seed data",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed development data",
			run:         runDBSeed,
		},
		"list-accounts": {
			name:        "list-accounts",
			description: "List registered accounts",
			run:         runListAccounts,
		},
		"list-documents": {
			name:        "list-documents",
			description: "List document records with optional filters",
			run:         runListDocuments,
		},
		"create-document": {
			name:        "create-document",
			description: "Create a document record for a customer account",
			run:         runCreateDocument,
		},
		"set-document-status": {
			name:        "set-document-status",
			description: "Update the processing status of a document record",
			run:         runSetDocumentStatus,
		},
		"delete-document": {
			name:        "delete-document",
			description: "Delete a document record",
			run:         runDeleteDocument,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: portal-admin <command> [flags]\n\nAvailable commands:\n"); err != nil {
		return err
	}
	for _, c := range commands() {
		if err := writef(os.Stdout, "  %-24s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

// maintenanceOptions covers the migrate, db-reset, and db-seed commands.
// Yes and Seed only apply to db-reset.
type maintenanceOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	AllowRemote bool
}

// parseMaintenanceFlags builds the flag set shared by the database
// maintenance commands. Destructive commands additionally register the
// confirmation-skipping flags.
func parseMaintenanceFlags(cmdName string, args []string, destructive bool) (maintenanceOptions, error) {
	fs := flag.NewFlagSet(cmdName, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := maintenanceOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout,
		"Maximum duration to wait for the command to complete")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false,
		"Permit running against database hosts that do not look local")
	if destructive {
		fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
		fs.BoolVar(&opts.Seed, "seed", false, "Run database seeding after reset completes")
	}

	if err := fs.Parse(args); err != nil {
		return maintenanceOptions{}, err
	}
	if opts.Timeout <= 0 {
		return maintenanceOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMaintenanceFlags("migrate", args, false)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseMaintenanceFlags("db-reset", args, true)
	if err != nil {
		return err
	}

	pg := cmdCtx.Config.Postgres
	remote, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop and recreate the public schema")
	if err != nil {
		return err
	}
	if err := confirmReset(opts, pg, remote); err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", pg.Name)
		if err := resetSchema(ctx, db, cmdCtx.Logger, pg.User); err != nil {
			return err
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		if opts.Seed {
			cmdCtx.Logger.Info("seeding development data after reset")
			if err := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); err != nil {
				return fmt.Errorf("seed data: %w", err)
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseMaintenanceFlags("db-seed", args, false)
	if err != nil {
		return err
	}

	if _, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "seed development data on the configured database"); err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		cmdCtx.Logger.Info("seeding development data")
		if err := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}

		cmdCtx.Logger.Info("database seeding completed successfully")
		return nil
	})
}

// withDatabase connects to Postgres and runs fn under a signal-aware,
// timeout-bounded context.
func withDatabase(cmdCtx *commandContext, timeout time.Duration, fn func(context.Context, *sql.DB) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return fn(ctx, db)
}

// resetSchema drops and recreates the public schema, restoring grants for
// the configured database user.
func resetSchema(ctx context.Context, db *sql.DB, logger *slog.Logger, user string) error {
	statements := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if u := strings.TrimSpace(user); u != "" && !strings.EqualFold(u, "public") {
		statements = append(statements, "GRANT ALL ON SCHEMA public TO "+quoteIdentifier(u))
	}

	for _, stmt := range statements {
		if logger != nil {
			logger.DebugContext(ctx, "executing reset statement", "sql", stmt)
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// guardRemoteHost blocks destructive commands on hosts that do not look
// local unless --allow-remote is set, and even then demands the operator
// type the hostname back.
func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) (bool, error) {
	host := cmdCtx.Config.Postgres.Host
	if !isLikelyRemoteHost(host) {
		return false, nil
	}
	if !allow {
		return true, fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			host,
		)
	}

	if err := writef(os.Stderr,
		"\nWARNING: database host %q does not look like a local address.\nThis operation will %s.\n",
		host, action,
	); err != nil {
		return true, fmt.Errorf("print remote host warning: %w", err)
	}
	if err := writef(os.Stderr, "Type %q to continue or press enter to abort: ", host); err != nil {
		return true, fmt.Errorf("print remote host prompt: %w", err)
	}

	answer, err := readLine(os.Stdin)
	if err != nil || strings.TrimSpace(answer) != host {
		if writeErr := writeln(os.Stderr, "\nRemote safeguard check failed; aborting."); writeErr != nil {
			return true, fmt.Errorf("print remote safeguard failure: %w", writeErr)
		}
		return true, errors.New("aborted by user")
	}
	return true, nil
}

func confirmReset(opts maintenanceOptions, pg config.DBConfig, remote bool) error {
	if opts.Yes && !remote {
		return nil
	}

	warning := "WARNING: this will drop and recreate the public schema for the configured database."
	if remote {
		warning += fmt.Sprintf(" Host %q appears to be remote; double-check before proceeding.", pg.Host)
	}
	target := fmt.Sprintf("database %q on %s:%d", pg.Name, pg.Host, pg.Port)

	if err := writef(os.Stdout, "\n%s\nTarget: %s\nContinue? [y/N]: ", warning, target); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}

	answer, err := readLine(os.Stdin)
	if err != nil {
		return errors.New("aborted by user")
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errors.New("aborted by user")
	}
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	switch {
	case h == "", h == "localhost", h == "127.0.0.1", h == "::1":
		return false
	case strings.HasSuffix(h, ".local"):
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

func readLine(r io.Reader) (string, error) {
	return bufio.NewReader(r).ReadString('\n')
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
