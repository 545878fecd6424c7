package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samprabha/portal/internal/data"
	"github.com/samprabha/portal/internal/domain/model"
	"github.com/samprabha/portal/internal/util"
)

const defaultAdminQueryTimeout = time.Minute

type listAccountsOptions struct {
	Limit  int
	Offset int
}

type listDocumentsOptions struct {
	Email  string
	Query  string
	Status string
	Limit  int
	Offset int
}

type createDocumentOptions struct {
	Email string
	Name  string
	URL   string
}

type setDocumentStatusOptions struct {
	ID     string
	Status string
}

type deleteDocumentOptions struct {
	ID  string
	Yes bool
}

func runListAccounts(cmdCtx *commandContext, args []string) error {
	opts, err := parseListAccountsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultAdminQueryTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewAccountRepo(db)
		accounts, listErr := repo.List(ctx, opts.Limit, opts.Offset)
		if listErr != nil {
			return fmt.Errorf("list accounts: %w", listErr)
		}
		return printAccounts(accounts)
	})
}

func printAccounts(accounts []*model.Account) error {
	if len(accounts) == 0 {
		return writeln(os.Stdout, "(no accounts found)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Email\tDisplay Name\tProvider\tCreated"); err != nil {
		return fmt.Errorf("write account header: %w", err)
	}
	for _, acct := range accounts {
		if err := writef(w, "%s\t%s\t%s\t%s\n",
			acct.Email,
			acct.DisplayName,
			acct.Provider,
			util.FormatTimestamp(acct.CreatedAt),
		); err != nil {
			return fmt.Errorf("write account row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush account table: %w", err)
	}
	return writef(os.Stdout, "\nTotal: %d\n", len(accounts))
}

func runListDocuments(cmdCtx *commandContext, args []string) error {
	opts, err := parseListDocumentsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultAdminQueryTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewDocumentRepo(db)

		var (
			documents []*model.Document
			listErr   error
		)
		if opts.Email != "" {
			documents, listErr = repo.ListByEmail(ctx, opts.Email)
		} else {
			listOpts := model.DocumentsListOptions{
				Q:      opts.Query,
				Limit:  opts.Limit,
				Offset: opts.Offset,
			}
			if opts.Status != "" {
				status, ok := model.ParseDocumentStatus(opts.Status)
				if !ok {
					return fmt.Errorf("invalid status %q", opts.Status)
				}
				listOpts.Status = status
			}
			documents, listErr = repo.ListWithOptions(ctx, listOpts)
		}
		if listErr != nil {
			return fmt.Errorf("list documents: %w", listErr)
		}
		return printDocuments(documents)
	})
}

func printDocuments(documents []*model.Document) error {
	if len(documents) == 0 {
		return writeln(os.Stdout, "(no documents found)")
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tOwner\tName\tStatus\tUpdated"); err != nil {
		return fmt.Errorf("write document header: %w", err)
	}
	for _, doc := range documents {
		if err := writef(w, "%s\t%s\t%s\t%s\t%s\n",
			doc.ID,
			doc.UserEmail,
			doc.Name,
			doc.Status,
			util.FormatAge(doc.UpdatedAt, now),
		); err != nil {
			return fmt.Errorf("write document row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush document table: %w", err)
	}
	return writef(os.Stdout, "\nTotal: %d\n", len(documents))
}

func runCreateDocument(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateDocumentFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultAdminQueryTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewDocumentRepo(db)
		doc, createErr := repo.Create(ctx, &model.CreateDocumentRequest{
			UserEmail: opts.Email,
			Name:      opts.Name,
			URL:       opts.URL,
		})
		if createErr != nil {
			return fmt.Errorf("create document: %w", createErr)
		}

		cmdCtx.Logger.Info("document created", "id", doc.ID, "email", doc.UserEmail)
		return writef(os.Stdout, "Created document %s for %s\n", doc.ID, doc.UserEmail)
	})
}

func runSetDocumentStatus(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetDocumentStatusFlags(args)
	if err != nil {
		return err
	}

	status, ok := model.ParseDocumentStatus(opts.Status)
	if !ok {
		return fmt.Errorf("invalid status %q", opts.Status)
	}

	return withDatabase(cmdCtx, defaultAdminQueryTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewDocumentRepo(db)
		doc, updateErr := repo.UpdateStatus(ctx, opts.ID, model.UpdateDocumentStatusRequest{Status: status})
		if updateErr != nil {
			return fmt.Errorf("update document status: %w", updateErr)
		}

		cmdCtx.Logger.Info("document status updated", "id", doc.ID, "status", doc.Status)
		return writef(os.Stdout, "Document %s is now %s\n", doc.ID, doc.Status)
	})
}

func runDeleteDocument(cmdCtx *commandContext, args []string) error {
	opts, err := parseDeleteDocumentFlags(args)
	if err != nil {
		return err
	}

	if !opts.Yes {
		if promptErr := confirmDocumentDelete(opts.ID); promptErr != nil {
			return promptErr
		}
	}

	return withDatabase(cmdCtx, defaultAdminQueryTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewDocumentRepo(db)
		deleted, deleteErr := repo.Delete(ctx, opts.ID)
		if deleteErr != nil {
			return fmt.Errorf("delete document: %w", deleteErr)
		}
		if !deleted {
			return writef(os.Stdout, "Document %s not found\n", opts.ID)
		}

		cmdCtx.Logger.Info("document deleted", "id", opts.ID)
		return writef(os.Stdout, "Deleted document %s\n", opts.ID)
	})
}

func confirmDocumentDelete(id string) error {
	if err := writef(os.Stdout, "Delete document %s? [y/N]: ", id); err != nil {
		return fmt.Errorf("print delete prompt: %w", err)
	}
	var resp string
	if _, err := fmt.Fscanln(os.Stdin, &resp); err != nil {
		return errors.New("aborted by user")
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

func parseListAccountsFlags(args []string) (listAccountsOptions, error) {
	fs := flag.NewFlagSet("list-accounts", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listAccountsOptions
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum rows to display")
	fs.IntVar(&opts.Offset, "offset", 0, "Offset for query results")

	if err := fs.Parse(args); err != nil {
		return listAccountsOptions{}, err
	}
	if opts.Limit <= 0 {
		return listAccountsOptions{}, errors.New("--limit must be greater than zero")
	}
	if opts.Offset < 0 {
		return listAccountsOptions{}, errors.New("--offset must not be negative")
	}

	return opts, nil
}

func parseListDocumentsFlags(args []string) (listDocumentsOptions, error) {
	fs := flag.NewFlagSet("list-documents", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listDocumentsOptions
	fs.StringVar(&opts.Email, "email", "", "Filter by owner email (ignores other filters)")
	fs.StringVar(&opts.Query, "q", "", "Filter by name or owner email substring")
	fs.StringVar(&opts.Status, "status", "", "Filter by status (pending, in_progress, completed)")
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum rows to display")
	fs.IntVar(&opts.Offset, "offset", 0, "Offset for query results")

	if err := fs.Parse(args); err != nil {
		return listDocumentsOptions{}, err
	}
	if opts.Limit <= 0 {
		return listDocumentsOptions{}, errors.New("--limit must be greater than zero")
	}
	if opts.Offset < 0 {
		return listDocumentsOptions{}, errors.New("--offset must not be negative")
	}

	opts.Email = strings.TrimSpace(opts.Email)
	opts.Query = strings.TrimSpace(opts.Query)
	opts.Status = strings.TrimSpace(opts.Status)
	return opts, nil
}

func parseCreateDocumentFlags(args []string) (createDocumentOptions, error) {
	fs := flag.NewFlagSet("create-document", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts createDocumentOptions
	fs.StringVar(&opts.Email, "email", "", "Owner account email (required)")
	fs.StringVar(&opts.Name, "name", "", "Document name (required)")
	fs.StringVar(&opts.URL, "url", "", "Document URL (required)")

	if err := fs.Parse(args); err != nil {
		return createDocumentOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	opts.Name = strings.TrimSpace(opts.Name)
	opts.URL = strings.TrimSpace(opts.URL)
	if opts.Email == "" || opts.Name == "" || opts.URL == "" {
		return createDocumentOptions{}, errors.New("--email, --name, and --url are required")
	}

	return opts, nil
}

func parseSetDocumentStatusFlags(args []string) (setDocumentStatusOptions, error) {
	fs := flag.NewFlagSet("set-document-status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts setDocumentStatusOptions
	fs.StringVar(&opts.ID, "id", "", "Document ID (required)")
	fs.StringVar(&opts.Status, "status", "", "New status: pending, in_progress, or completed (required)")

	if err := fs.Parse(args); err != nil {
		return setDocumentStatusOptions{}, err
	}

	opts.ID = strings.TrimSpace(opts.ID)
	opts.Status = strings.TrimSpace(opts.Status)
	if opts.ID == "" {
		return setDocumentStatusOptions{}, errors.New("--id is required")
	}
	if opts.Status == "" {
		return setDocumentStatusOptions{}, errors.New("--status is required")
	}

	return opts, nil
}

func parseDeleteDocumentFlags(args []string) (deleteDocumentOptions, error) {
	fs := flag.NewFlagSet("delete-document", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts deleteDocumentOptions
	fs.StringVar(&opts.ID, "id", "", "Document ID (required)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return deleteDocumentOptions{}, err
	}

	opts.ID = strings.TrimSpace(opts.ID)
	if opts.ID == "" {
		return deleteDocumentOptions{}, errors.New("--id is required")
	}

	return opts, nil
}
