// Package devseed populates a development database with sample accounts and
// document records so the portal has data to render out of the box.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samprabha/portal/internal/data"
	"github.com/samprabha/portal/internal/domain/model"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB        *sql.DB
	accounts  *data.AccountRepo
	documents *data.DocumentRepo
}

// NewServices constructs all required repositories for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:        db,
		accounts:  data.NewAccountRepo(db),
		documents: data.NewDocumentRepo(db),
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	failures += seedAccounts(ctx, svcs.accounts, logger)
	failures += seedDocuments(ctx, svcs, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func seedAccounts(ctx context.Context, repo *data.AccountRepo, logger *slog.Logger) int {
	failures := 0
	accounts := []model.CreateAccountRequest{
		{Email: "admin@samprabha.com", Password: "admin-dev-password", DisplayName: "Portal Admin"},
		{Email: "priya@example.com", Password: "priya-dev-password", DisplayName: "Priya Sharma"},
		{Email: "rahul@example.com", Password: "rahul-dev-password", DisplayName: "Rahul Mehta"},
	}

	for i := range accounts {
		req := accounts[i]
		created, err := createAccount(ctx, repo, &req)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create account", "email", req.Email, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			msg := "account already exists"
			if created {
				msg = "created account"
			}
			logger.InfoContext(ctx, msg, "email", req.Email)
		}
	}

	return failures
}

func createAccount(ctx context.Context, repo *data.AccountRepo, req *model.CreateAccountRequest) (bool, error) {
	if _, err := repo.Create(ctx, req); err != nil {
		if errors.Is(err, data.ErrAccountEmailExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type documentSeedSpec struct {
	userEmail string
	name      string
	url       string
	status    model.DocumentStatus
}

func defaultDocumentSeeds() []documentSeedSpec {
	return []documentSeedSpec{
		{
			userEmail: "priya@example.com",
			name:      "Water Analysis Report - Borewell Sample",
			url:       "https://files.samprabha.example/reports/water-borewell.pdf",
			status:    model.DocumentStatusCompleted,
		},
		{
			userEmail: "priya@example.com",
			name:      "Soil Fertility Certificate",
			url:       "https://files.samprabha.example/reports/soil-fertility.pdf",
			status:    model.DocumentStatusInProgress,
		},
		{
			userEmail: "rahul@example.com",
			name:      "Food Product Microbiology Report",
			url:       "https://files.samprabha.example/reports/food-micro.pdf",
			status:    model.DocumentStatusPending,
		},
	}
}

func seedDocuments(ctx context.Context, svcs Services, logger *slog.Logger) int {
	failures := 0
	for _, spec := range defaultDocumentSeeds() {
		exists, err := documentExists(ctx, svcs.documents, spec)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to check existing documents", "name", spec.name, "error", err)
			}
			failures++
			continue
		}
		if exists {
			if logger != nil {
				logger.InfoContext(ctx, "document already exists", "name", spec.name)
			}
			continue
		}

		if seedErr := createSeedDocument(ctx, svcs.documents, spec); seedErr != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create document", "name", spec.name, "error", seedErr)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "created document", "name", spec.name, "email", spec.userEmail)
		}
	}
	return failures
}

func documentExists(ctx context.Context, repo *data.DocumentRepo, spec documentSeedSpec) (bool, error) {
	existing, err := repo.ListByEmail(ctx, spec.userEmail)
	if err != nil {
		return false, err
	}
	for _, doc := range existing {
		if doc.Name == spec.name {
			return true, nil
		}
	}
	return false, nil
}

func createSeedDocument(ctx context.Context, repo *data.DocumentRepo, spec documentSeedSpec) error {
	doc, err := repo.Create(ctx, &model.CreateDocumentRequest{
		UserEmail: spec.userEmail,
		Name:      spec.name,
		URL:       spec.url,
	})
	if err != nil {
		return err
	}
	if spec.status == model.DocumentStatusPending {
		return nil
	}
	if _, err = repo.UpdateStatus(ctx, doc.ID, model.UpdateDocumentStatusRequest{Status: spec.status}); err != nil {
		return fmt.Errorf("set status %q: %w", spec.status, err)
	}
	return nil
}
