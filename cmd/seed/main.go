// cmd/seed/main.go
//
// Creates the schema and a few demo users with funded accounts, going through
// the same service code paths as the API so every seeded balance has its
// ledger record.
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"vaultcore-ledger/internal/auth"
	"vaultcore-ledger/internal/config"
	"vaultcore-ledger/internal/repository/postgres"
	"vaultcore-ledger/internal/service"
	"vaultcore-ledger/internal/util"
	"vaultcore-ledger/pkg/db"
)

const seedPassword = "password123"

var seedEmails = []string{
	"user1@test.com",
	"user2@test.com",
	"user3@test.com",
}

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := util.NewLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	database, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := db.EnsureSchema(ctx, database); err != nil {
		logger.Fatal("failed to create schema", zap.Error(err))
	}

	ledger := service.NewLedgerService(
		database,
		database,
		postgres.NewUserRepository(),
		postgres.NewAccountRepository(),
		postgres.NewHoldingRepository(),
		postgres.NewTransactionRepository(),
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	authSvc := auth.NewService(cfg.JWTSecret)

	hash, err := authSvc.HashPassword(seedPassword)
	if err != nil {
		logger.Fatal("failed to hash seed password", zap.Error(err))
	}

	for _, email := range seedEmails {
		user, account, err := ledger.OpenAccount(ctx, email, hash)
		if err != nil {
			if util.IsError(err, util.ErrDuplicateEntry) {
				logger.Info("seed user already exists, skipping", zap.String("email", email))
				continue
			}
			logger.Fatal("failed to seed user", zap.String("email", email), zap.Error(err))
		}
		logger.Info("seeded user",
			zap.String("email", user.Email),
			zap.String("account_number", account.AccountNumber),
			zap.String("balance", account.Balance.StringFixed(2)),
		)
	}

	logger.Info("seed complete", zap.String("password", seedPassword))
}
