// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"

	"vaultcore-ledger/internal/domain"
	"vaultcore-ledger/internal/repository"
	"vaultcore-ledger/internal/util"
	"vaultcore-ledger/pkg/db"

	"github.com/shopspring/decimal"
)

// Every new account opens with the joining bonus already credited.
var joiningBonus = decimal.RequireFromString("5000.00")

// LedgerService is the boundary the ledger engine exposes to callers. The
// caller is assumed to be authenticated and, for Transfer, to have passed the
// OTP step-up check; no credential or OTP logic happens here.
type LedgerService interface {
	// OpenAccount creates a user and their account, credited with the joining
	// bonus, in one unit of work.
	OpenAccount(ctx context.Context, email, passwordHash string) (*domain.User, *domain.Account, error)
	// Transfer atomically moves amount from the sender's account to the
	// account identified by receiverAccountNumber.
	Transfer(ctx context.Context, senderUserID int64, receiverAccountNumber string, amount decimal.Decimal) (*domain.Transaction, error)
	// Purchase debits the buyer by price*quantity and folds the lot into
	// their holding for symbol.
	Purchase(ctx context.Context, buyerUserID int64, symbol string, quantity int64, price decimal.Decimal) (*domain.Transaction, error)
	// History returns the user's ledger records, most recent first. A missing
	// user or account yields an empty slice, never an error.
	History(ctx context.Context, userID int64) ([]domain.Transaction, error)
	// GetAccount returns the user's account, including its current balance.
	GetAccount(ctx context.Context, userID int64) (*domain.Account, error)
	// GetHoldings lists the user's positions.
	GetHoldings(ctx context.Context, userID int64) ([]domain.Holding, error)
	// ResolveUser maps an authenticated principal (email) to a user record.
	ResolveUser(ctx context.Context, email string) (*domain.User, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner      db.DBTxBeginner       // For starting units of work (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo        repository.UserRepository
	accountRepo     repository.AccountRepository
	holdingRepo     repository.HoldingRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	holdingRepo repository.HoldingRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// OpenAccount creates a user and their account in one unit of work. The
// joining bonus is written as a JOINING_BONUS ledger record so that no
// balance ever exists without a corresponding transaction.
func (s *ledgerService) OpenAccount(ctx context.Context, email, passwordHash string) (*domain.User, *domain.Account, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("open account: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("open account: transaction controller does not implement DBExecutor")
	}

	user := domain.NewUser(email, passwordHash)
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		if util.IsError(err, util.ErrDuplicateEntry) {
			return nil, nil, util.ErrDuplicateEntry
		}
		return nil, nil, fmt.Errorf("open account: failed to create user: %w", err)
	}

	account := domain.NewAccount(user.ID, joiningBonus)
	if err := s.accountRepo.CreateAccount(ctx, txExecutor, account); err != nil {
		return nil, nil, fmt.Errorf("open account: failed to create account: %w", err)
	}

	bonus := domain.NewTransaction(account.ID, account.ID, joiningBonus, domain.StatusJoiningBonus)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, bonus); err != nil {
		return nil, nil, fmt.Errorf("open account: failed to record joining bonus: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("open account: failed to commit transaction: %w", err)
	}

	return user, account, nil
}

// Transfer validates and atomically moves funds between two accounts,
// appending one TRANSFER_SUCCESS ledger record. Either every effect persists
// or none do; no partial transfer is observable to a concurrent reader.
func (s *ledgerService) Transfer(ctx context.Context, senderUserID int64, receiverAccountNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidAmount
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("transfer: transaction controller does not implement DBExecutor")
	}

	senderAcc, err := s.accountRepo.GetAccountByUserID(ctx, txExecutor, senderUserID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrSenderAccountNotFound
		}
		return nil, fmt.Errorf("transfer: failed to get sender account: %w", err)
	}

	receiverAcc, err := s.accountRepo.GetAccountByNumber(ctx, txExecutor, receiverAccountNumber)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrReceiverAccountNotFound
		}
		return nil, fmt.Errorf("transfer: failed to get receiver account: %w", err)
	}

	if senderAcc.ID == receiverAcc.ID {
		return nil, util.ErrSelfTransfer
	}

	// Re-read both rows under locks, taken in increasing account-ID order so
	// two opposing transfers cannot deadlock. The locked sender row is the
	// balance the sufficiency check runs against.
	senderAcc, receiverAcc, err = repository.LockAccountsByID(ctx, s.accountRepo, txExecutor, senderAcc.ID, receiverAcc.ID)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to lock accounts: %w", err)
	}

	if err := s.debit(ctx, txExecutor, senderAcc, amount); err != nil {
		return nil, err
	}
	if err := s.credit(ctx, txExecutor, receiverAcc, amount); err != nil {
		return nil, err
	}

	transaction := domain.NewTransaction(senderAcc.ID, receiverAcc.ID, amount, domain.StatusTransferSuccess)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("transfer: failed to create transaction: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("transfer: failed to commit transaction: %w", err)
	}

	return transaction, nil
}

// Purchase validates funds, debits the buyer by price*quantity, folds the lot
// into their holding, and appends a self-referential ledger record (sender
// and receiver are both the buyer's account). Same atomicity contract as
// Transfer.
func (s *ledgerService) Purchase(ctx context.Context, buyerUserID int64, symbol string, quantity int64, price decimal.Decimal) (*domain.Transaction, error) {
	if quantity <= 0 || price.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidOrder
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("purchase: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("purchase: transaction controller does not implement DBExecutor")
	}

	account, err := s.accountRepo.GetAccountByUserID(ctx, txExecutor, buyerUserID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("purchase: failed to get buyer account: %w", err)
	}

	// The buyer's row lock serializes concurrent purchases by the same user,
	// which in turn serializes the holding read-modify-write below.
	account, err = s.accountRepo.GetAccountByIDForUpdate(ctx, txExecutor, account.ID)
	if err != nil {
		return nil, fmt.Errorf("purchase: failed to lock buyer account: %w", err)
	}

	totalCost := price.Mul(decimal.NewFromInt(quantity))

	if err := s.debit(ctx, txExecutor, account, totalCost); err != nil {
		return nil, err
	}

	if err := s.upsertHolding(ctx, txExecutor, buyerUserID, symbol, quantity, price); err != nil {
		return nil, err
	}

	transaction := domain.NewTransaction(account.ID, account.ID, totalCost, domain.PurchaseStatus(symbol, quantity))
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("purchase: failed to create transaction: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("purchase: failed to commit transaction: %w", err)
	}

	return transaction, nil
}

// debit decreases the balance of an account the caller has already locked.
// The amount must be strictly positive and covered by the locked balance.
func (s *ledgerService) debit(ctx context.Context, q repository.DBExecutor, account *domain.Account, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return util.ErrInvalidAmount
	}
	if account.Balance.LessThan(amount) {
		return util.ErrInsufficientFunds
	}
	if err := s.accountRepo.AddToBalance(ctx, q, account.ID, amount.Neg()); err != nil {
		return fmt.Errorf("failed to debit account %d: %w", account.ID, err)
	}
	account.Balance = account.Balance.Sub(amount)
	return nil
}

// credit increases the balance of an account the caller has already locked.
func (s *ledgerService) credit(ctx context.Context, q repository.DBExecutor, account *domain.Account, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return util.ErrInvalidAmount
	}
	if err := s.accountRepo.AddToBalance(ctx, q, account.ID, amount); err != nil {
		return fmt.Errorf("failed to credit account %d: %w", account.ID, err)
	}
	account.Balance = account.Balance.Add(amount)
	return nil
}

// upsertHolding folds a purchased lot into the (user, symbol) holding,
// creating it on first buy. The average-price recomputation lives on
// domain.Holding.
func (s *ledgerService) upsertHolding(ctx context.Context, q repository.DBExecutor, userID int64, symbol string, quantity int64, price decimal.Decimal) error {
	holding, err := s.holdingRepo.GetHolding(ctx, q, userID, symbol)
	switch {
	case err == nil:
		holding.AddLot(quantity, price)
		if err := s.holdingRepo.UpdateHolding(ctx, q, holding); err != nil {
			return fmt.Errorf("failed to update holding: %w", err)
		}
	case util.IsError(err, util.ErrNotFound):
		holding = domain.NewHolding(userID, symbol, quantity, price)
		if err := s.holdingRepo.CreateHolding(ctx, q, holding); err != nil {
			return fmt.Errorf("failed to create holding: %w", err)
		}
	default:
		return fmt.Errorf("failed to get holding: %w", err)
	}
	return nil
}

// History returns the user's ledger records, most recent first. The read path
// deliberately never fails on absence: a missing user or account degrades to
// an empty result. Storage failures still propagate.
func (s *ledgerService) History(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return []domain.Transaction{}, nil
		}
		return nil, fmt.Errorf("history: failed to get user %d: %w", userID, err)
	}

	account, err := s.accountRepo.GetAccountByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return []domain.Transaction{}, nil
		}
		return nil, fmt.Errorf("history: failed to get account for user %d: %w", userID, err)
	}

	transactions, err := s.transactionRepo.GetTransactionsByAccountID(ctx, s.dbExecutor, account.ID)
	if err != nil {
		return nil, fmt.Errorf("history: failed to fetch transactions: %w", err)
	}
	return transactions, nil
}

// GetAccount returns the user's account, including its current balance.
func (s *ledgerService) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: failed to get account for user %d: %w", userID, err)
	}
	return account, nil
}

// GetHoldings lists the user's positions.
func (s *ledgerService) GetHoldings(ctx context.Context, userID int64) ([]domain.Holding, error) {
	holdings, err := s.holdingRepo.GetHoldingsByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get holdings: failed to fetch holdings for user %d: %w", userID, err)
	}
	return holdings, nil
}

// ResolveUser maps an authenticated principal (email) to a user record.
func (s *ledgerService) ResolveUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, s.dbExecutor, email)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: failed to get user by email: %w", err)
	}
	return user, nil
}
