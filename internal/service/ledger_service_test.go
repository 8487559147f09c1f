// internal/service/ledger_service_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"vaultcore-ledger/internal/domain"
	"vaultcore-ledger/internal/repository"
	"vaultcore-ledger/internal/util"
	"vaultcore-ledger/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAccountRepository is a mock implementation of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByNumber(ctx context.Context, q repository.DBExecutor, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, q, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AddToBalance(ctx context.Context, q repository.DBExecutor, accountID int64, delta decimal.Decimal) error {
	args := m.Called(ctx, q, accountID, delta)
	return args.Error(0)
}

// MockHoldingRepository is a mock implementation of repository.HoldingRepository.
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) CreateHolding(ctx context.Context, q repository.DBExecutor, holding *domain.Holding) error {
	args := m.Called(ctx, q, holding)
	return args.Error(0)
}

func (m *MockHoldingRepository) GetHolding(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) (*domain.Holding, error) {
	args := m.Called(ctx, q, userID, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) UpdateHolding(ctx context.Context, q repository.DBExecutor, holding *domain.Holding) error {
	args := m.Called(ctx, q, holding)
	return args.Error(0)
}

func (m *MockHoldingRepository) GetHoldingsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Holding, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Holding), args.Error(1)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionsByAccountID(ctx context.Context, q repository.DBExecutor, accountID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock unit-of-work controller. Embedding MockDBExecutor
// lets it double as the repository.DBExecutor the service asserts it to.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// fixture bundles a service wired to fresh mocks.
type fixture struct {
	userRepo        *MockUserRepository
	accountRepo     *MockAccountRepository
	holdingRepo     *MockHoldingRepository
	transactionRepo *MockTransactionRepository
	dbBeginner      *MockDBBeginner
	dbExecutor      *MockDBExecutor
	txController    *MockTxController
	service         LedgerService
}

func newFixture() *fixture {
	f := &fixture{
		userRepo:        new(MockUserRepository),
		accountRepo:     new(MockAccountRepository),
		holdingRepo:     new(MockHoldingRepository),
		transactionRepo: new(MockTransactionRepository),
		dbBeginner:      new(MockDBBeginner),
		dbExecutor:      new(MockDBExecutor),
		txController:    new(MockTxController),
	}
	f.service = NewLedgerService(
		f.dbBeginner,
		f.dbExecutor,
		f.userRepo,
		f.accountRepo,
		f.holdingRepo,
		f.transactionRepo,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return f.txController, nil
		},
		func(tx db.TxController) error {
			return f.txController.Commit()
		},
		func(tx db.TxController) {
			_ = f.txController.Rollback()
		},
	)
	return f
}

func (f *fixture) assertAll(t *testing.T) {
	t.Helper()
	mock.AssertExpectationsForObjects(t,
		f.userRepo, f.accountRepo, f.holdingRepo, f.transactionRepo,
		f.dbBeginner, f.dbExecutor, f.txController,
	)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	senderUserID := int64(10)
	receiverAccNo := "ACC-9F31B2"
	amount := dec("1500")

	t.Run("SuccessfulTransfer", func(t *testing.T) {
		f := newFixture()

		sender := &domain.Account{ID: 1, UserID: senderUserID, AccountNumber: "ACC-000001", Balance: dec("5000")}
		receiver := &domain.Account{ID: 2, UserID: 20, AccountNumber: receiverAccNo, Balance: dec("5000")}

		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, senderUserID).Return(sender, nil).Once()
		f.accountRepo.On("GetAccountByNumber", ctx, mock.Anything, receiverAccNo).Return(receiver, nil).Once()
		// Locks go in increasing account-ID order: 1 then 2.
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(1)).Return(sender, nil).Once()
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(2)).Return(receiver, nil).Once()
		f.accountRepo.On("AddToBalance", ctx, mock.Anything, int64(1), amount.Neg()).Return(nil).Once()
		f.accountRepo.On("AddToBalance", ctx, mock.Anything, int64(2), amount).Return(nil).Once()

		var recorded *domain.Transaction
		f.transactionRepo.On("CreateTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).
			Run(func(args mock.Arguments) {
				recorded = args.Get(2).(*domain.Transaction)
			}).Return(nil).Once()

		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		transaction, err := f.service.Transfer(ctx, senderUserID, receiverAccNo, amount)

		require.NoError(t, err)
		require.NotNil(t, transaction)
		assert.Equal(t, domain.StatusTransferSuccess, transaction.Status)
		assert.True(t, transaction.Amount.Equal(amount))
		require.NotNil(t, recorded)
		assert.Equal(t, int64(1), recorded.SenderAccountID)
		assert.Equal(t, int64(2), recorded.ReceiverAccountID)

		// Conservation: balances moved by exactly +/- amount.
		assert.Equal(t, "3500", sender.Balance.String())
		assert.Equal(t, "6500", receiver.Balance.String())

		f.assertAll(t)
	})

	t.Run("LocksInIncreasingIDOrder", func(t *testing.T) {
		// Receiver has the lower ID here; its lock must still be taken first.
		f := newFixture()

		sender := &domain.Account{ID: 8, UserID: senderUserID, Balance: dec("5000")}
		receiver := &domain.Account{ID: 3, UserID: 20, AccountNumber: receiverAccNo, Balance: dec("100")}

		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, senderUserID).Return(sender, nil).Once()
		f.accountRepo.On("GetAccountByNumber", ctx, mock.Anything, receiverAccNo).Return(receiver, nil).Once()

		var lockOrder []int64
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(3)).
			Run(func(args mock.Arguments) { lockOrder = append(lockOrder, 3) }).Return(receiver, nil).Once()
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(8)).
			Run(func(args mock.Arguments) { lockOrder = append(lockOrder, 8) }).Return(sender, nil).Once()
		f.accountRepo.On("AddToBalance", ctx, mock.Anything, int64(8), amount.Neg()).Return(nil).Once()
		f.accountRepo.On("AddToBalance", ctx, mock.Anything, int64(3), amount).Return(nil).Once()
		f.transactionRepo.On("CreateTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil).Once()
		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		_, err := f.service.Transfer(ctx, senderUserID, receiverAccNo, amount)

		require.NoError(t, err)
		assert.Equal(t, []int64{3, 8}, lockOrder)
		f.assertAll(t)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		f := newFixture()

		for _, bad := range []decimal.Decimal{dec("0"), dec("-10")} {
			transaction, err := f.service.Transfer(ctx, senderUserID, receiverAccNo, bad)
			assert.ErrorIs(t, err, util.ErrInvalidAmount)
			assert.Nil(t, transaction)
		}

		// Fails before any storage access.
		f.txController.AssertNotCalled(t, "Commit")
		f.txController.AssertNotCalled(t, "Rollback")
		f.assertAll(t)
	})

	t.Run("SenderAccountNotFound", func(t *testing.T) {
		f := newFixture()

		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, senderUserID).Return(nil, util.ErrNotFound).Once()
		f.txController.On("Rollback").Return(nil).Once()

		transaction, err := f.service.Transfer(ctx, senderUserID, receiverAccNo, amount)

		assert.ErrorIs(t, err, util.ErrSenderAccountNotFound)
		assert.Nil(t, transaction)
		f.txController.AssertNotCalled(t, "Commit")
		f.assertAll(t)
	})

	t.Run("ReceiverAccountNotFound", func(t *testing.T) {
		f := newFixture()

		sender := &domain.Account{ID: 1, UserID: senderUserID, Balance: dec("5000")}
		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, senderUserID).Return(sender, nil).Once()
		f.accountRepo.On("GetAccountByNumber", ctx, mock.Anything, receiverAccNo).Return(nil, util.ErrNotFound).Once()
		f.txController.On("Rollback").Return(nil).Once()

		transaction, err := f.service.Transfer(ctx, senderUserID, receiverAccNo, amount)

		assert.ErrorIs(t, err, util.ErrReceiverAccountNotFound)
		assert.Nil(t, transaction)
		f.txController.AssertNotCalled(t, "Commit")
		f.assertAll(t)
	})

	t.Run("SelfTransferNotAllowed", func(t *testing.T) {
		// Fails regardless of balance, before any lock or mutation.
		f := newFixture()

		acc := &domain.Account{ID: 1, UserID: senderUserID, AccountNumber: receiverAccNo, Balance: dec("999999")}
		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, senderUserID).Return(acc, nil).Once()
		f.accountRepo.On("GetAccountByNumber", ctx, mock.Anything, receiverAccNo).Return(acc, nil).Once()
		f.txController.On("Rollback").Return(nil).Once()

		transaction, err := f.service.Transfer(ctx, senderUserID, receiverAccNo, amount)

		assert.ErrorIs(t, err, util.ErrSelfTransfer)
		assert.Nil(t, transaction)
		f.accountRepo.AssertNotCalled(t, "GetAccountByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
		f.accountRepo.AssertNotCalled(t, "AddToBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertAll(t)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		f := newFixture()

		sender := &domain.Account{ID: 1, UserID: senderUserID, Balance: dec("1000")}
		receiver := &domain.Account{ID: 2, UserID: 20, AccountNumber: receiverAccNo, Balance: dec("5000")}

		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, senderUserID).Return(sender, nil).Once()
		f.accountRepo.On("GetAccountByNumber", ctx, mock.Anything, receiverAccNo).Return(receiver, nil).Once()
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(1)).Return(sender, nil).Once()
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(2)).Return(receiver, nil).Once()
		f.txController.On("Rollback").Return(nil).Once()

		transaction, err := f.service.Transfer(ctx, senderUserID, receiverAccNo, amount)

		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
		assert.Nil(t, transaction)
		// Neither balance moved and no ledger record was written.
		f.accountRepo.AssertNotCalled(t, "AddToBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.transactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
		f.txController.AssertNotCalled(t, "Commit")
		f.assertAll(t)
	})

	t.Run("CommitFailureSurfacesOpaque", func(t *testing.T) {
		f := newFixture()

		sender := &domain.Account{ID: 1, UserID: senderUserID, Balance: dec("5000")}
		receiver := &domain.Account{ID: 2, UserID: 20, AccountNumber: receiverAccNo, Balance: dec("5000")}

		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, senderUserID).Return(sender, nil).Once()
		f.accountRepo.On("GetAccountByNumber", ctx, mock.Anything, receiverAccNo).Return(receiver, nil).Once()
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(1)).Return(sender, nil).Once()
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(2)).Return(receiver, nil).Once()
		f.accountRepo.On("AddToBalance", ctx, mock.Anything, int64(1), amount.Neg()).Return(nil).Once()
		f.accountRepo.On("AddToBalance", ctx, mock.Anything, int64(2), amount).Return(nil).Once()
		f.transactionRepo.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.txController.On("Commit").Return(errors.New("connection reset")).Once()
		f.txController.On("Rollback").Return(nil).Once()

		transaction, err := f.service.Transfer(ctx, senderUserID, receiverAccNo, amount)

		require.Error(t, err)
		assert.Nil(t, transaction)
		// The failure is a storage fault, not a ledger-taxonomy error.
		assert.NotErrorIs(t, err, util.ErrInsufficientFunds)
		assert.NotErrorIs(t, err, util.ErrInvalidAmount)
		f.assertAll(t)
	})
}

func TestPurchase(t *testing.T) {
	ctx := context.Background()
	buyerUserID := int64(10)
	symbol := "AAPL"

	t.Run("FirstBuyCreatesHolding", func(t *testing.T) {
		f := newFixture()

		account := &domain.Account{ID: 3, UserID: buyerUserID, Balance: dec("10000")}
		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, buyerUserID).Return(account, nil).Once()
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(3)).Return(account, nil).Once()
		f.accountRepo.On("AddToBalance", ctx, mock.Anything, int64(3), dec("650").Neg()).Return(nil).Once()
		f.holdingRepo.On("GetHolding", ctx, mock.Anything, buyerUserID, symbol).Return(nil, util.ErrNotFound).Once()

		var created *domain.Holding
		f.holdingRepo.On("CreateHolding", ctx, mock.Anything, mock.AnythingOfType("*domain.Holding")).
			Run(func(args mock.Arguments) {
				created = args.Get(2).(*domain.Holding)
			}).Return(nil).Once()

		var recorded *domain.Transaction
		f.transactionRepo.On("CreateTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).
			Run(func(args mock.Arguments) {
				recorded = args.Get(2).(*domain.Transaction)
			}).Return(nil).Once()

		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		transaction, err := f.service.Purchase(ctx, buyerUserID, symbol, 5, dec("130"))

		require.NoError(t, err)
		require.NotNil(t, transaction)
		require.NotNil(t, created)
		assert.Equal(t, int64(5), created.Quantity)
		assert.True(t, created.AvgPrice.Equal(dec("130")))

		// Self-referential record: sender == receiver == buyer's account.
		require.NotNil(t, recorded)
		assert.Equal(t, int64(3), recorded.SenderAccountID)
		assert.Equal(t, int64(3), recorded.ReceiverAccountID)
		assert.True(t, recorded.Amount.Equal(dec("650")))
		assert.Equal(t, "STOCK_BUY : AAPL | Qty: 5", recorded.Status)

		// Balance decreased by exactly price*quantity.
		assert.Equal(t, "9350", account.Balance.String())

		f.assertAll(t)
	})

	t.Run("RepeatBuyRecomputesAverage", func(t *testing.T) {
		f := newFixture()

		account := &domain.Account{ID: 3, UserID: buyerUserID, Balance: dec("10000")}
		holding := &domain.Holding{ID: 4, UserID: buyerUserID, Symbol: symbol, Quantity: 10, AvgPrice: dec("100")}

		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, buyerUserID).Return(account, nil).Once()
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(3)).Return(account, nil).Once()
		f.accountRepo.On("AddToBalance", ctx, mock.Anything, int64(3), dec("650").Neg()).Return(nil).Once()
		f.holdingRepo.On("GetHolding", ctx, mock.Anything, buyerUserID, symbol).Return(holding, nil).Once()
		f.holdingRepo.On("UpdateHolding", ctx, mock.Anything, holding).Return(nil).Once()
		f.transactionRepo.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		_, err := f.service.Purchase(ctx, buyerUserID, symbol, 5, dec("130"))

		require.NoError(t, err)
		assert.Equal(t, int64(15), holding.Quantity)
		assert.Equal(t, "110.00", holding.AvgPrice.StringFixed(2))
		f.assertAll(t)
	})

	t.Run("InvalidOrder", func(t *testing.T) {
		f := newFixture()

		cases := []struct {
			quantity int64
			price    decimal.Decimal
		}{
			{0, dec("100")},
			{-1, dec("100")},
			{5, dec("0")},
			{5, dec("-1")},
		}
		for _, c := range cases {
			transaction, err := f.service.Purchase(ctx, buyerUserID, symbol, c.quantity, c.price)
			assert.ErrorIs(t, err, util.ErrInvalidOrder)
			assert.Nil(t, transaction)
		}

		f.txController.AssertNotCalled(t, "Rollback")
		f.assertAll(t)
	})

	t.Run("AccountNotFound", func(t *testing.T) {
		f := newFixture()

		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, buyerUserID).Return(nil, util.ErrNotFound).Once()
		f.txController.On("Rollback").Return(nil).Once()

		transaction, err := f.service.Purchase(ctx, buyerUserID, symbol, 5, dec("130"))

		assert.ErrorIs(t, err, util.ErrAccountNotFound)
		assert.Nil(t, transaction)
		f.assertAll(t)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		f := newFixture()

		account := &domain.Account{ID: 3, UserID: buyerUserID, Balance: dec("600")}
		f.accountRepo.On("GetAccountByUserID", ctx, mock.Anything, buyerUserID).Return(account, nil).Once()
		f.accountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, int64(3)).Return(account, nil).Once()
		f.txController.On("Rollback").Return(nil).Once()

		transaction, err := f.service.Purchase(ctx, buyerUserID, symbol, 5, dec("130"))

		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
		assert.Nil(t, transaction)
		f.holdingRepo.AssertNotCalled(t, "GetHolding", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.transactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
		f.txController.AssertNotCalled(t, "Commit")
		f.assertAll(t)
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	userID := int64(10)

	t.Run("ReturnsTransactionsMostRecentFirst", func(t *testing.T) {
		f := newFixture()

		user := &domain.User{ID: userID, Email: "user1@test.com"}
		account := &domain.Account{ID: 3, UserID: userID}
		records := []domain.Transaction{
			{ID: 2, SenderAccountID: 3, ReceiverAccountID: 4, Amount: dec("50"), Status: domain.StatusTransferSuccess},
			{ID: 1, SenderAccountID: 3, ReceiverAccountID: 3, Amount: dec("5000"), Status: domain.StatusJoiningBonus},
		}

		f.userRepo.On("GetUserByID", ctx, f.dbExecutor, userID).Return(user, nil).Once()
		f.accountRepo.On("GetAccountByUserID", ctx, f.dbExecutor, userID).Return(account, nil).Once()
		f.transactionRepo.On("GetTransactionsByAccountID", ctx, f.dbExecutor, int64(3)).Return(records, nil).Once()

		got, err := f.service.History(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, records, got)
		f.assertAll(t)
	})

	t.Run("MissingUserYieldsEmptySlice", func(t *testing.T) {
		f := newFixture()

		f.userRepo.On("GetUserByID", ctx, f.dbExecutor, userID).Return(nil, util.ErrNotFound).Once()

		got, err := f.service.History(ctx, userID)

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
		f.assertAll(t)
	})

	t.Run("MissingAccountYieldsEmptySlice", func(t *testing.T) {
		f := newFixture()

		user := &domain.User{ID: userID}
		f.userRepo.On("GetUserByID", ctx, f.dbExecutor, userID).Return(user, nil).Once()
		f.accountRepo.On("GetAccountByUserID", ctx, f.dbExecutor, userID).Return(nil, util.ErrNotFound).Once()

		got, err := f.service.History(ctx, userID)

		require.NoError(t, err)
		assert.Empty(t, got)
		f.assertAll(t)
	})

	t.Run("StorageErrorStillPropagates", func(t *testing.T) {
		f := newFixture()

		f.userRepo.On("GetUserByID", ctx, f.dbExecutor, userID).Return(nil, errors.New("connection refused")).Once()

		got, err := f.service.History(ctx, userID)

		require.Error(t, err)
		assert.Nil(t, got)
		f.assertAll(t)
	})
}

func TestOpenAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesUserAccountAndBonusRecord", func(t *testing.T) {
		f := newFixture()

		f.userRepo.On("CreateUser", ctx, mock.Anything, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				args.Get(2).(*domain.User).ID = 9
			}).Return(nil).Once()
		f.accountRepo.On("CreateAccount", ctx, mock.Anything, mock.AnythingOfType("*domain.Account")).
			Run(func(args mock.Arguments) {
				args.Get(2).(*domain.Account).ID = 5
			}).Return(nil).Once()

		var bonus *domain.Transaction
		f.transactionRepo.On("CreateTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).
			Run(func(args mock.Arguments) {
				bonus = args.Get(2).(*domain.Transaction)
			}).Return(nil).Once()

		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		user, account, err := f.service.OpenAccount(ctx, "new@test.com", "hash")

		require.NoError(t, err)
		assert.Equal(t, "new", user.Username)
		assert.Equal(t, int64(9), account.UserID)
		assert.Equal(t, "5000.00", account.Balance.StringFixed(2))

		require.NotNil(t, bonus)
		assert.Equal(t, domain.StatusJoiningBonus, bonus.Status)
		assert.Equal(t, int64(5), bonus.SenderAccountID)
		assert.Equal(t, int64(5), bonus.ReceiverAccountID)
		assert.Equal(t, "5000.00", bonus.Amount.StringFixed(2))

		f.assertAll(t)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		f := newFixture()

		f.userRepo.On("CreateUser", ctx, mock.Anything, mock.Anything).Return(util.ErrDuplicateEntry).Once()
		f.txController.On("Rollback").Return(nil).Once()

		_, _, err := f.service.OpenAccount(ctx, "dup@test.com", "hash")

		assert.ErrorIs(t, err, util.ErrDuplicateEntry)
		f.accountRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
		f.assertAll(t)
	})
}
