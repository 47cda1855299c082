// Package ledger is the only writer of wallet balances and transaction
// records. Every mutation runs inside a unit of work with the wallet row
// locked, so concurrent debits cannot overdraw, and emits domain events after
// the transaction commits.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/domain/events"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/eventbus"
	"github.com/finpocket/finpocket/pkg/money"
	"github.com/finpocket/finpocket/pkg/repository"
	"github.com/finpocket/finpocket/pkg/utils"
)

// RateSource supplies the BTC/USD rate for conversions. It never fails; the
// rate service guarantees a usable quote.
type RateSource interface {
	BTCUSD(ctx context.Context) domain.RateQuote
}

// Service implements wallet mutations and ledger queries.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	rates  RateSource
	logger *slog.Logger
}

// New creates a new ledger service.
func New(
	uow repository.UnitOfWork,
	bus eventbus.Bus,
	rates RateSource,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:    uow,
		bus:    bus,
		rates:  rates,
		logger: logger.With("service", "ledger"),
	}
}

// GetWallet returns the user's wallet.
func (s *Service) GetWallet(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error) {
	var wallet *dto.WalletRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		wallet, err = uow.Wallets().GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// Deposit credits the user's wallet and records a COMPLETED INCOME
// transaction. The record is created PENDING and marked COMPLETED in the same
// database transaction as the balance write.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount money.Money) (*dto.TransactionRead, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrAmountMustBePositive
	}

	var (
		tx     *dto.TransactionRead
		wallet *dto.WalletRead
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		w, err := uow.Wallets().GetByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		txID := uuid.New()
		create := dto.TransactionCreate{
			ID:       txID,
			UserID:   userID,
			WalletID: w.ID,
			Amount:   amount.Amount(),
			Currency: string(amount.Currency()),
			Type:     dto.TransactionTypeIncome,
			Category: dto.TransactionCategoryWallet,
			Status:   dto.TransactionStatusPending,
			Note:     "Deposit",
		}
		if err := uow.Transactions().Create(ctx, create); err != nil {
			return err
		}

		newBal := balanceFor(w, amount.Currency()) + amount.Amount()
		if err := uow.Wallets().Update(ctx, w.ID, updateFor(amount.Currency(), newBal)); err != nil {
			return err
		}

		completed := dto.TransactionStatusCompleted
		if err := uow.Transactions().Update(ctx, txID, dto.TransactionUpdate{Status: &completed}); err != nil {
			return err
		}

		tx, err = uow.Transactions().Get(ctx, txID)
		if err != nil {
			return err
		}
		wallet, err = uow.Wallets().GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deposit completed", "user_id", userID, "amount", amount.String())
	s.emitMutation(ctx, userID, wallet, tx)
	return tx, nil
}

// Withdraw debits the user's wallet and records a COMPLETED EXPENSE
// transaction. Fails with InsufficientBalanceError when the locked balance
// cannot cover the amount, leaving no trace in the ledger.
func (s *Service) Withdraw(ctx context.Context, userID uuid.UUID, amount money.Money) (*dto.TransactionRead, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrAmountMustBePositive
	}

	var (
		tx     *dto.TransactionRead
		wallet *dto.WalletRead
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		w, err := uow.Wallets().GetByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		available := balanceFor(w, amount.Currency())
		if available < amount.Amount() {
			return domain.NewInsufficientBalance(
				money.NewFromSmallestUnit(available, amount.Currency()),
				amount,
			)
		}

		txID := uuid.New()
		create := dto.TransactionCreate{
			ID:       txID,
			UserID:   userID,
			WalletID: w.ID,
			Amount:   amount.Amount(),
			Currency: string(amount.Currency()),
			Type:     dto.TransactionTypeExpense,
			Category: dto.TransactionCategoryWallet,
			Status:   dto.TransactionStatusPending,
			Note:     "Withdrawal",
		}
		if err := uow.Transactions().Create(ctx, create); err != nil {
			return err
		}

		if err := uow.Wallets().Update(ctx, w.ID, updateFor(amount.Currency(), available-amount.Amount())); err != nil {
			return err
		}

		completed := dto.TransactionStatusCompleted
		if err := uow.Transactions().Update(ctx, txID, dto.TransactionUpdate{Status: &completed}); err != nil {
			return err
		}

		tx, err = uow.Transactions().Get(ctx, txID)
		if err != nil {
			return err
		}
		wallet, err = uow.Wallets().GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal completed", "user_id", userID, "amount", amount.String())
	s.emitMutation(ctx, userID, wallet, tx)
	return tx, nil
}

// Transfer moves money from the sender to another user, resolved from a user
// id or an exact email address. It records two COMPLETED rows, an EXPENSE for
// the sender and an INCOME for the recipient, both carrying the sender and
// receiver ids. A recipient who has no wallet yet gets a zero-balance one in
// the same transaction. Both wallet writes and both rows commit atomically.
func (s *Service) Transfer(
	ctx context.Context,
	senderID uuid.UUID,
	recipient string,
	amount money.Money,
	note string,
) (*dto.TransactionRead, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrAmountMustBePositive
	}

	var (
		senderTx     *dto.TransactionRead
		recipientTx  *dto.TransactionRead
		senderWallet *dto.WalletRead
		recvWallet   *dto.WalletRead
		receiverID   uuid.UUID
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		recv, err := s.resolveRecipient(ctx, uow, recipient)
		if err != nil {
			return err
		}
		if recv.ID == senderID {
			return domain.ErrSelfTransfer
		}
		receiverID = recv.ID

		// Lock both wallet rows in a fixed order so two opposing transfers
		// cannot deadlock.
		first, second := senderID, recv.ID
		if strings.Compare(second.String(), first.String()) < 0 {
			first, second = second, first
		}
		locked := map[uuid.UUID]*dto.WalletRead{}
		for _, id := range []uuid.UUID{first, second} {
			w, err := uow.Wallets().GetByUserForUpdate(ctx, id)
			if errors.Is(err, domain.ErrWalletNotFound) && id == recv.ID {
				// A recipient without a wallet gets a zero-balance one
				// inside the same transaction.
				if err = uow.Wallets().Create(ctx, dto.WalletCreate{
					ID: uuid.New(), UserID: id,
				}); err != nil {
					return err
				}
				w, err = uow.Wallets().GetByUserForUpdate(ctx, id)
			}
			if err != nil {
				return err
			}
			locked[id] = w
		}
		sw, rw := locked[senderID], locked[recv.ID]

		available := balanceFor(sw, amount.Currency())
		if available < amount.Amount() {
			return domain.NewInsufficientBalance(
				money.NewFromSmallestUnit(available, amount.Currency()),
				amount,
			)
		}

		senderTxID, recvTxID := uuid.New(), uuid.New()
		sid, rid := senderID, recv.ID
		out := dto.TransactionCreate{
			ID:         senderTxID,
			UserID:     senderID,
			WalletID:   sw.ID,
			Amount:     amount.Amount(),
			Currency:   string(amount.Currency()),
			Type:       dto.TransactionTypeExpense,
			Category:   dto.TransactionCategoryP2P,
			Status:     dto.TransactionStatusCompleted,
			SenderID:   &sid,
			ReceiverID: &rid,
			Note:       note,
		}
		in := out
		in.ID = recvTxID
		in.UserID = recv.ID
		in.WalletID = rw.ID
		in.Type = dto.TransactionTypeIncome
		if err := uow.Transactions().Create(ctx, out); err != nil {
			return err
		}
		if err := uow.Transactions().Create(ctx, in); err != nil {
			return err
		}

		if err := uow.Wallets().Update(ctx, sw.ID,
			updateFor(amount.Currency(), available-amount.Amount())); err != nil {
			return err
		}
		recvBal := balanceFor(rw, amount.Currency()) + amount.Amount()
		if err := uow.Wallets().Update(ctx, rw.ID,
			updateFor(amount.Currency(), recvBal)); err != nil {
			return err
		}

		if senderTx, err = uow.Transactions().Get(ctx, senderTxID); err != nil {
			return err
		}
		if recipientTx, err = uow.Transactions().Get(ctx, recvTxID); err != nil {
			return err
		}
		if senderWallet, err = uow.Wallets().GetByUser(ctx, senderID); err != nil {
			return err
		}
		recvWallet, err = uow.Wallets().GetByUser(ctx, recv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer completed",
		"sender_id", senderID, "receiver_id", receiverID, "amount", amount.String())
	s.emitMutation(ctx, senderID, senderWallet, senderTx)
	s.emitMutation(ctx, receiverID, recvWallet, recipientTx)
	return senderTx, nil
}

// Convert exchanges between the fiat and crypto sides of the user's own
// wallet at the current BTC/USD rate. The only supported pairs are USD to BTC
// and BTC to USD. It records an EXPENSE in the source currency and an INCOME
// in the target currency, both COMPLETED, with the applied rate embedded in
// the note.
func (s *Service) Convert(
	ctx context.Context,
	userID uuid.UUID,
	from money.Money,
	to currency.Code,
) (*dto.TransactionRead, error) {
	if !from.IsPositive() {
		return nil, domain.ErrAmountMustBePositive
	}

	validPair := (from.Currency() == currency.USD && to == currency.BTC) ||
		(from.Currency() == currency.BTC && to == currency.USD)
	if !validPair {
		return nil, domain.ErrUnsupportedCurrencyPair
	}

	quote := s.rates.BTCUSD(ctx)
	var targetFloat float64
	if from.Currency() == currency.USD {
		targetFloat = from.AmountFloat() / quote.Rate
	} else {
		targetFloat = from.AmountFloat() * quote.Rate
	}
	target, err := money.New(targetFloat, to)
	if err != nil {
		return nil, err
	}
	if !target.IsPositive() {
		return nil, domain.ErrAmountMustBePositive
	}

	note := fmt.Sprintf("Converted %s to %s at rate %.2f",
		from.String(), target.String(), quote.Rate)

	var (
		inTx   *dto.TransactionRead
		wallet *dto.WalletRead
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		w, err := uow.Wallets().GetByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		available := balanceFor(w, from.Currency())
		if available < from.Amount() {
			return domain.NewInsufficientBalance(
				money.NewFromSmallestUnit(available, from.Currency()),
				from,
			)
		}

		out := dto.TransactionCreate{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: w.ID,
			Amount:   from.Amount(),
			Currency: string(from.Currency()),
			Type:     dto.TransactionTypeExpense,
			Category: dto.TransactionCategoryCrypto,
			Status:   dto.TransactionStatusCompleted,
			Note:     note,
		}
		inID := uuid.New()
		in := dto.TransactionCreate{
			ID:       inID,
			UserID:   userID,
			WalletID: w.ID,
			Amount:   target.Amount(),
			Currency: string(target.Currency()),
			Type:     dto.TransactionTypeIncome,
			Category: dto.TransactionCategoryCrypto,
			Status:   dto.TransactionStatusCompleted,
			Note:     note,
		}
		if err := uow.Transactions().Create(ctx, out); err != nil {
			return err
		}
		if err := uow.Transactions().Create(ctx, in); err != nil {
			return err
		}

		if err := uow.Wallets().Update(ctx, w.ID,
			updateFor(from.Currency(), available-from.Amount())); err != nil {
			return err
		}
		// Re-read after the first write so the credit applies to the already
		// debited row when both sides share a wallet.
		w2, err := uow.Wallets().GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		targetBal := balanceFor(w2, target.Currency()) + target.Amount()
		if err := uow.Wallets().Update(ctx, w.ID,
			updateFor(target.Currency(), targetBal)); err != nil {
			return err
		}

		if inTx, err = uow.Transactions().Get(ctx, inID); err != nil {
			return err
		}
		wallet, err = uow.Wallets().GetByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("conversion completed", "user_id", userID,
		"from", from.String(), "to", target.String(), "rate", quote.Rate)
	s.emitMutation(ctx, userID, wallet, inTx)
	return inTx, nil
}

// ListTransactions returns the user's ledger records, newest first, with the
// total count matching the filter.
func (s *Service) ListTransactions(
	ctx context.Context,
	userID uuid.UUID,
	filter dto.TransactionFilter,
) ([]*dto.TransactionRead, int64, error) {
	var (
		txs   []*dto.TransactionRead
		total int64
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		txs, err = uow.Transactions().ListByUser(ctx, userID, filter)
		if err != nil {
			return err
		}
		total, err = uow.Transactions().CountByUser(ctx, userID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// resolveRecipient accepts a user id or an exact email address. Anything that
// parses as a uuid is treated as an id; everything else must be an email.
func (s *Service) resolveRecipient(
	ctx context.Context,
	uow repository.UnitOfWork,
	recipient string,
) (*dto.UserRead, error) {
	recipient = strings.TrimSpace(recipient)
	if id, err := uuid.Parse(recipient); err == nil {
		user, err := uow.Users().Get(ctx, id)
		if err != nil {
			return nil, domain.ErrRecipientNotFound
		}
		return user, nil
	}
	if utils.IsEmail(recipient) {
		user, err := uow.Users().GetByEmail(ctx, recipient)
		if err != nil {
			return nil, domain.ErrRecipientNotFound
		}
		return user, nil
	}
	return nil, domain.ErrRecipientNotFound
}

func (s *Service) emitMutation(ctx context.Context, userID uuid.UUID, wallet *dto.WalletRead, tx *dto.TransactionRead) {
	if wallet != nil {
		if err := s.bus.Emit(ctx, events.BalanceUpdated{
			UserID: userID, Wallet: *wallet,
		}); err != nil {
			s.logger.Warn("balance event emit failed", "user_id", userID, "error", err)
		}
	}
	if tx != nil {
		if err := s.bus.Emit(ctx, events.TransactionRecorded{
			UserID: userID, Transaction: *tx,
		}); err != nil {
			s.logger.Warn("transaction event emit failed", "user_id", userID, "error", err)
		}
	}
}

func balanceFor(w *dto.WalletRead, code currency.Code) int64 {
	if code == currency.BTC {
		return w.CryptoBalance
	}
	return w.FiatBalance
}

func updateFor(code currency.Code, balance int64) dto.WalletUpdate {
	if code == currency.BTC {
		return dto.WalletUpdate{CryptoBalance: &balance}
	}
	return dto.WalletUpdate{FiatBalance: &balance}
}
