package orchestrator

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/session"
	"github.com/vadiminshakov/whalehub/pkg/retrier"
)

type unfinishedIntents interface {
	UnfinishedIntents() ([]domain.IntentRecord, error)
}

// Connect opens walletID, resolves its address and attaches it to sess.
func (o *Orchestrator) Connect(ctx context.Context, sess *session.Session, walletID domain.WalletID) error {
	if address, err := sess.Address(); err == nil {
		return errors.Wrapf(domain.ErrAlreadyConnected, "connected as %s", address)
	}

	w, err := o.wallets.Open(walletID)
	if err != nil {
		o.notify(domain.NotificationLevelFor(err), "", domain.UserMessage(err))
		return err
	}

	address, err := w.ResolveAddress(ctx)
	if err != nil {
		o.notify(domain.NotificationLevelFor(err), "", domain.UserMessage(err))
		return errors.Wrap(err, "resolve address")
	}

	if err := sess.Connect(domain.WalletSession{WalletID: walletID, Address: address}, w); err != nil {
		return err
	}

	o.logger.Info("wallet connected", zap.String("wallet", walletID.String()), zap.String("address", address))
	o.notify(domain.LevelSuccess, "", "Wallet connected.")

	if err := o.refresh(ctx, sess, true); err != nil {
		o.logger.Warn("initial refresh failed", zap.Error(err))
		o.notify(domain.LevelWarning, "", "Failed to load wallet balances.")
	}
	return nil
}

// Resume reconnects the wallet of the previous run. With no previous wallet the one
// selected by configuration is connected instead.
func (o *Orchestrator) Resume(ctx context.Context, sess *session.Session, previous *domain.WalletSession) error {
	walletID := o.cfg.WalletID
	if previous != nil {
		walletID = previous.WalletID
	}
	if err := o.Connect(ctx, sess, walletID); err != nil {
		return errors.Wrapf(err, "connect %s wallet", walletID)
	}

	if previous == nil {
		return nil
	}
	if address, _ := sess.Address(); address != previous.Address {
		o.logger.Warn("wallet address changed since last run",
			zap.String("previous", previous.Address),
			zap.String("current", address))
	}
	return nil
}

// Logout detaches the wallet and drops the user record and drafts.
func (o *Orchestrator) Logout(sess *session.Session) {
	address, err := sess.Address()
	sess.Logout()
	if err == nil {
		o.logger.Info("wallet disconnected", zap.String("address", address))
	}
}

// Refresh reloads ledger balances and the backend record of the connected account once.
func (o *Orchestrator) Refresh(ctx context.Context, sess *session.Session) error {
	if err := o.refresh(ctx, sess, false); err != nil {
		o.notify(domain.NotificationLevelFor(err), "", domain.UserMessage(err))
		return err
	}
	return nil
}

// refresh replaces the user record of sess; with retry transient read errors are repeated.
func (o *Orchestrator) refresh(ctx context.Context, sess *session.Session, retry bool) error {
	address, err := sess.Address()
	if err != nil {
		return err
	}

	load := func(ctx context.Context) (domain.UserRecord, error) {
		snapshot, err := o.reader.LoadAccount(ctx, address)
		if err != nil {
			return domain.UserRecord{}, err
		}
		account, err := o.backend.FetchUserRecord(ctx, address)
		if err != nil {
			return domain.UserRecord{}, err
		}
		return domain.UserRecord{Balances: snapshot.Balances, Account: &account}, nil
	}

	var rec domain.UserRecord
	if retry {
		rec, err = retrier.DoWithData(o.retrier, ctx, load)
	} else {
		rec, err = load(ctx)
	}
	if err != nil {
		return errors.Wrap(err, "refresh user record")
	}

	// the wallet may have changed while the reads were in flight
	if current, err := sess.Address(); err != nil || current != address {
		return nil
	}
	sess.SetUserRecord(rec)
	return nil
}

// RecoverInterrupted reports intents left pending by a previous run and marks them failed.
// Whether the ledger accepted them is unknown, so nothing is resubmitted.
func (o *Orchestrator) RecoverInterrupted(src unfinishedIntents) (int, error) {
	pending, err := src.UnfinishedIntents()
	if err != nil {
		return 0, errors.Wrap(err, "load unfinished intents")
	}

	for _, rec := range pending {
		intent := rec.Intent
		o.logger.Warn("action interrupted by restart",
			zap.String("id", intent.ID),
			zap.String("action", string(intent.Kind)),
			zap.String("address", intent.Address),
			zap.Any("amounts", intent.Amounts))
		o.saveIntent(intent.Failed(errors.New("interrupted by restart")))
		o.notify(domain.LevelWarning, intent.Kind,
			"A previous action was interrupted. Check your balances before retrying.")
	}
	return len(pending), nil
}
