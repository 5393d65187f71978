// Package orchestrator runs user actions end to end: validate, load a fresh snapshot,
// compose, sign, submit, record with the backend and reconcile the session.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/whalehub/config"
	"github.com/vadiminshakov/whalehub/internal/backend"
	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/pipeline"
	"github.com/vadiminshakov/whalehub/internal/session"
	"github.com/vadiminshakov/whalehub/internal/txbuild"
	"github.com/vadiminshakov/whalehub/internal/wallet"
	"github.com/vadiminshakov/whalehub/pkg/retrier"
)

const (
	trustTimeout     = 30 * time.Second
	lockTimeout      = 180 * time.Second
	liquidityTimeout = 30 * time.Second
)

type accountReader interface {
	LoadAccount(ctx context.Context, address string) (domain.AccountSnapshot, error)
}

type backendClient interface {
	Lock(ctx context.Context, req backend.LockRequest) (backend.ServerRecord, error)
	AddLiquidity(ctx context.Context, req backend.AddLiquidityRequest) (backend.ServerRecord, error)
	RemoveLiquidity(ctx context.Context, req backend.PoolShareRequest) (backend.ServerRecord, error)
	RedeemReward(ctx context.Context, req backend.PoolShareRequest) (backend.ServerRecord, error)
	Unstake(ctx context.Context, req backend.UnstakeRequest) (backend.ServerRecord, error)
	FetchUserRecord(ctx context.Context, address string) (domain.AccountRecord, error)
}

type walletOpener interface {
	Open(id domain.WalletID) (wallet.Wallet, error)
}

type intentJournal interface {
	SaveIntent(intent domain.Intent) error
}

type notifier interface {
	Notify(level domain.NotificationLevel, action domain.ActionKind, message string) domain.Notification
}

// Deps collaborators of the orchestrator. Journal and RefreshRetrier are optional.
type Deps struct {
	Reader         accountReader
	Composer       *txbuild.Composer
	Pipeline       *pipeline.Pipeline
	Backend        backendClient
	Wallets        walletOpener
	Journal        intentJournal
	Notifier       notifier
	RefreshRetrier *retrier.Retrier
	Logger         *zap.Logger
}

// Orchestrator owns no state of its own; every call receives the session it works on.
type Orchestrator struct {
	cfg      config.Config
	reader   accountReader
	composer *txbuild.Composer
	pipeline *pipeline.Pipeline
	backend  backendClient
	wallets  walletOpener
	journal  intentJournal
	notifier notifier
	retrier  *retrier.Retrier
	logger   *zap.Logger

	wg sync.WaitGroup
}

// New creates an orchestrator.
func New(cfg config.Config, deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	composer := deps.Composer
	if composer == nil {
		composer = txbuild.NewComposer(nil)
	}
	r := deps.RefreshRetrier
	if r == nil {
		r = retrier.New(
			retrier.WithMaxRetries(2),
			retrier.WithInitialInterval(500*time.Millisecond),
			retrier.WithMaxInterval(2*time.Second),
			retrier.WithRetryIf(isTransient),
		)
	}
	return &Orchestrator{
		cfg:      cfg,
		reader:   deps.Reader,
		composer: composer,
		pipeline: deps.Pipeline,
		backend:  deps.Backend,
		wallets:  deps.Wallets,
		journal:  deps.Journal,
		notifier: deps.Notifier,
		retrier:  r,
		logger:   logger,
	}
}

// outcome result of a successful action run.
type outcome struct {
	txHash  string
	message string
}

// action a validated request ready to run.
type action struct {
	kind    domain.ActionKind
	amounts map[string]string
	run     func(ctx context.Context) (outcome, error)
}

// Execute runs req synchronously.
func (o *Orchestrator) Execute(ctx context.Context, sess *session.Session, req Request) error {
	act, err := o.begin(sess, req)
	if err != nil {
		return err
	}
	return o.execute(ctx, sess, act)
}

// Dispatch validates req and moves its kind to Pending synchronously, then runs it in the
// background, detached from ctx cancellation.
func (o *Orchestrator) Dispatch(ctx context.Context, sess *session.Session, req Request) error {
	act, err := o.begin(sess, req)
	if err != nil {
		return err
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		_ = o.execute(context.WithoutCancel(ctx), sess, act)
	}()
	return nil
}

// Wait blocks until every dispatched action finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// begin rejects the call while kind is busy, validates without I/O and marks kind Pending.
// Only the call that wins Begin writes the draft.
func (o *Orchestrator) begin(sess *session.Session, req Request) (action, error) {
	tracker := sess.Tracker()
	if tracker.State(req.Kind) != domain.StateIdle {
		return action{}, errors.Wrapf(domain.ErrActionPending, "%s", req.Kind)
	}

	act, err := o.prepare(sess, req)
	if err != nil {
		if tracker.State(req.Kind) == domain.StateIdle {
			sess.SetDraft(req.Kind, req.draft())
		}
		o.notify(domain.NotificationLevelFor(err), req.Kind, domain.UserMessage(err))
		return action{}, err
	}

	if !tracker.Begin(req.Kind) {
		return action{}, errors.Wrapf(domain.ErrActionPending, "%s", req.Kind)
	}
	sess.SetDraft(req.Kind, req.draft())
	return act, nil
}

// execute drives Pending -> Succeeded|Failed -> Idle. The reset always happens.
func (o *Orchestrator) execute(ctx context.Context, sess *session.Session, act action) error {
	tracker := sess.Tracker()
	defer tracker.Reset(act.kind)

	logger := o.logger.With(zap.String("action", string(act.kind)))
	address, _ := sess.Address()
	intent := domain.NewIntent(act.kind, address, act.amounts)
	o.saveIntent(intent)

	res, err := act.run(ctx)
	tracker.Complete(act.kind, err)

	if err != nil {
		logger.Warn("action failed", zap.Error(err))
		o.saveIntent(intent.Failed(err))
		o.notify(domain.NotificationLevelFor(err), act.kind, domain.UserMessage(err))
		return err
	}

	logger.Info("action succeeded", zap.String("tx_hash", res.txHash))
	o.saveIntent(intent.Succeeded(res.txHash))
	sess.ClearDraft(act.kind)

	if err := o.refresh(ctx, sess, true); err != nil {
		logger.Warn("refresh after action failed", zap.Error(err))
		o.notify(domain.LevelWarning, act.kind, "Failed to refresh wallet balances.")
	}

	o.notify(domain.LevelSuccess, act.kind, res.message)
	return nil
}

func (o *Orchestrator) saveIntent(intent domain.Intent) {
	if o.journal == nil {
		return
	}
	if err := o.journal.SaveIntent(intent); err != nil {
		o.logger.Error("failed to journal intent",
			zap.String("id", intent.ID),
			zap.String("status", string(intent.Status)),
			zap.Error(err))
	}
}

func (o *Orchestrator) notify(level domain.NotificationLevel, kind domain.ActionKind, message string) {
	if o.notifier == nil || message == "" {
		return
	}
	o.notifier.Notify(level, kind, message)
}

// isTransient reports whether a read may succeed when repeated.
func isTransient(err error) bool {
	if errors.Is(err, domain.ErrServerValidation) || errors.Is(err, domain.ErrAccountNotFound) {
		return false
	}
	return errors.Is(err, domain.ErrNetwork) || errors.Is(err, domain.ErrTransport)
}
