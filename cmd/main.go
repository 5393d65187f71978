// Command whalehub runs the staking client: a local web console and a terminal
// notification feed on top of a ledger wallet session.
//
// Usage:
//
//	whalehub -config config.yaml
//	whalehub -setup (interactive configuration wizard)
//
// Wallet environment variables:
//
//	secret wallet:  WHALEHUB_SECRET_SEED
//	keyfile wallet: WHALEHUB_KEYFILE_PASSPHRASE (prompted when unset)
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/whalehub/config"
	"github.com/vadiminshakov/whalehub/internal/backend"
	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/ledger"
	"github.com/vadiminshakov/whalehub/internal/notify"
	"github.com/vadiminshakov/whalehub/internal/orchestrator"
	"github.com/vadiminshakov/whalehub/internal/pipeline"
	"github.com/vadiminshakov/whalehub/internal/session"
	"github.com/vadiminshakov/whalehub/internal/setup"
	"github.com/vadiminshakov/whalehub/internal/storage/journal"
	"github.com/vadiminshakov/whalehub/internal/storage/sessionstate"
	"github.com/vadiminshakov/whalehub/internal/txbuild"
	"github.com/vadiminshakov/whalehub/internal/wallet"
	"github.com/vadiminshakov/whalehub/internal/web"
)

const (
	horizonTimeout   = 30 * time.Second
	notifyBuffer     = 64
	reconnectTimeout = 30 * time.Second
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	flags := config.ParseFlags()
	configPath := flags.ConfigPath
	if flags.Setup {
		path, err := setup.RunTUI(".")
		if err != nil {
			logger.Fatal("setup failed", zap.Error(err))
		}
		configPath = path
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("failed to get configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("whalehub stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	store, err := journal.NewWALStore(cfg.WALDir)
	if err != nil {
		return err
	}
	defer store.Close()

	hub := notify.NewHub(notifyBuffer, store, logger)

	var confirm wallet.ConfirmFunc
	if cfg.ConfirmSigning {
		confirm = wallet.HuhConfirm
	}
	wallets := wallet.NewRegistry(confirm)
	wallets.Register(domain.WalletSecret, wallet.SecretFromEnv)
	if cfg.KeyfilePath != "" {
		wallets.Register(domain.WalletKeyfile, wallet.KeyfileFactory(cfg.KeyfilePath, wallet.PassphraseFromEnv))
	}

	horizon := ledger.NewHorizonClient(cfg.HorizonURL, horizonTimeout)
	orch := orchestrator.New(cfg, orchestrator.Deps{
		Reader:   ledger.NewReader(horizon, logger),
		Composer: txbuild.NewComposer(nil),
		Pipeline: pipeline.New(ledger.NewSubmitter(horizon, logger), logger),
		Backend:  backend.NewClient(cfg.BackendAPI, logger),
		Wallets:  wallets,
		Journal:  store,
		Notifier: hub,
		Logger:   logger,
	})

	if n, err := orch.RecoverInterrupted(store); err != nil {
		logger.Warn("failed to inspect interrupted actions", zap.Error(err))
	} else if n > 0 {
		logger.Warn("interrupted actions found", zap.Int("count", n))
	}

	sess := session.New(nil)
	states, err := sessionstate.NewStore(cfg.StateDir, string(cfg.Network))
	if err != nil {
		return err
	}
	restoreSession(ctx, orch, sess, states, logger)
	sess.OnChange(func(v session.View) {
		if err := states.Save(sessionstate.FromView(v)); err != nil {
			logger.Warn("failed to persist session", zap.Error(err))
		}
	})

	server := web.NewServer(cfg.ListenAddr, sess, orch, store, web.Overview{
		Staking:   cfg.Staking,
		StakeCode: cfg.Assets.Aqua.Code,
		Wallet:    cfg.WalletID,
	}, logger)
	console := notify.NewConsole(hub, os.Stdout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Start(gctx) })
	g.Go(func() error { return console.Run(gctx) })

	logger.Info("started",
		zap.String("network", string(cfg.Network)),
		zap.String("listen", cfg.ListenAddr),
		zap.String("submission", string(cfg.Submission)))

	err = g.Wait()
	orch.Wait()
	return err
}

// restoreSession brings back drafts and reconnects the wallet used before the restart.
// On the first run the configured wallet is connected.
func restoreSession(ctx context.Context, orch *orchestrator.Orchestrator, sess *session.Session, states *sessionstate.Store, logger *zap.Logger) {
	state, err := states.Load()
	if err != nil {
		logger.Warn("failed to load saved session", zap.Error(err))
		return
	}

	var previous *domain.WalletSession
	if state != nil {
		sess.RestoreDrafts(state.Drafts)
		if state.Wallet == nil {
			// logged out before the restart
			return
		}
		previous = state.Wallet
	}

	connectCtx, cancel := context.WithTimeout(ctx, reconnectTimeout)
	defer cancel()
	if err := orch.Resume(connectCtx, sess, previous); err != nil {
		logger.Warn("failed to connect wallet", zap.Error(err))
	}
}
