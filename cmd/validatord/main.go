// Validator node daemon.
//
// Usage:
//
//	VALIDATOR_PRIVATE_KEY=<hex> VALIDATOR_PEERS=ws://a:7000,ws://b:7000 validatord
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Klingon-tech/klingnet-chain/config"
	klog "github.com/Klingon-tech/klingnet-chain/internal/log"
	"github.com/Klingon-tech/klingnet-chain/internal/node"
	"github.com/Klingon-tech/klingnet-chain/internal/state"
	"github.com/Klingon-tech/klingnet-chain/pkg/crypto"
)

func main() {
	// ── 1. Load config (environment only; no file, no flags) ───────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// ── 2. Init logger ───────────────────────────────────────────────────
	base := klog.Init(cfg.LogLevel, cfg.LogJSON)

	// ── 3. Load the validator signing key ───────────────────────────────
	key, err := crypto.PrivateKeyFromHex(cfg.PrivateKeyHex)
	if err != nil {
		base.Fatal().Err(err).Msg("failed to load VALIDATOR_PRIVATE_KEY")
	}
	defer key.Zero()

	logger := klog.WithComponent(klog.WithValidator(base, key.PublicKeyHex()), "node")

	logger.Info().
		Str("pubkey", key.PublicKeyHex()).
		Str("listen", cfg.ListenAddr).
		Int("peers", len(cfg.Peers)).
		Msg("starting validator node")

	// ── 4. Construct the node ───────────────────────────────────────────
	// The chain starts empty; a real deployment seeds it by providing an
	// initial transactions list out of band, or relies entirely on chain
	// sync against already-running peers.
	n := node.New(node.Config{
		Chain:      state.NewChain(),
		ListenAddr: cfg.ListenAddr,
		Peers:      cfg.Peers,
		PrivateKey: key,
		Logger:     logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := n.Start(ctx); err != nil {
			logger.Fatal().Err(err).Msg("node exited")
		}
	}()

	// ── 5. Wait for shutdown ─────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	cancel()
}
