// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"path"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/chain"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/config"
	"github.com/lssa-labs/treasuryvm/crypto/ed25519"
	"github.com/lssa-labs/treasuryvm/pda"
	"github.com/lssa-labs/treasuryvm/pebble"
	"github.com/lssa-labs/treasuryvm/program"
	"github.com/lssa-labs/treasuryvm/storage"
	"github.com/lssa-labs/treasuryvm/token"
	"github.com/lssa-labs/treasuryvm/trace"
	"github.com/lssa-labs/treasuryvm/treasury"
	"github.com/lssa-labs/treasuryvm/utils"

	avatrace "github.com/ava-labs/avalanchego/trace"
)

const (
	keysDir     = "keys"
	sessionFile = "session.yaml"
)

// Handler owns everything a command needs: the ledger, the processor and
// the cached session.
type Handler struct {
	cfg     *config.Config
	session *config.Session

	logFactory *logFactory
	log        logging.Logger
	tracer     avatrace.Tracer

	db        *pebble.Database
	processor *chain.Processor
	submitter chain.Submitter
	treasury  *treasury.Program
	metrics   prometheus.Gatherers
}

func NewHandler(cfg *config.Config) (*Handler, error) {
	h := &Handler{cfg: cfg}

	h.logFactory = newLogFactory(logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   8, // megabytes
			MaxFiles:  4,
			MaxAge:    7, // days
			Directory: cfg.LogDir,
			Compress:  true,
		},
		DisplayLevel: cfg.LogDisplayLevel,
		LogLevel:     cfg.LogLevel,
		LogFormat:    logging.JSON,
	})
	log, err := h.logFactory.Make("treasury-cli")
	if err != nil {
		h.logFactory.Close()
		return nil, err
	}
	h.log = log

	traceCfg := cfg.Trace
	traceCfg.AppName = treasury.Name
	traceCfg.Agent = "treasury-cli"
	traceCfg.Version = Version
	h.tracer, err = trace.New(&traceCfg)
	if err != nil {
		h.logFactory.Close()
		return nil, err
	}

	db, dbRegistry, err := storage.New(cfg.Pebble, cfg.DataDir, storage.Namespace)
	if err != nil {
		h.logFactory.Close()
		return nil, err
	}
	h.db = db

	deriver := pda.Default()
	verifier := auth.ED25519Verifier{}
	h.treasury = treasury.New(deriver, verifier)
	registry, err := program.NewRegistry(h.treasury, token.New())
	if err != nil {
		return nil, h.closeOnError(err)
	}
	processor, chainRegistry, err := chain.NewProcessor(cfg.Chain, h.log, h.tracer, registry, deriver, verifier)
	if err != nil {
		return nil, h.closeOnError(err)
	}
	h.processor = processor
	h.submitter = chain.NewLocalSubmitter(processor, db)
	h.metrics = prometheus.Gatherers{dbRegistry, chainRegistry}

	h.session, err = config.LoadSession(path.Join(cfg.DataDir, sessionFile))
	if err != nil {
		return nil, h.closeOnError(err)
	}
	h.log.Debug("handler initialized",
		zap.String("dataDir", cfg.DataDir),
		zap.Int("maxCallDepth", cfg.Chain.MaxCallDepth),
	)
	return h, nil
}

func (h *Handler) closeOnError(err error) error {
	_ = h.db.Close()
	h.logFactory.Close()
	return err
}

// Close persists the session and releases the ledger.
func (h *Handler) Close() error {
	errs := wrappers.Errs{}
	errs.Add(
		h.session.Save(path.Join(h.cfg.DataDir, sessionFile)),
		h.tracer.Close(),
		h.db.Close(),
	)
	h.logFactory.Close()
	return errs.Err
}

func (h *Handler) Session() *config.Session {
	return h.session
}

// GenerateKey creates a key, stores it under the data directory and
// records it in the session.
func (h *Handler) GenerateKey() (*auth.ED25519Factory, error) {
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	dir, err := utils.InitSubDirectory(h.cfg.DataDir, keysDir)
	if err != nil {
		return nil, err
	}
	factory := auth.NewED25519Factory(priv)
	file := path.Join(dir, factory.Address().String()+".pk")
	if err := utils.SaveBytes(file, priv[:]); err != nil {
		return nil, err
	}
	h.session.AddKey(factory.Address(), file)
	return factory, nil
}

// Key loads the key for [addr], or the default key when [addr] is empty.
func (h *Handler) Key(addr string) (*auth.ED25519Factory, error) {
	file, ok := h.session.KeyFile(addr)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, addr)
	}
	b, err := utils.LoadBytes(file, ed25519.PrivateKeyLen)
	if err != nil {
		return nil, err
	}
	return auth.NewED25519Factory(ed25519.PrivateKey(b)), nil
}

// Keys loads every key in [addrs].
func (h *Handler) Keys(addrs []string) ([]*auth.ED25519Factory, error) {
	factories := make([]*auth.ED25519Factory, len(addrs))
	for i, addr := range addrs {
		f, err := h.Key(addr)
		if err != nil {
			return nil, err
		}
		factories[i] = f
	}
	return factories, nil
}

// Token resolves a token name cached in the session.
func (h *Handler) Token(name string) (codec.Address, error) {
	definition, ok, err := h.session.Token(name)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if !ok {
		return codec.EmptyAddress, fmt.Errorf("%w: %q", ErrUnknownToken, name)
	}
	return definition, nil
}

func (h *Handler) Treasury() *treasury.Program {
	return h.treasury
}

func (h *Handler) DB() *pebble.Database {
	return h.db
}

// Submit fills in the signers' current nonces, signs [msg], attaches
// [approvals] and executes the transaction.
func (h *Handler) Submit(
	ctx context.Context,
	msg *chain.Message,
	signers []*auth.ED25519Factory,
	approvals []*auth.Witness,
) (*chain.Result, error) {
	msg.Nonces = make([]uint64, len(signers))
	for i, s := range signers {
		acct, err := storage.GetAccountFromDB(h.db, s.Address())
		if err != nil {
			return nil, err
		}
		msg.Nonces[i] = acct.Nonce
	}
	tx, err := chain.NewTx(msg).Sign(signers...)
	if err != nil {
		return nil, err
	}
	if len(approvals) > 0 {
		tx, err = tx.Approve(approvals...)
		if err != nil {
			return nil, err
		}
	}
	result, err := h.submitter.Submit(ctx, tx)
	if err != nil {
		h.log.Info("transaction rejected",
			zap.Stringer("txID", tx.ID()),
			zap.Error(err),
		)
		return nil, err
	}
	utils.Outf(
		"{{green}}committed{{/}} tx %s {{yellow}}chained calls:{{/}} %d {{yellow}}accounts changed:{{/}} %d\n",
		result.TxID,
		result.ChainedCalls,
		len(result.Touched),
	)
	return result, nil
}

// PrintMetrics writes every counter gathered so far.
func (h *Handler) PrintMetrics() error {
	families, err := h.metrics.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				utils.Outf("{{cyan}}%s{{/}} %v\n", mf.GetName(), m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				utils.Outf("{{cyan}}%s{{/}} %v\n", mf.GetName(), m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				utils.Outf("{{cyan}}%s{{/}} count=%d sum=%v\n", mf.GetName(), m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			}
		}
	}
	return nil
}
