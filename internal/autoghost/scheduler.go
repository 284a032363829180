// Package autoghost periodically mints eligible wallet outputs into private
// commitments.
//
// Each wallet gets its own Scheduler. All state lives in the Scheduler; waits
// are bounded, wake early on Wake and end on context cancellation.
package autoghost

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type OutPoint struct {
	Hash  [32]byte
	Index uint32
}

// Output is a spendable wallet output. Address is empty when the script has no
// standard destination.
type Output struct {
	OutPoint OutPoint
	Value    Amount
	Address  string
}

// Wallet is the part of a wallet the scheduler drives.
type Wallet interface {
	IsLocked() bool
	AvailableOutputs() ([]Output, error)
	LockedOutPoints() ([]OutPoint, error)
	// Mint spends in into a private commitment of the given amount.
	Mint(ctx context.Context, in OutPoint, amount Amount) error
}

// Chain reports node sync state.
type Chain interface {
	Importing() bool
	InitialBlockDownload() bool
	PeerCount() int
}

type Status int32

const (
	NotGhosting Status = iota
	NotGhostingLocked
	Ghosting
)

func (s Status) String() string {
	switch s {
	case NotGhosting:
		return "not ghosting"
	case NotGhostingLocked:
		return "not ghosting (wallet locked)"
	case Ghosting:
		return "ghosting"
	default:
		return "unknown"
	}
}

type Scheduler struct {
	cfg    Config
	wallet Wallet
	chain  Chain
	log    zerolog.Logger

	now  func() time.Time
	rand *rand.Rand
	wake chan struct{}

	blacklist map[string]struct{}

	mu       sync.Mutex
	status   Status
	lastPass time.Time
	sleep    time.Duration
}

type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithRand replaces the source used to shuffle outputs and draw sleep jitter.
func WithRand(r *rand.Rand) Option {
	return func(s *Scheduler) { s.rand = r }
}

// WithLogger replaces the gnark default logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

func New(cfg Config, w Wallet, c Chain, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:       cfg,
		wallet:    w,
		chain:     c,
		log:       logger.Logger().With().Str("component", "autoghost").Logger(),
		now:       time.Now,
		rand:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		wake:      make(chan struct{}, 1),
		blacklist: make(map[string]struct{}, len(cfg.Blacklist)),
	}
	for _, addr := range cfg.Blacklist {
		s.blacklist[addr] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wake cuts the current wait short. Call it when the chain has synced, the
// wallet was unlocked or the balance changed.
func (s *Scheduler) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Scheduler) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// Run mints until ctx is done. It returns nil on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.log.Info().Msg("autoghost disabled")
		return nil
	}
	s.log.Info().Int("blacklisted", len(s.blacklist)).Msg("starting ghosting loop")

	for {
		d := s.step(ctx)
		if !s.wait(ctx, d) {
			s.log.Info().Msg("ghosting loop stopped")
			return nil
		}
	}
}

// RunAll runs every scheduler until ctx is done.
func RunAll(ctx context.Context, schedulers ...*Scheduler) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range schedulers {
		g.Go(func() error { return s.Run(ctx) })
	}
	return g.Wait()
}

// wait blocks for d, until Wake or until ctx is done. It reports false on cancellation.
func (s *Scheduler) wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-s.wake:
		return true
	case <-t.C:
		return true
	}
}

// step runs one pass and returns how long to wait before the next one.
func (s *Scheduler) step(ctx context.Context) time.Duration {
	if s.chain.Importing() {
		s.log.Debug().Msg("block import or reindex in progress")
		return time.Duration(s.cfg.ImportWait)
	}
	if s.chain.PeerCount() == 0 || s.chain.InitialBlockDownload() {
		s.log.Debug().Msg("initial block download")
		return time.Duration(s.cfg.SyncWait)
	}

	s.mu.Lock()
	next := s.lastPass.Add(s.sleep)
	s.mu.Unlock()
	if now := s.now(); now.Before(next) {
		remaining := next.Sub(now)
		s.log.Debug().Dur("remaining", remaining).Msg("timer not expired yet")
		return remaining
	}

	if s.wallet.IsLocked() {
		s.setStatus(NotGhostingLocked)
		s.log.Info().Dur("retry", time.Duration(s.cfg.LockedWait)).Msg("wallet locked")
		return time.Duration(s.cfg.LockedWait)
	}

	minted := s.mintOne(ctx)

	sleep := time.Duration(s.cfg.MinSleep)
	if s.cfg.SleepJitter > 0 {
		sleep += time.Duration(s.rand.Int64N(int64(s.cfg.SleepJitter)))
	}
	s.mu.Lock()
	s.sleep = sleep
	s.lastPass = s.now()
	s.mu.Unlock()
	s.log.Info().Bool("minted", minted).Dur("sleep", sleep).Msg("pass done")
	return sleep
}

// mintOne mints the first eligible output in random order and reports whether one succeeded.
func (s *Scheduler) mintOne(ctx context.Context) bool {
	s.setStatus(NotGhosting)

	outputs, err := s.wallet.AvailableOutputs()
	if err != nil {
		s.log.Error().Err(err).Msg("list available outputs")
		return false
	}
	locked, err := s.wallet.LockedOutPoints()
	if err != nil {
		s.log.Error().Err(err).Msg("list locked outputs")
		return false
	}

	outputs = slices.Clone(outputs)
	s.rand.Shuffle(len(outputs), func(i, j int) {
		outputs[i], outputs[j] = outputs[j], outputs[i]
	})

	for _, out := range outputs {
		if !s.eligible(out, locked) {
			continue
		}
		amount := MintAmount(out.Value)
		s.setStatus(Ghosting)
		s.log.Info().Stringer("amount", amount).Uint32("index", out.OutPoint.Index).Msg("minting")
		if err := s.wallet.Mint(ctx, out.OutPoint, amount); err != nil {
			s.log.Warn().Err(err).Msg("mint failed, trying next output")
			continue
		}
		return true
	}
	s.setStatus(NotGhosting)
	return false
}

func (s *Scheduler) eligible(out Output, locked []OutPoint) bool {
	// just above MinMintable the fee still rounds the mint down to zero
	if out.Value < MinMintable || MintAmount(out.Value) == 0 {
		return false
	}
	if slices.Contains(locked, out.OutPoint) {
		return false
	}
	if out.Address == "" {
		return false
	}
	_, banned := s.blacklist[out.Address]
	return !banned
}
