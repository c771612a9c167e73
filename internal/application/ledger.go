package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bnema/punini-cli/internal/domain"
	"github.com/bnema/punini-cli/internal/ports"
)

const (
	DefaultUsernameKey = "punini-user"
	DefaultBalanceKey  = "punini-balance"
	DefaultLoginDelay  = time.Second
	DefaultRedeemDelay = time.Second
)

type LedgerConfig struct {
	StartingBalance int64
	UsernameKey     string
	BalanceKey      string
	// LoginDelay and RedeemDelay simulate a remote round trip. Zero disables them.
	LoginDelay  time.Duration
	RedeemDelay time.Duration
	IDs         ports.IDGenerator
	Logger      *slog.Logger
}

func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		StartingBalance: domain.DefaultStartingBalance,
		UsernameKey:     DefaultUsernameKey,
		BalanceKey:      DefaultBalanceKey,
		LoginDelay:      DefaultLoginDelay,
		RedeemDelay:     DefaultRedeemDelay,
	}
}

// Ledger owns the session, its coin balance and the codes redeemed during
// the session. Every balance change is written to the store before the
// call returns.
type Ledger struct {
	store    ports.KeyValueStore
	verifier ports.CredentialVerifier
	codes    ports.CodeTable
	clock    ports.Clock
	ids      ports.IDGenerator
	logger   *slog.Logger
	cfg      LedgerConfig

	mu       sync.Mutex
	session  domain.Session
	claims   *domain.RedemptionRecord
	activity []domain.Activity
}

func NewLedger(store ports.KeyValueStore, verifier ports.CredentialVerifier, codes ports.CodeTable, clock ports.Clock, cfg LedgerConfig) *Ledger {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.UsernameKey == "" {
		cfg.UsernameKey = DefaultUsernameKey
	}
	if cfg.BalanceKey == "" {
		cfg.BalanceKey = DefaultBalanceKey
	}
	if cfg.StartingBalance < 0 {
		cfg.StartingBalance = 0
	}

	ids := cfg.IDs
	if ids == nil {
		ids = ports.UUIDGenerator{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Ledger{
		store:    store,
		verifier: verifier,
		codes:    codes,
		clock:    clock,
		ids:      ids,
		logger:   logger,
		cfg:      cfg,
		session:  domain.Session{Balance: cfg.StartingBalance},
		claims:   domain.NewRedemptionRecord(),
	}
}

// Restore loads a prior session from the store. An empty store is the normal
// "nobody signed in" case and is not an error.
func (l *Ledger) Restore(ctx context.Context) (domain.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	userName, err := l.store.Get(ctx, l.cfg.UsernameKey)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return l.session, nil
		}
		return l.session, fmt.Errorf("read persisted username: %w", err)
	}
	if strings.TrimSpace(userName) == "" {
		return l.session, nil
	}

	balance := l.cfg.StartingBalance
	rawBalance, err := l.store.Get(ctx, l.cfg.BalanceKey)
	switch {
	case err == nil:
		parsed, parseErr := parseBalance(rawBalance)
		if parseErr != nil {
			l.logger.Warn("ignoring persisted balance", "value", rawBalance, "error", parseErr)
		} else {
			balance = parsed
		}
	case errors.Is(err, domain.ErrKeyNotFound):
	default:
		return l.session, fmt.Errorf("read persisted balance: %w", err)
	}

	l.session = domain.Session{Authenticated: true, UserName: userName, Balance: balance}
	l.logger.Debug("session restored", "user", userName, "balance", balance)

	return l.session, nil
}

// Login checks the allow-list after the simulated latency and, on success,
// persists the canonical username. The balance carries over.
func (l *Ledger) Login(ctx context.Context, username, password string) (string, error) {
	if err := sleepContext(ctx, l.cfg.LoginDelay); err != nil {
		return "", err
	}

	canonical, err := l.verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			l.logger.Info("login rejected")
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("verify credentials: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	previous := l.session
	if err := l.store.Set(ctx, l.cfg.UsernameKey, canonical); err != nil {
		return "", fmt.Errorf("persist username: %w", err)
	}
	if err := l.store.Set(ctx, l.cfg.BalanceKey, formatBalance(previous.Balance)); err != nil {
		if rollbackErr := l.restoreUsernameKey(ctx, previous); rollbackErr != nil {
			return "", fmt.Errorf("persist balance and rollback username: %w", errors.Join(err, rollbackErr))
		}
		return "", fmt.Errorf("persist balance: %w", err)
	}

	if previous.Authenticated && previous.UserName != canonical {
		l.resetSessionScopedLocked()
	}
	l.session.Authenticated = true
	l.session.UserName = canonical
	l.logger.Info("login succeeded", "user", canonical)

	return canonical, nil
}

func (l *Ledger) restoreUsernameKey(ctx context.Context, previous domain.Session) error {
	if previous.Authenticated {
		return l.store.Set(ctx, l.cfg.UsernameKey, previous.UserName)
	}

	return l.store.Delete(ctx, l.cfg.UsernameKey)
}

// Logout always leaves the ledger unauthenticated. A failure to delete the
// persisted keys is still reported to the caller.
func (l *Ledger) Logout(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	userName := l.session.UserName
	l.session = domain.Session{Balance: l.cfg.StartingBalance}
	l.resetSessionScopedLocked()

	var deleteErr error
	for _, key := range []string{l.cfg.UsernameKey, l.cfg.BalanceKey} {
		if err := l.store.Delete(ctx, key); err != nil {
			deleteErr = errors.Join(deleteErr, err)
		}
	}
	if deleteErr != nil {
		return fmt.Errorf("clear persisted session: %w", deleteErr)
	}

	if userName != "" {
		l.logger.Info("logged out", "user", userName)
	}

	return nil
}

// ApplyDelta adds amount to the balance and writes it through. A change that
// would leave the balance negative is rejected without mutation.
func (l *Ledger) ApplyDelta(ctx context.Context, amount int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireAuthenticatedLocked(); err != nil {
		return 0, err
	}
	if err := l.applyDeltaLocked(ctx, amount); err != nil {
		return l.session.Balance, err
	}

	return l.session.Balance, nil
}

func (l *Ledger) Purchase(ctx context.Context, price int64) error {
	return l.PurchaseItem(ctx, "", price)
}

// PurchaseItem debits price if the balance covers it and records item in the
// session activity. The check and the debit happen under one lock.
func (l *Ledger) PurchaseItem(ctx context.Context, item string, price int64) error {
	if price <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidPrice, price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireAuthenticatedLocked(); err != nil {
		return err
	}
	if !l.session.CanAfford(price) {
		l.logger.Debug("purchase declined", "user", l.session.UserName, "price", price, "balance", l.session.Balance)
		return &domain.InsufficientBalanceError{Price: price, Balance: l.session.Balance}
	}
	if err := l.applyDeltaLocked(ctx, -price); err != nil {
		return err
	}

	if item == "" {
		item = "Purchase"
	}
	l.recordLocked(domain.ActivityPurchase, item, -price)
	l.logger.Info("purchase completed", "user", l.session.UserName, "item", item, "price", price, "balance", l.session.Balance)

	return nil
}

// Redeem credits the value of code once per session. Unknown codes are
// reported before already-claimed ones.
func (l *Ledger) Redeem(ctx context.Context, code string) (int64, error) {
	if err := sleepContext(ctx, l.cfg.RedeemDelay); err != nil {
		return 0, err
	}

	normalized := domain.NormalizeCode(code)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireAuthenticatedLocked(); err != nil {
		return 0, err
	}

	entry, err := l.lookupCode(ctx, normalized)
	if err != nil {
		return 0, err
	}
	if l.claims.Claimed(normalized) {
		return 0, domain.ErrAlreadyClaimed
	}
	if err := l.applyDeltaLocked(ctx, entry.Value); err != nil {
		return 0, err
	}

	l.claims.Claim(normalized)
	l.recordLocked(domain.ActivityRedeem, "Daily Code: "+normalized, entry.Value)
	l.logger.Info("code redeemed", "user", l.session.UserName, "code", normalized, "value", entry.Value)

	return entry.Value, nil
}

func (l *Ledger) lookupCode(ctx context.Context, code string) (domain.RedemptionCode, error) {
	if code == "" {
		return domain.RedemptionCode{}, domain.ErrInvalidCode
	}

	entry, err := l.codes.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCode) {
			return domain.RedemptionCode{}, domain.ErrInvalidCode
		}
		return domain.RedemptionCode{}, fmt.Errorf("lookup redemption code: %w", err)
	}
	if entry.Value <= 0 {
		l.logger.Warn("redemption code has non-positive value", "code", code, "value", entry.Value)
		return domain.RedemptionCode{}, domain.ErrInvalidCode
	}

	return entry, nil
}

func (l *Ledger) Session() domain.Session {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.session
}

// Activity returns the session activity, newest first.
func (l *Ledger) Activity() []domain.Activity {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.activityLocked()
}

func (l *Ledger) Profile() Profile {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Profile{
		UserName:     l.session.UserName,
		Balance:      l.session.Balance,
		ClaimedCodes: l.claims.Len(),
		Activity:     l.activityLocked(),
	}
}

func (l *Ledger) activityLocked() []domain.Activity {
	activity := make([]domain.Activity, 0, len(l.activity))
	for i := len(l.activity) - 1; i >= 0; i-- {
		activity = append(activity, l.activity[i])
	}

	return activity
}

func (l *Ledger) requireAuthenticatedLocked() error {
	if !l.session.Authenticated {
		return domain.ErrNotAuthenticated
	}

	return nil
}

func (l *Ledger) applyDeltaLocked(ctx context.Context, amount int64) error {
	next := l.session.Balance + amount
	if next < 0 {
		return fmt.Errorf("%w: balance %d, delta %d", domain.ErrNegativeBalance, l.session.Balance, amount)
	}

	if err := l.store.Set(ctx, l.cfg.BalanceKey, formatBalance(next)); err != nil {
		l.logger.Warn("balance write-through failed", "user", l.session.UserName, "error", err)
		return fmt.Errorf("persist balance: %w", err)
	}

	l.session.Balance = next
	return nil
}

func (l *Ledger) recordLocked(kind domain.ActivityKind, item string, amount int64) {
	l.activity = append(l.activity, domain.Activity{
		ID:     l.ids.NewID(),
		Kind:   kind,
		Item:   item,
		Amount: amount,
		At:     l.clock.Now(),
	})
}

func (l *Ledger) resetSessionScopedLocked() {
	l.claims = domain.NewRedemptionRecord()
	l.activity = nil
}

func parseBalance(raw string) (int64, error) {
	balance, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse balance: %w", err)
	}
	if balance < 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrNegativeBalance, balance)
	}

	return balance, nil
}

func formatBalance(balance int64) string {
	return strconv.FormatInt(balance, 10)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
