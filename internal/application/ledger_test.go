package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	codestatic "github.com/bnema/punini-cli/internal/adapters/codes/static"
	"github.com/bnema/punini-cli/internal/adapters/credentials/allowlist"
	"github.com/bnema/punini-cli/internal/adapters/kv/memory"
	"github.com/bnema/punini-cli/internal/domain"
	"github.com/bnema/punini-cli/internal/ports/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type sequentialIDs struct{ next int }

func (g *sequentialIDs) NewID() string {
	g.next++
	return fmt.Sprintf("act-%d", g.next)
}

func mockAnyContext() interface{} {
	return mock.Anything
}

func testLedgerConfig() LedgerConfig {
	cfg := DefaultLedgerConfig()
	cfg.LoginDelay = 0
	cfg.RedeemDelay = 0
	cfg.IDs = &sequentialIDs{}
	return cfg
}

func newTestVerifier(t *testing.T) *allowlist.Verifier {
	t.Helper()

	verifier, err := allowlist.NewVerifier(allowlist.DefaultUsers(), bcrypt.MinCost)
	require.NoError(t, err)

	return verifier
}

func newTestCodes() *codestatic.Table {
	return codestatic.NewTable(codestatic.DefaultCodes())
}

func newTestLedger(t *testing.T, store *memory.Store) *Ledger {
	t.Helper()

	return NewLedger(store, newTestVerifier(t), newTestCodes(), fixedClock{now: testNow}, testLedgerConfig())
}

func newSignedInLedger(t *testing.T) (*Ledger, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	ledger := newTestLedger(t, store)
	_, err := ledger.Login(context.Background(), "traveler", "pisang123")
	require.NoError(t, err)

	return ledger, store
}

func requireStoredBalance(t *testing.T, store *memory.Store, want int64) {
	t.Helper()

	got, err := store.Get(context.Background(), DefaultBalanceKey)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("%d", want), got)
}

func TestLedgerRestoreWithEmptyStore(t *testing.T) {
	ledger := newTestLedger(t, memory.NewStore())

	session, err := ledger.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Session{Balance: domain.DefaultStartingBalance}, session)
	assert.Equal(t, domain.SessionUnauthenticated, session.State())
}

func TestLedgerRestorePriorSession(t *testing.T) {
	tests := []struct {
		name        string
		entries     map[string]string
		wantBalance int64
	}{
		{name: "stored balance", entries: map[string]string{DefaultUsernameKey: "owner", DefaultBalanceKey: "1234"}, wantBalance: 1234},
		{name: "missing balance falls back to default", entries: map[string]string{DefaultUsernameKey: "owner"}, wantBalance: 2500},
		{name: "unparsable balance falls back to default", entries: map[string]string{DefaultUsernameKey: "owner", DefaultBalanceKey: "lots"}, wantBalance: 2500},
		{name: "negative balance falls back to default", entries: map[string]string{DefaultUsernameKey: "owner", DefaultBalanceKey: "-5"}, wantBalance: 2500},
		{name: "zero balance is kept", entries: map[string]string{DefaultUsernameKey: "owner", DefaultBalanceKey: "0"}, wantBalance: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			for k, v := range tt.entries {
				require.NoError(t, store.Set(context.Background(), k, v))
			}

			session, err := newTestLedger(t, store).Restore(context.Background())
			require.NoError(t, err)
			assert.True(t, session.Authenticated)
			assert.Equal(t, "owner", session.UserName)
			assert.Equal(t, tt.wantBalance, session.Balance)
		})
	}
}

func TestLedgerRestoreReturnsStoreFailure(t *testing.T) {
	store := mocks.NewMockKeyValueStore(t)
	readErr := errors.New("disk unplugged")
	store.EXPECT().Get(mockAnyContext(), DefaultUsernameKey).Return("", readErr)

	ledger := NewLedger(store, newTestVerifier(t), newTestCodes(), fixedClock{now: testNow}, testLedgerConfig())

	session, err := ledger.Restore(context.Background())
	require.ErrorIs(t, err, readErr)
	assert.False(t, session.Authenticated)
}

func TestLedgerLoginWithAllowListedPairs(t *testing.T) {
	tests := []struct {
		username string
		password string
		want     string
	}{
		{username: "traveler", password: "pisang123", want: "traveler"},
		{username: "Traveler", password: "pisang123", want: "traveler"},
		{username: "owner", password: "admin123", want: "owner"},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			store := memory.NewStore()
			ledger := newTestLedger(t, store)

			got, err := ledger.Login(context.Background(), tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			stored, err := store.Get(context.Background(), DefaultUsernameKey)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored)

			session := ledger.Session()
			assert.True(t, session.Authenticated)
			assert.Equal(t, tt.want, session.UserName)
			assert.Equal(t, domain.DefaultStartingBalance, session.Balance)
		})
	}
}

func TestLedgerLoginRejectsInvalidCredentialsAndKeepsPriorSession(t *testing.T) {
	ledger, store := newSignedInLedger(t)
	require.NoError(t, ledger.Purchase(context.Background(), 500))
	before := ledger.Session()
	snapshot := store.Snapshot()

	for _, pair := range [][2]string{{"traveler", "wrong"}, {"owner", "pisang123"}, {"nobody", "admin123"}} {
		_, err := ledger.Login(context.Background(), pair[0], pair[1])
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Equal(t, "invalid credentials", err.Error())
	}

	assert.Equal(t, before, ledger.Session())
	assert.Equal(t, snapshot, store.Snapshot())
}

func TestLedgerLoginDoesNotResetRestoredBalance(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Set(context.Background(), DefaultUsernameKey, "traveler"))
	require.NoError(t, store.Set(context.Background(), DefaultBalanceKey, "700"))

	ledger := newTestLedger(t, store)
	_, err := ledger.Restore(context.Background())
	require.NoError(t, err)

	_, err = ledger.Login(context.Background(), "traveler", "pisang123")
	require.NoError(t, err)
	assert.Equal(t, int64(700), ledger.Session().Balance)
	requireStoredBalance(t, store, 700)
}

func TestLedgerLoginWaitsForSimulatedLatency(t *testing.T) {
	cfg := testLedgerConfig()
	cfg.LoginDelay = 30 * time.Millisecond
	ledger := NewLedger(memory.NewStore(), newTestVerifier(t), newTestCodes(), fixedClock{now: testNow}, cfg)

	start := time.Now()
	_, err := ledger.Login(context.Background(), "traveler", "pisang123")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestLedgerLoginHonoursCanceledContext(t *testing.T) {
	cfg := testLedgerConfig()
	cfg.LoginDelay = time.Hour
	ledger := NewLedger(memory.NewStore(), newTestVerifier(t), newTestCodes(), fixedClock{now: testNow}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ledger.Login(ctx, "traveler", "pisang123")
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ledger.Session().Authenticated)
}

func TestLedgerLoginRollsBackUsernameWhenBalanceWriteFails(t *testing.T) {
	store := mocks.NewMockKeyValueStore(t)
	writeErr := errors.New("read-only file system")
	store.EXPECT().Set(mockAnyContext(), DefaultUsernameKey, "traveler").Return(nil).Once()
	store.EXPECT().Set(mockAnyContext(), DefaultBalanceKey, "2500").Return(writeErr).Once()
	store.EXPECT().Delete(mockAnyContext(), DefaultUsernameKey).Return(nil).Once()

	ledger := NewLedger(store, newTestVerifier(t), newTestCodes(), fixedClock{now: testNow}, testLedgerConfig())

	_, err := ledger.Login(context.Background(), "traveler", "pisang123")
	require.ErrorIs(t, err, writeErr)
	assert.False(t, ledger.Session().Authenticated)
}

func TestLedgerLoginWrapsVerifierFailure(t *testing.T) {
	verifier := mocks.NewMockCredentialVerifier(t)
	backendErr := errors.New("credential backend offline")
	verifier.EXPECT().Verify(mockAnyContext(), "traveler", "pisang123").Return("", backendErr)

	ledger := NewLedger(memory.NewStore(), verifier, newTestCodes(), fixedClock{now: testNow}, testLedgerConfig())

	_, err := ledger.Login(context.Background(), "traveler", "pisang123")
	require.ErrorIs(t, err, backendErr)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLedgerLogoutClearsSessionAndStoreIdempotently(t *testing.T) {
	ledger, store := newSignedInLedger(t)
	_, err := ledger.Redeem(context.Background(), "DAILYREWARD")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, ledger.Logout(context.Background()))

		session := ledger.Session()
		assert.False(t, session.Authenticated)
		assert.Empty(t, session.UserName)
		assert.Equal(t, domain.DefaultStartingBalance, session.Balance)
		assert.Empty(t, store.Snapshot())
		assert.Empty(t, ledger.Activity())
	}
}

func TestLedgerLogoutOnFreshLedgerIsNoop(t *testing.T) {
	store := memory.NewStore()
	ledger := newTestLedger(t, store)

	require.NoError(t, ledger.Logout(context.Background()))
	assert.Equal(t, domain.SessionUnauthenticated, ledger.Session().State())
	assert.Empty(t, store.Snapshot())
}

func TestLedgerLogoutReportsDeleteFailureButStillSignsOut(t *testing.T) {
	store := mocks.NewMockKeyValueStore(t)
	deleteErr := errors.New("permission denied")
	store.EXPECT().Get(mockAnyContext(), DefaultUsernameKey).Return("owner", nil)
	store.EXPECT().Get(mockAnyContext(), DefaultBalanceKey).Return("900", nil)
	store.EXPECT().Delete(mockAnyContext(), DefaultUsernameKey).Return(deleteErr)
	store.EXPECT().Delete(mockAnyContext(), DefaultBalanceKey).Return(nil)

	ledger := NewLedger(store, newTestVerifier(t), newTestCodes(), fixedClock{now: testNow}, testLedgerConfig())
	_, err := ledger.Restore(context.Background())
	require.NoError(t, err)

	err = ledger.Logout(context.Background())
	require.ErrorIs(t, err, deleteErr)
	assert.False(t, ledger.Session().Authenticated)
}

func TestLedgerApplyDeltaWritesThroughAfterEveryChange(t *testing.T) {
	ledger, store := newSignedInLedger(t)

	for _, delta := range []int64{100, -600, 25, -2025, 7} {
		balance, err := ledger.ApplyDelta(context.Background(), delta)
		require.NoError(t, err)
		assert.Equal(t, ledger.Session().Balance, balance)
		requireStoredBalance(t, store, balance)
	}
	assert.Equal(t, int64(7), ledger.Session().Balance)
}

func TestLedgerApplyDeltaRejectsNegativeResult(t *testing.T) {
	ledger, store := newSignedInLedger(t)

	balance, err := ledger.ApplyDelta(context.Background(), -2501)
	require.ErrorIs(t, err, domain.ErrNegativeBalance)
	assert.Equal(t, int64(2500), balance)
	requireStoredBalance(t, store, 2500)
}

func TestLedgerApplyDeltaKeepsMemoryWhenWriteFails(t *testing.T) {
	store := mocks.NewMockKeyValueStore(t)
	writeErr := errors.New("disk full")
	store.EXPECT().Set(mockAnyContext(), DefaultUsernameKey, "traveler").Return(nil).Once()
	store.EXPECT().Set(mockAnyContext(), DefaultBalanceKey, "2500").Return(nil).Once()
	store.EXPECT().Set(mockAnyContext(), DefaultBalanceKey, "2600").Return(writeErr).Once()

	ledger := NewLedger(store, newTestVerifier(t), newTestCodes(), fixedClock{now: testNow}, testLedgerConfig())
	_, err := ledger.Login(context.Background(), "traveler", "pisang123")
	require.NoError(t, err)

	_, err = ledger.ApplyDelta(context.Background(), 100)
	require.ErrorIs(t, err, writeErr)
	assert.Equal(t, int64(2500), ledger.Session().Balance)
}

func TestLedgerMutationsRequireAuthentication(t *testing.T) {
	store := memory.NewStore()
	ledger := newTestLedger(t, store)

	_, err := ledger.ApplyDelta(context.Background(), 10)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	err = ledger.Purchase(context.Background(), 10)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = ledger.Redeem(context.Background(), "DAILYREWARD")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	assert.Empty(t, store.Snapshot())
	assert.Equal(t, domain.DefaultStartingBalance, ledger.Session().Balance)
}

func TestLedgerPurchase(t *testing.T) {
	tests := []struct {
		name        string
		price       int64
		wantErr     error
		wantBalance int64
	}{
		{name: "below balance", price: 1500, wantBalance: 1000},
		{name: "exactly the balance", price: 2500, wantBalance: 0},
		{name: "above balance", price: 2501, wantErr: domain.ErrInsufficientBalance, wantBalance: 2500},
		{name: "zero price", price: 0, wantErr: domain.ErrInvalidPrice, wantBalance: 2500},
		{name: "negative price", price: -10, wantErr: domain.ErrInvalidPrice, wantBalance: 2500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, store := newSignedInLedger(t)

			err := ledger.Purchase(context.Background(), tt.price)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantBalance, ledger.Session().Balance)
			requireStoredBalance(t, store, tt.wantBalance)
		})
	}
}

func TestLedgerPurchaseReportsShortfall(t *testing.T) {
	ledger, _ := newSignedInLedger(t)

	err := ledger.Purchase(context.Background(), 4000)

	var shortfall *domain.InsufficientBalanceError
	require.ErrorAs(t, err, &shortfall)
	assert.Equal(t, int64(1500), shortfall.Shortfall())
	assert.Empty(t, ledger.Activity())
}

func TestLedgerPurchaseItemRecordsActivity(t *testing.T) {
	ledger, _ := newSignedInLedger(t)

	require.NoError(t, ledger.PurchaseItem(context.Background(), "Forest Spirit Hana", 800))

	assert.Equal(t, []domain.Activity{
		{ID: "act-1", Kind: domain.ActivityPurchase, Item: "Forest Spirit Hana", Amount: -800, At: testNow},
	}, ledger.Activity())
}

func TestLedgerRedeemCreditsOnlyOncePerSession(t *testing.T) {
	ledger, store := newSignedInLedger(t)

	credited, err := ledger.Redeem(context.Background(), "legendaryweek")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), credited)
	requireStoredBalance(t, store, 3500)

	for i := 0; i < 3; i++ {
		credited, err = ledger.Redeem(context.Background(), "LegendaryWeek")
		require.ErrorIs(t, err, domain.ErrAlreadyClaimed)
		assert.Zero(t, credited)
	}
	assert.Equal(t, int64(3500), ledger.Session().Balance)
}

func TestLedgerRedeemChecksExistenceBeforeClaimStatus(t *testing.T) {
	ledger, _ := newSignedInLedger(t)

	_, err := ledger.Redeem(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrInvalidCode)

	_, err = ledger.Redeem(context.Background(), "NOPE")
	require.ErrorIs(t, err, domain.ErrInvalidCode)

	_, err = ledger.Redeem(context.Background(), "PUNINIBONUS")
	require.NoError(t, err)
	_, err = ledger.Redeem(context.Background(), "NOPE")
	require.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestLedgerRedeemTreatsNonPositiveValuesAsInvalid(t *testing.T) {
	codes := mocks.NewMockCodeTable(t)
	codes.EXPECT().Lookup(mockAnyContext(), "DEBT").Return(domain.RedemptionCode{Code: "DEBT", Value: -3000}, nil)

	store := memory.NewStore()
	ledger := NewLedger(store, newTestVerifier(t), codes, fixedClock{now: testNow}, testLedgerConfig())
	_, err := ledger.Login(context.Background(), "owner", "admin123")
	require.NoError(t, err)

	_, err = ledger.Redeem(context.Background(), "debt")
	require.ErrorIs(t, err, domain.ErrInvalidCode)
	assert.Equal(t, int64(2500), ledger.Session().Balance)
}

func TestLedgerRedeemDoesNotClaimWhenWriteFails(t *testing.T) {
	store := mocks.NewMockKeyValueStore(t)
	writeErr := errors.New("disk full")
	store.EXPECT().Set(mockAnyContext(), DefaultUsernameKey, "traveler").Return(nil).Once()
	store.EXPECT().Set(mockAnyContext(), DefaultBalanceKey, "2500").Return(nil).Once()
	store.EXPECT().Set(mockAnyContext(), DefaultBalanceKey, "2600").Return(writeErr).Once()
	store.EXPECT().Set(mockAnyContext(), DefaultBalanceKey, "2600").Return(nil).Once()

	ledger := NewLedger(store, newTestVerifier(t), newTestCodes(), fixedClock{now: testNow}, testLedgerConfig())
	_, err := ledger.Login(context.Background(), "traveler", "pisang123")
	require.NoError(t, err)

	_, err = ledger.Redeem(context.Background(), "DAILYREWARD")
	require.ErrorIs(t, err, writeErr)

	credited, err := ledger.Redeem(context.Background(), "DAILYREWARD")
	require.NoError(t, err)
	assert.Equal(t, int64(100), credited)
}

func TestLedgerClaimsResetWhenAnotherUserSignsIn(t *testing.T) {
	ledger, _ := newSignedInLedger(t)
	_, err := ledger.Redeem(context.Background(), "DAILYREWARD")
	require.NoError(t, err)

	_, err = ledger.Login(context.Background(), "owner", "admin123")
	require.NoError(t, err)

	_, err = ledger.Redeem(context.Background(), "DAILYREWARD")
	require.NoError(t, err)
}

func TestLedgerStorefrontScenario(t *testing.T) {
	ledger, store := newSignedInLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Purchase(ctx, 1500))
	assert.Equal(t, int64(1000), ledger.Session().Balance)

	_, err := ledger.Redeem(ctx, "pisangharitni")
	require.ErrorIs(t, err, domain.ErrInvalidCode)
	assert.Equal(t, int64(1000), ledger.Session().Balance)

	credited, err := ledger.Redeem(ctx, "pisanghariini")
	require.NoError(t, err)
	assert.Equal(t, int64(500), credited)
	assert.Equal(t, int64(1500), ledger.Session().Balance)

	_, err = ledger.Redeem(ctx, "PISANGHARIINI")
	require.ErrorIs(t, err, domain.ErrAlreadyClaimed)
	assert.Equal(t, int64(1500), ledger.Session().Balance)
	requireStoredBalance(t, store, 1500)

	profile := ledger.Profile()
	assert.Equal(t, "traveler", profile.UserName)
	assert.Equal(t, int64(1500), profile.Balance)
	assert.Equal(t, 1, profile.ClaimedCodes)
	require.Len(t, profile.Activity, 2)
	assert.Equal(t, domain.ActivityRedeem, profile.Activity[0].Kind)
	assert.Equal(t, "Daily Code: PISANGHARIINI", profile.Activity[0].Item)
	assert.Equal(t, int64(500), profile.Activity[0].Amount)
	assert.Equal(t, domain.ActivityPurchase, profile.Activity[1].Kind)
	assert.Equal(t, int64(-1500), profile.Activity[1].Amount)
}

func TestLedgerRestoreAfterRestartSeesLatestBalance(t *testing.T) {
	ledger, store := newSignedInLedger(t)
	require.NoError(t, ledger.Purchase(context.Background(), 600))

	restarted := newTestLedger(t, store)
	session, err := restarted.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Session{Authenticated: true, UserName: "traveler", Balance: 1900}, session)

	// claims are not carried across restarts
	_, err = ledger.Redeem(context.Background(), "DAILYREWARD")
	require.NoError(t, err)
	restarted = newTestLedger(t, store)
	_, err = restarted.Restore(context.Background())
	require.NoError(t, err)
	_, err = restarted.Redeem(context.Background(), "DAILYREWARD")
	require.NoError(t, err)
}

func TestLedgerConcurrentPurchasesNeverOverdraw(t *testing.T) {
	ledger, store := newSignedInLedger(t)

	const buyers = 10
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		go func() {
			results <- ledger.Purchase(context.Background(), 1000)
		}()
	}

	succeeded := 0
	for i := 0; i < buyers; i++ {
		if err := <-results; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
		}
	}

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, int64(500), ledger.Session().Balance)
	requireStoredBalance(t, store, 500)
}

func TestLedgerActivityUsesInjectedClockAndUUIDs(t *testing.T) {
	clock := mocks.NewMockClock(t)
	at := testNow.Add(90 * time.Minute)
	clock.EXPECT().Now().Return(at).Once()

	cfg := testLedgerConfig()
	cfg.IDs = nil
	ledger := NewLedger(memory.NewStore(), newTestVerifier(t), newTestCodes(), clock, cfg)
	_, err := ledger.Login(context.Background(), "owner", "admin123")
	require.NoError(t, err)

	_, err = ledger.Redeem(context.Background(), " puninibonus ")
	require.NoError(t, err)

	activity := ledger.Activity()
	require.Len(t, activity, 1)
	assert.Equal(t, at, activity[0].At)
	assert.Equal(t, "Daily Code: PUNINIBONUS", activity[0].Item)
	_, parseErr := uuid.Parse(activity[0].ID)
	assert.NoError(t, parseErr)
}
