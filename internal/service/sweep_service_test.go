package service

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"umkm-terminal/internal/core/domain"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receiptMode int

const (
	mineSuccess receiptMode = iota
	mineRevert
	mineNever
)

var (
	gwei         = big.NewInt(1_000_000_000)
	oneEther     = new(big.Int).Mul(big.NewInt(1_000_000_000), gwei)
	testDest     = "0x9999999999999999999999999999999999999999"
	testChainID  = big.NewInt(8453)
	errRPCDown   = errors.New("connection refused")
	testSweepCfg = SweepConfig{ReceiptTimeout: 200 * time.Millisecond, ReceiptPollInterval: 5 * time.Millisecond}
)

// fakeChain is a minimal single-node ledger. It verifies signatures, charges
// the effective EIP-1559 fee and records receipts.
type fakeChain struct {
	mu           sync.Mutex
	chainID      *big.Int
	baseFee      *big.Int
	tip          *big.Int
	balances     map[common.Address]*big.Int
	nonces       map[common.Address]uint64
	receipts     map[common.Hash]*types.Receipt
	sent         []*types.Transaction
	mode         receiptMode
	confirmAfter int
	polls        int
	chainIDCalls int
	failMethod   string
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		chainID:  testChainID,
		baseFee:  new(big.Int).Set(gwei),
		tip:      big.NewInt(100_000_000),
		balances: make(map[common.Address]*big.Int),
		nonces:   make(map[common.Address]uint64),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (f *fakeChain) fund(addr common.Address, wei *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[addr] = new(big.Int).Set(wei)
}

func (f *fakeChain) balance(addr common.Address) *big.Int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (f *fakeChain) err(method string) error {
	if f.failMethod == method {
		return errRPCDown
	}
	return nil
}

func (f *fakeChain) ChainID(_ context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chainIDCalls++
	if err := f.err("ChainID"); err != nil {
		return nil, err
	}
	return new(big.Int).Set(f.chainID), nil
}

func (f *fakeChain) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	if err := f.err("BalanceAt"); err != nil {
		return nil, err
	}
	return f.balance(account), nil
}

func (f *fakeChain) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.err("PendingNonceAt"); err != nil {
		return 0, err
	}
	return f.nonces[account], nil
}

func (f *fakeChain) HeaderByNumber(_ context.Context, _ *big.Int) (*types.Header, error) {
	if err := f.err("HeaderByNumber"); err != nil {
		return nil, err
	}
	return &types.Header{Number: big.NewInt(100), BaseFee: new(big.Int).Set(f.baseFee)}, nil
}

func (f *fakeChain) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	if err := f.err("SuggestGasTipCap"); err != nil {
		return nil, err
	}
	return new(big.Int).Set(f.tip), nil
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.err("SendTransaction"); err != nil {
		return err
	}

	from, err := types.Sender(types.LatestSignerForChainID(f.chainID), tx)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if tx.Nonce() != f.nonces[from] {
		return fmt.Errorf("nonce too low")
	}

	bal := f.balances[from]
	if bal == nil {
		bal = new(big.Int)
	}
	maxCost := new(big.Int).Add(tx.Value(), new(big.Int).Mul(new(big.Int).SetUint64(tx.Gas()), tx.GasFeeCap()))
	if bal.Cmp(maxCost) < 0 {
		return fmt.Errorf("insufficient funds for gas * price + value")
	}

	effectivePrice := new(big.Int).Add(f.baseFee, tx.GasTipCap())
	if effectivePrice.Cmp(tx.GasFeeCap()) > 0 {
		effectivePrice = tx.GasFeeCap()
	}
	gasCost := new(big.Int).Mul(new(big.Int).SetUint64(tx.Gas()), effectivePrice)

	status := types.ReceiptStatusSuccessful
	spent := new(big.Int).Add(gasCost, tx.Value())
	if f.mode == mineRevert {
		status = types.ReceiptStatusFailed
		spent = gasCost
	} else {
		to := *tx.To()
		if f.balances[to] == nil {
			f.balances[to] = new(big.Int)
		}
		f.balances[to].Add(f.balances[to], tx.Value())
	}
	f.balances[from] = new(big.Int).Sub(bal, spent)
	f.nonces[from]++
	f.sent = append(f.sent, tx)

	if f.mode != mineNever {
		f.receipts[tx.Hash()] = &types.Receipt{Status: status, TxHash: tx.Hash(), BlockNumber: big.NewInt(101)}
	}
	return nil
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.polls <= f.confirmAfter {
		return nil, ethereum.NotFound
	}
	if r, ok := f.receipts[hash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func newBurnerKey(t *testing.T) (*ecdsa.PrivateKey, string, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, hex.EncodeToString(crypto.FromECDSA(key)), crypto.PubkeyToAddress(key.PublicKey)
}

// expectedFee is gas * (2*baseFee + tip) for the fake's defaults.
func expectedFee(f *fakeChain) *big.Int {
	maxFee := new(big.Int).Add(new(big.Int).Mul(f.baseFee, big.NewInt(2)), f.tip)
	return new(big.Int).Mul(big.NewInt(21000), maxFee)
}

func TestSweep_Success(t *testing.T) {
	chain := newFakeChain()
	_, pk, addr := newBurnerKey(t)
	chain.fund(addr, oneEther)

	exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())
	attempt := exec.Sweep(context.Background(), pk, testDest)

	require.True(t, attempt.Succeeded(), attempt.ErrorReason())
	fee := expectedFee(chain)
	want := new(big.Int).Sub(oneEther, fee)

	assert.Equal(t, strings.ToLower(addr.Hex()), attempt.BurnerAddress)
	assert.Equal(t, 0, want.Cmp(attempt.Amount))
	assert.Equal(t, 0, fee.Cmp(attempt.Fee))
	assert.Equal(t, 0, want.Cmp(chain.balance(common.HexToAddress(testDest))), "destination receives balance minus fee")

	require.Len(t, chain.sent, 1)
	tx := chain.sent[0]
	assert.Equal(t, tx.Hash().Hex(), attempt.TxHash)
	assert.Equal(t, uint64(21000), tx.Gas())
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, 0, testChainID.Cmp(tx.ChainId()))

	from, err := types.Sender(types.LatestSignerForChainID(testChainID), tx)
	require.NoError(t, err)
	assert.Equal(t, addr, from, "transaction must be signed by the burner key")
}

func TestSweep_AcceptsPrefixedKey(t *testing.T) {
	chain := newFakeChain()
	_, pk, addr := newBurnerKey(t)
	chain.fund(addr, oneEther)

	exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())
	attempt := exec.Sweep(context.Background(), "0x"+pk, testDest)
	assert.True(t, attempt.Succeeded())
}

func TestSweep_NoDoubleSpend(t *testing.T) {
	chain := newFakeChain()
	_, pk, addr := newBurnerKey(t)
	chain.fund(addr, oneEther)

	exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())
	first := exec.Sweep(context.Background(), pk, testDest)
	require.True(t, first.Succeeded())

	second := exec.Sweep(context.Background(), pk, testDest)
	assert.False(t, second.Succeeded())
	assert.Equal(t, domain.SweepReasonInsufficientFunds, second.Reason)
	assert.Len(t, chain.sent, 1, "leftover dust never funds a second transfer")
}

func TestSweep_BalanceAtOrBelowFee(t *testing.T) {
	tests := []struct {
		name    string
		balance func(fee *big.Int) *big.Int
	}{
		{"zero", func(*big.Int) *big.Int { return new(big.Int) }},
		{"equal to fee", func(fee *big.Int) *big.Int { return new(big.Int).Set(fee) }},
		{"below fee", func(fee *big.Int) *big.Int { return new(big.Int).Sub(fee, big.NewInt(1)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := newFakeChain()
			_, pk, addr := newBurnerKey(t)
			chain.fund(addr, tt.balance(expectedFee(chain)))

			exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())
			attempt := exec.Sweep(context.Background(), pk, testDest)

			assert.Equal(t, domain.SweepResultFailure, attempt.Result)
			assert.Equal(t, domain.SweepReasonInsufficientFunds, attempt.Reason)
			assert.Empty(t, attempt.TxHash)
			assert.Empty(t, chain.sent)
		})
	}
}

func TestSweep_OneWeiAboveFee(t *testing.T) {
	chain := newFakeChain()
	_, pk, addr := newBurnerKey(t)
	chain.fund(addr, new(big.Int).Add(expectedFee(chain), big.NewInt(1)))

	exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())
	attempt := exec.Sweep(context.Background(), pk, testDest)

	require.True(t, attempt.Succeeded())
	assert.Equal(t, int64(1), attempt.Amount.Int64())
}

func TestSweep_InvalidKey(t *testing.T) {
	chain := newFakeChain()
	exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())

	for _, pk := range []string{"", "nothex", "abcd"} {
		attempt := exec.Sweep(context.Background(), pk, testDest)
		assert.Equal(t, domain.SweepReasonInvalidKey, attempt.Reason, "key %q", pk)
		assert.Equal(t, "malformed private key", attempt.Detail)
	}
	assert.Empty(t, chain.sent)
}

func TestSweep_InvalidDestination(t *testing.T) {
	chain := newFakeChain()
	_, pk, addr := newBurnerKey(t)
	chain.fund(addr, oneEther)

	exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())
	attempt := exec.Sweep(context.Background(), pk, "not-an-address")

	assert.Equal(t, domain.SweepReasonInvalidTarget, attempt.Reason)
	assert.Empty(t, chain.sent)
}

func TestSweep_NetworkErrors(t *testing.T) {
	for _, method := range []string{"ChainID", "BalanceAt", "HeaderByNumber", "SuggestGasTipCap", "PendingNonceAt", "SendTransaction"} {
		t.Run(method, func(t *testing.T) {
			chain := newFakeChain()
			chain.failMethod = method
			_, pk, addr := newBurnerKey(t)
			chain.fund(addr, oneEther)

			exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())
			attempt := exec.Sweep(context.Background(), pk, testDest)

			assert.Equal(t, domain.SweepResultFailure, attempt.Result)
			assert.Equal(t, domain.SweepReasonNetworkError, attempt.Reason)
			assert.Contains(t, attempt.Detail, "connection refused")
			assert.Equal(t, 0, oneEther.Cmp(chain.balance(addr)), "nothing moved")
		})
	}
}

func TestSweep_ReceiptTimeout(t *testing.T) {
	chain := newFakeChain()
	chain.mode = mineNever
	_, pk, addr := newBurnerKey(t)
	chain.fund(addr, oneEther)

	cfg := SweepConfig{ReceiptTimeout: 30 * time.Millisecond, ReceiptPollInterval: 5 * time.Millisecond}
	exec := NewEVMSweepExecutor(chain, cfg, newTestLogger())

	start := time.Now()
	attempt := exec.Sweep(context.Background(), pk, testDest)

	assert.Less(t, time.Since(start), 2*time.Second, "receipt wait is bounded")
	assert.Equal(t, domain.SweepReasonTimeout, attempt.Reason)
	assert.NotEmpty(t, attempt.TxHash, "timed out attempts still report the broadcast hash")
}

func TestSweep_Reverted(t *testing.T) {
	chain := newFakeChain()
	chain.mode = mineRevert
	_, pk, addr := newBurnerKey(t)
	chain.fund(addr, oneEther)

	exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())
	attempt := exec.Sweep(context.Background(), pk, testDest)

	assert.Equal(t, domain.SweepReasonReverted, attempt.Reason)
	assert.Nil(t, attempt.Amount)
	assert.Equal(t, 0, chain.balance(common.HexToAddress(testDest)).Sign())
}

func TestSweep_ReceiptAfterSeveralPolls(t *testing.T) {
	chain := newFakeChain()
	chain.confirmAfter = 3
	_, pk, addr := newBurnerKey(t)
	chain.fund(addr, oneEther)

	exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())
	attempt := exec.Sweep(context.Background(), pk, testDest)

	require.True(t, attempt.Succeeded())
	assert.GreaterOrEqual(t, chain.polls, 4)
}

func TestSweep_ChainIDCachedAndChecked(t *testing.T) {
	chain := newFakeChain()
	exec := NewEVMSweepExecutor(chain, testSweepCfg, newTestLogger())

	for i := 0; i < 2; i++ {
		_, pk, addr := newBurnerKey(t)
		chain.fund(addr, oneEther)
		require.True(t, exec.Sweep(context.Background(), pk, testDest).Succeeded())
	}
	assert.Equal(t, 1, chain.chainIDCalls)

	wrong := NewEVMSweepExecutor(newFakeChain(), SweepConfig{ChainID: 1}, newTestLogger())
	_, pk, _ := newBurnerKey(t)
	attempt := wrong.Sweep(context.Background(), pk, testDest)
	assert.Equal(t, domain.SweepReasonNetworkError, attempt.Reason)
	assert.Contains(t, attempt.Detail, "expected 1")
}

func TestMaxFeePerGas(t *testing.T) {
	assert.Equal(t, int64(25), maxFeePerGas(big.NewInt(10), big.NewInt(5)).Int64())
	assert.Equal(t, int64(5), maxFeePerGas(nil, big.NewInt(5)).Int64())
}
