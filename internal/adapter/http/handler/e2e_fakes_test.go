package handler_test

import (
	"context"
	"math/big"
	"sort"
	"sync"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/pkg/apperror"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) GetByTelegramID(_ context.Context, telegramUserID int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.TelegramUserID == telegramUserID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) SetMainWallet(_ context.Context, id uuid.UUID, address, encryptedKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperror.ErrStorageUnavailable(nil)
	}
	u.MainWalletAddress = address
	u.EncryptedMainKey = encryptedKey
	return nil
}

func (r *inMemoryUserRepo) mainWallet(id uuid.UUID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return u.MainWalletAddress
	}
	return ""
}

// --- In-Memory Burner Repo ---

type inMemoryBurnerRepo struct {
	mu      sync.RWMutex
	burners map[string]*domain.BurnerWallet
	users   *inMemoryUserRepo
}

func newInMemoryBurnerRepo(users *inMemoryUserRepo) *inMemoryBurnerRepo {
	return &inMemoryBurnerRepo{burners: make(map[string]*domain.BurnerWallet), users: users}
}

func (r *inMemoryBurnerRepo) Create(_ context.Context, owner uuid.UUID, address, enc string) (*domain.BurnerWallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.burners[address]; exists {
		return nil, apperror.ErrDuplicateAddress(nil)
	}
	b := &domain.BurnerWallet{
		Address:             address,
		EncryptedPrivateKey: enc,
		OwnerUserID:         owner,
		Status:              domain.BurnerStatusActive,
		CreatedAt:           time.Now().UTC(),
	}
	r.burners[address] = b
	cp := *b
	return &cp, nil
}

func (r *inMemoryBurnerRepo) active(match func(*domain.BurnerWallet) bool) []domain.BurnerWallet {
	out := []domain.BurnerWallet{}
	for _, b := range r.burners {
		if b.IsActive() && match(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Address < out[j].Address
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *inMemoryBurnerRepo) ListActiveByOwner(_ context.Context, owner uuid.UUID) ([]domain.BurnerWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active(func(b *domain.BurnerWallet) bool { return b.OwnerUserID == owner }), nil
}

func (r *inMemoryBurnerRepo) ListAllActiveWithOwnerAddress(_ context.Context) ([]domain.BurnerWithOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.BurnerWithOwner
	for _, b := range r.active(func(*domain.BurnerWallet) bool { return true }) {
		out = append(out, domain.BurnerWithOwner{Burner: b, OwnerMainAddress: r.users.mainWallet(b.OwnerUserID)})
	}
	return out, nil
}

func (r *inMemoryBurnerRepo) MarkSwept(_ context.Context, address, txHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.burners[address]
	if !ok || !b.IsActive() {
		return nil
	}
	now := time.Now().UTC()
	b.Status = domain.BurnerStatusSwept
	b.SweptAt = &now
	if txHash != "" {
		b.SweepTxHash = &txHash
	}
	return nil
}

func (r *inMemoryBurnerRepo) GetByAddress(_ context.Context, address string) (*domain.BurnerWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.burners[address]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *inMemoryBurnerRepo) CountByStatus(_ context.Context) (map[domain.BurnerStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[domain.BurnerStatus]int64{}
	for _, b := range r.burners {
		counts[b.Status]++
	}
	return counts, nil
}

// --- Fake Chain ---

// fakeChain is an instantly-mining EVM node: a sent transaction moves the
// value and the fee out of the sender and its receipt is available at once.
type fakeChain struct {
	mu       sync.Mutex
	chainID  *big.Int
	baseFee  *big.Int
	tip      *big.Int
	balances map[common.Address]*big.Int
	receipts map[common.Hash]*types.Receipt
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		chainID:  big.NewInt(8453),
		baseFee:  big.NewInt(1_000_000_000),
		tip:      big.NewInt(100_000_000),
		balances: make(map[common.Address]*big.Int),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (f *fakeChain) fund(address string, wei *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[common.HexToAddress(address)] = new(big.Int).Set(wei)
}

func (f *fakeChain) balanceOf(address string) *big.Int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[common.HexToAddress(address)]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(f.chainID), nil
}

func (f *fakeChain) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (f *fakeChain) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 0, nil
}

func (f *fakeChain) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1), BaseFee: new(big.Int).Set(f.baseFee)}, nil
}

func (f *fakeChain) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return new(big.Int).Set(f.tip), nil
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *types.Transaction) error {
	from, err := types.Sender(types.LatestSignerForChainID(f.chainID), tx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	cost := new(big.Int).Add(tx.Value(), new(big.Int).Mul(new(big.Int).SetUint64(tx.Gas()), tx.GasFeeCap()))
	bal, ok := f.balances[from]
	if !ok || bal.Cmp(cost) < 0 {
		return errInsufficientFundsForTransfer
	}
	bal.Sub(bal, cost)
	to := *tx.To()
	if _, ok := f.balances[to]; !ok {
		f.balances[to] = new(big.Int)
	}
	f.balances[to].Add(f.balances[to], tx.Value())
	f.receipts[tx.Hash()] = &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(2), TxHash: tx.Hash()}
	return nil
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.receipts[hash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

type chainError string

func (e chainError) Error() string { return string(e) }

const errInsufficientFundsForTransfer = chainError("insufficient funds for gas * price + value")
