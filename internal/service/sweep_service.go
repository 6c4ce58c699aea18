package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

// transferGas is the fixed gas cost of a plain value transfer.
const transferGas uint64 = 21000

// SweepConfig bounds the receipt wait of a sweep.
type SweepConfig struct {
	ChainID             int64 // expected chain; 0 accepts whatever the RPC reports
	ReceiptTimeout      time.Duration
	ReceiptPollInterval time.Duration
}

// EVMSweepExecutor implements ports.SweepExecutor for the native coin of an
// EIP-1559 chain.
type EVMSweepExecutor struct {
	chain ports.ChainClient
	cfg   SweepConfig
	log   zerolog.Logger

	mu      sync.Mutex
	chainID *big.Int
}

// NewEVMSweepExecutor creates a sweep executor over the given RPC client.
func NewEVMSweepExecutor(chain ports.ChainClient, cfg SweepConfig, log zerolog.Logger) *EVMSweepExecutor {
	if cfg.ReceiptTimeout <= 0 {
		cfg.ReceiptTimeout = 2 * time.Minute
	}
	if cfg.ReceiptPollInterval <= 0 {
		cfg.ReceiptPollInterval = 2 * time.Second
	}
	return &EVMSweepExecutor{chain: chain, cfg: cfg, log: log}
}

// Sweep transfers balance minus the maximum network fee to destination and
// waits for the receipt. Failures are reported in the attempt, never as a
// panic or error.
func (e *EVMSweepExecutor) Sweep(ctx context.Context, privateKeyHex string, destination string) domain.SweepAttempt {
	attempt := domain.SweepAttempt{DestinationAddress: destination}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return fail(attempt, domain.SweepReasonInvalidKey, "malformed private key")
	}
	from := crypto.PubkeyToAddress(key.PublicKey)
	attempt.BurnerAddress = strings.ToLower(from.Hex())

	if !common.IsHexAddress(destination) {
		return fail(attempt, domain.SweepReasonInvalidTarget, destination)
	}
	to := common.HexToAddress(destination)

	chainID, err := e.resolveChainID(ctx)
	if err != nil {
		return fail(attempt, domain.SweepReasonNetworkError, err.Error())
	}

	balance, err := e.chain.BalanceAt(ctx, from, nil)
	if err != nil {
		return fail(attempt, domain.SweepReasonNetworkError, "balance: "+err.Error())
	}

	header, err := e.chain.HeaderByNumber(ctx, nil)
	if err != nil {
		return fail(attempt, domain.SweepReasonNetworkError, "header: "+err.Error())
	}

	tip, err := e.chain.SuggestGasTipCap(ctx)
	if err != nil {
		return fail(attempt, domain.SweepReasonNetworkError, "gas tip: "+err.Error())
	}

	maxFee := maxFeePerGas(header.BaseFee, tip)
	fee := new(big.Int).Mul(new(big.Int).SetUint64(transferGas), maxFee)
	attempt.Fee = fee

	if balance.Cmp(fee) <= 0 {
		return fail(attempt, domain.SweepReasonInsufficientFunds,
			fmt.Sprintf("balance %s wei does not exceed fee %s wei", balance, fee))
	}
	amount := new(big.Int).Sub(balance, fee)

	nonce, err := e.chain.PendingNonceAt(ctx, from)
	if err != nil {
		return fail(attempt, domain.SweepReasonNetworkError, "nonce: "+err.Error())
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: maxFee,
		Gas:       transferGas,
		To:        &to,
		Value:     amount,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return fail(attempt, domain.SweepReasonInvalidKey, err.Error())
	}

	if err := e.chain.SendTransaction(ctx, signed); err != nil {
		return fail(attempt, domain.SweepReasonNetworkError, "send: "+err.Error())
	}
	attempt.TxHash = signed.Hash().Hex()

	e.log.Info().
		Str("burner", attempt.BurnerAddress).
		Str("tx_hash", attempt.TxHash).
		Str("amount_wei", amount.String()).
		Msg("sweep broadcast")

	receipt, err := e.waitForReceipt(ctx, signed.Hash())
	if err != nil {
		return fail(attempt, domain.SweepReasonTimeout, err.Error())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fail(attempt, domain.SweepReasonReverted, fmt.Sprintf("block %s", receipt.BlockNumber))
	}

	attempt.Result = domain.SweepResultSuccess
	attempt.Amount = amount
	return attempt
}

// waitForReceipt polls until the receipt appears or the receipt timeout
// elapses. RPC errors while polling are retried since the transaction is
// already in flight.
func (e *EVMSweepExecutor) waitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	deadline := time.NewTimer(e.cfg.ReceiptTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(e.cfg.ReceiptPollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		receipt, err := e.chain.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			lastErr = err
			e.log.Warn().Err(err).Str("tx_hash", hash.Hex()).Msg("receipt poll failed")
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("receipt wait aborted: %w", ctx.Err())
		case <-deadline.C:
			if lastErr != nil {
				return nil, fmt.Errorf("no receipt after %s (last error: %v)", e.cfg.ReceiptTimeout, lastErr)
			}
			return nil, fmt.Errorf("no receipt after %s", e.cfg.ReceiptTimeout)
		case <-ticker.C:
		}
	}
}

// resolveChainID asks the RPC once and caches the answer.
func (e *EVMSweepExecutor) resolveChainID(ctx context.Context) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chainID != nil {
		return e.chainID, nil
	}

	id, err := e.chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if e.cfg.ChainID != 0 && id.Int64() != e.cfg.ChainID {
		return nil, fmt.Errorf("rpc reports chain %s, expected %d", id, e.cfg.ChainID)
	}

	e.chainID = id
	return id, nil
}

// maxFeePerGas returns 2*baseFee + tip. Pre-London headers have no base fee.
func maxFeePerGas(baseFee, tip *big.Int) *big.Int {
	maxFee := new(big.Int).Set(tip)
	if baseFee != nil {
		maxFee.Add(maxFee, new(big.Int).Mul(baseFee, big.NewInt(2)))
	}
	return maxFee
}

func fail(a domain.SweepAttempt, reason domain.SweepFailureReason, detail string) domain.SweepAttempt {
	a.Result = domain.SweepResultFailure
	a.Reason = reason
	a.Detail = detail
	return a
}
