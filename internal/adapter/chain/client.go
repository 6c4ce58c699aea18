// Package chain connects the sweep to an EVM JSON-RPC endpoint.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"umkm-terminal/config"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

const dialTimeout = 10 * time.Second

// Dial connects to cfg.RPCURL and checks that the node serves cfg.ChainID.
func Dial(ctx context.Context, cfg config.ChainConfig, log zerolog.Logger) (*ethclient.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	client, err := ethclient.DialContext(dialCtx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dialing rpc: %w", err)
	}

	id, err := client.ChainID(dialCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("reading chain id: %w", err)
	}
	if cfg.ChainID != 0 && id.Cmp(big.NewInt(cfg.ChainID)) != 0 {
		client.Close()
		return nil, fmt.Errorf("rpc serves chain %s, configured %d", id, cfg.ChainID)
	}

	log.Info().
		Str("chain_id", id.String()).
		Msg("EVM RPC connection established")

	return client, nil
}
