// Package rpcprobe checks that the archive RPC endpoint backing a task's
// fork is alive and already past the task's fork block before a forge run
// is attempted. Failing fast here is much cheaper than waiting for forge
// to time out against a dead endpoint.
package rpcprobe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

type Prober struct {
	httpClient *retryablehttp.Client
}

// ProbeResult reports the outcome of a single endpoint check.
type ProbeResult struct {
	Network     string `json:"network"`
	URL         string `json:"url"`
	Reachable   bool   `json:"reachable"`
	BlockNumber int64  `json:"block_number"`
	Error       string `json:"error,omitempty"`
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewProber creates a prober with bounded retries. timeout caps each
// individual HTTP attempt, not the whole probe.
func NewProber(timeout time.Duration) *Prober {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = timeout
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil

	log.Debug().
		Int("retry_max", client.RetryMax).
		Str("timeout", client.HTTPClient.Timeout.String()).
		Msg("rpc prober initialized")

	return &Prober{httpClient: client}
}

// Probe issues eth_blockNumber against url and reports the chain head.
func (p *Prober) Probe(ctx context.Context, network, url string) ProbeResult {
	result := ProbeResult{Network: network, URL: url}

	blockNumber, err := p.blockNumber(ctx, url)
	if err != nil {
		log.Warn().
			Err(err).
			Str("network", network).
			Msg("rpc endpoint probe failed")
		result.Error = err.Error()
		return result
	}

	result.Reachable = true
	result.BlockNumber = blockNumber
	log.Debug().
		Str("network", network).
		Int64("block_number", blockNumber).
		Msg("rpc endpoint reachable")
	return result
}

// CheckFork verifies the endpoint is reachable and its head is at or past
// forkBlock, so a fork at that height can be served.
func (p *Prober) CheckFork(ctx context.Context, network, url string, forkBlock int64) error {
	if url == "" {
		return fmt.Errorf("no rpc url configured for network %s", network)
	}

	result := p.Probe(ctx, network, url)
	if !result.Reachable {
		return fmt.Errorf("rpc endpoint for %s unreachable: %s", network, result.Error)
	}
	if forkBlock > 0 && result.BlockNumber < forkBlock {
		return fmt.Errorf(
			"rpc endpoint for %s at block %d, fork block %d not yet available",
			network, result.BlockNumber, forkBlock,
		)
	}
	return nil
}

func (p *Prober) blockNumber(ctx context.Context, url string) (int64, error) {
	payload := rpcRequest{
		JSONRPC: "2.0",
		Method:  "eth_blockNumber",
		Params:  []any{},
		ID:      1,
	}

	jsonBody, err := sonic.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := sonic.Unmarshal(respBody, &rpcResp); err != nil {
		return 0, fmt.Errorf("failed to unmarshal rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return 0, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	return parseHexBlock(rpcResp.Result)
}

func parseHexBlock(result string) (int64, error) {
	hexStr := strings.TrimPrefix(result, "0x")
	if hexStr == "" {
		return 0, fmt.Errorf("empty block number in rpc response")
	}
	blockNumber, err := strconv.ParseInt(hexStr, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block number %q: %w", result, err)
	}
	return blockNumber, nil
}
