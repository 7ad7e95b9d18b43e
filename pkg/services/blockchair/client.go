// Package blockchair retrieves raw transactions from the blockchair JSON
// API. It is a thin adapter around the crack core: the core itself never
// performs I/O.
package blockchair

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nspcc-dev/txcrack/pkg/database"
	"github.com/nspcc-dev/txcrack/pkg/util"
)

// DefaultEndpoint is the public blockchair API for Bitcoin.
const DefaultEndpoint = "https://api.blockchair.com/bitcoin/raw/transaction/"

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when the API has no raw transaction for the id
// in either byte order.
var ErrNotFound = errors.New("transaction not found")

// Client fetches raw transactions by id, optionally caching them in a
// local database so repeated cracking runs don't hit the network.
type Client struct {
	endpoint string
	http     *http.Client
	cache    *database.LDB
	log      *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.endpoint = url
		}
	}
}

// WithCache attaches a raw-transaction cache.
func WithCache(db *database.LDB) Option {
	return func(c *Client) { c.cache = db }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client.
func New(log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
		log:      log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// rawResponse is the relevant part of the API answer.
type rawResponse struct {
	Data map[string]struct {
		RawTransaction string `json:"raw_transaction"`
	} `json:"data"`
}

// GetTransaction fetches the consensus serialization of the transaction
// with the given id. The id is queried as given first and byte-reversed on
// a miss, since callers hold ids in both display and wire order.
func (c *Client) GetTransaction(id util.Uint256) ([]byte, error) {
	if c.cache != nil {
		if raw, err := c.cache.Get(id.BytesBE()); err == nil {
			c.log.Debug("cache hit", zap.Stringer("txid", id))
			return raw, nil
		}
	}

	var lastErr error
	for _, q := range []util.Uint256{id, id.Reverse()} {
		raw, err := c.fetch(q)
		if err != nil {
			lastErr = err
			c.log.Debug("fetch attempt failed", zap.Stringer("txid", q), zap.Error(err))
			continue
		}
		if c.cache != nil {
			if err := c.cache.Put(id.BytesBE(), raw); err != nil {
				c.log.Warn("cache write failed", zap.Stringer("txid", id), zap.Error(err))
			}
		}
		return raw, nil
	}
	return nil, lastErr
}

func (c *Client) fetch(id util.Uint256) ([]byte, error) {
	resp, err := c.http.Get(c.endpoint + id.StringLE())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrNotFound, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed rawResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	for _, v := range parsed.Data {
		if v.RawTransaction != "" {
			return hex.DecodeString(v.RawTransaction)
		}
	}
	return nil, ErrNotFound
}
