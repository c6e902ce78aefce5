// Package beaconclient is a typed client for the beacon node REST + SSE
// API. One Client per node; it is safe for concurrent use and keeps no
// mutable state besides its response cache.
package beaconclient

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/ledgerwatch/log/v3"
	"golang.org/x/sync/singleflight"

	"github.com/erigontech/beaconapi/cltypes"
)

const defaultCacheTTL = 10 * time.Minute

type Client struct {
	httpClient *http.Client
	baseURL    string
	log        log.Logger

	// slow-moving responses (genesis, node version) are cached and their
	// fetches collapsed so concurrent callers trigger one request.
	cache *ttlcache.Cache[string, any]
	group singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger log.Logger) Option {
	return func(c *Client) { c.log = logger }
}

// WithTimeout bounds the round-trip of every unary call. It applies to the
// client's own http.Client; streams use their own dialing timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = ttlcache.New[string, any](ttlcache.WithTTL[string, any](ttl))
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log.Root(),
		cache:      ttlcache.New[string, any](ttlcache.WithTTL[string, any](defaultCacheTTL)),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.cache.Start()
	return c
}

// Close releases the client's background resources. Open subscriptions are
// owned by their handles and are not affected.
func (c *Client) Close() {
	c.cache.Stop()
}

func (c *Client) BaseURL() string { return c.baseURL }

func cached[T any](c *Client, key string, fetch func() (*T, error)) (*T, error) {
	if item := c.cache.Get(key); item != nil {
		return item.Value().(*T), nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		value, err := fetch()
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, value, ttlcache.DefaultTTL)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

// BlockID identifies a block for /eth/v*/beacon endpoints: a named anchor,
// a slot, or a 0x-prefixed root. StateID works the same way for states.
type BlockID string

type StateID = BlockID

const (
	IDHead      BlockID = "head"
	IDGenesis   BlockID = "genesis"
	IDFinalized BlockID = "finalized"
	IDJustified BlockID = "justified"
)

func SlotID(slot uint64) BlockID {
	return BlockID(fmt.Sprintf("%d", slot))
}

func RootID(root cltypes.Hash) BlockID {
	return BlockID(root.Hex())
}
