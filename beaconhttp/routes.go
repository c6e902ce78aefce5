package beaconhttp

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Route describes one REST endpoint: method plus a path template whose
// placeholders are filled at the call site. Routes are immutable values.
type Route struct {
	Method string
	Format string
}

// Target resolves the route against a base URL, path arguments and query
// values.
func (r Route) Target(baseURL string, q url.Values, args ...any) string {
	u := strings.TrimRight(baseURL, "/") + fmt.Sprintf(r.Format, args...)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// ref: https://ethereum.github.io/beacon-APIs/
var (
	RouteGenesis             = Route{http.MethodGet, "/eth/v1/beacon/genesis"}
	RouteBlockRoot           = Route{http.MethodGet, "/eth/v1/beacon/blocks/%s/root"}
	RouteBlock               = Route{http.MethodGet, "/eth/v2/beacon/blocks/%s"}
	RouteBlockHeader         = Route{http.MethodGet, "/eth/v1/beacon/headers/%s"}
	RouteBlockHeaders        = Route{http.MethodGet, "/eth/v1/beacon/headers"}
	RouteFork                = Route{http.MethodGet, "/eth/v1/beacon/states/%s/fork"}
	RouteFinalityCheckpoints = Route{http.MethodGet, "/eth/v1/beacon/states/%s/finality_checkpoints"}
	RouteValidators          = Route{http.MethodGet, "/eth/v1/beacon/states/%s/validators"}
	RouteValidator           = Route{http.MethodGet, "/eth/v1/beacon/states/%s/validators/%s"}
	RouteValidatorBalances   = Route{http.MethodGet, "/eth/v1/beacon/states/%s/validator_balances"}
	RouteCommittees          = Route{http.MethodGet, "/eth/v1/beacon/states/%s/committees"}
	RouteProposerDuties      = Route{http.MethodGet, "/eth/v1/validator/duties/proposer/%d"}
	RouteAttesterDuties      = Route{http.MethodPost, "/eth/v1/validator/duties/attester/%d"}
	RouteSubmitAttestations  = Route{http.MethodPost, "/eth/v1/beacon/pool/attestations"}
	RouteSubmitVoluntaryExit = Route{http.MethodPost, "/eth/v1/beacon/pool/voluntary_exits"}
	RouteSubmitBLSChanges    = Route{http.MethodPost, "/eth/v1/beacon/pool/bls_to_execution_changes"}
	RouteSyncStatus          = Route{http.MethodGet, "/eth/v1/node/syncing"}
	RouteNodeVersion         = Route{http.MethodGet, "/eth/v1/node/version"}
	RouteNodeHealth          = Route{http.MethodGet, "/eth/v1/node/health"}
	RouteEvents              = Route{http.MethodGet, "/eth/v1/events"}
)
