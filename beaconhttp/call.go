package beaconhttp

import (
	"context"
	"io"
	"net/http"

	"github.com/erigontech/beaconapi/clparams"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxErrorFragment bounds how much of a bad body is carried inside an error.
const maxErrorFragment = 1 << 10

// Meta carries the response metadata a typed call may need besides the body.
type Meta struct {
	Status int
	Header http.Header
}

// ConsensusVersion parses the Eth-Consensus-Version response header, the
// out-of-band fork discriminant for versioned endpoints.
func (m *Meta) ConsensusVersion() (clparams.StateVersion, bool, error) {
	v := m.Header.Get("Eth-Consensus-Version")
	if v == "" {
		return 0, false, nil
	}
	version, err := clparams.StringToClVersion(v)
	if err != nil {
		return 0, true, err
	}
	return version, true, nil
}

// BeaconResponse is the standard envelope of beacon API responses.
type BeaconResponse[T any] struct {
	Version             string `json:"version,omitempty"`
	ExecutionOptimistic bool   `json:"execution_optimistic,omitempty"`
	Finalized           bool   `json:"finalized,omitempty"`
	Data                T      `json:"data"`
}

// Do issues one request and decodes the typed response. It performs no
// retries; the call is stateless and safe to retry at the caller's
// discretion. Error semantics:
//   - transport failure: KindNetwork
//   - non-2xx: KindHTTPStatus, body preserved, structured {code,message}
//     decoded when the server provides it
//   - 2xx with undecodable body: KindDecode, distinct from HTTP errors
func Do[T any](ctx context.Context, client *http.Client, method, url string, headers map[string]string, payloadReader io.Reader) (*T, *Meta, error) {
	request, err := http.NewRequestWithContext(ctx, method, url, payloadReader)
	if err != nil {
		return nil, nil, NewNetworkError("build request "+url, err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	for k, v := range headers {
		request.Header.Set(k, v)
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, nil, NewNetworkError(method+" "+url, err)
	}
	defer response.Body.Close()
	meta := &Meta{Status: response.StatusCode, Header: response.Header}
	rawBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, meta, NewNetworkError("read response body "+url, err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		endpointErr := &EndpointError{}
		if err := json.Unmarshal(rawBody, endpointErr); err == nil && endpointErr.Message != "" {
			return nil, meta, NewHTTPStatusError(response.StatusCode, endpointErr.Message, rawBody)
		}
		return nil, meta, NewHTTPStatusError(response.StatusCode, string(fragment(rawBody)), rawBody)
	}
	body := new(T)
	if len(rawBody) == 0 {
		return body, meta, nil
	}
	if err := json.Unmarshal(rawBody, body); err != nil {
		return nil, meta, NewDecodeError(method+" "+url, fragment(rawBody), err)
	}
	return body, meta, nil
}

// EncodeBody writes the JSON request body of a POST endpoint.
func EncodeBody(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func fragment(body []byte) []byte {
	if len(body) > maxErrorFragment {
		return body[:maxErrorFragment]
	}
	return body
}
