// Package reauth implements the authenticated-request retry protocol: a 403
// on an endpoint that declares a refresh configuration triggers a bounded
// token-refresh sequence, then the original request is re-issued exactly once.
package reauth

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gaborage/go-courier/httpclient"
)

// Credential is the token material obtained from a refresh endpoint. A new
// instance is produced on every successful refresh attempt.
type Credential struct {
	Token string
	// ExpiresIn is the advertised token lifetime; zero when the refresh
	// endpoint sent no expiry.
	ExpiresIn time.Duration
}

// tokenResponse mirrors the refresh endpoint's JSON payload. The expiry field
// is tolerated as either a number or a string.
type tokenResponse struct {
	Token     string        `json:"token"`
	ExpiresIn expirySeconds `json:"expires_in"`
}

type expirySeconds float64

func (s *expirySeconds) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if str == "" {
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		*s = expirySeconds(v)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = expirySeconds(num)
	return nil
}

// ParseCredential decodes a refresh endpoint response body. A missing or
// empty token field is a failed parse, not a panic.
func ParseCredential(data []byte) (*Credential, error) {
	if len(data) == 0 {
		return nil, httpclient.NewDataNotFoundError("refresh response body is empty")
	}

	var tr tokenResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, httpclient.NewDecodingError("failed to decode refresh response", err)
	}
	if tr.Token == "" {
		return nil, httpclient.NewDecodingError("refresh response is missing token", nil)
	}

	return &Credential{
		Token:     tr.Token,
		ExpiresIn: time.Duration(float64(tr.ExpiresIn) * float64(time.Second)),
	}, nil
}
