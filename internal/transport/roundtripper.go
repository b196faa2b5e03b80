package transport

import (
	"net/http"

	"github.com/pkg/errors"
)

// authRoundTripper signs and rate limits requests made through a plain *http.Client.
type authRoundTripper struct {
	base    http.RoundTripper
	owner   *HTTPRequester
	cred    Credential
	headers map[string]string
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.owner.limiter != nil {
		if err := t.owner.limiter.Wait(req.Context()); err != nil {
			return nil, errors.Wrap(err, "rate limiter")
		}
	}

	// RoundTrippers must not modify the caller's request
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		if clone.Header.Get(k) == "" {
			clone.Header.Set(k, v)
		}
	}
	if err := t.cred.Authenticate(clone); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(clone)
}

// HTTPClient returns an *http.Client whose requests are signed with the named
// credential, carry the pinned API-Version header and share this requester's limiter.
func (r *HTTPRequester) HTTPClient(credential string) (*http.Client, error) {
	cred, ok := r.credentials[credential]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCredential, "%q", credential)
	}

	base := r.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &http.Client{
		Timeout: r.client.Timeout,
		Transport: &authRoundTripper{
			base:    base,
			owner:   r,
			cred:    cred,
			headers: map[string]string{HeaderAPIVersion: APIVersion},
		},
	}, nil
}
