package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPSigner exchanges storage paths for signed URLs against a signing
// endpoint. The endpoint receives the path as a query parameter and
// responds with a JSON body containing the signed URL:
//
//	GET {endpoint}?path={storagePath}
//	-> {"url": "https://..."}
type HTTPSigner struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewHTTPSigner creates a signer for the given endpoint. The token, when
// non-empty, is sent as a bearer credential.
func NewHTTPSigner(endpoint, token string, timeout time.Duration) *HTTPSigner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSigner{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SignedURL implements the Signer interface.
func (s *HTTPSigner) SignedURL(ctx context.Context, storagePath string) (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("signer endpoint: %w", err)
	}
	q := u.Query()
	q.Set("path", storagePath)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("signer: status=%d path=%s", resp.StatusCode, storagePath)
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", fmt.Errorf("signer: decoding response: %w", err)
	}
	if body.URL == "" {
		return "", fmt.Errorf("signer: empty url for path %s", storagePath)
	}
	return body.URL, nil
}
