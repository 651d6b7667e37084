package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Doer sends a single HTTP request. *http.Client satisfies it; tests inject fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials authenticate every request against one Harvest account.
type Credentials struct {
	Token     string
	AccountID uint64
}

// Response is the raw outcome of one request. Status is not interpreted here.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the response carried a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Transport issues exactly one authenticated request per call and never retries.
type Transport struct {
	creds     Credentials
	userAgent string
	http      Doer
	log       *slog.Logger
}

func NewTransport(creds Credentials, userAgent string, doer Doer, log *slog.Logger) *Transport {
	if doer == nil {
		doer = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	return &Transport{creds: creds, userAgent: userAgent, http: doer, log: log}
}

// Do sends method to rawURL. A non-nil payload is encoded as the JSON body.
func (t *Transport) Do(ctx context.Context, method, rawURL string, payload any) (*Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", method, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.creds.Token)
	req.Header.Set("Harvest-Account-Id", strconv.FormatUint(t.creds.AccountID, 10))
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: rawURL, Err: fmt.Errorf("reading response: %w", err)}
	}
	t.log.Debug("harvest request",
		slog.String("method", method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", time.Since(start)),
	)
	return &Response{Status: resp.StatusCode, Body: data}, nil
}
