package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/siderolabs/go-retry/retry"
)

const (
	// httpRetryTimeout bounds the retry window per endpoint check.
	httpRetryTimeout = 15 * time.Second
	// httpRetryInterval is the base interval between attempts.
	httpRetryInterval = 2 * time.Second
	// maxResponseBytes caps how much of a response body a check reads.
	maxResponseBytes = 1 << 20
)

var errUnexpectedStatus = errors.New("unexpected status code")

// fetch performs a GET with bounded retries on transport errors and 5xx
// responses, returning the final status code and body. A freshly established
// port-forward routinely refuses the first connection or two.
func fetch(
	ctx context.Context,
	client *http.Client,
	url string,
	configure func(*http.Request),
) (int, []byte, error) {
	var (
		statusCode int
		body       []byte
	)

	err := retry.Constant(httpRetryTimeout, retry.WithUnits(httpRetryInterval)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			if configure != nil {
				configure(request)
			}

			response, err := client.Do(request)
			if err != nil {
				return retry.ExpectedError(err)
			}

			defer func() { _ = response.Body.Close() }()

			body, err = io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
			if err != nil {
				return retry.ExpectedError(err)
			}

			statusCode = response.StatusCode
			if statusCode >= http.StatusInternalServerError {
				return retry.ExpectedError(
					fmt.Errorf("%w: %d", errUnexpectedStatus, statusCode),
				)
			}

			return nil
		})
	if err != nil {
		return 0, nil, fmt.Errorf("GET %s: %w", url, err)
	}

	return statusCode, body, nil
}

// fetchJSON fetches a URL and decodes the body into target, requiring a 200
// response.
func fetchJSON(
	ctx context.Context,
	client *http.Client,
	url string,
	configure func(*http.Request),
	target any,
) error {
	statusCode, body, err := fetch(ctx, client, url, configure)
	if err != nil {
		return err
	}

	if statusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s returned %d", errUnexpectedStatus, url, statusCode)
	}

	err = json.Unmarshal(body, target)
	if err != nil {
		return fmt.Errorf("decode %s response: %w", url, err)
	}

	return nil
}
