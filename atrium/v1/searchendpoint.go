package v1

import (
	"context"
	"fmt"
	"net/url"
)

const basicSearchPath = "/ajax/basic_search"

type SearchEndpoint struct {
	transport *Transport
}

// ByCard looks up a visitor by card/ID number. When Atrium answers with the
// session-expiry sentinel the endpoint logs back in and retries the lookup
// exactly once; a second sentinel or a failed re-login is surfaced to the
// caller as ErrUnavailable.
func (e *SearchEndpoint) ByCard(ctx context.Context, lookupKey string) (*LookupResult, error) {
	form := url.Values{}
	form.Set("card_number", lookupKey)

	result, err := e.search(ctx, form)
	if err != nil {
		return nil, err
	}
	if !result.SessionExpired() {
		return result, nil
	}

	e.transport.logger.Warn("atrium session expired, logging in and trying again")
	if err := e.transport.Login(ctx); err != nil {
		return nil, fmt.Errorf("%w: re-login: %v", ErrUnavailable, err)
	}

	result, err = e.search(ctx, form)
	if err != nil {
		return nil, err
	}
	if result.SessionExpired() {
		return nil, fmt.Errorf("%w: session expired again after re-login", ErrUnavailable)
	}
	return result, nil
}

func (e *SearchEndpoint) search(ctx context.Context, form url.Values) (*LookupResult, error) {
	data, err := e.transport.PostForm(ctx, basicSearchPath, form)
	if err != nil {
		return nil, err
	}
	result, err := decodeLookup(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode basic_search response: %v", ErrUnavailable, err)
	}
	return result, nil
}
