package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// maxHTTPRedirects is the maximum number of HTTP redirects to follow
	maxHTTPRedirects = 5
	// dialTimeout bounds establishing a connection through a proxy
	dialTimeout = 10 * time.Second
)

var (
	// ErrTooManyRedirects is returned when a provider keeps redirecting.
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrUnsupportedProxy is returned for proxy schemes other than http, https and socks5.
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme")
)

// newHTTPClient creates a client with redirect validation and an optional proxy.
// A zero timeout leaves requests bounded only by their context.
func newHTTPClient(transport http.RoundTripper, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxHTTPRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// newTransport returns a transport routed through proxyStr, or the default transport when empty.
func newTransport(proxyStr string) (http.RoundTripper, error) {
	if proxyStr == "" {
		return http.DefaultTransport, nil
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", proxyStr, err)
	}

	switch proxyURL.Scheme {
	case "http", "https":
		return &http.Transport{Proxy: http.ProxyURL(proxyURL)}, nil
	case "socks5", "socks5h":
		var auth *proxy.Auth
		if proxyURL.User != nil {
			auth = &proxy.Auth{User: proxyURL.User.Username()}
			if pass, ok := proxyURL.User.Password(); ok {
				auth.Password = pass
			}
		}

		dialer, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, &net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: dialTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create socks5 dialer: %w", err)
		}

		return &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProxy, proxyURL.Scheme)
	}
}
