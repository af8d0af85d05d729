package awaiter

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// sourceAddrSentinel is the wire value callers send to mean "deliver back
// to wherever this registration came from".
const sourceAddrSentinel = "source-addr"

// Target is where a matched event gets delivered. It is a tagged variant
// rather than a bare string so the source-addr protocol can never collide
// with a real URL value.
type Target struct {
	url        string
	sourceAddr bool
}

// URLTarget returns a fixed-endpoint target.
func URLTarget(u string) Target { return Target{url: u} }

// SourceAddrTarget returns a target resolved from the registering caller's
// observed network address.
func SourceAddrTarget() Target { return Target{sourceAddr: true} }

// ParseTarget interprets the wire form of a target.
func ParseTarget(raw string) (Target, error) {
	if raw == "" {
		return Target{}, errors.New("awaiter: empty target")
	}
	if raw == sourceAddrSentinel {
		return SourceAddrTarget(), nil
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return Target{}, fmt.Errorf("awaiter: target %q is neither a URL nor %q", raw, sourceAddrSentinel)
	}
	return URLTarget(raw), nil
}

// Resolve turns the target into a concrete callback URL. callerAddr is the
// registering request's remote host:port; source-addr targets become a
// callback URL on the caller's own ephemeral listener.
func (t Target) Resolve(callerAddr string) (string, error) {
	if !t.sourceAddr {
		return t.url, nil
	}
	host, port, err := net.SplitHostPort(callerAddr)
	if err != nil {
		return "", fmt.Errorf("awaiter: resolve source addr %q: %w", callerAddr, err)
	}
	return fmt.Sprintf("http://%s/events", net.JoinHostPort(host, port)), nil
}
