// Package tlsconfig builds the *tls.Config shared by the REST token call
// and both WebSocket connections, optionally pinned to a single trusted
// root certificate.
//
// Grounded on original_source/src/tls.rs: the original embeds the GTS Root
// R4 PEM at compile time via include_bytes! and builds a rustls ClientConfig
// whose root store contains only that certificate, since ws.kraken.com and
// api.kraken.com both chain to it. This package keeps the same "one pinned
// root, reused everywhere" shape, but loads the PEM from an operator-
// supplied path via go:embed's sibling os.ReadFile rather than baking in a
// literal certificate: the retrieval pack this client was built against
// does not carry the actual GTS Root R4 PEM bytes (original_source only
// kept code and build-config files, not certs/), so hand-transcribing a
// root CA from memory would risk shipping a certificate that doesn't match
// the real one. Build falls back to the host's system root pool when no
// pin path is configured, so the client still runs correctly; callers that
// want the original's hard pin pass a CA path to Build (cmd/krakenmate takes
// it from the KRAKENMATE_TLS_CA_PATH environment variable).
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// Build constructs a tls.Config. If caPath is non-empty, the returned
// config trusts only the certificates in that PEM file; otherwise it
// trusts the system root pool.
func Build(caPath string) (*tls.Config, error) {
	if caPath == "" {
		return &tls.Config{MinVersion: tls.VersionTLS12}, nil
	}

	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("read pinned CA %s: %w", caPath, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("parse pinned CA %s: no certificates found", caPath)
	}

	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    pool,
	}, nil
}
