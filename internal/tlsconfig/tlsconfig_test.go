package tlsconfig

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const tlsMinVersionForTest = tls.VersionTLS12

// writeSelfSignedCert generates a throwaway self-signed certificate and
// writes it as PEM to path, for exercising pinned-CA loading without
// depending on any real-world certificate bytes.
func writeSelfSignedCert(t *testing.T, path string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"krakenmate test"}},
		NotBefore:             time.Unix(0, 0),
		NotAfter:              time.Unix(0, 0).Add(100 * 365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	block := &pem.Block{Type: "CERTIFICATE", Bytes: der}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatalf("write cert: %v", err)
	}
}

func TestBuildWithNoPathUsesSystemPool(t *testing.T) {
	cfg, err := Build("")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.RootCAs != nil {
		t.Error("expected nil RootCAs (system pool) when no path given")
	}
}

func TestBuildWithMissingFileErrors(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "does-not-exist.pem")); err == nil {
		t.Fatal("expected an error reading a missing CA file")
	}
}

func TestBuildWithEmptyFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	if _, err := Build(path); err == nil {
		t.Fatal("expected an error parsing a PEM file with no certificates")
	}
}

func TestBuildWithValidCertPins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ca.pem")
	writeSelfSignedCert(t, path)

	cfg, err := Build(path)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.RootCAs == nil {
		t.Error("expected a non-nil pinned root pool")
	}
	if cfg.MinVersion < tlsMinVersionForTest {
		t.Errorf("MinVersion = %x, want at least TLS 1.2", cfg.MinVersion)
	}
}
