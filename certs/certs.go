// Package certs mints throwaway certificates for TLS tests. A fresh CA
// and leaf certificates are generated on every call, so nothing produced
// here is usable outside a single test run.
package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Bundle points at the PEM files Mint wrote.
type Bundle struct {
	CAFile string

	ServerCertFile string
	ServerKeyFile  string

	// Client certificates carry the role in their OU, which is what the
	// server's authorisation reads.
	OperatorCertFile string
	OperatorKeyFile  string
	ViewerCertFile   string
	ViewerKeyFile    string
}

// Mint writes a CA, a server certificate valid for localhost, and one
// client certificate per role into dir.
func Mint(dir string) (*Bundle, error) {
	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate CA key")
	}

	caTemplate := &x509.Certificate{
		SerialNumber:          newSerial(),
		Subject:               pkix.Name{CommonName: "dispatch test CA"},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(2 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	caDER, err := x509.CreateCertificate(
		rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CA certificate")
	}

	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CA certificate")
	}

	b := &Bundle{CAFile: filepath.Join(dir, "ca.crt")}
	if err := writePEM(b.CAFile, "CERTIFICATE", caDER); err != nil {
		return nil, err
	}

	b.ServerCertFile, b.ServerKeyFile, err = issueCert(
		dir, "server", caCert, caKey, &x509.Certificate{
			SerialNumber: newSerial(),
			Subject:      pkix.Name{CommonName: "localhost"},
			NotBefore:    time.Now().Add(-time.Minute),
			NotAfter:     time.Now().Add(2 * time.Hour),
			KeyUsage:     x509.KeyUsageDigitalSignature,
			ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
			DNSNames:     []string{"localhost"},
			IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		},
	)
	if err != nil {
		return nil, err
	}

	b.OperatorCertFile, b.OperatorKeyFile, err = issueCert(
		dir, "client-operator", caCert, caKey, clientTemplate("alice", "operator"),
	)
	if err != nil {
		return nil, err
	}

	b.ViewerCertFile, b.ViewerKeyFile, err = issueCert(
		dir, "client-viewer", caCert, caKey, clientTemplate("bob", "viewer"),
	)
	if err != nil {
		return nil, err
	}

	return b, nil
}

func clientTemplate(cn, role string) *x509.Certificate {
	return &x509.Certificate{
		SerialNumber: newSerial(),
		Subject: pkix.Name{
			CommonName:         cn,
			OrganizationalUnit: []string{role},
		},
		NotBefore:   time.Now().Add(-time.Minute),
		NotAfter:    time.Now().Add(2 * time.Hour),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
}

func issueCert(
	dir, name string,
	caCert *x509.Certificate,
	caKey *ecdsa.PrivateKey,
	template *x509.Certificate,
) (string, string, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to generate %s key", name)
	}

	der, err := x509.CreateCertificate(
		rand.Reader, template, caCert, &key.PublicKey, caKey,
	)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to create %s certificate", name)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to marshal %s key", name)
	}

	certFile := filepath.Join(dir, name+".crt")
	if err := writePEM(certFile, "CERTIFICATE", der); err != nil {
		return "", "", err
	}

	keyFile := filepath.Join(dir, name+".key")
	if err := writePEM(keyFile, "PRIVATE KEY", keyDER); err != nil {
		return "", "", err
	}

	return certFile, keyFile, nil
}

func writePEM(path, blockType string, der []byte) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	return nil
}

func newSerial() *big.Int {
	limit := new(big.Int).Lsh(big.NewInt(1), 128)

	serial, err := rand.Int(rand.Reader, limit)
	if err != nil {
		// crypto/rand only fails when the platform source is broken, at
		// which point certificate generation is doomed anyway.
		panic(err)
	}

	return serial
}
