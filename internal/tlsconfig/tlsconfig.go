// Package tlsconfig builds the mutual-TLS settings shared by the dispatch
// server and its clients.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/pkg/errors"
)

// Config names the certificate material for one side of the connection.
type Config struct {
	CertFile string
	KeyFile  string
	CAFile   string

	// ServerName is the hostname the client expects on the server
	// certificate. Ignored on the server side.
	ServerName string

	// Server selects the server-side config, which requires and verifies
	// client certificates against the CA.
	Server bool
}

// Setup loads the certificate material and returns the TLS config for the
// requested side.
func Setup(cfg *Config) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load key pair")
	}

	caPEM, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CA certificate")
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caPEM) {
		return nil, errors.Errorf("no CA certificates parsed from %s", cfg.CAFile)
	}

	tlsConfig := &tls.Config{
		MinVersion:   tls.VersionTLS13,
		Certificates: []tls.Certificate{cert},
	}

	if cfg.Server {
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
		tlsConfig.ClientCAs = caPool
	} else {
		tlsConfig.ServerName = cfg.ServerName
		tlsConfig.RootCAs = caPool
	}

	return tlsConfig, nil
}
