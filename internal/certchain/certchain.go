// Package certchain decodes the PEM certificate hierarchy returned by the
// SCMD GetCertificate operation and extracts the names shown to operators.
package certchain

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// Chain holds the display names of a parsed certificate hierarchy.
// The service returns three concatenated PEM blocks ordered user
// certificate, root, issuing CA.
type Chain struct {
	Subject   string // CN of the user certificate
	Issuer    string // CN of the issuing CA
	Hierarchy string // CN of the root
}

// Parse decodes a concatenated PEM payload into a Chain. It needs at
// least the user, root and issuing-CA certificates, each with a non-empty
// subject CN.
func Parse(payload []byte) (Chain, error) {
	var certs []*x509.Certificate
	rest := payload
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return Chain{}, fmt.Errorf("parse certificate %d: %w", len(certs), err)
		}
		certs = append(certs, cert)
	}
	if len(certs) < 3 {
		return Chain{}, fmt.Errorf("expected 3 certificates in chain, got %d", len(certs))
	}

	c := Chain{
		Subject:   certs[0].Subject.CommonName,
		Issuer:    certs[2].Subject.CommonName,
		Hierarchy: certs[1].Subject.CommonName,
	}
	if c.Subject == "" || c.Issuer == "" || c.Hierarchy == "" {
		return Chain{}, fmt.Errorf("certificate chain missing subject CN")
	}
	return c, nil
}
