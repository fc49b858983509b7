package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/onion-http/onion/errs"
)

// loadCertificate resolves one configured certificate pair into a
// usable tls.Certificate, either from a PKCS#12 bundle or from a PEM
// certificate/key pair.
func loadCertificate(pair CertPair) (tls.Certificate, error) {
	if pair.PKCS12File != "" {
		return loadPKCS12(pair.PKCS12File, pair.PKCS12Password)
	}
	cert, err := tls.LoadX509KeyPair(pair.CertFile, pair.KeyFile)
	if err != nil {
		return tls.Certificate{}, errs.New(ErrorLoadCertificate, "loading PEM certificate pair", err)
	}
	return cert, nil
}

func loadPKCS12(path, password string) (tls.Certificate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, errs.New(ErrorLoadCertificate, "reading PKCS#12 bundle", err)
	}

	key, leaf, chain, err := pkcs12.DecodeChain(raw, password)
	if err != nil {
		return tls.Certificate{}, errs.New(ErrorLoadCertificate, "decoding PKCS#12 bundle", err)
	}

	cert := tls.Certificate{
		PrivateKey: key,
		Leaf:       leaf,
		Certificate: make([][]byte, 0, len(chain)+1),
	}
	cert.Certificate = append(cert.Certificate, leaf.Raw)
	for _, c := range chain {
		cert.Certificate = append(cert.Certificate, c.Raw)
	}
	return cert, nil
}

// loadCertPool reads a set of PEM-encoded CA bundle files into a
// single pool, used for either the root or client CA set.
func loadCertPool(paths []string) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.New(ErrorLoadCA, "reading CA bundle", err)
		}
		if !pool.AppendCertsFromPEM(raw) {
			return nil, errs.New(ErrorLoadCA, "no certificates found in CA bundle "+path, nil)
		}
	}
	return pool, nil
}
