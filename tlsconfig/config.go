package tlsconfig

import (
	"crypto/tls"
	"fmt"

	validator "github.com/go-playground/validator/v10"

	"github.com/onion-http/onion/errs"
)

// CertPair names one certificate's key material, as either a PEM
// cert/key file pair or a PKCS#12 bundle.
type CertPair struct {
	CertFile       string `mapstructure:"certFile" json:"certFile" yaml:"certFile" validate:"required_without=PKCS12File"`
	KeyFile        string `mapstructure:"keyFile" json:"keyFile" yaml:"keyFile" validate:"required_without=PKCS12File"`
	PKCS12File     string `mapstructure:"pkcs12File" json:"pkcs12File" yaml:"pkcs12File" validate:"required_without_all=CertFile KeyFile"`
	PKCS12Password string `mapstructure:"pkcs12Password" json:"pkcs12Password" yaml:"pkcs12Password"`
}

// Config describes the certificate material and negotiation policy
// for an HTTPS listen point.
type Config struct {
	Certs             []CertPair `mapstructure:"certs" json:"certs" yaml:"certs" validate:"required,min=1,dive"`
	RootCAFiles       []string   `mapstructure:"rootCAFiles" json:"rootCAFiles" yaml:"rootCAFiles"`
	ClientCAFiles     []string   `mapstructure:"clientCAFiles" json:"clientCAFiles" yaml:"clientCAFiles"`
	RequireClientCert bool       `mapstructure:"requireClientCert" json:"requireClientCert" yaml:"requireClientCert"`
	VersionMin        uint16     `mapstructure:"versionMin" json:"versionMin" yaml:"versionMin" validate:"omitempty,gte=769,lte=772"`
	VersionMax        uint16     `mapstructure:"versionMax" json:"versionMax" yaml:"versionMax" validate:"omitempty,gte=769,lte=772"`
	WatchForChanges   bool       `mapstructure:"watchForChanges" json:"watchForChanges" yaml:"watchForChanges"`
}

// Validate runs struct tag validation, collecting every violated
// constraint into a single chained error rather than stopping at the
// first one.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		out := errs.New(ErrorValidation, "validating TLS configuration", nil)
		for _, fe := range err.(validator.ValidationErrors) {
			out.Add(fmt.Errorf("field '%s' fails constraint '%s'", fe.StructNamespace(), fe.ActualTag()))
		}
		return out
	}
	return nil
}

// Build loads every configured certificate and CA bundle and produces
// the resulting *tls.Config.
func (c *Config) Build() (*tls.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	certs := make([]tls.Certificate, 0, len(c.Certs))
	for _, pair := range c.Certs {
		cert, err := loadCertificate(pair)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, errs.New(ErrorNoCertificate, "no certificates configured", nil)
	}

	cfg := &tls.Config{
		Certificates: certs,
		MinVersion:   versionOrDefault(c.VersionMin, tls.VersionTLS12),
		MaxVersion:   versionOrDefault(c.VersionMax, tls.VersionTLS13),
	}

	if len(c.RootCAFiles) > 0 {
		pool, err := loadCertPool(c.RootCAFiles)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}

	if len(c.ClientCAFiles) > 0 {
		pool, err := loadCertPool(c.ClientCAFiles)
		if err != nil {
			return nil, err
		}
		cfg.ClientCAs = pool
		if c.RequireClientCert {
			cfg.ClientAuth = tls.RequireAndVerifyClientCert
		} else {
			cfg.ClientAuth = tls.VerifyClientCertIfGiven
		}
	}

	return cfg, nil
}

func versionOrDefault(v uint16, def uint16) uint16 {
	if v == 0 {
		return def
	}
	return v
}
