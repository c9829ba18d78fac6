// Package probe issues the single SCMD GetCertificate request a plugin
// run performs and turns whatever happens into a ProbeOutcome.
package probe

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/devisefutures/check-CMD-plugin/internal/domain"
)

// Endpoints maps the probe target to concrete service URLs.
type Endpoints struct {
	Preprod string
	Prod    string
}

func (e Endpoints) URL(target domain.Endpoint) string {
	if target == domain.Prod {
		return e.Prod
	}
	return e.Preprod
}

// Prober runs the GetCertificate probe. One network call per Invoke.
type Prober struct {
	client    *Client
	endpoints Endpoints
	log       *zap.Logger
}

func New(client *Client, endpoints Endpoints, log *zap.Logger) *Prober {
	return &Prober{client: client, endpoints: endpoints, log: log}
}

// Invoke performs the probe and measures elapsed wall-clock seconds
// around the network exchange. The elapsed value here is what thresholds
// are compared against. Every failure becomes a fault value on the
// outcome; Invoke never returns an error.
func (p *Prober) Invoke(ctx context.Context, req domain.ProbeRequest) domain.ProbeOutcome {
	url := p.endpoints.URL(req.Endpoint)

	start := time.Now()
	raw, err := p.client.GetCertificate(ctx, url, req.ApplicationID, req.UserID)
	elapsed := time.Since(start).Seconds()

	outcome := domain.ProbeOutcome{ElapsedSeconds: elapsed}
	if err != nil {
		outcome.Fault = classifyCallError(err)
		p.log.Debug("probe failed",
			zap.Float64("elapsed_seconds", elapsed),
			zap.String("fault", outcome.Fault.String()))
		return outcome
	}

	chain, fault := ValidateResponse(raw)
	if fault != nil {
		outcome.Fault = fault
		return outcome
	}
	outcome.CertificateSubject = chain.Subject
	outcome.CertificateIssuer = chain.Issuer
	outcome.CertificateHierarchy = chain.Hierarchy
	p.log.Debug("probe succeeded",
		zap.Float64("elapsed_seconds", elapsed),
		zap.String("subject", chain.Subject),
		zap.String("issuer", chain.Issuer),
		zap.String("hierarchy", chain.Hierarchy))
	return outcome
}

func classifyCallError(err error) *domain.FaultInfo {
	var fault *SOAPFault
	switch {
	case errors.As(err, &fault):
		return &domain.FaultInfo{Kind: domain.ServiceFault, Detail: fault.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		// The enforced deadline cancelled the call mid-flight.
		return &domain.FaultInfo{Kind: domain.Timeout, Detail: "request cancelled by plugin deadline"}
	}
	return &domain.FaultInfo{Kind: domain.TransportError, Detail: err.Error()}
}
