package probe

import (
	"github.com/devisefutures/check-CMD-plugin/internal/certchain"
	"github.com/devisefutures/check-CMD-plugin/internal/domain"
)

// ValidateResponse checks the GetCertificateResult payload. An empty
// result means the service answered but issued nothing, which is a
// service fault; a payload that does not parse into the expected
// three-certificate hierarchy is a malformed certificate.
func ValidateResponse(raw string) (certchain.Chain, *domain.FaultInfo) {
	if raw == "" {
		return certchain.Chain{}, &domain.FaultInfo{
			Kind:   domain.ServiceFault,
			Detail: "empty GetCertificateResult",
		}
	}
	chain, err := certchain.Parse([]byte(raw))
	if err != nil {
		return certchain.Chain{}, &domain.FaultInfo{
			Kind:   domain.MalformedCertificate,
			Detail: err.Error(),
		}
	}
	return chain, nil
}
