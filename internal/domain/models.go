package domain

// Endpoint selects which SCMD environment the probe targets.
type Endpoint int

const (
	Preprod Endpoint = iota
	Prod
)

func (e Endpoint) String() string {
	if e == Prod {
		return "prod"
	}
	return "preprod"
}

// ProbeRequest carries everything a single GetCertificate probe needs.
type ProbeRequest struct {
	UserID          string // user phone number (+XXX NNNNNNNNN)
	ApplicationID   string // CMD ApplicationId, sent base64-encoded on the wire
	Endpoint        Endpoint
	TimeoutSeconds  float64
	WarningSeconds  float64
	CriticalSeconds float64
}

// FaultKind classifies why a probe failed.
type FaultKind int

const (
	Timeout FaultKind = iota
	TransportError
	ServiceFault
	MalformedCertificate
)

func (k FaultKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case TransportError:
		return "transport error"
	case ServiceFault:
		return "service fault"
	case MalformedCertificate:
		return "malformed certificate"
	}
	return "unknown fault"
}

// FaultInfo is a probe failure as a value. Nothing in the probe path
// propagates errors past this type; a run always reaches the formatter.
type FaultInfo struct {
	Kind   FaultKind
	Detail string
}

func (f FaultInfo) String() string {
	return f.Kind.String() + ": " + f.Detail
}

// ProbeOutcome is the immutable result of one probe run. Certificate
// fields are display-only; they are never compared against expected
// values because the probe checks liveness, not PKI trust.
type ProbeOutcome struct {
	ElapsedSeconds       float64
	CertificateSubject   string
	CertificateIssuer    string
	CertificateHierarchy string
	Fault                *FaultInfo
}
