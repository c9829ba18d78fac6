package domain

// StatusLevel is the plugin status. OK < WARNING < CRITICAL on the timing
// scale; UNKNOWN means the probe could not determine service health at all.
type StatusLevel int

const (
	OK StatusLevel = iota
	Warning
	Critical
	Unknown
)

func (s StatusLevel) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// ExitCode maps the status to the monitoring-plugin exit convention.
func (s StatusLevel) ExitCode() int {
	return int(s)
}

// Classify maps a probe outcome onto a status level. Faults win over
// timing: the probe's own deadline or a service fault is CRITICAL, while
// transport and certificate problems mean we could not tell and report
// UNKNOWN. Threshold comparisons are inclusive at both boundaries; a
// response exactly at a threshold takes that threshold's severity.
func Classify(outcome ProbeOutcome, req ProbeRequest) StatusLevel {
	if f := outcome.Fault; f != nil {
		switch f.Kind {
		case Timeout, ServiceFault:
			return Critical
		default:
			return Unknown
		}
	}
	switch {
	case outcome.ElapsedSeconds >= req.CriticalSeconds:
		return Critical
	case outcome.ElapsedSeconds >= req.WarningSeconds:
		return Warning
	}
	return OK
}
