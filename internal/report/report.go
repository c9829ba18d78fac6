// Package report renders the single output line the monitoring
// scheduler parses and maps status levels to process exit codes.
package report

import (
	"fmt"

	"github.com/devisefutures/check-CMD-plugin/internal/domain"
)

const serviceName = "scmd"

// Format renders the plugin line for a completed probe:
//
//	<LEVEL> - scmd: <detail>|'time_seconds'=<elapsed>
//
// The perfdata value carries five significant digits.
func Format(level domain.StatusLevel, outcome domain.ProbeOutcome) (string, int) {
	detail := certificateDetail(outcome)
	if outcome.Fault != nil {
		detail = outcome.Fault.Detail
	}
	msg := fmt.Sprintf("%s - %s: %s|'time_seconds'=%.5g",
		level, serviceName, detail, outcome.ElapsedSeconds)
	return msg, level.ExitCode()
}

// FormatConfigError renders the pre-probe configuration failure line.
// No probe ran, so there is no perfdata to report.
func FormatConfigError(err error) (string, int) {
	msg := fmt.Sprintf("%s - %s: configuration error: %v", domain.Unknown, serviceName, err)
	return msg, domain.Unknown.ExitCode()
}

func certificateDetail(outcome domain.ProbeOutcome) string {
	return fmt.Sprintf(`Certificado emitido para "%s" pela Entidade de Certificação "%s" na hierarquia do "%s"`,
		outcome.CertificateSubject, outcome.CertificateIssuer, outcome.CertificateHierarchy)
}
