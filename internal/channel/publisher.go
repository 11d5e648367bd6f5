package channel

import "github.com/velalang/vela/internal/errors"

// BuildPublisher adapts a Notifier to internal/build.DiagnosticsPublisher,
// so the Orchestrator can publish through the editor channel without
// internal/build importing this package (§4.3 diagnostic routing: one
// publishDiagnostics per file per pass, plus the custom publishAyaProblems).
type BuildPublisher struct {
	Notifier Notifier
}

// PublishDiagnostics implements build.DiagnosticsPublisher.
func (p *BuildPublisher) PublishDiagnostics(uri string, diags []*errors.Report) {
	p.Notifier.PublishDiagnostics(uri, reportsToDiagnostics(diags))
	p.Notifier.PublishProblems(uri, reportsToProblems(diags))
}
