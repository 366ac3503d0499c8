package diagfmt

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"syster/internal/diag"
	"syster/internal/observ"
	"syster/internal/source"
)

// Schema version of the msgpack report. Increment when Report changes
// shape so downstream consumers can reject stale payloads.
const reportSchemaVersion uint16 = 1

// ReportMeta carries run-level fields that do not come from the
// diagnostics themselves.
type ReportMeta struct {
	Version string
	Root    string
	Files   int
	Timings *observ.Report
}

// Report is the machine artifact of a workspace check. The msgpack
// form is what other tools ingest; the JSON tags exist only so the
// same struct can be dumped for debugging.
type Report struct {
	Schema      uint16           `json:"schema"`
	Tool        string           `json:"tool"`
	Version     string           `json:"version"`
	Root        string           `json:"root"`
	Files       int              `json:"files"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Timings     *observ.Report   `json:"timings,omitempty"`
}

// BuildReport assembles a Report from a finished check run.
func BuildReport(meta ReportMeta, ds []diag.Diagnostic, st *source.Store, opts JSONOpts) Report {
	rep := Report{
		Schema:      reportSchemaVersion,
		Tool:        "syster",
		Version:     meta.Version,
		Root:        meta.Root,
		Files:       meta.Files,
		Diagnostics: make([]DiagnosticJSON, 0, len(ds)),
		Timings:     meta.Timings,
	}
	for i := range ds {
		switch ds[i].Severity {
		case diag.SevError:
			rep.Errors++
		case diag.SevWarning:
			rep.Warnings++
		}
		rep.Diagnostics = append(rep.Diagnostics, makeDiagnostic(&ds[i], st, opts))
	}
	return rep
}

// WriteMsgpack serializes the report onto w.
func WriteMsgpack(w io.Writer, rep *Report) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(rep)
}
