package licenseheader

import (
	"context"
	"fmt"
)

const (
	yearRangeTemplateConstant       = "%d - %d"
	singleYearTemplateConstant      = "%d"
	minimumSupportedStartYear       = 1942
	startYearTooEarlyTemplateError  = "start year %d predates %d; provide a later start year"
	startYearInFutureTemplateError  = "start year %d is later than the current year %d"
	verdictCompliantLabelConstant   = "compliant"
	verdictMissingLabelConstant     = "missing-header"
	verdictOutdatedLabelConstant    = "outdated-header"
	verdictUnrecognizedLabel        = "unrecognized-type"
	verdictUnknownLabelConstant     = "unknown"
)

// Verdict classifies the compliance state of a single candidate file.
type Verdict int

// Compliance verdicts computed per file on every run.
const (
	VerdictCompliant Verdict = iota
	VerdictMissingHeader
	VerdictOutdatedHeader
	VerdictUnrecognizedType
)

// String renders the verdict for logs and summaries.
func (verdict Verdict) String() string {
	switch verdict {
	case VerdictCompliant:
		return verdictCompliantLabelConstant
	case VerdictMissingHeader:
		return verdictMissingLabelConstant
	case VerdictOutdatedHeader:
		return verdictOutdatedLabelConstant
	case VerdictUnrecognizedType:
		return verdictUnrecognizedLabel
	default:
		return verdictUnknownLabelConstant
	}
}

// HeaderSpecification captures the header policy applied to every candidate file during a run.
type HeaderSpecification struct {
	CopyrightPhrase    string
	StartYear          int
	CurrentYear        int
	LicenseIdentifier  string
	TemplateName       string
	IgnoreLicenseCheck bool
}

// YearRange renders the copyright year span, collapsing identical start and current years.
func (specification HeaderSpecification) YearRange() string {
	if specification.StartYear == specification.CurrentYear {
		return fmt.Sprintf(singleYearTemplateConstant, specification.CurrentYear)
	}
	return fmt.Sprintf(yearRangeTemplateConstant, specification.StartYear, specification.CurrentYear)
}

// ValidateStartYear rejects start years outside the supported range.
func (specification HeaderSpecification) ValidateStartYear() error {
	if specification.StartYear < minimumSupportedStartYear {
		return fmt.Errorf(startYearTooEarlyTemplateError, specification.StartYear, minimumSupportedStartYear)
	}
	if specification.StartYear > specification.CurrentYear {
		return fmt.Errorf(startYearInFutureTemplateError, specification.StartYear, specification.CurrentYear)
	}
	return nil
}

// ComplianceTool evaluates and repairs license headers for individual files.
type ComplianceTool interface {
	// Check reports the compliance verdict for the file without modifying it.
	Check(executionContext context.Context, filePath string, specification HeaderSpecification) (Verdict, error)
	// Fix brings the file into compliance and reports whether its content changed.
	Fix(executionContext context.Context, filePath string, specification HeaderSpecification) (bool, error)
}

// ReconcileSummary aggregates the outcome of a reconciliation run.
type ReconcileSummary struct {
	ChangedFiles     []string
	SkippedFiles     []string
	LicenseRefreshed bool
}

// HasChanges reports whether the run mutated any file and must fail the hook.
func (summary ReconcileSummary) HasChanges() bool {
	return len(summary.ChangedFiles) > 0 || summary.LicenseRefreshed
}
