package ui

import (
	"fmt"
	"io"
)

const (
	changedFileMessageTemplateConstant      = "Successfully changed header of %s\n"
	skippedFileMessageTemplateConstant      = "Skipped unrecognized file %s\n"
	createdItemMessageTemplateConstant      = "%s does not exist. Creating it from template...\n"
	complianceIssueMessageTemplateConstant  = "%s\n"
	licenseRefreshedMessageTemplateConstant = "Successfully updated year in %s\n"
)

// HookReporter writes the per-file and per-item outcomes that hook users act on.
//
// Detailed telemetry continues to flow through structured loggers; the
// reporter only carries the lines a developer reads after a failing hook run.
type HookReporter struct {
	writer io.Writer
}

// NewHookReporter constructs a HookReporter targeting the provided writer.
func NewHookReporter(writer io.Writer) *HookReporter {
	return &HookReporter{writer: writer}
}

// FileChanged reports a file whose license header was added or updated.
func (reporter *HookReporter) FileChanged(filePath string) {
	reporter.printf(changedFileMessageTemplateConstant, filePath)
}

// FileSkipped reports a file whose extension has no known comment style.
func (reporter *HookReporter) FileSkipped(filePath string) {
	reporter.printf(skippedFileMessageTemplateConstant, filePath)
}

// ItemCreated reports a checklist item scaffolded from a template.
func (reporter *HookReporter) ItemCreated(itemPath string) {
	reporter.printf(createdItemMessageTemplateConstant, itemPath)
}

// ComplianceIssue reports a policy violation that requires manual attention.
func (reporter *HookReporter) ComplianceIssue(message string) {
	reporter.printf(complianceIssueMessageTemplateConstant, message)
}

// LicenseRefreshed reports that the LICENSE year span was rewritten.
func (reporter *HookReporter) LicenseRefreshed(licensePath string) {
	reporter.printf(licenseRefreshedMessageTemplateConstant, licensePath)
}

func (reporter *HookReporter) printf(messageTemplate string, arguments ...any) {
	if reporter == nil || reporter.writer == nil {
		return
	}
	fmt.Fprintf(reporter.writer, messageTemplate, arguments...)
}
