package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ansys/pre-commit-hooks/internal/ui"
)

func TestHookReporterWritesOutcomeLines(t *testing.T) {
	testCases := []struct {
		name           string
		report         func(reporter *ui.HookReporter)
		expectedOutput string
	}{
		{
			name:           "file changed",
			report:         func(reporter *ui.HookReporter) { reporter.FileChanged("src/module.py") },
			expectedOutput: "Successfully changed header of src/module.py\n",
		},
		{
			name:           "file skipped",
			report:         func(reporter *ui.HookReporter) { reporter.FileSkipped("assets/logo.png") },
			expectedOutput: "Skipped unrecognized file assets/logo.png\n",
		},
		{
			name:           "item created",
			report:         func(reporter *ui.HookReporter) { reporter.ItemCreated("CONTRIBUTING.md") },
			expectedOutput: "CONTRIBUTING.md does not exist. Creating it from template...\n",
		},
		{
			name:           "compliance issue",
			report:         func(reporter *ui.HookReporter) { reporter.ComplianceIssue("LICENSE content is missing the license name") },
			expectedOutput: "LICENSE content is missing the license name\n",
		},
		{
			name:           "license refreshed",
			report:         func(reporter *ui.HookReporter) { reporter.LicenseRefreshed("LICENSE") },
			expectedOutput: "Successfully updated year in LICENSE\n",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			outputBuffer := &bytes.Buffer{}
			reporter := ui.NewHookReporter(outputBuffer)

			testCase.report(reporter)

			require.Equal(t, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestHookReporterToleratesNilWriter(t *testing.T) {
	reporter := ui.NewHookReporter(nil)

	require.NotPanics(t, func() {
		reporter.FileChanged("src/module.py")
		reporter.ComplianceIssue("finding")
	})
}
