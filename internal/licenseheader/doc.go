// Package licenseheader implements the add-license-headers pre-commit hook.
//
// It offers CommandBuilder for the Cobra command, Service for orchestrating
// per-file header reconciliation, and a native ComplianceTool implementation
// that detects, inserts, and refreshes Ansys copyright headers.
package licenseheader
