package licenseheader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubRootResolver struct {
	root        string
	resolveErr  error
	requestedIn []string
}

func (resolver *stubRootResolver) ResolveRoot(_ context.Context, workingDirectory string) (string, error) {
	resolver.requestedIn = append(resolver.requestedIn, workingDirectory)
	if resolver.resolveErr != nil {
		return "", resolver.resolveErr
	}
	return resolver.root, nil
}

type recordingReporter struct {
	changedFiles   []string
	skippedFiles   []string
	createdItems   []string
	refreshedFiles []string
}

func (reporter *recordingReporter) FileChanged(filePath string) {
	reporter.changedFiles = append(reporter.changedFiles, filePath)
}

func (reporter *recordingReporter) FileSkipped(filePath string) {
	reporter.skippedFiles = append(reporter.skippedFiles, filePath)
}

func (reporter *recordingReporter) ItemCreated(itemPath string) {
	reporter.createdItems = append(reporter.createdItems, itemPath)
}

func (reporter *recordingReporter) LicenseRefreshed(licensePath string) {
	reporter.refreshedFiles = append(reporter.refreshedFiles, licensePath)
}

func newTestService(t *testing.T, repositoryRoot string, reporter ReconcileReporter) *Service {
	t.Helper()
	service, serviceError := NewService(ServiceDependencies{
		RepositoryRootResolver: &stubRootResolver{root: repositoryRoot},
		Reporter:               reporter,
	})
	require.NoError(t, serviceError)
	return service
}

func TestNewServiceRequiresRootResolver(t *testing.T) {
	_, serviceError := NewService(ServiceDependencies{})
	require.ErrorIs(t, serviceError, ErrRootResolverNotConfigured)
}

func TestReconcileRepairsAndReportsFiles(t *testing.T) {
	repositoryRoot := t.TempDir()
	missingHeaderPath := writeTestFile(t, repositoryRoot, "module.py", "import os\n")
	compliantPath := writeTestFile(t, repositoryRoot, "compliant.py",
		"# Copyright (C) 2023 - 2026 ANSYS, Inc. and/or its affiliates.\n# SPDX-License-Identifier: MIT\n\nimport os\n")
	unrecognizedPath := writeTestFile(t, repositoryRoot, "archive.bin", "payload")

	reporter := &recordingReporter{}
	service := newTestService(t, repositoryRoot, reporter)

	summary, reconcileError := service.Reconcile(context.Background(), ReconcileOptions{
		WorkingDirectory: repositoryRoot,
		FilePaths:        []string{unrecognizedPath, compliantPath, missingHeaderPath},
		Specification:    testSpecification(),
	})
	require.NoError(t, reconcileError)

	require.Equal(t, []string{missingHeaderPath}, summary.ChangedFiles)
	require.Equal(t, []string{unrecognizedPath}, summary.SkippedFiles)
	require.True(t, summary.HasChanges())

	require.Equal(t, []string{missingHeaderPath}, reporter.changedFiles)
	require.Equal(t, []string{unrecognizedPath}, reporter.skippedFiles)

	repairedContent, readError := os.ReadFile(missingHeaderPath)
	require.NoError(t, readError)
	require.Contains(t, string(repairedContent), "# Copyright (C) 2023 - 2026 ANSYS, Inc. and/or its affiliates.")
}

func TestReconcileReportsNoChangesForCompliantTree(t *testing.T) {
	repositoryRoot := t.TempDir()
	compliantPath := writeTestFile(t, repositoryRoot, "compliant.py",
		"# Copyright (C) 2023 - 2026 ANSYS, Inc. and/or its affiliates.\n# SPDX-License-Identifier: MIT\n\nimport os\n")

	service := newTestService(t, repositoryRoot, &recordingReporter{})

	summary, reconcileError := service.Reconcile(context.Background(), ReconcileOptions{
		WorkingDirectory: repositoryRoot,
		FilePaths:        []string{compliantPath},
		Specification:    testSpecification(),
	})
	require.NoError(t, reconcileError)
	require.False(t, summary.HasChanges())
}

func TestReconcileValidatesStartYear(t *testing.T) {
	repositoryRoot := t.TempDir()
	service := newTestService(t, repositoryRoot, &recordingReporter{})

	specification := testSpecification()
	specification.StartYear = 1871

	_, reconcileError := service.Reconcile(context.Background(), ReconcileOptions{
		WorkingDirectory: repositoryRoot,
		Specification:    specification,
	})
	require.Error(t, reconcileError)
}

func TestReconcileRefreshesLicenseFile(t *testing.T) {
	repositoryRoot := t.TempDir()
	licensePath := writeTestFile(t, repositoryRoot, "LICENSE",
		"MIT License\n\nCopyright (c) 2023 - 2024 ANSYS, Inc. All rights reserved.\n")

	reporter := &recordingReporter{}
	service := newTestService(t, repositoryRoot, reporter)

	summary, reconcileError := service.Reconcile(context.Background(), ReconcileOptions{
		WorkingDirectory: repositoryRoot,
		Specification:    testSpecification(),
	})
	require.NoError(t, reconcileError)
	require.True(t, summary.LicenseRefreshed)
	require.True(t, summary.HasChanges())
	require.Equal(t, []string{"LICENSE"}, reporter.refreshedFiles)

	refreshedContent, readError := os.ReadFile(licensePath)
	require.NoError(t, readError)
	require.Contains(t, string(refreshedContent), "Copyright (c) 2023 - 2026 ANSYS, Inc. All rights reserved.")
}

func TestReconcileLeavesLicenseFileAloneForCustomLicense(t *testing.T) {
	repositoryRoot := t.TempDir()
	licenseContent := "Apache License\n\nCopyright (c) 2020 - 2021 Example Corp.\n"
	licensePath := writeTestFile(t, repositoryRoot, "LICENSE", licenseContent)

	reporter := &recordingReporter{}
	service := newTestService(t, repositoryRoot, reporter)

	specification := testSpecification()
	specification.LicenseIdentifier = "Apache-2.0"

	summary, reconcileError := service.Reconcile(context.Background(), ReconcileOptions{
		WorkingDirectory: repositoryRoot,
		Specification:    specification,
	})
	require.NoError(t, reconcileError)
	require.False(t, summary.LicenseRefreshed)
	require.Empty(t, reporter.refreshedFiles)

	untouchedContent, readError := os.ReadFile(licensePath)
	require.NoError(t, readError)
	require.Equal(t, licenseContent, string(untouchedContent))
}

func TestReconcileCleansUpUnmodifiedDefaultAssets(t *testing.T) {
	repositoryRoot := t.TempDir()

	reporter := &recordingReporter{}
	service := newTestService(t, repositoryRoot, reporter)

	_, reconcileError := service.Reconcile(context.Background(), ReconcileOptions{
		WorkingDirectory: repositoryRoot,
		Specification:    testSpecification(),
	})
	require.NoError(t, reconcileError)

	require.Len(t, reporter.createdItems, 2)
	require.NoDirExists(t, filepath.Join(repositoryRoot, ".reuse"))
	require.NoDirExists(t, filepath.Join(repositoryRoot, "LICENSES"))
}

func TestReconcilePreservesCustomizedTemplate(t *testing.T) {
	repositoryRoot := t.TempDir()
	templateDirectory := filepath.Join(repositoryRoot, ".reuse", "templates")
	require.NoError(t, os.MkdirAll(templateDirectory, 0o755))
	customTemplatePath := writeTestFile(t, templateDirectory, "ansys.tmpl",
		"Copyright (C) {{ .YearRange }} {{ .CopyrightPhrase }}\n")

	service := newTestService(t, repositoryRoot, &recordingReporter{})

	_, reconcileError := service.Reconcile(context.Background(), ReconcileOptions{
		WorkingDirectory: repositoryRoot,
		Specification:    testSpecification(),
	})
	require.NoError(t, reconcileError)
	require.FileExists(t, customTemplatePath)
}

func TestReconcileSurfacesRootResolutionFailure(t *testing.T) {
	resolveFailure := os.ErrNotExist
	service, serviceError := NewService(ServiceDependencies{
		RepositoryRootResolver: &stubRootResolver{resolveErr: resolveFailure},
	})
	require.NoError(t, serviceError)

	_, reconcileError := service.Reconcile(context.Background(), ReconcileOptions{
		WorkingDirectory: t.TempDir(),
		Specification:    testSpecification(),
	})
	require.ErrorIs(t, reconcileError, resolveFailure)
}
