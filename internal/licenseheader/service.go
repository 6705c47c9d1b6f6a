package licenseheader

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
)

const (
	reconcileStartedMessageConstant    = "header reconciliation started"
	reconcileFinishedMessageConstant   = "header reconciliation finished"
	logFieldRepositoryRootConstant     = "repository_root"
	logFieldCandidateFileCountConstant = "candidate_files"
	logFieldChangedFileCountConstant   = "changed_files"
	logFieldSkippedFileCountConstant   = "skipped_files"
)

// ErrRootResolverNotConfigured indicates the service was constructed without a
// repository root resolver.
var ErrRootResolverNotConfigured = errors.New("repository root resolver not configured")

// RepositoryRootResolver locates the repository top level for a working
// directory.
type RepositoryRootResolver interface {
	ResolveRoot(executionContext context.Context, workingDirectory string) (string, error)
}

// ReconcileReporter receives human readable progress notifications during
// reconciliation.
type ReconcileReporter interface {
	FileChanged(filePath string)
	FileSkipped(filePath string)
	ItemCreated(itemPath string)
	LicenseRefreshed(filePath string)
}

// ComplianceToolProvider constructs the compliance tool used for a single
// reconciliation run.
type ComplianceToolProvider func(logger *zap.Logger, assets *AssetManager) ComplianceTool

// ServiceDependencies aggregates the collaborators required by the service.
type ServiceDependencies struct {
	Logger                 *zap.Logger
	RepositoryRootResolver RepositoryRootResolver
	Reporter               ReconcileReporter
	ComplianceToolProvider ComplianceToolProvider
}

// ReconcileOptions describes a single reconciliation request.
type ReconcileOptions struct {
	WorkingDirectory string
	FilePaths        []string
	Specification    HeaderSpecification
}

// Service reconciles license headers across the staged files of a repository.
type Service struct {
	logger                 *zap.Logger
	repositoryRootResolver RepositoryRootResolver
	reporter               ReconcileReporter
	complianceToolProvider ComplianceToolProvider
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.RepositoryRootResolver == nil {
		return nil, ErrRootResolverNotConfigured
	}

	serviceLogger := dependencies.Logger
	if serviceLogger == nil {
		serviceLogger = zap.NewNop()
	}

	serviceReporter := dependencies.Reporter
	if serviceReporter == nil {
		serviceReporter = silentReporter{}
	}

	toolProvider := dependencies.ComplianceToolProvider
	if toolProvider == nil {
		toolProvider = func(toolLogger *zap.Logger, assets *AssetManager) ComplianceTool {
			return NewHeaderReconciler(toolLogger, assets)
		}
	}

	return &Service{
		logger:                 serviceLogger,
		repositoryRootResolver: dependencies.RepositoryRootResolver,
		reporter:               serviceReporter,
		complianceToolProvider: toolProvider,
	}, nil
}

// Reconcile validates the specification, refreshes the repository LICENSE,
// materializes default assets, repairs every recognized candidate file, and
// cleans unmodified assets back up.
func (service *Service) Reconcile(executionContext context.Context, options ReconcileOptions) (ReconcileSummary, error) {
	summary := ReconcileSummary{}

	if validationError := options.Specification.ValidateStartYear(); validationError != nil {
		return summary, validationError
	}

	repositoryRoot, rootError := service.repositoryRootResolver.ResolveRoot(executionContext, options.WorkingDirectory)
	if rootError != nil {
		return summary, rootError
	}

	service.logger.Debug(
		reconcileStartedMessageConstant,
		zap.String(logFieldRepositoryRootConstant, repositoryRoot),
		zap.Int(logFieldCandidateFileCountConstant, len(options.FilePaths)),
	)

	// The LICENSE year span is only managed for the default MIT license.
	if options.Specification.LicenseIdentifier == defaultLicenseIdentifierConstant {
		licenseRefresher := NewLicenseFileRefresher(repositoryRoot)
		licenseRefreshed, refreshError := licenseRefresher.Refresh(options.Specification.CurrentYear)
		if refreshError != nil {
			return summary, refreshError
		}
		if licenseRefreshed {
			summary.LicenseRefreshed = true
			service.reporter.LicenseRefreshed(licenseFileNameConstant)
		}
	}

	assetManager := NewAssetManager(repositoryRoot, service.reporter)
	if materializeError := assetManager.Materialize(options.Specification); materializeError != nil {
		return summary, materializeError
	}

	complianceTool := service.complianceToolProvider(service.logger, assetManager)

	candidateFilePaths := append([]string{}, options.FilePaths...)
	sort.Strings(candidateFilePaths)

	for _, candidateFilePath := range candidateFilePaths {
		verdict, checkError := complianceTool.Check(executionContext, candidateFilePath, options.Specification)
		if checkError != nil {
			return summary, checkError
		}

		switch verdict {
		case VerdictUnrecognizedType:
			summary.SkippedFiles = append(summary.SkippedFiles, candidateFilePath)
			service.reporter.FileSkipped(candidateFilePath)
			continue
		case VerdictCompliant:
			continue
		}

		fileChanged, fixError := complianceTool.Fix(executionContext, candidateFilePath, options.Specification)
		if fixError != nil {
			return summary, fixError
		}
		if fileChanged {
			summary.ChangedFiles = append(summary.ChangedFiles, candidateFilePath)
			service.reporter.FileChanged(candidateFilePath)
		}
	}

	if cleanupError := assetManager.Cleanup(options.Specification); cleanupError != nil {
		return summary, cleanupError
	}

	service.logger.Debug(
		reconcileFinishedMessageConstant,
		zap.Int(logFieldChangedFileCountConstant, len(summary.ChangedFiles)),
		zap.Int(logFieldSkippedFileCountConstant, len(summary.SkippedFiles)),
	)

	return summary, nil
}

type silentReporter struct{}

func (silentReporter) FileChanged(string)      {}
func (silentReporter) FileSkipped(string)      {}
func (silentReporter) ItemCreated(string)      {}
func (silentReporter) LicenseRefreshed(string) {}
