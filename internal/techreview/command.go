package techreview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ansys/pre-commit-hooks/internal/execshell"
	"github.com/ansys/pre-commit-hooks/internal/gitrepo"
	"github.com/ansys/pre-commit-hooks/internal/ui"
	"github.com/ansys/pre-commit-hooks/internal/utils"
)

const (
	commandUseConstant                = "tech-review"
	commandShortDescriptionConstant   = "Audit the repository against the technical review checklist"
	commandLongDescriptionConstant    = "tech-review verifies the repository's packaging metadata and required structure, creates missing directories and files from bundled templates, and fails so the generated items can be reviewed before committing."
	productFlagNameConstant           = "product"
	productFlagUsageConstant          = "Name of the Ansys product the repository wraps"
	authorNameFlagNameConstant        = "author_maint_name"
	authorNameFlagUsageConstant       = "Name of the authors and maintainers of the project"
	authorEmailFlagNameConstant       = "author_maint_email"
	authorEmailFlagUsageConstant      = "Email of the authors and maintainers of the project"
	licenseFlagNameConstant           = "license"
	licenseFlagUsageConstant          = "SPDX identifier of the license the repository uses"
	urlFlagNameConstant               = "url"
	urlFlagUsageConstant              = "URL of the contribution guidelines"
	startYearFlagNameConstant         = "start_year"
	startYearFlagUsageConstant        = "Start year of the repository"
	nonCompliantNameFlagNameConstant  = "non_compliant_name"
	nonCompliantNameFlagUsageConstant = "Accept a project name outside the ansys-{product}-{library} convention"
	auditFailedErrorTemplateConstant  = "technical review failed: %w"
	notCompliantErrorMessageConstant  = "repository is not compliant with the technical review checklist"
	workingDirectoryErrorTemplate     = "unable to determine working directory: %w"
	rootResolverCreationErrorTemplate = "unable to construct repository root resolver: %w"
	configurationAppliedMessage       = "configuration file applied"
	logFieldConfigurationFile         = "config_file"
)

// ErrRepositoryNotCompliant signals that the audit scaffolded items or found
// violations, so the hook must exit non-zero for human review.
var ErrRepositoryNotCompliant = errors.New(notCompliantErrorMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// AuditService audits a repository against the technical review checklist.
type AuditService interface {
	Audit(executionContext context.Context, options AuditOptions) (AuditSummary, error)
}

// ServiceProvider constructs an audit service from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (AuditService, error)

type commandOptions struct {
	debugLoggingEnabled bool
	policy              ReviewPolicy
}

// CommandBuilder assembles the tech-review Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	WorkingDirectory             string
	OutputWriter                 io.Writer
	ServiceProvider              ServiceProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the tech-review command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE:          builder.runAudit,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(productFlagNameConstant, defaults.Product, productFlagUsageConstant)
	command.Flags().String(authorNameFlagNameConstant, defaults.AuthorMaintainerName, authorNameFlagUsageConstant)
	command.Flags().String(authorEmailFlagNameConstant, defaults.AuthorMaintainerEmail, authorEmailFlagUsageConstant)
	command.Flags().String(licenseFlagNameConstant, defaults.LicenseIdentifier, licenseFlagUsageConstant)
	command.Flags().String(urlFlagNameConstant, defaults.URL, urlFlagUsageConstant)
	command.Flags().Int(startYearFlagNameConstant, defaults.StartYear, startYearFlagUsageConstant)
	command.Flags().Bool(nonCompliantNameFlagNameConstant, defaults.NonCompliantName, nonCompliantNameFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runAudit(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger(options.debugLoggingEnabled)

	contextAccessor := utils.NewCommandContextAccessor()
	if configurationFilePath, pathAvailable := contextAccessor.ConfigurationFilePath(command.Context()); pathAvailable && len(configurationFilePath) > 0 {
		logger.Debug(configurationAppliedMessage, zap.String(logFieldConfigurationFile, configurationFilePath))
	}

	rootResolver, rootResolverError := builder.resolveRootResolver(logger)
	if rootResolverError != nil {
		return rootResolverError
	}

	reporter := ui.NewHookReporter(builder.resolveOutputWriter(command))

	service, serviceError := builder.resolveService(ServiceDependencies{
		Logger:                 logger,
		RepositoryRootResolver: rootResolver,
		Reporter:               reporter,
	})
	if serviceError != nil {
		return serviceError
	}

	workingDirectory, workingDirectoryError := builder.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	summary, auditError := service.Audit(command.Context(), AuditOptions{
		WorkingDirectory: workingDirectory,
		Policy:           options.policy,
	})
	if auditError != nil {
		return fmt.Errorf(auditFailedErrorTemplateConstant, auditError)
	}

	if !summary.Compliant() {
		return ErrRepositoryNotCompliant
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	product := configuration.Product
	authorName := configuration.AuthorMaintainerName
	authorEmail := configuration.AuthorMaintainerEmail
	licenseIdentifier := configuration.LicenseIdentifier
	documentationURL := configuration.URL
	startYear := configuration.StartYear
	nonCompliantName := configuration.NonCompliantName

	if command != nil {
		commandFlags := command.Flags()
		if commandFlags.Changed(productFlagNameConstant) {
			product, _ = commandFlags.GetString(productFlagNameConstant)
		}
		if commandFlags.Changed(authorNameFlagNameConstant) {
			authorName, _ = commandFlags.GetString(authorNameFlagNameConstant)
		}
		if commandFlags.Changed(authorEmailFlagNameConstant) {
			authorEmail, _ = commandFlags.GetString(authorEmailFlagNameConstant)
		}
		if commandFlags.Changed(licenseFlagNameConstant) {
			licenseIdentifier, _ = commandFlags.GetString(licenseFlagNameConstant)
		}
		if commandFlags.Changed(urlFlagNameConstant) {
			documentationURL, _ = commandFlags.GetString(urlFlagNameConstant)
		}
		if commandFlags.Changed(startYearFlagNameConstant) {
			startYear, _ = commandFlags.GetInt(startYearFlagNameConstant)
		}
		if commandFlags.Changed(nonCompliantNameFlagNameConstant) {
			nonCompliantName, _ = commandFlags.GetBool(nonCompliantNameFlagNameConstant)
		}
	}

	currentYear := time.Now().Year()
	if startYear == 0 {
		startYear = currentYear
	}

	policy := ReviewPolicy{
		Product:               product,
		AuthorMaintainerName:  authorName,
		AuthorMaintainerEmail: authorEmail,
		LicenseIdentifier:     licenseIdentifier,
		URL:                   documentationURL,
		StartYear:             startYear,
		CurrentYear:           currentYear,
		NonCompliantName:      nonCompliantName,
	}

	return commandOptions{
		debugLoggingEnabled: configuration.EnableDebugLogging,
		policy:              policy,
	}, nil
}

func (builder *CommandBuilder) resolveLogger(enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.DebugLevel))
	}
	return logger
}

func (builder *CommandBuilder) resolveRootResolver(logger *zap.Logger) (RepositoryRootResolver, error) {
	gitExecutor := builder.GitExecutor
	if gitExecutor == nil {
		commandRunner := execshell.NewOSCommandRunner()

		var eventObservers []execshell.CommandEventObserver
		if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
			eventObservers = append(eventObservers, ui.NewConsoleCommandEventLogger(logger))
		}

		shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner, eventObservers...)
		if executorError != nil {
			return nil, executorError
		}
		gitExecutor = shellExecutor
	}

	rootResolver, resolverError := gitrepo.NewRootResolver(gitExecutor)
	if resolverError != nil {
		return nil, fmt.Errorf(rootResolverCreationErrorTemplate, resolverError)
	}
	return rootResolver, nil
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (AuditService, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}

	service, serviceError := NewService(dependencies)
	if serviceError != nil {
		return nil, serviceError
	}
	return service, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}

	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}

func (builder *CommandBuilder) resolveOutputWriter(command *cobra.Command) io.Writer {
	if builder.OutputWriter != nil {
		return builder.OutputWriter
	}
	if command != nil {
		return command.OutOrStdout()
	}
	return os.Stdout
}

func (builder *CommandBuilder) resolveWorkingDirectory() (string, error) {
	if len(builder.WorkingDirectory) > 0 {
		return builder.WorkingDirectory, nil
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorTemplate, workingDirectoryError)
	}
	return workingDirectory, nil
}
