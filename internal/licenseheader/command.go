package licenseheader

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
	"github.com/ansys/pre-commit-hooks/internal/utils/flags"
	pathutils "github.com/ansys/pre-commit-hooks/internal/utils/path"
)

const (
	commandUseConstant               = "add-license-headers [files...]"
	commandShortDescriptionConstant  = "Add or refresh license headers in source files"
	commandLongDescriptionConstant   = "add-license-headers inspects each staged file, inserts a copyright and SPDX header where one is missing, refreshes stale copyright year spans, and keeps the repository LICENSE file current."
	copyrightFlagNameConstant        = "custom_copyright"
	copyrightFlagUsageConstant       = "Copyright phrase recorded in generated headers"
	templateFlagNameConstant         = "custom_template"
	templateFlagUsageConstant        = "Name of the header template to render"
	licenseFlagNameConstant          = "custom_license"
	licenseFlagUsageConstant         = "SPDX license identifier recorded in generated headers"
	startYearFlagNameConstant        = "start_year"
	startYearFlagUsageConstant       = "First year of the copyright span"
	ignoreLicenseFlagNameConstant    = "ignore_license_check"
	ignoreLicenseFlagUsageConstant   = "Skip SPDX license line management"
	workingDirectoryErrorTemplate    = "unable to determine working directory: %w"
	reconcileFailedErrorTemplate     = "license header reconciliation failed: %w"
	headersChangedErrorMessage       = "license headers were updated"
	rootResolverCreationErrorMessage = "unable to construct repository root resolver: %w"
	configurationAppliedMessage      = "configuration file applied"
	logFieldConfigurationFile        = "config_file"
)

// ErrHeadersChanged signals that reconciliation modified at least one file, so
// the hook must exit non-zero and let the caller restage.
var ErrHeadersChanged = errors.New(headersChangedErrorMessage)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// HeaderService reconciles license headers for a set of files.
type HeaderService interface {
	Reconcile(executionContext context.Context, options ReconcileOptions) (ReconcileSummary, error)
}

// ServiceProvider constructs a header service from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (HeaderService, error)

type commandOptions struct {
	debugLoggingEnabled bool
	filePaths           []string
	specification       HeaderSpecification
}

// CommandBuilder assembles the add-license-headers Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	WorkingDirectory             string
	OutputWriter                 io.Writer
	ServiceProvider              ServiceProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the add-license-headers command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE:          builder.runReconcile,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(copyrightFlagNameConstant, defaults.CopyrightPhrase, copyrightFlagUsageConstant)
	command.Flags().String(templateFlagNameConstant, defaults.TemplateName, templateFlagUsageConstant)
	command.Flags().String(licenseFlagNameConstant, defaults.LicenseIdentifier, licenseFlagUsageConstant)
	command.Flags().Int(startYearFlagNameConstant, defaults.StartYear, startYearFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), nil, ignoreLicenseFlagNameConstant, "", defaults.IgnoreLicenseCheck, ignoreLicenseFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runReconcile(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
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

	summary, reconcileError := service.Reconcile(command.Context(), ReconcileOptions{
		WorkingDirectory: workingDirectory,
		FilePaths:        options.filePaths,
		Specification:    options.specification,
	})
	if reconcileError != nil {
		return fmt.Errorf(reconcileFailedErrorTemplate, reconcileError)
	}

	if summary.HasChanges() {
		return ErrHeadersChanged
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	copyrightPhrase := configuration.CopyrightPhrase
	templateName := configuration.TemplateName
	licenseIdentifier := configuration.LicenseIdentifier
	startYear := configuration.StartYear
	ignoreLicenseCheck := configuration.IgnoreLicenseCheck

	if command != nil {
		commandFlags := command.Flags()
		if commandFlags.Changed(copyrightFlagNameConstant) {
			copyrightPhrase, _ = commandFlags.GetString(copyrightFlagNameConstant)
		}
		if commandFlags.Changed(templateFlagNameConstant) {
			templateName, _ = commandFlags.GetString(templateFlagNameConstant)
		}
		if commandFlags.Changed(licenseFlagNameConstant) {
			licenseIdentifier, _ = commandFlags.GetString(licenseFlagNameConstant)
		}
		if commandFlags.Changed(startYearFlagNameConstant) {
			startYear, _ = commandFlags.GetInt(startYearFlagNameConstant)
		}
		if commandFlags.Changed(ignoreLicenseFlagNameConstant) {
			ignoreLicenseCheck, _ = commandFlags.GetBool(ignoreLicenseFlagNameConstant)
		}
	}

	specification := HeaderSpecification{
		CopyrightPhrase:    copyrightPhrase,
		StartYear:          startYear,
		CurrentYear:        time.Now().Year(),
		LicenseIdentifier:  licenseIdentifier,
		TemplateName:       templateName,
		IgnoreLicenseCheck: ignoreLicenseCheck,
	}

	return commandOptions{
		debugLoggingEnabled: configuration.EnableDebugLogging,
		filePaths:           pathutils.NewFilePathSanitizer().Sanitize(arguments),
		specification:       specification,
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
		return nil, fmt.Errorf(rootResolverCreationErrorMessage, resolverError)
	}
	return rootResolver, nil
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (HeaderService, error) {
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
