package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func executeApplication(t *testing.T, arguments ...string) *Application {
	t.Helper()
	application := NewApplication()
	application.rootCommand.SetArgs(arguments)
	application.rootCommand.SetOut(&bytes.Buffer{})
	application.rootCommand.SetErr(&bytes.Buffer{})
	require.NoError(t, application.rootCommand.Execute())
	return application
}

func TestNewApplicationRegistersHookCommands(t *testing.T) {
	application := NewApplication()

	commandNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		commandNames[registeredCommand.Name()] = true
	}

	require.True(t, commandNames["add-license-headers"])
	require.True(t, commandNames["tech-review"])
}

func TestInitializeConfigurationAppliesEmbeddedDefaults(t *testing.T) {
	application := executeApplication(t)

	require.Equal(t, "info", application.configuration.Common.LogLevel)
	require.Equal(t, "structured", application.configuration.Common.LogFormat)
	require.Equal(t, "ANSYS, Inc. and/or its affiliates.", application.configuration.Tools.LicenseHeaders.CopyrightPhrase)
	require.Equal(t, "ansys", application.configuration.Tools.LicenseHeaders.TemplateName)
	require.Equal(t, 2023, application.configuration.Tools.LicenseHeaders.StartYear)
	require.Equal(t, "ANSYS, Inc.", application.configuration.Tools.TechReview.AuthorMaintainerName)
	require.Equal(t, "pyansys.core@ansys.com", application.configuration.Tools.TechReview.AuthorMaintainerEmail)
}

func TestConfigurationFileOverridesDefaults(t *testing.T) {
	configurationDirectory := t.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, "config.yaml")
	configurationContent := `common:
  log_level: debug
tools:
  license_headers:
    copyright: "Example Corp."
    start_year: 2020
  tech_review:
    product: mechanical
`
	require.NoError(t, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o644))

	application := executeApplication(t, "--config", configurationFilePath)

	require.Equal(t, "debug", application.configuration.Common.LogLevel)
	require.Equal(t, "Example Corp.", application.configuration.Tools.LicenseHeaders.CopyrightPhrase)
	require.Equal(t, 2020, application.configuration.Tools.LicenseHeaders.StartYear)
	require.Equal(t, "mechanical", application.configuration.Tools.TechReview.Product)
	require.Equal(t, configurationFilePath, application.configurationMetadata.ConfigFileUsed)
}

func TestLogFlagsOverrideConfiguration(t *testing.T) {
	application := executeApplication(t, "--log-level", "error", "--log-format", "console")

	require.Equal(t, "error", application.configuration.Common.LogLevel)
	require.Equal(t, "console", application.configuration.Common.LogFormat)
	require.True(t, application.humanReadableLoggingEnabled())
}

func TestEmbeddedDefaultConfigurationReturnsContent(t *testing.T) {
	configurationData, configurationType := EmbeddedDefaultConfiguration()
	require.NotEmpty(t, configurationData)
	require.Equal(t, "yaml", configurationType)
}
