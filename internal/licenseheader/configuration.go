package licenseheader

import "strings"

const (
	defaultCopyrightPhraseConstant        = "ANSYS, Inc. and/or its affiliates."
	defaultStartYearConstant              = 2023
	configurationCopyrightKeyConstant     = "copyright"
	configurationTemplateKeyConstant      = "template"
	configurationLicenseKeyConstant       = "license"
	configurationStartYearKeyConstant     = "start_year"
	configurationIgnoreLicenseKeyConstant = "ignore_license_check"
	configurationDebugLoggingKeyConstant  = "debug"
	configurationKeySeparatorConstant     = "."
)

// CommandConfiguration captures persisted configuration for header
// reconciliation.
type CommandConfiguration struct {
	CopyrightPhrase    string `mapstructure:"copyright"`
	TemplateName       string `mapstructure:"template"`
	LicenseIdentifier  string `mapstructure:"license"`
	StartYear          int    `mapstructure:"start_year"`
	IgnoreLicenseCheck bool   `mapstructure:"ignore_license_check"`
	EnableDebugLogging bool   `mapstructure:"debug"`
}

// DefaultCommandConfiguration returns baseline configuration values for header
// reconciliation.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		CopyrightPhrase:    defaultCopyrightPhraseConstant,
		TemplateName:       defaultTemplateNameConstant,
		LicenseIdentifier:  defaultLicenseIdentifierConstant,
		StartYear:          defaultStartYearConstant,
		IgnoreLicenseCheck: false,
		EnableDebugLogging: false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the
// add-license-headers command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationCopyrightKeyConstant:     defaults.CopyrightPhrase,
		rootKey + configurationKeySeparatorConstant + configurationTemplateKeyConstant:      defaults.TemplateName,
		rootKey + configurationKeySeparatorConstant + configurationLicenseKeyConstant:       defaults.LicenseIdentifier,
		rootKey + configurationKeySeparatorConstant + configurationStartYearKeyConstant:     defaults.StartYear,
		rootKey + configurationKeySeparatorConstant + configurationIgnoreLicenseKeyConstant: defaults.IgnoreLicenseCheck,
		rootKey + configurationKeySeparatorConstant + configurationDebugLoggingKeyConstant:  defaults.EnableDebugLogging,
	}
}

// Sanitize trims configured values and restores defaults for empty entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.CopyrightPhrase = fallbackWhenBlank(configuration.CopyrightPhrase, defaultCopyrightPhraseConstant)
	sanitized.TemplateName = fallbackWhenBlank(configuration.TemplateName, defaultTemplateNameConstant)
	sanitized.LicenseIdentifier = fallbackWhenBlank(configuration.LicenseIdentifier, defaultLicenseIdentifierConstant)
	if sanitized.StartYear == 0 {
		sanitized.StartYear = defaultStartYearConstant
	}
	return sanitized
}

func fallbackWhenBlank(candidateValue string, fallbackValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return fallbackValue
	}
	return trimmedValue
}
