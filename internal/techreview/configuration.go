package techreview

import "strings"

const (
	defaultAuthorMaintainerNameConstant  = "ANSYS, Inc."
	defaultAuthorMaintainerEmailConstant = "pyansys.core@ansys.com"
	defaultLicenseIdentifierConstant     = "MIT"
	defaultDocumentationURLConstant      = "https://dev.docs.pyansys.com/how-to/contributing.html"
	configurationProductKeyConstant      = "product"
	configurationAuthorNameKeyConstant   = "author_maint_name"
	configurationAuthorEmailKeyConstant  = "author_maint_email"
	configurationLicenseKeyConstant      = "license"
	configurationURLKeyConstant          = "url"
	configurationStartYearKeyConstant    = "start_year"
	configurationNonCompliantKeyConstant = "non_compliant_name"
	configurationDebugLoggingKeyConstant = "debug"
	configurationKeySeparatorConstant    = "."
)

// CommandConfiguration captures persisted configuration for the technical
// review.
type CommandConfiguration struct {
	Product               string `mapstructure:"product"`
	AuthorMaintainerName  string `mapstructure:"author_maint_name"`
	AuthorMaintainerEmail string `mapstructure:"author_maint_email"`
	LicenseIdentifier     string `mapstructure:"license"`
	URL                   string `mapstructure:"url"`
	StartYear             int    `mapstructure:"start_year"`
	NonCompliantName      bool   `mapstructure:"non_compliant_name"`
	EnableDebugLogging    bool   `mapstructure:"debug"`
}

// DefaultCommandConfiguration returns baseline configuration values for the
// technical review.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		AuthorMaintainerName:  defaultAuthorMaintainerNameConstant,
		AuthorMaintainerEmail: defaultAuthorMaintainerEmailConstant,
		LicenseIdentifier:     defaultLicenseIdentifierConstant,
		URL:                   defaultDocumentationURLConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the tech-review
// command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationProductKeyConstant:      defaults.Product,
		rootKey + configurationKeySeparatorConstant + configurationAuthorNameKeyConstant:   defaults.AuthorMaintainerName,
		rootKey + configurationKeySeparatorConstant + configurationAuthorEmailKeyConstant:  defaults.AuthorMaintainerEmail,
		rootKey + configurationKeySeparatorConstant + configurationLicenseKeyConstant:      defaults.LicenseIdentifier,
		rootKey + configurationKeySeparatorConstant + configurationURLKeyConstant:          defaults.URL,
		rootKey + configurationKeySeparatorConstant + configurationStartYearKeyConstant:    defaults.StartYear,
		rootKey + configurationKeySeparatorConstant + configurationNonCompliantKeyConstant: defaults.NonCompliantName,
		rootKey + configurationKeySeparatorConstant + configurationDebugLoggingKeyConstant: defaults.EnableDebugLogging,
	}
}

// Sanitize trims configured values and restores defaults for empty entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Product = strings.TrimSpace(configuration.Product)
	sanitized.AuthorMaintainerName = fallbackWhenBlank(configuration.AuthorMaintainerName, defaultAuthorMaintainerNameConstant)
	sanitized.AuthorMaintainerEmail = fallbackWhenBlank(configuration.AuthorMaintainerEmail, defaultAuthorMaintainerEmailConstant)
	sanitized.LicenseIdentifier = fallbackWhenBlank(configuration.LicenseIdentifier, defaultLicenseIdentifierConstant)
	sanitized.URL = fallbackWhenBlank(configuration.URL, defaultDocumentationURLConstant)
	return sanitized
}

func fallbackWhenBlank(candidateValue string, fallbackValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return fallbackValue
	}
	return trimmedValue
}
