package licenseheader

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed assets/ansys.tmpl
var embeddedDefaultTemplateContent string

//go:embed assets/MIT.txt
var embeddedMITLicenseContent string

const (
	reuseDirectoryNameConstant          = ".reuse"
	templatesDirectoryNameConstant      = "templates"
	licensesDirectoryNameConstant       = "LICENSES"
	templateFileExtensionConstant       = ".tmpl"
	licenseFileExtensionConstant        = ".txt"
	defaultTemplateNameConstant         = "ansys"
	defaultLicenseIdentifierConstant    = "MIT"
	assetDirectoryPermissions           = os.FileMode(0o755)
	templateNotFoundTemplateConstant    = "%w: %s"
	templateParseErrorTemplateConstant  = "unable to parse template %s: %w"
	templateRenderErrorTemplateConstant = "unable to render template %s: %w"
	assetWriteErrorTemplateConstant     = "unable to materialize %s: %w"
	assetRemoveErrorTemplateConstant    = "unable to clean up %s: %w"
)

// ErrTemplateNotFound indicates that neither the repository nor the embedded
// defaults provide the requested header template.
var ErrTemplateNotFound = errors.New("license header template not found")

// AssetObserver receives a notification whenever a default asset is written
// into the repository.
type AssetObserver interface {
	ItemCreated(itemPath string)
}

// AssetManager materializes the default header template and license text into
// the repository before reconciliation and removes them afterwards when they
// were never customized.
type AssetManager struct {
	repositoryRoot string
	observer       AssetObserver
}

// NewAssetManager constructs an asset manager rooted at the repository top
// level. The observer may be nil.
func NewAssetManager(repositoryRoot string, observer AssetObserver) *AssetManager {
	return &AssetManager{repositoryRoot: repositoryRoot, observer: observer}
}

func (manager *AssetManager) templatePath(templateName string) string {
	return filepath.Join(manager.repositoryRoot, reuseDirectoryNameConstant, templatesDirectoryNameConstant, templateName+templateFileExtensionConstant)
}

func (manager *AssetManager) licensePath(licenseIdentifier string) string {
	return filepath.Join(manager.repositoryRoot, licensesDirectoryNameConstant, licenseIdentifier+licenseFileExtensionConstant)
}

func embeddedTemplateContent(templateName string) (string, bool) {
	if templateName == defaultTemplateNameConstant {
		return embeddedDefaultTemplateContent, true
	}
	return "", false
}

func embeddedLicenseContent(licenseIdentifier string) (string, bool) {
	if licenseIdentifier == defaultLicenseIdentifierConstant {
		return embeddedMITLicenseContent, true
	}
	return "", false
}

// Materialize writes the default template and license text into the
// repository when no repository-provided versions exist.
func (manager *AssetManager) Materialize(specification HeaderSpecification) error {
	templateContent, templateKnown := embeddedTemplateContent(specification.TemplateName)
	if templateKnown {
		if materializeError := manager.materializeAsset(manager.templatePath(specification.TemplateName), templateContent); materializeError != nil {
			return materializeError
		}
	}

	licenseContent, licenseKnown := embeddedLicenseContent(specification.LicenseIdentifier)
	if licenseKnown {
		if materializeError := manager.materializeAsset(manager.licensePath(specification.LicenseIdentifier), licenseContent); materializeError != nil {
			return materializeError
		}
	}
	return nil
}

func (manager *AssetManager) materializeAsset(assetPath string, assetContent string) error {
	if _, statError := os.Stat(assetPath); statError == nil {
		return nil
	}
	if directoryError := os.MkdirAll(filepath.Dir(assetPath), assetDirectoryPermissions); directoryError != nil {
		return fmt.Errorf(assetWriteErrorTemplateConstant, assetPath, directoryError)
	}
	if writeError := os.WriteFile(assetPath, []byte(assetContent), defaultFilePermissions); writeError != nil {
		return fmt.Errorf(assetWriteErrorTemplateConstant, assetPath, writeError)
	}
	if manager.observer != nil {
		manager.observer.ItemCreated(assetPath)
	}
	return nil
}

// Cleanup removes materialized assets that remained byte-identical to the
// embedded defaults, then removes their directories when they became empty.
// Customized assets stay untouched.
func (manager *AssetManager) Cleanup(specification HeaderSpecification) error {
	templateContent, templateKnown := embeddedTemplateContent(specification.TemplateName)
	if templateKnown {
		if cleanupError := manager.cleanupAsset(manager.templatePath(specification.TemplateName), templateContent); cleanupError != nil {
			return cleanupError
		}
	}

	licenseContent, licenseKnown := embeddedLicenseContent(specification.LicenseIdentifier)
	if licenseKnown {
		if cleanupError := manager.cleanupAsset(manager.licensePath(specification.LicenseIdentifier), licenseContent); cleanupError != nil {
			return cleanupError
		}
	}

	removeDirectoryWhenEmpty(filepath.Join(manager.repositoryRoot, reuseDirectoryNameConstant, templatesDirectoryNameConstant))
	removeDirectoryWhenEmpty(filepath.Join(manager.repositoryRoot, reuseDirectoryNameConstant))
	removeDirectoryWhenEmpty(filepath.Join(manager.repositoryRoot, licensesDirectoryNameConstant))
	return nil
}

func (manager *AssetManager) cleanupAsset(assetPath string, defaultContent string) error {
	currentContent, readError := os.ReadFile(assetPath)
	if readError != nil {
		return nil
	}
	if !bytes.Equal(currentContent, []byte(defaultContent)) {
		return nil
	}
	if removeError := os.Remove(assetPath); removeError != nil {
		return fmt.Errorf(assetRemoveErrorTemplateConstant, assetPath, removeError)
	}
	return nil
}

func removeDirectoryWhenEmpty(directoryPath string) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil || len(directoryEntries) > 0 {
		return
	}
	_ = os.Remove(directoryPath)
}

type headerTemplateData struct {
	YearRange          string
	CopyrightPhrase    string
	LicenseIdentifier  string
	LicenseText        string
	IgnoreLicenseCheck bool
}

// RenderTemplate resolves the header template, preferring a repository
// customized version over the embedded default, and renders it with the
// specification values.
func (manager *AssetManager) RenderTemplate(specification HeaderSpecification) (string, error) {
	templateContent, resolveError := manager.resolveTemplateContent(specification.TemplateName)
	if resolveError != nil {
		return "", resolveError
	}

	parsedTemplate, parseError := template.New(specification.TemplateName).Parse(templateContent)
	if parseError != nil {
		return "", fmt.Errorf(templateParseErrorTemplateConstant, specification.TemplateName, parseError)
	}

	templateData := headerTemplateData{
		YearRange:          specification.YearRange(),
		CopyrightPhrase:    specification.CopyrightPhrase,
		LicenseIdentifier:  specification.LicenseIdentifier,
		LicenseText:        manager.licenseText(specification.LicenseIdentifier),
		IgnoreLicenseCheck: specification.IgnoreLicenseCheck,
	}

	renderedBuffer := &bytes.Buffer{}
	if renderError := parsedTemplate.Execute(renderedBuffer, templateData); renderError != nil {
		return "", fmt.Errorf(templateRenderErrorTemplateConstant, specification.TemplateName, renderError)
	}
	return renderedBuffer.String(), nil
}

func (manager *AssetManager) resolveTemplateContent(templateName string) (string, error) {
	repositoryTemplateContent, readError := os.ReadFile(manager.templatePath(templateName))
	if readError == nil {
		return string(repositoryTemplateContent), nil
	}
	if embeddedContent, embeddedKnown := embeddedTemplateContent(templateName); embeddedKnown {
		return embeddedContent, nil
	}
	return "", fmt.Errorf(templateNotFoundTemplateConstant, ErrTemplateNotFound, templateName)
}

func (manager *AssetManager) licenseText(licenseIdentifier string) string {
	repositoryLicenseContent, readError := os.ReadFile(manager.licensePath(licenseIdentifier))
	if readError == nil {
		return string(repositoryLicenseContent)
	}
	if embeddedContent, embeddedKnown := embeddedLicenseContent(licenseIdentifier); embeddedKnown {
		return embeddedContent
	}
	return ""
}
