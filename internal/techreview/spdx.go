package techreview

import (
	_ "embed"
	"encoding/json"
	"sync"
)

//go:embed assets/licenses.json
var embeddedLicenseCatalog []byte

var (
	licenseCatalogOnce sync.Once
	licenseCatalog     map[string]string
)

// LicenseFullName resolves an SPDX license identifier to the license's full
// name from the bundled SPDX catalog.
func LicenseFullName(licenseIdentifier string) (string, bool) {
	licenseCatalogOnce.Do(func() {
		licenseCatalog = map[string]string{}
		_ = json.Unmarshal(embeddedLicenseCatalog, &licenseCatalog)
	})

	licenseFullName, licenseKnown := licenseCatalog[licenseIdentifier]
	return licenseFullName, licenseKnown
}
