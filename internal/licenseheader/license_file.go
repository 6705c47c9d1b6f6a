package licenseheader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

const (
	licenseFileNameConstant             = "LICENSE"
	licenseYearSpanPatternConstant      = `(Copyright \([cC]\) )(\d{4})(\s*-\s*(\d{4}))?`
	licenseRefreshErrorTemplateConstant = "unable to refresh %s: %w"
)

var licenseYearSpanPattern = regexp.MustCompile(licenseYearSpanPatternConstant)

// LicenseFileRefresher keeps the copyright year span of the repository
// LICENSE file aligned with the current year.
type LicenseFileRefresher struct {
	repositoryRoot string
}

// NewLicenseFileRefresher constructs a refresher rooted at the repository top
// level.
func NewLicenseFileRefresher(repositoryRoot string) *LicenseFileRefresher {
	return &LicenseFileRefresher{repositoryRoot: repositoryRoot}
}

// Refresh rewrites a stale end year in the LICENSE copyright line and reports
// whether the file changed. A missing LICENSE file is not an error.
func (refresher *LicenseFileRefresher) Refresh(currentYear int) (bool, error) {
	licenseFilePath := filepath.Join(refresher.repositoryRoot, licenseFileNameConstant)
	licenseContent, readError := os.ReadFile(licenseFilePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return false, nil
		}
		return false, fmt.Errorf(licenseRefreshErrorTemplateConstant, licenseFilePath, readError)
	}

	updatedContent := licenseYearSpanPattern.ReplaceAllFunc(licenseContent, func(matchedSpan []byte) []byte {
		spanParts := licenseYearSpanPattern.FindSubmatch(matchedSpan)
		startYear, _ := strconv.Atoi(string(spanParts[2]))
		endYear := startYear
		if len(spanParts[4]) > 0 {
			endYear, _ = strconv.Atoi(string(spanParts[4]))
		}
		if endYear >= currentYear {
			return matchedSpan
		}
		replacementSpan := fmt.Sprintf("%d - %d", startYear, currentYear)
		if startYear == currentYear {
			replacementSpan = strconv.Itoa(currentYear)
		}
		return append(append([]byte{}, spanParts[1]...), []byte(replacementSpan)...)
	})

	if string(updatedContent) == string(licenseContent) {
		return false, nil
	}

	filePermissions := defaultFilePermissions
	if fileInfo, statError := os.Stat(licenseFilePath); statError == nil {
		filePermissions = fileInfo.Mode().Perm()
	}
	if writeError := os.WriteFile(licenseFilePath, updatedContent, filePermissions); writeError != nil {
		return false, fmt.Errorf(licenseRefreshErrorTemplateConstant, licenseFilePath, writeError)
	}
	return true, nil
}
