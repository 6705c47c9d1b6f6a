package pathutils

import (
	"path/filepath"
	"runtime"
	"strings"
)

// FilePathSanitizer normalizes file path arguments handed to the hooks by pre-commit.
type FilePathSanitizer struct {
	homeExpander *HomeExpander
}

// NewFilePathSanitizer constructs a FilePathSanitizer with default home directory lookup.
func NewFilePathSanitizer() *FilePathSanitizer {
	return NewFilePathSanitizerWithExpander(nil)
}

// NewFilePathSanitizerWithExpander constructs a FilePathSanitizer using the provided expander.
func NewFilePathSanitizerWithExpander(homeExpander *HomeExpander) *FilePathSanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}

	return &FilePathSanitizer{homeExpander: resolvedExpander}
}

// Sanitize trims whitespace, expands the user's home directory, and removes empty and duplicate entries while preserving order.
func (sanitizer *FilePathSanitizer) Sanitize(candidatePaths []string) []string {
	resolvedExpander := NewHomeExpander()
	if sanitizer != nil && sanitizer.homeExpander != nil {
		resolvedExpander = sanitizer.homeExpander
	}

	sanitizedPaths := make([]string, 0, len(candidatePaths))
	seenPaths := make(map[string]struct{}, len(candidatePaths))
	for candidateIndex := range candidatePaths {
		trimmedCandidate := strings.TrimSpace(candidatePaths[candidateIndex])
		if len(trimmedCandidate) == 0 {
			continue
		}

		expandedPath := resolvedExpander.Expand(trimmedCandidate)
		if len(expandedPath) == 0 {
			continue
		}

		comparisonKey := comparisonPath(expandedPath)
		if _, alreadySeen := seenPaths[comparisonKey]; alreadySeen {
			continue
		}

		seenPaths[comparisonKey] = struct{}{}
		sanitizedPaths = append(sanitizedPaths, expandedPath)
	}

	if len(sanitizedPaths) == 0 {
		return nil
	}

	return sanitizedPaths
}

func comparisonPath(path string) string {
	comparison := filepath.Clean(path)
	if runtime.GOOS == "windows" {
		comparison = strings.ToLower(comparison)
	}
	return comparison
}
