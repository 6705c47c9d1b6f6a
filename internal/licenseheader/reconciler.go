package licenseheader

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	copyrightLinePatternConstant       = `Copyright \(C\) (\d{4})(?:\s*-\s*(\d{4}))?\s+(.+)$`
	copyrightYearSpanPatternConstant   = `(Copyright \(C\) )(\d{4})(\s*-\s*\d{4})?`
	spdxTokenConstant                  = "SPDX-License-Identifier:"
	shebangPrefixConstant              = "#!"
	leadingBlockLineLimitConstant      = 64
	newlineConstant                    = "\n"
	fileReadErrorTemplateConstant      = "unable to read %s: %w"
	fileWriteErrorTemplateConstant     = "unable to write %s: %w"
	verdictComputedMessageConstant     = "compliance verdict computed"
	headerRepairedMessageConstant      = "header repaired"
	logFieldFilePathConstant           = "file_path"
	logFieldVerdictConstant            = "verdict"
	defaultFilePermissions             = os.FileMode(0o644)
)

var (
	copyrightLinePattern     = regexp.MustCompile(copyrightLinePatternConstant)
	copyrightYearSpanPattern = regexp.MustCompile(copyrightYearSpanPatternConstant)
)

// HeaderReconciler is the native ComplianceTool implementation.
//
// It inspects the leading comment block of each file, inserts condensed
// headers where they are missing, and rewrites stale copyright year spans in
// place without touching any other byte of the file.
type HeaderReconciler struct {
	logger *zap.Logger
	assets *AssetManager
}

// NewHeaderReconciler constructs a reconciler with the provided collaborators.
func NewHeaderReconciler(logger *zap.Logger, assets *AssetManager) *HeaderReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeaderReconciler{logger: logger, assets: assets}
}

type headerAnalysis struct {
	lines              []string
	hasShebang         bool
	copyrightLineIndex int
	copyrightFound     bool
	existingStartYear  int
	existingEndYear    int
	phrase             string
	licenseFound       bool
}

// Check reports the compliance verdict for the file without modifying it.
func (reconciler *HeaderReconciler) Check(executionContext context.Context, filePath string, specification HeaderSpecification) (Verdict, error) {
	style, styleKnown := LookupCommentStyle(filePath)
	if !styleKnown {
		return VerdictUnrecognizedType, nil
	}

	fileContent, readError := os.ReadFile(filePath)
	if readError != nil {
		return VerdictUnrecognizedType, fmt.Errorf(fileReadErrorTemplateConstant, filePath, readError)
	}

	verdict := reconciler.computeVerdict(fileContent, style, specification)
	reconciler.logger.Debug(
		verdictComputedMessageConstant,
		zap.String(logFieldFilePathConstant, filePath),
		zap.String(logFieldVerdictConstant, verdict.String()),
	)
	return verdict, nil
}

// Fix brings the file into compliance and reports whether its content changed.
func (reconciler *HeaderReconciler) Fix(executionContext context.Context, filePath string, specification HeaderSpecification) (bool, error) {
	style, styleKnown := LookupCommentStyle(filePath)
	if !styleKnown {
		return false, nil
	}

	fileContent, readError := os.ReadFile(filePath)
	if readError != nil {
		return false, fmt.Errorf(fileReadErrorTemplateConstant, filePath, readError)
	}

	var updatedContent []byte
	if len(fileContent) == 0 {
		fullHeader, renderError := reconciler.renderFullHeader(style, specification)
		if renderError != nil {
			return false, renderError
		}
		updatedContent = []byte(fullHeader)
	} else {
		updatedContent = reconciler.reconcileContent(fileContent, style, specification)
	}

	if string(updatedContent) == string(fileContent) {
		return false, nil
	}

	filePermissions := defaultFilePermissions
	if fileInfo, statError := os.Stat(filePath); statError == nil {
		filePermissions = fileInfo.Mode().Perm()
	}

	if writeError := os.WriteFile(filePath, updatedContent, filePermissions); writeError != nil {
		return false, fmt.Errorf(fileWriteErrorTemplateConstant, filePath, writeError)
	}

	reconciler.logger.Debug(headerRepairedMessageConstant, zap.String(logFieldFilePathConstant, filePath))
	return true, nil
}

func (reconciler *HeaderReconciler) computeVerdict(fileContent []byte, style CommentStyle, specification HeaderSpecification) Verdict {
	if len(fileContent) == 0 {
		return VerdictMissingHeader
	}

	analysis := analyzeLeadingBlock(fileContent, style, specification)
	if !analysis.copyrightFound {
		return VerdictMissingHeader
	}
	if !specification.IgnoreLicenseCheck && !analysis.licenseFound {
		return VerdictMissingHeader
	}
	if analysis.existingEndYear < specification.CurrentYear {
		return VerdictOutdatedHeader
	}
	return VerdictCompliant
}

func (reconciler *HeaderReconciler) reconcileContent(fileContent []byte, style CommentStyle, specification HeaderSpecification) []byte {
	analysis := analyzeLeadingBlock(fileContent, style, specification)

	if !analysis.copyrightFound {
		return reconciler.prependCondensedHeader(analysis, style, specification)
	}

	lines := append([]string{}, analysis.lines...)
	if analysis.existingEndYear < specification.CurrentYear {
		lines[analysis.copyrightLineIndex] = refreshYearSpan(lines[analysis.copyrightLineIndex], analysis.existingStartYear, specification.CurrentYear)
	}
	if !specification.IgnoreLicenseCheck && !analysis.licenseFound {
		lines = insertLicenseLine(lines, analysis.copyrightLineIndex, style, specification)
	}
	return []byte(strings.Join(lines, newlineConstant))
}

func (reconciler *HeaderReconciler) prependCondensedHeader(analysis headerAnalysis, style CommentStyle, specification HeaderSpecification) []byte {
	headerLines := condensedHeaderLines(style, specification)

	var assembledLines []string
	bodyLines := analysis.lines
	if analysis.hasShebang {
		assembledLines = append(assembledLines, bodyLines[0])
		bodyLines = bodyLines[1:]
	}
	assembledLines = append(assembledLines, headerLines...)
	assembledLines = append(assembledLines, "")
	assembledLines = append(assembledLines, bodyLines...)

	return []byte(strings.Join(assembledLines, newlineConstant))
}

func (reconciler *HeaderReconciler) renderFullHeader(style CommentStyle, specification HeaderSpecification) (string, error) {
	renderedTemplate, renderError := reconciler.assets.RenderTemplate(specification)
	if renderError != nil {
		return "", renderError
	}

	templateLines := strings.Split(strings.TrimRight(renderedTemplate, newlineConstant), newlineConstant)
	commentedLines := commentLines(templateLines, style)
	return strings.Join(commentedLines, newlineConstant) + newlineConstant, nil
}

func condensedHeaderLines(style CommentStyle, specification HeaderSpecification) []string {
	bareLines := []string{
		fmt.Sprintf("Copyright (C) %s %s", specification.YearRange(), specification.CopyrightPhrase),
	}
	if !specification.IgnoreLicenseCheck {
		bareLines = append(bareLines, fmt.Sprintf("%s %s", spdxTokenConstant, specification.LicenseIdentifier))
	}
	return commentLines(bareLines, style)
}

func commentLines(bareLines []string, style CommentStyle) []string {
	if style.IsBlock() {
		commented := make([]string, 0, len(bareLines)+2)
		commented = append(commented, style.BlockStart)
		commented = append(commented, bareLines...)
		commented = append(commented, style.BlockEnd)
		return commented
	}

	commented := make([]string, 0, len(bareLines))
	for _, bareLine := range bareLines {
		if len(bareLine) == 0 {
			commented = append(commented, style.LinePrefix)
			continue
		}
		commented = append(commented, style.LinePrefix+" "+bareLine)
	}
	return commented
}

func insertLicenseLine(lines []string, copyrightLineIndex int, style CommentStyle, specification HeaderSpecification) []string {
	licenseLine := fmt.Sprintf("%s %s", spdxTokenConstant, specification.LicenseIdentifier)
	if !style.IsBlock() {
		licenseLine = style.LinePrefix + " " + licenseLine
	}

	updatedLines := make([]string, 0, len(lines)+1)
	updatedLines = append(updatedLines, lines[:copyrightLineIndex+1]...)
	updatedLines = append(updatedLines, licenseLine)
	updatedLines = append(updatedLines, lines[copyrightLineIndex+1:]...)
	return updatedLines
}

func refreshYearSpan(copyrightLine string, existingStartYear int, currentYear int) string {
	replacementSpan := fmt.Sprintf("%d - %d", existingStartYear, currentYear)
	if existingStartYear == currentYear {
		replacementSpan = strconv.Itoa(currentYear)
	}
	return copyrightYearSpanPattern.ReplaceAllString(copyrightLine, "${1}"+replacementSpan)
}

func analyzeLeadingBlock(fileContent []byte, style CommentStyle, specification HeaderSpecification) headerAnalysis {
	analysis := headerAnalysis{lines: strings.Split(string(fileContent), newlineConstant)}

	blockLines, blockStartIndex := leadingBlock(analysis.lines, style)
	analysis.hasShebang = blockStartIndex > 0

	for lineOffset, blockLine := range blockLines {
		strippedLine := stripCommentMarkers(blockLine, style)

		if strings.Contains(strippedLine, spdxTokenConstant) {
			analysis.licenseFound = true
		}

		if analysis.copyrightFound {
			continue
		}
		lineMatch := copyrightLinePattern.FindStringSubmatch(strippedLine)
		if lineMatch == nil {
			continue
		}
		if lineMatch[3] != specification.CopyrightPhrase {
			continue
		}

		analysis.copyrightFound = true
		analysis.copyrightLineIndex = blockStartIndex + lineOffset
		analysis.phrase = lineMatch[3]
		analysis.existingStartYear, _ = strconv.Atoi(lineMatch[1])
		analysis.existingEndYear = analysis.existingStartYear
		if len(lineMatch[2]) > 0 {
			analysis.existingEndYear, _ = strconv.Atoi(lineMatch[2])
		}
	}

	return analysis
}

// leadingBlock returns the comment lines at the top of the file and the index
// of the first one, skipping a shebang line when present.
func leadingBlock(lines []string, style CommentStyle) ([]string, int) {
	startIndex := 0
	if len(lines) > 0 && strings.HasPrefix(lines[0], shebangPrefixConstant) {
		startIndex = 1
	}
	if startIndex >= len(lines) {
		return nil, startIndex
	}

	if style.IsBlock() {
		if strings.TrimSpace(lines[startIndex]) != style.BlockStart {
			return nil, startIndex
		}
		for lineIndex := startIndex; lineIndex < len(lines) && lineIndex-startIndex < leadingBlockLineLimitConstant; lineIndex++ {
			if strings.TrimSpace(lines[lineIndex]) == style.BlockEnd {
				return lines[startIndex : lineIndex+1], startIndex
			}
		}
		return nil, startIndex
	}

	endIndex := startIndex
	for endIndex < len(lines) && endIndex-startIndex < leadingBlockLineLimitConstant {
		if !strings.HasPrefix(strings.TrimSpace(lines[endIndex]), style.LinePrefix) {
			break
		}
		endIndex++
	}
	return lines[startIndex:endIndex], startIndex
}

func stripCommentMarkers(line string, style CommentStyle) string {
	trimmedLine := strings.TrimSpace(line)
	if style.IsBlock() {
		trimmedLine = strings.TrimPrefix(trimmedLine, style.BlockStart)
		trimmedLine = strings.TrimSuffix(trimmedLine, style.BlockEnd)
		return strings.TrimSpace(trimmedLine)
	}
	trimmedLine = strings.TrimPrefix(trimmedLine, style.LinePrefix)
	return strings.TrimSpace(trimmedLine)
}
