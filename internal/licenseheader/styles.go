package licenseheader

import (
	"path/filepath"
	"strings"
)

const (
	hashLinePrefixConstant        = "#"
	slashLinePrefixConstant       = "//"
	restLinePrefixConstant        = ".."
	htmlBlockStartConstant        = "<!--"
	htmlBlockEndConstant          = "-->"
	cssBlockStartConstant         = "/*"
	cssBlockEndConstant           = "*/"
	dockerfileBaseNameConstant    = "Dockerfile"
	makefileBaseNameConstant      = "Makefile"
)

// CommentStyle describes how header lines are commented for a file type.
//
// Line styles set LinePrefix and prefix every header line. Block styles wrap
// bare header lines between BlockStart and BlockEnd markers.
type CommentStyle struct {
	Name       string
	LinePrefix string
	BlockStart string
	BlockEnd   string
}

// IsBlock reports whether the style wraps headers in block comment markers.
func (style CommentStyle) IsBlock() bool {
	return len(style.BlockStart) > 0
}

var (
	hashCommentStyle  = CommentStyle{Name: "hash", LinePrefix: hashLinePrefixConstant}
	slashCommentStyle = CommentStyle{Name: "slash", LinePrefix: slashLinePrefixConstant}
	restCommentStyle  = CommentStyle{Name: "rest", LinePrefix: restLinePrefixConstant}
	htmlCommentStyle  = CommentStyle{Name: "html", BlockStart: htmlBlockStartConstant, BlockEnd: htmlBlockEndConstant}
	cssCommentStyle   = CommentStyle{Name: "css", BlockStart: cssBlockStartConstant, BlockEnd: cssBlockEndConstant}
)

var extensionCommentStyles = map[string]CommentStyle{
	".py":    hashCommentStyle,
	".pyi":   hashCommentStyle,
	".sh":    hashCommentStyle,
	".bash":  hashCommentStyle,
	".zsh":   hashCommentStyle,
	".yml":   hashCommentStyle,
	".yaml":  hashCommentStyle,
	".toml":  hashCommentStyle,
	".cfg":   hashCommentStyle,
	".ini":   hashCommentStyle,
	".rb":    hashCommentStyle,
	".pl":    hashCommentStyle,
	".ps1":   hashCommentStyle,
	".go":    slashCommentStyle,
	".c":     slashCommentStyle,
	".h":     slashCommentStyle,
	".cc":    slashCommentStyle,
	".cpp":   slashCommentStyle,
	".hpp":   slashCommentStyle,
	".cs":    slashCommentStyle,
	".java":  slashCommentStyle,
	".js":    slashCommentStyle,
	".jsx":   slashCommentStyle,
	".ts":    slashCommentStyle,
	".tsx":   slashCommentStyle,
	".rs":    slashCommentStyle,
	".swift": slashCommentStyle,
	".kt":    slashCommentStyle,
	".scala": slashCommentStyle,
	".proto": slashCommentStyle,
	".rst":   restCommentStyle,
	".html":  htmlCommentStyle,
	".htm":   htmlCommentStyle,
	".xml":   htmlCommentStyle,
	".md":    htmlCommentStyle,
	".css":   cssCommentStyle,
}

var baseNameCommentStyles = map[string]CommentStyle{
	dockerfileBaseNameConstant: hashCommentStyle,
	makefileBaseNameConstant:   hashCommentStyle,
}

// LookupCommentStyle resolves the comment style for a file path.
//
// The second return value is false for extensions without a known mapping;
// such files are skipped and reported rather than modified.
func LookupCommentStyle(filePath string) (CommentStyle, bool) {
	baseName := filepath.Base(filePath)
	if style, mapped := baseNameCommentStyles[baseName]; mapped {
		return style, true
	}

	extension := strings.ToLower(filepath.Ext(filePath))
	style, mapped := extensionCommentStyles[extension]
	return style, mapped
}
