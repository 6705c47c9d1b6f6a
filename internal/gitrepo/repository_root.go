package gitrepo

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/ansys/pre-commit-hooks/internal/execshell"
)

const (
	gitRevParseSubcommandConstant        = "rev-parse"
	gitShowToplevelFlagConstant          = "--show-toplevel"
	executorNotConfiguredMessageConstant = "git executor not configured"
	emptyRepositoryRootMessageConstant   = "git did not report a repository root"
)

// Sentinel errors reported while resolving repository roots.
var (
	ErrExecutorNotConfigured  = errors.New(executorNotConfiguredMessageConstant)
	ErrRepositoryRootNotFound = errors.New(emptyRepositoryRootMessageConstant)
)

// GitExecutor runs git commands on behalf of the resolver.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RootResolver locates the top-level directory of the Git repository containing a path.
type RootResolver struct {
	executor GitExecutor
}

// NewRootResolver constructs a RootResolver around the provided executor.
func NewRootResolver(executor GitExecutor) (*RootResolver, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RootResolver{executor: executor}, nil
}

// ResolveRoot returns the absolute repository root for the provided working directory.
func (resolver *RootResolver) ResolveRoot(executionContext context.Context, workingDirectory string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitShowToplevelFlagConstant},
		WorkingDirectory: workingDirectory,
	}

	executionResult, executionError := resolver.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return "", executionError
	}

	repositoryRoot := strings.TrimSpace(executionResult.StandardOutput)
	if len(repositoryRoot) == 0 {
		return "", ErrRepositoryRootNotFound
	}

	return filepath.FromSlash(repositoryRoot), nil
}
