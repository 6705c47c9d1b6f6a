package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ansys/pre-commit-hooks/internal/execshell"
	"github.com/ansys/pre-commit-hooks/internal/gitrepo"
)

const (
	resolvedRootOutputConstant      = "/home/developer/project\n"
	expectedRepositoryRootConstant  = "/home/developer/project"
	requestedWorkingDirectoryValue  = "/home/developer/project/src"
	executorFailureMessageConstant  = "not a git repository"
	missingExecutorCaseNameConstant = "missing_executor"
)

type stubGitExecutor struct {
	executionResult execshell.ExecutionResult
	executionError  error
	recordedDetails []execshell.CommandDetails
}

func (executor *stubGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	return executor.executionResult, executor.executionError
}

func TestNewRootResolverRequiresExecutor(testInstance *testing.T) {
	testInstance.Run(missingExecutorCaseNameConstant, func(testInstance *testing.T) {
		resolver, creationError := gitrepo.NewRootResolver(nil)
		require.Nil(testInstance, resolver)
		require.ErrorIs(testInstance, creationError, gitrepo.ErrExecutorNotConfigured)
	})
}

func TestResolveRootScenarios(testInstance *testing.T) {
	testCases := []struct {
		name            string
		executionResult execshell.ExecutionResult
		executionError  error
		expectedRoot    string
		expectedError   error
	}{
		{
			name:            "resolves_trimmed_root",
			executionResult: execshell.ExecutionResult{StandardOutput: resolvedRootOutputConstant},
			expectedRoot:    expectedRepositoryRootConstant,
		},
		{
			name:           "propagates_execution_failure",
			executionError: errors.New(executorFailureMessageConstant),
		},
		{
			name:            "rejects_empty_output",
			executionResult: execshell.ExecutionResult{StandardOutput: "   \n"},
			expectedError:   gitrepo.ErrRepositoryRootNotFound,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			stubExecutor := &stubGitExecutor{executionResult: testCase.executionResult, executionError: testCase.executionError}
			resolver, creationError := gitrepo.NewRootResolver(stubExecutor)
			require.NoError(testInstance, creationError)

			resolvedRoot, resolveError := resolver.ResolveRoot(context.Background(), requestedWorkingDirectoryValue)

			if testCase.executionError != nil {
				require.Error(testInstance, resolveError)
				require.Empty(testInstance, resolvedRoot)
				return
			}
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, resolveError, testCase.expectedError)
				return
			}

			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedRoot, resolvedRoot)
			require.Len(testInstance, stubExecutor.recordedDetails, 1)
			require.Equal(testInstance, []string{"rev-parse", "--show-toplevel"}, stubExecutor.recordedDetails[0].Arguments)
			require.Equal(testInstance, requestedWorkingDirectoryValue, stubExecutor.recordedDetails[0].WorkingDirectory)
		})
	}
}
