package techreview

const (
	githubDirectoryNameConstant    = ".github"
	docDirectoryNameConstant       = "doc"
	srcDirectoryNameConstant       = "src"
	testsDirectoryNameConstant     = "tests"
	gitkeepFileNameConstant        = ".gitkeep"
	authorsFileNameConstant        = "AUTHORS.md"
	codeOfConductFileNameConstant  = "CODE_OF_CONDUCT.md"
	contributingFileNameConstant   = "CONTRIBUTING.md"
	contributorsFileNameConstant   = "CONTRIBUTORS.md"
	licenseChecklistFileConstant   = "LICENSE"
	readmeRstFileNameConstant      = "README.rst"
	readmeMarkdownFileNameConstant = "README.md"
	dependabotFileNameConstant     = "dependabot.yml"
)

// RequiredDirectories lists the directories every reviewed repository must
// contain, in creation order.
func RequiredDirectories() []string {
	return []string{
		githubDirectoryNameConstant,
		docDirectoryNameConstant,
		srcDirectoryNameConstant,
		testsDirectoryNameConstant,
	}
}

// RequiredFiles lists the root-level files every reviewed repository must
// contain. README.rst is satisfied by README.md as well; dependabot.yml lives
// under .github/.
func RequiredFiles() []string {
	return []string{
		authorsFileNameConstant,
		codeOfConductFileNameConstant,
		contributingFileNameConstant,
		contributorsFileNameConstant,
		licenseChecklistFileConstant,
		readmeRstFileNameConstant,
	}
}
