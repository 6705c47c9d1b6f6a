// Package techreview implements the tech-review hook. It audits a repository
// against the technical review checklist: packaging metadata conventions,
// required directories and files, and the content of CONTRIBUTORS.md and
// LICENSE. Missing structure is scaffolded from bundled templates so the run
// fails once and passes after review.
package techreview
