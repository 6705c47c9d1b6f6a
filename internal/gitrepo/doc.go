// Package gitrepo contains helpers for interrogating Git repositories.
//
// It exposes RootResolver for locating the repository top-level directory,
// which both hook commands use to anchor their filesystem operations.
package gitrepo
