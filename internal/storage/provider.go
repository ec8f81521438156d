// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/raido/internal/models"

// Provider is the capability set Raido needs from a note vault. All
// paths are relative to the vault root.
type Provider interface {
	// List returns path and mtime for every .md file under dir
	// (empty dir means the whole vault).
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating it if needed.
	Write(path string, content []byte) error
	// Create writes a new file; fails with apperr.ErrAlreadyExists when
	// path is already taken.
	Create(path string, content []byte) error
	// Exists reports whether a file exists at path.
	Exists(path string) bool
	// ListFolder returns the paths of files directly inside folder.
	ListFolder(folder string) ([]string, error)
}
