package internal

import (
	"os"
)

// OsProxy defines the subset of os package functions the uploader touches.
// Add more methods as you need them.
type OsProxy interface {
	Stat(name string) (os.FileInfo, error)
	Open(name string) (*os.File, error)
	Create(name string) (*os.File, error)
	MkdirTemp(dir, pattern string) (string, error)
	RemoveAll(path string) error
}

// RealOS is the default implementation that delegates to the real os package.
type RealOS struct{}

func (RealOS) Stat(name string) (os.FileInfo, error)         { return os.Stat(name) }              //nolint:revive
func (RealOS) Open(name string) (*os.File, error)            { return os.Open(name) }              //nolint:revive
func (RealOS) Create(name string) (*os.File, error)          { return os.Create(name) }            //nolint:revive
func (RealOS) MkdirTemp(dir, pattern string) (string, error) { return os.MkdirTemp(dir, pattern) } //nolint:revive
func (RealOS) RemoveAll(path string) error                   { return os.RemoveAll(path) }         //nolint:revive
