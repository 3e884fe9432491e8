// Package filesystem holds the afero helpers shared by the migrate and
// relink packages.
//
// afero only exposes symlinks through optional interfaces (afero.Lstater,
// afero.LinkReader, afero.Linker). The helpers here check for them and
// fail with errors.ErrUnsupported when a backend lacks the capability, so
// callers can run against afero.NewOsFs in production and
// afero.NewMemMapFs in tests.
package filesystem
