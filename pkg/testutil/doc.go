// Package testutil provides helpers for building source trees in tests.
//
// Two flavors are offered:
//   - On-disk helpers (CreateFile, CreateSymlink, AssertSymlink, ...) for
//     tests that need real symlinks, using t.TempDir for isolation.
//   - afero helpers (NewMemFS, WriteTree, Snapshot) for fast in-memory
//     trees when the code under test accepts an afero.Fs.
//
// All test data should be defined inline, not in external files.
package testutil
