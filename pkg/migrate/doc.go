// Package migrate rewrites a whole source tree in place.
//
// A run walks the tree, copies it to a sibling backup directory (root plus
// ".bak" by default) and then rewrites every matching source file with a
// rewrite.Rewriter. Files are processed one at a time in lexical order.
//
// The backup is all-or-nothing: if it cannot be completed the run stops
// before a single file is edited. After that point failures are per file:
// the failed file is left as it was, the error is recorded in its
// FileResult and the batch moves on unless FailFast is set. Result.Err
// turns a batch with failures into an errors.ErrPartialFailure error.
//
// Symlinks inside the tree are never followed or rewritten; the backup
// recreates them as symlinks.
package migrate
