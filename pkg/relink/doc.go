// Package relink repairs absolute symlinks that broke when a tree moved.
//
// A link such as
//
//	/new/home/scec/app/link -> /old/home/scec/lib/target.txt
//
// is rewritten to point at the same file relative to the link itself:
//
//	/new/home/scec/app/link -> ../lib/target.txt
//
// Both the link path and its target are first reduced to the part starting
// at the root marker, so the old and new deployment roots never have to
// agree. Targets that are already relative are left alone, including
// relative targets that happen to contain the root marker such as
// ../../scec/lib/x: they are assumed to have been repaired already.
// Targets are never unquoted; a quote in a target is part of a file name.
//
// The links to repair come either from a list file (one path per line) or
// from Scan, which finds dangling absolute links under a directory.
package relink
