// Package paths computes relative paths between files of a relocated tree.
//
// Absolute paths captured from different deployments of the same tree only
// agree below a well-known root segment, the root marker (for example
// "/scec"). Every computation first strips everything before the marker's
// first occurrence, which places both paths on one virtual root, and then
// works lexically: no filesystem access happens in this package.
//
// # Expressions
//
// Relativize renders the result the way the migrated PHP sources expect it:
// a "directory of the current file" expression followed by the relative
// remainder as a string concatenation:
//
//	r, _ := paths.New("/scec", "dirname(__FILE__)")
//	expr, _ := r.Relativize("/proj/scec/app/page.php", `"/info/vh/scec/lib/util.php"`)
//	// expr == `dirname(__FILE__)."/../lib/util.php"`
//
// With an empty directory expression the plain quoted relative path is
// returned instead.
//
// # Errors
//
// A path that does not contain the marker cannot be placed on the virtual
// root. Such paths fail with errors.ErrMarkerMissing and the error names the
// offending path.
package paths
