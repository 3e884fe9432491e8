package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/relocate/pkg/classify"
	"github.com/arthur-debert/relocate/pkg/errors"
	"github.com/arthur-debert/relocate/pkg/paths"
	"github.com/arthur-debert/relocate/pkg/rewrite"
	"github.com/arthur-debert/relocate/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anchor = "/info/vh/scec/eqcountry/shakeout/coreshow.php"

func newMigrator(t *testing.T, fs afero.Fs, opts ...Option) *Migrator {
	t.Helper()

	rel, err := paths.New("/scec", paths.DefaultDirExpression)
	require.NoError(t, err)
	rw, err := rewrite.New(rel, classify.New("", 0), rewrite.DefaultAbsolutePrefix, anchor)
	require.NoError(t, err)
	m, err := New(fs, rw, opts...)
	require.NoError(t, err)
	return m
}

func TestNew_Validation(t *testing.T) {
	rel, err := paths.New("/scec", "")
	require.NoError(t, err)
	rw, err := rewrite.New(rel, classify.New("", 0), "/info", anchor)
	require.NoError(t, err)

	_, err = New(nil, rw)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = New(afero.NewMemMapFs(), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = New(afero.NewMemMapFs(), rw, WithExtensions())
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = New(afero.NewMemMapFs(), rw, WithBackupSuffix(""))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDiscover(t *testing.T) {
	fs := testutil.NewMemFS(t)
	testutil.WriteTree(t, fs, "/proj/scec", map[string]string{
		"b.php":          "",
		"a.php":          "",
		"lib/c.php":      "",
		"lib/notes.txt":  "",
		"lib/upper.PHP":  "",
		"static/d.inc":   "",
		"static/e.php.x": "",
	})

	m := newMigrator(t, fs)
	files, err := m.Discover("/proj/scec")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/proj/scec/a.php",
		"/proj/scec/b.php",
		"/proj/scec/lib/c.php",
	}, files)

	m = newMigrator(t, fs, WithExtensions("php", ".inc"))
	files, err = m.Discover("/proj/scec")
	require.NoError(t, err)
	assert.Contains(t, files, "/proj/scec/static/d.inc")
	assert.Len(t, files, 4)
}

func TestDiscover_MissingRoot(t *testing.T) {
	m := newMigrator(t, testutil.NewMemFS(t))
	_, err := m.Discover("/nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrWalk))
}

func TestBackupPath(t *testing.T) {
	m := newMigrator(t, testutil.NewMemFS(t))
	assert.Equal(t, "/proj/scec.bak", m.BackupPath("/proj/scec/"))

	m = newMigrator(t, testutil.NewMemFS(t), WithBackupSuffix(".orig"))
	assert.Equal(t, "/proj/scec.orig", m.BackupPath("/proj/scec"))

	dir := testutil.TempDir(t)
	testutil.Chdir(t, dir)
	m = newMigrator(t, testutil.NewMemFS(t))
	assert.Equal(t, dir+".bak", m.BackupPath("."))
	assert.Equal(t, filepath.Join(dir, "scec.bak"), m.BackupPath("scec"))
}

func TestRun_RegularFileScenario(t *testing.T) {
	fs := testutil.NewMemFS(t)
	testutil.WriteTree(t, fs, "/proj/scec/app", map[string]string{
		"page.php": `<?php include "/info/vh/scec/lib/util.php"; ?>`,
	})

	m := newMigrator(t, fs)
	result, err := m.Run(context.Background(), Options{Root: "/proj/scec/app"})
	require.NoError(t, err)
	require.NoError(t, result.Err())

	assert.Equal(t,
		`<?php include dirname(__FILE__)."/../lib/util.php"; ?>`,
		testutil.ReadFS(t, fs, "/proj/scec/app/page.php"))
	assert.Equal(t, "/proj/scec/app.bak", result.BackupDir)
	assert.Equal(t, 1, result.Migrated())
	assert.Equal(t, 1, result.Changed())
	assert.Equal(t, 0, result.Failed())
	assert.Equal(t, 1, result.Files[0].Replacements)
	assert.False(t, result.Files[0].Core)
}

func TestRun_CoreFileScenario(t *testing.T) {
	fs := testutil.NewMemFS(t)
	content := "<?php // loads coreshow.php\nchdir('/some/dir');\ninclude \"../../coreshow.php\";\ninclude \"../other.php\";\n"
	testutil.WriteTree(t, fs, "/proj/scec/app", map[string]string{"index.php": content})

	m := newMigrator(t, fs)
	result, err := m.Run(context.Background(), Options{Root: "/proj/scec/app"})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.True(t, result.Files[0].Core)

	want := "<?php // loads coreshow.php\n\ninclude dirname(__FILE__).\"/../eqcountry/shakeout/coreshow.php\";\ninclude \"../other.php\";\n"
	assert.Equal(t, want, testutil.ReadFS(t, fs, "/proj/scec/app/index.php"))
}

func TestRun_BackupIsIdenticalToPreRunTree(t *testing.T) {
	fs := testutil.NewMemFS(t)
	testutil.WriteTree(t, fs, "/proj/scec", map[string]string{
		"index.php":     `<?php require '/info/vh/scec/lib/a.php'; ?>`,
		"lib/a.php":     `<?php include "/info/vh/scec/lib/b.php"; ?>`,
		"lib/b.php":     `<?php echo "b"; ?>`,
		"css/site.css":  "body {}",
		"broken.php":    "<?php include '/info/elsewhere/x.php'; ?>",
		"docs/note.txt": "/info/vh/scec/not/rewritten",
	})
	before := testutil.Snapshot(t, fs, "/proj/scec")

	m := newMigrator(t, fs)
	result, err := m.Run(context.Background(), Options{Root: "/proj/scec"})
	require.NoError(t, err)

	assert.Equal(t, before, testutil.Snapshot(t, fs, "/proj/scec.bak"))
	assert.NotEqual(t, before, testutil.Snapshot(t, fs, "/proj/scec"))
	assert.Equal(t, "/info/vh/scec/not/rewritten", testutil.ReadFS(t, fs, "/proj/scec/docs/note.txt"))
	assert.Equal(t, 1, result.Failed())
}

func TestRun_FailureIsolation(t *testing.T) {
	fs := testutil.NewMemFS(t)
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d"} {
		files[name+".php"] = `<?php include "/info/vh/scec/lib/` + name + `.php"; ?>`
	}
	testutil.WriteTree(t, fs, "/proj/scec", files)
	require.NoError(t, afero.WriteFile(fs, "/proj/scec/bad.php", []byte{0xff, 0xfe, '/', 'i'}, 0644))

	var seen []string
	m := newMigrator(t, fs)
	result, err := m.Run(context.Background(), Options{
		Root:   "/proj/scec",
		OnFile: func(fr FileResult) { seen = append(seen, filepath.Base(fr.Path)) },
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.php", "b.php", "bad.php", "c.php", "d.php"}, seen)
	assert.Equal(t, 4, result.Migrated())
	assert.Equal(t, 1, result.Failed())

	for _, fr := range result.Files {
		if filepath.Base(fr.Path) == "bad.php" {
			assert.True(t, errors.IsErrorCode(fr.Err, errors.ErrEncoding))
		}
	}
	assert.Contains(t, testutil.ReadFS(t, fs, "/proj/scec/d.php"), `dirname(__FILE__)."/lib/d.php"`)

	err = result.Err()
	assert.True(t, errors.IsErrorCode(err, errors.ErrPartialFailure))
	assert.Equal(t, errors.ExitPartial, errors.ExitCode(err))
}

func TestRun_FailFast(t *testing.T) {
	fs := testutil.NewMemFS(t)
	testutil.WriteTree(t, fs, "/proj/scec", map[string]string{
		"a.php": `<?php include "/info/nowhere/a.php"; ?>`,
		"b.php": `<?php include "/info/vh/scec/lib/b.php"; ?>`,
	})

	m := newMigrator(t, fs)
	result, err := m.Run(context.Background(), Options{Root: "/proj/scec", FailFast: true})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.True(t, errors.IsErrorCode(result.Files[0].Err, errors.ErrMarkerMissing))
	assert.Equal(t, `<?php include "/info/vh/scec/lib/b.php"; ?>`, testutil.ReadFS(t, fs, "/proj/scec/b.php"))
}

func TestRun_DryRun(t *testing.T) {
	fs := testutil.NewMemFS(t)
	testutil.WriteTree(t, fs, "/proj/scec/app", map[string]string{
		"page.php": `<?php include "/info/vh/scec/lib/util.php"; ?>` + "\n",
	})
	before := testutil.Snapshot(t, fs, "/proj/scec/app")

	m := newMigrator(t, fs)
	result, err := m.Run(context.Background(), Options{Root: "/proj/scec/app", DryRun: true, Diff: true})
	require.NoError(t, err)

	assert.Equal(t, before, testutil.Snapshot(t, fs, "/proj/scec/app"))
	_, err = fs.Stat("/proj/scec/app.bak")
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, result.BackupDir)
	assert.True(t, result.DryRun)

	require.Len(t, result.Files, 1)
	diff := result.Files[0].Diff
	assert.Contains(t, diff, `-<?php include "/info/vh/scec/lib/util.php"; ?>`)
	assert.Contains(t, diff, `+<?php include dirname(__FILE__)."/../lib/util.php"; ?>`)
}

func TestRun_BackupExists(t *testing.T) {
	fs := testutil.NewMemFS(t)
	testutil.WriteTree(t, fs, "/proj/scec", map[string]string{
		"a.php": `<?php include "/info/vh/scec/lib/a.php"; ?>`,
	})
	testutil.WriteTree(t, fs, "/proj/scec.bak", map[string]string{"stale.txt": "old"})

	m := newMigrator(t, fs)
	_, err := m.Run(context.Background(), Options{Root: "/proj/scec"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupExists))
	assert.Equal(t, errors.ExitFatal, errors.ExitCode(err))
	assert.Equal(t, `<?php include "/info/vh/scec/lib/a.php"; ?>`, testutil.ReadFS(t, fs, "/proj/scec/a.php"))

	result, err := m.Run(context.Background(), Options{Root: "/proj/scec", Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Changed())
	assert.Equal(t,
		map[string]string{"a.php": `<?php include "/info/vh/scec/lib/a.php"; ?>`},
		testutil.Snapshot(t, fs, "/proj/scec.bak"))
}

func TestRun_InvalidRoot(t *testing.T) {
	fs := testutil.NewMemFS(t)
	testutil.WriteTree(t, fs, "/proj", map[string]string{"file.php": ""})

	m := newMigrator(t, fs)
	_, err := m.Run(context.Background(), Options{Root: "/missing"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = m.Run(context.Background(), Options{Root: "/proj/file.php"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRun_Cancelled(t *testing.T) {
	fs := testutil.NewMemFS(t)
	testutil.WriteTree(t, fs, "/proj/scec", map[string]string{
		"a.php": `<?php include "/info/vh/scec/lib/a.php"; ?>`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newMigrator(t, fs)
	result, err := m.Run(ctx, Options{Root: "/proj/scec", DryRun: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Files)
}

func TestRun_IdempotentSecondPass(t *testing.T) {
	fs := testutil.NewMemFS(t)
	testutil.WriteTree(t, fs, "/proj/scec", map[string]string{
		"lib/a.php": `<?php include "/info/vh/scec/x.php"; include '/info/vh/scec/lib/y.php'; ?>`,
	})

	m := newMigrator(t, fs)
	_, err := m.Run(context.Background(), Options{Root: "/proj/scec"})
	require.NoError(t, err)
	once := testutil.ReadFS(t, fs, "/proj/scec/lib/a.php")

	result, err := m.Run(context.Background(), Options{Root: "/proj/scec", Force: true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Changed())
	assert.Equal(t, once, testutil.ReadFS(t, fs, "/proj/scec/lib/a.php"))
	assert.False(t, strings.Contains(once, "/info/"))
}

func TestRun_OsFsPreservesModeAndSkipsSymlinks(t *testing.T) {
	dir := testutil.TempDir(t)
	root := filepath.Join(dir, "scec")
	page := testutil.CreateFile(t, root, "app/page.php", `<?php include "/info/vh/scec/lib/util.php"; ?>`)
	require.NoError(t, os.Chmod(page, 0600))
	testutil.CreateSymlink(t, "/gone/scec/lib/util.php", filepath.Join(root, "app", "alias.php"))

	m := newMigrator(t, afero.NewOsFs())
	result, err := m.Run(context.Background(), Options{Root: root})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	testutil.AssertFileContent(t, page, `<?php include dirname(__FILE__)."/../lib/util.php"; ?>`)

	info, err := os.Stat(page)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	testutil.AssertSymlink(t, filepath.Join(root, "app", "alias.php"), "/gone/scec/lib/util.php")
	testutil.AssertSymlink(t, filepath.Join(dir, "scec.bak", "app", "alias.php"), "/gone/scec/lib/util.php")
	testutil.AssertFileContent(t, filepath.Join(dir, "scec.bak", "app", "page.php"),
		`<?php include "/info/vh/scec/lib/util.php"; ?>`)
}

const includeUtil = `<?php include "/info/vh/scec/lib/util.php"; ?>`

func TestRun_RelativeRoot(t *testing.T) {
	dir := testutil.TempDir(t)
	page := testutil.CreateFile(t, filepath.Join(dir, "scec"), "app/page.php", includeUtil)
	testutil.Chdir(t, dir)

	m := newMigrator(t, afero.NewOsFs())
	result, err := m.Run(context.Background(), Options{Root: "scec/app"})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	require.NoError(t, result.Files[0].Err)
	assert.Equal(t, filepath.Join(dir, "scec", "app"), result.Root)
	assert.Equal(t, filepath.Join(dir, "scec", "app.bak"), result.BackupDir)
	testutil.AssertFileContent(t, page, `<?php include dirname(__FILE__)."/../lib/util.php"; ?>`)
	testutil.AssertFileContent(t, filepath.Join(dir, "scec", "app.bak", "page.php"), includeUtil)
}

func TestRun_DotRootBacksUpToSibling(t *testing.T) {
	dir := testutil.TempDir(t)
	root := filepath.Join(dir, "scec")
	page := testutil.CreateFile(t, root, "app/page.php", includeUtil)
	testutil.Chdir(t, root)

	m := newMigrator(t, afero.NewOsFs())
	result, err := m.Run(context.Background(), Options{Root: "."})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "scec.bak"), result.BackupDir)
	assert.NoError(t, result.Err())
	testutil.AssertFileContent(t, page, `<?php include dirname(__FILE__)."/../lib/util.php"; ?>`)
	testutil.AssertFileContent(t, filepath.Join(dir, "scec.bak", "app", "page.php"), includeUtil)

	_, err = os.Lstat(filepath.Join(root, "..bak"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_UnreadableFileIsIsolated(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	dir := testutil.TempDir(t)
	root := filepath.Join(dir, "scec")
	for _, name := range []string{"a", "b", "c"} {
		testutil.CreateFile(t, root, name+".php", `<?php include "/info/vh/scec/lib/`+name+`.php"; ?>`)
	}
	locked := filepath.Join(root, "b.php")
	t.Cleanup(func() { _ = os.Chmod(locked, 0644) })

	// b.php becomes unreadable after the backup has been taken.
	m := newMigrator(t, afero.NewOsFs())
	result, err := m.Run(context.Background(), Options{
		Root: root,
		OnFile: func(fr FileResult) {
			if filepath.Base(fr.Path) == "a.php" {
				require.NoError(t, os.Chmod(locked, 0))
			}
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, 2, result.Migrated())
	assert.True(t, errors.IsErrorCode(result.Files[1].Err, errors.ErrFileRead))
	testutil.AssertFileContent(t, filepath.Join(root, "c.php"), `<?php include dirname(__FILE__)."/lib/c.php"; ?>`)
	assert.Equal(t, errors.ExitPartial, errors.ExitCode(result.Err()))
}
