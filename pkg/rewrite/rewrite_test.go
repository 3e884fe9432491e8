package rewrite

import (
	"testing"

	"github.com/arthur-debert/relocate/pkg/classify"
	"github.com/arthur-debert/relocate/pkg/errors"
	"github.com/arthur-debert/relocate/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAnchor = "/info/vh/scec/eqcountry/shakeout/coreshow.php"

func newTestRewriter(t *testing.T) *Rewriter {
	t.Helper()
	rel, err := paths.New("/scec", paths.DefaultDirExpression)
	require.NoError(t, err)
	rw, err := New(rel, classify.New("", 0), DefaultAbsolutePrefix, testAnchor)
	require.NoError(t, err)
	return rw
}

func TestNew_Validation(t *testing.T) {
	rel, err := paths.New("/scec", paths.DefaultDirExpression)
	require.NoError(t, err)

	_, err = New(nil, classify.New("", 0), DefaultAbsolutePrefix, testAnchor)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = New(rel, classify.New("", 0), "", testAnchor)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = New(rel, classify.New("", 0), DefaultAbsolutePrefix, "/info/vh/other/coreshow.php")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestEditRegularFile(t *testing.T) {
	rw := newTestRewriter(t)
	file := "/proj/scec/app/page.php"

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "single include",
			content: `<?php include("/info/vh/scec/lib/util.php"); ?>`,
			want:    `<?php include(dirname(__FILE__)."/../lib/util.php"); ?>`,
		},
		{
			name: "every literal is replaced",
			content: "<?php\nrequire '/info/vh/scec/lib/a.php';\n" +
				"require \"/info/vh/scec/app/b.php\";\n",
			want: "<?php\nrequire dirname(__FILE__).\"/../lib/a.php\";\n" +
				"require dirname(__FILE__).\"/b.php\";\n",
		},
		{
			name:    "mismatched quotes are accepted",
			content: `include "/info/vh/scec/lib/util.php';`,
			want:    `include dirname(__FILE__)."/../lib/util.php";`,
		},
		{
			name:    "segments with dollar dash and dot",
			content: `$f = "/info/vh/scec/lib/$name-v1.2.php";`,
			want:    `$f = dirname(__FILE__)."/../lib/$name-v1.2.php";`,
		},
		{
			name:    "relative literals are left untouched",
			content: `include "../lib/util.php"; include "./local.php";`,
			want:    `include "../lib/util.php"; include "./local.php";`,
		},
		{
			name:    "prefix must end at a segment boundary",
			content: `include "/information/scec/x.php";`,
			want:    `include "/information/scec/x.php";`,
		},
		{
			name:    "unquoted paths are left untouched",
			content: `// see /info/vh/scec/lib/util.php`,
			want:    `// see /info/vh/scec/lib/util.php`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rw.EditRegularFile(tt.content, file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEditRegularFile_MarkerMissing(t *testing.T) {
	rw := newTestRewriter(t)

	_, err := rw.EditRegularFile(`include "/info/vh/elsewhere/util.php";`, "/proj/scec/app/page.php")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMarkerMissing))
	assert.Contains(t, err.Error(), "/info/vh/elsewhere/util.php")
	assert.Equal(t, "/proj/scec/app/page.php", errors.GetErrorDetails(err)["file"])
}

func TestEditRegularFile_Idempotent(t *testing.T) {
	rw := newTestRewriter(t)
	file := "/proj/scec/app/page.php"
	content := "<?php\ninclude '/info/vh/scec/lib/a.php';\n" +
		"include \"/info/vh/scec/x/y/b.php\";\ninclude \"/info/vh/scec\";\n"

	once, err := rw.EditRegularFile(content, file)
	require.NoError(t, err)
	twice, err := rw.EditRegularFile(once, file)
	require.NoError(t, err)

	assert.NotEqual(t, content, once)
	assert.Equal(t, once, twice)
	assert.Empty(t, AbsolutePathPattern(DefaultAbsolutePrefix).FindAllString(once, -1))
}

func TestEditCoreFile(t *testing.T) {
	rw := newTestRewriter(t)
	file := "/proj/scec/eqcountry/shakeout/2009/index.php"

	content := "<?php /* coreshow.php */\n" +
		"chdir('/some/dir');\n" +
		"include(\"../../coreshow.php\");\n" +
		"chdir('/other/dir');\n" +
		"include(\"../more.php\");\n"

	want := "<?php /* coreshow.php */\n" +
		"\n" +
		"include(dirname(__FILE__).\"/../coreshow.php\");\n" +
		"chdir('/other/dir');\n" +
		"include(\"../more.php\");\n"

	got, err := rw.EditCoreFile(content, file)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEditCoreFile_Partial(t *testing.T) {
	rw := newTestRewriter(t)

	t.Run("chdir only", func(t *testing.T) {
		got, err := rw.EditCoreFile("<?php chdir($dir); echo 1; ?>", "/proj/scec/index.php")
		require.NoError(t, err)
		assert.Equal(t, "<?php echo 1; ?>", got)
	})

	t.Run("chdir match is line local", func(t *testing.T) {
		content := "<?php chdir(\n$dir);\ninclude './x.php';"
		got, err := rw.EditCoreFile(content, "/proj/scec/eqcountry/shakeout/index.php")
		require.NoError(t, err)
		assert.Equal(t, "<?php chdir(\n$dir);\ninclude dirname(__FILE__).\"/coreshow.php\";", got)
	})

	t.Run("nothing to do needs no marker", func(t *testing.T) {
		got, err := rw.EditCoreFile("<?php echo 1; ?>", "/tmp/index.php")
		require.NoError(t, err)
		assert.Equal(t, "<?php echo 1; ?>", got)
	})

	t.Run("relative literal in a file outside the tree", func(t *testing.T) {
		_, err := rw.EditCoreFile(`include "../coreshow.php";`, "/tmp/index.php")
		assert.True(t, errors.IsErrorCode(err, errors.ErrMarkerMissing))
	})
}

func TestRewrite_SelectsPolicy(t *testing.T) {
	rw := newTestRewriter(t)

	core := "<?php // coreshow.php\nchdir('/x');\ninclude \"../coreshow.php\";\ninclude \"/info/vh/scec/lib/a.php\";\n"
	res, err := rw.Rewrite(core, "/proj/scec/eqcountry/shakeout/2009/index.php")
	require.NoError(t, err)
	assert.True(t, res.Core)
	assert.True(t, res.Changed)
	assert.Equal(t, 2, res.Replacements)
	// the core policy does not touch absolute literals
	assert.Contains(t, res.Content, `"/info/vh/scec/lib/a.php"`)
	assert.NotContains(t, res.Content, "chdir")

	regular := "<?php\ninclude \"/info/vh/scec/lib/a.php\";\ninclude \"../lib/other.php\";\n"
	res, err = rw.Rewrite(regular, "/proj/scec/app/page.php")
	require.NoError(t, err)
	assert.False(t, res.Core)
	assert.Equal(t, 1, res.Replacements)
	assert.Contains(t, res.Content, `"../lib/other.php"`)

	res, err = rw.Rewrite("<?php echo 1;", "/proj/scec/app/page.php")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Zero(t, res.Replacements)
}
