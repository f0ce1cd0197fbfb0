package mlayout

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

func newMemLayout(t *testing.T, files map[string]string) *Group {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	g, err := Load(fs, "group")
	require.NoError(t, err)
	return g
}

func TestLoadDiscoversTplFiles(t *testing.T) {
	g := newMemLayout(t, map[string]string{
		"group/main.tpl":   "hello <$name$>",
		"group/group.cfg":  "FILE_PATH_TEMPLATE = out/<$name$>.txt\n",
	})
	require.Contains(t, g.Sources, "main")
	require.Equal(t, "out/<$name$>.txt", g.PathSrc)
}

func TestLoadDerivesMainNameFromDirectory(t *testing.T) {
	g := newMemLayout(t, map[string]string{
		"group/main.tpl":  "hello",
		"group/group.cfg": "FILE_PATH_TEMPLATE = out.txt\n",
	})
	require.Equal(t, "group", g.MainName)
}

func TestLoadAppliesCustomMarkers(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "group/main.tpl", []byte("hello {{name}}"), 0o644))
	require.NoError(t, util.WriteFile(fs, "group/group.cfg", []byte(
		"FILE_PATH_TEMPLATE = out.txt\nPH_BEGIN_MARKER = {{\nPH_END_MARKER = }}\n"), 0o644))

	g, err := Load(fs, "group")
	require.NoError(t, err)
	require.Equal(t, "{{", g.Options.BeginMarker)
	require.Equal(t, "}}", g.Options.EndMarker)
}

// TestLoadStripsT2CSuffix checks that the "-t2c" suffix is stripped only
// when looking up the config filename; the directory's own basename,
// t2c suffix included, is still used verbatim as the group's main
// template name.
func TestLoadStripsT2CSuffix(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "mygroup-t2c/main.tpl", []byte("x"), 0o644))
	require.NoError(t, util.WriteFile(fs, "mygroup-t2c/mygroup.cfg", []byte("FILE_PATH_TEMPLATE = out.txt\n"), 0o644))

	g, err := Load(fs, "mygroup-t2c")
	require.NoError(t, err)
	require.Equal(t, "out.txt", g.PathSrc)
	require.Equal(t, "mygroup-t2c", g.MainName)
}

func TestLoadMissingPathTemplateIsError(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "group/main.tpl", []byte("x"), 0o644))
	require.NoError(t, util.WriteFile(fs, "group/group.cfg", []byte("OTHER = y\n"), 0o644))

	_, err := Load(fs, "group")
	require.Error(t, err)
}

func TestLoadEmptyPathTemplateIsError(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "group/main.tpl", []byte("x"), 0o644))
	require.NoError(t, util.WriteFile(fs, "group/group.cfg", []byte("FILE_PATH_TEMPLATE =\n"), 0o644))

	_, err := Load(fs, "group")
	require.Error(t, err)
}

func TestLoadNoTplFilesIsError(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "group/group.cfg", []byte("FILE_PATH_TEMPLATE = out.txt\n"), 0o644))

	_, err := Load(fs, "group")
	require.Error(t, err)
}

func TestLoadDuplicateConfigKeyIsError(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "group/main.tpl", []byte("x"), 0o644))
	require.NoError(t, util.WriteFile(fs, "group/group.cfg", []byte(
		"FILE_PATH_TEMPLATE = out.txt\nPH_BEGIN_MARKER = {{\nPH_BEGIN_MARKER = [[\n"), 0o644))

	_, err := Load(fs, "group")
	require.Error(t, err)
}

func TestLoadEmptyBeginMarkerIsError(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "group/main.tpl", []byte("x"), 0o644))
	require.NoError(t, util.WriteFile(fs, "group/group.cfg", []byte(
		"FILE_PATH_TEMPLATE = out.txt\nPH_BEGIN_MARKER =\n"), 0o644))

	_, err := Load(fs, "group")
	require.Error(t, err)
}

func TestLoadEmptyEndMarkerIsError(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "group/main.tpl", []byte("x"), 0o644))
	require.NoError(t, util.WriteFile(fs, "group/group.cfg", []byte(
		"FILE_PATH_TEMPLATE = out.txt\nPH_END_MARKER =\n"), 0o644))

	_, err := Load(fs, "group")
	require.Error(t, err)
}
