// Package mlayout discovers a template group laid out as one directory
// per group: one *.tpl file per template plus a per-directory config
// file naming the path template and, optionally, overriding the
// placeholder markers.
package mlayout

import (
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/ispras/mist"
	"github.com/ispras/mist/mconfig"
)

var logger = loggo.GetLogger("mist.mlayout")

const (
	tplExtension   = ".tpl"
	cfgExtension   = ".cfg"
	t2cSuffix      = "-t2c"
	keyFilePathTpl = "FILE_PATH_TEMPLATE"
	keyBeginMarker = "PH_BEGIN_MARKER"
	keyEndMarker   = "PH_END_MARKER"
)

// Group is the result of loading one template directory: the raw
// sources for a content group (every *.tpl file) plus the source of the
// path template (the single FILE_PATH_TEMPLATE entry). MainName is the
// directory's own basename, verbatim (including any trailing "-t2c"),
// which is the content group's main template name.
type Group struct {
	Options  mist.EngineOptions
	Sources  map[string]string
	PathSrc  string
	MainName string
}

// Load walks dirName inside fs and returns its Group. dirName is also
// used, with an optional trailing "-t2c" stripped, to find the
// directory's config file.
func Load(fs billy.Filesystem, dirName string) (*Group, error) {
	mainName := path.Base(dirName)
	if !isValidTemplateName(mainName) {
		return nil, mist.NewErrorf(mist.KindBadName, "mlayout", "invalid group name %q (from directory %s)", mainName, dirName)
	}

	entries, err := fs.ReadDir(dirName)
	if err != nil {
		return nil, mist.NewError(mist.KindDirReadFailed, "mlayout", errors.Annotatef(err, "read dir %q", dirName))
	}

	sources := make(map[string]string)
	for _, info := range entries {
		if info.IsDir() || !strings.HasSuffix(info.Name(), tplExtension) {
			continue
		}
		name := strings.TrimSuffix(info.Name(), tplExtension)
		if !isValidTemplateName(name) {
			return nil, mist.NewErrorf(mist.KindBadName, "mlayout", "invalid template name %q in %s", name, info.Name())
		}
		if _, dup := sources[name]; dup {
			return nil, mist.NewErrorf(mist.KindDuplicateParam, "mlayout",
				"duplicate template name %q in %s", name, dirName)
		}
		content, err := readFile(fs, path.Join(dirName, info.Name()))
		if err != nil {
			return nil, mist.NewError(mist.KindReadFailed, "mlayout", errors.Annotatef(err, "read %q", info.Name()))
		}
		sources[name] = content
	}

	if len(sources) == 0 {
		return nil, mist.NewErrorf(mist.KindNoTemplateFiles, "mlayout", "no %s files in %s", tplExtension, dirName)
	}

	cfgDict, err := loadDirConfig(fs, dirName)
	if err != nil {
		return nil, err
	}

	opts := mist.DefaultOptions()
	var pathSrc string
	var pathSet, beginSet, endSet bool
	seen := make(map[string]bool)
	var dupErr error
	cfgDict.Each(func(name, value string) {
		if dupErr != nil {
			return
		}
		if seen[name] {
			dupErr = mist.NewErrorf(mist.KindDuplicateParam, "mlayout", "duplicate parameter %q in %s", name, dirName)
			return
		}
		seen[name] = true
		switch name {
		case keyFilePathTpl:
			pathSrc = value
			pathSet = true
		case keyBeginMarker:
			opts.BeginMarker = value
			beginSet = true
		case keyEndMarker:
			opts.EndMarker = value
			endSet = true
		}
	})
	if dupErr != nil {
		return nil, dupErr
	}
	if beginSet && opts.BeginMarker == "" {
		return nil, mist.NewErrorf(mist.KindMissingParam, "mlayout", "%s: %s must not be empty", dirName, keyBeginMarker)
	}
	if endSet && opts.EndMarker == "" {
		return nil, mist.NewErrorf(mist.KindMissingParam, "mlayout", "%s: %s must not be empty", dirName, keyEndMarker)
	}
	if !pathSet || pathSrc == "" {
		return nil, mist.NewErrorf(mist.KindMissingParam, "mlayout", "%s missing required %s", dirName, keyFilePathTpl)
	}

	logger.Debugf("loaded group %q: %d templates, markers %q/%q", dirName, len(sources), opts.BeginMarker, opts.EndMarker)
	return &Group{Options: opts, Sources: sources, PathSrc: pathSrc, MainName: mainName}, nil
}

// LoadDir is the common case of Load: a real OS directory at root.
func LoadDir(root, dirName string) (*Group, error) {
	return Load(osfs.New(root), dirName)
}

// loadDirConfig finds and parses the one config file belonging to
// dirName, stripping an optional trailing "-t2c" from the base name
// before appending the config extension.
func loadDirConfig(fs billy.Filesystem, dirName string) (*mist.OrderedDict, error) {
	base := path.Base(dirName)
	base = strings.TrimSuffix(base, t2cSuffix)

	for _, candidate := range []string{base + cfgExtension, base} {
		f, err := fs.Open(path.Join(dirName, candidate))
		if err != nil {
			continue
		}
		defer f.Close()
		dict, err := mconfig.Load("mlayout:"+candidate, f)
		if err != nil {
			return nil, err
		}
		return dict, nil
	}
	return nil, mist.NewErrorf(mist.KindOpenFailed, "mlayout", "no config file for %s (tried %s%s, %s)", dirName, base, cfgExtension, base)
}

func readFile(fs billy.Filesystem, p string) (string, error) {
	f, err := fs.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()
	var sb strings.Builder
	buf := make([]byte, 32*1024)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	return sb.String(), nil
}

// isValidTemplateName applies the same name restrictions as the engine
// core to a *.tpl file stem.
func isValidTemplateName(name string) bool {
	if name == "" || name[0] == '.' || name[0] == ' ' {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == ' ', c == '-', c == '.', c == '_':
		default:
			return false
		}
	}
	return true
}
