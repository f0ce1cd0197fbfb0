// Command mistgen is the MiST command-line driver: it builds a template
// group from a file or directory, binds a parameter dictionary from a
// config file, and either prints the result (--simplified) or writes it
// to the path the group's own path template produces.
package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	"github.com/juju/loggo"

	"github.com/ispras/mist"
	"github.com/ispras/mist/mconfig"
	"github.com/ispras/mist/mlayout"
)

const (
	progName = "mistgen"
	version  = "0.1.0"
)

var logger = loggo.GetLogger("mist.mistgen")

func main() {
	stderr := colorable.NewColorableStderr()
	if err := run(os.Args[1:], stderr); err != nil {
		color.New(color.FgRed).Fprintf(stderr, "%s: %s\n", progName, err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	var simplified bool
	var positional []string

	for _, a := range args {
		switch a {
		case "--help", "-h":
			printUsage()
			return nil
		case "--version":
			fmt.Println(progName, version)
			return nil
		case "--simplified", "-s":
			simplified = true
		default:
			positional = append(positional, a)
		}
	}

	if len(positional) != 2 {
		printUsage()
		return mist.NewErrorf(mist.KindMissingParam, progName, "expected <template-path> <values-path>, got %d argument(s)", len(positional))
	}
	templatePath, valuesPath := positional[0], positional[1]

	valuesFile, err := os.Open(valuesPath)
	if err != nil {
		return mist.NewError(mist.KindOpenFailed, progName, err)
	}
	defer valuesFile.Close()
	dict, err := mconfig.Load(progName, valuesFile)
	if err != nil {
		return err
	}

	logger.Debugf("running %q simplified=%v values=%q", templatePath, simplified, valuesPath)
	if simplified {
		return runSimplified(templatePath, dict)
	}
	return runGroup(templatePath, dict)
}

// runSimplified handles --simplified: templatePath is a single file,
// and the rendered result goes to standard output.
func runSimplified(templatePath string, dict mist.Dictionary) error {
	src, err := ioutil.ReadFile(templatePath)
	if err != nil {
		return mist.NewError(mist.KindOpenFailed, progName, err)
	}
	name := filepath.Base(templatePath)
	group, err := mist.BuildSingle(name, string(src), mist.DefaultOptions())
	if err != nil {
		return err
	}
	group.SetAttributes(dict)
	values, err := group.Evaluate()
	if err != nil {
		return err
	}
	for _, v := range values {
		fmt.Println(v)
	}
	return nil
}

// runGroup handles the regular (non-simplified) mode: templatePath is a
// group directory; the content group's output is written to the path
// the path group produces.
func runGroup(templatePath string, dict mist.Dictionary) error {
	root := filepath.Dir(templatePath)
	dirName := filepath.Base(templatePath)

	layout, err := mlayout.LoadDir(root, dirName)
	if err != nil {
		return err
	}

	pathGroup, err := mist.BuildSingle(pathMainName, layout.PathSrc, layout.Options)
	if err != nil {
		return err
	}
	outPath, err := mist.GeneratePath(pathGroup, dict)
	if err != nil {
		return err
	}

	contentGroup, err := mist.BuildGroup(layout.MainName, layout.Sources, layout.Options)
	if err != nil {
		return err
	}

	return mist.GenerateFile(contentGroup, outPath, dict, mist.NewOSWriter(root))
}

const pathMainName = "__path__"

func printUsage() {
	fmt.Printf("usage: %s [--simplified|-s] [--help] [--version] <template-path> <values-path>\n", progName)
}
