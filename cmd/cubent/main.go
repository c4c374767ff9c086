// Command cubent compiles a tree of .cubent source files into a
// Minecraft datapack: it wires the config loader, the compile driver,
// the version-info resolver, and the output assembler behind a small
// Cobra CLI.
package main

import (
	"fmt"
	"os"

	"github.com/cubent-lang/cubent/internal/cerr"
	"github.com/cubent-lang/cubent/internal/compile"
	"github.com/cubent-lang/cubent/internal/config"
	"github.com/cubent-lang/cubent/internal/datapack"
	"github.com/cubent-lang/cubent/internal/versioninfo"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess      = 0
	exitInvalidArgs  = 1
	exitCompileError = 2
	exitIOError      = 3
	exitConfigError  = 4
)

var (
	flagIcon        string
	flagDescription string
	flagSources     []string
	flagWatch       bool
	flagConfigFile  string
	flagManifestURL string
	flagCacheDir    string
)

func main() {
	root := &cobra.Command{
		Use:   "cubent <out> <version>",
		Short: "Compile Cubent sources into a Minecraft datapack",
		Args:  cobra.ExactArgs(2),
		RunE:  run,
	}
	root.Flags().StringVarP(&flagIcon, "icon", "i", "", "path to a pack.png icon")
	root.Flags().StringVarP(&flagDescription, "description", "d", "", "datapack description")
	root.Flags().StringArrayVarP(&flagSources, "source", "s", nil, "source directory (repeatable)")
	root.Flags().BoolVar(&flagWatch, "watch", false, "recompile whenever a source file changes")
	root.Flags().StringVar(&flagConfigFile, "config", "cubent.yaml", "project config file")
	root.Flags().StringVar(&flagManifestURL, "manifest-url", "https://example.invalid/cubent/versions.json", "engine version manifest URL")
	root.Flags().StringVar(&flagCacheDir, "cache-dir", ".cubent-cache", "version-info cache directory")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitInvalidArgs)
	}
}

func run(cmd *cobra.Command, args []string) error {
	outDir, version := args[0], args[1]

	proj, cfgErr := config.Load(flagConfigFile)
	if cfgErr != nil {
		fmt.Fprintln(os.Stderr, cfgErr.Error())
		os.Exit(exitConfigError)
	}
	proj = config.Merge(proj, config.Flags{
		Sources:     flagSources,
		Output:      outDir,
		Icon:        flagIcon,
		Description: flagDescription,
		Version:     version,
	})
	if proj.Output == "" {
		proj.Output = outDir
	}
	if proj.Version == "" {
		proj.Version = version
	}
	if proj.Description == "" {
		proj.Description = "Cubent datapack"
	}
	if len(proj.Sources) == 0 {
		fmt.Fprintln(os.Stderr, "no source directories given: pass --source or set 'sources' in cubent.yaml")
		os.Exit(exitInvalidArgs)
	}

	if err := buildOnce(proj); err != nil {
		os.Exit(err.exitCode)
	}

	if !flagWatch {
		return nil
	}
	return watchAndRebuild(proj)
}

type buildError struct {
	exitCode int
}

func (e *buildError) Error() string { return fmt.Sprintf("build failed (exit %d)", e.exitCode) }

func buildOnce(proj config.Project) *buildError {
	resolver, err := versioninfo.NewResolver(flagManifestURL, flagCacheDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return &buildError{exitConfigError}
	}
	packFormat, verr := resolver.PackFormat(proj.Version)
	if verr != nil {
		fmt.Fprintln(os.Stderr, cerr.Render(verr, ""))
		return &buildError{exitConfigError}
	}

	uuid := deterministicBuildUUID(proj)
	result := compile.Compile(proj.Sources, uuid)
	if !result.Ok() {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, cerr.Render(e, result.Sources[e.File]))
		}
		return &buildError{exitCompileError}
	}

	asmErr := datapack.Assemble(result.Outputs, datapack.Options{
		OutDir:      proj.Output,
		PackFormat:  packFormat,
		Description: proj.Description,
		IconPath:    proj.Icon,
		SourceDirs:  proj.Sources,
		LoadHooks:   result.LoadHooks,
		Externals:   result.Externals,
	})
	if asmErr != nil {
		fmt.Fprintln(os.Stderr, cerr.Render(asmErr, ""))
		return &buildError{exitIOError}
	}

	fmt.Printf("compiled %d function(s) into %s\n", len(result.Outputs), proj.Output)
	return nil
}

// deterministicBuildUUID derives a stable per-project identifier from
// its output path and version, so DO_IF helper names and data-store
// prefixes stay the same across successive builds of the same
// project.
func deterministicBuildUUID(proj config.Project) string {
	sum := uint64(1469598103934665603)
	for _, b := range []byte(proj.Output + "|" + proj.Version) {
		sum ^= uint64(b)
		sum *= 1099511628211
	}
	return fmt.Sprintf("%016x", sum)
}

func watchAndRebuild(proj config.Project) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range proj.Sources {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	fmt.Println("watching for changes; press Ctrl+C to stop")
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			buildOnce(proj)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, werr)
		}
	}
}
