package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/integrii/flaggy"
	"github.com/jesseduffield/yaml"
	"github.com/samber/lo"

	"github.com/ymake-build/ymake/pkg/buildcontext"
	"github.com/ymake-build/ymake/pkg/engine"
	"github.com/ymake-build/ymake/pkg/project"
)

const defaultVersion = "unversioned"

var (
	commit  string
	version = defaultVersion
	date    string
)

var (
	manifestFlag  = "ymake.yaml"
	cacheRootFlag = ".ymake-cache"
	releaseFlag   = false
	cleanFlag     = false
	debuggingFlag = false
	projectFlag   string

	defaultManifestFlag = false
)

func main() {
	updateBuildInfo()

	flaggy.SetName("ymake")
	flaggy.SetDescription("A small, from-scratch C/C++ build driver")
	flaggy.SetVersion(version)
	flaggy.String(&manifestFlag, "m", "manifest", "Path to the YAML build manifest")
	flaggy.String(&cacheRootFlag, "c", "cache", "Cache directory root")
	flaggy.Bool(&debuggingFlag, "d", "debug", "Enable debug logging")
	flaggy.Bool(&defaultManifestFlag, "", "print-default-manifest", "Print a template manifest and exit")

	buildCmd := flaggy.NewSubcommand("build")
	buildCmd.Description = "Build one or all projects declared by the manifest"
	buildCmd.String(&projectFlag, "p", "project", "Name of a single project to build (default: all)")
	buildCmd.Bool(&releaseFlag, "r", "release", "Build in RELEASE mode instead of DEBUG")
	buildCmd.Bool(&cleanFlag, "", "clean", "Discard this project's cache before building")
	flaggy.AttachSubcommand(buildCmd, 1)

	describeCmd := flaggy.NewSubcommand("describe")
	describeCmd.Description = "Print a project's resolved configuration"
	describeCmd.String(&projectFlag, "p", "project", "Name of the project to describe (default: all)")
	flaggy.AttachSubcommand(describeCmd, 1)

	cleanCmd := flaggy.NewSubcommand("clean")
	cleanCmd.Description = "Remove the entire cache directory"
	flaggy.AttachSubcommand(cleanCmd, 1)

	flaggy.Parse()

	if defaultManifestFlag {
		var buf bytes.Buffer
		if err := yaml.NewEncoder(&buf).Encode(defaultManifestTemplate()); err != nil {
			log.Fatal(err.Error())
		}
		fmt.Print(buf.String())
		return
	}

	ctx := buildcontext.New(cacheRootFlag, debuggingFlag, version)

	switch {
	case cleanCmd.Used:
		if err := engine.RemoveAllCache(ctx); err != nil {
			log.Fatal(err.Error())
		}
		return
	case describeCmd.Used:
		runDescribe(ctx)
		return
	case buildCmd.Used:
		runBuild(ctx)
		return
	default:
		flaggy.ShowHelpAndExit("no command given")
	}
}

func runDescribe(ctx *buildcontext.Context) {
	projects, err := engine.LoadOrBuildProjectIndex(ctx, manifestFlag, ParseManifest)
	if err != nil {
		log.Fatal(err.Error())
	}
	for _, p := range projects {
		if projectFlag != "" && p.Name != projectFlag {
			continue
		}
		fmt.Println(engine.DescribeProject(p))
	}
}

func runBuild(ctx *buildcontext.Context) {
	projects, err := engine.LoadOrBuildProjectIndex(ctx, manifestFlag, ParseManifest)
	if err != nil {
		log.Fatal(err.Error())
	}

	mode := project.DEBUG
	if releaseFlag {
		mode = project.RELEASE
	}

	osc := engine.NewOSCommand(ctx.Log)
	for _, p := range projects {
		if projectFlag != "" && p.Name != projectFlag {
			continue
		}
		output, elapsed, err := engine.BuildProject(ctx, osc, p, mode, cleanFlag)
		if err != nil {
			ctx.Log.Errorf("%s: %s", p.Name, err.Error())
			os.Exit(1)
		}
		fmt.Printf("%s -> %s (%s)\n", p.Name, output, elapsed)
	}
}

func updateBuildInfo() {
	if version != defaultVersion {
		return
	}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if revision, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
		return setting.Key == "vcs.revision"
	}); ok {
		commit = revision.Value
		if len(commit) > 7 {
			version = commit[:7]
		} else {
			version = commit
		}
	}
	if t, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
		return setting.Key == "vcs.time"
	}); ok {
		date = t.Value
	}
}
