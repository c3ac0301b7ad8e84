package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("ec-tools").
		SetVersion("v0.1.0").
		SetDescription("CLI for building and checking emoji compatibility fonts.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("build").
		SetDescription("Build the emoji compatibility variant of a color emoji font.").
		SetShortDescription("build compat font").
		AddArgument("font", "color emoji font file path", "").
		AddArgument("unicode", "directory of Unicode emoji data files", "").
		AddFlag("meta,m", "identifier table of the previous build, rewritten", commando.String, "emoji_metadata.txt").
		AddFlag("out,o", "output font file (default: NotoColorEmojiCompat.ttf next to the input font)", commando.String, "-").
		AddFlag("schema,s", "FlatBuffers schema file (default: built-in schema)", commando.String, "-").
		AddFlag("flatc,f", "compile metadata with an external flatc binary", commando.String, "-").
		AddFlag("testdata,t", "write the list of emoji sequences for tests", commando.String, "-").
		AddFlag("sdk", "SDK version stamp of new emojis", commando.Int, 30).
		AddFlag("version", "metadata version stamp of new emojis", commando.Int, 7).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runBuildCommand)

	commando.
		Register("inspect").
		SetDescription("Print the emoji metadata embedded into a compatibility font.").
		SetShortDescription("print metadata").
		AddArgument("font", "compatibility font file path", "").
		AddFlag("limit,n", "print at most n emojis (0 prints all)", commando.Int, 0).
		AddFlag("errors,e", "print font parse errors and warnings", commando.Bool, nil).
		SetAction(runInspectCommand)

	commando.
		Register("testdata").
		SetDescription("Print all emoji sequences of a Unicode data directory.").
		SetShortDescription("list emoji sequences").
		AddArgument("unicode", "directory of Unicode emoji data files", "").
		AddFlag("output,o", "write to file instead of stdout", commando.String, "-").
		SetAction(runTestDataCommand)

	commando.Parse(nil)
}

// setupTracing routes all traces of the build to the Go logger.
func setupTracing(verbose bool) {
	level := "Error"
	if verbose {
		level = "Info"
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":      "go",
		"trace.emoji.compat":   level,
		"trace.emoji.data":     level,
		"trace.emoji.resolve":  level,
		"trace.emoji.registry": level,
		"trace.emoji.metadata": level,
		"trace.font.opentype":  level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fatalf("cannot configure tracing: %v", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

// optionalString returns the value of a string flag, or "" if it has been
// left at "-".
func optionalString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	if s = strings.TrimSpace(s); s == "-" {
		return ""
	}
	return s
}

func mustArg(args map[string]commando.ArgValue, name string) string {
	v := strings.TrimSpace(args[name].Value)
	if v == "" {
		fatalf("%s is required", name)
	}
	return v
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ec-tools: "+format+"\n", args...)
	os.Exit(1)
}
