package main

import (
	"fmt"

	"github.com/npillmayer/emojicompat"
	"github.com/npillmayer/emojicompat/metadata"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runBuildCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(mustFlagBool(flags["verbose"], "verbose"))
	conf := emojicompat.DefaultConfig(mustArg(args, "font"), mustArg(args, "unicode"))
	if meta := optionalString(flags["meta"], "meta"); meta != "" {
		conf.PersistedTablePath = meta
	}
	conf.OutputFontPath = optionalString(flags["out"], "out")
	if conf.OutputFontPath == "" {
		conf.OutputFontPath = emojicompat.DefaultOutputPath(conf.FontPath)
	}
	conf.SchemaPath = optionalString(flags["schema"], "schema")
	conf.TestDataPath = optionalString(flags["testdata"], "testdata")
	if flatc := optionalString(flags["flatc"], "flatc"); flatc != "" {
		conf.Compiler = metadata.Flatc{Path: flatc}
	}
	conf.SDKVersion = mustFlagInt(flags["sdk"], "sdk")
	conf.MetadataVersion = mustFlagInt(flags["version"], "version")

	result, err := emojicompat.Build(conf)
	if err != nil {
		fatalf("%v", err)
	}
	printBuildResult(conf, result)
}

// printBuildResult prints a summary of a build. Diagnostics are warnings only.
func printBuildResult(conf emojicompat.Config, result *emojicompat.Result) {
	out := conf.OutputFontPath
	data := [][]string{
		{"Output", "Value"},
		{"font", out},
		{"identifier table", conf.PersistedTablePath},
		{"emojis", fmt.Sprintf("%d", len(result.Records))},
		{"metadata", fmt.Sprintf("%d bytes", len(result.Metadata))},
		{"source sha", result.Checksum},
	}
	if conf.TestDataPath != "" {
		data = append(data, []string{"test data", conf.TestDataPath})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	for _, d := range result.Diagnostics {
		pterm.Warning.Println(d.String())
	}
	if len(result.Unknown) > 0 {
		pterm.Warning.Printf("%d emoji codepoints unknown to the compiled-in emoji classes\n",
			len(result.Unknown))
	}
	pterm.Info.Printf("built %s\n", out)
}
