package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/npillmayer/emojicompat"
	"github.com/npillmayer/emojicompat/emojidata"
	"github.com/npillmayer/emojicompat/metadata"
	"github.com/npillmayer/emojicompat/otquery"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runInspectCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := mustArg(args, "font")
	insp, err := emojicompat.Inspect(fontPath)
	if err != nil {
		fatalf("cannot inspect %s: %v", fontPath, err)
	}
	doc := insp.Metadata

	fmt.Printf("Path: %s\n", fontPath)
	names := otquery.NameInfo(insp.Font)
	if family := names["family"]; family != "" {
		fmt.Printf("Family: %s\n", family)
	}
	if version := names["version"]; version != "" {
		fmt.Printf("Version: %s\n", version)
	}
	if head, ok := otquery.HeadInfo(insp.Font); ok {
		fmt.Printf("Revision: %.3f modified=%s\n", head.Revision(), head.ModifiedTime().Format(time.RFC3339))
	}
	if bitmaps, ok := otquery.BitmapInfo(insp.Font); ok {
		fmt.Printf("Bitmaps: CBDT=%08X CBLC=%08X strikes=%d\n",
			bitmaps.CBDTVersion, bitmaps.CBLCVersion, bitmaps.Strikes)
	}
	tags := insp.Font.TableTags()
	fmt.Printf("Tables (%d):", len(tags))
	for _, tag := range tags {
		fmt.Printf(" %s", tag.String())
	}
	fmt.Println()
	fmt.Printf("Metadata: version=%d emojis=%d\n", doc.Version, len(doc.List))
	fmt.Printf("Source sha: %s\n", doc.SourceSha)

	limit := mustFlagInt(flags["limit"], "limit")
	data := [][]string{{"ID", "Codepoints", "Glyph", "Size", "SDK", "Compat", "Style"}}
	for i, item := range doc.List {
		if limit > 0 && i >= limit {
			break
		}
		glyph := "-"
		if g, ok := insp.Glyph(item.ID); ok {
			glyph = fmt.Sprintf("%d", g)
		}
		data = append(data, []string{
			fmt.Sprintf("%X", item.ID),
			emojidata.Sequence(item.Codepoints).String(),
			glyph,
			fmt.Sprintf("%dx%d", item.Width, item.Height),
			fmt.Sprintf("%d", item.SDKAdded),
			fmt.Sprintf("%d", item.CompatAdded),
			fmt.Sprintf("%v", item.EmojiStyle),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	printVersionHistogram(doc.List)

	if unmapped := insp.Unmapped(); len(unmapped) > 0 {
		ids := make([]string, len(unmapped))
		for i, id := range unmapped {
			ids[i] = fmt.Sprintf("%X", id)
		}
		pterm.Warning.Printf("identifiers without glyph: %s\n", strings.Join(ids, " "))
	}
	for _, e := range insp.Font.CriticalErrors() {
		pterm.Error.Println(e.Error())
	}
	if mustFlagBool(flags["errors"], "errors") {
		for _, e := range insp.Font.Errors() {
			fmt.Printf("error: %s\n", e.Error())
		}
		for _, w := range insp.Font.Warnings() {
			fmt.Printf("warning: %s\n", w.String())
		}
	}
}

// printVersionHistogram prints how many emojis each metadata version added.
func printVersionHistogram(items []metadata.Item) {
	count := map[int]int{}
	for _, item := range items {
		count[item.CompatAdded]++
	}
	versions := make([]int, 0, len(count))
	for v := range count {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	for _, v := range versions {
		fmt.Printf("compat version %d: %d emojis\n", v, count[v])
	}
}
