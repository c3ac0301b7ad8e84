package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	topic, _ := op.joinedArgs()
	help(topic)
	return nil, false
}

func help(topic string) {
	tracer().Debugf("help %v", topic)
	switch strings.ToLower(topic) {
	case "lookup":
		pterm.Info.Println("lookup <codepoints>")
		pterm.Println(`
	Find the emoji for a sequence of hexadecimal codepoints, e.g.
	    lookup 1F1E6 1F1E8
	    lookup U+1F468,U+200D,U+1F469
	Variation selectors are not part of emoji sequences.
	`)
	case "id":
		pterm.Info.Println("id <identifier>")
		pterm.Println(`
	Find the emoji for an identifier of the Supplementary Private Use
	Area-A, e.g.
	    id F0001
	`)
	case "cmap":
		pterm.Info.Println("cmap <codepoint>")
		pterm.Println(`
	Show the glyph the font's character map assigns to a codepoint.
	Identifiers are mapped to the glyph of their emoji.
	`)
	case "stats":
		pterm.Info.Println("stats")
		pterm.Println(`
	Count the emojis of the metadata per compat version.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	lookup <codepoints>   find an emoji by codepoint sequence
	id <identifier>       find an emoji by identifier
	cmap <codepoint>      show the glyph of a codepoint
	stats                 summarize the metadata
	help [command]        this text
	quit                  leave
	`)
	}
}
