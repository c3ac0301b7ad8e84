package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/npillmayer/emojicompat/emojidata"
	"github.com/npillmayer/emojicompat/metadata"
	"github.com/pterm/pterm"
)

var errNoArg = errors.New("missing codepoint argument")

// lookupOp finds the metadata item for a codepoint sequence.
func lookupOp(intp *Intp, op *Op) (error, bool) {
	arg, ok := op.joinedArgs()
	if !ok {
		return errNoArg, false
	}
	seq, err := emojidata.ParseSequence(arg)
	if err != nil {
		return err, false
	}
	item, ok := intp.font.Metadata.Lookup(seq)
	if !ok {
		pterm.Printf("%s is not an emoji of this font\n", seq)
		return nil, false
	}
	intp.printItems(item)
	return nil, false
}

// idOp finds the metadata item for an identifier.
func idOp(intp *Intp, op *Op) (error, bool) {
	id, err := singleCodepoint(op)
	if err != nil {
		return err, false
	}
	item, ok := intp.font.Metadata.ByID(id)
	if !ok {
		pterm.Printf("no emoji with identifier %X\n", id)
		return nil, false
	}
	intp.printItems(item)
	return nil, false
}

// cmapOp shows the glyph a codepoint maps to.
func cmapOp(intp *Intp, op *Op) (error, bool) {
	cp, err := singleCodepoint(op)
	if err != nil {
		return err, false
	}
	g, ok := intp.font.Glyph(cp)
	if !ok {
		pterm.Printf("%X is not mapped\n", cp)
		return nil, false
	}
	name := intp.font.Font.GlyphName(g)
	if name == "" {
		name = "-"
	}
	pterm.Printf("%X => glyph %d (%s)\n", cp, g, name)
	return nil, false
}

// statsOp prints a summary of the metadata.
func statsOp(intp *Intp, op *Op) (error, bool) {
	doc := intp.font.Metadata
	pterm.Printf("source sha: %s\n", doc.SourceSha)
	data := [][]string{{"Compat version", "Emojis", "Sequences", "Emoji style"}}
	type row struct{ total, sequences, styled int }
	rows := map[int]*row{}
	for _, item := range doc.List {
		r, ok := rows[item.CompatAdded]
		if !ok {
			r = &row{}
			rows[item.CompatAdded] = r
		}
		r.total++
		if len(item.Codepoints) > 1 {
			r.sequences++
		}
		if item.EmojiStyle {
			r.styled++
		}
	}
	versions := make([]int, 0, len(rows))
	for v := range rows {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	for _, v := range versions {
		r := rows[v]
		data = append(data, []string{
			fmt.Sprintf("%d", v),
			fmt.Sprintf("%d", r.total),
			fmt.Sprintf("%d", r.sequences),
			fmt.Sprintf("%d", r.styled),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if unmapped := intp.font.Unmapped(); len(unmapped) > 0 {
		pterm.Error.Printf("%d identifiers are not mapped by cmap\n", len(unmapped))
	}
	return nil, false
}

func singleCodepoint(op *Op) (uint32, error) {
	arg, ok := op.joinedArgs()
	if !ok {
		return 0, errNoArg
	}
	seq, err := emojidata.ParseSequence(arg)
	if err != nil {
		return 0, err
	}
	if len(seq) != 1 {
		return 0, fmt.Errorf("expected a single codepoint, have %s", seq)
	}
	return seq[0], nil
}

func (intp *Intp) printItems(items ...metadata.Item) {
	data := [][]string{{"ID", "Codepoints", "Glyph", "Size", "SDK", "Compat", "Style"}}
	for _, item := range items {
		glyph := "-"
		if g, ok := intp.font.Glyph(item.ID); ok {
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
}
