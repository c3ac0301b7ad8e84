package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/emojicompat"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'emoji.compat'
func tracer() tracing.Trace {
	return tracing.Select("emoji.compat")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.emoji.compat":  "Info",
		"trace.font.opentype": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Compatibility font to load")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the Emoji Compat CLI")
	//
	// set up REPL
	repl, err := readline.New("ec > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	font *emojicompat.Inspection
	repl *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a parsed command line: an op-code and its arguments.
type Op struct {
	code int
	name string
	args []string
}

const (
	QUIT int = iota
	HELP
	LOOKUP
	ID
	CMAP
	STATS
)

var opMap = map[string]int{
	"quit":   QUIT,
	"help":   HELP,
	"lookup": LOOKUP,
	"id":     ID,
	"cmap":   CMAP,
	"stats":  STATS,
}

var errUnknownCommand = errors.New("unknown command, try 'help'")

func parseCommand(line string) (*Op, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errUnknownCommand
	}
	name := strings.ToLower(fields[0])
	code, ok := opMap[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", fields[0], errUnknownCommand)
	}
	tracer().Debugf("parsed command: %s %v", name, fields[1:])
	return &Op{code: code, name: name, args: fields[1:]}, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:   quitOp,
	HELP:   helpOp,
	LOOKUP: lookupOp,
	ID:     idOp,
	CMAP:   cmapOp,
	STATS:  statsOp,
}

func (intp *Intp) execute(op *Op) (err error, stop bool) {
	f, ok := commandFn[op.code]
	if !ok {
		return fmt.Errorf("unknown command code: %d", op.code), false
	}
	return f(intp, op)
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(fontname string) (err error) {
	if fontname == "" {
		return errors.New("no font given, use -font <file>")
	}
	if intp.font, err = emojicompat.Inspect(fontname); err == nil {
		pterm.Printf("font tables: %v\n", intp.font.Font.TableTags())
		pterm.Printf("%d emojis, metadata version %d\n", len(intp.font.Metadata.List),
			intp.font.Metadata.Version)
	}
	return
}

func (op *Op) joinedArgs() (string, bool) {
	if len(op.args) == 0 {
		return "", false
	}
	return strings.Join(op.args, " "), true
}
