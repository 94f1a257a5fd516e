package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	_ "image/jpeg" // sbix payload formats
	_ "image/png"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	uaxemoji "github.com/npillmayer/uax/emoji"
	"github.com/pterm/pterm"
	_ "golang.org/x/image/tiff"

	"github.com/samuelngs/apple-emoji-linux/core"
	"github.com/samuelngs/apple-emoji-linux/core/locate/resources"
	"github.com/samuelngs/apple-emoji-linux/emoji"
	"github.com/samuelngs/apple-emoji-linux/font"
	"github.com/samuelngs/apple-emoji-linux/font/ot"
)

// tracer traces with key 'emoji.fonts'
func tracer() tracing.Trace {
	return tracing.Select("emoji.fonts")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":       "go",
		"trace.emoji.fonts":     "Info",
		"trace.emoji.core":      "Info",
		"trace.emoji.resources": "Info",
		"app-key":               "apple-emoji",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	gconf.Initialize(conf)

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font file or font name to load")
	index := flag.Int("index", 0, "Member font of a TrueType Collection")
	flag.Parse()
	tracer().SetTraceLevel(traceLevel(*tlevel))
	pterm.Info.Println("Welcome to the emoji font CLI")
	uaxemoji.SetupEmojisClasses()
	//
	// set up REPL
	repl, err := readline.New("sbix > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load font to inspect
	if err := intp.loadFont(*fontname, *index); err != nil {
		core.UserError(err)
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
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
	font   *ot.Font
	repl   *readline.Instance
	strike *ot.Strike
	db     *emoji.Database // lazily loaded on first 'name' command
	rsv    *emoji.Resolver
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
		err, quit := intp.execute(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(line string) (error, bool) {
	cmd, arg := line, ""
	if sp := strings.IndexByte(line, ' '); sp >= 0 {
		cmd, arg = line[:sp], strings.TrimSpace(line[sp+1:])
	}
	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return nil, true
	case "help":
		help()
	case "tables":
		pterm.Printfln("font tables: %v", intp.font.TableTags())
	case "table":
		return intp.showTable(arg), false
	case "strikes":
		pterm.Printfln("font has %d strikes: %v ppem", intp.font.Sbix.StrikeCount(),
			intp.font.Sbix.StrikePPEMs())
	case "strike":
		return intp.selectStrike(arg), false
	case "glyph":
		return intp.showGlyph(arg), false
	case "name":
		return intp.showName(arg), false
	case "info":
		intp.showInfo()
	default:
		pterm.Error.Printfln("unknown command %q, try 'help'", cmd)
	}
	return nil, false
}

func (intp *Intp) showTable(tag string) error {
	if tag == "" {
		return errors.New("usage: table <tag>")
	}
	t := intp.font.Table(ot.T(tag))
	if t == nil {
		return fmt.Errorf("font has no table %q", tag)
	}
	off, size := t.Extent()
	pterm.Printfln("table %s: %d bytes at offset %d, checksum %#x",
		t.Self().NameTag(), size, off, t.Checksum())
	return nil
}

func (intp *Intp) selectStrike(arg string) error {
	ppem, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: strike <ppem>")
	}
	strike, err := intp.font.Sbix.StrikeForPPEM(ppem)
	if err != nil {
		return err
	}
	intp.strike = strike
	pterm.Printfln("selected strike: %d ppem at %d ppi", strike.PPEM, strike.PPI)
	return nil
}

func (intp *Intp) showGlyph(arg string) error {
	gid, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: glyph <id>")
	}
	name := intp.font.Post.NameForGlyph(ot.GlyphIndex(gid))
	if name == "" {
		return fmt.Errorf("font has no glyph %d", gid)
	}
	pterm.Printfln("glyph %d is named %q", gid, name)
	if intp.strike == nil {
		pterm.Info.Println("no strike selected, 'strike <ppem>' to inspect bitmaps")
		return nil
	}
	bm, ok := intp.strike.Bitmap(ot.GlyphIndex(gid))
	if !ok {
		pterm.Printfln("glyph %d has no bitmap at %d ppem", gid, intp.strike.PPEM)
		return nil
	}
	pterm.Printfln("bitmap: type %s, %d bytes, origin (%d, %d)",
		bm.GraphicType, bm.Size(), bm.OriginX, bm.OriginY)
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(bm.Bytes())); err == nil {
		pterm.Printfln("image: %s, %d x %d pixels", format, cfg.Width, cfg.Height)
	}
	return nil
}

func (intp *Intp) showName(name string) error {
	if name == "" {
		return errors.New("usage: name <glyph-name>")
	}
	if gid, ok := intp.font.Post.GlyphForName(name); ok {
		pterm.Printfln("glyph %q has ID %d", name, gid)
	} else {
		pterm.Printfln("font names no glyph %q, showing candidates anyway", name)
	}
	rsv := intp.resolver()
	cands := rsv.Candidates(name)
	if len(cands) == 0 {
		pterm.Println("name yields no candidate sequences")
		return nil
	}
	for _, cand := range cands {
		line := fmt.Sprintf("candidate %s  (%s)", cand.Hex(), cand.String())
		if clz := uaxemoji.EmojisClassForRune(cand[0]); clz >= 0 {
			line += fmt.Sprintf("  UTS #51 class %v", clz)
		}
		pterm.Println(line)
	}
	if intp.db != nil {
		if seq, ok := rsv.Resolve(name); ok {
			e, _ := intp.db.FindBySequence(seq)
			pterm.Printfln("resolves to %s %q", seq.Hex(), e.Name)
		} else {
			pterm.Println("no candidate is listed in the emoji database")
		}
	}
	return nil
}

// resolver returns the name resolver, backed by the Unicode emoji database
// if it can be fetched; candidates work without it.
func (intp *Intp) resolver() *emoji.Resolver {
	if intp.rsv != nil {
		return intp.rsv
	}
	lines, err := resources.EmojiTest().Lines()
	if err != nil {
		tracer().Errorf("cannot load emoji database: %s", core.UserMessage(err))
		intp.rsv = emoji.NewResolver(emptyOracle{})
		return intp.rsv
	}
	intp.db = emoji.NewDatabase(lines)
	intp.rsv = emoji.NewResolver(intp.db)
	return intp.rsv
}

type emptyOracle struct{}

func (emptyOracle) FindBySequence(emoji.Sequence) (*emoji.Emoji, bool) {
	return nil, false
}

func (intp *Intp) showInfo() {
	pterm.Printfln("font file: %s", intp.font.F.Filepath)
	if nm := intp.font.Table(ot.T("name")); nm != nil {
		if names := nm.Self().AsName(); names != nil {
			pterm.Printfln("family:  %s", names.Entry(ot.NameIDFamily))
			pterm.Printfln("version: %s", names.Entry(ot.NameIDVersion))
		}
	}
	pterm.Printfln("glyphs:  %d", intp.font.NumGlyphs())
	pterm.Printfln("strikes: %v ppem", intp.font.Sbix.StrikePPEMs())
}

func (intp *Intp) loadFont(fontname string, index int) error {
	fpath, err := resources.ResolveFontFile(fontname).Path()
	if err != nil {
		return err
	}
	f, err := font.LoadFontFile(fpath)
	if err != nil {
		return err
	}
	otf, err := ot.ParseCollection(f.Binary, index)
	if err != nil {
		return err
	}
	otf.F = f
	pterm.Printfln("loaded font %s with tables %v", f.Fontname, otf.TableTags())
	intp.font = otf
	return nil
}

func traceLevel(name string) tracing.TraceLevel {
	switch strings.ToLower(name) {
	case "debug":
		return tracing.LevelDebug
	case "error":
		return tracing.LevelError
	}
	return tracing.LevelInfo
}

func help() {
	pterm.Info.Println("Inspecting an emoji font")
	pterm.Println(`
	tables              list the font's table tags
	table <tag>         show extent and checksum of one table
	strikes             list the bitmap strike sizes
	strike <ppem>       select a strike for glyph inspection
	glyph <id>          show name and bitmap of a glyph
	name <glyph-name>   show the candidate sequences of a glyph name
	info                general font information
	quit                leave
	`)
}
