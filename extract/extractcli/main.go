package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/samuelngs/apple-emoji-linux/core"
	"github.com/samuelngs/apple-emoji-linux/core/locate/resources"
	"github.com/samuelngs/apple-emoji-linux/emoji"
	"github.com/samuelngs/apple-emoji-linux/extract"
	"github.com/samuelngs/apple-emoji-linux/font"
	"github.com/samuelngs/apple-emoji-linux/font/ot"
)

// tracer traces with key 'emoji.extract'
func tracer() tracing.Trace {
	return tracing.Select("emoji.extract")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":       "go",
		"trace.emoji.fonts":     "Info",
		"trace.emoji.core":      "Info",
		"trace.emoji.extract":   "Info",
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
	fontname := flag.String("font", "", "Emoji font file or font name")
	ppem := flag.Int("ppem", 160, "Bitmap strike to extract, in pixels per em")
	out := flag.String("out", "build/emoji", "Output directory for extracted assets")
	index := flag.Int("index", 0, "Member font of a TrueType Collection")
	keepRaw := flag.Bool("keep-raw", false, "Keep unresolved glyphs under their raw names")
	flag.Parse()
	for _, key := range []string{"emoji.fonts", "emoji.core", "emoji.extract", "emoji.resources"} {
		tracing.Select(key).SetTraceLevel(traceLevel(*tlevel))
	}
	pterm.Info.Println("Extracting emoji assets")

	if err := run(*fontname, *index, *ppem, *out, *keepRaw); err != nil {
		core.UserError(err)
		os.Exit(2)
	}
}

func run(fontname string, index, ppem int, out string, keepRaw bool) error {
	// start fetching the Unicode data while the font is read
	testLines := resources.EmojiTest()
	seqLines := resources.EmojiSequences()

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
	pterm.Printfln("font %s: %d glyphs, strikes %v ppem",
		f.Fontname, otf.NumGlyphs(), otf.Sbix.StrikePPEMs())

	lines, err := testLines.Lines()
	if err != nil {
		return err
	}
	db := emoji.NewDatabase(lines)
	if lines, err = seqLines.Lines(); err != nil {
		return err
	}
	bases := emoji.NewModifierBases(lines)
	pterm.Printfln("emoji database: %d sequences, %d modifier bases", db.Len(), bases.Len())

	sink, err := extract.NewDirSink(out)
	if err != nil {
		return err
	}
	x := extract.New(otf, emoji.NewResolver(db), bases, sink)
	x.PPEM = ppem
	x.KeepRaw = keepRaw
	manifest, err := x.Run()
	if err != nil {
		return err
	}
	report(manifest, x.Stats, out)
	return nil
}

func report(manifest *treemap.Map, stats extract.Stats, out string) {
	pterm.Info.Printfln("%d assets written to %s", manifest.Size(), out)
	rows := pterm.TableData{
		{"glyphs with bitmap", fmt.Sprint(stats.Glyphs)},
		{"resolved", fmt.Sprint(stats.Resolved)},
		{"unresolved", fmt.Sprint(stats.Unresolved)},
		{"assets emitted", fmt.Sprint(stats.Emitted)},
		{"assets synthesized", fmt.Sprint(stats.Synthesized)},
	}
	if err := pterm.DefaultTable.WithData(rows).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
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

func traceLevel(name string) tracing.TraceLevel {
	switch strings.ToLower(name) {
	case "debug":
		return tracing.LevelDebug
	case "error":
		return tracing.LevelError
	}
	return tracing.LevelInfo
}
