// rosetool is a CLI utility for inspecting and converting ROSE Online asset
// files (STB data tables, STL string tables, ZSC model lists).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/junon-rose/internal/config"
	"github.com/Faultbox/junon-rose/internal/logger"
	"github.com/Faultbox/junon-rose/pkg/formats"
	"github.com/Faultbox/junon-rose/pkg/rw"
)

var cfg *config.Config

func main() {
	config.ParseFlags()

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "dump":
		cmdDump(args)
	case "convert":
		cmdConvert(args)
	case "roundtrip", "rt":
		cmdRoundtrip(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rosetool - ROSE Online asset file utility

Usage:
  rosetool [global options] <command> [options]

Global options:
  -config <path>     Config file path
  -log-level <level> Log level (debug, info, warn, error)
  -wide              Decode table strings as UTF-16LE
  -lang <code>       String table language (kr, en, ja, zh-tw, zh-cn, pt, fr)

Commands:
  dump <file>                 Print file contents (format from extension)
  convert <input> <output>    Convert a model between binary and text form
  roundtrip <file>            Decode, re-encode and compare a file

Examples:
  rosetool dump list_zone.stb
  rosetool -lang en dump list_quest.stl
  rosetool convert -id 5 list_deco_junon.zsc house5.txt
  rosetool convert house5.txt house5.zsc
  rosetool roundtrip list_deco_junon.zsc`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// readInto decodes path into f, honoring the configured string width.
func readInto(path string, f formats.RoseFile) error {
	if cfg.Data.WideStrings {
		return formats.ReadPathWide(path, f)
	}
	return formats.ReadPath(path, f)
}

func cmdDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N rows/entries (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rosetool dump <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	switch ext(path) {
	case ".stb":
		dumpDataTable(path, *limit)
	case ".stl":
		dumpStringTable(path, *limit)
	case ".zsc":
		dumpModelList(path, *limit)
	case ".txt":
		dumpModelText(path)
	default:
		fatal(errors.Errorf("unsupported file extension %q", ext(path)))
	}
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func dumpDataTable(path string, limit int) {
	var table formats.DataTable
	if err := readInto(path, &table); err != nil {
		fatal(err)
	}
	logger.Debug("decoded data table",
		zap.String("path", path),
		zap.Int("rows", table.Rows()),
		zap.Int("cols", table.Cols()))

	names := make([]string, len(table.Headers))
	for i, h := range table.Headers {
		names[i] = h.Name
	}
	fmt.Printf("# %s (%s, %d rows)\n", table.HeaderRowName, table.Identifier, table.Rows())
	fmt.Println(strings.Join(names, "\t"))
	for i, row := range table.Data {
		if limit > 0 && i >= limit {
			fmt.Fprintf(os.Stderr, "(showing first %d rows)\n", limit)
			break
		}
		fmt.Println(strings.Join(row, "\t"))
	}
}

func dumpStringTable(path string, limit int) {
	var st formats.StringTable
	if err := readInto(path, &st); err != nil {
		fatal(err)
	}

	language, err := parseLanguage(cfg.Data.Language)
	if err != nil {
		fatal(err)
	}
	logger.Debug("decoded string table",
		zap.String("path", path),
		zap.String("type", st.Type.Identifier()),
		zap.Stringer("language", language),
		zap.Int("entries", len(st.Entries)))

	fmt.Printf("# %s, %d entries, %s\n", st.Type.Identifier(), len(st.Entries), language)
	count := 0
	for key, entry := range st.Entries {
		if limit > 0 && count >= limit {
			fmt.Fprintf(os.Stderr, "(showing first %d entries)\n", limit)
			break
		}
		fmt.Printf("%s\t%s\n", key, entry.Text[language])
		if st.Type != formats.StringTableText {
			if d := entry.Description[language]; d != "" {
				fmt.Printf("\t%s\n", d)
			}
		}
		count++
	}
}

func dumpModelList(path string, limit int) {
	var list formats.ModelList
	if err := readInto(path, &list); err != nil {
		fatal(err)
	}
	logger.Debug("decoded model list",
		zap.String("path", path),
		zap.Int("models", len(list.Models)))

	fmt.Printf("# %s, %d model ids\n", path, len(list.Models))
	for i, model := range list.Models {
		if limit > 0 && i >= limit {
			fmt.Fprintf(os.Stderr, "(showing first %d models)\n", limit)
			break
		}
		if model == nil {
			fmt.Printf("%4d: (empty)\n", i)
			continue
		}
		fmt.Printf("%4d: %d parts, %d dummy points\n", i, len(model.Parts), len(model.DummyPoints))
		for j := range model.Parts {
			fmt.Printf("      part %d: %s\n", j, model.Parts[j].MeshPath)
		}
	}
}

func dumpModelText(path string) {
	model, err := readModelText(path)
	if err != nil {
		fatal(err)
	}
	if err := model.WriteText(os.Stdout); err != nil {
		fatal(err)
	}
}

func readModelText(path string) (*formats.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var model formats.Model
	if err := model.ReadText(f); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return &model, nil
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	id := fs.Int("id", 0, "Model id to extract from a .zsc list")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: rosetool convert [-id N] <input> <output>")
		os.Exit(1)
	}
	input, output := fs.Arg(0), fs.Arg(1)

	switch {
	case ext(input) == ".zsc" && ext(output) == ".txt":
		convertToText(input, output, *id)
	case ext(input) == ".txt" && ext(output) == ".zsc":
		convertToBinary(input, output)
	default:
		fatal(errors.Errorf("cannot convert %q to %q", ext(input), ext(output)))
	}
}

func convertToText(input, output string, id int) {
	var list formats.ModelList
	if err := readInto(input, &list); err != nil {
		fatal(err)
	}
	if id < 0 || id >= len(list.Models) || list.Models[id] == nil {
		fatal(errors.Errorf("%s: no model with id %d", input, id))
	}

	f, err := os.Create(output)
	if err != nil {
		fatal(err)
	}
	defer f.Close()

	if err := list.Models[id].WriteText(f); err != nil {
		fatal(errors.Wrap(err, output))
	}
	logger.Info("converted model to text",
		zap.String("input", input),
		zap.Int("id", id),
		zap.String("output", output))
}

func convertToBinary(input, output string) {
	model, err := readModelText(input)
	if err != nil {
		fatal(err)
	}

	list := formats.ModelList{Models: []*formats.Model{model}}
	if err := formats.WritePath(output, &list); err != nil {
		fatal(err)
	}
	logger.Info("converted model to binary",
		zap.String("input", input),
		zap.String("output", output))
}

func cmdRoundtrip(args []string) {
	fs := flag.NewFlagSet("roundtrip", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rosetool roundtrip <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	var first, second formats.RoseFile
	switch ext(path) {
	case ".stb":
		first, second = &formats.DataTable{}, &formats.DataTable{}
	case ".stl":
		first, second = &formats.StringTable{}, &formats.StringTable{}
	case ".zsc":
		first, second = &formats.ModelList{}, &formats.ModelList{}
	default:
		fatal(errors.Errorf("unsupported file extension %q", ext(path)))
	}

	original, err := os.ReadFile(path)
	if err != nil {
		fatal(err)
	}
	if err := readInto(path, first); err != nil {
		fatal(err)
	}

	w := rw.NewWriter()
	if err := first.Write(w); err != nil {
		fatal(errors.Wrap(err, "re-encoding"))
	}
	encoded := w.Bytes()

	if err := second.Read(rw.NewReader(encoded)); err != nil {
		fatal(errors.Wrap(err, "re-decoding"))
	}
	if !reflect.DeepEqual(first, second) {
		fatal(errors.Errorf("%s: decode(encode(v)) differs from v", path))
	}

	fmt.Printf("%s: ok\n", path)
	fmt.Printf("  original:   %d bytes\n", len(original))
	fmt.Printf("  re-encoded: %d bytes\n", len(encoded))
	if len(original) != len(encoded) {
		// Expected when the original carries duplicate pool entries or
		// redundant default properties.
		fmt.Println("  (sizes differ; output is the canonical encoding)")
	}
}

// parseLanguage maps a config language code to a string table language slot.
func parseLanguage(code string) (formats.Language, error) {
	switch strings.ToLower(code) {
	case "kr", "ko":
		return formats.LanguageKorean, nil
	case "en", "":
		return formats.LanguageEnglish, nil
	case "ja", "jp":
		return formats.LanguageJapanese, nil
	case "zh-tw":
		return formats.LanguageChineseTraditional, nil
	case "zh-cn":
		return formats.LanguageChineseSimplified, nil
	case "pt":
		return formats.LanguagePortuguese, nil
	case "fr":
		return formats.LanguageFrench, nil
	default:
		return 0, errors.Errorf("unknown language %q", code)
	}
}
