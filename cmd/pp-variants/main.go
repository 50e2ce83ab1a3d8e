package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	pp_variants "github.com/fwessels/pp-variants"
	"github.com/fwessels/pp-variants/internal/lexer"
	"gopkg.in/yaml.v3"
)

type options struct {
	definesPath string
	max         int
	listMacros  bool
}

// definesFile pins macros before enumeration, e.g.:
//
//	defined: [FEATURE_A, FEATURE_B]
//	undefined: [DEBUG]
type definesFile struct {
	Defined   []string `yaml:"defined"`
	Undefined []string `yaml:"undefined"`
}

func applyDefines(tree *pp_variants.FlowTree, path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var df definesFile
	if err := yaml.Unmarshal(buf, &df); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, name := range df.Defined {
		tree.Assume(name, true)
	}
	for _, name := range df.Undefined {
		tree.Assume(name, false)
	}
	return nil
}

func run(w io.Writer, src string, opts options) error {
	seq, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	tree := pp_variants.NewFlowTree(seq)
	if err := tree.BuildFlowGraph(); err != nil {
		return err
	}
	if opts.definesPath != "" {
		if err := applyDefines(tree, opts.definesPath); err != nil {
			return err
		}
	}
	if opts.listMacros {
		for _, name := range tree.MacroNames() {
			fmt.Fprintln(w, name)
		}
		return nil
	}

	banner := color.New(color.FgCyan, color.Bold)
	return tree.GenerateVariants(func(tokens []pp_variants.Token, index int, complete bool) bool {
		if !complete {
			return opts.max <= 0 || index < opts.max
		}
		banner.Fprintf(w, "=== variant %d ===\n", index)
		fmt.Fprintln(w, formatVariant(tokens))
		return true
	})
}

func formatVariant(tokens []pp_variants.Token) string {
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		words = append(words, tok.Text)
	}
	return strings.Join(words, " ")
}

func main() {
	opts := options{}
	flag.StringVar(&opts.definesPath, "defines", "", "YAML file with defined:/undefined: macro lists")
	flag.IntVar(&opts.max, "max", 0, "stop after N variants (0 = all)")
	flag.BoolVar(&opts.listMacros, "list-macros", false, "print conditional macros instead of variants")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: pp-variants [flags] <filename>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *noColor {
		color.NoColor = true
	}

	buf, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Println("Error reading file: ", err)
		os.Exit(1)
	}
	if err := run(os.Stdout, string(buf), opts); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
