// Tysc compiles a type-declaration AST (as produced by the frontend) into a
// type-VM binary.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/typeshift/typeshift/internal/store"
	"github.com/typeshift/typeshift/manifest"
	"github.com/typeshift/typeshift/pkg/ast"
	"github.com/typeshift/typeshift/pkg/bytecode"
)

var log = commonlog.GetLogger("tysc")

func main() {
	output := flag.String("o", "", "Output binary path (default from typeshift.toml, else <input>.tsb)")
	listing := flag.Bool("S", false, "Print disassembly instead of writing a binary")
	debug := flag.Bool("debug", false, "Write a CBOR debug sidecar next to the output")
	cachePath := flag.String("cache", "", "Cache compiled binaries in this sqlite database")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tysc [options] [ast.json]\n\n")
		fmt.Fprintf(os.Stderr, "Compiles a type-declaration AST into a type-VM binary.\n")
		fmt.Fprintf(os.Stderr, "Without an argument, input and output come from typeshift.toml.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tysc types.json -o types.tsb\n")
		fmt.Fprintf(os.Stderr, "  tysc -S types.json           # print disassembly\n")
		fmt.Fprintf(os.Stderr, "  tysc -debug -cache .tysc.db types.json\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	if err := run(flag.Arg(0), *output, *listing, *debug, *cachePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output string, listing, debug bool, cachePath string) error {
	// Fall back to the project manifest for anything not given on the
	// command line.
	if input == "" || output == "" || cachePath == "" {
		m, err := manifest.FindAndLoad(".")
		if err != nil {
			return err
		}
		if m != nil {
			if input == "" {
				input = m.InputPath()
			}
			if output == "" {
				output = m.OutputPath()
			}
			if cachePath == "" {
				cachePath = m.Build.Cache
			}
			debug = debug || m.Build.Debug
		}
	}
	if input == "" {
		return fmt.Errorf("no input: pass an AST file or add typeshift.toml")
	}
	if output == "" {
		output = input + ".tsb"
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	var cache *store.Store
	hash := store.Hash(data)
	if cachePath != "" && !listing {
		cache, err = store.Open(cachePath)
		if err != nil {
			return err
		}
		defer cache.Close()

		if artifact, err := cache.Get(hash); err == nil {
			log.Infof("cache hit for %s", input)
			return writeOutput(output, artifact.Binary, artifact.Debug, debug)
		}
	}

	var file ast.Node
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing AST %s: %w", input, err)
	}

	program, diags, err := bytecode.Compile(&file)
	if err != nil {
		return err
	}
	for _, d := range diags {
		log.Warningf("%s: %s", input, d)
	}

	if listing {
		fmt.Print(program.Disassemble())
		return nil
	}

	bin := program.Build()
	log.Infof("compiled %s: %d subroutines, %d bytes", input, len(program.Subroutines), len(bin))

	var sidecar []byte
	if debug {
		sidecar, err = bytecode.NewDebugInfo(program).Marshal()
		if err != nil {
			return err
		}
	}

	if cache != nil {
		err := cache.Put(&store.Artifact{Hash: hash, Name: input, Binary: bin, Debug: sidecar})
		if err != nil {
			log.Warningf("cannot cache %s: %v", input, err)
		}
	}

	return writeOutput(output, bin, sidecar, debug)
}

func writeOutput(output string, bin, sidecar []byte, debug bool) error {
	if err := os.WriteFile(output, bin, 0o644); err != nil {
		return err
	}
	if debug && len(sidecar) > 0 {
		if err := os.WriteFile(output+".debug", sidecar, 0o644); err != nil {
			return err
		}
	}
	return nil
}
