package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crazywalk/streetgraph/internal/model"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Input   string `short:"i" long:"in"  description:"Input bundle JSON path. Reads from stdin if empty"`
	Output  string `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Compact bool   `short:"C" long:"compact" description:"Emit compact JSON"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Read Input
	var inputData []byte
	var err error

	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
	} else {
		inputData, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
	}

	var bundle model.Bundle
	if err := json.Unmarshal(inputData, &bundle); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing bundle: %v\n", err)
		os.Exit(1)
	}

	fc := bundle.GeoJSON()

	var outputData []byte
	if opts.Compact {
		outputData, err = json.Marshal(fc)
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling GeoJSON: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Exported %d features to %s\n", len(fc.Features), opts.Output)
	} else {
		fmt.Println(string(outputData))
	}
}
