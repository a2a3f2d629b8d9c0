package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ajitpratap0/datacontainer/pkg/binning"
	"github.com/ajitpratap0/datacontainer/pkg/json"
)

// parseInstruction parses "column[:method[:param]]". param is the class
// count, the bin size for IntervalSize, or '/'-separated boundaries for
// Manual, e.g. "pop:Manual:0/100/1000".
func parseInstruction(spec string) (binning.Instruction, error) {
	parts := strings.SplitN(spec, ":", 3)
	in := binning.Instruction{Column: parts[0]}
	if in.Column == "" {
		return in, fmt.Errorf("instruction %q has no column", spec)
	}
	if len(parts) == 1 {
		return in, nil
	}

	method, err := binning.ParseMethod(parts[1])
	if err != nil {
		return in, err
	}
	in.Method = method
	if len(parts) == 2 {
		return in, nil
	}

	param := parts[2]
	switch method {
	case binning.IntervalSize:
		in.BinSize, err = strconv.ParseFloat(param, 64)
	case binning.Manual:
		for _, s := range strings.Split(param, "/") {
			f, perr := strconv.ParseFloat(s, 64)
			if perr != nil {
				err = perr
				break
			}
			in.ManualClasses = append(in.ManualClasses, f)
		}
	default:
		in.NumClasses, err = strconv.Atoi(param)
	}
	if err != nil {
		return in, fmt.Errorf("invalid parameter in instruction %q: %w", spec, err)
	}
	return in, nil
}

// loadInstructions reads a JSON array of instructions, e.g.
// [{"column": "a", "method": "Jenks", "numClasses": 4}]
func loadInstructions(path string) ([]binning.Instruction, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read instructions: %w", err)
	}
	var instructions []binning.Instruction
	if err := json.Unmarshal(data, &instructions); err != nil {
		return nil, fmt.Errorf("failed to parse instructions: %w", err)
	}
	for i, in := range instructions {
		if in.Method == "" {
			continue
		}
		method, err := binning.ParseMethod(string(in.Method))
		if err != nil {
			return nil, err
		}
		instructions[i].Method = method
	}
	return instructions, nil
}

// instructions merges --by specs and an optional instruction file
func instructions(specs []string, file string) ([]binning.Instruction, error) {
	var out []binning.Instruction
	for _, spec := range specs {
		in, err := parseInstruction(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if file != "" {
		fromFile, err := loadInstructions(file)
		if err != nil {
			return nil, err
		}
		out = append(out, fromFile...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one instruction is required (--by or --instructions)")
	}
	return out, nil
}
