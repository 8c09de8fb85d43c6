package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// OutputConfig holds the global --json and --quiet switches.
type OutputConfig struct {
	JSON  bool
	Quiet bool
}

var outputCfg OutputConfig

// parseGlobalFlags sets outputCfg from the global switches anywhere before
// a "--" and returns the other arguments in order.
func parseGlobalFlags(args []string) []string {
	rest := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(rest, args[i+1:]...)
		}
		switch arg {
		case "--json":
			outputCfg.JSON = true
		case "--quiet", "-q":
			outputCfg.Quiet = true
		default:
			rest = append(rest, arg)
		}
	}
	return rest
}

// PrintResult writes v to stdout as indented JSON.
func PrintResult(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// PrintTable writes rows under headers as aligned columns.
func PrintTable(headers []string, rows [][]string) {
	writeTable(os.Stdout, headers, rows)
}

func writeTable(out io.Writer, headers []string, rows [][]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	rules := make([]string, len(headers))
	for i, h := range headers {
		rules[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(rules, "\t"))
	for _, row := range rows {
		if len(row) > len(headers) {
			row = row[:len(headers)]
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// PrintInfo prints a human-facing note unless quiet or in JSON mode.
func PrintInfo(format string, args ...any) {
	if outputCfg.Quiet || outputCfg.JSON {
		return
	}
	fmt.Printf(format, args...)
}

// PrintError prints to stderr.
func PrintError(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
