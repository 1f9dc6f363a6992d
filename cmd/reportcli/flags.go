package main

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

const (
	formatHTML = "html"
	formatXLSX = "xlsx"
	formatRaw  = "raw"
)

// Flags holds all command-line flags
type Flags struct {
	// Commands
	List   bool
	Report string

	// Options
	Config   string
	Macros   macroFlag
	Database string
	Format   string
	Output   string
	Sheet    string

	// Misc
	Version bool
}

// macroFlag collects repeated -macro key=value flags
type macroFlag map[string]string

func (m macroFlag) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + m[k]
	}
	return strings.Join(pairs, ",")
}

func (m macroFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("macro must be key=value, got %q", value)
	}
	m[key] = val
	return nil
}

// ParseFlags defines and parses all command-line flags
func ParseFlags(args []string, stderr io.Writer) (*Flags, error) {
	f := &Flags{Macros: macroFlag{}}

	fs := flag.NewFlagSet("reportcli", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Commands
	fs.BoolVar(&f.List, "list", false, "List all report definitions")
	fs.StringVar(&f.Report, "report", "", "Render report (path relative to the reports directory)")

	// Options
	fs.StringVar(&f.Config, "config", "reports.yaml", "Configuration file path")
	fs.Var(f.Macros, "macro", "Macro value key=value (repeatable)")
	fs.StringVar(&f.Database, "database", "", "Connection name, overrides the report's Database header")
	fs.StringVar(&f.Format, "format", formatHTML, "Output format: html, xlsx, raw")
	fs.StringVar(&f.Output, "output", "", "Output file path (default: stdout)")
	fs.StringVar(&f.Sheet, "sheet", "", "Excel sheet name (default: report name)")

	// Misc
	fs.BoolVar(&f.Version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch f.Format {
	case formatHTML, formatXLSX, formatRaw:
	default:
		return nil, fmt.Errorf("unknown format %q (html/xlsx/raw)", f.Format)
	}
	if !f.List && !f.Version && f.Report == "" {
		return nil, fmt.Errorf("one of -list or -report is required")
	}
	if f.Format == formatXLSX && f.Output == "" {
		return nil, fmt.Errorf("-output is required for xlsx")
	}

	return f, nil
}
