package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/peer-interop/codec"
	"github.com/wippyai/peer-interop/inspect"
	"github.com/wippyai/peer-interop/resource"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	hexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

type options struct {
	in          string
	hexData     string
	schema      string
	json        bool
	interactive bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.in, "in", "", "Wire dump file (- for stdin)")
	flag.StringVar(&opts.hexData, "hex", "", "Wire dump as hex")
	flag.StringVar(&opts.schema, "schema", "", "YAML schema naming the fields (optional)")
	flag.BoolVar(&opts.json, "json", false, "Emit JSON")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.verbose, "v", false, "Debug logging")
	flag.Parse()

	if opts.in == "" && opts.hexData == "" {
		fmt.Fprintln(os.Stderr, "Usage: wiredump -in <dump.bin> [-schema msg.yaml] [-json]")
		fmt.Fprintln(os.Stderr, "       wiredump -hex '66 2a 00 00 00' [-schema msg.yaml]")
		fmt.Fprintln(os.Stderr, "       wiredump -in <dump.bin> -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		codec.SetLogger(logger)
		resource.SetLogger(logger)
	}

	data, err := readInput(opts.in, opts.hexData)
	if err != nil {
		return err
	}

	var schema *inspect.Schema
	if opts.schema != "" {
		if schema, err = inspect.LoadSchema(opts.schema); err != nil {
			return err
		}
	}

	values, decodeErr := inspect.Decode(data, schema, codec.DefaultRegistry())

	switch {
	case opts.json:
		if err := writeJSON(os.Stdout, data, values, decodeErr); err != nil {
			return err
		}
	case opts.interactive && term.IsTerminal(int(os.Stdout.Fd())):
		if err := runInteractive(data, values, decodeErr); err != nil {
			return err
		}
	default:
		writeTable(os.Stdout, data, values)
	}
	return decodeErr
}

func readInput(path, hexData string) ([]byte, error) {
	if hexData != "" {
		data, err := hex.DecodeString(strings.Join(strings.Fields(hexData), ""))
		if err != nil {
			return nil, fmt.Errorf("decode hex: %w", err)
		}
		return data, nil
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

type jsonField struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Value  string `json:"value"`
	Hex    string `json:"hex"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
}

type jsonDump struct {
	Error  string      `json:"error,omitempty"`
	Fields []jsonField `json:"fields"`
}

func writeJSON(w io.Writer, data []byte, values []inspect.Value, decodeErr error) error {
	dump := jsonDump{Fields: make([]jsonField, 0, len(values))}
	for _, v := range values {
		dump.Fields = append(dump.Fields, jsonField{
			Name:   v.Name,
			Kind:   v.Kind,
			Value:  v.String(),
			Hex:    fieldHex(data, v),
			Offset: v.Offset,
			Size:   v.Size,
		})
	}
	if decodeErr != nil {
		dump.Error = decodeErr.Error()
	}
	out, err := sonic.ConfigStd.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func fieldHex(data []byte, v inspect.Value) string {
	return hex.EncodeToString(data[v.Offset : v.Offset+v.Size])
}

func writeTable(w io.Writer, data []byte, values []inspect.Value) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-6s %-4s %-16s %-18s %s", "OFFSET", "SIZE", "FIELD", "KIND", "VALUE")))
	for _, v := range values {
		fmt.Fprintf(w, "%-6d %-4d %s %s %s\n",
			v.Offset, v.Size,
			nameStyle.Render(fmt.Sprintf("%-16s", v.Name)),
			kindStyle.Render(fmt.Sprintf("%-18s", v.Kind)),
			v.String())
		fmt.Fprintf(w, "%12s%s\n", "", hexStyle.Render(fieldHex(data, v)))
	}
}
