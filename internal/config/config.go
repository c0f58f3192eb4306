package config

import (
	"crypto/tls"
	"errors"
	"flag"
	"io"
	"net/http"
	"time"

	"github.com/jacoelho/dq/internal/document"
	"github.com/jacoelho/dq/internal/exit"
	"github.com/jacoelho/dq/internal/render"
)

const (
	// DefaultTimeout is the default timeout for HTTP source fetches.
	DefaultTimeout = 30 * time.Second
)

var (
	ErrNoArguments  = errors.New("no arguments provided")
	ErrNoExpression = errors.New("no path expression specified")
)

// Config represents the complete configuration for the dq tool.
type Config struct {
	// Query
	Expression string   // path expression, or a JSON record array under FromAST
	Sources    []string // files, URLs or "-" for standard input
	First      bool     // stop at the first match per source
	Fuzzy      bool     // register the fuzzy_key extension segment

	// Modes that print and exit before any source is read
	PrintAST   bool // print the parsed expression as JSON records
	FromAST    bool // treat the expression argument as JSON records
	ToJSONPath bool // print the RFC 9535 translation

	// Input/output
	Input  document.Format
	Output render.Mode

	// HTTP source configuration
	Insecure       bool
	RequestTimeout time.Duration
	RateLimit      float64 // Requests per second for URL fetches (0 = unlimited)
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and an exit
// status.
func Parse(args []string) (*Config, *exit.Status) {
	if len(args) == 0 {
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage and error output since we handle both
	// ourselves
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		input      = fs.String("input", "auto", "Input format: auto, yaml or json")
		output     = fs.String("output", "yaml", "Output format: yaml, json, raw or result")
		first      = fs.Bool("first", false, "Stop at the first match per source")
		printAST   = fs.Bool("ast", false, "Print the parsed expression as JSON records and exit")
		fromAST    = fs.Bool("from-ast", false, "Treat the expression argument as a JSON array of records")
		toJSONPath = fs.Bool("to-jsonpath", false, "Print the RFC 9535 JSONPath translation and exit")
		fuzzy      = fs.Bool("fuzzy", false, "Enable the fuzzy_key extension segment")
		insecure   = fs.Bool("insecure", false, "Skip TLS certificate verification")
		timeout    = fs.Duration("timeout", DefaultTimeout, "HTTP source fetch timeout")
		rateLimit  = fs.Float64("rate-limit", 0, "Rate limit for URL fetches in requests per second (0 for unlimited)")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Usagef("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoExpression, Usage())
	}

	inputFormat, err := document.ParseFormat(*input)
	if err != nil {
		return nil, exit.Usagef("Error: %v\n\n%s", err, Usage())
	}

	outputMode, err := render.ParseMode(*output)
	if err != nil {
		return nil, exit.Usagef("Error: %v\n\n%s", err, Usage())
	}

	sources := rest[1:]
	if len(sources) == 0 {
		sources = []string{document.StdinName}
	}

	return &Config{
		Expression:     rest[0],
		Sources:        sources,
		First:          *first,
		Fuzzy:          *fuzzy,
		PrintAST:       *printAST,
		FromAST:        *fromAST,
		ToJSONPath:     *toJSONPath,
		Input:          inputFormat,
		Output:         outputMode,
		Insecure:       *insecure,
		RequestTimeout: *timeout,
		RateLimit:      *rateLimit,
	}, nil
}

// HTTPClient creates an HTTP client for URL sources configured with the
// settings from this Config.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{
		Timeout: c.RequestTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: c.Insecure,
			},
		},
	}
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `dq - query YAML and JSON documents with path expressions

Usage: dq [options] <expression> [source ...]

Sources are file paths, http(s) URLs, or "-" for standard input.
With no sources, dq reads standard input.

Options:
  --input FORMAT       Input format: auto, yaml or json (default: auto)
  --output FORMAT      Output format: yaml, json, raw or result (default: yaml)
  --first              Stop at the first match per source
  --ast                Print the parsed expression as JSON records and exit
  --from-ast           Treat the expression argument as a JSON array of records
  --to-jsonpath        Print the RFC 9535 JSONPath translation and exit
  --fuzzy              Enable the fuzzy_key extension segment (~f/term/0.8)
  --insecure           Skip TLS certificate verification
  --timeout DURATION   HTTP source fetch timeout (default: 30s)
  --rate-limit N       Rate limit for URL fetches in requests per second (0 for unlimited)
  -h, --help           Show this help message

Exit codes:
  0  at least one match
  1  no matches
  2  usage or expression error
  3  source or decode error

Examples:
  dq 'users.*.name' config.yaml               # All user names
  dq --first 'spec.containers[0].image' -     # First image from stdin
  dq 'servers[?(@.port >= 8000)]' infra.yaml  # Filtered matches
  dq '**.password' secrets.yaml state.yaml    # Recursive search, two files
  dq --output json 'items[1:3]' https://example.com/data.yaml
  dq --ast 'users[?(@.active == true)].email' # Show the AST records
  dq --to-jsonpath 'book.*.price'             # RFC 9535 translation`
}
