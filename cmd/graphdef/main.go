package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hanpama/graphdef/example/starwars"
	"github.com/hanpama/graphdef/internal/eventbus"
	"github.com/hanpama/graphdef/internal/otel"
	"github.com/hanpama/graphdef/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const rootUsage = `graphdef: declarative GraphQL schema tools

USAGE:
  graphdef <command> [flags]

COMMANDS:
  serve            Serve the Star Wars schema over HTTP
  print-sdl        Print the schema in SDL
  exec             Execute one query and print the JSON result
  help             Show help for any command
`

const serveUsage = `serve FLAGS:
  -graphql.introspection <bool>       Enable GraphQL introspection (default: true)
  -graphql.camel-case <bool>          Camel-case field and argument names (default: true)
  -graphql.max-concurrency N          Max concurrent resolvers per depth (default: 0, GOMAXPROCS)
  -server.addr <addr>                 HTTP listen address (default: :8080)
  -server.pretty                      Pretty-print JSON responses
  -server.timeout <duration>          Per-request timeout, e.g. 10s (default: 10s)
  -server.graphiql <bool>             Serve GraphiQL to browsers (default: true)
  -server.cors-origin <origin>        Allow cross-origin requests from origin. Repeatable
  -server.metadata-header <name>      Forward HTTP header to gRPC metadata. Repeatable
  -otel.endpoint <addr>               OTLP collector endpoint
  -otel.service <name>                OpenTelemetry service name (default: graphdef)
`

const printSDLUsage = `print-sdl FLAGS:
  -graphql.camel-case <bool>  Camel-case field and argument names (default: true)
  -out <file>                 Write SDL to file (default: stdout)
`

const execUsage = `exec FLAGS:
  -query <document>           GraphQL document; read from stdin when omitted
  -variables <json>           Variables as a JSON object
  -operation <name>           Operation to run when the document holds several
  -graphql.introspection <bool>  Enable GraphQL introspection (default: true)
  -pretty                     Indent the JSON result
(exits non-zero when the result holds errors)
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("graphdef", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "serve":
		return cmdServe(cmdArgs, stderr)
	case "print-sdl":
		return cmdPrintSDL(cmdArgs, stdout, stderr)
	case "exec":
		return cmdExec(cmdArgs, stdin, stdout, stderr)
	case "help":
		return cmdHelp(cmdArgs, stdout)
	default:
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, rootUsage)
		return nil
	}
	switch args[0] {
	case "serve":
		fmt.Fprint(stdout, serveUsage)
	case "print-sdl":
		fmt.Fprint(stdout, printSDLUsage)
	case "exec":
		fmt.Fprint(stdout, execUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return strings.Join(*s, ",") }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdServe(args []string, stderr io.Writer) error {
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	graphiql := true
	enableIntrospection := true
	camelCase := true
	maxConcurrency := 0
	otelEndpoint := ""
	otelService := "graphdef"
	var corsOrigins, metadataHeaders stringListFlag

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.BoolVar(&enableIntrospection, "graphql.introspection", enableIntrospection, "Enable GraphQL introspection")
	fs.BoolVar(&camelCase, "graphql.camel-case", camelCase, "Camel-case field and argument names")
	fs.IntVar(&maxConcurrency, "graphql.max-concurrency", maxConcurrency, "Max concurrent resolvers per depth")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.BoolVar(&graphiql, "server.graphiql", graphiql, "Serve GraphiQL to browsers")
	fs.Var(&corsOrigins, "server.cors-origin", "Allow cross-origin requests from origin")
	fs.Var(&metadataHeaders, "server.metadata-header", "Forward HTTP header to gRPC metadata")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, serveUsage)
		return err
	}
	if maxConcurrency < 0 {
		return fmt.Errorf("-graphql.max-concurrency must not be negative")
	}

	sch, err := starwars.NewSchema(starwars.NewStore(),
		types.WithIntrospection(enableIntrospection),
		types.WithAutoCamelCase(camelCase),
		types.WithMaxConcurrency(maxConcurrency),
	)
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	hopts := []types.HandlerOption{types.WithGraphiQL(graphiql)}
	if pretty {
		hopts = append(hopts, types.WithPretty())
	}
	if timeout > 0 {
		hopts = append(hopts, types.WithTimeout(timeout))
	}
	if len(corsOrigins) > 0 {
		hopts = append(hopts, types.WithCORS(corsOrigins...))
	}
	if len(metadataHeaders) > 0 {
		hopts = append(hopts, types.WithMetadataHeaders(metadataHeaders...))
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", sch.Handler(hopts...))
	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("GraphQL server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func cmdPrintSDL(args []string, stdout, stderr io.Writer) error {
	outFile := ""
	camelCase := true
	fs := flag.NewFlagSet("print-sdl", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.BoolVar(&camelCase, "graphql.camel-case", camelCase, "Camel-case field and argument names")
	fs.StringVar(&outFile, "out", outFile, "Write SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, printSDLUsage)
		return err
	}

	sch, err := starwars.NewSchema(starwars.NewStore(), types.WithAutoCamelCase(camelCase))
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	if outFile == "" {
		_, err := io.WriteString(stdout, sch.SDL())
		return err
	}
	return os.WriteFile(outFile, []byte(sch.SDL()), 0644)
}

func cmdExec(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	query := ""
	variables := ""
	operation := ""
	pretty := false
	enableIntrospection := true
	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&query, "query", query, "GraphQL document")
	fs.StringVar(&variables, "variables", variables, "Variables as a JSON object")
	fs.StringVar(&operation, "operation", operation, "Operation name")
	fs.BoolVar(&pretty, "pretty", pretty, "Indent the JSON result")
	fs.BoolVar(&enableIntrospection, "graphql.introspection", enableIntrospection, "Enable GraphQL introspection")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, execUsage)
		return err
	}
	if query == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read query: %w", err)
		}
		query = string(b)
	}
	if strings.TrimSpace(query) == "" {
		fmt.Fprint(stderr, execUsage)
		return fmt.Errorf("missing query")
	}
	vars := map[string]any{}
	if variables != "" {
		if err := json.Unmarshal([]byte(variables), &vars); err != nil {
			return fmt.Errorf("invalid -variables JSON: %w", err)
		}
	}

	sch, err := starwars.NewSchema(starwars.NewStore(), types.WithIntrospection(enableIntrospection))
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	res := sch.Execute(context.Background(), query,
		types.WithOperationName(operation),
		types.WithVariables(vars),
	)

	enc := json.NewEncoder(stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("query returned %d error(s)", len(res.Errors))
	}
	return nil
}
