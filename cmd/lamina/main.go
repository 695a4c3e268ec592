// Command lamina evaluates a Lamina Lisp source file and writes the
// tessellated mesh buffers as JSON to stdout. With no file argument it
// reads source from stdin.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chazu/lamina/pkg/engine"
	"github.com/chazu/lamina/pkg/tessellate"
)

// ErrorData is the JSON-serializable form of an evaluation error.
type ErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is the full output document.
type Result struct {
	Mesh   *tessellate.Buffers `json:"mesh,omitempty"`
	Errors []ErrorData         `json:"errors"`
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [file.lisp]\n", os.Args[0])
		flag.PrintDefaults()
	}
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	flag.Parse()

	source, err := readSource(flag.Arg(0))
	if err != nil {
		log.Fatalf("read source: %v", err)
	}

	result := evaluate(string(source))

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		log.Fatalf("encode result: %v", err)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func readSource(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// evaluate runs the source through the engine and flattens the resulting
// mesh into buffers. All failures are reported through Result.Errors so
// the output document has a single shape.
func evaluate(source string) Result {
	result := Result{Errors: []ErrorData{}}

	eng := engine.NewEngine()
	m, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout).
		result.Errors = append(result.Errors, ErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, ErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	buf, err := tessellate.ToBuffers(m)
	if err != nil {
		result.Errors = append(result.Errors, ErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	result.Mesh = buf
	return result
}
