// Command annotate runs the emoji annotator over text from the command
// line or stdin and prints the rendered result as JSON. It runs fully
// offline: no database, broker, or cache is contacted.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/annotext/emoji-annotation-platform/internal/annotation"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/registry"
	"github.com/annotext/emoji-annotation-platform/internal/annotator"
	"github.com/annotext/emoji-annotation-platform/pkg/logger"
)

func main() {
	patternID := flag.String("pattern-id", annotator.DefaultPatternID, "pattern set id to report in the output")
	merge := flag.Bool("merge", true, "merge multi-token emoji sequences into single tokens")
	lookupJSON := flag.String("lookup", "", "JSON object of emoji description overrides")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	logLevel := flag.String("log-level", "error", "log level (debug, info, warn, error)")
	flag.Parse()

	logger.Setup(*logLevel, "text")

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading stdin: %v\n", err)
			os.Exit(1)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "usage: annotate [flags] <text>  (or pipe text on stdin)")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var lookup map[string]string
	if *lookupJSON != "" {
		if err := json.Unmarshal([]byte(*lookupJSON), &lookup); err != nil {
			fmt.Fprintf(os.Stderr, "parsing -lookup: %v\n", err)
			os.Exit(1)
		}
	}

	a, err := annotator.New(annotator.Options{
		PatternID:      *patternID,
		MergeSpans:     *merge,
		Lookup:         lookup,
		AttributeNames: annotator.DefaultAttributeNames(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "building annotator: %v\n", err)
		os.Exit(1)
	}
	reg := registry.New()
	if err := reg.Register(a); err != nil {
		fmt.Fprintf(os.Stderr, "registering annotator: %v\n", err)
		os.Exit(1)
	}

	svc := annotation.NewService(reg, nil, nil)
	result, err := svc.Annotate(context.Background(), &annotation.AnnotateRequest{Text: text}, "cli")
	if err != nil {
		fmt.Fprintf(os.Stderr, "annotating: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "encoding result: %v\n", err)
		os.Exit(1)
	}
}
