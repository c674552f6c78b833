// Package benchmark contains Go benchmarks for the annotation pipeline,
// measuring catalog lookup, matching, and full document processing
// throughput and allocation behaviour.
package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"github.com/annotext/emoji-annotation-platform/internal/annotator"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/catalog"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/document"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/matcher"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/tokenizer"
)

const benchText = "team update 🎉 shipped the new build 👍 🏿 great work everyone 😻 see notes 👩 ‍ 💻 and more plain words to pad the document out"

func benchTokens(n int) []string {
	unit := strings.Fields("some plain words 😻 more text 👍 🏿 here")
	tokens := make([]string, 0, n)
	for len(tokens) < n {
		tokens = append(tokens, unit...)
	}
	return tokens[:n]
}

// BenchmarkCatalogBuild measures building the catalog from the bundled
// table, the dominant cost of annotator construction.
func BenchmarkCatalogBuild(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		cat, err := catalog.New(nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = cat
	}
}

// BenchmarkMatcherFind measures the match scan alone over a mid-sized
// document.
func BenchmarkMatcherFind(b *testing.B) {
	cat, err := catalog.New(nil)
	if err != nil {
		b.Fatal(err)
	}
	tokens := benchTokens(512)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc := document.FromStrings(tokens)
		matches, err := matcher.Find(doc, cat)
		if err != nil {
			b.Fatal(err)
		}
		_ = matches
	}
}

// BenchmarkAnnotatorProcess measures the full pipeline at various document
// sizes.
func BenchmarkAnnotatorProcess(b *testing.B) {
	a, err := annotator.New(annotator.DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	for _, size := range []int{64, 512, 4096} {
		tokens := benchTokens(size)
		b.Run(fmt.Sprintf("tokens_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				doc := document.FromStrings(tokens)
				if err := a.Process(doc); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkAnnotatorProcessNoEmoji measures the scan cost on text without
// any emoji, the common case for most documents.
func BenchmarkAnnotatorProcessNoEmoji(b *testing.B) {
	a, err := annotator.New(annotator.DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	tokens := strings.Fields(strings.Repeat("plain words without any pictures at all ", 64))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc := document.FromStrings(tokens)
		if err := a.Process(doc); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTokenize measures tokenization with emoji splitting.
func BenchmarkTokenize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tokens := tokenizer.Tokenize(benchText)
		_ = tokens
	}
}
