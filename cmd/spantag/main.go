// Command spantag tags clinical text files with a YAML rule set and prints
// or persists the resulting spans.
//
// Tag files:
//
//	spantag --rules rules.yaml [--lexicon lexicon.yaml] [--db spans.db] note1.txt note2.html
//
// Tag a one-off snippet:
//
//	spantag --rules rules.yaml --text "76 year old man with CHF."
//
// Report span frequencies from a database:
//
//	spantag --db spans.db --stats
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/clinitext/spantag/pkg/spantag"
	"github.com/clinitext/spantag/pkg/spantag/analytics"
	"github.com/clinitext/spantag/pkg/spantag/config"
	"github.com/clinitext/spantag/pkg/spantag/document"
	"github.com/clinitext/spantag/pkg/spantag/htmltext"
	"github.com/clinitext/spantag/pkg/spantag/store"
	"github.com/clinitext/spantag/pkg/spantag/store/sqlite"
)

func main() {
	var (
		rulesPath   = flag.String("rules", "", "Rule file (required unless --stats)")
		lexiconPath = flag.String("lexicon", "", "Lexicon file (optional)")
		dbPath      = flag.String("db", "", "SQLite database path (optional)")
		text        = flag.String("text", "", "Tag a text snippet instead of files")
		stats       = flag.Bool("stats", false, "Print span frequencies from --db and exit")
	)
	flag.Parse()

	ctx := context.Background()

	if *stats {
		if *dbPath == "" {
			log.Fatal("--stats requires --db")
		}
		if err := printStats(ctx, *dbPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *rulesPath == "" {
		log.Fatal("--rules required")
	}
	if *text == "" && flag.NArg() == 0 {
		log.Fatal("nothing to tag: pass --text or input files")
	}

	loader := config.Loader{RulesPath: *rulesPath, LexiconPath: *lexiconPath}
	comp, err := loader.Load()
	if err != nil {
		log.Fatal(err)
	}

	var st store.Store
	if *dbPath != "" {
		if st, err = sqlite.Open(ctx, *dbPath); err != nil {
			log.Fatal(err)
		}
	}

	tagger := spantag.New(spantag.Options{
		Registry:  comp.Registry,
		Tokenizer: comp.Tokenizer,
		Store:     st,
	})
	defer tagger.Close()

	if *text != "" {
		doc, err := tagger.Tag(*text)
		if err != nil {
			log.Fatal(err)
		}
		printDoc("(snippet)", doc)
		return
	}

	failures := 0
	for _, path := range flag.Args() {
		if err := tagFile(ctx, tagger, st != nil, path); err != nil {
			// One file's failure never aborts the rest of the batch.
			fmt.Fprintf(os.Stderr, "spantag: %s: %v\n", path, err)
			failures++
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func tagFile(ctx context.Context, tagger *spantag.Tagger, persist bool, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	text := string(raw)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text = htmltext.Extract(text)
	}

	if persist {
		stored, err := tagger.Ingest(ctx, filepath.Base(path), text)
		if err != nil {
			return err
		}
		fmt.Printf("%s  id=%s  spans=%d\n", path, stored.ID, len(stored.Spans))
		return nil
	}

	doc, err := tagger.Tag(text)
	if err != nil {
		return err
	}
	printDoc(path, doc)
	return nil
}

func printDoc(name string, doc *document.Document) {
	fmt.Printf("%s  tokens=%d  spans=%d\n", name, doc.Len(), len(doc.Entities))
	for _, sp := range doc.Entities {
		fmt.Printf("  %-12s %q  tokens [%d,%d)  chars [%d,%d)  rule=%s\n",
			sp.Category, sp.Text, sp.Start, sp.End, sp.CharStart, sp.CharEnd, sp.RuleName)
	}
}

func printStats(ctx context.Context, dbPath string) error {
	st, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	rep, err := analytics.NewAnalyzer(st).Report(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("documents: %d\nspans: %d\n\nby category:\n", rep.Docs, rep.Spans)
	for _, c := range rep.Categories {
		fmt.Printf("  %-12s %d\n", c.Key, c.Count)
	}
	fmt.Println("\nby rule:")
	for _, c := range rep.Rules {
		fmt.Printf("  %-20s %d\n", c.Key, c.Count)
	}
	return nil
}
