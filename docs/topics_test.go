package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/etnz/cointax"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md loads, and every .md file is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatalf("failed to glob *.md: %v", err)
	}
	for _, file := range files {
		topic := strings.TrimSuffix(filepath.Base(file), ".md")
		if topic != "readme" && !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q is not listed in docs/readme.md", topic)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(all, slices.Sorted(slices.Values(topicsInReadme))) {
		t.Errorf("GetAllTopics() = %v, want %v", all, topicsInReadme)
	}
}

func TestGetTopic(t *testing.T) {
	index, err := GetTopic("")
	if err != nil || !strings.HasPrefix(index, "# cointax documentation") {
		t.Errorf("GetTopic(\"\") = %q, %v, want the index", index, err)
	}
	every, err := GetTopic("*")
	if err != nil || !strings.Contains(every, "# Provenance") || !strings.Contains(every, "# Classification") {
		t.Errorf("GetTopic(\"*\") = %q, %v, want all topics", every, err)
	}
	if _, err := GetTopic("nope"); err == nil {
		t.Error("GetTopic(\"nope\") should fail")
	}
}

// tableRows returns the body rows of the first table of a markdown file.
func tableRows(t *testing.T, file string) [][]string {
	t.Helper()
	source, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	var rows [][]string
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		table, ok := n.(*extast.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		for r := table.FirstChild(); r != nil; r = r.NextSibling() {
			if _, ok := r.(*extast.TableRow); !ok {
				continue // header
			}
			var row []string
			for c := r.FirstChild(); c != nil; c = c.NextSibling() {
				var cell strings.Builder
				for x := c.FirstChild(); x != nil; x = x.NextSibling() {
					if txt, ok := x.(*ast.Text); ok {
						cell.Write(txt.Segment.Value(source))
					}
				}
				row = append(row, strings.TrimSpace(cell.String()))
			}
			rows = append(rows, row)
		}
		return ast.WalkStop, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestClassificationTopic(t *testing.T) {
	// The documented table is the classification table.
	rows := tableRows(t, "classification.md")
	keys := cointax.KnownKeys()
	if len(rows) != len(keys) {
		t.Fatalf("classification.md lists %d pairs, want %d", len(rows), len(keys))
	}
	for i, k := range keys {
		typ, _ := cointax.TypeOf(k)
		want := []string{k.Category, k.Operation, typ.String()}
		if !slices.Equal(rows[i], want) {
			t.Errorf("classification.md row %d = %q, want %q", i, rows[i], want)
		}
	}
}
