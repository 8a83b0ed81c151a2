// Package codebook defines the topic vocabulary and the reform catalog
// used by the novel-reform tracker. Both ship with built-in defaults
// matching the coding scheme, and can be overridden by a Markdown
// codebook with YAML frontmatter.
package codebook

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// Position is one reform-position predicate: a document whose Column
// holds Trigger counts as an occurrence of Reform.
type Position struct {
	Column  string `yaml:"column"`
	Trigger string `yaml:"trigger"`
	Reform  string `yaml:"reform"`
}

// Codebook is the coding scheme consumed by the reform tracker.
type Codebook struct {
	Version   string
	Coder     string
	Topics    []string
	Positions []Position
}

// Default returns the built-in coding scheme.
func Default() *Codebook {
	return &Codebook{
		Version: "v2",
		Topics: []string{
			"charging_decisions",
			"sentencing",
			"bail",
			"diversion",
			"enhancements",
			"three_strikes",
			"juvenile",
			"death_penalty",
			"racial_justice",
			"discovery",
			"victim_services",
			"case_law_update",
			"administrative",
			"other",
		},
		Positions: []Position{
			{Column: "supports_diversion", Trigger: "yes", Reform: "diversion_support"},
			{Column: "supports_alternatives", Trigger: "yes", Reform: "alternatives_support"},
			{Column: "position_on_bail", Trigger: "reform_oriented", Reform: "bail_reform"},
			{Column: "position_on_enhancements", Trigger: "minimize", Reform: "enhancement_limits"},
			{Column: "racial_justice_emphasis", Trigger: "high", Reform: "racial_justice_high"},
		},
	}
}

// KnownTopic reports whether label is part of the vocabulary.
func (c *Codebook) KnownTopic(label string) bool {
	for _, t := range c.Topics {
		if t == label {
			return true
		}
	}
	return false
}

type codebookFrontMatter struct {
	Version   string     `yaml:"version"`
	Coder     string     `yaml:"coder"`
	Positions []Position `yaml:"positions"`
}

// Load parses a Markdown codebook. The YAML frontmatter carries version,
// coder, and the position predicates; the list under the "Topics"
// heading carries the topic vocabulary.
func Load(path string) (*Codebook, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read codebook: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(&frontmatter.Extender{}))
	ctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	cb := &Codebook{}
	if d := frontmatter.Get(ctx); d != nil {
		var fm codebookFrontMatter
		if err := d.Decode(&fm); err != nil {
			return nil, fmt.Errorf("decode codebook frontmatter: %w", err)
		}
		cb.Version = fm.Version
		cb.Coder = fm.Coder
		cb.Positions = fm.Positions
	}

	cb.Topics = topicsFromBody(doc, source)

	if err := cb.validate(path); err != nil {
		return nil, err
	}
	return cb, nil
}

func (c *Codebook) validate(path string) error {
	if len(c.Topics) == 0 {
		return fmt.Errorf("%s: codebook has no Topics section", path)
	}
	for i, p := range c.Positions {
		if p.Column == "" || p.Trigger == "" || p.Reform == "" {
			return fmt.Errorf("%s: position %d must set column, trigger, and reform", path, i)
		}
	}
	return nil
}

// topicsFromBody collects list items from the first list following a
// "Topics" heading.
func topicsFromBody(doc ast.Node, source []byte) []string {
	var topics []string
	inTopics := false

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			inTopics = strings.EqualFold(strings.TrimSpace(plainText(node, source)), "topics")
		case *ast.ListItem:
			if inTopics {
				label := strings.TrimSpace(plainText(node, source))
				if label != "" {
					topics = append(topics, label)
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return topics
}

// plainText concatenates the text segments under n.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
