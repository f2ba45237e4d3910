package postlist

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// FrontmatterFormat is the format of the frontmatter of a preset document.
type FrontmatterFormat string

const (
	FrontmatterTOML FrontmatterFormat = "toml"
	FrontmatterYAML FrontmatterFormat = "yaml"
)

// delimiter returns the line that opens and closes frontmatter of the format.
func (f FrontmatterFormat) delimiter() (string, error) {
	switch f {
	case FrontmatterYAML:
		return "---", nil
	case FrontmatterTOML:
		return "+++", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// frontmatterFormatOf returns the format announced by the opening delimiter of a document.
func frontmatterFormatOf(input []byte) (FrontmatterFormat, bool) {
	line, _, _ := bytes.Cut(input, []byte("\n"))
	switch string(bytes.TrimRight(line, "\r")) {
	case "---":
		return FrontmatterYAML, true
	case "+++":
		return FrontmatterTOML, true
	default:
		return "", false
	}
}

// frontmatterParser only reads the frontmatter of a document.
var frontmatterParser = goldmark.New(
	goldmark.WithExtensions(&frontmatter.Extender{}),
)

// bodyRenderer converts a markdown body to HTML. Raw HTML in the body is passed through.
var bodyRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// DecodeFrontmatter decodes the YAML or TOML frontmatter of a markdown document into v.
// It returns false if the document has no frontmatter.
func DecodeFrontmatter(input []byte, v any) (bool, error) {
	ctx := parser.NewContext()
	frontmatterParser.Parser().Parse(text.NewReader(input), parser.WithContext(ctx))

	data := frontmatter.Get(ctx)
	if data == nil {
		return false, nil
	}

	if err := data.Decode(v); err != nil {
		return true, fmt.Errorf("failed to decode frontmatter: %w", err)
	}
	return true, nil
}

// RenderMarkdown converts markdown to HTML.
func RenderMarkdown(input []byte) (string, error) {
	var buf bytes.Buffer
	if err := bodyRenderer.Convert(input, &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// splitBody returns what follows the frontmatter of a document, without the blank line that
// separates the two. A document without frontmatter is all body.
func splitBody(input []byte) []byte {
	lines := bytes.SplitAfter(input, []byte("\n"))
	if len(lines) == 0 {
		return input
	}

	open := string(bytes.TrimRight(lines[0], "\r\n"))
	if open != "---" && open != "+++" {
		return input
	}

	offset := len(lines[0])
	for _, line := range lines[1:] {
		offset += len(line)
		if string(bytes.TrimRight(line, "\r\n")) != open {
			continue
		}
		body := input[offset:]
		body = bytes.TrimPrefix(body, []byte("\r\n"))
		return bytes.TrimPrefix(body, []byte("\n"))
	}

	return input
}
