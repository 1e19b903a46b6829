package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/tiltmaze/pkg/pipeline"
)

// textFormats may be written to stdout.
var textFormats = map[string]bool{
	pipeline.FormatTXT:  true,
	pipeline.FormatTree: true,
	pipeline.FormatJSON: true,
	pipeline.FormatDOT:  true,
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // used when output is empty
	output    string
	noStdout  bool // always write files
}

// writeArtifacts writes each requested format. A single text format with no
// output path goes to stdout; everything else becomes <base>.<format>, or
// exactly the output path when only one format was requested.
// It returns the files written.
func (c *CLI) writeArtifacts(p artifactWriteParams) ([]string, error) {
	if !p.noStdout && len(p.formats) == 1 && p.output == "" && textFormats[p.formats[0]] {
		_, err := c.out.Write(p.artifacts[p.formats[0]])
		return nil, err
	}

	var written []string
	base := p.base
	if p.output != "" {
		base = basePath(p.output, "")
	}
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return written, fmt.Errorf("missing %s output", format)
		}
		path := base + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// levelBase is the default base path for a generated level.
func levelBase(name string, seed uint64) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("maze-%d", seed)
}
