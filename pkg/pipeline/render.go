package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/tiltmaze/pkg/level"
	"github.com/matzehuels/tiltmaze/pkg/maze"
	"github.com/matzehuels/tiltmaze/pkg/render"
	"github.com/matzehuels/tiltmaze/pkg/render/floorplan"
	"github.com/matzehuels/tiltmaze/pkg/render/nodelink"
	"github.com/matzehuels/tiltmaze/pkg/render/text"
)

// Render produces every requested format for m. l supplies the JSON
// artifact; it may be nil when json is not requested.
func Render(ctx context.Context, m *maze.Maze, l *level.Level, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	// The SVG and DOT sources are shared by the formats derived from them.
	var (
		svg []byte
		dot string
	)
	getDOT := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(m, nodelink.Options{Detailed: opts.Detailed})
		}
		return dot
	}
	getSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		if opts.IsNodelink() {
			svg, err = nodelink.RenderSVG(ctx, getDOT())
		} else {
			svg = floorplan.Render(m, floorplanOptions(opts)...)
		}
		return svg, err
	}

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatTXT:
			var to []text.Option
			if opts.Solution {
				to = append(to, text.WithSolution())
			}
			data = text.Render(m, to...)
		case FormatTree:
			data = text.RenderTree(m)
		case FormatJSON:
			if l == nil {
				return nil, fmt.Errorf("render json: no level document")
			}
			data, err = level.Marshal(l)
		case FormatDOT:
			data = []byte(getDOT())
		case FormatSVG:
			data, err = getSVG()
		case FormatPNG:
			if opts.IsNodelink() {
				data, err = nodelink.RenderPNG(ctx, getDOT(), DefaultPNGScale)
			} else if data, err = getSVG(); err == nil {
				data, err = render.ToPNG(ctx, data, DefaultPNGScale)
			}
		case FormatPDF:
			if opts.IsNodelink() {
				data, err = nodelink.RenderPDF(ctx, getDOT())
			} else if data, err = getSVG(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		default:
			return nil, ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func floorplanOptions(opts Options) []floorplan.Option {
	var fo []floorplan.Option
	if opts.CellSize > 0 {
		fo = append(fo, floorplan.WithCellSize(opts.CellSize))
	}
	if opts.Solution {
		fo = append(fo, floorplan.WithSolution())
	}
	if opts.Name != "" {
		fo = append(fo, floorplan.WithTitle(opts.Name))
	}
	return fo
}
