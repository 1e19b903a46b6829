package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/tiltmaze/pkg/cache"
	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/level"
)

const testCampaign = `
[defaults]
size = 5

[[level]]
name = "intro"
size = 4
seed = 42
next = "caves"

[[level]]
name = "caves"
seed = 7
floor_hole_probability = 0.5
next = "finale"

[[level]]
name = "finale"
seed = 9
`

// newTestCLI returns a CLI writing results to a buffer, with cache and
// level store rooted in temporary directories.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.out = &out
	return c, &out
}

func execute(c *CLI, args ...string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestGenerateToStdout(t *testing.T) {
	c, out := newTestCLI(t)

	if err := execute(c, "generate", "--size", "4", "--seed", "7"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	first := out.String()
	if !strings.HasPrefix(first, "+---+") {
		t.Fatalf("output does not start with a wall line:\n%s", first)
	}
	if !strings.Contains(first, "S") || !strings.Contains(first, "E") {
		t.Errorf("output lacks start or end marker:\n%s", first)
	}
	if got := strings.Count(first, "\n"); got != 2*4+1 {
		t.Errorf("output has %d lines, want %d", got, 2*4+1)
	}

	out.Reset()
	if err := execute(c, "generate", "--size", "4", "--seed", "7", "--no-cache"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.String() != first {
		t.Error("same seed produced a different maze")
	}
}

func TestGenerateFiles(t *testing.T) {
	c, out := newTestCLI(t)
	base := filepath.Join(t.TempDir(), "levels", "intro")

	err := execute(c, "generate", "--size", "5", "--seed", "11", "--next", "caves",
		"-f", "txt,json,tree", "-o", base)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("file output also wrote to stdout: %q", out.String())
	}

	for _, ext := range []string{"txt", "json", "tree"} {
		if _, err := os.Stat(base + "." + ext); err != nil {
			t.Errorf("missing %s output: %v", ext, err)
		}
	}

	l, err := level.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read level: %v", err)
	}
	if l.Size != 5 || l.Seed != 11 || l.NextLevel != "caves" {
		t.Errorf("level = %+v", l.Summarize())
	}
	if _, err := l.ToMaze(); err != nil {
		t.Errorf("written level does not validate: %v", err)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code mazeerrors.Code
	}{
		{"size too small", []string{"generate", "--size", "1"}, mazeerrors.ErrCodeInvalidConfiguration},
		{"probability above one", []string{"generate", "--floor-hole", "1.5"}, mazeerrors.ErrCodeInvalidConfiguration},
		{"unknown format", []string{"generate", "-f", "gif"}, mazeerrors.ErrCodeInvalidFormat},
		{"unknown viz type", []string{"generate", "-t", "isometric"}, mazeerrors.ErrCodeInvalidVizType},
		{"unsafe name", []string{"generate", "--name", "../escape"}, mazeerrors.ErrCodeInvalidLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI(t)
			err := execute(c, tt.args...)
			if !mazeerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSavedLevelLifecycle(t *testing.T) {
	c, out := newTestCLI(t)

	if err := execute(c, "generate", "--size", "4", "--seed", "3", "--name", "intro", "--save", "-f", "json", "-o", filepath.Join(t.TempDir(), "x.json")); err != nil {
		t.Fatalf("generate --save: %v", err)
	}

	if err := execute(c, "levels", "list"); err != nil {
		t.Fatalf("levels list: %v", err)
	}
	if !strings.Contains(out.String(), "intro") {
		t.Errorf("listing lacks the saved level:\n%s", out.String())
	}

	out.Reset()
	if err := execute(c, "levels", "show", "intro", "--json"); err != nil {
		t.Fatalf("levels show: %v", err)
	}
	l, err := level.Unmarshal(out.Bytes())
	if err != nil {
		t.Fatalf("decode shown level: %v", err)
	}
	if l.Name != "intro" || l.Seed != 3 || l.ID == "" {
		t.Errorf("shown level = %+v", l.Summarize())
	}

	out.Reset()
	if err := execute(c, "render", l.ID, "-f", "tree"); err != nil {
		t.Fatalf("render stored level: %v", err)
	}
	if out.Len() == 0 {
		t.Error("render of stored level wrote nothing")
	}

	if err := execute(c, "levels", "delete", "intro"); err != nil {
		t.Fatalf("levels delete: %v", err)
	}
	err = execute(c, "levels", "show", l.ID)
	if !mazeerrors.Is(err, mazeerrors.ErrCodeLevelNotFound) {
		t.Errorf("show after delete: error = %v, want %s", err, mazeerrors.ErrCodeLevelNotFound)
	}
}

func TestRenderLevelFile(t *testing.T) {
	c, out := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "maze.json")

	if err := execute(c, "generate", "--size", "4", "--seed", "5", "-f", "json", "-o", path); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := execute(c, "render", path, "--solution"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), ".") {
		t.Errorf("solution render lacks path marks:\n%s", out.String())
	}

	out.Reset()
	if err := execute(c, "render", path, "-f", "dot", "-t", "nodelink"); err != nil {
		t.Fatalf("render dot: %v", err)
	}
	if !strings.HasPrefix(out.String(), "graph") {
		t.Errorf("dot output = %q", out.String())
	}
}

func TestRenderMissingFile(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := execute(c, "render", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("render of a missing file succeeded")
	}
}

func TestCampaign(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "campaign.toml")
	if err := os.WriteFile(path, []byte(testCampaign), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "all")
	if err := execute(c, "campaign", path, "-o", outDir); err != nil {
		t.Fatalf("campaign: %v", err)
	}
	for _, name := range []string{"intro", "caves", "finale"} {
		for _, ext := range []string{"txt", "json"} {
			if _, err := os.Stat(filepath.Join(outDir, name+"."+ext)); err != nil {
				t.Errorf("missing %s.%s: %v", name, ext, err)
			}
		}
	}

	intro, err := level.ReadFile(filepath.Join(outDir, "intro.json"))
	if err != nil {
		t.Fatal(err)
	}
	if intro.Size != 4 || intro.Seed != 42 || intro.NextLevel != "caves" {
		t.Errorf("intro = %+v", intro.Summarize())
	}
	caves, err := level.ReadFile(filepath.Join(outDir, "caves.json"))
	if err != nil {
		t.Fatal(err)
	}
	if caves.Size != 5 {
		t.Errorf("caves size = %d, want the campaign default 5", caves.Size)
	}

	chainDir := filepath.Join(dir, "chain")
	if err := execute(c, "campaign", path, "--level", "caves", "-f", "json", "-o", chainDir); err != nil {
		t.Fatalf("campaign --level: %v", err)
	}
	entries, err := os.ReadDir(chainDir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if strings.Join(names, ",") != "caves.json,finale.json" {
		t.Errorf("chain output = %v, want caves and finale only", names)
	}

	if err := execute(c, "campaign", path, "--level", "nowhere"); err == nil {
		t.Error("unknown start level accepted")
	}
}

func TestCacheCommands(t *testing.T) {
	c, out := newTestCLI(t)

	if err := execute(c, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	dir := strings.TrimSpace(out.String())
	want, _ := cacheDir()
	if dir != want {
		t.Errorf("cache path = %q, want %q", dir, want)
	}

	if err := execute(c, "generate", "--size", "3", "--seed", "1"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := execute(c, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n, err := fc.Clear(); err != nil || n != 0 {
		t.Errorf("entries left after clear = %d (err %v)", n, err)
	}
}

func TestServerRunner(t *testing.T) {
	c, _ := newTestCLI(t)
	ctx := context.Background()

	r, err := c.serverRunner(ctx, serveOpts{cacheKind: cacheNone})
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, ok := r.Cache.(cache.NullCache); !ok {
		t.Errorf("none cache = %T, want NullCache", r.Cache)
	}

	r, err = c.serverRunner(ctx, serveOpts{cacheKind: cacheFile})
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if _, ok := r.Cache.(*cache.FileCache); !ok {
		t.Errorf("file cache = %T, want *FileCache", r.Cache)
	}

	_, err = c.serverRunner(ctx, serveOpts{cacheKind: "memcached"})
	if !mazeerrors.Is(err, mazeerrors.ErrCodeInvalidConfiguration) {
		t.Errorf("unknown cache: error = %v", err)
	}
}

func TestServeRejectsUnknownStore(t *testing.T) {
	c, _ := newTestCLI(t)
	err := execute(c, "serve", "--store", "sqlite", "--cache", "none")
	if !mazeerrors.Is(err, mazeerrors.ErrCodeInvalidConfiguration) {
		t.Errorf("error = %v, want %s", err, mazeerrors.ErrCodeInvalidConfiguration)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "txt"},
		{"svg", "svg"},
		{"svg, PNG ,svg", "svg,png"},
		{",", "txt"},
	}

	for _, tt := range tests {
		if got := strings.Join(parseFormats(tt.input), ","); got != tt.want {
			t.Errorf("parseFormats(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv(envMongoURI, "")
	if got := envOr(envMongoURI, "fallback"); got != "fallback" {
		t.Errorf("envOr unset = %q", got)
	}
	t.Setenv(envMongoURI, "mongodb://db:27017")
	if got := envOr(envMongoURI, "fallback"); got != "mongodb://db:27017" {
		t.Errorf("envOr set = %q", got)
	}
}

func TestCompletionScript(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(c, "completion", "bash"); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out.String(), "tiltmaze") {
		t.Errorf("bash completion does not mention the binary:\n%.200s", out.String())
	}
}

func TestCompleteLevelRefs(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := execute(c, "generate", "--size", "3", "--seed", "5", "--name", "caves", "--save", "-f", "json", "-o", filepath.Join(t.TempDir(), "x.json")); err != nil {
		t.Fatalf("generate --save: %v", err)
	}

	for _, args := range [][]string{
		{"__complete", "play", "ca"},
		{"__complete", "levels", "show", ""},
	} {
		var buf bytes.Buffer
		root := c.RootCommand()
		root.SetArgs(args)
		root.SetOut(&buf)
		root.SetErr(io.Discard)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if !strings.Contains(buf.String(), "caves\t3x3 seed 5") {
			t.Errorf("%v: completions lack the saved level:\n%s", args, buf.String())
		}
	}

	var buf bytes.Buffer
	root := c.RootCommand()
	root.SetArgs([]string{"__complete", "play", "zz"})
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "caves") {
		t.Errorf("non-matching prefix still completed:\n%s", buf.String())
	}
}
