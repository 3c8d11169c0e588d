package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/shaderinc/pkg/config"
	errs "github.com/matzehuels/shaderinc/pkg/errors"
)

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// newProject writes a project with the cache disabled and returns its
// directory and config path.
func newProject(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, config.FileTOML, "[cache]\nbackend = \"none\"\n")
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	return dir, cfgPath
}

func TestResolveCommand(t *testing.T) {
	dir, cfg := newProject(t, map[string]string{
		"main.frag":   "#include \"common.glsl\"\nvoid main() {}",
		"common.glsl": "float x;",
	})

	out, err := runCLI(t, "--config", cfg, "resolve", filepath.Join(dir, "main.frag"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out != "float x;\nvoid main() {}" {
		t.Errorf("output = %q", out)
	}
}

func TestResolveCommand_OutputFile(t *testing.T) {
	dir, cfg := newProject(t, map[string]string{
		"main.frag":   `#include "common.glsl"`,
		"common.glsl": "C",
	})
	output := filepath.Join(dir, "build", "main.frag")
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "--config", cfg, "resolve", filepath.Join(dir, "main.frag"), "-o", output); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "C" {
		t.Errorf("output file = %q", data)
	}
}

func TestResolveCommand_Relative(t *testing.T) {
	dir, cfg := newProject(t, map[string]string{
		"post/bloom.frag": `#include "blur.glsl"`,
		"post/blur.glsl":  "BLUR",
	})

	if _, err := runCLI(t, "--config", cfg, "resolve", filepath.Join(dir, "post", "bloom.frag")); !errs.Is(err, errs.ErrCodePathUnresolvable) {
		t.Fatalf("root mode error = %v, want PATH_UNRESOLVABLE", err)
	}
	out, err := runCLI(t, "--config", cfg, "resolve", "--relative", filepath.Join(dir, "post", "bloom.frag"))
	if err != nil {
		t.Fatalf("relative mode: %v", err)
	}
	if out != "BLUR" {
		t.Errorf("output = %q", out)
	}
}

func TestResolveCommand_Errors(t *testing.T) {
	dir, cfg := newProject(t, map[string]string{
		"a.glsl":    `#include "b.glsl"`,
		"b.glsl":    `#include "a.glsl"`,
		"deep.frag": `#include "one.glsl"`,
		"one.glsl":  `#include "two.glsl"`,
		"two.glsl":  "2",
	})

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"cycle", []string{filepath.Join(dir, "a.glsl")}, errs.ErrCodeCircularDependency},
		{"missing root", []string{filepath.Join(dir, "nope.frag")}, errs.ErrCodePathUnresolvable},
		{"max depth", []string{"--max-depth", "1", filepath.Join(dir, "deep.frag")}, errs.ErrCodeMaxDepthExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "resolve"}, tt.args...)
			out, err := runCLI(t, args...)
			if !errs.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if out != "" {
				t.Errorf("failed resolve wrote output %q", out)
			}
		})
	}
}

func TestCheckCommand(t *testing.T) {
	dir, cfg := newProject(t, map[string]string{
		"ok.frag":     `#include "common.glsl"`,
		"common.glsl": "C",
		"loop.frag":   `#include "loop.frag"`,
		"notes.txt":   `#include "missing"`,
	})

	if _, err := runCLI(t, "--config", cfg, "check", filepath.Join(dir, "ok.frag")); err != nil {
		t.Errorf("check ok.frag: %v", err)
	}
	if _, err := runCLI(t, "--config", cfg, "check", filepath.Join(dir, "ok.frag"), filepath.Join(dir, "loop.frag")); !errors.Is(err, ErrReported) {
		t.Errorf("check with cycle = %v, want ErrReported", err)
	}
	if _, err := runCLI(t, "--config", cfg, "check", "--dir", dir); !errors.Is(err, ErrReported) {
		t.Errorf("check --dir = %v, want ErrReported", err)
	}
	if _, err := runCLI(t, "--config", cfg, "check"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("check without files = %v, want INVALID_INPUT", err)
	}
}

func TestFindSources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.frag", "lib/b.glsl", "lib/readme.md", ".git/c.glsl", "d.VERT"} {
		writeFile(t, dir, name, "")
	}

	files, err := findSources(dir, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f)
		got = append(got, filepath.ToSlash(rel))
	}
	want := "a.frag d.VERT lib/b.glsl"
	if strings.Join(got, " ") != want {
		t.Errorf("findSources() = %v, want %s", got, want)
	}
}

func TestGraphCommand(t *testing.T) {
	dir, cfg := newProject(t, map[string]string{
		"main.frag":   `#include "common.glsl"`,
		"common.glsl": "C",
		"a.glsl":      `#include "b.glsl"`,
		"b.glsl":      `#include "a.glsl"`,
	})

	out, err := runCLI(t, "--config", cfg, "graph", filepath.Join(dir, "main.frag"))
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.HasPrefix(out, "digraph includes {") || !strings.Contains(out, `label="common.glsl"`) {
		t.Errorf("dot output = %q", out)
	}

	out, err = runCLI(t, "--config", cfg, "graph", "--format", "tree", filepath.Join(dir, "a.glsl"))
	if !errs.Is(err, errs.ErrCodeCircularDependency) {
		t.Fatalf("graph of cycle error = %v", err)
	}
	if !strings.Contains(out, "b.glsl") || !strings.Contains(out, "↺") {
		t.Errorf("partial tree should mark the cycle, got %q", out)
	}

	if _, err := runCLI(t, "--config", cfg, "graph", "--format", "png", filepath.Join(dir, "main.frag")); err == nil {
		t.Error("invalid format should fail")
	}
}

func TestGenCommand(t *testing.T) {
	dir, cfg := newProject(t, map[string]string{
		"main.frag":   "#include \"common.glsl\"\nvoid main() {}\n",
		"common.glsl": "float x;",
	})
	output := filepath.Join(dir, "main_frag.go")

	_, err := runCLI(t, "--config", cfg, "gen", `"`+filepath.Join(dir, "main.frag")+`"`,
		"-p", "shaders", "-n", "MainFrag", "-o", output)
	if err != nil {
		t.Fatalf("gen: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	src := string(data)
	for _, want := range []string{
		"// Code generated by shaderinc gen; DO NOT EDIT.",
		"//   - main.frag\n//   - common.glsl\n",
		"package shaders",
		`const MainFrag = "float x;\nvoid main() {}\n"`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q:\n%s", want, src)
		}
	}
}

func TestGenCommand_MalformedInvocation(t *testing.T) {
	_, cfg := newProject(t, nil)

	tests := [][]string{
		{},
		{"a.frag", "b.frag"},
		{`"a.frag`},
		{`""`},
	}
	for _, args := range tests {
		_, err := runCLI(t, append([]string{"--config", cfg, "gen"}, args...)...)
		if !errs.Is(err, errs.ErrCodeMalformedInvocation) {
			t.Errorf("gen %q error = %v, want MALFORMED_INVOCATION", args, err)
		}
	}

	if _, err := runCLI(t, "--config", cfg, "gen", "a.frag", "-n", "not-an-ident"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad constant name error = %v", err)
	}
}

func TestGenerateConst(t *testing.T) {
	src, err := generateConst("shaders", "Blit", "a\tb\n", []string{"/p/blit.frag"}, "/p")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(src), `const Blit = "a\tb\n"`) {
		t.Errorf("generateConst() = %s", src)
	}
}

func TestConfigInitCommand(t *testing.T) {
	for _, tt := range []struct {
		flag string
		file string
	}{
		{"", config.FileTOML},
		{"--yaml", config.FileYAML},
	} {
		t.Run(tt.file, func(t *testing.T) {
			dir := t.TempDir()
			args := []string{"config", "init", dir}
			if tt.flag != "" {
				args = append(args, tt.flag)
			}
			if _, err := runCLI(t, args...); err != nil {
				t.Fatalf("config init: %v", err)
			}
			cfg, err := config.Load(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("generated config does not load: %v", err)
			}
			if cfg.Cache.Backend != config.BackendFile {
				t.Errorf("backend = %q", cfg.Cache.Backend)
			}

			if _, err := runCLI(t, args...); !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("second init error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, config.FileTOML, "[cache]\nbackend = \"memcached\"\n")
	writeFile(t, dir, "a.frag", "A")

	_, err := runCLI(t, "--config", cfgPath, "resolve", filepath.Join(dir, "a.frag"))
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestFormatError(t *testing.T) {
	err := errs.CircularDependency([]string{"/a", "/b", "/a"})
	msg := FormatError(err)
	if !strings.Contains(msg, "CIRCULAR_DEPENDENCY") || !strings.Contains(msg, "/a -> /b -> /a") {
		t.Errorf("FormatError() = %q", msg)
	}
}
