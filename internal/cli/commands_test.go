package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/hyperpart/pkg/cache"
	"github.com/matzehuels/hyperpart/pkg/pipeline"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	return New(io.Discard, LogInfo).Execute(context.Background(), args)
}

func TestPartitionCommand(t *testing.T) {
	captureStdout(t)
	input := writeFile(t, "golden.hgr", goldenHMetis)
	report := filepath.Join(filepath.Dir(input), "report.json")

	err := run(t, "partition", input, "-k", "2", "--seed", "42", "--report", report, "--no-cache", "-q")
	if err != nil {
		t.Fatalf("partition: %v", err)
	}

	data, err := os.ReadFile(input + ".part2")
	if err != nil {
		t.Fatalf("partition file: %v", err)
	}
	if got, want := string(data), "0\n1\n0\n0\n1\n0\n1\n"; got != want {
		t.Errorf("partition file = %q, want %q", got, want)
	}

	var r pipeline.Report
	raw, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if r.Objective != 2001 || !r.Balanced || r.K != 2 {
		t.Errorf("report = %+v", r)
	}
}

func TestPartitionCommandSummary(t *testing.T) {
	out := captureStdout(t)
	input := writeFile(t, "golden.hgr", goldenHMetis)
	output := filepath.Join(filepath.Dir(input), "out.part")

	if err := run(t, "partition", input, "--seed", "42", "-o", output, "--no-cache"); err != nil {
		t.Fatalf("partition: %v", err)
	}
	for _, want := range []string{"Partitioned golden.hgr into 2 blocks", "2001", "out.part", "render"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output lacks %q:\n%s", want, out.String())
		}
	}
}

func TestPartitionCommandErrors(t *testing.T) {
	captureStdout(t)
	input := writeFile(t, "golden.hgr", goldenHMetis)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"partition", input + ".missing"}},
		{"zero blocks", []string{"partition", input, "-k", "0"}},
		{"unknown engine", []string{"partition", input, "--engine", "metis"}},
		{"unknown preset", []string{"partition", input, "--preset", "fastest"}},
		{"preset and config", []string{"partition", input, "--preset", "km1_fast", "-c", "x.toml"}},
		{"negative epsilon", []string{"partition", input, "--epsilon=-0.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, append(tt.args, "--no-cache", "-q")...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestInfoCommand(t *testing.T) {
	out := captureStdout(t)
	input := writeFile(t, "golden.hgr", goldenHMetis)

	if err := run(t, "info", input, "--json"); err != nil {
		t.Fatalf("info: %v", err)
	}
	var stats struct {
		NumVertices   int   `json:"num_vertices"`
		NumHyperedges int   `json:"num_hyperedges"`
		NumPins       int   `json:"num_pins"`
		TotalWeight   int64 `json:"total_vertex_weight"`
	}
	if err := json.Unmarshal(out.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if stats.NumVertices != 7 || stats.NumHyperedges != 4 || stats.NumPins != 12 || stats.TotalWeight != 28 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestValidateCommand(t *testing.T) {
	out := captureStdout(t)
	input := writeFile(t, "golden.hgr", goldenHMetis)
	dir := filepath.Dir(input)

	good := filepath.Join(dir, "good.part")
	os.WriteFile(good, []byte("0\n1\n0\n0\n1\n0\n1\n"), 0o644)
	bad := filepath.Join(dir, "bad.part")
	os.WriteFile(bad, []byte("0\n0\n0\n0\n0\n0\n1\n"), 0o644)
	short := filepath.Join(dir, "short.part")
	os.WriteFile(short, []byte("0\n1\n"), 0o644)

	if err := run(t, "validate", input); err != nil {
		t.Errorf("validate hypergraph: %v", err)
	}
	if err := run(t, "validate", input, good); err != nil {
		t.Errorf("validate good partition: %v", err)
	}
	if !strings.Contains(out.String(), "2001") {
		t.Errorf("output lacks km1 value:\n%s", out.String())
	}
	if err := run(t, "validate", input, bad); err == nil {
		t.Error("imbalanced partition passed")
	}
	if err := run(t, "validate", input, short); err == nil {
		t.Error("short partition passed")
	}
}

func TestRenderCommandDOT(t *testing.T) {
	captureStdout(t)
	input := writeFile(t, "golden.hgr", goldenHMetis)
	dir := filepath.Dir(input)
	part := filepath.Join(dir, "golden.part")
	os.WriteFile(part, []byte("0\n1\n0\n0\n1\n0\n1\n"), 0o644)
	output := filepath.Join(dir, "golden.dot")

	if err := run(t, "render", input, part, "-o", output); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"graph H {", "cluster_0", "cluster_1", "#d62728"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("DOT lacks %q", want)
		}
	}
}

func TestRenderFormat(t *testing.T) {
	tests := []struct {
		flag, output string
		want         string
		wantErr      bool
	}{
		{"", "", "svg", false},
		{"", "out.PNG", "png", false},
		{"pdf", "out.svg", "pdf", false},
		{"", "out.dot", "dot", false},
		{"gif", "", "", true},
		{"", "out.txt", "", true},
	}
	for _, tt := range tests {
		got, err := renderFormat(tt.flag, tt.output)
		if (err != nil) != tt.wantErr {
			t.Errorf("renderFormat(%q, %q) error = %v", tt.flag, tt.output, err)
			continue
		}
		if got != tt.want {
			t.Errorf("renderFormat(%q, %q) = %q, want %q", tt.flag, tt.output, got, tt.want)
		}
	}
}

func TestBlocksOf(t *testing.T) {
	tests := []struct {
		assignment []int
		want       int
	}{
		{nil, 1},
		{[]int{0, 0}, 1},
		{[]int{0, 3, 1}, 4},
	}
	for _, tt := range tests {
		if got := blocksOf(tt.assignment); got != tt.want {
			t.Errorf("blocksOf(%v) = %d, want %d", tt.assignment, got, tt.want)
		}
	}
}

func TestPresetsCommand(t *testing.T) {
	out := captureStdout(t)
	if err := run(t, "presets"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"km1_direct", "cut_direct", "km1_recursive", "km1_fast"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("presets lacks %q", want)
		}
	}

	out.Reset()
	if err := run(t, "presets", "show", "cut_direct"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `objective = "cut"`) {
		t.Errorf("show cut_direct:\n%s", out.String())
	}
	if err := run(t, "presets", "show", "nope"); err == nil {
		t.Error("unknown preset shown")
	}
}

func TestEnginesCommand(t *testing.T) {
	out := captureStdout(t)
	if err := run(t, "engines"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "builtin (default)") {
		t.Errorf("engines = %q", out.String())
	}
}

func TestCacheCommands(t *testing.T) {
	out := captureStdout(t)
	dir := t.TempDir()
	t.Setenv(cache.DirEnv, dir)

	if err := run(t, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "partition:abc", []byte("x"), time.Hour); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := run(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared 1 cached entries") {
		t.Errorf("clear output = %q", out.String())
	}
	if _, ok, _ := fc.Get(ctx, "partition:abc"); ok {
		t.Error("entry survived clear")
	}
}

func TestPartitionUsesCache(t *testing.T) {
	out := captureStdout(t)
	t.Setenv(cache.DirEnv, t.TempDir())
	t.Setenv(cache.URLEnv, "")
	input := writeFile(t, "golden.hgr", goldenHMetis)

	for i := 0; i < 2; i++ {
		if err := run(t, "partition", input, "--seed", "7"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if !strings.Contains(out.String(), "cached") {
		t.Errorf("second run not served from cache:\n%s", out.String())
	}
}

func TestCompletionCommand(t *testing.T) {
	out := captureStdout(t)
	if err := run(t, "completion", "bash"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "hyperpart") {
		t.Error("bash completion does not mention the program")
	}
}

func TestFlagCompletions(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	partition, _, err := root.Find([]string{"partition"})
	if err != nil {
		t.Fatal(err)
	}

	complete, ok := partition.GetFlagCompletionFunc("preset")
	if !ok {
		t.Fatal("no completion for --preset")
	}
	got, _ := complete(partition, nil, "")
	if !slices.Contains(got, "km1_direct") {
		t.Errorf("--preset completions = %v", got)
	}

	complete, ok = partition.GetFlagCompletionFunc("engine")
	if !ok {
		t.Fatal("no completion for --engine")
	}
	if got, _ := complete(partition, nil, ""); !slices.Contains(got, "builtin") {
		t.Errorf("--engine completions = %v", got)
	}
}
