package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	painpoint "github.com/Lucas-Song-Dev/RedditPainpoint"
)

// setupEnv points the commands at a fresh database and hides any
// configuration of the host.
func setupEnv(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"PAINPOINT_CONFIG", "PAINPOINT_ADDR", "PAINPOINT_TOKEN", "PAINPOINT_SCHEDULE", "PAINPOINT_WORKERS"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("PAINPOINT_DB", filepath.Join(dir, "painpoint.db"))
	t.Setenv("PAINPOINT_LOG_LEVEL", "error")
	return dir
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	noColor = true

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandsRequireInput(t *testing.T) {
	setupEnv(t)
	for _, name := range []string{"analyze", "train"} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, name)
			if err == nil {
				t.Fatal("expected error for missing --input")
			}
			if !strings.Contains(err.Error(), "required") {
				t.Errorf("error = %q, want it to mention 'required'", err.Error())
			}
		})
	}
}

func TestPainpointsUnknownCategory(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "painpoints", "--category", "urgent")
	if err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Errorf("error = %v, want an unknown category error", err)
	}
}

func TestAnalyzePersistThenList(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "posts.jsonl")
	posts := `{"id":"p1","title":"Editor crashes constantly","body":"It is broken and I lost data twice"}
{"id":"p2","title":"Love the new release","body":"Great editor, works well"}
`
	if err := os.WriteFile(input, []byte(posts), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "analyze", "--input", input, "--persist")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var result painpoint.BatchResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("analyze output is not JSON: %v\n%s", err, out)
	}
	if result.PostsAnalyzed != 2 {
		t.Errorf("posts_analyzed = %d, want 2", result.PostsAnalyzed)
	}

	out, err = execute(t, "painpoints", "--category", "critical", "--json")
	if err != nil {
		t.Fatalf("painpoints: %v", err)
	}
	var records []painpoint.PainPointRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("painpoints output is not JSON: %v\n%s", err, out)
	}
	found := false
	for _, rec := range records {
		if rec.Category != painpoint.Critical {
			t.Errorf("record %s has category %s", rec.Key, rec.Category)
		}
		found = found || rec.Key == "critical:crash"
	}
	if !found {
		t.Errorf("critical:crash not listed in %+v", records)
	}

	out, err = execute(t, "painpoints")
	if err != nil {
		t.Fatalf("painpoints table: %v", err)
	}
	if !strings.HasPrefix(out, "SEVERITY") || !strings.Contains(out, "Critical: crash") {
		t.Errorf("table output = %q", out)
	}
}

func TestTrainRejectsSmallSet(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "samples.json")
	if err := os.WriteFile(input, []byte(`[{"text":"good","label":"positive"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "train", "--input", input)
	if err == nil || !strings.Contains(err.Error(), "insufficient") {
		t.Errorf("error = %v, want an insufficient data error", err)
	}
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	if result := colorize(colorGreen, "ok"); strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	if result := colorize(colorGreen, "ok"); !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}
