package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daryltucker/lexbench/internal/history"
	"github.com/daryltucker/lexbench/internal/output"
)

const benchFixture = `{
  "questions": [
    {
      "id": "c1",
      "type": "conflict_gap",
      "question": "What penalty applies after termination?",
      "should_abstain": true
    },
    {
      "id": "f1",
      "type": "fact_exact",
      "question": "What is the total amount?",
      "expected": {"amount_total": 5000},
      "scoring": {"numeric_exact": true}
    }
  ]
}`

// setupBench creates a bench dir in a fresh working directory.
func setupBench(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	qdir := filepath.Join(dir, "questions")
	if err := os.MkdirAll(qdir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(qdir, "mixed.json"), []byte(benchFixture), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	prev := output.Logger
	t.Cleanup(func() { output.SetLogger(prev) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

func TestRun_MockBelowThreshold(t *testing.T) {
	dir := setupBench(t)
	report := filepath.Join(dir, "out", "report.json")
	csvPath := filepath.Join(dir, "out.csv")
	promPath := filepath.Join(dir, "lexbench.prom")
	dbPath := filepath.Join(dir, "history.db")

	out, err := execute(t, "run", "-o", report, "--csv", csvPath,
		"--metrics-file", promPath, "--history-db", dbPath)

	// The mock answer never abstains and carries no amount, so nothing passes.
	if !errors.Is(err, ErrThresholdNotMet) {
		t.Fatalf("err = %v, want ErrThresholdNotMet", err)
	}
	if !strings.Contains(out, "Passed 0/2") {
		t.Errorf("summary missing from output:\n%s", out)
	}
	if !strings.Contains(out, "Failed questions:") {
		t.Errorf("failure table missing from output:\n%s", out)
	}
	for _, p := range []string{report, csvPath, promPath, dbPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}
	rows := readCSV(t, csvPath)
	if len(rows) != 3 {
		t.Errorf("csv rows = %d, want header + 2", len(rows))
	}

	hist, err := execute(t, "history", "--history-db", dbPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(hist, "0/2") || !strings.Contains(hist, report) {
		t.Errorf("history output missing run:\n%s", hist)
	}
}

func TestRun_ZeroThresholdSucceeds(t *testing.T) {
	dir := setupBench(t)
	_, err := execute(t, "run", "--pass-threshold", "0", "-o", filepath.Join(dir, "r.json"), "--markdown")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	setupBench(t)
	_, err := execute(t, "run", "--system", "http")
	if err == nil || !strings.Contains(err.Error(), "system.url") {
		t.Errorf("err = %v, want system.url validation error", err)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	dir := setupBench(t)
	cfgPath := filepath.Join(dir, "lexbench.yaml")
	content := "output: from-config.json\npass_threshold: 0\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "run"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "from-config.json")); err != nil {
		t.Errorf("report not written to configured path: %v", err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestRun_InterruptedRunStillRecorded(t *testing.T) {
	dir := setupBench(t)
	dbPath := filepath.Join(dir, "history.db")
	csvPath := filepath.Join(dir, "out.csv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := executeContext(t, ctx, "run", "--pass-threshold", "0",
		"-o", filepath.Join(dir, "r.json"), "--csv", csvPath, "--history-db", dbPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	store, err := history.Open(dbPath)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	runs, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 || runs[0].Total != 2 || runs[0].Passed != 0 {
		t.Errorf("runs = %+v, want one run with 2 failed questions", runs)
	}
	if rows := readCSV(t, csvPath); len(rows) != 3 {
		t.Errorf("csv rows = %d, want header + 2", len(rows))
	}
}

func TestRunAndList_RejectUnknownType(t *testing.T) {
	setupBench(t)
	for _, args := range [][]string{
		{"run", "--type", "../x"},
		{"run", "--type", "multi_hop"},
		{"list", "--type", "../x"},
	} {
		_, err := execute(t, args...)
		if err == nil || !strings.Contains(err.Error(), "unknown question type") {
			t.Errorf("%v: err = %v, want unknown question type", args, err)
		}
	}
}

func TestList(t *testing.T) {
	setupBench(t)
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"- conflict_gap: 1", "- fact_exact: 1", "Total: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestHistory_RequiresDatabase(t *testing.T) {
	setupBench(t)
	if _, err := execute(t, "history"); err == nil {
		t.Error("expected error without a history database")
	}
}
