package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// 命令行参数是包级变量，测试之间需要复位
func resetFlags() {
	cfgFile, dbPath, logLevel = "", "", ""
	runInput, runSupplemental, runOutput = "", "", ""
	goalFile, goalOutput = "", ""
	servePort, serveDev = 0, false
	sampleStores, sampleMonth, sampleSeed, sampleOut = 20, "", 0, "sample.csv"
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSampleThenRun(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "missing.toml")
	db := filepath.Join(dir, "salesboard.db")
	csvPath := filepath.Join(dir, "sample.csv")
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "sample",
		"--config", cfgPath, "--db", db, "--log-level", "error",
		"--stores", "4", "--month", "202503", "--seed", "7", "--out", csvPath)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if !strings.Contains(out, csvPath) {
		t.Fatalf("unexpected sample output: %s", out)
	}

	out, err = execute(t, "run",
		"--config", cfgPath, "--db", db, "--log-level", "error",
		"--input", csvPath, "--output", outDir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "20250301~20250331") || !strings.Contains(out, "同比") {
		t.Fatalf("unexpected run output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "result.xlsx")); err != nil {
		t.Fatalf("workbook missing: %v", err)
	}
}

func TestSample_InvalidMonth(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "sample",
		"--config", filepath.Join(dir, "missing.toml"), "--log-level", "error",
		"--month", "2025-03", "--out", filepath.Join(dir, "s.csv"))
	if err == nil || !strings.Contains(err.Error(), "invalid month") {
		t.Fatalf("expected invalid month error, got %v", err)
	}
}

func TestRun_NoInput(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run",
		"--config", filepath.Join(dir, "missing.toml"),
		"--db", filepath.Join(dir, "salesboard.db"), "--log-level", "error")
	if err == nil {
		t.Fatalf("expected error without input")
	}
}
