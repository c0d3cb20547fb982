package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"weektrack/pkg/domain"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WEEKTRACK_STORAGE_DRIVER", "fs")
	t.Setenv("WEEKTRACK_BLOB_FS_ROOT", filepath.Join(dir, "data"))
	t.Setenv("WEEKTRACK_METRICS_FILE", filepath.Join(dir, "weektrack.prom"))
	return dir
}

func execCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--config", ""}, args...)
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func mustExec(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCLI(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

// idAfter returns the bracketed identifier on the first output line containing label.
func idAfter(t *testing.T, out, label string) string {
	t.Helper()
	re := regexp.MustCompile(`\[([^\]]+)\]\s*$`)
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, label) {
			continue
		}
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	t.Fatalf("no id for %q in output:\n%s", label, out)
	return ""
}

func TestFirstRunSeedsExampleProject(t *testing.T) {
	setupEnv(t)
	out := mustExec(t, "list")
	for _, want := range []string{"DSP/CV Group Project", "Week 12: Oct 20 - Oct 26", "[x] Ordered selfie stick", "DSP LAB"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestThesisWorkflowPersistsAcrossInvocations(t *testing.T) {
	setupEnv(t)
	out := mustExec(t, "project", "add", "Thesis")
	if !strings.Contains(out, "Week 1: "+domain.DefaultWeekDates) || !strings.Contains(out, domain.DefaultProjectCategory) {
		t.Fatalf("expected default week and category:\n%s", out)
	}
	pid := idAfter(t, out, "Thesis")

	out = mustExec(t, "task", "add", pid, domain.DefaultProjectCategory, "Draft", "outline")
	tid := idAfter(t, out, "Draft outline")

	out = mustExec(t, "task", "toggle", tid)
	if !strings.Contains(out, "[x] Draft outline") || !strings.Contains(out, "(1/1 done)") {
		t.Fatalf("expected completed task:\n%s", out)
	}

	out = mustExec(t, "week", "add", pid, "Nov 3 - Nov 9")
	if !strings.Contains(out, "Week 2: Nov 3 - Nov 9") || !strings.Contains(out, domain.DefaultWeekCategoryName) {
		t.Fatalf("expected second week:\n%s", out)
	}

	out = mustExec(t, "list", pid)
	if !strings.Contains(out, "[x] Draft outline") {
		t.Fatalf("toggle not persisted:\n%s", out)
	}
}

func TestCategoryAndWeekCommands(t *testing.T) {
	setupEnv(t)
	pid := idAfter(t, mustExec(t, "project", "add", "Thesis"), "Thesis")

	out := mustExec(t, "category", "add", pid, "1", "Reading")
	if !strings.Contains(out, "    Reading") {
		t.Fatalf("expected new category:\n%s", out)
	}
	out = mustExec(t, "category", "rename", pid, "1", "Reading", "Literature")
	if strings.Contains(out, "    Reading") || !strings.Contains(out, "    Literature") {
		t.Fatalf("expected renamed category:\n%s", out)
	}
	if _, err := execCLI(t, "category", "add", pid, "1", "Literature"); err == nil {
		t.Fatalf("expected duplicate category to be rejected")
	}
	out = mustExec(t, "category", "delete", pid, "1", "Literature")
	if strings.Contains(out, "Literature") {
		t.Fatalf("expected category removed:\n%s", out)
	}

	out = mustExec(t, "week", "rename", pid, "1", "Sep 1 - Sep 7")
	if !strings.Contains(out, "Week 1: Sep 1 - Sep 7") {
		t.Fatalf("expected renamed week:\n%s", out)
	}
	out = mustExec(t, "week", "delete", pid, "1")
	if strings.Contains(out, "Week 1") {
		t.Fatalf("expected week removed:\n%s", out)
	}
	if _, err := execCLI(t, "week", "delete", pid, "zero"); err == nil {
		t.Fatalf("expected bad week number to be rejected")
	}
}

func TestDeleteCommandsReportMissingTargets(t *testing.T) {
	setupEnv(t)
	if _, err := execCLI(t, "task", "delete", "nonexistent"); err == nil {
		t.Fatalf("expected not found error")
	}
	out := mustExec(t, "list")
	if !strings.Contains(out, "DSP/CV Group Project") {
		t.Fatalf("store should be unchanged:\n%s", out)
	}
	pid := idAfter(t, out, "DSP/CV Group Project")
	out = mustExec(t, "project", "delete", pid)
	if strings.TrimSpace(out) != "No projects." {
		t.Fatalf("expected empty tree, got:\n%s", out)
	}
}

func TestRenameRejectsBlankNames(t *testing.T) {
	setupEnv(t)
	pid := idAfter(t, mustExec(t, "project", "add", "Thesis"), "Thesis")
	if _, err := execCLI(t, "project", "rename", pid, "   "); err == nil {
		t.Fatalf("expected validation error")
	}
	out := mustExec(t, "list", pid)
	if !strings.Contains(out, "Thesis") {
		t.Fatalf("name should be unchanged:\n%s", out)
	}
}

func TestExportImportLegacyArray(t *testing.T) {
	dir := setupEnv(t)
	legacy := `[{"id":1729000000000,"name":"Legacy","weeks":[{"number":1,"dates":"Jan 1 - Jan 7","categories":[{"name":"General Tasks","tasks":[{"id":1729000000001,"description":"Old task","completed":true}]}]}]}]`
	path := filepath.Join(dir, "legacy.json")
	if err := os.WriteFile(path, []byte(legacy), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := mustExec(t, "import", path)
	if !strings.Contains(out, "Legacy") || !strings.Contains(out, "[x] Old task  [1729000000001]") {
		t.Fatalf("unexpected import output:\n%s", out)
	}
	if strings.Contains(out, "DSP/CV Group Project") {
		t.Fatalf("import should replace the seeded tree:\n%s", out)
	}

	exported := filepath.Join(dir, "export.json")
	mustExec(t, "export", "--out", exported)
	data, err := os.ReadFile(exported)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), `"id":"1729000000001"`) {
		t.Fatalf("expected string identifiers in export: %s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "weektrack.prom")); err != nil {
		t.Fatalf("expected metrics textfile: %v", err)
	}
}

func TestWeekAddRequiresDates(t *testing.T) {
	setupEnv(t)
	pid := idAfter(t, mustExec(t, "project", "add", "Thesis"), "Thesis")
	if _, err := execCLI(t, "week", "add", pid); err == nil {
		t.Fatalf("expected an error when dates are missing")
	}
	if _, err := execCLI(t, "week", "add", pid, "  "); err == nil {
		t.Fatalf("expected validation error for blank dates")
	}
	if out := mustExec(t, "list", pid); strings.Contains(out, "Week 2") {
		t.Fatalf("no week should have been added:\n%s", out)
	}
}

func TestResetRemovesSnapshotAndReseeds(t *testing.T) {
	setupEnv(t)
	mustExec(t, "project", "add", "Thesis")
	if out := mustExec(t, "reset"); !strings.Contains(out, "Snapshot removed.") {
		t.Fatalf("unexpected reset output:\n%s", out)
	}
	if out := mustExec(t, "reset"); !strings.Contains(out, "Nothing stored.") {
		t.Fatalf("unexpected second reset output:\n%s", out)
	}
	out := mustExec(t, "list")
	if strings.Contains(out, "Thesis") || !strings.Contains(out, "DSP/CV Group Project") {
		t.Fatalf("expected only the sample project after reset:\n%s", out)
	}
}
