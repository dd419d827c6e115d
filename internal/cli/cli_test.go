package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points config and database at a temp dir and clears the env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PLANBOARD_CONFIG_DIR", dir)
	t.Setenv("PLANBOARD_DB", filepath.Join(dir, "test.sqlite"))
	t.Setenv("PLANBOARD_ACTOR", "")
	t.Setenv("PLANBOARD_FORMAT", "")
	t.Setenv("PLANBOARD_DEBUG_LOG", "")
	return dir
}

func mustRunJSON(t *testing.T, args ...string) (map[string]any, string) {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: planboard %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env, string(stderr)
}

func dataField(env map[string]any, k string) any {
	m, _ := env["data"].(map[string]any)
	return m[k]
}

func setupUserAndProject(t *testing.T) (userID, projectID string) {
	t.Helper()
	mustRunJSON(t, "init")
	u, _ := mustRunJSON(t, "users", "create", "--name", "Ada", "--email", "ada@example.com", "--use")
	userID, _ = dataField(u, "id").(string)
	if userID == "" {
		t.Fatalf("expected user id; got %#v", u["data"])
	}
	p, _ := mustRunJSON(t, "projects", "create", "--name", "Website", "--use")
	projectID, _ = dataField(p, "id").(string)
	if projectID == "" {
		t.Fatalf("expected project id; got %#v", p["data"])
	}
	return userID, projectID
}

func TestCLI_TaskLifecycle(t *testing.T) {
	isolate(t)
	userID, projectID := setupUserAndProject(t)

	who, _ := mustRunJSON(t, "whoami")
	if dataField(who, "id") != userID {
		t.Fatalf("expected whoami %s; got %#v", userID, who["data"])
	}

	created, stderr := mustRunJSON(t, "tasks", "create", "--title", "Draft homepage copy", "--description", "Hero + pricing")
	taskID, _ := dataField(created, "id").(string)
	if taskID == "" || dataField(created, "projectId") != projectID || dataField(created, "status") != "pending" {
		t.Fatalf("unexpected created task: %#v", created["data"])
	}
	if !strings.Contains(stderr, "Task created") {
		t.Fatalf("expected create notification on stderr; got %q", stderr)
	}

	toggled, stderr := mustRunJSON(t, "tasks", "toggle", taskID)
	if dataField(toggled, "status") != "in_progress" {
		t.Fatalf("expected in_progress after toggle; got %#v", toggled["data"])
	}
	if !strings.Contains(stderr, "Task marked In progress") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
	meta, _ := toggled["meta"].(map[string]any)
	sel, _ := meta["selection"].(map[string]any)
	if sel["status"] != "in_progress" || meta["patched"] != true {
		t.Fatalf("expected patched selection in meta; got %#v", meta)
	}

	edited, _ := mustRunJSON(t, "tasks", "edit", taskID, "--title", "Homepage copy", "--clear-description")
	if dataField(edited, "title") != "Homepage copy" || dataField(edited, "description") != nil {
		t.Fatalf("unexpected edited task: %#v", edited["data"])
	}

	list, _ := mustRunJSON(t, "tasks", "list", "--status", "doing")
	if xs, _ := list["data"].([]any); len(xs) != 1 {
		t.Fatalf("expected one in-progress task; got %#v", list["data"])
	}

	if _, _, err := runCLI(t, []string{"tasks", "delete", taskID}); err == nil {
		t.Fatalf("expected delete without --yes to fail")
	}
	del, _ := mustRunJSON(t, "tasks", "delete", taskID, "--yes")
	if dataField(del, "deleted") != true {
		t.Fatalf("unexpected delete result: %#v", del["data"])
	}

	again, stderr := mustRunJSON(t, "tasks", "delete", taskID, "--yes")
	if dataField(again, "alreadyRemoved") != true {
		t.Fatalf("expected second delete to report already removed; got %#v", again["data"])
	}
	if !strings.Contains(stderr, "already removed") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}

	if _, _, err := runCLI(t, []string{"tasks", "show", taskID}); err == nil {
		t.Fatalf("expected show of deleted task to fail")
	}
}

func TestCLI_CommentsAuthorOnlyEdit(t *testing.T) {
	isolate(t)
	_, projectID := setupUserAndProject(t)
	task, _ := mustRunJSON(t, "tasks", "create", "--title", "Review logo")
	taskID, _ := dataField(task, "id").(string)

	c, _ := mustRunJSON(t, "comments", "add", "--task", taskID, "--body", "Looks good")
	commentID, _ := dataField(c, "id").(string)
	if commentID == "" || dataField(c, "projectId") != projectID || dataField(c, "taskId") != taskID {
		t.Fatalf("unexpected comment: %#v", c["data"])
	}

	bob, _ := mustRunJSON(t, "users", "create", "--name", "Bob")
	bobID, _ := dataField(bob, "id").(string)
	_, stderr, err := runCLI(t, []string{"--actor", bobID, "comments", "edit", commentID, "--body", "Hijacked"})
	if err == nil || !strings.Contains(string(stderr), "permission denied") {
		t.Fatalf("expected permission error; err=%v stderr=%q", err, stderr)
	}

	edited, _ := mustRunJSON(t, "comments", "edit", commentID, "--body", "Looks great")
	if dataField(edited, "content") != "Looks great" {
		t.Fatalf("unexpected edit: %#v", edited["data"])
	}

	list, _ := mustRunJSON(t, "comments", "list", "--task", taskID)
	if xs, _ := list["data"].([]any); len(xs) != 1 {
		t.Fatalf("expected one comment; got %#v", list["data"])
	}

	mustRunJSON(t, "comments", "delete", commentID, "--yes")
	again, _ := mustRunJSON(t, "comments", "delete", commentID, "--yes")
	if dataField(again, "alreadyRemoved") != true {
		t.Fatalf("expected already removed; got %#v", again["data"])
	}
}

func TestCLI_UnknownActorIsRejected(t *testing.T) {
	isolate(t)
	setupUserAndProject(t)
	_, stderr, err := runCLI(t, []string{"--actor", "usr-nobody1", "tasks", "create", "--title", "x"})
	if err == nil || !strings.Contains(string(stderr), "permission denied") {
		t.Fatalf("expected permission error; err=%v stderr=%q", err, stderr)
	}
}

func TestCLI_ValidationErrors(t *testing.T) {
	isolate(t)
	setupUserAndProject(t)
	_, stderr, err := runCLI(t, []string{"tasks", "create", "--title", "   "})
	if err == nil || !strings.Contains(string(stderr), "title: required") {
		t.Fatalf("expected title validation error; err=%v stderr=%q", err, stderr)
	}
}

func TestCLI_YAMLOutput(t *testing.T) {
	isolate(t)
	setupUserAndProject(t)
	mustRunJSON(t, "clients", "create", "--name", "Acme", "--email", "hi@acme.test")

	stdout, stderr, err := runCLI(t, []string{"--format", "yaml", "clients", "list"})
	if err != nil {
		t.Fatalf("clients list: %v\n%s", err, stderr)
	}
	var env struct {
		Data []struct {
			Name  string `yaml:"name"`
			Email string `yaml:"email"`
		} `yaml:"data"`
	}
	if err := yaml.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal yaml: %v\n%s", err, stdout)
	}
	if len(env.Data) != 1 || env.Data[0].Name != "Acme" || env.Data[0].Email != "hi@acme.test" {
		t.Fatalf("unexpected yaml output:\n%s", stdout)
	}
}

func TestCLI_BriefingsAndProjectShow(t *testing.T) {
	isolate(t)
	_, projectID := setupUserAndProject(t)
	mustRunJSON(t, "briefings", "create", "--title", "Kickoff", "--content", "Goals for Q3")
	mustRunJSON(t, "tasks", "create", "--title", "One")

	show, _ := mustRunJSON(t, "projects", "show", projectID)
	data, _ := show["data"].(map[string]any)
	if xs, _ := data["briefings"].([]any); len(xs) != 1 {
		t.Fatalf("expected one briefing; got %#v", data["briefings"])
	}
	meta, _ := show["meta"].(map[string]any)
	if meta["pending"] != float64(1) {
		t.Fatalf("expected one pending task; got %#v", meta)
	}
}

func TestCLI_MissingProject(t *testing.T) {
	isolate(t)
	mustRunJSON(t, "init")
	mustRunJSON(t, "users", "create", "--name", "Ada", "--use")
	if _, _, err := runCLI(t, []string{"tasks", "list"}); err == nil {
		t.Fatalf("expected error without --project or default project")
	}
}

func TestCLI_ProjectExport(t *testing.T) {
	isolate(t)
	_, projectID := setupUserAndProject(t)
	created, _ := mustRunJSON(t, "tasks", "create", "--title", "Write copy")
	taskID, _ := dataField(created, "id").(string)

	out := t.TempDir()
	res, _ := mustRunJSON(t, "projects", "export", "--to", out)
	data, _ := res["data"].(map[string]any)
	if xs, _ := data["written"].([]any); len(xs) != 2 {
		t.Fatalf("expected index and one task page; got %#v", data["written"])
	}
	b, err := os.ReadFile(filepath.Join(out, "projects", projectID, "tasks", taskID+".md"))
	if err != nil {
		t.Fatalf("read task page: %v", err)
	}
	if !strings.Contains(string(b), "# Write copy") {
		t.Fatalf("unexpected task page:\n%s", b)
	}

	if _, _, err := runCLI(t, []string{"projects", "export", "--to", out}); err == nil {
		t.Fatalf("expected export to refuse overwriting without --overwrite")
	}
}

func TestCLI_Docs(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, []string{"docs", "statuses", "--raw"})
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if !strings.Contains(string(out), "in_progress") {
		t.Fatalf("unexpected docs output:\n%s", out)
	}
	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}
