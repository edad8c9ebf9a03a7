//go:build smoke

package smoke

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/codr1/clubhouse/internal/testutil"
)

func TestServerStartup(t *testing.T) {
	baseURL := startServer(t)

	client := &http.Client{Timeout: 2 * time.Second}

	var tournament struct {
		ID     int64  `json:"id"`
		Format string `json:"format"`
	}
	postJSON(t, client, baseURL+"/api/v1/tournaments",
		`{"name": "Club Championship", "format": "round_robin"}`, http.StatusCreated, &tournament)
	if tournament.ID == 0 || tournament.Format != "round_robin" {
		t.Fatalf("unexpected tournament: %+v", tournament)
	}

	tournamentURL := fmt.Sprintf("%s/api/v1/tournaments/%d", baseURL, tournament.ID)
	for _, name := range []string{"Ana", "Ben", "Cleo", "Dev"} {
		postJSON(t, client, tournamentURL+"/participants",
			fmt.Sprintf(`{"names": [%q]}`, name), http.StatusCreated, nil)
	}

	var schedule struct {
		Matches []json.RawMessage `json:"matches"`
	}
	postJSON(t, client, tournamentURL+"/schedule", "", http.StatusCreated, &schedule)
	if len(schedule.Matches) != 6 {
		t.Fatalf("expected 6 round robin matches, got %d", len(schedule.Matches))
	}

	var standings struct {
		Groups []struct {
			Standings []json.RawMessage `json:"standings"`
		} `json:"groups"`
	}
	getJSON(t, client, tournamentURL+"/standings", &standings)
	if len(standings.Groups) != 1 || len(standings.Groups[0].Standings) != 4 {
		t.Fatalf("unexpected standings: %+v", standings)
	}
}

// startServer builds and runs the server binary against a throwaway config
// and returns its base URL once /health answers.
func startServer(t *testing.T) string {
	t.Helper()

	repoRoot := findRepoRoot(t)
	tempDir := t.TempDir()

	binPath := filepath.Join(tempDir, "clubhouse-server")
	buildCmd := exec.Command("go", "build", "-o", binPath, "./cmd/server")
	buildCmd.Dir = repoRoot
	buildOutput, err := buildCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build server: %v\n%s", err, buildOutput)
	}

	port := reservePort(t)
	configPath := filepath.Join(tempDir, "config.yaml")
	configBody := fmt.Sprintf(`app:
  name: "clubhouse"
  environment: "development"
  port: %d
  base_url: "http://localhost:%d"
  secret_key: "test-secret-key-for-smoke-tests-only"

database:
  driver: "sqlite"
  filename: "%s"

tournaments:
  default_bye_policy: "confirm"
  phone_region: "US"

scheduler:
  reminder_cron: "*/15 * * * *"
  reminder_hours: 24

features:
  enable_reminders: false
  enable_debug: true
`, port, port, filepath.ToSlash(filepath.Join(tempDir, "db", "smoke.db")))

	if err := os.WriteFile(configPath, []byte(configBody), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cmd := exec.Command(binPath)
	cmd.Dir = tempDir
	cmd.Env = append(os.Environ(), "CONFIG_PATH="+configPath)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	waitDone := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = cmd.Wait()
		close(waitDone)
	}()

	t.Cleanup(func() {
		if cmd.Process == nil {
			return
		}
		_ = cmd.Process.Signal(os.Interrupt)
		select {
		case <-waitDone:
			return
		case <-time.After(5 * time.Second):
		}
		_ = cmd.Process.Kill()
		select {
		case <-waitDone:
		case <-time.After(5 * time.Second):
			t.Logf("server process did not exit after kill")
		}
	})

	baseURL := fmt.Sprintf("http://localhost:%d", port)
	waitForHealth(t, baseURL+"/health", waitDone, func() string {
		return fmt.Sprintf("exit: %v\nstdout:\n%s\nstderr:\n%s", waitErr, stdout.String(), stderr.String())
	})

	return baseURL
}

func waitForHealth(t *testing.T, healthURL string, exited <-chan struct{}, output func() string) {
	t.Helper()

	client := &http.Client{Timeout: 500 * time.Millisecond}
	deadline := time.Now().Add(10 * time.Second)

	for {
		select {
		case <-exited:
			t.Fatalf("server exited before health check\n%s", output())
		default:
		}

		resp, err := client.Get(healthURL)
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}

		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for health check\n%s", output())
		}

		time.Sleep(100 * time.Millisecond)
	}
}

func postJSON(t *testing.T, client *http.Client, url, body string, wantStatus int, out any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	doJSON(t, client, req, wantStatus, out)
}

func getJSON(t *testing.T, client *http.Client, url string, out any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	doJSON(t, client, req, http.StatusOK, out)
}

func doJSON(t *testing.T, client *http.Client, req *http.Request, wantStatus int, out any) {
	t.Helper()

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d: %s", req.Method, req.URL, wantStatus, resp.StatusCode, data)
	}
	if out == nil {
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode %s: %v\n%s", req.URL, err, data)
	}
}

func reservePort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port
}

func findRepoRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	t.Fatal("failed to locate repo root with go.mod")
	return ""
}

func TestMigrationsApplied(t *testing.T) {
	db := testutil.NewTestDB(t)

	expectedTables := []string{
		"tournaments",
		"tournament_participants",
		"tournament_matches",
	}

	for _, table := range expectedTables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name = ?",
			table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			t.Fatalf("missing expected table %q after migrations", table)
		}
		if err != nil {
			t.Fatalf("query table %q existence: %v", table, err)
		}
	}
}

func TestForeignKeyIntegrity(t *testing.T) {
	db := testutil.NewTestDB(t)

	var foreignKeysEnabled int
	if err := db.QueryRow("PRAGMA foreign_keys;").Scan(&foreignKeysEnabled); err != nil {
		t.Fatalf("query foreign_keys pragma: %v", err)
	}
	if foreignKeysEnabled != 1 {
		t.Fatalf("expected foreign_keys pragma enabled, got %d", foreignKeysEnabled)
	}

	_, err := db.Exec(
		`INSERT INTO tournament_participants (tournament_id, player_name)
		 VALUES (9999, 'Nobody')`,
	)
	if err == nil {
		t.Fatal("expected foreign key constraint failure for invalid tournament_id")
	}
}

func TestCompletedMatchRequiresResult(t *testing.T) {
	db := testutil.NewTestDB(t)

	res, err := db.Exec(`INSERT INTO tournaments (name, format) VALUES ('Check', 'single_elimination')`)
	if err != nil {
		t.Fatalf("insert tournament: %v", err)
	}
	id, _ := res.LastInsertId()

	_, err = db.Exec(
		`INSERT INTO tournament_matches (tournament_id, round, match_number, stage, status)
		 VALUES (?, 1, 1, 'knockout', 'completed')`,
		id,
	)
	if err == nil {
		t.Fatal("expected check constraint failure for completed match without score")
	}
}
