package main

import (
	"bufio"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

const envRunMain = "CNC_PANEL_RUN_MAIN"

// TestMainProcess is not a real test: it runs main with the arguments in
// the environment when re-executed by mainCommand.
func TestMainProcess(t *testing.T) {
	args, ok := os.LookupEnv(envRunMain)
	if !ok {
		t.Skip("only runs as a subprocess")
	}
	os.Args = append([]string{"cnc-panel-server"}, strings.Fields(args)...)
	main()
}

func mainCommand(args ...string) *exec.Cmd {
	cmd := exec.Command(os.Args[0], "-test.run=^TestMainProcess$")
	cmd.Env = append(os.Environ(), envRunMain+"="+strings.Join(args, " "))
	return cmd
}

func TestMainInvalidPort(t *testing.T) {
	out, err := mainCommand("abc").Output()
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("err=%v want non-zero exit", err)
	}
	if ee.ExitCode() != 1 {
		t.Fatalf("exit code=%d want=1", ee.ExitCode())
	}
	if !strings.Contains(string(out), "Invalid port number: abc") {
		t.Fatalf("output=%q want Invalid port number: abc", out)
	}
}

func TestMainInterrupt(t *testing.T) {
	cmd := mainCommand("0")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	var out []string
	timeout := time.After(20 * time.Second)
	for ready := false; !ready; {
		select {
		case line, ok := <-lines:
			if !ok {
				cmd.Wait()
				t.Fatalf("process exited before serving: %q", out)
			}
			out = append(out, line)
			ready = strings.Contains(line, "Ctrl+C")
		case <-timeout:
			cmd.Process.Kill()
			t.Fatalf("no banner within timeout: %q", out)
		}
	}
	if out[0] != "CNC Panel Server Starting..." {
		t.Fatalf("first line=%q", out[0])
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("signal: %v", err)
	}
	for line := range lines {
		out = append(out, line)
	}
	if err := cmd.Wait(); err != nil {
		t.Fatalf("exit: %v (output %q)", err, out)
	}
	if !strings.Contains(strings.Join(out, "\n"), "Server stopped.") {
		t.Fatalf("output=%q want Server stopped.", out)
	}
}
