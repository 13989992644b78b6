package config_test

import (
	"log"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/rolldice/internal/platform/config"
)

// TestExitf_ExitsWithCode1 verifies that Exitf writes the prefixed message to
// stderr and exits with code 1. os.Exit cannot be intercepted in-process, so
// the test re-runs itself as a subprocess.
func TestExitf_ExitsWithCode1(t *testing.T) {
	if os.Getenv("TEST_EXITF_SUBPROCESS") == "1" {
		log.SetPrefix("[ROLL] ")
		config.Exitf("parse flags: %s", "bad seed")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitf_ExitsWithCode1$")
	cmd.Env = append(os.Environ(), "TEST_EXITF_SUBPROCESS=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "[ROLL] parse flags: bad seed") {
		t.Fatalf("expected stderr to contain prefixed message, got %q", string(out))
	}
}
