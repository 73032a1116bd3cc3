//go:build mage

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	modulePath = "github.com/dkoosis/morphd"
	binPath    = "bin/morphd"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Default target - build the binary
var Default = Build

// Build builds the morphd binary with version information.
func Build() error {
	header("Build")
	ldflags := fmt.Sprintf("-s -w -X '%[1]s/internal/version.Version=%[2]s' -X '%[1]s/internal/version.CommitHash=%[3]s' -X '%[1]s/internal/version.BuildDate=%[4]s'",
		modulePath, gitOutput("dev", "describe", "--tags", "--always", "--dirty", "--match=v*"),
		gitOutput("unknown", "rev-parse", "--short", "HEAD"), time.Now().UTC().Format(time.RFC3339))
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/morphd"); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	success("Built: " + binPath)
	return nil
}

// Clean removes build artifacts
func Clean() error {
	header("Clean")
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	success("Clean")
	return nil
}

// QA runs formatting, vet, lint and the race-enabled test suite.
func QA() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Lint.Golangci, Test.Race, Build)
}

// Lint namespace for linting commands
type Lint mg.Namespace

// Format fails if any file needs gofmt.
func (Lint) Format() error {
	header("Format")
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out = strings.TrimSpace(out); out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	header("Vet")
	return sh.RunV("go", "vet", "./...")
}

// Golangci runs golangci-lint when it is installed.
func (Lint) Golangci() error {
	header("Golangci-lint")
	err := sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
	if isCommandNotFound(err) {
		warn("golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
		return nil
	}
	return err
}

// Test namespace for testing commands
type Test mg.Namespace

// All runs all tests
func (Test) All() error {
	header("Test")
	return sh.RunV("go", "test", "./...")
}

// Coverage runs tests with coverage
func (Test) Coverage() error {
	header("Coverage")
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Race runs tests with race detector
func (Test) Race() error {
	header("Race")
	return sh.RunV("go", "test", "-race", "./...")
}

func gitOutput(fallback string, args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil || out == "" {
		return fallback
	}
	return strings.TrimSpace(out)
}

func isCommandNotFound(err error) bool {
	return err != nil && (errors.Is(err, exec.ErrNotFound) || strings.Contains(err.Error(), "executable file not found"))
}

func header(title string) { fmt.Fprintln(os.Stderr, headerStyle.Render("▶ "+title)) }
func success(msg string)  { fmt.Fprintln(os.Stderr, successStyle.Render("✓ "+msg)) }
func warn(msg string)     { fmt.Fprintln(os.Stderr, warnStyle.Render("⚠ "+msg)) }
