//go:build stave

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target when running `stave` with no arguments.
var Default = All

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

var binaries = []string{"treebank", "treebank-eval"}

// All runs the complete build pipeline: lint, test, and build.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles the treebank and treebank-eval binaries.
func Build() error {
	st.Deps(Init)
	st.Deps(Build_Treebank, Build_Eval)
	return nil
}

// Build_Treebank compiles the split/predict tool.
func Build_Treebank() error {
	st.Deps(Init)
	return buildBinary("treebank")
}

// Build_Eval compiles the scoring tool.
func Build_Eval() error {
	st.Deps(Init)
	return buildBinary("treebank-eval")
}

// buildBinary builds ./cmd/<name> into bin/<name> unless it is up to date.
func buildBinary(name string) error {
	out := "bin/" + name
	rebuild, err := target.Glob(out, "**/*.go", "**/*.sql", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild: %w", err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Printf("%s is up to date\n", name)
		}
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", buildLdflags(), "-o", out, "./cmd/"+name)
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		time.Now().Format(time.RFC3339),
	)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// TestShort runs tests in short mode.
func TestShort() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-short", "-race", "./...")
}

// Lint runs golangci-lint on the codebase.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code using gofmt and goimports.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if err := sh.Run("goimports", "-w", "."); err != nil {
		return fmt.Errorf("goimports: %w", err)
	}
	return nil
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	for _, a := range append([]string{"bin/", "coverage.out", "coverage.html"}, binaries...) {
		if err := sh.Rm(a); err != nil {
			return fmt.Errorf("removing %s: %w", a, err)
		}
	}
	return nil
}

// Install builds and installs the binaries to GOBIN.
func Install() error {
	st.Deps(Build)

	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin == "" {
		gopath, err := sh.Output(gocmd, "env", "GOPATH")
		if err != nil {
			return fmt.Errorf("determining GOPATH: %w", err)
		}
		bin = gopath + "/bin"
	}

	for _, name := range binaries {
		dst := bin + "/" + name
		if runtime.GOOS == "windows" {
			dst += ".exe"
		}
		if err := sh.Copy(dst, "bin/"+name); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
		if st.Verbose() {
			fmt.Printf("Installed %s to %s\n", name, dst)
		}
	}
	return nil
}

// Corpus namespace runs the treebank pipeline. TREEBANK_CONFIG names the
// YAML configuration (default treebank.yaml); SPLIT_DIR overrides the
// directory holding train/dev/test.conllu.
type Corpus st.Namespace

func pipelineConfig() string {
	if cfg := os.Getenv("TREEBANK_CONFIG"); cfg != "" {
		return cfg
	}
	return "treebank.yaml"
}

func splitDir() string {
	if dir := os.Getenv("SPLIT_DIR"); dir != "" {
		return dir
	}
	return "split"
}

// Split partitions the configured corpus into train/dev/test files.
func (Corpus) Split() error {
	st.Deps(Build_Treebank)
	return sh.RunV("./bin/treebank", "-config", pipelineConfig(), "split", "-output-dir", splitDir())
}

// Predict tags the test split with the configured tagger.
func (Corpus) Predict() error {
	st.Deps(Build_Treebank)
	return sh.RunV("./bin/treebank", "-config", pipelineConfig(), "predict",
		"-gold", splitDir()+"/test.conllu",
		"-out", splitDir()+"/predicted.conllu",
	)
}

// Score evaluates the predictions and records the run.
func (Corpus) Score() error {
	st.Deps(Build_Eval)
	return sh.RunV("./bin/treebank-eval", "-config", pipelineConfig(), "report",
		"-xlsx", splitDir()+"/report.xlsx",
		splitDir()+"/test.conllu", splitDir()+"/predicted.conllu",
	)
}

// Stats prints sentence and token counts of the split files.
func (Corpus) Stats() error {
	return sh.RunV("go", "run", "./scripts/corpus-stats.go", splitDir())
}

// CI runs the full CI pipeline (lint, test, build).
func CI() error {
	st.Deps(Init)
	st.SerialDeps(Lint, Test, Build)
	return nil
}

// Check runs quick validation (vet, lint, short tests).
func Check() error {
	st.Deps(Vet, Lint, TestShort)
	return nil
}

