//go:build mage

// Package main contains Mage build targets for pinmap developer tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories pinmap expects.
var projectDirs = []string{
	".secrets",
	"bin",
}

// sampleConfig is written to pinmap.yaml by Init when no config exists.
const sampleConfig = `yelp:
  api_host: https://api.yelp.com
  max_retries: 0
http:
  timeout: 5s
search:
  location: San Diego
map:
  center_lat: 32.7096298
  center_lng: -117.1602029
  zoom: 11
server:
  addr: ":8080"
log:
  level: info
  format: console
`

// Init creates the secrets and bin directories and a starter pinmap.yaml.
// Credentials go in .secrets/yelp-client-id and .secrets/yelp-client-secret.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	if _, err := os.Stat("pinmap.yaml"); os.IsNotExist(err) {
		if err := os.WriteFile("pinmap.yaml", []byte(sampleConfig), 0o644); err != nil {
			return fmt.Errorf("writing pinmap.yaml: %w", err)
		}
		fmt.Println("   pinmap.yaml")
	}
	fmt.Println("Project initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "pinmap"
	cmdPkg  = "./cmd/pinmap"
)

// binPath is the location of the built CLI.
var binPath = filepath.Join(binDir, binName)

// version returns the current git description, or "dev" outside a checkout.
func version() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || strings.TrimSpace(out) == "" {
		return "dev"
	}
	return strings.TrimSpace(out)
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	ldflags := "-X main.version=" + version()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Lint runs go vet over every package.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Serve builds the CLI and runs the map server.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "serve")
}

// Search builds the CLI and prints pins for term near the configured location.
func Search(term string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "search", term)
}

// Check runs lint and tests, then builds.
func Check() {
	mg.SerialDeps(Lint, Test, Build)
}

// Stats prints non-blank Go lines per package, split into production and
// test code, followed by totals and the word count of the Markdown docs.
func Stats() error {
	counts, err := countPackageLines(".")
	if err != nil {
		return err
	}
	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	pkgs := make([]string, 0, len(counts))
	for pkg := range counts {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	var prod, test int
	fmt.Printf("%-24s %8s %8s\n", "Package", "Prod", "Test")
	for _, pkg := range pkgs {
		c := counts[pkg]
		fmt.Printf("%-24s %8d %8d\n", pkg, c.prod, c.test)
		prod += c.prod
		test += c.test
	}
	fmt.Printf("%-24s %8d %8d\n", "total", prod, test)
	fmt.Printf("Words (documentation): %d\n", docWords)
	return nil
}

// lineCount holds non-blank Go line counts for one package directory.
type lineCount struct {
	prod, test int
}

// countPackageLines counts non-blank lines of .go files under root, keyed
// by package directory.
func countPackageLines(root string) (map[string]lineCount, error) {
	counts := make(map[string]lineCount)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := nonBlankLines(string(data))

		pkg := filepath.ToSlash(filepath.Dir(path))
		c := counts[pkg]
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		counts[pkg] = c
		return nil
	})
	return counts, err
}

func nonBlankLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// skipDir reports whether a directory is outside the project sources.
func skipDir(path string) bool {
	base := filepath.Base(path)
	return path != "." && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == binDir)
}

// countDocWords counts words in the Markdown files under root.
func countDocWords(root string) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(strings.Fields(string(data)))
		return nil
	})
	return total, err
}
