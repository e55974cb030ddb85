// Command check_staged rejects commits that touch too many components at once.
// Install as a pre-commit hook with `go run ./tools/git-hooks`.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// MaxComponents is how many components one commit may touch.
const MaxComponents = 2

// component maps a staged path to the part of the tree it belongs to.
// Paths outside the source tree return "".
func component(path string) string {
	switch {
	case strings.HasPrefix(path, "app/core/"):
		return "core"
	case strings.HasPrefix(path, "app/"):
		return "app"
	case strings.HasPrefix(path, "trace/"):
		return "trace"
	case strings.HasPrefix(path, "util/"):
		return "util"
	case path == "main.go":
		return "app"
	}
	return ""
}

func main() {
	cmd := exec.Command("git", "diff", "--cached", "--name-only")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		fmt.Printf("Warning: could not check staged files: %v\n", err)
		os.Exit(0)
	}

	touched := make(map[string]bool)
	for _, f := range strings.Split(out.String(), "\n") {
		if c := component(strings.TrimSpace(f)); c != "" {
			touched[c] = true
		}
	}

	if len(touched) <= MaxComponents {
		os.Exit(0)
	}

	components := make([]string, 0, len(touched))
	for c := range touched {
		components = append(components, c)
	}
	sort.Strings(components)

	fmt.Println("Commit touches multiple components:")
	for _, c := range components {
		fmt.Printf(" - %s\n", c)
	}
	fmt.Println("Split the change, or commit with --no-verify if it is a deliberate refactor.")
	os.Exit(1)
}
