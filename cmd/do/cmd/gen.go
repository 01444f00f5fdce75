package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

const (
	stylesInput  = "assets/css/input.css"
	stylesOutput = "assets/css/output.css"
)

// classSources are the trees tailwind scans for class names: the page
// components and the markdown class map.
var classSources = []string{"internal/ui", "internal/markdown"}

type generator struct {
	name   string
	bin    string
	args   []string
	skipFn func() bool
}

func GenCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Run code generators (templ, tailwind) in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "regenerate even when outputs are up to date")
	return cmd
}

func generators(force bool) []generator {
	gens := []generator{
		{
			name:   "tailwindcss",
			bin:    "tailwindcss",
			args:   []string{"-i", stylesInput, "-o", stylesOutput, "--minify"},
			skipFn: skipTailwind,
		},
		{
			name: "templ",
			bin:  "templ",
			args: []string{"generate"},
			skipFn: func() bool {
				return len(staleTemplFiles("internal")) == 0
			},
		},
	}
	if force {
		for i := range gens {
			gens[i].skipFn = nil
		}
	}
	return gens
}

func runGen(force bool) error {
	gens := generators(force)

	var missing []string
	for _, g := range gens {
		if _, err := exec.LookPath(g.bin); err != nil {
			missing = append(missing, g.bin)
		}
	}
	if len(missing) > 0 {
		fmt.Println("Missing binaries:", missing)
		fmt.Println("Install with:")
		fmt.Println("  go install github.com/a-h/templ/cmd/templ@v0.3.960")
		fmt.Println("  # tailwindcss: https://tailwindcss.com/blog/standalone-cli")
		return fmt.Errorf("missing required binaries: %v", missing)
	}

	start := time.Now()
	var wg sync.WaitGroup
	errCh := make(chan error, len(gens))

	for _, g := range gens {
		wg.Add(1)
		go func(g generator) {
			defer wg.Done()

			if g.skipFn != nil && g.skipFn() {
				fmt.Printf("[%s] skipped\n", g.name)
				return
			}

			genStart := time.Now()
			cmd := exec.Command(g.bin, g.args...)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			if err := cmd.Run(); err != nil {
				errCh <- fmt.Errorf("%s: %w", g.name, err)
				return
			}

			fmt.Printf("[%s] done (%s)\n", g.name, time.Since(genStart).Round(time.Millisecond))
		}(g)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Println("error:", err)
		}
		return fmt.Errorf("generation failed")
	}

	fmt.Printf("done (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func skipTailwind() bool {
	inputs := append([]string{stylesInput}, tailwindSources(classSources...)...)
	return isUpToDate(stylesOutput, inputs)
}

// tailwindSources lists the files under roots that can carry class names:
// templ components and non-test Go files.
func tailwindSources(roots ...string) []string {
	var files []string
	for _, root := range roots {
		_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			switch {
			case strings.HasSuffix(path, "_test.go"), strings.HasSuffix(path, "_templ.go"):
			case strings.HasSuffix(path, ".go"), strings.HasSuffix(path, ".templ"):
				files = append(files, path)
			}
			return nil
		})
	}
	return files
}

// staleTemplFiles lists the .templ files under root whose generated
// _templ.go is missing or older than the source.
func staleTemplFiles(root string) []string {
	var stale []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".templ") {
			return nil
		}
		out := strings.TrimSuffix(path, ".templ") + "_templ.go"
		if !isUpToDate(out, []string{path}) {
			stale = append(stale, path)
		}
		return nil
	})
	return stale
}

// isUpToDate reports whether output exists and is newer than every input.
// Inputs that cannot be read are ignored.
func isUpToDate(output string, inputs []string) bool {
	outInfo, err := os.Stat(output)
	if err != nil {
		return false
	}

	for _, input := range inputs {
		inInfo, err := os.Stat(input)
		if err != nil {
			continue
		}
		if inInfo.ModTime().After(outInfo.ModTime()) {
			return false
		}
	}
	return true
}
