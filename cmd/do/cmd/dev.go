package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"
)

// devPorts are the ports air proxies between: the browser talks to proxy,
// the rebuilt server listens on app.
type devPorts struct {
	proxy string
	app   string
}

func DevCmd() *cobra.Command {
	ports := devPorts{}

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the blog with hot reload (air + tailwind)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(ports)
		},
	}
	cmd.Flags().StringVar(&ports.proxy, "port", "8080", "port the browser connects to")
	cmd.Flags().StringVar(&ports.app, "app-port", "8090", "port the server listens on behind the proxy")
	return cmd
}

func runDev(ports devPorts) error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("Missing binary: air")
		fmt.Println("Install with:")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return fmt.Errorf("air not found")
	}

	fmt.Println("Building bin/do...")
	build := exec.Command("go", "build", "-o", "bin/do", "./cmd/do")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		return fmt.Errorf("failed to build do: %w", err)
	}

	// Pages reload from disk in development
	env := append(os.Environ(), "PORT="+ports.app, "APP_ENV=development")
	return syscall.Exec(airPath, airArgs(ports), env)
}

// airArgs configures air without a config file. Generated files (output.css,
// *_templ.go) must never trigger a rebuild.
func airArgs(ports devPorts) []string {
	return []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "./bin/do gen && go build -o ./tmp/main ./cmd/server",
		"-build.bin", "./tmp/main",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,node_modules,tmp,_examples,content",
		"-build.exclude_regex", `_templ\.go$|_test\.go$|output\.css$`,
		"-build.include_ext", "go,templ,css",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
		"-proxy.enabled", "true",
		"-proxy.proxy_port", ports.proxy,
		"-proxy.app_port", ports.app,
	}
}
