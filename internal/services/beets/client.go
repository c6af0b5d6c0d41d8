package beets

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"dbvoir/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Importer defines the behaviour required by the pipeline.
type Importer interface {
	Import(ctx context.Context, dir string) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps beets CLI interactions.
type Client struct {
	binary     string
	configPath string
	timeout    time.Duration
	exec       Executor
}

// New constructs a beets client.
func New(binary, configPath string, timeout time.Duration, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("beets binary required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	client := &Client{
		binary:     binary,
		configPath: strings.TrimSpace(configPath),
		timeout:    timeout,
		exec:       &processExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Import runs a quiet, non-interactive beets import of the given directory,
// moving files into the configured library. Beets reporting "Skipping" or
// "not match" counts as success; both mean the material was already handled
// or could not be tagged, and neither should fail the pipeline.
func (c *Client) Import(ctx context.Context, dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return services.Wrap(services.ErrConfiguration, "beets", "import", "import directory required", nil)
	}

	args := make([]string, 0, 7)
	if c.configPath != "" {
		args = append(args, "-c", c.configPath)
	}
	args = append(args, "import", "-q", "--noautotag", "--move", dir)

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var output strings.Builder
	err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		if output.Len() > 0 {
			output.WriteByte('\n')
		}
		output.WriteString(line)
	})
	if err == nil {
		return nil
	}

	if isLenientSuccess(output.String()) {
		return nil
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "beets", "import", fmt.Sprintf("import of %s exceeded %s", dir, c.timeout), err)
	}
	message := fmt.Sprintf("import of %s failed", dir)
	if tail := lastLine(output.String()); tail != "" {
		message = fmt.Sprintf("%s (%s)", message, tail)
	}
	return services.Wrap(services.ErrExternalTool, "beets", "import", message, err)
}

func isLenientSuccess(output string) bool {
	return strings.Contains(output, "Skipping") || strings.Contains(output, "not match")
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

type processExecutor struct{}

func (processExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
	}()

	err = cmd.Wait()
	wg.Wait()
	return err
}
