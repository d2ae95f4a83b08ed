// Package speaker is the console delivery channel: responses are
// printed where a text-to-speech engine would speak them.
package speaker

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// Console writes responses as "<name>: <text>" lines.
type Console struct {
	mu   sync.Mutex
	name string
	out  io.Writer
}

// NewConsole creates a console speaker writing to stdout.
func NewConsole(name string) *Console {
	return &Console{name: name, out: os.Stdout}
}

// NewConsoleWriter creates a console speaker with a custom writer.
func NewConsoleWriter(name string, out io.Writer) *Console {
	return &Console{name: name, out: out}
}

// Deliver prints one response line.
func (c *Console) Deliver(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "%s: %s\n", c.name, text)
	return err
}
