package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"golang.org/x/term"
)

// StartStatusMonitor prints the current totals each time the operator
// presses Enter. It returns immediately; the reader goroutine stops
// when the context is cancelled or stdin closes. Disabled when stdin is
// not a terminal.
func StartStatusMonitor(ctx context.Context, snapshot func() (generated, found uint64)) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("[!] Non-TTY environment detected. Keypress updates are disabled.")
		return
	}
	fmt.Println("[i] Press Enter to see the current status:")

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}
			gen, found := snapshot()
			PrintStatus(gen, found)
		}
	}()
}
