// Package tmux enumerates and focuses tmux panes.
package tmux

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/chatter/chordpick/internal/logger"
)

// Runner executes tmux commands and returns their output.
type Runner struct {
	binary string
	log    *logger.Logger
}

// NewRunner creates a runner for the given tmux binary ("tmux" if empty).
func NewRunner(binary string, log *logger.Logger) *Runner {
	if binary == "" {
		binary = "tmux"
	}

	return &Runner{binary: binary, log: log}
}

// Run executes a tmux command and returns stdout.
func (r *Runner) Run(args ...string) (string, error) {
	r.log.Debug("running tmux", "args", args)

	cmd := exec.Command(r.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.log.Warn("tmux command failed", "args", args, "err", err, "stderr", stderr.String())

		return "", &Error{
			Command: strings.Join(args, " "),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	return stdout.String(), nil
}

// ListPanes returns the panes of the current window, or of every window in
// the current session when allWindows is set.
func (r *Runner) ListPanes(allWindows bool) ([]Pane, error) {
	args := []string{"list-panes", "-F", PaneFormat}
	if allWindows {
		args = append(args, "-s")
	}

	output, err := r.Run(args...)
	if err != nil {
		return nil, err
	}

	return ParsePanes(output)
}

// SelectPane switches to the pane's window and makes the pane active.
func (r *Runner) SelectPane(p Pane) error {
	if p.WindowID != "" {
		if _, err := r.Run("select-window", "-t", p.WindowID); err != nil {
			return err
		}
	}

	_, err := r.Run("select-pane", "-t", p.ID)

	return err
}

// ParsePanes parses list-panes output produced with PaneFormat.
func ParsePanes(output string) ([]Pane, error) {
	var panes []Pane

	for i, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.SplitN(line, "\t", len(paneFields))
		if len(fields) != len(paneFields) {
			return nil, fmt.Errorf("list-panes line %d: expected %d fields, got %d", i+1, len(paneFields), len(fields))
		}

		nums := make([]int, 4)
		for j, raw := range fields[5:9] {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("list-panes line %d: %s: %w", i+1, paneFields[5+j], err)
			}
			nums[j] = n
		}

		panes = append(panes, Pane{
			ID:          fields[0],
			WindowID:    fields[1],
			WindowIndex: fields[2],
			WindowName:  fields[3],
			Command:     fields[4],
			Left:        nums[0],
			Top:         nums[1],
			Width:       nums[2],
			Height:      nums[3],
			Active:      fields[9] == "1",
			Title:       fields[10],
		})
	}

	return panes, nil
}

// Error represents a failed tmux command.
type Error struct {
	Command string
	Stderr  string
	Err     error
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return "tmux " + e.Command + ": " + e.Err.Error()
	}
	return "tmux " + e.Command + ": " + e.Stderr
}

func (e *Error) Unwrap() error {
	return e.Err
}
