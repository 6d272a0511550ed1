// Package dialog abstracts operator interaction behind a synchronous
// capability interface, so the orchestrators and the connection negotiator
// stay testable with a scripted implementation.
package dialog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter is the operator-input capability. Every method blocks until the
// operator answers. The boolean result reports whether a choice was made;
// false means the operator cancelled.
type Prompter interface {
	// ChooseDatabase presents available database names and returns the chosen
	// one. The choice may be made by ordinal or by literal name.
	ChooseDatabase(current string, available []string) (string, bool)

	// Confirm asks a yes/no question.
	Confirm(message string) bool

	// PickOpenPath asks for an existing file to read.
	PickOpenPath(title string) (string, bool)

	// PickSavePath asks for a destination file, offering a suggested name.
	PickSavePath(title, suggested string) (string, bool)
}

// Console is a Prompter reading answers from an input stream and writing
// prompts to an output stream, normally stdin/stdout.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole returns a console prompter over the given streams.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

func (c *Console) readLine() string {
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

// ChooseDatabase lists databases with the current one marked, then reads a
// selection by number or literal name. "0" or an empty line cancels.
func (c *Console) ChooseDatabase(current string, available []string) (string, bool) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, strings.Repeat("=", 60))
	fmt.Fprintln(c.out, "       НАЛИЧНИ БАЗИ ДАННИ НА СЪРВЪРА")
	fmt.Fprintln(c.out, strings.Repeat("=", 60))
	for i, name := range available {
		marker := ""
		if name == current {
			marker = " <-- ТЕКУЩА"
		}
		fmt.Fprintf(c.out, "%2d. %s%s\n", i+1, name, marker)
	}
	fmt.Fprintln(c.out, strings.Repeat("=", 60))
	fmt.Fprintln(c.out, " 0. Отказ")
	fmt.Fprintln(c.out, strings.Repeat("-", 60))

	for {
		fmt.Fprintf(c.out, "Изберете база данни (0-%d): ", len(available))
		choice := c.readLine()
		if choice == "" || choice == "0" {
			return "", false
		}

		if idx, err := strconv.Atoi(choice); err == nil {
			if idx >= 1 && idx <= len(available) {
				return available[idx-1], true
			}
			fmt.Fprintln(c.out, "Невалиден номер!")
			continue
		}

		for _, name := range available {
			if name == choice {
				return name, true
			}
		}
		fmt.Fprintln(c.out, "Моля въведете валиден номер или име от списъка!")
	}
}

// Confirm prints the message and accepts д/да/y/yes as agreement.
func (c *Console) Confirm(message string) bool {
	fmt.Fprintf(c.out, "%s [д/н]: ", message)
	switch strings.ToLower(c.readLine()) {
	case "д", "да", "y", "yes":
		return true
	}
	return false
}

// PickOpenPath reads a source file path. An empty line cancels.
func (c *Console) PickOpenPath(title string) (string, bool) {
	fmt.Fprintf(c.out, "%s (празен ред за отказ): ", title)
	path := strings.Trim(c.readLine(), `"`)
	if path == "" {
		return "", false
	}
	return path, true
}

// PickSavePath reads a destination file path, defaulting to the suggestion.
// Entering "0" cancels.
func (c *Console) PickSavePath(title, suggested string) (string, bool) {
	fmt.Fprintf(c.out, "%s [%s]: ", title, suggested)
	path := strings.Trim(c.readLine(), `"`)
	if path == "0" {
		return "", false
	}
	if path == "" {
		if suggested == "" {
			return "", false
		}
		return suggested, true
	}
	return path, true
}
