package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	jmespath "github.com/jmespath-community/go-jmespath"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Backend or command failure
	ExitCommandError = 2 // Usage error or a command the session may not run
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatTable, FormatJSON}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// Printer writes command results as a table or as JSON. A JMESPath query
// always selects JSON output.
type Printer struct {
	Format string
	Query  string
	Out    io.Writer
}

// JSONMode reports whether results are written as JSON.
func (p *Printer) JSONMode() bool {
	return p.Format == FormatJSON || p.Query != ""
}

// Result writes v as JSON (optionally projected by the query) or calls render for table output.
func (p *Printer) Result(v any, render func() error) error {
	if !p.JSONMode() {
		return render()
	}
	return p.JSON(v)
}

// JSON writes v as indented JSON after applying the query, if any.
func (p *Printer) JSON(v any) error {
	out := v
	if p.Query != "" {
		generic, err := toGeneric(v)
		if err != nil {
			return err
		}
		out, err = jmespath.Search(p.Query, generic)
		if err != nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid --query: %v", err))
		}
	}
	enc := json.NewEncoder(p.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// toGeneric converts typed values into the maps and slices JMESPath walks.
func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return out, nil
}

// Table renders rows under headers with a rounded border.
func (p *Printer) Table(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return writeln(p.Out, t.Render())
}

// Fields renders label/value pairs as a two-column list.
func (p *Printer) Fields(title string, pairs [][2]string) error {
	if title != "" {
		if err := writeln(p.Out, titleStyle.Render(title)); err != nil {
			return err
		}
	}
	width := 0
	for _, kv := range pairs {
		if len(kv[0]) > width {
			width = len(kv[0])
		}
	}
	label := lipgloss.NewStyle().Width(width + 2).Foreground(lipgloss.Color("244"))
	for _, kv := range pairs {
		if err := writeln(p.Out, lipgloss.JoinHorizontal(lipgloss.Top, label.Render(kv[0]), kv[1])); err != nil {
			return err
		}
	}
	return nil
}

// Note writes a muted line, used for empty states and pagination footers.
func (p *Printer) Note(format string, args ...any) error {
	return writeln(p.Out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Message writes a plain line.
func (p *Printer) Message(format string, args ...any) error {
	return writef(p.Out, format+"\n", args...)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

// confirmAction asks for a y/N confirmation unless yes is set.
func confirmAction(in io.Reader, out io.Writer, yes bool, prompt string) error {
	if yes {
		return nil
	}
	if err := writef(out, "%s Continue? [y/N]: ", prompt); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	resp, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return NewExitError(ExitFailure, "aborted by user")
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return NewExitError(ExitFailure, "aborted by user")
}
