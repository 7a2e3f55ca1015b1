package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/shedtally/internal/grid"
)

// SaveConfirmer asks on the terminal whether a sheet with empty parts should be saved anyway.
type SaveConfirmer struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewSaveConfirmer creates a confirmer reading answers from reader and prompting on writer.
func NewSaveConfirmer(reader io.Reader, writer io.Writer) *SaveConfirmer {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &SaveConfirmer{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// ConfirmSave lists what is empty and waits for a yes or no. End of input counts as no.
func (c *SaveConfirmer) ConfirmSave(ctx context.Context, advisory grid.Advisory) (bool, error) {
	if !advisory.HasIssues() {
		return true, nil
	}

	if _, err := fmt.Fprintln(c.writer, FormatWarning("This sheet has empty parts that will not be saved:")); err != nil {
		return false, fmt.Errorf("failed to write advisory: %w", err)
	}
	for _, line := range DescribeAdvisory(advisory) {
		if _, err := fmt.Fprintln(c.writer, "  "+line); err != nil {
			return false, fmt.Errorf("failed to write advisory: %w", err)
		}
	}

	for {
		if _, err := fmt.Fprint(c.writer, FormatPrompt("Save anyway? (y/N)")); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		answer, err := c.reader.ReadLine(ctx)
		if err != nil {
			if err == io.EOF {
				return false, nil
			}
			return false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}

		if _, err := fmt.Fprintln(c.writer, FormatError("Please answer y or n.")); err != nil {
			return false, fmt.Errorf("failed to write error message: %w", err)
		}
	}
}

// DescribeAdvisory turns an advisory into one readable line per kind of empty part.
// Positions are shown one-based.
func DescribeAdvisory(a grid.Advisory) []string {
	var lines []string
	if len(a.EmptyStands) > 0 {
		lines = append(lines, "Empty stands: "+positions(a.EmptyStands))
	}
	if len(a.EmptyRows) > 0 {
		lines = append(lines, "Empty count rows: "+positions(a.EmptyRows))
	}
	if len(a.EmptyStaff) > 0 {
		lines = append(lines, "Empty shed staff: "+positions(a.EmptyStaff))
	}
	return lines
}

func positions(idx []int) string {
	parts := make([]string, len(idx))
	for i, n := range idx {
		parts[i] = strconv.Itoa(n + 1)
	}
	return strings.Join(parts, ", ")
}
