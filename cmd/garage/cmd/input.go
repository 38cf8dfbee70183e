package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ssargent/garage/pkg/codec"
	"github.com/ssargent/garage/pkg/garage"
)

// prompter reads answers to prompts from an interactive stream
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// line prompts and returns the answer without its line ending
func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	s, err := p.in.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF):
		if s == "" {
			return "", fmt.Errorf("reading input: %w", io.ErrUnexpectedEOF)
		}
	case err != nil:
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// readUint32 prompts until the answer parses as an unsigned 32-bit number
func (p *prompter) readUint32(prompt string) (uint32, error) {
	for {
		s, err := p.line(prompt)
		if err != nil {
			return 0, err
		}

		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
		if err == nil {
			return uint32(n), nil
		}
		fmt.Fprintf(p.out, "Invalid number %q, try again.\n", s)
	}
}

// readInt prompts until the answer parses as an integer
func (p *prompter) readInt(prompt string) (int, error) {
	for {
		s, err := p.line(prompt)
		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(p.out, "Invalid number %q, try again.\n", s)
	}
}

// supplier returns a garage.Supplier that prompts for each vehicle in turn
func (p *prompter) supplier(maxDescription int) garage.Supplier {
	n := 0
	return func() (codec.Vehicle, error) {
		n++
		fmt.Fprintf(p.out, "\nCreating vehicle %d:\n", n)

		description, err := p.line("Enter vehicle description: ")
		if err != nil {
			return codec.Vehicle{}, err
		}

		value, err := p.readUint32("Enter vehicle value (no cents): ")
		if err != nil {
			return codec.Vehicle{}, err
		}

		year, err := p.readUint32("Enter model year: ")
		if err != nil {
			return codec.Vehicle{}, err
		}

		return codec.Vehicle{
			Description: cleanDescription(description, maxDescription),
			Value:       value,
			Year:        year,
		}, nil
	}
}

// cleanDescription strips sentinel bytes and truncates to max bytes without
// splitting a UTF-8 sequence. max <= 0 means no limit.
func cleanDescription(s string, max int) string {
	s = strings.ReplaceAll(s, string(codec.Sentinel), "")
	if max <= 0 || len(s) <= max {
		return s
	}

	s = s[:max]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// parseVehicle parses "description,value,year". The description may itself
// contain commas; value and year are taken from the last two fields.
func parseVehicle(s string) (codec.Vehicle, error) {
	yearAt := strings.LastIndex(s, ",")
	if yearAt < 0 {
		return codec.Vehicle{}, fmt.Errorf("vehicle %q: want description,value,year", s)
	}
	valueAt := strings.LastIndex(s[:yearAt], ",")
	if valueAt < 0 {
		return codec.Vehicle{}, fmt.Errorf("vehicle %q: want description,value,year", s)
	}

	value, err := strconv.ParseUint(strings.TrimSpace(s[valueAt+1:yearAt]), 10, 32)
	if err != nil {
		return codec.Vehicle{}, fmt.Errorf("vehicle %q: invalid value: %w", s, err)
	}
	year, err := strconv.ParseUint(strings.TrimSpace(s[yearAt+1:]), 10, 32)
	if err != nil {
		return codec.Vehicle{}, fmt.Errorf("vehicle %q: invalid year: %w", s, err)
	}

	return codec.Vehicle{
		Description: strings.TrimSpace(s[:valueAt]),
		Value:       uint32(value),
		Year:        uint32(year),
	}, nil
}
