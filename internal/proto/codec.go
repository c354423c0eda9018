package proto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	listSeparator  = "|"
	fieldSeparator = ";"
)

var (
	ErrEmptyLine     = errors.New("empty line")
	ErrMalformedCode = errors.New("malformed code")
	ErrNoSuchCommand = errors.New("no such command")
)

// Request is a decoded command line.
type Request struct {
	Command Command
	Args    []string

	line   string
	starts []int
}

// Rest returns the raw remainder of the line starting at argument i,
// keeping every separator inside it. It is used for free-text arguments.
func (r Request) Rest(i int) string {
	if i < 0 || i >= len(r.starts) {
		return ""
	}
	return r.line[r.starts[i]:]
}

// ParseRequest splits a line into a command and positional arguments.
func ParseRequest(line string) (Request, error) {
	line = strings.TrimRight(line, "\r\n")

	tokens, starts := tokenize(line)
	if len(tokens) == 0 {
		return Request{}, ErrEmptyLine
	}

	code, err := strconv.Atoi(tokens[0])
	if err != nil {
		return Request{}, fmt.Errorf("%w: %q", ErrMalformedCode, tokens[0])
	}
	cmd := Command(code)
	if !cmd.Valid() {
		return Request{}, fmt.Errorf("%w: %d", ErrNoSuchCommand, code)
	}

	return Request{
		Command: cmd,
		Args:    tokens[1:],
		line:    line,
		starts:  starts[1:],
	}, nil
}

func isSeparator(b byte) bool {
	return b == ' ' || b == '\t'
}

// tokenize splits on runs of spaces and tabs and records where each token starts.
func tokenize(line string) ([]string, []int) {
	var (
		tokens []string
		starts []int
	)
	for i := 0; i < len(line); {
		if isSeparator(line[i]) {
			i++
			continue
		}
		start := i
		for i < len(line) && !isSeparator(line[i]) {
			i++
		}
		tokens = append(tokens, line[start:i])
		starts = append(starts, start)
	}
	return tokens, starts
}

// Encode builds a reply line. An empty payload is omitted.
func Encode(reply Reply, payload string) string {
	code := strconv.Itoa(int(reply))
	if payload == "" {
		return code
	}
	return code + " " + payload
}

// EncodeError builds an error reply line.
func EncodeError(kind ErrorKind) string {
	return Encode(ReplyError, strconv.Itoa(int(kind)))
}

// List joins list items for a list-style payload.
func List(items []string) string {
	return strings.Join(items, listSeparator)
}

// Fields joins the fields of one list item.
func Fields(fields ...string) string {
	return strings.Join(fields, fieldSeparator)
}

// ParseReply splits a reply line into its code and payload.
func ParseReply(line string) (Reply, string, error) {
	code, payload, _ := strings.Cut(line, " ")
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q", ErrMalformedCode, code)
	}
	return Reply(n), payload, nil
}

// ParseErrorKind decodes the payload of a ReplyError reply.
func ParseErrorKind(payload string) (ErrorKind, error) {
	n, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCode, payload)
	}
	return ErrorKind(n), nil
}

// SplitList decodes a list-style payload. Each item is cut into at most
// fields parts, so the last field may itself contain the field separator.
func SplitList(payload string, fields int) [][]string {
	if payload == "" {
		return nil
	}
	items := strings.Split(payload, listSeparator)
	out := make([][]string, 0, len(items))
	for _, item := range items {
		out = append(out, strings.SplitN(item, fieldSeparator, fields))
	}
	return out
}
