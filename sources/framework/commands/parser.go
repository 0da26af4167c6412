package commands

import (
	"errors"
	"strings"
)

var (
	ErrNotCommand     = errors.New("input is not a command")
	ErrUnknownCommand = errors.New("unknown command")
)

type Command string

const (
	CommandReset   Command = "reset"
	CommandContext Command = "context"
	CommandHelp    Command = "help"
)

type Invocation struct {
	Command Command
	Args    []string
}

// Parser recognizes prefixed chat commands such as "!reset".
type Parser struct {
	prefix string
	known  map[string]Command
}

func NewParser(prefix string, commands ...Command) *Parser {
	known := make(map[string]Command, len(commands))
	for _, command := range commands {
		known[strings.ToLower(string(command))] = command
	}
	return &Parser{prefix: prefix, known: known}
}

func (p *Parser) Prefix() string {
	return p.prefix
}

// IsCommand reports whether input looks like a command, known or not.
func (p *Parser) IsCommand(input string) bool {
	input = strings.TrimSpace(input)
	return p.prefix != "" && len(input) > len(p.prefix) && strings.HasPrefix(input, p.prefix)
}

func (p *Parser) Parse(input string) (*Invocation, error) {
	if !p.IsCommand(input) {
		return nil, ErrNotCommand
	}

	tokens := tokenize(strings.TrimPrefix(strings.TrimSpace(input), p.prefix))
	if len(tokens) == 0 {
		return nil, ErrNotCommand
	}

	command, ok := p.known[strings.ToLower(tokens[0])]
	if !ok {
		return nil, ErrUnknownCommand
	}

	return &Invocation{Command: command, Args: tokens[1:]}, nil
}

// tokenize splits on whitespace; single quotes group words and a backslash escapes a quote.
func tokenize(input string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false
	escaped := false

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			result = append(result, current.String())
		}
		current.Reset()
	}

	for _, ch := range input {
		if escaped {
			if ch != '\'' && ch != '\\' {
				current.WriteRune('\\')
			}
			current.WriteRune(ch)
			escaped = false
			continue
		}

		switch {
		case ch == '\\':
			escaped = true
		case ch == '\'':
			inQuotes = !inQuotes
		case (ch == ' ' || ch == '\t' || ch == '\n') && !inQuotes:
			flush()
		default:
			current.WriteRune(ch)
		}
	}

	flush()
	return result
}
