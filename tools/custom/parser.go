// Package custom runs user-defined single-line parsers: one regular
// expression for errors and one for warnings, each with configurable
// capture slots for file, line, and message, and a channel filter.
package custom

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

// Channel is a bitmask selecting which streams an expression applies to.
type Channel int

const (
	ParseStdOut Channel = 1 << iota
	ParseStdErr

	ParseBoth = ParseStdOut | ParseStdErr
)

// UnmarshalText accepts "stdout", "stderr", and "both" in settings files.
func (c *Channel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stdout":
		*c = ParseStdOut
	case "stderr":
		*c = ParseStdErr
	case "both", "":
		*c = ParseBoth
	default:
		return fmt.Errorf("unknown channel %q", text)
	}
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (c Channel) MarshalText() ([]byte, error) {
	switch c {
	case ParseStdOut:
		return []byte("stdout"), nil
	case ParseStdErr:
		return []byte("stderr"), nil
	default:
		return []byte("both"), nil
	}
}

// Expression is one user-defined pattern. Capture slots count from 1;
// zero values take the defaults file=1, line=2, message=3. An empty or
// invalid pattern never matches.
type Expression struct {
	Pattern    string  `json:"pattern" yaml:"pattern" toml:"pattern"`
	FileCap    int     `json:"fileCap,omitempty" yaml:"fileCap" toml:"fileCap"`
	LineCap    int     `json:"lineCap,omitempty" yaml:"lineCap" toml:"lineCap"`
	MessageCap int     `json:"messageCap,omitempty" yaml:"messageCap" toml:"messageCap"`
	Channel    Channel `json:"channel,omitempty" yaml:"channel" toml:"channel"`
	Example    string  `json:"example,omitempty" yaml:"example" toml:"example"`

	re       *regexp.Regexp
	compiled bool
}

func (e *Expression) normalize() {
	if e.FileCap == 0 {
		e.FileCap = 1
	}
	if e.LineCap == 0 {
		e.LineCap = 2
	}
	if e.MessageCap == 0 {
		e.MessageCap = 3
	}
	if e.Channel == 0 {
		e.Channel = ParseBoth
	}
}

// regex returns the compiled pattern, or nil for empty and invalid
// patterns.
func (e *Expression) regex() *regexp.Regexp {
	if !e.compiled {
		e.compiled = true
		if e.Pattern != "" {
			e.re, _ = regexp.Compile(e.Pattern)
		}
	}
	return e.re
}

// Validate checks that a non-empty pattern compiles and, when an example
// line is configured, that the pattern matches it.
func (e *Expression) Validate() error {
	if e.Pattern == "" {
		return nil
	}
	re, err := regexp.Compile(e.Pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	if e.Example != "" && !re.MatchString(e.Example) {
		return fmt.Errorf("pattern %q does not match example line %q", e.Pattern, e.Example)
	}
	return nil
}

// Settings is one named custom parser definition.
type Settings struct {
	ID          string     `json:"id" yaml:"id" toml:"id"`
	DisplayName string     `json:"displayName,omitempty" yaml:"displayName" toml:"displayName"`
	Error       Expression `json:"error,omitempty" yaml:"error" toml:"error"`
	Warning     Expression `json:"warning,omitempty" yaml:"warning" toml:"warning"`
}

// Validate checks both expressions.
func (s *Settings) Validate() error {
	if err := s.Error.Validate(); err != nil {
		return fmt.Errorf("error expression: %w", err)
	}
	if err := s.Warning.Validate(); err != nil {
		return fmt.Errorf("warning expression: %w", err)
	}
	return nil
}

// Parser applies one Settings definition line by line. The error
// expression is tried before the warning expression, so a line matching
// both yields an error task.
//
// Thread Safety: not thread-safe; use one instance per output stream.
type Parser struct {
	parser.Base
	settings Settings
}

// NewParser creates a parser from the given definition.
func NewParser(s Settings) *Parser {
	s.Error.normalize()
	s.Warning.normalize()
	return &Parser{settings: s}
}

// Settings returns the definition the parser runs.
func (p *Parser) Settings() Settings {
	return p.settings
}

// HandleLine implements parser.LineParser.
func (p *Parser) HandleLine(line string, ch parser.Channel) parser.Result {
	channel := ParseStdOut
	if ch == parser.StdErr {
		channel = ParseStdErr
	}
	lne := parser.RightTrimmed(line)

	if res := p.match(lne, channel, &p.settings.Error, task.Error); res.Status != parser.NotHandled {
		return res
	}
	return p.match(lne, channel, &p.settings.Warning, task.Warning)
}

func (p *Parser) match(line string, channel Channel, e *Expression, tp task.Type) parser.Result {
	if e.Channel&channel == 0 {
		return parser.NotHandledResult
	}
	re := e.regex()
	if re == nil {
		return parser.NotHandledResult
	}
	m := re.FindStringSubmatchIndex(line)
	if m == nil || len(m)/2 <= max(e.FileCap, e.LineCap, e.MessageCap) {
		return parser.NotHandledResult
	}

	file := p.AbsoluteFilePath(parser.Submatch(line, m, e.FileCap))
	lineNum, _ := strconv.Atoi(parser.Submatch(line, m, e.LineCap))
	if lineNum == 0 {
		lineNum = -1
	}
	message := parser.Submatch(line, m, e.MessageCap)

	var links []parser.LinkSpec
	if m[2*e.FileCap] >= 0 {
		parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, 0, m[2*e.FileCap], m[2*e.FileCap+1]-m[2*e.FileCap])
	}
	p.ScheduleTask(task.CompileTask(tp, message, file, lineNum), 1, 0)
	return parser.Result{Status: parser.Done, Links: links}
}

var _ parser.LineParser = (*Parser)(nil)
