package layouts

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/canopylog/canopy/core"
	"github.com/canopylog/canopy/selflog"
)

const escapeChar = '%'

// DefaultDateFormat is the strftime format used by %d and %D conversions
// that carry no explicit format argument.
const DefaultDateFormat = "%Y-%m-%d %H:%M:%S"

// formattingInfo tells a converter how to pad and truncate its output.
type formattingInfo struct {
	minLen    int
	maxLen    int
	leftAlign bool
}

func (fi *formattingInfo) reset() {
	fi.minLen = -1
	fi.maxLen = int(^uint(0) >> 1)
	fi.leftAlign = false
}

// converter is one compiled element of a pattern: a render function plus
// its formatting info.
type converter struct {
	info   formattingInfo
	render func(ev *core.LogEvent) string
}

// formatAndAppend renders the converter's field and applies width and
// precision: output longer than maxLen keeps the suffix, output shorter
// than minLen is space-padded on the side the alignment dictates.
func (c *converter) formatAndAppend(buf *bytes.Buffer, ev *core.LogEvent) {
	s := c.render(ev)
	n := len(s)

	switch {
	case n > c.info.maxLen:
		buf.WriteString(s[n-c.info.maxLen:])
	case n < c.info.minLen:
		if c.info.leftAlign {
			buf.WriteString(s)
			pad(buf, c.info.minLen-n)
		} else {
			pad(buf, c.info.minLen-n)
			buf.WriteString(s)
		}
	default:
		buf.WriteString(s)
	}
}

func pad(buf *bytes.Buffer, n int) {
	for ; n > 0; n-- {
		buf.WriteByte(' ')
	}
}

// PatternLayout renders events according to a printf-like conversion
// pattern. The pattern is compiled into a converter sequence once, at
// construction; formatting an event walks the sequence without re-parsing.
//
// A conversion starts with '%' and ends with a verb; between them the
// grammar accepts an optional '-' (left align), an optional minimum width
// and an optional '.' maximum width. Verbs:
//
//	%b  basename of the event's source file
//	%c  logger name; %c{n} keeps the last n dot-separated segments
//	%d  timestamp via strftime in UTC; %d{fmt} overrides the format
//	%D  as %d but local time
//	%E  environment variable named in {VAR}; empty when unset
//	%F  source file path
//	%i  process id
//	%l  file:line
//	%L  source line number
//	%m  message
//	%M  function name
//	%n  newline
//	%p  level name
//	%%  literal '%'
type PatternLayout struct {
	pattern    string
	converters []converter
}

// NewPatternLayout compiles pattern. Malformed conversions are reported to
// selflog and degrade to literal text; an empty pattern falls back to a
// bare message converter.
func NewPatternLayout(pattern string) *PatternLayout {
	p := &patternParser{pattern: pattern}
	converters := p.parse()
	if len(converters) == 0 {
		selflog.Warnf("PatternLayout pattern is empty, using the message alone")
		converters = append(converters, messageConverter(formattingInfo{minLen: -1, maxLen: int(^uint(0) >> 1)}))
	}
	return &PatternLayout{pattern: pattern, converters: converters}
}

// Pattern returns the source pattern the layout was compiled from.
func (l *PatternLayout) Pattern() string {
	return l.pattern
}

// FormatAndAppend implements core.Layout.
func (l *PatternLayout) FormatAndAppend(buf *bytes.Buffer, ev *core.LogEvent) {
	for i := range l.converters {
		l.converters[i].formatAndAppend(buf, ev)
	}
}

// patternParser is the compile-time state machine that turns a pattern
// string into a converter sequence.
type patternParser struct {
	pattern    string
	pos        int
	state      parserState
	info       formattingInfo
	literal    []byte
	converters []converter
}

type parserState int

const (
	literalState parserState = iota
	converterState
	dotState
	minState
	maxState
)

func (p *patternParser) parse() []converter {
	p.state = literalState
	p.info.reset()

	for p.pos < len(p.pattern) {
		c := p.pattern[p.pos]
		p.pos++

		switch p.state {
		case literalState:
			// The last character is always a literal.
			if p.pos == len(p.pattern) {
				p.literal = append(p.literal, c)
				continue
			}
			if c == escapeChar {
				if p.pattern[p.pos] == escapeChar {
					p.literal = append(p.literal, c)
					p.pos++
					break
				}
				p.flushLiteral()
				p.literal = append(p.literal, c)
				p.state = converterState
				p.info.reset()
				break
			}
			p.literal = append(p.literal, c)

		case converterState:
			p.literal = append(p.literal, c)
			switch {
			case c == '-':
				p.info.leftAlign = true
			case c == '.':
				p.state = dotState
			case c >= '0' && c <= '9':
				p.info.minLen = int(c - '0')
				p.state = minState
			default:
				p.finalizeConverter(c)
			}

		case minState:
			p.literal = append(p.literal, c)
			switch {
			case c >= '0' && c <= '9':
				p.info.minLen = p.info.minLen*10 + int(c-'0')
			case c == '.':
				p.state = dotState
			default:
				p.finalizeConverter(c)
			}

		case dotState:
			p.literal = append(p.literal, c)
			if c >= '0' && c <= '9' {
				p.info.maxLen = int(c - '0')
				p.state = maxState
			} else {
				selflog.Errorf("expected a digit at position %d in conversion pattern %q, got %q", p.pos, p.pattern, c)
				p.state = literalState
			}

		case maxState:
			p.literal = append(p.literal, c)
			if c >= '0' && c <= '9' {
				p.info.maxLen = p.info.maxLen*10 + int(c-'0')
			} else {
				p.finalizeConverter(c)
			}
		}
	}

	p.flushLiteral()
	return p.converters
}

func (p *patternParser) flushLiteral() {
	if len(p.literal) > 0 {
		p.converters = append(p.converters, literalConverter(string(p.literal)))
		p.literal = p.literal[:0]
	}
}

// extractOption consumes a {...} argument at the current position. An
// unmatched '{' is reported and the rest of the pattern is consumed.
func (p *patternParser) extractOption() string {
	if p.pos >= len(p.pattern) || p.pattern[p.pos] != '{' {
		return ""
	}
	end := strings.IndexByte(p.pattern[p.pos:], '}')
	if end < 0 {
		selflog.Errorf("no matching '}' found in conversion pattern %q", p.pattern)
		p.pos = len(p.pattern)
		return ""
	}
	opt := p.pattern[p.pos+1 : p.pos+end]
	p.pos += end + 1
	return opt
}

func (p *patternParser) extractPrecisionOption() int {
	opt := p.extractOption()
	if opt == "" {
		return 0
	}
	n, _ := strconv.Atoi(opt)
	return n
}

func (p *patternParser) finalizeConverter(verb byte) {
	var c converter
	switch verb {
	case 'b':
		c = converter{info: p.info, render: func(ev *core.LogEvent) string {
			if ev.File == "" {
				return ""
			}
			return filepath.Base(ev.File)
		}}
	case 'c':
		c = loggerNameConverter(p.info, p.extractPrecisionOption())
	case 'd', 'D':
		format := p.extractOption()
		if format == "" {
			format = DefaultDateFormat
		}
		useUTC := verb == 'd'
		c = converter{info: p.info, render: func(ev *core.LogEvent) string {
			t := ev.Timestamp
			if useUTC {
				t = t.UTC()
			} else {
				t = t.Local()
			}
			return Strftime(format, t)
		}}
	case 'E':
		name := p.extractOption()
		c = converter{info: p.info, render: func(*core.LogEvent) string {
			return os.Getenv(name)
		}}
	case 'F':
		c = converter{info: p.info, render: func(ev *core.LogEvent) string {
			return ev.File
		}}
	case 'i':
		pid := strconv.Itoa(os.Getpid())
		c = converter{info: p.info, render: func(*core.LogEvent) string {
			return pid
		}}
	case 'l':
		c = converter{info: p.info, render: func(ev *core.LogEvent) string {
			if ev.File == "" {
				return ":"
			}
			return ev.File + ":" + strconv.Itoa(ev.Line)
		}}
	case 'L':
		c = converter{info: p.info, render: func(ev *core.LogEvent) string {
			if ev.Line == -1 {
				return ""
			}
			return strconv.Itoa(ev.Line)
		}}
	case 'm':
		c = messageConverter(p.info)
	case 'M':
		c = converter{info: p.info, render: func(ev *core.LogEvent) string {
			return ev.Function
		}}
	case 'n':
		c = converter{info: p.info, render: func(*core.LogEvent) string {
			return "\n"
		}}
	case 'p':
		c = converter{info: p.info, render: func(ev *core.LogEvent) string {
			return ev.Level.String()
		}}
	default:
		selflog.Errorf("unexpected conversion %q at position %d in conversion pattern %q", verb, p.pos, p.pattern)
		c = literalConverter(string(p.literal))
	}

	p.converters = append(p.converters, c)
	p.literal = p.literal[:0]
	p.state = literalState
	p.info.reset()
}

func literalConverter(text string) converter {
	var info formattingInfo
	info.reset()
	return converter{info: info, render: func(*core.LogEvent) string {
		return text
	}}
}

func messageConverter(info formattingInfo) converter {
	return converter{info: info, render: func(ev *core.LogEvent) string {
		return ev.Message
	}}
}

// loggerNameConverter keeps the last precision dot-separated segments of
// the logger name; precision <= 0 keeps the whole name.
func loggerNameConverter(info formattingInfo, precision int) converter {
	return converter{info: info, render: func(ev *core.LogEvent) string {
		name := ev.LoggerName
		if precision <= 0 {
			return name
		}
		end := len(name) - 1
		for i := precision; i > 0; i-- {
			end = strings.LastIndexByte(name[:max(end, 0)], '.')
			if end < 0 {
				return name
			}
		}
		return name[end+1:]
	}}
}
