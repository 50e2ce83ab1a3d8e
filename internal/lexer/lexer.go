package lexer

import (
	"fmt"
	"strings"

	pp_variants "github.com/fwessels/pp-variants"
)

// Tokenize turns source text into the flat token sequence the flow graph is
// built over. Directives occupy whole lines and start with '#'; everything
// else is split into plain text tokens. Comments never reach the output.
func Tokenize(src string) (pp_variants.TokenSequence, error) {
	var seq pp_variants.TokenSequence
	for n, line := range strings.Split(src, "\n") {
		lineNo := n + 1

		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			first := firstNonSpaceIndex(line)
			if first >= 0 && idx > first {
				after := strings.TrimSpace(line[idx:])
				if isDirectivePrefix(after) {
					return nil, fmt.Errorf("line %d: '#' must be first item on line", lineNo)
				}
			}
		}

		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "#") {
			toks, err := lexDirective(trim)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			seq = append(seq, toks...)
			continue
		}

		for _, word := range lexTokens(line) {
			seq = append(seq, pp_variants.Token{Kind: pp_variants.Text, Text: word})
		}
	}
	return seq, nil
}

var directiveKinds = map[string]pp_variants.TokenKind{
	"ifdef":  pp_variants.Ifdef,
	"ifndef": pp_variants.Ifndef,
	"elsif":  pp_variants.Elsif,
	"else":   pp_variants.Else,
	"endif":  pp_variants.Endif,
	"define": pp_variants.Define,
}

func lexDirective(trim string) ([]pp_variants.Token, error) {
	fields := splitDirective(trim)
	kind, ok := directiveKinds[fields.cmd]
	if !ok {
		return nil, fmt.Errorf("unknown directive %q", fields.cmd)
	}
	head := pp_variants.Token{Kind: kind, Text: "#" + fields.cmd}

	switch kind {
	case pp_variants.Else, pp_variants.Endif:
		if fields.arg != "" {
			return nil, fmt.Errorf("unexpected tokens after #%s: %q", fields.cmd, fields.arg)
		}
		return []pp_variants.Token{head}, nil

	case pp_variants.Define:
		name, rest, ok := splitIdentPrefix(fields.arg)
		if !ok {
			return nil, fmt.Errorf("bad #define: %q", trim)
		}
		toks := []pp_variants.Token{head, {Kind: pp_variants.Identifier, Text: name}}
		if body := strings.TrimSpace(rest); body != "" {
			toks = append(toks, pp_variants.Token{Kind: pp_variants.DefineBody, Text: body})
		}
		return toks, nil

	default: // ifdef, ifndef, elsif
		name, rest, ok := splitIdentPrefix(fields.arg)
		if !ok || strings.TrimSpace(rest) != "" {
			return nil, fmt.Errorf("bad #%s: %q", fields.cmd, trim)
		}
		return []pp_variants.Token{head, {Kind: pp_variants.Identifier, Text: name}}, nil
	}
}

type directiveFields struct {
	cmd string
	arg string
}

func splitDirective(trim string) directiveFields {
	// trim begins with '#'
	trim = strings.TrimSpace(trim[1:])
	if trim == "" {
		return directiveFields{}
	}
	sp := strings.Fields(trim)
	cmd := sp[0]
	arg := strings.TrimSpace(trim[len(cmd):])
	return directiveFields{cmd: cmd, arg: arg}
}

func isDirectivePrefix(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	s = strings.TrimSpace(s[1:])
	if s == "" {
		return false
	}
	cmd := strings.Fields(s)
	if len(cmd) == 0 {
		return false
	}
	_, ok := directiveKinds[cmd[0]]
	return ok
}

func firstNonSpaceIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return i
		}
	}
	return -1
}

func splitIdentPrefix(s string) (name string, rest string, ok bool) {
	if s == "" || !isIdentStart(s[0]) {
		return "", "", false
	}
	i := 1
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return s[:i], s[i:], true
}

func lexTokens(line string) []string {
	toks := make([]string, 0, 8)
	for i := 0; i < len(line); {
		ch := line[i]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			i++
			continue
		}
		if ch == '/' && i+1 < len(line) && line[i+1] == '/' {
			break
		}
		if ch == '/' && i+1 < len(line) && line[i+1] == '*' {
			i += 2
			for i+1 < len(line) {
				if line[i] == '*' && line[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
			continue
		}
		if ch == '"' || ch == '\'' {
			start := i
			quote := ch
			i++
			for i < len(line) {
				ch = line[i]
				i++
				if ch == '\\' && i < len(line) {
					i++
					continue
				}
				if ch == quote {
					break
				}
			}
			toks = append(toks, line[start:i])
			continue
		}
		if isIdentStart(ch) {
			j := i + 1
			for j < len(line) && isIdentPart(line[j]) {
				j++
			}
			toks = append(toks, line[i:j])
			i = j
			continue
		}
		if ch >= '0' && ch <= '9' {
			j := i + 1
			if i+1 < len(line) && line[i] == '0' {
				switch line[i+1] {
				case 'x', 'X':
					j = i + 2
					for j < len(line) && isHexDigit(line[j]) {
						j++
					}
				case 'b', 'B':
					j = i + 2
					for j < len(line) && (line[j] == '0' || line[j] == '1') {
						j++
					}
				case 'o', 'O':
					j = i + 2
					for j < len(line) && line[j] >= '0' && line[j] <= '7' {
						j++
					}
				default:
					for j < len(line) && line[j] >= '0' && line[j] <= '9' {
						j++
					}
				}
			} else {
				for j < len(line) && line[j] >= '0' && line[j] <= '9' {
					j++
				}
			}
			toks = append(toks, line[i:j])
			i = j
			continue
		}
		toks = append(toks, string(ch))
		i++
	}
	return toks
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
