package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"rxc/internal/token"
)

var errEmptyChar = errors.New("empty character literal")

// Unquote decodes the value of a string-like literal token and returns it
// in NFC form so that equal-looking literals compare equal.
func Unquote(tok token.Token) (string, error) {
	var (
		s   string
		err error
	)
	switch tok.Kind {
	case token.StringLit:
		s, err = unescape(strings.TrimSuffix(strings.TrimPrefix(tok.Text, `"`), `"`))
	case token.CStringLit:
		s, err = unescape(strings.TrimSuffix(strings.TrimPrefix(tok.Text, `c"`), `"`))
		if err == nil && strings.IndexByte(s, 0) >= 0 {
			err = errors.New("C string literal contains NUL")
		}
	case token.RawStringLit:
		body := strings.TrimPrefix(tok.Text, "r")
		hashes := len(body) - len(strings.TrimLeft(body, "#"))
		s = body[hashes+1 : len(body)-hashes-1]
	default:
		return "", fmt.Errorf("token %s is not a string literal", tok.Kind)
	}
	if err != nil {
		return "", err
	}
	return norm.NFC.String(s), nil
}

// UnquoteChar decodes a character literal including its quotes.
func UnquoteChar(text string) (rune, error) {
	if len(text) < 2 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return 0, fmt.Errorf("malformed character literal %s", text)
	}
	s, err := unescape(text[1 : len(text)-1])
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, errEmptyChar
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("character literal %s holds more than one character", text)
	}
	return r, nil
}

func unescape(body string) (string, error) {
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errors.New("trailing backslash in literal")
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(body[i])
		case '\n':
			// continuation: drop the newline and the next line's indentation
			for i+1 < len(body) && strings.IndexByte(" \t\n\r", body[i+1]) >= 0 {
				i++
			}
		case 'x':
			if i+2 >= len(body) || !isHex(body[i+1]) || !isHex(body[i+2]) {
				return "", errors.New(`\x escape needs two hex digits`)
			}
			v, _ := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if v > 0x7F {
				return "", fmt.Errorf(`\x%s is out of ASCII range`, body[i+1:i+3])
			}
			b.WriteByte(byte(v))
			i += 2
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if i+1 >= len(body) || body[i+1] != '{' || end < 0 {
				return "", errors.New(`\u escape must look like \u{XXXX}`)
			}
			v, err := strconv.ParseUint(strings.ReplaceAll(body[i+2:i+end], "_", ""), 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", fmt.Errorf(`invalid unicode escape \u%s`, body[i+1:i+end+1])
			}
			b.WriteRune(rune(v))
			i += end
		default:
			return "", fmt.Errorf(`unknown escape \%c`, body[i])
		}
	}
	return b.String(), nil
}
