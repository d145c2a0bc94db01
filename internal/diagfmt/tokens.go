package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"rxc/internal/source"
	"rxc/internal/token"
)

type TokenOutput struct {
	Kind    string   `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Start   uint32   `json:"start"`
	End     uint32   `json:"end"`
	Leading []string `json:"leading,omitempty"`
}

// FormatTokensPretty lists tokens with their positions, up to EOF.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	var sb strings.Builder
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		fmt.Fprintf(&sb, "%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(&sb, " %q", tok.Text)
		}
		fmt.Fprintf(&sb, " at %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		if len(tok.Leading) > 0 {
			fmt.Fprintf(&sb, " (leading: %s)", strings.Join(triviaKinds(tok), ", "))
		}
		sb.WriteByte('\n')
		if tok.Kind == token.EOF {
			break
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatTokensJSON writes tokens as a JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Start:   tok.Span.Start,
			End:     tok.Span.End,
			Leading: triviaKinds(tok),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func triviaKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	kinds := make([]string, len(tok.Leading))
	for i, tr := range tok.Leading {
		kinds[i] = tr.Kind.String()
	}
	return kinds
}
