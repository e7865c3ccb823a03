package docx

import (
	"strings"

	"github.com/docforge/docforge/internal/render"
)

// tag is one placeholder occurrence inside a part's XML text. start/end
// span the raw source including any markup Word interleaved with the
// placeholder's literal characters.
type tag struct {
	name       string
	start, end int
}

// scanTags finds every {{name}} occurrence in xmlText. XML elements inside
// the braces are skipped, which reassembles placeholders Word split across
// runs. An opening brace pair without a closing one is a syntax error.
func scanTags(xmlText string) ([]tag, error) {
	var tags []tag
	i := 0
	for {
		open := strings.Index(xmlText[i:], "{{")
		if open < 0 {
			return tags, nil
		}
		open += i

		var name strings.Builder
		j := open + 2
		closed := false
		for j < len(xmlText) {
			switch {
			case xmlText[j] == '<':
				gt := strings.IndexByte(xmlText[j:], '>')
				if gt < 0 {
					j = len(xmlText)
					continue
				}
				j += gt + 1
			case xmlText[j] == '}' && j+1 < len(xmlText) && xmlText[j+1] == '}':
				closed = true
				j += 2
			default:
				name.WriteByte(xmlText[j])
				j++
			}
			if closed {
				break
			}
		}
		if !closed {
			return nil, &RenderError{
				Kind:    ErrKindSyntax,
				Message: "unterminated placeholder " + preview(xmlText[open:]),
			}
		}

		trimmed := strings.TrimSpace(name.String())
		if trimmed == "" {
			return nil, &RenderError{Kind: ErrKindSyntax, Message: "empty placeholder"}
		}
		tags = append(tags, tag{name: trimmed, start: open, end: j})
		i = j
	}
}

func preview(s string) string {
	if len(s) > 32 {
		s = s[:32]
	}
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, s)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// substitute replaces every placeholder in xmlText with its bound value.
// Unresolved tag names are returned rather than failing one at a time so
// the caller can report them together.
func substitute(xmlText string, ctx *render.Context) (string, []string, error) {
	tags, err := scanTags(xmlText)
	if err != nil {
		return "", nil, err
	}
	if len(tags) == 0 {
		return xmlText, nil, nil
	}

	var missing []string
	var b strings.Builder
	b.Grow(len(xmlText))
	prev := 0
	for _, tg := range tags {
		v, ok := ctx.Resolve(tg.name)
		if !ok {
			missing = append(missing, tg.name)
			continue
		}
		b.WriteString(xmlText[prev:tg.start])
		b.WriteString(xmlEscaper.Replace(v.Text()))
		prev = tg.end
	}
	if len(missing) > 0 {
		return "", missing, nil
	}
	b.WriteString(xmlText[prev:])
	return b.String(), nil, nil
}
