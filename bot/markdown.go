package bot

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/gotd/td/tg"
)

// parseMarkdown strips **bold** and `code` markers from text and returns
// the plain text with matching entities. Offsets are in UTF-16 code units.
// Code spans may sit inside bold; code content is literal. Unclosed markers
// are kept as literal text.
func parseMarkdown(text string) (string, []tg.MessageEntityClass) {
	var (
		plain    strings.Builder
		entities []tg.MessageEntityClass
		offset   int
	)

	for i := 0; i < len(text); {
		switch {
		case text[i] == '`':
			if end := strings.IndexByte(text[i+1:], '`'); end > 0 {
				inner := text[i+1 : i+1+end]
				n := utf16Len(inner)
				entities = append(entities, &tg.MessageEntityCode{Offset: offset, Length: n})
				plain.WriteString(inner)
				offset += n
				i += end + 2
				continue
			}
		case strings.HasPrefix(text[i:], "**"):
			if end := strings.Index(text[i+2:], "**"); end > 0 {
				inner, nested := parseMarkdown(text[i+2 : i+2+end])
				n := utf16Len(inner)
				entities = append(entities, &tg.MessageEntityBold{Offset: offset, Length: n})
				for _, e := range nested {
					entities = append(entities, shiftEntity(e, offset))
				}
				plain.WriteString(inner)
				offset += n
				i += end + 4
				continue
			}
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		plain.WriteString(text[i : i+size])
		offset += utf16.RuneLen(r)
		i += size
	}
	return plain.String(), entities
}

func shiftEntity(e tg.MessageEntityClass, by int) tg.MessageEntityClass {
	switch e := e.(type) {
	case *tg.MessageEntityCode:
		return &tg.MessageEntityCode{Offset: e.Offset + by, Length: e.Length}
	case *tg.MessageEntityBold:
		return &tg.MessageEntityBold{Offset: e.Offset + by, Length: e.Length}
	default:
		return e
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
