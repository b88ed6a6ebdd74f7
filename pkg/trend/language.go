package trend

import (
	"slices"
	"strings"

	"github.com/src-d/enry/v2"
)

// Language names the programming language usually stored under ext, or "" when
// unknown. Dot files such as ".gitignore" are matched by file name.
func Language(ext string) string {
	if ext == "" {
		return ""
	}

	lang := enry.GetLanguage(ext, nil)
	if lang == "" {
		lang = enry.GetLanguage("file"+ext, nil)
	}

	return lang
}

// ColumnLanguage names the languages of every extension of a column, joined
// with "+". Unknown extensions are left out.
func ColumnLanguage(column Column) string {
	var langs []string

	for _, ext := range column.Extensions {
		lang := Language(ext)
		if lang == "" || slices.Contains(langs, lang) {
			continue
		}

		langs = append(langs, lang)
	}

	return strings.Join(langs, ColumnSeparator)
}
