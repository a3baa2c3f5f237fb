package translation

import (
	_ "embed"

	"github.com/leonelquinteros/gotext"
)

//go:embed locales/ar/default.po
var arCatalog []byte

//go:embed locales/en/default.po
var enCatalog []byte

var locales map[string]*gotext.Po

func init() {
	ar := gotext.NewPo()
	ar.Parse(arCatalog)
	en := gotext.NewPo()
	en.Parse(enCatalog)

	locales = map[string]*gotext.Po{
		"ar": ar,
		"en": en,
	}
}

// Normalize maps an arbitrary language code to a supported one. Arabic is
// the default for anything unrecognized.
func Normalize(lang string) string {
	if _, ok := locales[lang]; ok {
		return lang
	}
	return "ar"
}

// Translate resolves msgID in the given language. Language is a per-user
// attribute here, so unlike a process-global catalog every call names its
// language explicitly.
func Translate(lang, msgID string, vars ...interface{}) string {
	po, ok := locales[lang]
	if !ok {
		po = locales["ar"]
	}
	return po.Get(msgID, vars...)
}
