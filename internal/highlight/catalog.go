package highlight

// The language and style catalogs are explicit, versioned lists rather than
// whatever the highlighting library happens to ship at runtime. Discovering
// them dynamically would mean the set of valid API inputs silently changes
// with a dependency upgrade; an explicit list changes only when we change it.
//
// Every entry must resolve in chroma — highlight_test.go checks each one
// against the lexer and style registries.

// Defaults applied when a snippet is created without an explicit choice.
const (
	DefaultLanguage = "python"
	DefaultStyle    = "friendly"
)

// Languages is the catalog of accepted language keys, each a chroma lexer
// name or alias.
var Languages = []string{
	"bash",
	"c",
	"clojure",
	"cpp",
	"csharp",
	"css",
	"dart",
	"diff",
	"dockerfile",
	"elixir",
	"erlang",
	"go",
	"haskell",
	"html",
	"ini",
	"java",
	"javascript",
	"json",
	"kotlin",
	"lua",
	"makefile",
	"markdown",
	"perl",
	"php",
	"plaintext",
	"python",
	"r",
	"ruby",
	"rust",
	"scala",
	"sql",
	"swift",
	"toml",
	"typescript",
	"xml",
	"yaml",
}

// Styles is the catalog of accepted highlight themes, each a chroma style name.
var Styles = []string{
	"autumn",
	"borland",
	"bw",
	"colorful",
	"dracula",
	"emacs",
	"friendly",
	"fruity",
	"github",
	"igor",
	"lovelace",
	"manni",
	"monokai",
	"monokailight",
	"murphy",
	"native",
	"paraiso-dark",
	"paraiso-light",
	"solarized-dark",
	"solarized-light",
	"swapoff",
	"tango",
	"trac",
	"vim",
	"vs",
	"xcode",
}

var (
	languageSet = toSet(Languages)
	styleSet    = toSet(Styles)
)

// IsLanguage reports whether key is in the language catalog.
func IsLanguage(key string) bool {
	_, ok := languageSet[key]
	return ok
}

// IsStyle reports whether key is in the style catalog.
func IsStyle(key string) bool {
	_, ok := styleSet[key]
	return ok
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
