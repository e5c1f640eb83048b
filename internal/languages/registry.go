package languages

import "github.com/richardkriesman/batterypack/internal/parser"

// NewDefaultRegistry covers every file the import inspector follows.
func NewDefaultRegistry() *parser.Registry {
	return parser.NewRegistry(NewTypeScriptParser())
}
