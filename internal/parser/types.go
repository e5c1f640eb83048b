package parser

// FileImports lists the module specifiers one source file imports.
type FileImports struct {
	Path     string   `json:"path"`
	Language string   `json:"language"`
	Imports  []string `json:"imports,omitempty"`
}
