// Package latex reads and writes the LaTeX subset the editor's atoms
// cover: symbols, fractions, roots, scripts, \left...\right groups,
// matrix-like environments, placeholders, text and style commands.
//
// Parser and Serializer implement editor.Parser and editor.Serializer.
// The grammar is deliberately small; an unknown command becomes an error
// atom rather than failing the parse, so the editor can flag it.
package latex
