// Package stdlib embeds the bootstrap library so the interpreter can start
// without a source tree on disk.
package stdlib

import "embed"

// Files holds every bundled .lisp file at its base name.
//
//go:embed *.lisp
var Files embed.FS

// Root is the directory the bundled files are addressed under.
const Root = "stdlib"

// BasicPath is the bootstrap file loaded at startup.
const BasicPath = Root + "/basic.lisp"
