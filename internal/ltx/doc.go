// Package ltx parses LTX configuration files.
//
// # Format
//
// LTX is a line oriented format:
//
//	#include "weapons\*.ltx"   ; pull in other files, '*' matches any name
//	[section]:parent1,parent2  // header, optionally inheriting from parents
//	key = value
//	key = "value; not a comment"
//	key                        ; key without a value
//
// Comments start with ';' or "//" outside of double quotes. Section state
// carries over from one line to the next until the next header. A key line
// before the first header of its file, or a key starting with '!', does not
// parse.
//
// # Records
//
// Parser.Records yields one Record per header and per key line. Included
// files are parsed recursively at the position of their #include line, so
// the record sequence follows the textual order the game reads the files in.
//
// # Typo tolerance
//
// Shipped configs contain a handful of recurring typos. With
// Options.TypoTolerance set the parser rewrites them before matching:
//
//	[[name]][other]   -> [name]
//	junk[name]        -> [name]      (unless an '=' follows the brackets)
//	[name] junk       -> [name]
//
// and drops the literal lines "']]" and "--[[". Without it those lines are
// reported as a ParseError like any other line that does not parse.
package ltx
