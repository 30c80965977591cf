// Package langoptions serves the configured translation languages as JSON
// options for language pickers.
//
// The handler responds to GET and HEAD requests and supports query and limit
// parameters. Labels come from the CLDR display names bundled with
// golang.org/x/text, in English and in the language itself.
package langoptions
