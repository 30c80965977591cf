package adminschema

import (
	"embed"
	"io/fs"
)

//go:embed schema/*
var embeddedSchema embed.FS

// EmbeddedFS returns the bundled demo schema. Callers may pass this
// filesystem to LoadFS to run the demo server without their own files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSchema, "schema")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}
