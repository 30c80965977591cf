// Package openapi derives model registrations from OpenAPI 3 component
// schemas. Schemas opt in with the x-modeltranslation extension and mark
// their translatable properties with x-translatable.
//
// The loader fetches documents from disk, an fs.FS or HTTP. Parsing is done
// with kin-openapi so both JSON and YAML payloads are accepted.
package openapi
