// Package model holds the per-model translation metadata shared by the field
// expansion engine, the status evaluator and the admin integration.
//
// A Registry is built once per model by Register. It maps every translatable
// field to one Descriptor per configured language, in language registry
// order. Descriptors name the record slots holding the language value and,
// for tracked fields, its last-modified timestamp, so callers never derive
// attribute names from string patterns at access time.
//
// Records are accessed through the Record interface; MapRecord is the
// in-memory implementation used by the stores. Column and FormField describe
// the host admin framework's columns and form fields that the admin package
// patches.
package model
