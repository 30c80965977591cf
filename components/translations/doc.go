// Package translations serves the translation panel of registered models
// over net/http.
//
// Every model gets three routes under <base>/<app>/<model>/:
// update_translations/ (POST, confirms a value), process_translations/
// (POST, writes a value) and translations/ (GET, the status grid as HTML or
// JSON). Write endpoints answer with the recomputed status of the field.
package translations
