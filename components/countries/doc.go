// Package countries provides the country and state data behind the
// country_select_field and state_select_field template tags, plus a small
// net/http handler that serves the same data as JSON for address forms.
//
// The backing list is embedded from data/countries.txt. Each line carries an
// ISO 3166 code, a display name and an optional semicolon separated list of
// states or regions.
package countries
