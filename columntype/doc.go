// Package columntype provides the built-in conversion targets for tabula.ConvertColumns.
// Every type converts Null to Null.
package columntype
