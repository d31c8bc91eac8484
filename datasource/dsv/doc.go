// Package dsv loads delimiter-separated data into a tabula.Table. Every field is loaded as a
// string; use tabula.ConvertColumns with the columntype package to obtain typed values.
package dsv
