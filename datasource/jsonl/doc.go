// Package jsonl loads JSON Lines data into a tabula.Table. This loader uses https://github.com/tidwall/gjson to process data, and supports column names formatted as gjson paths.
package jsonl
