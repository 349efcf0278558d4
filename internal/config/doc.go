// Package config loads the TOML configuration file of the math editor.
//
// A file overrides any subset of the defaults:
//
//	[editor]
//	smart_fence = true
//	remove_extraneous_parentheses = true
//	default_mode = "math"             # math | text
//	insert_mode = "replace_selection" # replace_all | insert_before | insert_after
//	selection_mode = "placeholder"    # after | before | item
//
//	[editor.macros]
//	half = '\frac{1}{2}'
//
//	[undo]
//	max_entries = 1000
//	coalesce_ms = 1000
//
//	[log]
//	level = "warn"
//
// Unknown keys are rejected. Watch reloads the file when it changes.
package config
