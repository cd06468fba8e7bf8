// Package config loads the plover host configuration from
// ~/.config/plover/config.toml.
//
// A missing file yields working defaults (browse the home directory with the
// stock engine tuning); a present-but-invalid file is an error. Engine
// tunables map one-to-one onto plover.Config fields, with durations expressed
// as integer milliseconds/seconds in TOML:
//
//	[source]
//	kind = "dir"          # dir | log | http
//	path = "~/Downloads"  # dir and log kinds
//	url = ""              # http kind
//
//	[view]
//	page_size = 50
//	debounce_ms = 250
//	rebuild_threshold = 0.4
//	cache_ttl_ms = 1500
//	refresh_seconds = 2
//	filter = ""           # optional CEL expression, e.g. "record.size > 1000000"
package config
