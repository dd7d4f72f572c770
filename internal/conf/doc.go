// Package conf implements drop-in configuration file support for ltxdiff.
//
// # Usage
//
// The global Configuration variable is loaded from the per-user location at
// package initialization:
//
//	import "github.com/ltxdiff/ltxdiff/internal/conf"
//
//	func main() {
//	    fmt.Println(conf.Configuration.TypoTolerance)
//	}
//
// A file given on the command line replaces it:
//
//	config, err := conf.Source("~/mods/ltxdiff.toml").Read()
//
// # Load Order
//
// Config is loaded and applied in three layers:
//
//  1. Embedded defaults (default.toml)
//  2. Main config file: ~/.config/ltxdiff/config.toml
//  3. Drop-in files: ~/.config/ltxdiff/config.toml.d/*.toml, in lexicographic order
//
// # Keys
//
//	typo-tolerance = true    # repair common LTX typos instead of failing
//	log-level = "error"      # error, warn, info, debug or trace
//	overwrite = false        # let export replace existing output files
//	export-ignore = []       # gitignore style patterns of mod files export skips
//
// # Internal Architecture
//
//   - configDTO: internal struct with pointer fields for TOML parsing.
//     Pointers allow distinguishing "not set" (nil) from "set to zero value".
//
//   - Config: public struct with value fields. Has Update() method
//     to apply DTO values.
//
//   - ConfigSource: orchestrates loading from multiple sources and manages
//     their merging.
package conf
