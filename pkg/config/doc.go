// Package config loads archive manifests for mshar.
//
// 	            +-------------+
// 	            |   Config    |
// 	            | (Manifest)  |
// 	            +------+------+
// 	                   |
// 	   +---------+-----+-----+---------+
// 	   |         |           |         |
// 	+--+---+ +---+--+    +---+--+  +---+--+
// 	| YAML | | JSON |    | HCL  |  | TOML |
// 	+------+ +------+    +------+  +------+
//
// 🎯 Purpose:
//   - Describe an archive in a file instead of on the command line
//   - Validate paths and patterns before any file is read
//
// 🔄 Flow:
//  1. Pick a parser by file extension
//  2. Decode, rejecting unknown fields
//  3. Normalize "-" scripts, apply defaults, validate
//
// 📝 Paths:
// Every path and pattern in a manifest is relative to the manifest's own
// directory (see Config.Dir). Archives embed those relative paths, so they
// extract the same tree wherever they are run.
//
// 🔍 Example:
//
// 	# .mshar.yaml
// 	prescript: scripts/pre.sh
// 	files:
// 	  - README.md
// 	include:
// 	  - "config/**/*.yaml"
// 	exclude:
// 	  - "**/secret*"
// 	strict: true
// 	output: dist/install.sh
package config
