package coursemate

import _ "embed"

// Version is the current release, embedded from the VERSION file at the
// repository root. It carries a trailing newline.
//
//go:embed VERSION
var Version string
