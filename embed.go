package cosmicblog

import "embed"

// AssetsFS contains the static files served under /assets/.
// Run "go run ./cmd/do gen" to build assets/css/output.css.
//
//go:embed assets
var AssetsFS embed.FS
