// Command ovenstate reports whether an oven indicator light is ON or OFF in
// a photograph.
//
// Usage:
//
//	ovenstate -i photo.jpg [-o debug_dir] [--roi x1,y1,x2,y2]
//	ovenstate serve
//
// The classification line is the only output on stdout. Logs and errors go
// to stderr.
package main

import "os"

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
