package render

import "regexp"

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)
