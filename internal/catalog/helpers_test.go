package catalog_test

import "time"

const (
	timeout = time.Second
	tick    = time.Millisecond
)
