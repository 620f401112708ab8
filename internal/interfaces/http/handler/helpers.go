package handler

import "time"

// nowUnix is swappable for cookie expiry tests
var nowUnix = func() int64 { return time.Now().Unix() }
