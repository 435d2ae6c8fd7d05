package utils

import "time"

// AuthCachePrefix namespaces cached account lookups.
const AuthCachePrefix = "auth:user:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = time.Hour
