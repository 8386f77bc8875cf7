package sdk

// Version is the library version sent in the User-Agent header.
const Version = "0.1.0"

// DefaultUserAgent is the User-Agent sent when none is configured.
const DefaultUserAgent = "genaws/" + Version
