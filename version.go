package concierge

// Version is the release version, overridable at build time via
// -ldflags "-X github.com/aretw0/concierge.Version=...".
var Version = "0.1.0"
