// Package locator rewrites media locators that point at a local storage
// emulator so the same feed works from an emulator and from a simulator.
package locator

import (
	"fmt"
	"net/url"
	"strings"
)

// Emulator endpoints. The Android emulator reaches the host through a fixed
// bridge address; iOS simulators share the host loopback.
const (
	BridgeHost   = "10.0.2.2:9199"
	LoopbackHost = "localhost:9199"
)

// Platform selects which way the emulator host is rewritten.
type Platform int

const (
	Android Platform = iota
	IOS
)

// String returns the config name of the platform.
func (p Platform) String() string {
	switch p {
	case Android:
		return "android"
	case IOS:
		return "ios"
	default:
		return "unknown"
	}
}

// ParsePlatform parses "android" or "ios" (case-insensitive).
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(s) {
	case "android":
		return Android, nil
	case "ios":
		return IOS, nil
	}
	return Android, fmt.Errorf("unknown platform %q", s)
}

// Rewrite swaps the emulator host for the one reachable on platform.
// On iOS the bridge host becomes loopback; on Android loopback becomes the
// bridge host. Locators that do not parse or do not match are returned as-is.
func Rewrite(loc string, platform Platform) string {
	u, err := url.Parse(loc)
	if err != nil || u.Host == "" {
		return loc
	}

	var from, to string
	switch {
	case platform == IOS && u.Host == BridgeHost:
		from, to = BridgeHost, LoopbackHost
	case platform == Android && u.Host == LoopbackHost:
		from, to = LoopbackHost, BridgeHost
	default:
		return loc
	}

	return replaceHost(loc, from, to)
}

// replaceHost swaps the host:port of loc's authority, skipping any userinfo,
// and keeps every other byte of the locator as written.
func replaceHost(loc, from, to string) string {
	i := strings.Index(loc, "//")
	if i < 0 {
		return loc
	}
	start, end := i+2, len(loc)
	if j := strings.IndexAny(loc[start:], "/?#"); j >= 0 {
		end = start + j
	}
	if at := strings.LastIndex(loc[start:end], "@"); at >= 0 {
		start += at + 1
	}
	if loc[start:end] != from {
		return loc
	}
	return loc[:start] + to + loc[end:]
}

// Rewriter binds Rewrite to a platform.
type Rewriter struct {
	Platform Platform
}

// Rewrite applies the platform rule to loc.
func (r Rewriter) Rewrite(loc string) string {
	return Rewrite(loc, r.Platform)
}
