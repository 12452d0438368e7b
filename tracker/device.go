package tracker

import "strings"

// Mobile tokens are checked before tablet tokens, so a UA matching both
// (iPhone, Android phones) classifies as mobile. First match wins.
var mobileTokens = []string{
	"iPhone", "iPod", "Android", "BlackBerry", "IEMobile", "Opera Mini", "Mobile", "webOS",
}

var tabletTokens = []string{
	"Tablet", "iPad", "Kindle", "Silk", "PlayBook",
}

// GetDeviceInfo classifies a user-agent string as mobile, tablet or
// desktop.
func GetDeviceInfo(userAgent string) string {
	for _, token := range mobileTokens {
		if strings.Contains(userAgent, token) {
			return "mobile"
		}
	}
	for _, token := range tabletTokens {
		if strings.Contains(userAgent, token) {
			return "tablet"
		}
	}
	return "desktop"
}

// GetBrowserInfo classifies a user-agent string by browser token in a
// fixed priority order; a UA matching several tokens is classified by
// whichever is checked first.
func GetBrowserInfo(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "MSIE"), strings.Contains(userAgent, "Trident"):
		return "Internet Explorer"
	case strings.Contains(userAgent, "Edge"):
		return "Edge"
	default:
		return "Unknown"
	}
}
