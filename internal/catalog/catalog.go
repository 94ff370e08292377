// Package catalog holds the built-in screen resolution and user-agent
// catalogs offered to capture clients, grouped by device class.
package catalog

// Resolution is a named screen size.
type Resolution struct {
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// UserAgent is a display name paired with a raw user-agent string.
type UserAgent struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResolutionSet groups resolutions by device class.
type ResolutionSet struct {
	Desktop []Resolution `json:"desktop"`
	Mobile  []Resolution `json:"mobile"`
}

// UserAgentSet groups user agents by device class.
type UserAgentSet struct {
	Desktop []UserAgent `json:"desktop"`
	Mobile  []UserAgent `json:"mobile"`
}

var desktopResolutions = []Resolution{
	{Label: "1920×1080", Width: 1920, Height: 1080},
	{Label: "1366×768", Width: 1366, Height: 768},
	{Label: "1440×900", Width: 1440, Height: 900},
	{Label: "1536×864", Width: 1536, Height: 864},
	{Label: "1280×1024", Width: 1280, Height: 1024},
}

var mobileResolutions = []Resolution{
	{Label: "360×800", Width: 360, Height: 800},
	{Label: "375×667", Width: 375, Height: 667},
	{Label: "414×896", Width: 414, Height: 896},
	{Label: "390×844", Width: 390, Height: 844},
	{Label: "360×640", Width: 360, Height: 640},
}

var desktopUserAgents = []UserAgent{
	{Name: "Chrome (Windows)", Value: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"},
	{Name: "Firefox (Windows)", Value: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0"},
	{Name: "Safari (macOS)", Value: "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"},
	{Name: "Edge (Windows)", Value: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0"},
	{Name: "Chrome (macOS)", Value: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"},
	{Name: "Opera (Windows)", Value: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 OPR/106.0.0.0"},
	{Name: "Chrome (Linux)", Value: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"},
	{Name: "Firefox (macOS)", Value: "Mozilla/5.0 (Macintosh; Intel Mac OS X 14.0; rv:109.0) Gecko/20100101 Firefox/115.0"},
	{Name: "Firefox (Linux)", Value: "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"},
	{Name: "Edge (macOS)", Value: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0"},
}

var mobileUserAgents = []UserAgent{
	{Name: "Chrome (Android)", Value: "Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"},
	{Name: "Safari (iOS)", Value: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"},
	{Name: "Samsung Internet", Value: "Mozilla/5.0 (Linux; Android 10; SAMSUNG SM-G973F) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/20.0 Chrome/106.0.0.0 Mobile Safari/537.36"},
	{Name: "Firefox (Android)", Value: "Mozilla/5.0 (Android 14; Mobile; rv:109.0) Gecko/114.0 Firefox/114.0"},
	{Name: "Chrome (iOS)", Value: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) CriOS/120.0.0.0 Mobile/15E148 Safari/604.1"},
	{Name: "Edge (Android)", Value: "Mozilla/5.0 (Linux; Android 10; HD1913) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36 EdgA/120.0.0.0"},
	{Name: "Firefox (iOS)", Value: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) FxiOS/114.0 Mobile/15E148 Safari/605.1.15"},
	{Name: "Opera (Android)", Value: "Mozilla/5.0 (Linux; Android 10; VOG-L29) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36 OPR/76.0.0.0"},
	{Name: "UC Browser", Value: "Mozilla/5.0 (Linux; U; Android 10; en-US; Pixel 4) AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 Chrome/110.0.0.0 UCBrowser/14.0.0.1381 Mobile Safari/537.36"},
	{Name: "DuckDuckGo (iOS)", Value: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 DuckDuckGo/7 Safari/605.1.15"},
}

// Resolutions returns the full resolution catalog.
func Resolutions() ResolutionSet {
	return ResolutionSet{
		Desktop: append([]Resolution(nil), desktopResolutions...),
		Mobile:  append([]Resolution(nil), mobileResolutions...),
	}
}

// UserAgents returns the full user-agent catalog.
func UserAgents() UserAgentSet {
	return UserAgentSet{
		Desktop: append([]UserAgent(nil), desktopUserAgents...),
		Mobile:  append([]UserAgent(nil), mobileUserAgents...),
	}
}

// DesktopResolution resolves a desktop resolution by label. Unknown labels
// fall back to the first catalog entry.
func DesktopResolution(label string) Resolution {
	return lookup(desktopResolutions, label)
}

// MobileResolution resolves a mobile resolution by label. Unknown labels
// fall back to the first catalog entry.
func MobileResolution(label string) Resolution {
	return lookup(mobileResolutions, label)
}

func lookup(list []Resolution, label string) Resolution {
	for _, res := range list {
		if res.Label == label {
			return res
		}
	}
	return list[0]
}
