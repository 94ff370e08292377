package catalog

import "testing"

func TestResolutionsGroupedByDeviceClass(t *testing.T) {
	set := Resolutions()
	if len(set.Desktop) != 5 {
		t.Fatalf("desktop resolutions = %d; want 5", len(set.Desktop))
	}
	if len(set.Mobile) != 5 {
		t.Fatalf("mobile resolutions = %d; want 5", len(set.Mobile))
	}
	if set.Desktop[0].Label != "1920×1080" {
		t.Fatalf("first desktop label = %q; want %q", set.Desktop[0].Label, "1920×1080")
	}
	if set.Mobile[0].Label != "360×800" {
		t.Fatalf("first mobile label = %q; want %q", set.Mobile[0].Label, "360×800")
	}
}

func TestUserAgentsGroupedByDeviceClass(t *testing.T) {
	set := UserAgents()
	if len(set.Desktop) != 10 {
		t.Fatalf("desktop user agents = %d; want 10", len(set.Desktop))
	}
	if len(set.Mobile) != 10 {
		t.Fatalf("mobile user agents = %d; want 10", len(set.Mobile))
	}
	for _, ua := range append(set.Desktop, set.Mobile...) {
		if ua.Name == "" || ua.Value == "" {
			t.Fatalf("user agent with empty field: %+v", ua)
		}
	}
}

func TestResolutionLookup(t *testing.T) {
	tests := []struct {
		name   string
		lookup func(string) Resolution
		label  string
		width  int
		height int
	}{
		{"desktop_known", DesktopResolution, "1366×768", 1366, 768},
		{"desktop_unknown_falls_back_to_first", DesktopResolution, "9999×9999", 1920, 1080},
		{"mobile_known", MobileResolution, "375×667", 375, 667},
		{"mobile_unknown_falls_back_to_first", MobileResolution, "", 360, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.lookup(tt.label)
			if res.Width != tt.width || res.Height != tt.height {
				t.Fatalf("lookup(%q) = %dx%d; want %dx%d", tt.label, res.Width, res.Height, tt.width, tt.height)
			}
		})
	}
}
