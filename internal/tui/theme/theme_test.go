package theme

import "testing"

func TestByName(t *testing.T) {
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got)
	}
	if got := ByName("no-such-theme").Name; got != FlexokiDark.Name {
		t.Fatalf("ByName(unknown) = %q, want %q", got, FlexokiDark.Name)
	}
}

func TestThemesAreComplete(t *testing.T) {
	seen := make(map[string]bool)
	for _, th := range All {
		if seen[th.Name] {
			t.Fatalf("duplicate theme name %q", th.Name)
		}
		seen[th.Name] = true

		switch th.GlamourStyle {
		case "dark", "light", "notty":
		default:
			t.Fatalf("%s: glamour style %q is not a standard style", th.Name, th.GlamourStyle)
		}
		for role, c := range map[string]string{
			"Surface": string(th.Surface), "TextPrimary": string(th.TextPrimary),
			"Baseline": string(th.Baseline), "Car": string(th.Car), "Band": string(th.Band),
			"Gain": string(th.Gain), "Loss": string(th.Loss),
		} {
			if c == "" {
				t.Fatalf("%s: %s color is empty", th.Name, role)
			}
		}
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)
	SetActive("flexoki-light")
	if Active.Name != "flexoki-light" || Active.GlamourStyle != "light" {
		t.Fatalf("Active = %s/%s, want flexoki-light/light", Active.Name, Active.GlamourStyle)
	}
}
