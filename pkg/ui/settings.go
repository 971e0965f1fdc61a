package ui

import (
	"fmt"
	"net/url"
	"strings"

	"asconsole/pkg/config"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const (
	prefEndpointURLKey   = "endpointURL"
	prefProfileKey       = "profile"
	prefChartsEnabledKey = "chartsEnabled"
)

// consoleSettings are the user preferences layered over the config file.
type consoleSettings struct {
	EndpointURL   string
	Profile       string
	ChartsEnabled bool
}

func loadSettings(prefs fyne.Preferences, cfg config.ConsoleConfig) consoleSettings {
	s := consoleSettings{
		EndpointURL:   cfg.BaseURL(),
		Profile:       cfg.Profile,
		ChartsEnabled: cfg.ChartsEnabled,
	}
	if prefs == nil {
		return s
	}
	if u := normalizeEndpointURL(prefs.StringWithFallback(prefEndpointURLKey, "")); u != "" {
		s.EndpointURL = u
	}
	if profile := sanitizeID(prefs.StringWithFallback(prefProfileKey, "")); profile != "" {
		s.Profile = profile
	}
	s.ChartsEnabled = prefs.BoolWithFallback(prefChartsEnabledKey, s.ChartsEnabled)
	return s
}

func saveSettings(prefs fyne.Preferences, s consoleSettings) {
	prefs.SetString(prefEndpointURLKey, s.EndpointURL)
	prefs.SetString(prefProfileKey, s.Profile)
	prefs.SetBool(prefChartsEnabledKey, s.ChartsEnabled)
}

// sanitizeID lowercases raw and collapses everything but letters and digits
// into single dashes.
func sanitizeID(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// normalizeEndpointURL accepts "host:port" or a URL and returns the scheme and
// host only, or "" when raw cannot be an endpoint.
func normalizeEndpointURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/")
}

func (c *ConsoleApp) showPreferences() {
	if c.settingsWindow != nil {
		c.settingsWindow.RequestFocus()
		return
	}

	w := c.FyneApp.NewWindow("Settings")
	w.Resize(fyne.NewSize(520, 240))
	c.settingsWindow = w
	w.SetOnClosed(func() {
		c.settingsWindow = nil
	})

	current := loadSettings(c.FyneApp.Preferences(), c.cfg)

	urlEntry := widget.NewEntry()
	urlEntry.SetText(current.EndpointURL)
	urlEntry.SetPlaceHolder("http://127.0.0.1:9990")
	urlEntry.Validator = func(s string) error {
		if normalizeEndpointURL(s) == "" {
			return fmt.Errorf("enter host:port or an http(s) URL")
		}
		return nil
	}

	profileEntry := widget.NewEntry()
	profileEntry.SetText(current.Profile)

	chartsCheck := widget.NewCheck("Render charts", nil)
	chartsCheck.SetChecked(current.ChartsEnabled)

	form := widget.NewForm(
		widget.NewFormItem("Management endpoint", urlEntry),
		widget.NewFormItem("Profile", profileEntry),
		widget.NewFormItem("", chartsCheck),
	)

	save := widget.NewButton("Save", func() {
		if err := urlEntry.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		next := consoleSettings{
			EndpointURL:   normalizeEndpointURL(urlEntry.Text),
			Profile:       sanitizeID(profileEntry.Text),
			ChartsEnabled: chartsCheck.Checked,
		}
		if next.Profile == "" {
			next.Profile = current.Profile
		}
		saveSettings(c.FyneApp.Preferences(), next)
		c.log.WithField("endpoint", next.EndpointURL).Info("settings saved")
		dialog.ShowInformation("Saved", "Restart the console to apply the new settings.", w)
	})

	w.SetContent(container.NewPadded(widget.NewCard("Connection", "", container.NewVBox(form, save))))
	w.Show()
}
