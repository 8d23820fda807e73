package application

import "exostandards/domain/standards"

// BuildRawSettingsFromFormData maps a form post onto raw settings.
// Checkboxes arrive as "on"; an absent checkbox means false.
func BuildRawSettingsFromFormData(formData map[string][]string) standards.RawSettings {
	first := func(key string) (string, bool) {
		if values, exists := formData[key]; exists && len(values) > 0 {
			return values[0], true
		}
		return "", false
	}

	raw := standards.RawSettings{
		Remediate: false,
		Alert:     false,
		Report:    false,
	}

	if v, ok := first("SendLimit"); ok {
		raw.SendLimit = v
	}
	if v, ok := first("ReceiveLimit"); ok {
		raw.ReceiveLimit = v
	}
	if v, ok := first("remediate"); ok {
		raw.Remediate = v
	}
	if v, ok := first("alert"); ok {
		raw.Alert = v
	}
	if v, ok := first("report"); ok {
		raw.Report = v
	}
	if v, ok := first("standardId"); ok {
		raw.StandardID = v
	}

	return raw
}
