package ui

import (
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// showSettingsDialog edits the advisory and application preferences. The
// API key round-trips through the system keyring, never the preferences
// file.
func (a *StrideApp) showSettingsDialog() {
	endpoint := widget.NewEntry()
	endpoint.SetText(a.cfg.GetAdvisoryEndpoint())

	model := widget.NewEntry()
	model.SetText(a.cfg.GetAdvisoryModel())

	apiKey := widget.NewPasswordEntry()
	apiKey.SetText(a.cfg.GetAdvisoryAPIKey())
	apiKey.SetPlaceHolder("sk-...")

	notifications := widget.NewCheck("", nil)
	notifications.SetChecked(a.appConfig.GetAppNotificationsEnabled())

	updateCheck := widget.NewCheck("", nil)
	updateCheck.SetChecked(a.appConfig.GetUpdateCheckEnabled())

	mirror := widget.NewCheck("takes effect on restart", nil)
	mirror.SetChecked(a.appConfig.GetMirrorServerEnabled())

	items := []*widget.FormItem{
		widget.NewFormItem("Advisory endpoint", endpoint),
		widget.NewFormItem("Advisory model", model),
		widget.NewFormItem("API key", apiKey),
		widget.NewFormItem("Notifications", notifications),
		widget.NewFormItem("Check for updates", updateCheck),
		widget.NewFormItem("Browser mirror", mirror),
	}

	dialog.ShowForm("Settings", "Save", "Cancel", items, func(save bool) {
		if !save {
			return
		}
		a.cfg.SetAdvisoryEndpoint(endpoint.Text)
		a.cfg.SetAdvisoryModel(model.Text)
		a.cfg.SetAdvisoryAPIKey(apiKey.Text)
		a.appConfig.SetAppNotificationsEnabled(notifications.Checked)
		a.appConfig.SetUpdateCheckEnabled(updateCheck.Checked)
		a.appConfig.SetMirrorServerEnabled(mirror.Checked)
	}, a.window)
}
