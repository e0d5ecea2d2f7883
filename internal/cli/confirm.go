package cli

import "github.com/charmbracelet/huh"

func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

// confirmDestructive runs the confirmation prompt unless yes is set.
// Non-interactive sessions must pass --yes.
func confirmDestructive(app *App, yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, errNeedsYes
	}
	return app.confirm(title)
}
