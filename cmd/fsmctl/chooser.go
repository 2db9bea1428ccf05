package main

import "github.com/manifoldco/promptui"

// chooser asks the user to pick one of items and returns its index.
type chooser interface {
	Choose(label string, items []string) (int, error)
}

type promptChooser struct{}

func (promptChooser) Choose(label string, items []string) (int, error) {
	sel := &promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}

	idx, _, err := sel.Run()

	return idx, err
}
