// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/lssa-labs/treasuryvm/utils"
)

// confirm asks before moving funds or weakening a multisig. --yes skips it.
func confirm(label string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	promptText := promptui.Prompt{
		Label: fmt.Sprintf("%s, continue (y/n)", label),
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			lower := strings.ToLower(input)
			if lower == "y" || lower == "n" {
				return nil
			}
			return ErrInvalidChoice
		},
	}
	rawContinue, err := promptText.Run()
	if err != nil {
		return false, err
	}
	if strings.ToLower(rawContinue) == "n" {
		utils.Outf("{{red}}exiting...{{/}}\n")
		return false, nil
	}
	return true, nil
}
