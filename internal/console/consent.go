// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Constants for consent responses.
const (
	ConsentYes = "yes"
	ConsentY   = "y"
)

// PromptConsent asks a yes/no question on writer and reads the answer from reader.
// Anything other than y/yes is a refusal. With autoYes the prompt is only echoed.
func PromptConsent(prompt string, autoYes bool, reader io.Reader, writer io.Writer) (bool, error) {
	if autoYes {
		_, _ = fmt.Fprintf(writer, "Auto-accepting: %s\n", prompt)
		return true, nil
	}

	_, _ = fmt.Fprintf(writer, "%s [y/N]: ", prompt)

	response, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && response == "" {
		return false, err
	}

	response = strings.TrimSpace(strings.ToLower(response))

	return response == ConsentY || response == ConsentYes, nil
}
