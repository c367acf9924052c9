// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/boreapps/bore/internal/domain"
)

var errMalformed = errors.New("malformed catalog document")

// documentApp is the on-disk shape of one app. Field order is the write order.
type documentApp struct {
	URL      string `json:"url"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
}

// Decode parses a catalog document of the form
// {"<group>": {"<app>": {"url", "icon", "category"}}}.
// The group key is ignored; each app is filed under its own category field.
// Key order is preserved so categories appear in first-seen order.
func Decode(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var entries []domain.AppEntry

	for dec.More() {
		group, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("group %q: %w", group, err)
		}

		for dec.More() {
			name, err := readKey(dec)
			if err != nil {
				return nil, err
			}

			var app documentApp
			if err := dec.Decode(&app); err != nil {
				return nil, fmt.Errorf("app %q: %w: %w", name, errMalformed, err)
			}

			entries = append(entries, domain.AppEntry{
				Name:     name,
				URL:      app.URL,
				Icon:     app.Icon,
				Category: app.Category,
			})
		}

		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data", errMalformed)
	}

	return New(entries...), nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", errMalformed, err)
	}

	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected object key, got %v", errMalformed, tok)
	}

	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", errMalformed, err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("%w: expected %q, got %v", errMalformed, want, tok)
	}

	return nil
}

// Encode writes the catalog as {"<category>": {"<app>": {...}}} in display
// order with two-space indentation. Empty categories are omitted.
func Encode(c *Catalog) ([]byte, error) {
	var compact bytes.Buffer

	enc := json.NewEncoder(&compact)
	enc.SetEscapeHTML(false)

	compact.WriteByte('{')

	firstCategory := true

	for _, category := range c.categories {
		if len(category.Apps) == 0 {
			continue
		}

		if !firstCategory {
			compact.WriteByte(',')
		}

		firstCategory = false

		if err := enc.Encode(category.Name); err != nil {
			return nil, err
		}

		compact.WriteString(":{")

		for i, app := range category.Apps {
			if i > 0 {
				compact.WriteByte(',')
			}

			if err := enc.Encode(app.Name); err != nil {
				return nil, err
			}

			compact.WriteByte(':')

			if err := enc.Encode(documentApp{URL: app.URL, Icon: app.Icon, Category: category.Name}); err != nil {
				return nil, err
			}
		}

		compact.WriteByte('}')
	}

	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}

	out.WriteByte('\n')

	return out.Bytes(), nil
}
