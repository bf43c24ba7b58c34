package payload

import (
	"errors"
	"fmt"
	"strings"
)

// Fields is the union of every structured input a front-end can collect.
// Only the fields relevant to the selected Kind are read.
type Fields struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`

	To      string `json:"to,omitempty"`
	CC      string `json:"cc,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`

	Number string `json:"number,omitempty"`

	SSID       string `json:"ssid,omitempty"`
	Password   string `json:"password,omitempty"`
	Encryption string `json:"encryption,omitempty"`

	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (f Fields) Trimmed() Fields {
	return Fields{
		Text:       strings.TrimSpace(f.Text),
		URL:        strings.TrimSpace(f.URL),
		To:         strings.TrimSpace(f.To),
		CC:         strings.TrimSpace(f.CC),
		Subject:    strings.TrimSpace(f.Subject),
		Body:       strings.TrimSpace(f.Body),
		Number:     strings.TrimSpace(f.Number),
		SSID:       strings.TrimSpace(f.SSID),
		Password:   strings.TrimSpace(f.Password),
		Encryption: strings.TrimSpace(f.Encryption),
		Latitude:   strings.TrimSpace(f.Latitude),
		Longitude:  strings.TrimSpace(f.Longitude),
	}
}

// Build produces the payload string for kind from f.
func Build(kind Kind, f Fields) (string, error) {
	switch kind {
	case KindText:
		return Text(f.Text)
	case KindURL:
		return URL(f.URL)
	case KindEmail:
		return Email(f.To, f.CC, f.Subject, f.Body)
	case KindPhone:
		return Phone(f.Number)
	case KindSMS:
		return SMS(f.Number, f.Body)
	case KindWiFi:
		enc, err := ParseEncryption(f.Encryption)
		if err != nil {
			return "", err
		}
		return WiFi(f.SSID, f.Password, enc)
	case KindGeo:
		return Geo(f.Latitude, f.Longitude)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// IsInputError reports whether err was caused by user input rather than by
// encoding or I/O.
func IsInputError(err error) bool {
	return errors.Is(err, ErrRequired) ||
		errors.Is(err, ErrInvalidCoordinate) ||
		errors.Is(err, ErrInvalidEncryption) ||
		errors.Is(err, ErrUnknownKind)
}
