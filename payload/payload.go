// Package payload builds the text strings that get encoded into QR codes:
// plain URLs and the common URI-scheme conventions (mailto:, tel:, sms:,
// geo:) plus the WIFI: credential format understood by phone cameras.
package payload

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrRequired is returned when a mandatory field is blank.
	ErrRequired = errors.New("required field is empty")
	// ErrInvalidCoordinate is returned when a latitude or longitude is not a number.
	ErrInvalidCoordinate = errors.New("coordinate must be a number")
	// ErrUnknownKind is returned by Build for an unsupported payload kind.
	ErrUnknownKind = errors.New("unknown payload kind")
	// ErrInvalidEncryption is returned for an unrecognised WiFi encryption type.
	ErrInvalidEncryption = errors.New("unknown wifi encryption")
)

// Kind identifies which builder produces a payload.
type Kind string

const (
	KindText  Kind = "text"
	KindURL   Kind = "url"
	KindEmail Kind = "email"
	KindPhone Kind = "phone"
	KindSMS   Kind = "sms"
	KindWiFi  Kind = "wifi"
	KindGeo   Kind = "geo"
)

// Encryption is the authentication type of a WiFi network.
type Encryption string

const (
	EncryptionWPA    Encryption = "WPA"
	EncryptionWEP    Encryption = "WEP"
	EncryptionNoPass Encryption = "nopass"
)

// ParseEncryption maps user-facing labels onto an Encryption value. An empty
// label means an open network.
func ParseEncryption(label string) (Encryption, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "wpa", "wpa2", "wpa/wpa2", "wpa3":
		return EncryptionWPA, nil
	case "wep":
		return EncryptionWEP, nil
	case "", "nopass", "none", "open", "无":
		return EncryptionNoPass, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEncryption, label)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrRequired, field)
	}
	return nil
}

// Text returns s as-is. It is the payload used for free-form CLI input.
func Text(s string) (string, error) {
	if err := required("text", s); err != nil {
		return "", err
	}
	return s, nil
}

// URL returns the address unchanged.
func URL(u string) (string, error) {
	if err := required("url", u); err != nil {
		return "", err
	}
	return u, nil
}

// Email builds a mailto: URI. cc, subject and body are optional and appear as
// query parameters in that order only when non-empty.
func Email(to, cc, subject, body string) (string, error) {
	if err := required("to", to); err != nil {
		return "", err
	}

	var params []string
	if cc != "" {
		params = append(params, "cc="+quote(cc))
	}
	if subject != "" {
		params = append(params, "subject="+quote(subject))
	}
	if body != "" {
		params = append(params, "body="+quote(body))
	}

	out := "mailto:" + to
	if len(params) > 0 {
		out += "?" + strings.Join(params, "&")
	}
	return out, nil
}

// Phone builds a tel: URI.
func Phone(number string) (string, error) {
	if err := required("number", number); err != nil {
		return "", err
	}
	return "tel:" + number, nil
}

// SMS builds an sms: URI with an optional prefilled body.
func SMS(number, body string) (string, error) {
	if err := required("number", number); err != nil {
		return "", err
	}
	if body == "" {
		return "sms:" + number, nil
	}
	return "sms:" + number + "?body=" + quote(body), nil
}

// WiFi builds a WIFI: network descriptor. The password is omitted for open
// networks.
func WiFi(ssid, password string, enc Encryption) (string, error) {
	if err := required("ssid", ssid); err != nil {
		return "", err
	}
	switch enc {
	case EncryptionNoPass:
		return fmt.Sprintf("WIFI:T:nopass;S:%s;;", ssid), nil
	case EncryptionWPA, EncryptionWEP:
		return fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;;", enc, ssid, password), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEncryption, enc)
}

// Geo builds a geo: URI. Both coordinates must parse as numbers; the text is
// kept as entered.
func Geo(lat, lng string) (string, error) {
	if err := required("latitude", lat); err != nil {
		return "", err
	}
	if err := required("longitude", lng); err != nil {
		return "", err
	}
	if !isDecimal(lat) {
		return "", fmt.Errorf("%w: latitude %q", ErrInvalidCoordinate, lat)
	}
	if !isDecimal(lng) {
		return "", fmt.Errorf("%w: longitude %q", ErrInvalidCoordinate, lng)
	}
	return "geo:" + lat + "," + lng, nil
}

// isDecimal accepts finite numbers in plain decimal or exponent notation.
// Hex floats, Inf and NaN parse but are not coordinates.
func isDecimal(s string) bool {
	if strings.ContainsAny(s, "xXpP") {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// quote percent-encodes s, leaving only RFC 3986 unreserved characters and
// '/' literal.
func quote(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
