package source

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalKey normalizes a raw header so that lookups do not depend on the
// export's formatting quirks: NFC, trimmed, whitespace runs (including
// embedded newlines) collapsed to a single space.
//
//	CanonicalKey("Nombres:\n")               == "Nombres:"
//	CanonicalKey("Teléfono (WhatsApp):\n")  == "Teléfono (WhatsApp):"
func CanonicalKey(raw string) string {
	return strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
}
