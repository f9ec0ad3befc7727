package irkeys

import "fmt"

// defaultCodes is the command table of the 21-key "Car MP3" style NEC remote
// shipped with the keypad. Only the digits and the two editing keys are used.
var defaultCodes = [...]struct {
	code uint8
	key  Key
}{
	{22, Key0},
	{12, Key1},
	{24, Key2},
	{94, Key3},
	{8, Key4},
	{28, Key5},
	{90, Key6},
	{66, Key7},
	{82, Key8},
	{74, Key9},
	{68, KeyBackspace},
	{64, KeySubmit},
}

// Keymap translates decoded command codes into keys. Codes that are not in
// the map have no key.
type Keymap map[uint8]Key

// DefaultKeymap returns a fresh copy of the reference remote's table.
func DefaultKeymap() Keymap {
	km := make(Keymap, len(defaultCodes))
	for _, e := range defaultCodes {
		km[e.code] = e.key
	}
	return km
}

// Lookup returns the key for code. ok is false for unmapped codes.
func (km Keymap) Lookup(code uint8) (k Key, ok bool) {
	k, ok = km[code]
	return
}

// Validate checks that every entry maps to one of the twelve keys.
func (km Keymap) Validate() error {
	for code, k := range km {
		if !k.Valid() {
			return fmt.Errorf("irkeys: code %d maps to invalid key %d", code, byte(k))
		}
	}
	return nil
}

// Code returns the lowest code that maps to k.
func (km Keymap) Code(k Key) (code uint8, ok bool) {
	for c, kk := range km {
		if kk == k && (!ok || c < code) {
			code, ok = c, true
		}
	}
	return
}
