package irkeys

import "fmt"

// Key is an application input symbol. The set is closed: the ten digits,
// Submit and Backspace. The underlying value is the byte the keypad
// application expects.
type Key byte

const (
	Key0         Key = '0'
	Key1         Key = '1'
	Key2         Key = '2'
	Key3         Key = '3'
	Key4         Key = '4'
	Key5         Key = '5'
	Key6         Key = '6'
	Key7         Key = '7'
	Key8         Key = '8'
	Key9         Key = '9'
	KeySubmit    Key = 's'
	KeyBackspace Key = 'b'
)

// Keys lists every Key in keypad order.
var Keys = [...]Key{Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9, KeySubmit, KeyBackspace}

// Byte returns the byte representation of k.
func (k Key) Byte() byte { return byte(k) }

// Valid reports whether k is one of the twelve keys.
func (k Key) Valid() bool {
	switch k {
	case Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9, KeySubmit, KeyBackspace:
		return true
	}
	return false
}

func (k Key) String() string {
	switch k {
	case KeySubmit:
		return "submit"
	case KeyBackspace:
		return "backspace"
	}
	if k >= Key0 && k <= Key9 {
		return string(rune(k))
	}
	return fmt.Sprintf("Key(%d)", byte(k))
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	for _, k := range Keys {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("irkeys: unknown key %q", s)
}
