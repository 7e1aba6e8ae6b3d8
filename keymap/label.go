package keymap

// Binding describes the keystroke that produces a note
type Binding struct {
	Symbol string
	Mode   RegisterMode
}

// bindingOrder decides which binding labels a note reachable from two registers
// C5 is both A (Normal) and K+Caps, the Normal binding is shown
var bindingOrder = [...]RegisterMode{Normal, LowerOctave, UpperOctave}

// BindingFor returns the canonical keystroke for a note drawn on the keyboard
func BindingFor(note Note) (Binding, bool) {
	for _, mode := range bindingOrder {
		for sym, n := range whiteTables[mode] {
			if n == note {
				return Binding{Symbol: sym, Mode: mode}, true
			}
		}
		for sym, n := range blackTables[mode] {
			if n == note {
				return Binding{Symbol: sym, Mode: mode}, true
			}
		}
	}
	return Binding{}, false
}

// Labels returns the display lines for a key, nil when the note has no binding
func Labels(note Note) []string {
	b, ok := BindingFor(note)
	if !ok {
		return nil
	}
	switch b.Mode {
	case LowerOctave:
		return []string{b.Symbol, "+", "Caps"}
	case UpperOctave:
		return []string{b.Symbol, "+", "Shift"}
	default:
		return []string{b.Symbol}
	}
}
