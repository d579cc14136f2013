package core

// These errors report engine misuse, not inspection outcomes.
// Inspection outcomes are Vision states.

// BadRune occurs when a Rune's configuration doesn't validate.
type BadRune struct {
	Rune   *Rune
	Reason string
}

func (e *BadRune) Error() string {
	name := "?"
	if e.Rune != nil && e.Rune.Name != "" {
		name = e.Rune.Name
	}
	return `rune "` + name + `": ` + e.Reason
}

// DuplicateRune occurs when a Rune is added to a Ritual that already
// has a Rune with that name.
type DuplicateRune struct {
	Ritual string
	Name   string
}

func (e *DuplicateRune) Error() string {
	return `rune "` + e.Name + `" already in ritual "` + e.Ritual + `"`
}

// ReservedName occurs when a Rune is added under its Ritual's own name.
// The flat export keeps ritual and rune keys in one namespace, so the
// ritual's name is reserved for its verdict.
type ReservedName struct {
	Ritual string
}

func (e *ReservedName) Error() string {
	return `rune name "` + e.Ritual + `" is reserved for the ritual's own verdict`
}
