package source

// StringID is a handle to an interned string. NoStringID maps to "".
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier and literal text.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID of s, adding it on first sight.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	id := StringID(mustLen(len(i.byID)))
	i.byID = append(i.byID, s)
	i.index[s] = id
	return id
}

// Lookup returns the string for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on an unknown id.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("source: invalid string id")
	}
	return s
}

// Len counts interned strings including the empty string.
func (i *Interner) Len() int { return len(i.byID) }
