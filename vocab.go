package handwriting

import "sort"

// A Vocab maps characters to dense integer ids and back.
//
// Ids are assigned in sorted character order, so the same
// text always yields the same mapping.
type Vocab struct {
	idToChar []rune
	charToID map[rune]int
}

// BuildVocab creates a Vocab from every cell of a padded
// TextMatrix, including PadChar cells.
func BuildVocab(t *TextMatrix) *Vocab {
	seen := map[rune]bool{}
	for _, r := range t.Cells {
		seen[r] = true
	}
	chars := make([]rune, 0, len(seen))
	for r := range seen {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool {
		return chars[i] < chars[j]
	})
	return NewVocab(chars)
}

// NewVocab creates a Vocab which assigns id i to
// chars[i].
// Duplicate characters keep their first id.
func NewVocab(chars []rune) *Vocab {
	v := &Vocab{
		idToChar: append([]rune{}, chars...),
		charToID: make(map[rune]int, len(chars)),
	}
	for i, r := range chars {
		if _, ok := v.charToID[r]; !ok {
			v.charToID[r] = i
		}
	}
	return v
}

// Len returns the number of ids.
func (v *Vocab) Len() int {
	return len(v.idToChar)
}

// Chars returns the characters in id order.
func (v *Vocab) Chars() []rune {
	return append([]rune{}, v.idToChar...)
}

// ID returns the id of a character.
func (v *Vocab) ID(r rune) (int, error) {
	id, ok := v.charToID[r]
	if !ok {
		return 0, &UnknownCharError{Char: r}
	}
	return id, nil
}

// Char returns the character for an id.
func (v *Vocab) Char(id int) (rune, error) {
	if id < 0 || id >= len(v.idToChar) {
		return 0, &UnknownIDError{ID: id, Size: len(v.idToChar)}
	}
	return v.idToChar[id], nil
}

// Encode maps a character sequence to ids.
func (v *Vocab) Encode(chars []rune) ([]int, error) {
	res := make([]int, len(chars))
	for i, r := range chars {
		id, err := v.ID(r)
		if err != nil {
			return nil, err
		}
		res[i] = id
	}
	return res, nil
}

// Decode maps ids to a character sequence.
func (v *Vocab) Decode(ids []int) ([]rune, error) {
	res := make([]rune, len(ids))
	for i, id := range ids {
		r, err := v.Char(id)
		if err != nil {
			return nil, err
		}
		res[i] = r
	}
	return res, nil
}

// EncodeString is like Encode for a string.
func (v *Vocab) EncodeString(s string) ([]int, error) {
	return v.Encode([]rune(s))
}

// DecodeString is like Decode, but produces a string.
func (v *Vocab) DecodeString(ids []int) (string, error) {
	chars, err := v.Decode(ids)
	if err != nil {
		return "", err
	}
	return string(chars), nil
}
