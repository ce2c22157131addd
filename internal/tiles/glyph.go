package tiles

// BackCode is the lookup key for a face-down tile.
const BackCode = "back"

// BackGlyph is drawn for face-down tiles and for codes with no face.
const BackGlyph = "\U0001F02B"

// Unicode mahjong faces in code order. Honors follow the 1z..7z order
// East, South, West, North, White, Green, Red.
var (
	manGlyphs   = [9]rune{0x1F007, 0x1F008, 0x1F009, 0x1F00A, 0x1F00B, 0x1F00C, 0x1F00D, 0x1F00E, 0x1F00F}
	pinGlyphs   = [9]rune{0x1F019, 0x1F01A, 0x1F01B, 0x1F01C, 0x1F01D, 0x1F01E, 0x1F01F, 0x1F020, 0x1F021}
	souGlyphs   = [9]rune{0x1F010, 0x1F011, 0x1F012, 0x1F013, 0x1F014, 0x1F015, 0x1F016, 0x1F017, 0x1F018}
	honorGlyphs = [7]rune{0x1F000, 0x1F001, 0x1F002, 0x1F003, 0x1F006, 0x1F005, 0x1F004}
)

// Glyph returns the face for a tile code. Red fives share the face of the
// plain five. Unknown codes, including BackCode, get BackGlyph.
func Glyph(code string) string {
	kind, _, err := ParseCode(code)
	if err != nil {
		return BackGlyph
	}
	return kind.Glyph()
}

// Glyph returns the face for the kind.
func (k Kind) Glyph() string {
	i := int(k.Rank) - 1
	if i < 0 || i >= k.Suit.MaxRank() {
		return BackGlyph
	}
	switch k.Suit {
	case SuitMan:
		return string(manGlyphs[i])
	case SuitPin:
		return string(pinGlyphs[i])
	case SuitSou:
		return string(souGlyphs[i])
	case SuitHonor:
		return string(honorGlyphs[i])
	}
	return BackGlyph
}

// Glyph returns the tile's face.
func (t Tile) Glyph() string {
	return t.Kind().Glyph()
}

// AllCodes returns every distinct tile code in canonical order, with the
// red fives placed before each suit's 1.
func AllCodes() []string {
	var out []string
	for s := SuitMan; s <= SuitHonor; s++ {
		if s.Numbered() {
			out = append(out, "0"+s.String())
		}
		for r := 1; r <= s.MaxRank(); r++ {
			out = append(out, string(rune('0'+r))+s.String())
		}
	}
	return out
}
