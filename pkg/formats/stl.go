// STL (multi-language string table) format codec.
package formats

import (
	"errors"
	"fmt"
	"sort"

	"github.com/maruel/natural"

	"github.com/Faultbox/junon-rose/pkg/rw"
)

// STL format errors.
var ErrInvalidSTLIdentifier = errors.New("unknown STL format identifier")

// StringTableType selects which text fields every entry of a table carries.
type StringTableType int

// String table types and their format identifiers.
const (
	StringTableText        StringTableType = iota // NRST01: text only
	StringTableDescription                        // ITST01: text + description
	StringTableQuest                              // QEST01: text, description, start, end
)

// Identifier returns the on-disk format tag for the table type.
func (t StringTableType) Identifier() string {
	switch t {
	case StringTableDescription:
		return "ITST01"
	case StringTableQuest:
		return "QEST01"
	default:
		return "NRST01"
	}
}

// FieldCount returns how many text fields each entry stores per language.
func (t StringTableType) FieldCount() int {
	switch t {
	case StringTableDescription:
		return 2
	case StringTableQuest:
		return 4
	default:
		return 1
	}
}

// ParseStringTableType maps a format tag to its table type.
func ParseStringTableType(s string) (StringTableType, error) {
	switch s {
	case "NRST01":
		return StringTableText, nil
	case "ITST01":
		return StringTableDescription, nil
	case "QEST01":
		return StringTableQuest, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSTLIdentifier, s)
	}
}

// Language indexes the fixed set of translations every entry carries.
type Language int

// The seven languages of the retail client, in file order.
const (
	LanguageKorean Language = iota
	LanguageEnglish
	LanguageJapanese
	LanguageChineseTraditional
	LanguageChineseSimplified
	LanguagePortuguese
	LanguageFrench

	// LanguageCount is the number of language slots per text field.
	LanguageCount = 7
)

// String returns a human-readable language name.
func (l Language) String() string {
	switch l {
	case LanguageKorean:
		return "Korean"
	case LanguageEnglish:
		return "English"
	case LanguageJapanese:
		return "Japanese"
	case LanguageChineseTraditional:
		return "Chinese (Traditional)"
	case LanguageChineseSimplified:
		return "Chinese (Simplified)"
	case LanguagePortuguese:
		return "Portuguese"
	case LanguageFrench:
		return "French"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// StringTableEntry holds every text field of one key, with one slot per
// language (empty where untranslated). The table's type decides which fields
// are meaningful: Text tables use Text, Description tables add Description,
// Quest tables use all four. Unused fields stay empty and are not written.
type StringTableEntry struct {
	Text         [LanguageCount]string
	Description  [LanguageCount]string
	StartMessage [LanguageCount]string
	EndMessage   [LanguageCount]string
}

// fields returns pointers to the entry's meaningful field maps in file order.
func (e *StringTableEntry) fields(t StringTableType) []*[LanguageCount]string {
	all := []*[LanguageCount]string{&e.Text, &e.Description, &e.StartMessage, &e.EndMessage}
	return all[:t.FieldCount()]
}

// StringTable is an STL file: string-keyed entries with per-language text
// fields. On disk the cells are reached through a table of tables of
// absolute offsets (language, then key); in memory the offsets do not exist.
type StringTable struct {
	Type    StringTableType
	Entries map[string]*StringTableEntry
}

// NewStringTable returns an empty table of the given type.
func NewStringTable(t StringTableType) *StringTable {
	return &StringTable{Type: t, Entries: make(map[string]*StringTableEntry)}
}

// Read decodes a string table. The traversal is language-major: each
// language's offset points at a table of per-key offsets, and each of those
// points at that key's cells. The cursor is saved and restored around every
// nested seek so the outer loops continue where they left off.
func (st *StringTable) Read(r *rw.Reader) error {
	tag, err := r.ReadStringU8()
	if err != nil {
		return err
	}
	if st.Type, err = ParseStringTableType(tag); err != nil {
		return err
	}

	keyCount, err := r.ReadUint32()
	if err != nil {
		return err
	}
	st.Entries = make(map[string]*StringTableEntry, keyCount)
	keys := make([]string, 0, keyCount)
	for i := uint32(0); i < keyCount; i++ {
		key, err := r.ReadStringVarbyte()
		if err != nil {
			return err
		}
		// The integer key duplicates the entry's position and is unused.
		if _, err := r.ReadUint32(); err != nil {
			return err
		}
		st.Entries[key] = &StringTableEntry{}
		keys = append(keys, key)
	}

	languageCount, err := r.ReadUint32()
	if err != nil {
		return err
	}
	for languageID := uint32(0); languageID < languageCount; languageID++ {
		languageOffset, err := r.ReadUint32()
		if err != nil {
			return err
		}
		languageResume := r.Position()

		// Languages beyond the known set are present in some tool-exported
		// files; their cells are simply not loaded.
		if languageID >= LanguageCount {
			continue
		}

		if err := r.Seek(int64(languageOffset)); err != nil {
			return err
		}
		for _, key := range keys {
			entryOffset, err := r.ReadUint32()
			if err != nil {
				return err
			}
			entryResume := r.Position()
			if err := r.Seek(int64(entryOffset)); err != nil {
				return err
			}

			for _, field := range st.Entries[key].fields(st.Type) {
				if field[languageID], err = r.ReadStringVarbyte(); err != nil {
					return err
				}
			}

			if err := r.Seek(entryResume); err != nil {
				return err
			}
		}

		if err := r.Seek(languageResume); err != nil {
			return err
		}
	}

	return nil
}

// Write encodes the table. Keys are ordered naturally (numeric runs compare
// by value) for deterministic output. Both offset levels are written as
// placeholders first — the language offset table, then one cell offset per
// key per language — and patched as the real positions become known.
func (st *StringTable) Write(w *rw.Writer) error {
	if err := w.WriteStringVarbyte(st.Type.Identifier()); err != nil {
		return err
	}

	keys := make([]string, 0, len(st.Entries))
	for key := range st.Entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return natural.Less(keys[i], keys[j]) })

	w.WriteUint32(uint32(len(keys)))
	for index, key := range keys {
		if err := w.WriteStringVarbyte(key); err != nil {
			return err
		}
		w.WriteUint32(uint32(index))
	}

	w.WriteUint32(LanguageCount)
	languageOffsets := w.Position()
	for i := 0; i < LanguageCount; i++ {
		w.WriteUint32(0)
	}

	// One placeholder per key per language, patched as each cell is written.
	entryOffsets := w.Position()
	for language := 0; language < LanguageCount; language++ {
		position := w.Position()
		w.Seek(languageOffsets + 4*int64(language))
		w.WriteUint32(uint32(position))
		w.Seek(position)

		for range keys {
			w.WriteUint32(0)
		}
	}

	for language := 0; language < LanguageCount; language++ {
		languageEntryOffsets := entryOffsets + int64(language*len(keys)*4)
		for index, key := range keys {
			position := w.Position()
			w.Seek(languageEntryOffsets + 4*int64(index))
			w.WriteUint32(uint32(position))
			w.Seek(position)

			for _, field := range st.Entries[key].fields(st.Type) {
				if err := w.WriteStringVarbyte(field[language]); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
