package formats

import (
	"reflect"
	"testing"

	"github.com/Faultbox/junon-rose/pkg/rw"
)

func buildQuestStringTable() *StringTable {
	st := NewStringTable(StringTableQuest)
	entry := &StringTableEntry{}
	entry.Text[LanguageKorean] = "한국어 이름"
	entry.Text[LanguageEnglish] = "Quest Name"
	entry.Description[LanguageEnglish] = "A description"
	entry.StartMessage[LanguageEnglish] = "It begins"
	entry.EndMessage[LanguageEnglish] = "It ends"
	st.Entries["QUEST_001"] = entry
	st.Entries["QUEST_002"] = &StringTableEntry{}
	return st
}

func TestStringTableRoundTrip(t *testing.T) {
	st := buildQuestStringTable()

	w := rw.NewWriter()
	if err := st.Write(w); err != nil {
		t.Fatal(err)
	}

	var got StringTable
	if err := got.Read(rw.NewReader(w.Bytes())); err != nil {
		t.Fatal(err)
	}

	if got.Type != StringTableQuest {
		t.Errorf("Type = %v", got.Type)
	}
	if !reflect.DeepEqual(got.Entries, st.Entries) {
		t.Errorf("entries mismatch:\ngot  %+v\nwant %+v", got.Entries, st.Entries)
	}
}

func TestStringTableTextTypeFields(t *testing.T) {
	st := NewStringTable(StringTableText)
	entry := &StringTableEntry{}
	entry.Text[LanguageEnglish] = "Hello"
	// Description is meaningless for a Text table and must not survive.
	entry.Description[LanguageEnglish] = "dropped"
	st.Entries["STR_001"] = entry

	w := rw.NewWriter()
	if err := st.Write(w); err != nil {
		t.Fatal(err)
	}
	var got StringTable
	if err := got.Read(rw.NewReader(w.Bytes())); err != nil {
		t.Fatal(err)
	}

	e := got.Entries["STR_001"]
	if e == nil {
		t.Fatal("entry missing")
	}
	if e.Text[LanguageEnglish] != "Hello" {
		t.Errorf("Text = %q", e.Text[LanguageEnglish])
	}
	if e.Description[LanguageEnglish] != "" {
		t.Errorf("Description survived a Text table: %q", e.Description[LanguageEnglish])
	}
}

func TestStringTableNaturalKeyOrder(t *testing.T) {
	st := NewStringTable(StringTableText)
	for _, key := range []string{"item10", "item1", "item2"} {
		st.Entries[key] = &StringTableEntry{}
	}

	w := rw.NewWriter()
	if err := st.Write(w); err != nil {
		t.Fatal(err)
	}

	// Skip the identifier and count, then read the key section directly.
	r := rw.NewReader(w.Bytes())
	if _, err := r.ReadStringU8(); err != nil {
		t.Fatal(err)
	}
	count, err := r.ReadUint32()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("key count = %d", count)
	}

	want := []string{"item1", "item2", "item10"}
	for i, expected := range want {
		key, err := r.ReadStringVarbyte()
		if err != nil {
			t.Fatal(err)
		}
		index, err := r.ReadUint32()
		if err != nil {
			t.Fatal(err)
		}
		if key != expected {
			t.Errorf("key %d = %q, want %q", i, key, expected)
		}
		if index != uint32(i) {
			t.Errorf("key %q index = %d, want %d", key, index, i)
		}
	}
}

func TestStringTableInvalidIdentifier(t *testing.T) {
	w := rw.NewWriter()
	if err := w.WriteStringVarbyte("XXST01"); err != nil {
		t.Fatal(err)
	}
	w.WriteUint32(0)

	var got StringTable
	if err := got.Read(rw.NewReader(w.Bytes())); err == nil {
		t.Error("expected identifier error")
	}
}

func TestParseStringTableType(t *testing.T) {
	tests := []struct {
		tag     string
		want    StringTableType
		wantErr bool
	}{
		{"NRST01", StringTableText, false},
		{"ITST01", StringTableDescription, false},
		{"QEST01", StringTableQuest, false},
		{"NRST02", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseStringTableType(tt.tag)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStringTableType(%q) error = %v", tt.tag, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseStringTableType(%q) = %v, want %v", tt.tag, got, tt.want)
		}
		if err == nil && got.Identifier() != tt.tag {
			t.Errorf("Identifier() = %q, want %q", got.Identifier(), tt.tag)
		}
	}
}

func TestLanguageString(t *testing.T) {
	if LanguageKorean.String() != "Korean" || LanguageFrench.String() != "French" {
		t.Error("language names wrong")
	}
	if Language(42).String() != "Unknown(42)" {
		t.Errorf("unknown language = %q", Language(42).String())
	}
}
