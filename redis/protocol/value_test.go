package protocol

import "testing"

func TestEqual(t *testing.T) {
	tree := func() Value {
		return MakeArrayValue([]Value{
			MakeIntValue(2),
			MakeTextValue([]byte("three")),
			MakeArrayValue([]Value{MakeIntValue(4)}),
		})
	}
	if !Equal(tree(), tree()) {
		t.Error("identical trees reported unequal")
	}
	if Equal(MakeIntValue(1), MakeIntValue(2)) {
		t.Error("different integers reported equal")
	}
	if Equal(MakeIntValue(1), MakeTextValue([]byte("1"))) {
		t.Error("different kinds reported equal")
	}
	if Equal(MakeArrayValue([]Value{MakeIntValue(1)}), MakeEmptyArrayValue()) {
		t.Error("arrays of different length reported equal")
	}
	if !Equal(MakeNullValue(), MakeNullValue()) || !Equal(nil, nil) || Equal(nil, MakeNullValue()) {
		t.Error("null comparison failed")
	}
}

func TestFormat(t *testing.T) {
	v := MakeArrayValue([]Value{
		MakeIntValue(2),
		MakeTextValue([]byte("a\r\nb")),
		MakeArrayValue([]Value{MakeIntValue(4), MakeNullValue()}),
		MakeEmptyArrayValue(),
	})
	expected := "1) (integer) 2\n" +
		"2) \"a\\r\\nb\"\n" +
		"3) 1) (integer) 4\n" +
		"   2) (nil)\n" +
		"4) (empty array)"
	if actual := Format(v); actual != expected {
		t.Errorf("expected:\n%s\nactually:\n%s", expected, actual)
	}
	if v.String() != expected {
		t.Error("String should match Format for arrays")
	}
}

func TestFormatWideIndex(t *testing.T) {
	items := make([]Value, 10)
	for i := range items {
		items[i] = MakeIntValue(int32(i))
	}
	actual := Format(MakeArrayValue(items))
	if actual[:15] != " 1) (integer) 0" {
		t.Errorf("index should be right aligned, actually %q", actual[:15])
	}
}

func TestKindString(t *testing.T) {
	if KindText.String() != "text" || Kind(9).String() != "kind(9)" {
		t.Error("kind names mismatch")
	}
	if MakeTextValue(nil).Kind() != KindText || MakeNullValue().Kind() != KindNull {
		t.Error("kind mismatch")
	}
}
