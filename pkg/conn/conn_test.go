package conn

import "testing"

func TestCostOutOfBounds(t *testing.T) {
	m := NewOwned(2, 0, 0, nil, []int16{1, 2, 3, 4})
	if m.Cost(0, 1) != 2 {
		t.Fatalf("expected cost 2, got %d", m.Cost(0, 1))
	}
	if m.Cost(100, 100) != 0 {
		t.Fatalf("expected 0 for out-of-bounds index, got %d", m.Cost(100, 100))
	}
}

func TestIsFunctionWord(t *testing.T) {
	m := NewOwned(10, 5, 8, nil, make([]int16, 100))
	if m.IsFunctionWord(4) || m.IsFunctionWord(9) {
		t.Fatal("ids outside range should not be function words")
	}
	if !m.IsFunctionWord(5) || !m.IsFunctionWord(8) {
		t.Fatal("ids at range boundary should be function words")
	}
	none := NewOwned(10, 0, 0, nil, make([]int16, 100))
	if none.IsFunctionWord(0) {
		t.Fatal("fw_min == 0 means no function-word range")
	}
}

func TestRoles(t *testing.T) {
	m := NewOwned(4, 0, 0, []byte{0, 1, 2, 3}, make([]int16, 16))
	if m.Role(1) != RoleFunction {
		t.Fatal("expected RoleFunction")
	}
	if !m.IsSuffix(2) {
		t.Fatal("expected id 2 to be suffix")
	}
	if !m.IsPrefix(3) {
		t.Fatal("expected id 3 to be prefix")
	}
	if m.Role(100) != RoleContent {
		t.Fatal("ids beyond roles table should be RoleContent")
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	m := NewOwned(3, 1, 2, []byte{0, 1, 2}, []int16{10, -5, 0, 3, 7, -1, 2, 4, 6})
	data := m.ToBytes()
	m2, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	for l := uint16(0); l < 3; l++ {
		for r := uint16(0); r < 3; r++ {
			if m.Cost(l, r) != m2.Cost(l, r) {
				t.Fatalf("cost mismatch at (%d,%d): %d vs %d", l, r, m.Cost(l, r), m2.Cost(l, r))
			}
		}
	}
}

func TestFromTextMozc(t *testing.T) {
	text := "4\n1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n13\n14\n15\n16\n"
	m, err := FromText(text)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if m.Cost(0, 0) != 1 || m.Cost(3, 3) != 16 {
		t.Fatalf("unexpected costs: %d %d", m.Cost(0, 0), m.Cost(3, 3))
	}
}

func TestFromTextMeCab(t *testing.T) {
	text := "2 2\n0 0 5\n1 0 7\n0 1 9\n1 1 11\n"
	m, err := FromText(text)
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if m.Cost(0, 0) != 5 || m.Cost(0, 1) != 7 || m.Cost(1, 0) != 9 || m.Cost(1, 1) != 11 {
		t.Fatalf("unexpected MeCab-format costs")
	}
}

func TestDecodeBadMagic(t *testing.T) {
	bad := make([]byte, fixedHeaderSize)
	copy(bad, "XXXX")
	if _, err := FromBytes(bad); err != ErrInvalidMagic {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}
