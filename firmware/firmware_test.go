package firmware

import "testing"

func TestScanShortImageIsEmpty(t *testing.T) {
	if got := Scan([]byte{1, 2, 3}, []Signature{{Magic: 1}}, 4); got != nil {
		t.Fatalf("Scan on a <8 byte image = %v, want nil", got)
	}
}

func TestScanPriorityReplacesCandidates(t *testing.T) {
	modelA, modelB, modelC := "A", "B", "C"
	sigs := []Signature{
		{Magic: 0x3080044082_3F0400, Model: modelA, Priority: 0},
		{Magic: 0x1111111111111111, Model: modelB, Priority: 0},
		{Magic: 0x0020_08E0_0300_0085, Model: modelC, Priority: 2},
	}

	var image []byte
	image = append(image, uint64Bytes(sigs[0].Magic)...)
	image = append(image, uint64Bytes(sigs[1].Magic)...)
	image = append(image, uint64Bytes(sigs[2].Magic)...)

	got := Scan(image, sigs, 4)
	if len(got) != 1 || got[0] != modelC {
		t.Fatalf("Scan = %v, want only modelC (highest priority)", got)
	}
}

func TestScanEqualPriorityAppendsUpToMax(t *testing.T) {
	modelA, modelB := "A", "B"
	sigs := []Signature{
		{Magic: 0x0102030405060708, Model: modelA, Priority: 0},
		{Magic: 0x1112131415161718, Model: modelB, Priority: 0},
	}
	image := append(uint64Bytes(sigs[0].Magic), uint64Bytes(sigs[1].Magic)...)

	got := Scan(image, sigs, 1)
	if len(got) != 1 {
		t.Fatalf("Scan with maxGuesses=1 returned %d candidates, want 1", len(got))
	}

	got = Scan(image, sigs, 4)
	if len(got) != 2 {
		t.Fatalf("Scan with maxGuesses=4 returned %d candidates, want 2", len(got))
	}
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
