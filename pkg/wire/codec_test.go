package wire

import "testing"

func TestSignExtend24(t *testing.T) {
	tests := []struct {
		name string
		in   uint32
		want int32
	}{
		{"zero", 0x000000, 0},
		{"one", 0x000001, 1},
		{"max positive", 0x7FFFFF, 0x7FFFFF},
		{"all ones", 0xFFFFFF, -1},
		{"min negative", 0x800000, -8388608},
		{"high garbage bits ignored", 0xFF800000, -8388608},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignExtend24(tt.in)
			if got != tt.want {
				t.Errorf("SignExtend24(%#x) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestPackU16LE(t *testing.T) {
	p := make([]byte, 2)
	PackU16LE(p, 0xABCD)
	want := []byte{0xCD, 0xAB}
	if p[0] != want[0] || p[1] != want[1] {
		t.Errorf("PackU16LE = %v, want %v", p, want)
	}
}

func TestPackU32LE(t *testing.T) {
	p := make([]byte, 4)
	PackU32LE(p, 0x11223344)
	want := []byte{0x44, 0x33, 0x22, 0x11}
	for i := range want {
		if p[i] != want[i] {
			t.Fatalf("PackU32LE = %v, want %v", p, want)
		}
	}
}

func TestPackI32LE_MinusOneIsAllOnes(t *testing.T) {
	p := make([]byte, 4)
	PackI32LE(p, -1)
	for _, b := range p {
		if b != 0xFF {
			t.Fatalf("PackI32LE(-1) = %v, want all 0xFF", p)
		}
	}
}
