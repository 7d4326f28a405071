package model

import "testing"

func TestLookupWidth(t *testing.T) {
	tests := []struct {
		name string
		want Width
		ok   bool
	}{
		{"uint32", Uint32, true},
		{"u32", Uint32, true},
		{"byte", Uint8, true},
		{"int64", Int64, true},
		{"i8", Int8, true},
		{"uint", Width{}, false},
		{"u128", Width{}, false},
	}
	for _, tt := range tests {
		got, ok := LookupWidth(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("LookupWidth(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWidthBounds(t *testing.T) {
	if Uint8.Mask() != 0xFF || Uint64.Mask() != ^uint64(0) {
		t.Errorf("masks: %x %x", Uint8.Mask(), Uint64.Mask())
	}
	if Int8.Max() != 0x7F || Int8.Min() != -128 {
		t.Errorf("int8 bounds: %x %d", Int8.Max(), Int8.Min())
	}
	if Int64.Min() != -1<<63 {
		t.Errorf("int64 min: %d", Int64.Min())
	}
	if Int16.Int64(0xFFFF) != -1 || Uint16.Int64(0xFFFF) != 0xFFFF {
		t.Error("sign extension")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		w    Width
		bits uint64
		want string
	}{
		{Uint32, 0x111, "0x00000111"},
		{Uint8, 0x1, "0x01"},
		{Uint64, 1 << 63, "0x8000000000000000"},
		{Int8, 0x80, "-0x80"},
		{Int8, 0xFF, "-0x01"},
		{Int16, 0x10, "0x0010"},
		{Int64, 1 << 63, "-0x8000000000000000"},
	}
	for _, tt := range tests {
		if got := tt.w.Format(tt.bits); got != tt.want {
			t.Errorf("%s.Format(%#x) = %s, want %s", tt.w, tt.bits, got, tt.want)
		}
	}
}

func TestClosestWidth(t *testing.T) {
	tests := map[string]string{
		"UINT32": "uint32",
		"uint31": "uint32",
		"u33":    "u32",
		"int":    "int8",
		"banana": "",
	}
	for in, want := range tests {
		if got := ClosestWidth(in); got != want {
			t.Errorf("ClosestWidth(%q) = %q, want %q", in, got, want)
		}
	}
}
