package pinyin

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"nihao", "ni'hao"},
		{"zhongguo", "zhong'guo"},
		{"xi'an", "xi'an"},
		{"beijing", "bei'jing"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			encoded := EncodeOneUserPinyin(tc.input, None)
			decoded := DecodeFullPinyin(encoded)
			if decoded != tc.want {
				t.Fatalf("round trip %q -> %x -> %q, want %q", tc.input, encoded, decoded, tc.want)
			}
		})
	}
}

func TestEncodeOneUserPinyinTwoBytesPerSyllable(t *testing.T) {
	encoded := EncodeOneUserPinyin("nihao", None)
	if len(encoded) != 4 {
		t.Fatalf("len(encoded) = %d, want 4 for two syllables", len(encoded))
	}
}

func TestEncodeOneUserPinyinUnknownByte(t *testing.T) {
	encoded := EncodeOneUserPinyin("n1", None)
	if len(encoded) < 4 {
		t.Fatalf("expected at least 4 bytes (two unknown-byte fallback edges, two bytes each), got %x", encoded)
	}

	var sawUnknown bool
	for i := 0; i < len(encoded)-1; i++ {
		if encoded[i] == unknownByteSentinel {
			sawUnknown = true
		}
	}
	if !sawUnknown {
		t.Fatalf("expected the unknown byte sentinel in %x", encoded)
	}
}

func TestDecodeFullPinyinNoDoubleApostrophe(t *testing.T) {
	encoded := EncodeOneUserPinyin("xi'an", None)
	decoded := DecodeFullPinyin(encoded)
	if decoded != "xi'an" {
		t.Fatalf("DecodeFullPinyin(%x) = %q, want %q", encoded, decoded, "xi'an")
	}
	for i := 0; i+1 < len(decoded); i++ {
		if decoded[i] == '\'' && decoded[i+1] == '\'' {
			t.Fatalf("decoded string %q contains a doubled apostrophe", decoded)
		}
	}
}
