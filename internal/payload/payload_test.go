package payload

import (
	"bytes"
	"testing"
)

func TestBase65536_RoundTripsEvenLength(t *testing.T) {
	data := []byte("the quick brown fox jumps over")
	if len(data)%2 != 0 {
		data = append(data, 'x')
	}
	s := EncodeBase65536(data)
	got, err := DecodeBase65536(s)
	if err != nil {
		t.Fatalf("DecodeBase65536() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip = %v, want %v", got, data)
	}
}

func TestBase65536_RoundTripsOddLength(t *testing.T) {
	data := []byte("odd length payload!")
	if len(data)%2 == 0 {
		data = data[:len(data)-1]
	}
	s := EncodeBase65536(data)
	got, err := DecodeBase65536(s)
	if err != nil {
		t.Fatalf("DecodeBase65536() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip = %v, want %v", got, data)
	}
}

func TestBase65536_RoundTripsEmpty(t *testing.T) {
	s := EncodeBase65536(nil)
	if s != "" {
		t.Fatalf("EncodeBase65536(nil) = %q, want empty string", s)
	}
	got, err := DecodeBase65536(s)
	if err != nil {
		t.Fatalf("DecodeBase65536(\"\") error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("DecodeBase65536(\"\") = %v, want empty", got)
	}
}

func TestDecodeBase65536_RejectsOutOfRangeCodepoint(t *testing.T) {
	if _, err := DecodeBase65536("hello"); err == nil {
		t.Fatalf("DecodeBase65536() of plain ASCII should fail (outside encodable range)")
	}
}

func TestDecode_RejectsShortPayload(t *testing.T) {
	if _, _, _, err := Decode(make([]byte, 5)); err == nil {
		t.Fatalf("Decode() of a 5-byte payload should fail (minimum 21 bytes)")
	}
}

func TestDecode_SplitsVersionHMACAndBody(t *testing.T) {
	raw := make([]byte, 0, 30)
	raw = append(raw, 0x00)
	raw = append(raw, bytes.Repeat([]byte{0xAB}, 20)...)
	raw = append(raw, []byte("body")...)

	version, hmacGiven, body, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if version != 0 {
		t.Fatalf("version = %d, want 0", version)
	}
	if !bytes.Equal(hmacGiven[:], bytes.Repeat([]byte{0xAB}, 20)) {
		t.Fatalf("hmacGiven = %x, want 20 bytes of 0xAB", hmacGiven)
	}
	if string(body) != "body" {
		t.Fatalf("body = %q, want %q", body, "body")
	}
}

func TestVerifyHMAC_AcceptsMatchingComputedHMAC(t *testing.T) {
	key := []byte("secret")
	body := []byte("the payload")
	given := ComputeHMAC(key, body)

	if !VerifyHMAC(key, body, given) {
		t.Fatalf("VerifyHMAC() of a freshly computed HMAC should succeed")
	}
}

func TestVerifyHMAC_RejectsTamperedBody(t *testing.T) {
	key := []byte("secret")
	given := ComputeHMAC(key, []byte("original"))

	if VerifyHMAC(key, []byte("tampered"), given) {
		t.Fatalf("VerifyHMAC() of a tampered body should fail")
	}
}

func TestQuakePrefectureData_RoundTrip(t *testing.T) {
	q := &QuakePrefectureData{
		Time:      1704096600,
		Epicenter: &Epicenter{LatX10: 375, LonX10: 1372},
		One:       &AreaCodes{Codes: []uint32{211, 355, 357}},
		Seven:     &AreaCodes{Codes: []uint32{390}},
	}

	encoded := q.Marshal()

	var got QuakePrefectureData
	if err := got.Unmarshal(encoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.Time != q.Time {
		t.Fatalf("Time = %d, want %d", got.Time, q.Time)
	}
	if got.Epicenter == nil || *got.Epicenter != *q.Epicenter {
		t.Fatalf("Epicenter = %+v, want %+v", got.Epicenter, q.Epicenter)
	}
	if got.One == nil || !equalUint32(got.One.Codes, q.One.Codes) {
		t.Fatalf("One = %+v, want %+v", got.One, q.One)
	}
	if got.Seven == nil || !equalUint32(got.Seven.Codes, q.Seven.Codes) {
		t.Fatalf("Seven = %+v, want %+v", got.Seven, q.Seven)
	}
	if got.Two != nil {
		t.Fatalf("Two = %+v, want nil (field was never set)", got.Two)
	}
}

func TestQuakePrefectureData_NegativeEpicenterRoundTrips(t *testing.T) {
	q := &QuakePrefectureData{Time: 1, Epicenter: &Epicenter{LatX10: -355, LonX10: -200}}
	var got QuakePrefectureData
	if err := got.Unmarshal(q.Marshal()); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if *got.Epicenter != *q.Epicenter {
		t.Fatalf("Epicenter = %+v, want %+v", got.Epicenter, q.Epicenter)
	}
}

func TestTsunamiData_RoundTrip(t *testing.T) {
	tsu := &TsunamiData{
		Time: 1704096600,
		Levels: map[TsunamiLevel]*AreaCodes{
			LevelMajorWarning: {Codes: []uint32{390, 391}},
			LevelAdvisory:     {Codes: []uint32{100}},
		},
	}

	var got TsunamiData
	if err := got.Unmarshal(tsu.Marshal()); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Time != tsu.Time {
		t.Fatalf("Time = %d, want %d", got.Time, tsu.Time)
	}
	if len(got.Levels) != 2 {
		t.Fatalf("len(Levels) = %d, want 2", len(got.Levels))
	}
	if !equalUint32(got.Levels[LevelMajorWarning].Codes, []uint32{390, 391}) {
		t.Fatalf("Levels[LevelMajorWarning] = %+v", got.Levels[LevelMajorWarning])
	}
}

func equalUint32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
